// Package cpu describes the processor which the host drives.
//
// The host never decodes an instruction itself.  It hands an engine a Bus
// at construction time, and then asks it to Reset and Step.  Every memory
// access the engine makes goes through that Bus, which is how the
// memory-mapped devices get to see them.
package cpu

import "fmt"

const (
	// ResetVector is the location of the little-endian address from
	// which execution starts after a reset.
	ResetVector uint16 = 0xFFFC
)

// Bus is the capability an engine uses to reach memory.
type Bus interface {
	// Read returns the byte at the given address, possibly with
	// a side-effect upon a device.
	Read(addr uint16) uint8

	// Write stores the byte at the given address.
	Write(addr uint16, value uint8)
}

// Engine is the interface that must be implemented by anything
// which wishes to execute code for the host.
type Engine interface {

	// Reset resets the processor, loading the program counter from
	// the reset vector.
	Reset()

	// Step executes exactly one instruction, and returns the number of
	// cycles it consumed.
	Step() int

	// Registers returns a snapshot of the processor state.
	Registers() Registers
}

// Registers is a read-only snapshot of the processor registers, used
// for display.
type Registers struct {
	PC    uint16
	A     uint8
	X     uint8
	Y     uint8
	S     uint8
	Flags uint8
}

// String returns the registers in the fixed-width format used upon
// the status line.
func (r Registers) String() string {
	return fmt.Sprintf("PC=$%04X A=%02X X=%02X Y=%02X SP=%02X FLAGS=%02X",
		r.PC, r.A, r.X, r.Y, r.S, r.Flags)
}
