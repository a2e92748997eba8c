package cpu

import (
	"github.com/beevik/go6502/cpu"
)

// MOS6502 is an Engine backed by the NMOS 6502 emulation from go6502.
type MOS6502 struct {
	// core is the processor doing the real work.
	core *cpu.CPU

	// bus is the memory the processor is wired to.
	bus Bus
}

// NewMOS6502 creates an NMOS 6502 wired to the given bus.
//
// The processor is not reset, callers should invoke Reset once memory
// has been populated.
func NewMOS6502(bus Bus) *MOS6502 {
	return &MOS6502{
		core: cpu.NewCPU(cpu.NMOS, &memoryAdapter{bus: bus}),
		bus:  bus,
	}
}

// Reset clears the registers and loads the program counter from the
// reset vector.
func (m *MOS6502) Reset() {
	m.core.Reg.Init()
	m.core.Reg.SP = 0xFD
	m.core.Reg.InterruptDisable = true

	m.core.SetPC(m.core.Mem.LoadAddress(ResetVector))
}

// Step executes a single instruction, and returns the cycles it took.
func (m *MOS6502) Step() int {
	before := m.core.Cycles
	m.core.Step()
	return int(m.core.Cycles - before)
}

// Registers returns a snapshot of the processor state.
func (m *MOS6502) Registers() Registers {
	return Registers{
		PC:    m.core.Reg.PC,
		A:     m.core.Reg.A,
		X:     m.core.Reg.X,
		Y:     m.core.Reg.Y,
		S:     m.core.Reg.SP,
		Flags: m.core.Reg.SavePS(false),
	}
}

// memoryAdapter presents a Bus as the memory interface go6502 expects.
//
// Every access is made a byte at a time, so the soft-switches are seen
// exactly as the processor touches them.
type memoryAdapter struct {
	bus Bus
}

func (ma *memoryAdapter) LoadByte(addr uint16) byte {
	return ma.bus.Read(addr)
}

func (ma *memoryAdapter) LoadBytes(addr uint16, b []byte) {
	for i := range b {
		b[i] = ma.bus.Read(addr + uint16(i))
	}
}

// LoadAddress wraps within the page for the high byte, as the NMOS part does.
func (ma *memoryAdapter) LoadAddress(addr uint16) uint16 {
	hi := addr + 1
	if (addr & 0xFF) == 0xFF {
		hi = addr - 0xFF
	}
	return uint16(ma.bus.Read(addr)) | uint16(ma.bus.Read(hi))<<8
}

func (ma *memoryAdapter) StoreByte(addr uint16, v byte) {
	ma.bus.Write(addr, v)
}

func (ma *memoryAdapter) StoreBytes(addr uint16, b []byte) {
	for i, v := range b {
		ma.bus.Write(addr+uint16(i), v)
	}
}

func (ma *memoryAdapter) StoreAddress(addr uint16, v uint16) {
	ma.bus.Write(addr, uint8(v&0xFF))
	ma.bus.Write(addr+1, uint8(v>>8))
}
