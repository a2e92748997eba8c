// Package memory provides the 64k address space of the emulated machine,
// along with the memory-mapped keyboard which lives inside it.
//
// The CPU reaches memory exclusively through Read and Write, which is
// where the soft-switches are handled.  The remaining helpers operate on
// the raw storage and never trigger any I/O.
package memory

const (
	// KeyboardData is the soft-switch which reports the latched key,
	// with the high-bit set if the strobe is raised.
	KeyboardData uint16 = 0xC000

	// KeyboardStrobe is the soft-switch which clears the keyboard strobe
	// when it is read.
	KeyboardStrobe uint16 = 0xC010
)

// Bus holds the 64K address space, and the devices mapped into it.
type Bus struct {
	buf [65536]uint8

	// kbd is the keyboard latch/strobe pair.
	kbd Keyboard
}

// New returns a bus with all memory zeroed, and no key pending.
func New() *Bus {
	return &Bus{}
}

// Keyboard returns the keyboard device which is mapped into the bus.
func (b *Bus) Keyboard() *Keyboard {
	return &b.kbd
}

// Read is the CPU-facing read of a single byte.
//
// Reading KeyboardStrobe has a side-effect, it clears any pending key.
func (b *Bus) Read(addr uint16) uint8 {
	switch addr {
	case KeyboardData:
		v := b.kbd.latch & 0x7F
		if b.kbd.strobe {
			v |= 0x80
		}
		return v
	case KeyboardStrobe:
		b.kbd.Clear()
		return 0
	}
	return b.buf[addr]
}

// Write is the CPU-facing write of a single byte.
//
// Writes are never intercepted; the soft-switch addresses store the value
// like any other location.
func (b *Bus) Write(addr uint16, value uint8) {
	b.buf[addr] = value
}

// Set sets a byte at addr of memory.
func (b *Bus) Set(addr uint16, value uint8) {
	b.buf[addr] = value
}

// Get returns a byte at addr of memory, bypassing the soft-switches.
func (b *Bus) Get(addr uint16) uint8 {
	return b.buf[addr]
}

// GetU16 returns a little-endian word from the given address of memory.
func (b *Bus) GetU16(addr uint16) uint16 {
	l := b.Get(addr)
	h := b.Get(addr + 1)
	return (uint16(h) << 8) | uint16(l)
}

// SetRange copies bytes from the given data to the specified
// starting address in RAM.
//
// Callers must ensure the data fits, the copy is truncated at the top
// of memory.
func (b *Bus) SetRange(addr uint16, data ...uint8) {
	copy(b.buf[int(addr):], data)
}

// FillRange fills an area of memory with the given byte
func (b *Bus) FillRange(addr uint16, size int, char uint8) {
	for size > 0 {
		b.buf[addr] = char
		addr++
		size--
	}
}

// GetRange returns the contents of a given range
func (b *Bus) GetRange(addr uint16, size int) []uint8 {
	var ret []uint8
	for size > 0 {
		ret = append(ret, b.buf[addr])
		addr++
		size--
	}
	return ret
}
