// Package video decodes the 40x24 text page into characters.
//
// The text page occupies $0400-$07FF, but the rows are not stored in
// order.  Each group of eight consecutive rows is spread across the page
// at a stride of $80 bytes, and the three groups sit $28 bytes apart.
// That leaves eight 8-byte "screen holes" which never appear on screen.
package video

const (
	// Rows is the number of text rows.
	Rows = 24

	// Columns is the number of characters upon each row.
	Columns = 40

	// TextBase is the address of the first byte of the text page.
	TextBase uint16 = 0x0400

	// Placeholder is shown for bytes which have no printable form.
	Placeholder = '.'
)

// Reader is the view of memory the decoder needs.
type Reader interface {
	Read(addr uint16) uint8
}

// TextAddress returns the memory address of the given text cell.
//
// row must be in the range 0-23, and col in the range 0-39.
func TextAddress(row, col int) uint16 {
	return TextBase +
		uint16((row&0x07)<<7) +
		uint16((row>>3)*0x28) +
		uint16(col)
}

// Classify converts a byte from the text page into a printable character.
func Classify(v uint8) uint8 {
	switch {
	case v >= 0xA0 && v <= 0xDF:
		// normal video
		return v & 0x7F
	case v >= 0x20 && v <= 0x7F:
		return v
	}
	return Placeholder
}

// Decoder reads the text page from memory.
type Decoder struct {
	mem Reader
}

// NewDecoder returns a decoder which reads from the given memory.
func NewDecoder(mem Reader) *Decoder {
	return &Decoder{mem: mem}
}

// Decode returns the current contents of the screen.
func (d *Decoder) Decode() [Rows][Columns]uint8 {
	var grid [Rows][Columns]uint8

	for row := 0; row < Rows; row++ {
		for col := 0; col < Columns; col++ {
			grid[row][col] = Classify(d.mem.Read(TextAddress(row, col)))
		}
	}
	return grid
}

// Lines returns the screen as 24 strings of exactly 40 characters.
func (d *Decoder) Lines() []string {
	grid := d.Decode()

	lines := make([]string, 0, Rows)
	for _, row := range grid {
		lines = append(lines, string(row[:]))
	}
	return lines
}
