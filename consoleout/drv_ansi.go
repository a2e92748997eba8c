package consoleout

import (
	"fmt"
	"io"
	"os"
)

// AnsiOutputDriver holds our state.
type AnsiOutputDriver struct {
	// writer is where we send our output
	writer io.Writer

	// row holds the row the cursor is upon.
	row int

	// col holds the column the next character will appear in.
	col int
}

// GetName returns the name of this driver.
//
// This is part of the OutputDriver interface.
func (ad *AnsiOutputDriver) GetName() string {
	return "ansi"
}

// Clear blanks the screen and homes the cursor.
//
// This is part of the OutputDriver interface.
func (ad *AnsiOutputDriver) Clear() {
	fmt.Fprintf(ad.writer, "\033[H\033[2J")
	ad.row = 0
	ad.col = 0
}

// PutCharacterAt writes the specified character to the console.
//
// Text written in reading order is streamed as-is, with a newline between
// rows, so the output remains readable when redirected to a file.  Any
// other movement uses a cursor-positioning sequence.
//
// This is part of the OutputDriver interface.
func (ad *AnsiOutputDriver) PutCharacterAt(row, col int, c uint8) {

	switch {
	case row == ad.row && col == ad.col:
		// nop
	case row == ad.row+1 && col == 0:
		fmt.Fprintf(ad.writer, "\r\n")
	default:
		fmt.Fprintf(ad.writer, "\033[%d;%dH", row+1, col+1)
	}

	fmt.Fprintf(ad.writer, "%c", c)
	ad.row = row
	ad.col = col + 1
}

// Flush terminates the current row.
//
// This is part of the OutputDriver interface.
func (ad *AnsiOutputDriver) Flush() {
	if ad.col != 0 {
		fmt.Fprintf(ad.writer, "\r\n")
		ad.row++
		ad.col = 0
	}
}

// SetWriter will update the writer.
func (ad *AnsiOutputDriver) SetWriter(w io.Writer) {
	ad.writer = w
}

// init registers our driver, by name.
func init() {
	Register("ansi", func() ConsoleOutput {
		return &AnsiOutputDriver{
			writer: os.Stdout,
		}
	})
}
