// drv_termbox.go uses the Termbox library to draw the screen, cell
// by cell.
//
// The termbox library may already have been initialized by the input
// driver of the same name, so we only initialize it if that hasn't
// happened.

package consoleout

import (
	"io"

	"github.com/nsf/termbox-go"
)

// TermboxOutputDriver holds our state.
type TermboxOutputDriver struct {
	// owner is true if we initialized termbox, and so should close it.
	owner bool
}

// GetName returns the name of this driver.
//
// This is part of the OutputDriver interface.
func (td *TermboxOutputDriver) GetName() string {
	return "termbox"
}

// Setup initializes termbox, unless that has already been done.
func (td *TermboxOutputDriver) Setup() error {
	if termbox.IsInit {
		return nil
	}

	err := termbox.Init()
	if err != nil {
		return err
	}
	td.owner = true
	return nil
}

// TearDown closes termbox, if we opened it.
func (td *TermboxOutputDriver) TearDown() error {
	if td.owner {
		termbox.Close()
		td.owner = false
	}
	return nil
}

// Clear blanks the back buffer.
//
// This is part of the OutputDriver interface.
func (td *TermboxOutputDriver) Clear() {
	_ = termbox.Clear(termbox.ColorDefault, termbox.ColorDefault)
}

// PutCharacterAt places the character in the back buffer.
//
// This is part of the OutputDriver interface.
func (td *TermboxOutputDriver) PutCharacterAt(row, col int, c uint8) {
	termbox.SetCell(col, row, rune(c), termbox.ColorDefault, termbox.ColorDefault)
}

// Flush copies the back buffer to the terminal.
//
// This is part of the OutputDriver interface.
func (td *TermboxOutputDriver) Flush() {
	_ = termbox.Flush()
}

// SetWriter is a NOP, termbox always draws upon the terminal.
//
// This is part of the OutputDriver interface.
func (td *TermboxOutputDriver) SetWriter(w io.Writer) {
}

// init registers our driver, by name.
func init() {
	Register("termbox", func() ConsoleOutput {
		return new(TermboxOutputDriver)
	})
}
