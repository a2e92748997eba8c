package consoleout

import (
	"io"
	"os"
)

// NullOutputDriver holds our state.
type NullOutputDriver struct {

	// writer is where we send our output
	writer io.Writer
}

// GetName returns the name of this driver.
//
// This is part of the OutputDriver interface.
func (no *NullOutputDriver) GetName() string {
	return "null"
}

// Clear is a NOP.
func (no *NullOutputDriver) Clear() {
}

// PutCharacterAt discards the character.
//
// This is part of the OutputDriver interface.
func (no *NullOutputDriver) PutCharacterAt(row, col int, c uint8) {
	// NOTHING HAppens
}

// Flush is a NOP.
func (no *NullOutputDriver) Flush() {
}

// SetWriter will update the writer.
func (no *NullOutputDriver) SetWriter(w io.Writer) {
	no.writer = w
}

// init registers our driver, by name.
func init() {
	Register("null", func() ConsoleOutput {
		return &NullOutputDriver{
			writer: os.Stdout,
		}
	})
}
