package consoleout

import (
	"io"
	"os"
	"strings"
)

// OutputLoggingDriver holds our state.
type OutputLoggingDriver struct {

	// writer is where we send our output
	writer io.Writer

	// screen holds the rows written since the last clear.
	screen [][]byte

	// clears counts the number of times the screen was cleared.
	clears int
}

// GetName returns the name of this driver.
//
// This is part of the OutputDriver interface.
func (ol *OutputLoggingDriver) GetName() string {
	return "logger"
}

// Clear discards the recorded screen.
//
// This is part of the OutputDriver interface.
func (ol *OutputLoggingDriver) Clear() {
	ol.screen = nil
	ol.clears++
}

// PutCharacterAt records the character, as this is a recording-driver
// nothing is output.  Gaps are padded with spaces.
//
// This is part of the OutputDriver interface.
func (ol *OutputLoggingDriver) PutCharacterAt(row, col int, c uint8) {
	if row < 0 || col < 0 {
		return
	}
	for len(ol.screen) <= row {
		ol.screen = append(ol.screen, nil)
	}
	for len(ol.screen[row]) <= col {
		ol.screen[row] = append(ol.screen[row], ' ')
	}
	ol.screen[row][col] = c
}

// Flush is a NOP.
//
// This is part of the OutputDriver interface.
func (ol *OutputLoggingDriver) Flush() {
}

// SetWriter will update the writer.
func (ol *OutputLoggingDriver) SetWriter(w io.Writer) {
	ol.writer = w
}

// GetOutput returns the recorded screen, each row newline-terminated.
//
// This is part of the ConsoleRecorder interface
func (ol *OutputLoggingDriver) GetOutput() string {
	var sb strings.Builder
	for _, row := range ol.screen {
		sb.Write(row)
		sb.WriteString("\n")
	}
	return sb.String()
}

// GetClears returns the number of times the screen has been cleared.
func (ol *OutputLoggingDriver) GetClears() int {
	return ol.clears
}

// Reset removes our history.
//
// This is part of the ConsoleRecorder interface
func (ol *OutputLoggingDriver) Reset() {
	ol.screen = nil
	ol.clears = 0
}

// init registers our driver, by name.
func init() {
	Register("logger", func() ConsoleOutput {
		return &OutputLoggingDriver{
			writer: os.Stdout,
		}
	})
}
