//go:build unix

// drv_stty creates a console input-driver which uses the
// `stty` binary to put the terminal into cbreak mode.
//
// This is obviously not portable outwith Unix-like systems.

package consolein

import (
	"fmt"
	"os"
	"os/exec"
)

// STTYInput is an input-driver that executes the 'stty' binary
// to disable line-buffering, and echo, for the lifetime of the emulator.
//
// Executing a binary is slow, so it only happens at setup and teardown,
// the keyboard is polled once per frame with select.
type STTYInput struct {

	// active is true if we changed the terminal, and must restore it.
	active bool
}

// stty runs the stty binary against the terminal on STDIN.
func (si *STTYInput) stty(args ...string) error {
	cmd := exec.Command("stty", args...)
	cmd.Stdin = os.Stdin

	out, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("error running stty %v: %w %s", args, err, out)
	}
	return nil
}

// Setup disables echo, and canonical mode.
func (si *STTYInput) Setup() error {
	err := si.stty("-echo", "-icanon", "min", "1")
	if err != nil {
		return err
	}
	si.active = true
	return nil
}

// TearDown resets the state of the terminal.
func (si *STTYInput) TearDown() error {
	if !si.active {
		return nil
	}
	si.active = false
	return si.stty("echo", "icanon")
}

// PendingInput returns true if there is pending input from STDIN.
func (si *STTYInput) PendingInput() bool {
	return canSelect()
}

// BlockForCharacterNoEcho returns the next character from the console, blocking until
// one is available.
func (si *STTYInput) BlockForCharacterNoEcho() (byte, error) {

	// read only a single byte
	b := make([]byte, 1)
	_, err := os.Stdin.Read(b)
	if err != nil {
		return 0x00, fmt.Errorf("error reading a byte from stdin: %w", err)
	}

	// Return the character we read
	return b[0], nil
}

// GetName is part of the module API, and returns the name of this driver.
func (si *STTYInput) GetName() string {
	return "stty"
}

// init registers our driver, by name.
func init() {
	Register("stty", func() ConsoleInput {
		return new(STTYInput)
	})
}
