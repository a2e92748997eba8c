//go:build linux || darwin || freebsd

// drv_termios creates a console input-driver which talks to the
// terminal via termios directly, turning off canonical mode and
// echo for the lifetime of the emulator.
//
// Unlike the stty driver the terminal is only reconfigured twice,
// at setup and at teardown.

package consolein

import (
	"fmt"
	"os"

	"github.com/pkg/term/termios"
	"golang.org/x/sys/unix"
)

// TermiosInput is an input-driver which uses termios to place the
// terminal into non-canonical mode.
type TermiosInput struct {

	// original holds the terminal configuration we replaced.
	original unix.Termios

	// active is true if original is valid and must be restored.
	active bool
}

// Setup disables canonical mode and echo.
func (ti *TermiosInput) Setup() error {
	fd := os.Stdin.Fd()

	err := termios.Tcgetattr(fd, &ti.original)
	if err != nil {
		return fmt.Errorf("error reading terminal state: %w", err)
	}

	raw := ti.original
	raw.Lflag &^= unix.ICANON | unix.ECHO

	err = termios.Tcsetattr(fd, termios.TCSANOW, &raw)
	if err != nil {
		return fmt.Errorf("error setting terminal state: %w", err)
	}

	ti.active = true
	return nil
}

// TearDown restores the original terminal configuration.
func (ti *TermiosInput) TearDown() error {
	if !ti.active {
		return nil
	}
	ti.active = false

	return termios.Tcsetattr(os.Stdin.Fd(), termios.TCSANOW, &ti.original)
}

// PendingInput returns true if there is pending input from STDIN.
func (ti *TermiosInput) PendingInput() bool {
	return canSelect()
}

// BlockForCharacterNoEcho returns the next character from the console, blocking until
// one is available.
func (ti *TermiosInput) BlockForCharacterNoEcho() (byte, error) {

	// read only a single byte
	b := make([]byte, 1)
	_, err := os.Stdin.Read(b)
	if err != nil {
		return 0x00, fmt.Errorf("error reading a byte from stdin: %w", err)
	}
	return b[0], nil
}

// GetName is part of the module API, and returns the name of this driver.
func (ti *TermiosInput) GetName() string {
	return "termios"
}

// init registers our driver, by name.
func init() {
	Register("termios", func() ConsoleInput {
		return new(TermiosInput)
	})
}
