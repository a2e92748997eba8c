package machine

import (
	"errors"
	"io"
	"log/slog"
)

// PressKey latches the given host key into the machine's keyboard.
//
// The keyboard has no lower-case, and uses carriage return and
// backspace, so the key is converted first.
func (m *Machine) PressKey(c byte) {
	switch {
	case c == '\n':
		c = '\r'
	case c == 0x7F:
		c = 0x08
	case c >= 'a' && c <= 'z':
		c -= 'a' - 'A'
	}

	m.bus.Keyboard().Press(c)
}

// StuffText inserts text into the input buffer, ahead of anything the
// input driver provides.
func (m *Machine) StuffText(text string) {
	m.input.StuffInput(text)
}

// pollInput drains the input driver, then moves a single key to the
// keyboard.
//
// Keys are queued while the previous one is still pending, so no keystroke
// is ever overwritten before the program sees it.  The driver is read even
// when the program isn't reading the keyboard, which is how a double
// Ctrl-C is always seen.
func (m *Machine) pollInput() error {

	for !m.inputDone && m.input.PendingInput() {
		c, err := m.input.BlockForCharacterNoEcho()
		if errors.Is(err, io.EOF) {
			m.Logger.Debug("Input exhausted",
				slog.String("driver", m.input.GetName()))
			m.inputDone = true
			break
		}
		if err != nil {
			return err
		}
		m.keys = append(m.keys, c)
	}

	if len(m.keys) > 0 && !m.bus.Keyboard().Pending() {
		m.PressKey(m.keys[0])
		m.keys = m.keys[1:]
	}
	return nil
}
