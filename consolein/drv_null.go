// drv_null is a console input-driver which never has any input.
//
// This driver is used when the emulator runs without a terminal,
// for example under test.

package consolein

import "io"

var (
	// NullInputName contains the name of this driver.
	NullInputName = "null"
)

// NullInput is an input-driver that never has pending input.
type NullInput struct {
}

// Setup is a NOP.
func (ni *NullInput) Setup() error {
	return nil
}

// TearDown is a NOP.
func (ni *NullInput) TearDown() error {
	return nil
}

// PendingInput always returns false.
func (ni *NullInput) PendingInput() bool {
	return false
}

// GetName returns the name of this driver, "null".
func (ni *NullInput) GetName() string {
	return NullInputName
}

// BlockForCharacterNoEcho returns EOF, there will never be input.
func (ni *NullInput) BlockForCharacterNoEcho() (byte, error) {
	return 0x00, io.EOF
}

// init registers our driver, by name.
func init() {
	Register(NullInputName, func() ConsoleInput {
		return new(NullInput)
	})
}
