// drv_error is a console input-driver which always claims to have input
// and then fails to read it.
//
// This driver is only used for testing purposes, to exercise the error
// path of the frame loop.

package consolein

import "errors"

var (
	// ErrorInputName contains the name of this driver.
	ErrorInputName = "error"

	// errDriver is returned by every read.
	errDriver = errors.New("DRV_ERROR")
)

// ErrorInput is an input-driver that only returns errors.
type ErrorInput struct {
}

// Setup is a NOP.
func (ei *ErrorInput) Setup() error {
	return nil
}

// TearDown is a NOP.
func (ei *ErrorInput) TearDown() error {
	return nil
}

// PendingInput always reports input, so that a read is attempted.
func (ei *ErrorInput) PendingInput() bool {
	return true
}

// GetName returns the name of this driver, "error".
func (ei *ErrorInput) GetName() string {
	return ErrorInputName
}

// BlockForCharacterNoEcho fails.
func (ei *ErrorInput) BlockForCharacterNoEcho() (byte, error) {
	return 0x00, errDriver
}

// init registers our driver, by name.
func init() {
	Register(ErrorInputName, func() ConsoleInput {
		return new(ErrorInput)
	})
}
