// Package consolein handles the reading of console input
// for our emulator.
//
// The emulated machine has a single keyboard latch, which the host
// fills a key at a time.  So the package supports the minimum required
// functionality - seeing if a key is pending, and reading a single key
// without echoing it.
//
// Note that no output functions are handled by this package,
// it is exclusively used for input.
package consolein

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInterrupted is returned when the user presses Ctrl-C twice in
	// a row, which is how the emulator is stopped while the terminal is
	// in raw mode.
	ErrInterrupted = errors.New("INTERRUPTED")
)

// ConsoleInput is the interface that must be implemented by anything
// that wishes to be used as an input driver.
//
// Providing this interface is implemented an object may register itself,
// by name, via the Register method.
type ConsoleInput interface {

	// Setup performs any specific setup which is required.
	Setup() error

	// TearDown performs any specific cleanup which is required.
	TearDown() error

	// PendingInput returns true if there is pending input available to be read.
	PendingInput() bool

	// BlockForCharacterNoEcho reads a single character from the console, without
	// echoing it.
	BlockForCharacterNoEcho() (byte, error)

	// GetName will return the name of the driver.
	GetName() string
}

// This is a map of known-drivers
var handlers = struct {
	m map[string]Constructor
}{m: make(map[string]Constructor)}

// Constructor is the signature of a constructor-function
// which is used to instantiate an instance of a driver.
type Constructor func() ConsoleInput

// Register makes a console driver available, by name.
//
// When one needs to be created the constructor can be called
// to create an instance of it.
func Register(name string, obj Constructor) {
	// Downcase for consistency.
	name = strings.ToLower(name)

	handlers.m[name] = obj
}

// ConsoleIn holds our state, which is the driver handling our input and
// any text which has been stuffed ahead of it.
type ConsoleIn struct {

	// driver is the thing that actually reads our input.
	driver ConsoleInput

	// stuffed holds fake input which has been forced into our buffer,
	// and is returned before anything from the driver.
	stuffed string

	// interrupts counts consecutive Ctrl-C keystrokes.
	interrupts int
}

// New is our constructor, it creates an input device which uses
// the specified driver.
func New(name string) (*ConsoleIn, error) {

	// Downcase for consistency.
	name = strings.ToLower(name)

	// Do we have a constructor with the given name?
	ctor, ok := handlers.m[name]
	if !ok {
		return nil, fmt.Errorf("failed to lookup driver by name '%s'", name)
	}

	// OK we do, return ourselves with that driver.
	return &ConsoleIn{
		driver: ctor(),
	}, nil
}

// GetDriver allows getting our driver at runtime.
func (ci *ConsoleIn) GetDriver() ConsoleInput {
	return ci.driver
}

// GetName returns the name of our selected driver.
func (ci *ConsoleIn) GetName() string {
	return ci.driver.GetName()
}

// GetDrivers returns all available driver-names.
//
// We hide the internal "error", and "null" drivers.
func (ci *ConsoleIn) GetDrivers() []string {
	valid := []string{}

	for x := range handlers.m {
		if x != ErrorInputName && x != NullInputName {
			valid = append(valid, x)
		}
	}
	return valid
}

// Setup proxies into our registered console-input driver.
func (ci *ConsoleIn) Setup() error {
	return ci.driver.Setup()
}

// TearDown proxies into our registered console-input driver.
func (ci *ConsoleIn) TearDown() error {
	return ci.driver.TearDown()
}

// StuffInput inserts fake values into our input-buffer.
func (ci *ConsoleIn) StuffInput(input string) {
	ci.stuffed += input
}

// PendingInput returns true if there is pending input available.
func (ci *ConsoleIn) PendingInput() bool {
	if len(ci.stuffed) > 0 {
		return true
	}
	return ci.driver.PendingInput()
}

// BlockForCharacterNoEcho returns the next character, blocking until one
// is available.
//
// A second consecutive Ctrl-C returns ErrInterrupted.
func (ci *ConsoleIn) BlockForCharacterNoEcho() (byte, error) {

	var c byte
	var err error

	// Do we have faked/stuffed input to process?
	if len(ci.stuffed) > 0 {
		c = ci.stuffed[0]
		ci.stuffed = ci.stuffed[1:]
	} else {
		c, err = ci.driver.BlockForCharacterNoEcho()
		if err != nil {
			return c, err
		}
	}

	if c != 0x03 {
		ci.interrupts = 0
		return c, nil
	}

	ci.interrupts++
	if ci.interrupts >= 2 {
		ci.interrupts = 0
		return c, ErrInterrupted
	}
	return c, nil
}
