// drv_file creates a console input-driver which reads and
// returns fake console input from a file named "input.txt"
//
// The intent is that this driver will be useful for scripted
// automation.  Any "#" character in the input introduces a delay,
// during which we pretend there is no input.

package consolein

import (
	"io"
	"os"
	"time"
)

// FileInput is an input-driver that returns fake "console input"
// by reading the content of the file "input.txt".
//
// It is primarily designed for testing and automation.  We do this
// because the ROM monitor polls the keyboard, and if input arrives
// faster than it is consumed the program under test may discard it.
type FileInput struct {

	// offset shows the offset into the buffer we're at
	offset int

	// content contains the content of the "input.txt" file
	content []byte

	// delayUntil is used to see if we're in the middle of a delay,
	// where we pretend we have no input.
	delayUntil time.Time

	// delayLarge is the pause triggered by a "#" character.
	delayLarge time.Duration
}

// Setup reads the contents of the file specified by the
// environmental variable $INPUT_FILE, and saves it away as
// a source of fake console input.
//
// If no filename is chosen "input.txt" will be used as a default.
func (fi *FileInput) Setup() error {

	fileName := os.Getenv("INPUT_FILE")
	if fileName == "" {
		fileName = "input.txt"
	}

	dat, err := os.ReadFile(fileName)
	if err != nil {
		return err
	}

	// Save our offset and data.
	fi.offset = 0
	fi.content = dat
	fi.delayUntil = time.Time{}
	if fi.delayLarge == 0 {
		fi.delayLarge = 1 * time.Second
	}
	return nil
}

// TearDown is a NOP.
func (fi *FileInput) TearDown() error {
	return nil
}

// PendingInput returns true if there is pending input which we
// can return.  This is always true unless we've exhausted the contents
// of our input-file.
func (fi *FileInput) PendingInput() bool {

	// If we're not in a delay period return the real result
	if time.Now().After(fi.delayUntil) {
		return (fi.offset < len(fi.content))
	}

	// We're in a delay period, so just pretend nothing is happening.
	return false
}

// BlockForCharacterNoEcho returns the next character from the file we
// use to fake our input.
func (fi *FileInput) BlockForCharacterNoEcho() (byte, error) {

	// Skip over any delay markers, arming the delay as we go.
	for fi.offset < len(fi.content) && fi.content[fi.offset] == '#' {
		fi.delayUntil = time.Now().Add(fi.delayLarge)
		fi.offset++
	}

	// If we have input available
	if fi.offset < len(fi.content) {

		// Get the next character, and move past it.
		x := fi.content[fi.offset]
		fi.offset++
		return x, nil
	}

	// Input is over.
	return 0x00, io.EOF
}

// GetName is part of the module API, and returns the name of this driver.
func (fi *FileInput) GetName() string {
	return "file"
}

// init registers our driver, by name.
func init() {
	Register("file", func() ConsoleInput {
		return new(FileInput)
	})
}
