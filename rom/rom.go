// Package rom loads raw binary images into the address space.
//
// ROM images are flat files with no header, they are copied verbatim
// to a caller-chosen base address.
package rom

import (
	"errors"
	"fmt"
	"os"
)

var (
	// ErrUnavailable is returned when the image could not be read.
	//
	// It is not fatal, callers should log it and continue with whatever
	// is already in memory.
	ErrUnavailable = errors.New("ROM unavailable")

	// ErrOverflow is returned when the image would extend past the top of
	// the 64k address space.
	ErrOverflow = errors.New("ROM exceeds address space")
)

// Target is the destination of a load.
type Target interface {
	// SetRange copies data into memory, starting at addr.
	SetRange(addr uint16, data ...uint8)
}

// Load copies the file at path into dst, starting at base, and returns
// the number of bytes which were loaded.
//
// On failure zero is returned and dst is left unmodified.
func Load(dst Target, path string, base uint16) (int, error) {

	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("%w: %s", ErrUnavailable, err)
	}

	// Check before any byte is written.
	if int(base)+len(data) > 0x10000 {
		return 0, fmt.Errorf("%w: %s is %d bytes, at $%04X", ErrOverflow, path, len(data), base)
	}

	dst.SetRange(base, data...)
	return len(data), nil
}
