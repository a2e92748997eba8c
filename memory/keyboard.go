package memory

// Keyboard is the latch/strobe pair behind the keyboard soft-switches.
//
// A key is "pending" while the strobe is raised.  The strobe is lowered
// by the program reading KeyboardStrobe.
type Keyboard struct {
	// latch holds the 7-bit ASCII value of the last key pressed.
	latch uint8

	// strobe is true if the key in the latch hasn't been acknowledged.
	strobe bool
}

// Press stores the given key in the latch and raises the strobe.
func (k *Keyboard) Press(c uint8) {
	k.latch = c & 0x7F
	k.strobe = true
}

// Pending returns true if a key is waiting to be acknowledged.
func (k *Keyboard) Pending() bool {
	return k.strobe
}

// Latch returns the most recent key, which remains latched after the
// strobe has been cleared.
func (k *Keyboard) Latch() uint8 {
	return k.latch
}

// Clear lowers the strobe.
func (k *Keyboard) Clear() {
	k.strobe = false
}
