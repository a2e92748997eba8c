// drv_term.go uses the Termbox library to handle console-based input.
//
// A goroutine is launched which collects any keyboard input and
// saves that to a buffer where it can be peeled off on-demand.
//
// The portability of this solution is unknown, however this driver
// _seems_ reasonable and is the default.

package consolein

import (
	"os"
	"sync"
	"time"

	"github.com/nsf/termbox-go"
	"golang.org/x/term"
)

// TermboxInput is our input-driver, using termbox
type TermboxInput struct {

	// oldState contains the state of the terminal, before switching to RAW mode
	oldState *term.State

	// done is closed when our polling goroutine has finished.
	done chan struct{}

	// stop is closed to ask the polling goroutine to finish.
	stop chan struct{}

	// mu protects keyBuffer, which is filled by the polling goroutine.
	mu sync.Mutex

	// keyBuffer builds up keys read "in the background", via termbox
	keyBuffer []byte
}

// Setup ensures that the termbox init functions are called, and our
// terminal is set into RAW mode.
func (ti *TermboxInput) Setup() error {

	var err error

	// switch STDIN into 'raw' mode - we must do this before
	// we setup termbox.
	ti.oldState, err = term.MakeRaw(int(os.Stdin.Fd()))
	if err != nil {
		return err
	}

	// Setup the terminal.
	if !termbox.IsInit {
		err = termbox.Init()
		if err != nil {
			_ = term.Restore(int(os.Stdin.Fd()), ti.oldState)
			ti.oldState = nil
			return err
		}
	}

	// Allow our polling of keyboard to be stopped.
	ti.stop = make(chan struct{})
	ti.done = make(chan struct{})

	// Start polling for keyboard input "in the background".
	go ti.pollKeyboard()
	return nil
}

// translateKey converts a termbox special key into the byte the
// machine expects, returning false for keys which have no equivalent.
func translateKey(k termbox.Key) (byte, bool) {
	switch k {
	case termbox.KeyArrowLeft:
		return 0x08, true
	case termbox.KeyArrowRight:
		return 0x15, true
	}
	if k > 0xFF {
		return 0, false
	}
	return byte(k), true
}

// pollKeyboard runs in a goroutine and collects keyboard input
// into a buffer where it will be read from in the future.
func (ti *TermboxInput) pollKeyboard() {
	defer close(ti.done)

	for {
		// Are we done?
		select {
		case <-ti.stop:
			return
		default:
			// NOP
		}

		// Now look for keyboard input
		switch ev := termbox.PollEvent(); ev.Type {
		case termbox.EventKey:
			var c byte
			ok := true
			if ev.Ch != 0 {
				if ev.Ch > 0x7F {
					continue
				}
				c = byte(ev.Ch)
			} else {
				c, ok = translateKey(ev.Key)
			}
			if ok {
				ti.mu.Lock()
				ti.keyBuffer = append(ti.keyBuffer, c)
				ti.mu.Unlock()
			}
		case termbox.EventInterrupt:
			// Woken by TearDown, loop to see the stop request.
		}
	}
}

// TearDown resets the state of the terminal, disables the background polling of characters
// and generally gets us ready for exit.
func (ti *TermboxInput) TearDown() error {
	// Cancel the keyboard reading
	if ti.stop != nil {
		close(ti.stop)
		termbox.Interrupt()
		<-ti.done
		ti.stop = nil
	}

	// Terminate the GUI.
	if termbox.IsInit {
		termbox.Close()
	}

	// Restore the terminal
	if ti.oldState != nil {
		err := term.Restore(int(os.Stdin.Fd()), ti.oldState)
		ti.oldState = nil
		return err
	}
	return nil
}

// PendingInput returns true if there is pending input from STDIN.
func (ti *TermboxInput) PendingInput() bool {
	ti.mu.Lock()
	defer ti.mu.Unlock()

	return len(ti.keyBuffer) > 0
}

// BlockForCharacterNoEcho returns the next character from the console, blocking until
// one is available.
//
// NOTE: This function should not echo keystrokes which are entered.
func (ti *TermboxInput) BlockForCharacterNoEcho() (byte, error) {

	for {
		ti.mu.Lock()
		if len(ti.keyBuffer) > 0 {
			c := ti.keyBuffer[0]
			ti.keyBuffer = ti.keyBuffer[1:]
			ti.mu.Unlock()
			return c, nil
		}
		ti.mu.Unlock()

		time.Sleep(1 * time.Millisecond)
	}
}

// GetName is part of the module API, and returns the name of this driver.
func (ti *TermboxInput) GetName() string {
	return "term"
}

// init registers our driver, by name.
func init() {
	Register("term", func() ConsoleInput {
		return new(TermboxInput)
	})
}
