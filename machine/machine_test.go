package machine

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/skx/a2host/consolein"
	"github.com/skx/a2host/consoleout"
	"github.com/skx/a2host/cpu"
	"github.com/skx/a2host/rom"
)

// fakeEngine costs a fixed number of cycles for every step.
type fakeEngine struct {
	cost   int
	steps  int
	resets int
	pc     uint16
}

func (fe *fakeEngine) Reset() {
	fe.resets++
	fe.pc = 0xFA62
}

func (fe *fakeEngine) Step() int {
	fe.steps++
	fe.pc++
	return fe.cost
}

func (fe *fakeEngine) Registers() cpu.Registers {
	return cpu.Registers{PC: fe.pc, S: 0xFD, Flags: 0x24}
}

// fakeClock records sleeps, and cancels a context after a number of them.
type fakeClock struct {
	sleeps []time.Duration
	limit  int
	cancel context.CancelFunc
}

func (fc *fakeClock) Sleep(d time.Duration) {
	fc.sleeps = append(fc.sleeps, d)
	if fc.cancel != nil && len(fc.sleeps) >= fc.limit {
		fc.cancel()
	}
}

// newTestMachine returns a machine with recording output, no input, and
// the given engine.
func newTestMachine(t *testing.T, engine cpu.Engine, opts ...Option) *Machine {
	t.Helper()

	opts = append([]Option{
		WithOutputDriver("logger"),
		WithInputDriver("null"),
		WithEngine(engine),
	}, opts...)

	m, err := New(opts...)
	if err != nil {
		t.Fatalf("failed to create machine: %s", err)
	}
	return m
}

func TestConstants(t *testing.T) {
	if CyclesPerFrame != 41666 {
		t.Fatalf("wrong cycle budget %d", CyclesPerFrame)
	}
	if FrameDelay != 41*time.Millisecond {
		t.Fatalf("wrong frame delay %s", FrameDelay)
	}
}

func TestNewBogus(t *testing.T) {
	_, err := New(WithOutputDriver("bogus"))
	if err == nil {
		t.Fatalf("expected error with bogus output driver")
	}
	_, err = New(WithInputDriver("bogus"))
	if err == nil {
		t.Fatalf("expected error with bogus input driver")
	}
}

func TestNewDefaults(t *testing.T) {
	m, err := New()
	if err != nil {
		t.Fatalf("unexpected error %s", err)
	}
	if m.GetOutputDriver().GetName() != "ansi" {
		t.Fatalf("wrong default output driver %s", m.GetOutputDriver().GetName())
	}
	if m.GetInputDriver().GetName() != "term" {
		t.Fatalf("wrong default input driver %s", m.GetInputDriver().GetName())
	}
	if len(m.roms) != 2 {
		t.Fatalf("expected two default ROMs, got %d", len(m.roms))
	}
	if m.roms[0].Path != MainROMPath || m.roms[0].Base != 0xD000 {
		t.Fatalf("wrong main ROM %v", m.roms[0])
	}
	if m.roms[1].Path != VideoROMPath || m.roms[1].Base != 0xC000 {
		t.Fatalf("wrong video ROM %v", m.roms[1])
	}
}

func TestRunFrameBudget(t *testing.T) {
	fe := &fakeEngine{cost: 7}
	m := newTestMachine(t, fe)

	used := m.RunFrame()
	if used < CyclesPerFrame {
		t.Fatalf("frame ended early, after %d cycles", used)
	}
	if used >= CyclesPerFrame+fe.cost {
		t.Fatalf("frame overshot by too much, %d cycles", used)
	}

	// 41666 / 7 rounded up.
	if fe.steps != 5953 {
		t.Fatalf("wrong step count %d", fe.steps)
	}
	if m.Steps() != 5953 {
		t.Fatalf("wrong step counter %d", m.Steps())
	}
	if m.Frames() != 1 {
		t.Fatalf("wrong frame counter %d", m.Frames())
	}
}

func TestRenderCadence(t *testing.T) {
	fe := &fakeEngine{cost: 1}
	m := newTestMachine(t, fe)

	rec, ok := m.GetOutputDriver().(*consoleout.OutputLoggingDriver)
	if !ok {
		t.Fatalf("failed to get recording driver")
	}

	// The very first instruction renders.
	m.RunFrame()
	if rec.GetClears() != 1 {
		t.Fatalf("expected a single render, got %d", rec.GetClears())
	}

	// Three frames of 41666 single-cycle steps is 124998 steps, which
	// covers the renders at steps zero and 100000 only.
	m.RunFrame()
	m.RunFrame()
	if m.Steps() != 3*41666 {
		t.Fatalf("wrong step count %d", m.Steps())
	}
	if rec.GetClears() != 2 {
		t.Fatalf("expected two renders, got %d", rec.GetClears())
	}
}

func TestRender(t *testing.T) {
	fe := &fakeEngine{cost: 1}
	m := newTestMachine(t, fe)
	m.Reset()

	// "HI" in normal video, top-left of the screen.
	m.Bus().Set(0x0400, 'H'|0x80)
	m.Bus().Set(0x0401, 'I'|0x80)

	m.Render()

	rec := m.GetOutputDriver().(*consoleout.OutputLoggingDriver)
	lines := strings.Split(rec.GetOutput(), "\n")

	// status, 24 rows, and the trailing empty string.
	if len(lines) != 26 {
		t.Fatalf("wrong number of lines %d", len(lines))
	}
	if lines[0] != "PC=$FA62 A=00 X=00 Y=00 SP=FD FLAGS=24" {
		t.Fatalf("wrong status line %q", lines[0])
	}
	if lines[1] != "HI"+strings.Repeat(".", 38) {
		t.Fatalf("wrong first row %q", lines[1])
	}
	if lines[24] != strings.Repeat(".", 40) {
		t.Fatalf("wrong last row %q", lines[24])
	}
}

func TestReset(t *testing.T) {
	fe := &fakeEngine{cost: 1}
	m := newTestMachine(t, fe)

	m.Reset()
	if fe.resets != 1 {
		t.Fatalf("engine was not reset")
	}
}

func TestRunCancelled(t *testing.T) {
	fe := &fakeEngine{cost: 41666}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	clk := &fakeClock{limit: 3, cancel: cancel}
	m := newTestMachine(t, fe, WithClock(clk))

	err := m.Run(ctx)
	if err != nil {
		t.Fatalf("unexpected error %s", err)
	}
	if m.Frames() != 3 {
		t.Fatalf("expected three frames, got %d", m.Frames())
	}
	if len(clk.sleeps) != 3 {
		t.Fatalf("expected three sleeps, got %d", len(clk.sleeps))
	}
	for _, d := range clk.sleeps {
		if d != 41*time.Millisecond {
			t.Fatalf("wrong sleep %s", d)
		}
	}
}

func TestRunAlreadyCancelled(t *testing.T) {
	fe := &fakeEngine{cost: 1}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	m := newTestMachine(t, fe, WithClock(&fakeClock{}))
	err := m.Run(ctx)
	if err != nil {
		t.Fatalf("unexpected error %s", err)
	}
	if fe.steps != 0 {
		t.Fatalf("cancelled machine executed %d steps", fe.steps)
	}
}

func TestRunInputError(t *testing.T) {
	fe := &fakeEngine{cost: 1}
	m := newTestMachine(t, fe, WithInputDriver("error"), WithClock(&fakeClock{}))

	err := m.Run(context.Background())
	if err == nil {
		t.Fatalf("expected error from input driver")
	}
	if !strings.Contains(err.Error(), "DRV_ERROR") {
		t.Fatalf("wrong error %s", err)
	}
}

func TestRunInterrupted(t *testing.T) {
	fe := &fakeEngine{cost: 41666}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Nothing ever reads the keyboard, the first Ctrl-C stays latched.
	clk := &fakeClock{limit: 50, cancel: cancel}
	m := newTestMachine(t, fe, WithClock(clk))

	m.StuffText("\x03\x03")

	err := m.Run(ctx)
	if err != nil {
		t.Fatalf("unexpected error %s", err)
	}
	if m.Frames() != 0 {
		t.Fatalf("double Ctrl-C did not stop the machine, ran %d frames", m.Frames())
	}
	if ctx.Err() != nil {
		t.Fatalf("machine was stopped by the context, not the interrupt")
	}
}

// typingClock stuffs a key into the machine each time it sleeps.
type typingClock struct {
	m   *Machine
	key string
}

func (tc *typingClock) Sleep(d time.Duration) {
	tc.m.StuffText(tc.key)
}

func TestRunInterruptedAcrossFrames(t *testing.T) {
	fe := &fakeEngine{cost: 41666}
	m := newTestMachine(t, fe)

	// One Ctrl-C per frame, while the program never acknowledges
	// the first.
	clk := &typingClock{m: m, key: "\x03"}
	m.clock = clk
	m.StuffText("\x03")

	err := m.Run(context.Background())
	if err != nil {
		t.Fatalf("unexpected error %s", err)
	}
	if m.Frames() != 1 {
		t.Fatalf("expected a single frame before stopping, got %d", m.Frames())
	}
	if !m.Bus().Keyboard().Pending() || m.Bus().Keyboard().Latch() != 0x03 {
		t.Fatalf("the first Ctrl-C should still be latched")
	}
}

// wrappedEOFInput is an input driver whose EOF arrives wrapped, as the
// terminal drivers report a closed STDIN.
type wrappedEOFInput struct {
}

func (w *wrappedEOFInput) Setup() error       { return nil }
func (w *wrappedEOFInput) TearDown() error    { return nil }
func (w *wrappedEOFInput) PendingInput() bool { return true }
func (w *wrappedEOFInput) GetName() string    { return "wrapped-eof" }
func (w *wrappedEOFInput) BlockForCharacterNoEcho() (byte, error) {
	return 0x00, fmt.Errorf("error reading a byte from stdin: %w", io.EOF)
}

func init() {
	consolein.Register("wrapped-eof", func() consolein.ConsoleInput {
		return new(wrappedEOFInput)
	})
}

func TestRunWrappedEOF(t *testing.T) {
	fe := &fakeEngine{cost: 41666}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	clk := &fakeClock{limit: 3, cancel: cancel}
	m := newTestMachine(t, fe, WithInputDriver("wrapped-eof"), WithClock(clk))

	err := m.Run(ctx)
	if err != nil {
		t.Fatalf("end of input should not stop the machine: %s", err)
	}
	if m.Frames() != 3 {
		t.Fatalf("expected three frames, got %d", m.Frames())
	}
}

func TestPressKey(t *testing.T) {
	type TestCase struct {
		in  byte
		out byte
	}

	tests := []TestCase{
		{'a', 'A'},
		{'z', 'Z'},
		{'A', 'A'},
		{'1', '1'},
		{'\n', '\r'},
		{'\r', '\r'},
		{0x7F, 0x08},
		{0x1B, 0x1B},
	}

	m := newTestMachine(t, &fakeEngine{cost: 1})

	for _, tc := range tests {
		m.PressKey(tc.in)

		got := m.Bus().Read(0xC000)
		if got != tc.out|0x80 {
			t.Fatalf("key %02X gave %02X, expected %02X", tc.in, got, tc.out|0x80)
		}
		m.Bus().Read(0xC010)
	}
}

func TestPollInput(t *testing.T) {
	m := newTestMachine(t, &fakeEngine{cost: 1})

	m.StuffText("ab")

	if err := m.pollInput(); err != nil {
		t.Fatalf("unexpected error %s", err)
	}
	if m.Bus().Read(0xC000) != 'A'|0x80 {
		t.Fatalf("first key not latched")
	}

	// Still pending, so the second key waits in our queue.
	if err := m.pollInput(); err != nil {
		t.Fatalf("unexpected error %s", err)
	}
	if m.Bus().Read(0xC000) != 'A'|0x80 {
		t.Fatalf("pending key was overwritten")
	}
	if len(m.keys) != 1 || m.keys[0] != 'b' {
		t.Fatalf("second key was not queued %v", m.keys)
	}

	// Acknowledge, and the next poll latches the second key.
	m.Bus().Read(0xC010)
	if err := m.pollInput(); err != nil {
		t.Fatalf("unexpected error %s", err)
	}
	if m.Bus().Read(0xC000) != 'B'|0x80 {
		t.Fatalf("second key not latched")
	}

	// Nothing more to read.
	m.Bus().Read(0xC010)
	if err := m.pollInput(); err != nil {
		t.Fatalf("unexpected error %s", err)
	}
	if m.Bus().Keyboard().Pending() {
		t.Fatalf("unexpected pending key")
	}
}

func TestLoadROMs(t *testing.T) {
	dir := t.TempDir()

	path := filepath.Join(dir, "test.rom")
	err := os.WriteFile(path, []byte{0x01, 0x02, 0x03}, 0644)
	if err != nil {
		t.Fatalf("failed to write ROM %s", err)
	}

	m := newTestMachine(t, &fakeEngine{cost: 1},
		WithROM(filepath.Join(dir, "missing.rom"), 0xC000),
		WithROM(path, 0xD000))

	// The missing image is skipped.
	err = m.LoadROMs()
	if err != nil {
		t.Fatalf("unexpected error %s", err)
	}
	if len(m.roms) != 2 {
		t.Fatalf("defaults were not replaced, %d ROMs", len(m.roms))
	}

	got := m.Bus().GetRange(0xD000, 4)
	want := []uint8{0x01, 0x02, 0x03, 0x00}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("wrong byte at offset %d: %02X", i, got[i])
		}
	}
}

func TestLoadROMsOverflow(t *testing.T) {
	dir := t.TempDir()

	path := filepath.Join(dir, "big.rom")
	err := os.WriteFile(path, make([]byte, 0x3001), 0644)
	if err != nil {
		t.Fatalf("failed to write ROM %s", err)
	}

	m := newTestMachine(t, &fakeEngine{cost: 1}, WithROM(path, 0xD000))

	err = m.LoadROMs()
	if err == nil {
		t.Fatalf("expected error loading oversized ROM")
	}
	if !errors.Is(err, rom.ErrOverflow) {
		t.Fatalf("wrong error %s", err)
	}
}

func TestIOSetup(t *testing.T) {
	m := newTestMachine(t, &fakeEngine{cost: 1})

	err := m.IOSetup()
	if err != nil {
		t.Fatalf("unexpected error %s", err)
	}
	m.IOTearDown()
}
