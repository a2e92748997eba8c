// Package machine is the host loop of the emulator.
//
// It owns the memory bus, drives the processor a frame at a time, paces
// execution to the wall-clock and periodically renders the text screen.
package machine

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/skx/a2host/consolein"
	"github.com/skx/a2host/consoleout"
	"github.com/skx/a2host/cpu"
	"github.com/skx/a2host/memory"
	"github.com/skx/a2host/rom"
	"github.com/skx/a2host/video"
)

const (
	// FPS is the number of frames we run each second.
	FPS = 24

	// CyclesPerFrame is the cycle budget of each frame, for a 1MHz clock.
	CyclesPerFrame = 1000000 / FPS

	// FrameDelay is how long we sleep after each frame.
	//
	// The time spent executing is not subtracted, so a frame always
	// takes a little longer than this.
	FrameDelay = time.Duration(1000/FPS) * time.Millisecond

	// RenderInterval is the number of instructions between renders.
	RenderInterval = 100000

	// MainROMPath is the location of the system ROM image.
	MainROMPath = "rom/Apple2_Plus.rom"

	// MainROMBase is where the system ROM is loaded.
	MainROMBase uint16 = 0xD000

	// VideoROMPath is the location of the secondary ROM image.
	VideoROMPath = "rom/Apple2_Video.rom"

	// VideoROMBase is where the secondary ROM is loaded, on top of the
	// soft-switches.
	VideoROMBase uint16 = 0xC000
)

// ROM describes an image to be loaded into memory at startup.
type ROM struct {
	// Path holds the filename of the image.
	Path string

	// Base is the address the first byte is loaded to.
	Base uint16
}

// Clock is the source of the real-time delay between frames.
type Clock interface {
	// Sleep pauses the current goroutine for at least the given duration.
	Sleep(d time.Duration)
}

// realClock is the Clock used outside of tests.
type realClock struct{}

// Sleep invokes time.Sleep.
func (realClock) Sleep(d time.Duration) {
	time.Sleep(d)
}

// Machine is the object that holds our emulator state
type Machine struct {

	// bus holds the address space, and the keyboard.
	bus *memory.Bus

	// engine is the processor executing code.
	engine cpu.Engine

	// decoder reads the text screen from the bus.
	decoder *video.Decoder

	// output is where we render the screen.
	output *consoleout.ConsoleOut

	// input is where we read keystrokes from.
	input *consolein.ConsoleIn

	// inputDone is set when our input driver reports EOF.
	inputDone bool

	// keys holds input read from the driver, waiting for the keyboard
	// strobe to clear.
	keys []byte

	// clock is used to sleep between frames.
	clock Clock

	// roms lists the images we load, in order.
	roms []ROM

	// customROMs is true if roms was set via WithROM.
	customROMs bool

	// steps counts every instruction executed.
	steps uint64

	// frames counts every frame executed.
	frames uint64

	// Logger holds a logger which we use for debugging and diagnostics.
	Logger *slog.Logger
}

// New returns a new emulation object, configured by the given options.
func New(options ...Option) (*Machine, error) {

	tmp := &Machine{
		bus:   memory.New(),
		clock: realClock{},
		roms: []ROM{
			{Path: MainROMPath, Base: MainROMBase},
			{Path: VideoROMPath, Base: VideoROMBase},
		},
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}

	for _, opt := range options {
		err := opt(tmp)
		if err != nil {
			return nil, err
		}
	}

	// Defaults for anything an option didn't set.
	var err error
	if tmp.output == nil {
		tmp.output, err = consoleout.New("ansi")
		if err != nil {
			return nil, err
		}
	}
	if tmp.input == nil {
		tmp.input, err = consolein.New("term")
		if err != nil {
			return nil, err
		}
	}
	if tmp.engine == nil {
		tmp.engine = cpu.NewMOS6502(tmp.bus)
	}

	tmp.decoder = video.NewDecoder(tmp.bus)
	return tmp, nil
}

// Bus returns the memory bus of the machine.
func (m *Machine) Bus() *memory.Bus {
	return m.bus
}

// GetOutputDriver returns the configured output driver.
func (m *Machine) GetOutputDriver() consoleout.ConsoleOutput {
	return m.output.GetDriver()
}

// GetInputDriver returns the configured input driver.
func (m *Machine) GetInputDriver() consolein.ConsoleInput {
	return m.input.GetDriver()
}

// Steps returns the number of instructions executed so far.
func (m *Machine) Steps() uint64 {
	return m.steps
}

// Frames returns the number of frames executed so far.
func (m *Machine) Frames() uint64 {
	return m.frames
}

// IOSetup ensures that our I/O is ready.
func (m *Machine) IOSetup() error {
	err := m.input.Setup()
	if err != nil {
		return fmt.Errorf("error setting up input driver %s: %w", m.input.GetName(), err)
	}
	err = m.output.Setup()
	if err != nil {
		_ = m.input.TearDown()
		return fmt.Errorf("error setting up output driver %s: %w", m.output.GetName(), err)
	}
	return nil
}

// IOTearDown cleans up our I/O, restoring the terminal.
func (m *Machine) IOTearDown() {
	if err := m.output.TearDown(); err != nil {
		m.Logger.Warn("failed to tear down output driver",
			slog.String("driver", m.output.GetName()),
			slog.String("error", err.Error()))
	}
	if err := m.input.TearDown(); err != nil {
		m.Logger.Warn("failed to tear down input driver",
			slog.String("driver", m.input.GetName()),
			slog.String("error", err.Error()))
	}
}

// LoadROMs loads each configured ROM image, in order.
//
// A missing image is logged and skipped, leaving that region of memory
// as it was.  An image which doesn't fit is a fatal error.
func (m *Machine) LoadROMs() error {

	for _, r := range m.roms {
		n, err := rom.Load(m.bus, r.Path, r.Base)

		if errors.Is(err, rom.ErrUnavailable) {
			m.Logger.Warn("ROM open failed",
				slog.String("path", r.Path),
				slog.String("error", err.Error()))
			continue
		}
		if err != nil {
			return fmt.Errorf("failed to load %s: %w", r.Path, err)
		}

		m.Logger.Info("Loaded ROM",
			slog.String("path", r.Path),
			slog.Int("size", n),
			slog.Int("base", int(r.Base)),
			slog.String("baseHex", fmt.Sprintf("$%04X", r.Base)))
	}
	return nil
}

// Reset resets the processor, logging the reset vector it should start
// from and where it actually went.
func (m *Machine) Reset() {

	vector := m.bus.GetU16(cpu.ResetVector)
	m.Logger.Info("Reset Vector",
		slog.Int("pc", int(vector)),
		slog.String("pcHex", fmt.Sprintf("$%04X", vector)))

	m.engine.Reset()

	pc := m.engine.Registers().PC
	m.Logger.Info("CPU PC after reset",
		slog.Int("pc", int(pc)),
		slog.String("pcHex", fmt.Sprintf("$%04X", pc)))
}

// RunFrame executes instructions until the frame's cycle budget has been
// spent, and returns the number of cycles actually used.
//
// The final instruction may overshoot the budget, by at most its own cost.
func (m *Machine) RunFrame() int {
	budget := 0

	for budget < CyclesPerFrame {
		budget += m.engine.Step()

		// Rendering is tied to instruction count, not to frames.
		if m.steps%RenderInterval == 0 {
			m.Render()
		}
		m.steps++
	}

	m.frames++
	return budget
}

// Render clears the display, then shows the registers followed by the
// contents of the text screen.
func (m *Machine) Render() {
	regs := m.engine.Registers()

	m.output.Clear()
	m.output.WriteString(0, 0, regs.String())
	for row, line := range m.decoder.Lines() {
		m.output.WriteString(row+1, 0, line)
	}
	m.output.Flush()
}

// Run executes frames until the context is cancelled, or the user
// interrupts us.
//
// Between frames we sleep for FrameDelay.
func (m *Machine) Run(ctx context.Context) error {

	for {
		// Are we done?
		select {
		case <-ctx.Done():
			m.Logger.Debug("Stopping",
				slog.Uint64("frames", m.frames),
				slog.Uint64("steps", m.steps))
			return nil
		default:
			// NOP
		}

		err := m.pollInput()
		if errors.Is(err, consolein.ErrInterrupted) {
			m.Logger.Debug("Interrupted",
				slog.Uint64("frames", m.frames),
				slog.Uint64("steps", m.steps))
			return nil
		}
		if err != nil {
			return fmt.Errorf("error reading keyboard: %w", err)
		}

		m.RunFrame()

		m.clock.Sleep(FrameDelay)
	}
}
