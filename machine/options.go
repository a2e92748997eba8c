package machine

import (
	"log/slog"

	"github.com/skx/a2host/consolein"
	"github.com/skx/a2host/consoleout"
	"github.com/skx/a2host/cpu"
)

// Option is a function which configures a Machine.
type Option func(m *Machine) error

// WithLogger sets the logger used for diagnostics.
func WithLogger(log *slog.Logger) Option {
	return func(m *Machine) error {
		m.Logger = log
		return nil
	}
}

// WithOutputDriver selects the console output driver, by name.
func WithOutputDriver(name string) Option {
	return func(m *Machine) error {
		driver, err := consoleout.New(name)
		if err != nil {
			return err
		}
		m.output = driver
		return nil
	}
}

// WithInputDriver selects the console input driver, by name.
func WithInputDriver(name string) Option {
	return func(m *Machine) error {
		driver, err := consolein.New(name)
		if err != nil {
			return err
		}
		m.input = driver
		return nil
	}
}

// WithEngine replaces the processor.
//
// The engine should be wired to the machine's Bus for memory access.
func WithEngine(engine cpu.Engine) Option {
	return func(m *Machine) error {
		m.engine = engine
		return nil
	}
}

// WithClock replaces the clock used to pace frames.
func WithClock(clock Clock) Option {
	return func(m *Machine) error {
		m.clock = clock
		return nil
	}
}

// WithROM adds an image to be loaded by LoadROMs.
//
// The first use discards the default images.
func WithROM(path string, base uint16) Option {
	return func(m *Machine) error {
		if !m.customROMs {
			m.roms = nil
			m.customROMs = true
		}
		m.roms = append(m.roms, ROM{Path: path, Base: base})
		return nil
	}
}
