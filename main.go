// entry point

package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/skx/a2host/machine"
	"github.com/skx/a2host/version"
)

// run creates the machine, with the given options, and executes it until
// the context is cancelled or the user interrupts it.
func run(ctx context.Context, log *slog.Logger, options ...machine.Option) error {

	options = append([]machine.Option{machine.WithLogger(log)}, options...)

	m, err := machine.New(options...)
	if err != nil {
		return fmt.Errorf("error creating machine: %w", err)
	}

	// Setup our I/O, and ensure the terminal is restored on the way out.
	err = m.IOSetup()
	if err != nil {
		return err
	}
	defer m.IOTearDown()

	err = m.LoadROMs()
	if err != nil {
		return err
	}

	m.Reset()

	return m.Run(ctx)
}

func main() {

	// Setup our logging level - default to warnings or higher
	lvl := new(slog.LevelVar)
	lvl.Set(slog.LevelWarn)

	// But show "everything" if $DEBUG is non-empty
	if os.Getenv("DEBUG") != "" {
		lvl.Set(slog.LevelDebug)
	}

	//
	// Create our logging handler, using the level we've just setup
	//
	log := slog.New(
		slog.NewJSONHandler(
			os.Stderr,
			&slog.HandlerOptions{
				Level: lvl,
			}))

	log.Info("Starting",
		slog.String("version", version.GetVersionString()),
		slog.String("banner", version.GetVersionBanner()))

	//
	// Stop cleanly upon SIGINT/SIGTERM.
	//
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	err := run(ctx, log)
	stop()

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error running emulator: %s\n", err)
		os.Exit(1)
	}
}
