// Command feed broadcasts amplitude samples on the overlay socket so the
// overlay can be run without the recorder. By default it plays a synthetic
// envelope; with -interactive the amplitude and recording flag are driven
// from the keyboard.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/Snehit70/voice-cli/internal/feed"
	"github.com/Snehit70/voice-cli/internal/ipc"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "feed: %v\n", err)
		os.Exit(1)
	}
}

type options struct {
	path        string
	interactive bool
	rate        time.Duration
}

func parseFlags(args []string) (options, error) {
	fs := flag.NewFlagSet("feed", flag.ContinueOnError)
	interactive := fs.Bool("interactive", false, "drive samples from the keyboard")
	rate := fs.Duration("rate", 50*time.Millisecond, "sample interval")
	if err := fs.Parse(args); err != nil {
		return options{}, err
	}
	if *rate <= 0 {
		return options{}, fmt.Errorf("-rate must be positive, got %s", *rate)
	}

	opts := options{path: ipc.DefaultSocketPath, interactive: *interactive, rate: *rate}
	if fs.NArg() > 0 {
		opts.path = fs.Arg(0)
	}
	return opts, nil
}

func run() error {
	opts, err := parseFlags(os.Args[1:])
	if err != nil {
		return err
	}

	logger, _ := zap.NewProduction()
	if opts.interactive {
		// Log lines would tear the terminal UI.
		logger = zap.NewNop()
	}
	defer logger.Sync()

	srv, err := feed.Listen(opts.path, logger)
	if err != nil {
		return err
	}
	defer srv.Close()

	if opts.interactive {
		return runConsole(srv, opts.rate)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	env := feed.NewEnvelope(opts.rate, 6*time.Second, time.Now().UnixNano())
	logger.Info("broadcasting synthetic envelope", zap.Duration("rate", env.Rate), zap.Duration("period", env.Period))
	return env.Run(ctx, srv)
}
