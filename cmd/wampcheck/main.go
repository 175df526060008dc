// SPDX-License-Identifier: GPL-3.0-or-later

// Command wampcheck checks a WAMP client description against a router.
//
// It reads the client description from a TOML file, runs the session gate
// and prints the resulting status code and description. It exits with a
// non-zero status unless the gate either establishes a session or is idle.
//
// Usage:
//
//	wampcheck [-config wampcheck.toml] [-v]
//
// See ex.config.toml for the available keys.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"github.com/bassosimone/wampc"
)

// errGateFailed indicates that the gate did not reach a usable state.
var errGateFailed = errors.New("session gate failed")

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "wampcheck: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	flags := flag.NewFlagSet("wampcheck", flag.ContinueOnError)
	flags.SetOutput(stderr)
	configPath := flags.String("config", "wampcheck.toml", "path to the TOML client description")
	verbose := flags.Bool("v", false, "write structured logs to stderr")
	if err := flags.Parse(args); err != nil {
		return err
	}

	check, err := loadCheckConfig(*configPath)
	if err != nil {
		return err
	}

	logger := wampc.DefaultSLogger()
	if *verbose {
		logger = slog.New(slog.NewJSONHandler(stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
	cfg := wampc.NewConfig()
	cfg.DefaultTransport = wampc.NewWebSocketTransportFactory(cfg, logger)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, check.Timeout)
	defer cancel()

	gate, err := wampc.NewSessionGate(ctx, cfg, check.Client, logger)
	if err != nil {
		return err
	}
	defer gate.Close()

	select {
	case <-gate.Done():
	case <-ctx.Done():
	}

	fmt.Fprintln(stdout, gate.OpStatus())
	switch state := gate.State(); state {
	case wampc.StateEstablishing, wampc.StateIdle:
		return nil
	case wampc.StateAwaitingTransport:
		return fmt.Errorf("%w: %s: %w", errGateFailed, state, ctx.Err())
	default:
		return fmt.Errorf("%w: %s", errGateFailed, state)
	}
}
