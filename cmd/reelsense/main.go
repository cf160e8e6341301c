// ReelSense - Film Ratings Analytics and Content-Based Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelsense

// Package main is the entry point for the reelsense command.
//
// ReelSense keeps a two-rater film ratings sheet with a chart dashboard and
// serves content-based movie recommendations built from the TMDB 5000 movies
// and credits catalog.
//
// # Commands
//
//	reelsense build [-movies FILE] [-credits FILE]
//	reelsense recommend [-k N] [-json] TITLE
//	reelsense serve [-build]
//	reelsense ratings import FILE
//	reelsense ratings submit -name NAME -genre GENRE [-sub-genre G] [-director D] [-usr1 S] [-usr2 S] [-bob Y|N]
//	reelsense ratings summary [-json]
//	reelsense ratings report OUT.html
//
// # Configuration
//
// Configuration is loaded via Koanf v2 with layered sources (highest priority wins):
//   - Environment variables (MOVIES_CSV, ARTIFACT_DIR, RATINGS_DB, HTTP_PORT, ...)
//   - Config file (CONFIG_PATH or config.yaml)
//   - Built-in defaults
//
// Logs go to stderr; command results go to stdout.
//
// # Signal Handling
//
// serve shuts down gracefully on SIGINT and SIGTERM: the HTTP server stops
// accepting connections and drains in-flight requests for SHUTDOWN_TIMEOUT.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"

	"github.com/tomtom215/reelsense/internal/config"
	"github.com/tomtom215/reelsense/internal/logging"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

// errUsage marks command-line mistakes; main exits 2 for them.
var errUsage = errors.New("usage error")

const usage = `usage: reelsense <command> [flags] [args]

commands:
  build                     build and persist the recommendation model
  recommend TITLE           print movies similar to TITLE
  serve                     run the HTTP API with model hot-reload
  ratings import FILE       import a ratings sheet CSV export
  ratings submit            add or update one film rating
  ratings summary           print the ratings dashboard figures
  ratings report [-by-score] OUT.html
                            write the ratings dashboard page
  version                   print the version
`

// app carries what every command needs.
type app struct {
	cfg    *config.Config
	logger zerolog.Logger
	stdout io.Writer
}

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	err := run(ctx, os.Args[1:], os.Stdout)
	switch {
	case err == nil:
	case errors.Is(err, errUsage):
		fmt.Fprintln(os.Stderr, err)
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	default:
		logging.Error().Err(err).Msg("command failed")
		os.Exit(1)
	}
}

// run dispatches args to a command. It loads configuration and initializes
// logging first, so every command sees the same settings.
func run(ctx context.Context, args []string, stdout io.Writer) error {
	if len(args) == 0 {
		return fmt.Errorf("%w: no command given", errUsage)
	}
	if args[0] == "version" || args[0] == "-version" || args[0] == "--version" {
		fmt.Fprintln(stdout, "reelsense", version)
		return nil
	}

	cfg, err := config.LoadWithKoanf()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}
	logging.Init(cfg.Logging.ToLoggingConfig())

	a := &app{
		cfg:    cfg,
		logger: logging.Logger(),
		stdout: stdout,
	}

	cmd, rest := args[0], args[1:]
	switch cmd {
	case "build":
		return a.runBuild(ctx, rest)
	case "recommend":
		return a.runRecommend(ctx, rest)
	case "serve":
		return a.runServe(ctx, rest)
	case "ratings":
		return a.runRatings(ctx, rest)
	default:
		return fmt.Errorf("%w: unknown command %q", errUsage, cmd)
	}
}
