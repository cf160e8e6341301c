// ReelSense - Film Ratings Analytics and Content-Based Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelsense

// Package logging provides centralized zerolog-based structured logging for ReelSense.
//
// The package provides:
//   - Zero-allocation structured logging via zerolog
//   - JSON output format for production (machine-parseable)
//   - Console output format for interactive CLI use
//   - Context-aware logging with correlation ID propagation
//   - slog adapter for Suture v4 integration
//
// # Quick Start
//
//	logging.Init(logging.Config{
//	    Level:  "info",
//	    Format: "console",
//	})
//
//	logging.Info().Int("movies", n).Msg("corpus loaded")
//	logging.Ctx(ctx).Info().Str("title", title).Msg("lookup")
//
// Always terminate log chains with .Msg() or .Send().
package logging
