// ReelSense - Film Ratings Analytics and Content-Based Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelsense

package main

import (
	"context"
	"fmt"
	"time"

	"github.com/tomtom215/reelsense/internal/ingest"
	"github.com/tomtom215/reelsense/internal/logging"
	"github.com/tomtom215/reelsense/internal/metrics"
	"github.com/tomtom215/reelsense/internal/recommend"
)

// runBuild loads and joins the catalog, builds the model and persists it as a
// new artifact version.
func (a *app) runBuild(ctx context.Context, args []string) error {
	fs := newFlagSet("build")
	movies := fs.String("movies", a.cfg.Dataset.MoviesCSV, "movies CSV file")
	credits := fs.String("credits", a.cfg.Dataset.CreditsCSV, "credits CSV file")
	if err := parseFlags(fs, args); err != nil {
		return err
	}

	engine, err := a.openEngine()
	if err != nil {
		return err
	}
	_, err = a.build(ctx, engine, *movies, *credits)
	return err
}

// build runs ingest and the pipeline on engine and prints a one-line report.
func (a *app) build(ctx context.Context, engine *recommend.Engine, moviesPath, creditsPath string) (*recommend.BuildReport, error) {
	ctx = logging.ContextWithNewCorrelationID(ctx)
	logger := a.logger.With().Str("correlation_id", logging.CorrelationIDFromContext(ctx)).Logger()

	reader, err := ingest.NewReader(logger)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := reader.Close(); err != nil {
			logger.Warn().Err(err).Msg("closing ingest reader")
		}
	}()

	records, stats, err := reader.LoadMovies(ctx, moviesPath, creditsPath)
	if err != nil {
		return nil, fmt.Errorf("ingest: %w", err)
	}

	report, err := engine.Build(ctx, records)
	metrics.RecordBuild(report, err)
	if err != nil {
		return report, fmt.Errorf("build: %w", err)
	}
	status := engine.Status()
	metrics.SetModel(status.Movies, status.Vocabulary, status.ModelVersion)

	fmt.Fprintf(a.stdout, "built model v%d: %d movies, vocabulary %d, %d skipped, %d rows dropped by join, %s\n",
		status.ModelVersion, report.Movies, report.VocabularySize, report.Skipped, stats.Dropped(), report.Duration.Round(time.Millisecond))
	return report, nil
}
