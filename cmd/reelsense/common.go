// ReelSense - Film Ratings Analytics and Content-Based Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelsense

package main

import (
	"errors"
	"flag"
	"fmt"
	"io"

	"github.com/dgraph-io/badger/v4"

	"github.com/tomtom215/reelsense/internal/ratings"
	"github.com/tomtom215/reelsense/internal/recommend"
	"github.com/tomtom215/reelsense/internal/recommend/storage"
)

func newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}

// parseFlags maps flag errors onto errUsage.
func parseFlags(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return fmt.Errorf("%w: %s", errUsage, fs.Name())
		}
		return fmt.Errorf("%w: %s: %v", errUsage, fs.Name(), err)
	}
	return nil
}

// openEngine creates an engine backed by the configured artifact store.
func (a *app) openEngine() (*recommend.Engine, error) {
	store, err := storage.NewStore(a.cfg.Storage.ArtifactDir)
	if err != nil {
		return nil, fmt.Errorf("open artifact store: %w", err)
	}
	engine, err := recommend.NewEngine(
		a.cfg.Recommend.EngineConfig(),
		a.logger,
		recommend.WithStore(store, a.cfg.Storage.Retain),
	)
	if err != nil {
		return nil, fmt.Errorf("create engine: %w", err)
	}
	return engine, nil
}

// openRatings opens the ratings database. The caller closes the returned DB.
func (a *app) openRatings() (*ratings.Service, *badger.DB, error) {
	db, err := ratings.OpenBadger(a.cfg.Ratings.DBPath)
	if err != nil {
		return nil, nil, fmt.Errorf("open ratings database %s: %w", a.cfg.Ratings.DBPath, err)
	}
	return ratings.NewService(ratings.NewBadgerSheet(db), a.logger), db, nil
}

func (a *app) closeDB(db *badger.DB) {
	if err := db.Close(); err != nil {
		a.logger.Error().Err(err).Msg("Error closing ratings database")
	}
}
