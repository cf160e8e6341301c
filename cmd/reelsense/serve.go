// ReelSense - Film Ratings Analytics and Content-Based Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelsense

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/tomtom215/reelsense/internal/api"
	"github.com/tomtom215/reelsense/internal/logging"
	"github.com/tomtom215/reelsense/internal/metrics"
	"github.com/tomtom215/reelsense/internal/ratings"
	"github.com/tomtom215/reelsense/internal/recommend"
	"github.com/tomtom215/reelsense/internal/supervisor"
	"github.com/tomtom215/reelsense/internal/supervisor/services"
)

// runServe runs the HTTP API under the supervisor tree until ctx is canceled.
func (a *app) runServe(ctx context.Context, args []string) error {
	fs := newFlagSet("serve")
	buildFirst := fs.Bool("build", false, "build a model from the dataset when no artifacts exist")
	if err := parseFlags(fs, args); err != nil {
		return err
	}

	logging.Info().Str("version", version).Msg("Starting ReelSense with supervisor tree")

	engine, err := a.openEngine()
	if err != nil {
		return err
	}
	if *buildFirst {
		if err := a.buildIfMissing(ctx, engine); err != nil {
			return err
		}
	}

	svc, db, err := a.openRatings()
	if err != nil {
		return err
	}
	defer a.closeDB(db)

	if err := a.seedRatings(ctx, svc); err != nil {
		return err
	}

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.TreeConfig{
		ShutdownTimeout: a.cfg.Server.ShutdownTimeout,
	})
	if err != nil {
		return fmt.Errorf("create supervisor tree: %w", err)
	}

	if a.cfg.Storage.Watch {
		tree.AddDataService(services.NewArtifactWatcher(engine, services.ArtifactWatcherConfig{
			Dir:      a.cfg.Storage.ArtifactDir,
			Debounce: a.cfg.Storage.WatchDebounce,
		}, a.logger))
	} else {
		_, err := engine.LoadLatest(ctx)
		metrics.RecordReload(err)
		if err != nil {
			logging.Warn().Err(err).Msg("No model loaded; recommendations answer 503 until restart")
		}
	}

	handler := api.NewHandler(engine, svc, version, a.logger)
	router := api.NewRouter(handler, api.ChiMiddlewareConfigFromSecurity(a.cfg.Security))
	server := &http.Server{
		Addr:              a.cfg.Server.Addr(),
		Handler:           router.Setup(),
		ReadHeaderTimeout: a.cfg.Server.Timeout,
		ReadTimeout:       a.cfg.Server.Timeout,
		WriteTimeout:      a.cfg.Server.Timeout,
	}
	tree.AddAPIService(services.NewHTTPServerService(server, a.cfg.Server.ShutdownTimeout, a.logger))

	logging.Info().Str("addr", server.Addr).Msg("Starting supervisor tree...")
	errCh := tree.ServeBackground(ctx)

	var serveErr error
	for err := range errCh {
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor tree error")
			serveErr = err
		}
	}

	unstopped, _ := tree.UnstoppedServiceReport() //nolint:errcheck // report is best effort during shutdown
	for _, s := range unstopped {
		logging.Warn().Str("service", s.Name).Msg("Service failed to stop")
	}

	logging.Info().Msg("Application stopped gracefully")
	return serveErr
}

// buildIfMissing builds a model when the artifact store has none.
func (a *app) buildIfMissing(ctx context.Context, engine *recommend.Engine) error {
	_, err := engine.LoadLatest(ctx)
	switch {
	case err == nil:
		return nil
	case !errors.Is(err, recommend.ErrModelNotLoaded):
		return fmt.Errorf("load model: %w", err)
	}
	logging.Info().Msg("No model artifacts found, building from dataset")
	_, err = a.build(ctx, engine, a.cfg.Dataset.MoviesCSV, a.cfg.Dataset.CreditsCSV)
	return err
}

// seedRatings imports the configured seed CSV into an empty ratings sheet.
func (a *app) seedRatings(ctx context.Context, svc *ratings.Service) error {
	films, err := svc.Films(ctx)
	if err != nil {
		return fmt.Errorf("read ratings: %w", err)
	}
	metrics.SetRatingsFilms(len(films))
	if a.cfg.Ratings.SeedCSV == "" || len(films) > 0 {
		return nil
	}

	stats, err := a.importRatings(ctx, svc, a.cfg.Ratings.SeedCSV)
	if err != nil {
		return fmt.Errorf("seed ratings: %w", err)
	}
	logging.Info().
		Int("appended", stats.Appended).
		Int("rejected", stats.Rejected).
		Str("file", a.cfg.Ratings.SeedCSV).
		Msg("Seeded ratings sheet")
	metrics.SetRatingsFilms(stats.Appended + stats.Updated)
	return nil
}
