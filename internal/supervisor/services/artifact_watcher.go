// ReelSense - Film Ratings Analytics and Content-Based Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelsense

package services

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"

	"github.com/tomtom215/reelsense/internal/metrics"
	"github.com/tomtom215/reelsense/internal/recommend"
	"github.com/tomtom215/reelsense/internal/recommend/storage"
)

// ModelLoader loads the newest persisted model. *recommend.Engine satisfies it.
type ModelLoader interface {
	LoadLatest(ctx context.Context) (*recommend.Model, error)
	Status() recommend.Status
}

// ArtifactWatcherConfig holds configuration for the artifact watcher.
type ArtifactWatcherConfig struct {
	// Dir is the artifact directory written by builds.
	Dir string

	// Debounce is how long the directory must be quiet before a reload.
	// A build writes two artifacts, so a single reload follows it.
	// Default: 500ms
	Debounce time.Duration
}

// ArtifactWatcher loads the latest model on start and hot-reloads it whenever
// a build writes new artifacts into the directory.
type ArtifactWatcher struct {
	loader  ModelLoader
	config  ArtifactWatcherConfig
	logger  zerolog.Logger
	name    string
	reloads atomic.Int64
}

// NewArtifactWatcher creates an artifact watcher service.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewArtifactWatcher(loader ModelLoader, cfg ArtifactWatcherConfig, logger zerolog.Logger) *ArtifactWatcher {
	if cfg.Debounce <= 0 {
		cfg.Debounce = 500 * time.Millisecond
	}
	return &ArtifactWatcher{
		loader: loader,
		config: cfg,
		logger: logger.With().Str("service", "artifact-watcher").Str("dir", cfg.Dir).Logger(),
		name:   "artifact-watcher",
	}
}

// Serve implements suture.Service.
// The watch is registered before the initial load so that artifacts written
// in between still trigger a reload.
func (w *ArtifactWatcher) Serve(ctx context.Context) (err error) {
	if err := os.MkdirAll(w.config.Dir, 0o750); err != nil {
		return fmt.Errorf("create artifact dir: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer func() {
		if closeErr := watcher.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	if err := watcher.Add(w.config.Dir); err != nil {
		return fmt.Errorf("failed to watch artifact dir: %w", err)
	}

	w.reload(ctx)

	timer := time.NewTimer(w.config.Debounce)
	timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-watcher.Events:
			if !ok {
				return errors.New("artifact watcher event channel closed")
			}
			if !isArtifactEvent(event) {
				continue
			}
			w.logger.Debug().Str("file", filepath.Base(event.Name)).Str("op", event.Op.String()).Msg("artifact changed")
			timer.Reset(w.config.Debounce)

		case werr, ok := <-watcher.Errors:
			if !ok {
				return errors.New("artifact watcher error channel closed")
			}
			w.logger.Warn().Err(werr).Msg("file watcher error")

		case <-timer.C:
			w.reload(ctx)
		}
	}
}

// isArtifactEvent reports whether event created or replaced a finished artifact.
// Temp files written during a save never match the artifact naming scheme.
func isArtifactEvent(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) && !event.Has(fsnotify.Rename) {
		return false
	}
	_, _, ok := storage.ParseFilename(filepath.Base(event.Name))
	return ok
}

// reload swaps in the newest model. An empty directory is not an error.
func (w *ArtifactWatcher) reload(ctx context.Context) {
	before := w.loader.Status().ModelVersion

	_, err := w.loader.LoadLatest(ctx)
	switch {
	case errors.Is(err, recommend.ErrModelNotLoaded):
		w.logger.Info().Msg("no model artifacts yet, waiting for a build")
		return
	case err != nil:
		metrics.RecordReload(err)
		w.logger.Error().Err(err).Msg("model reload failed, keeping current model")
		return
	}

	status := w.loader.Status()
	if status.ModelVersion == before {
		return
	}
	metrics.RecordReload(nil)
	metrics.SetModel(status.Movies, status.Vocabulary, status.ModelVersion)
	w.reloads.Add(1)
	w.logger.Info().
		Int("version", status.ModelVersion).
		Int("movies", status.Movies).
		Msg("model reloaded")
}

// Reloads returns how many times a new model version was swapped in.
func (w *ArtifactWatcher) Reloads() int64 {
	return w.reloads.Load()
}

// String implements fmt.Stringer for logging.
func (w *ArtifactWatcher) String() string {
	return w.name
}
