// ReelSense - Film Ratings Analytics and Content-Based Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelsense

/*
Package services provides suture.Service wrappers for ReelSense components.

Each wrapper implements suture.Service and fmt.Stringer, translating a
component lifecycle into suture's context-aware Serve pattern:

	type Service interface {
	    Serve(ctx context.Context) error
	}

# Available Services

HTTP Server (HTTPServerService):
  - Wraps *http.Server with graceful shutdown
  - Converts the blocking ListenAndServe into Serve
  - http.ErrServerClosed is treated as a clean stop

Artifact Watcher (ArtifactWatcher):
  - Loads the newest persisted model when it starts
  - Watches the artifact directory with fsnotify
  - Debounces bursts of writes so one build causes one reload
  - A failed reload keeps the current model serving

# Usage

	tree.AddDataService(services.NewArtifactWatcher(engine, services.ArtifactWatcherConfig{
	    Dir:      cfg.Storage.ArtifactDir,
	    Debounce: cfg.Storage.WatchDebounce,
	}, logger))
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout, logger))
*/
package services
