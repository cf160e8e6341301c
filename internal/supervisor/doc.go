// ReelSense - Film Ratings Analytics and Content-Based Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelsense

/*
Package supervisor provides process supervision for the serve command using
suture v4.

# Overview

	RootSupervisor ("reelsense")
	├── DataSupervisor ("data-layer")
	│   └── ArtifactWatcher
	└── APISupervisor ("api-layer")
	    └── HTTPServerService

Each layer restarts its own failed services with exponential backoff. A crash
in the artifact watcher does not interrupt the HTTP server, which keeps
answering from the model that was last swapped in.

# Logging

Supervisor events (service failures, panics, backoff) go through sutureslog
into the zerolog logger via the logging package's slog adapter:

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())

# Shutdown

Canceling the context passed to Serve stops every service. Services that do
not return within ShutdownTimeout are listed by UnstoppedServiceReport.

See package services for the service wrappers.
*/
package supervisor
