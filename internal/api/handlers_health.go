// ReelSense - Film Ratings Analytics and Content-Based Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelsense

package api

import (
	"net/http"
	"time"

	"github.com/tomtom215/reelsense/internal/models"
)

// Health handles GET /api/v1/health.
// The service is "healthy" once a model is loaded and "degraded" before that.
// A ratings store failure is reported as "unhealthy" with 503.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	status := h.engine.Status()

	resp := models.HealthResponse{
		Status:        "healthy",
		Version:       h.version,
		ModelLoaded:   status.Loaded,
		ModelVersion:  status.ModelVersion,
		UptimeSeconds: time.Since(h.startTime).Seconds(),
	}
	if !status.Loaded {
		resp.Status = "degraded"
	}

	code := http.StatusOK
	films, err := h.ratings.Films(r.Context())
	if err != nil {
		h.requestLogger(r).Warn().Err(err).Msg("ratings store unavailable during health check")
		resp.Status = "unhealthy"
		code = http.StatusServiceUnavailable
	} else {
		resp.RatingsFilms = len(films)
	}

	respondData(w, code, resp, models.Metadata{})
}
