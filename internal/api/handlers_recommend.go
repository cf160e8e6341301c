// ReelSense - Film Ratings Analytics and Content-Based Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelsense

package api

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/tomtom215/reelsense/internal/metrics"
	"github.com/tomtom215/reelsense/internal/models"
	"github.com/tomtom215/reelsense/internal/recommend"
)

// Recommendations handles GET /api/v1/recommendations?title=...&k=...
// title must match a movie title exactly. k is optional; zero or absent
// means the configured default.
func (h *Handler) Recommendations(w http.ResponseWriter, r *http.Request) {
	title := r.URL.Query().Get("title")
	if strings.TrimSpace(title) == "" {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "title query parameter is required")
		return
	}
	k, ok := getIntParam(r, "k", 0)
	if !ok || k < 0 {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "k must be a non-negative integer")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.lookupTimeout)
	defer cancel()

	start := time.Now()
	result, err := h.engine.Recommend(ctx, title, k)
	elapsed := time.Since(start)
	metrics.RecordLookup(elapsed, result != nil && result.Cached, err)

	if err != nil {
		h.respondLookupError(w, r, title, err)
		return
	}

	respondData(w, http.StatusOK, models.RecommendationsResponse{
		Title:           title,
		K:               len(result.Recommendations),
		Recommendations: result.Recommendations,
	}, models.Metadata{
		QueryTimeMS:  elapsed.Milliseconds(),
		Cached:       result.Cached,
		ModelVersion: result.ModelVersion,
	})
}

func (h *Handler) respondLookupError(w http.ResponseWriter, r *http.Request, title string, err error) {
	switch {
	case errors.Is(err, recommend.ErrNotFound):
		respondError(w, http.StatusNotFound, "NOT_FOUND", "No movie titled "+sanitizeLogValue(title))
	case errors.Is(err, recommend.ErrAmbiguousTitle):
		respondError(w, http.StatusConflict, "AMBIGUOUS_TITLE", "Title matches more than one movie")
	case errors.Is(err, recommend.ErrModelNotLoaded):
		respondError(w, http.StatusServiceUnavailable, "MODEL_NOT_LOADED", "Recommendation model is not loaded yet")
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		h.respondFailure(w, r, http.StatusServiceUnavailable, "TIMEOUT", "Lookup did not complete in time", err)
	default:
		h.respondFailure(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "Lookup failed", err)
	}
}

// RecommendationStatus handles GET /api/v1/recommendations/status.
func (h *Handler) RecommendationStatus(w http.ResponseWriter, r *http.Request) {
	status := h.engine.Status()
	respondData(w, http.StatusOK, status, models.Metadata{ModelVersion: status.ModelVersion})
}
