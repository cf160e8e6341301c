// ReelSense - Film Ratings Analytics and Content-Based Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelsense

package api

import (
	"bytes"
	"errors"
	"net/http"
	"time"

	"github.com/tomtom215/reelsense/internal/metrics"
	"github.com/tomtom215/reelsense/internal/models"
	"github.com/tomtom215/reelsense/internal/ratings"
	"github.com/tomtom215/reelsense/internal/validation"
)

// ListRatings handles GET /api/v1/ratings?sort=name|score.
// Without sort the rows come back in append order.
func (h *Handler) ListRatings(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	films, err := h.ratings.Films(r.Context())
	if err != nil {
		h.respondFailure(w, r, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to read ratings", err)
		return
	}
	metrics.SetRatingsFilms(len(films))

	switch r.URL.Query().Get("sort") {
	case "":
	case "name":
		films = ratings.SortedByName(films)
	case "score":
		films = ratings.SortedByMean(films)
	default:
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "sort must be one of: name, score")
		return
	}

	respondData(w, http.StatusOK, films, models.Metadata{QueryTimeMS: time.Since(start).Milliseconds()})
}

// RatingsSummary handles GET /api/v1/ratings/summary.
func (h *Handler) RatingsSummary(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	summary, err := h.ratings.Summary(r.Context())
	if err != nil {
		h.respondFailure(w, r, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to summarize ratings", err)
		return
	}
	respondData(w, http.StatusOK, summary, models.Metadata{QueryTimeMS: time.Since(start).Milliseconds()})
}

// SubmitRating handles POST /api/v1/ratings.
// A new film answers 201, an update of an existing one 200.
func (h *Handler) SubmitRating(w http.ResponseWriter, r *http.Request) {
	var sub ratings.Submission
	if err := decodeJSON(w, r, &sub); err != nil {
		metrics.RecordRatingsSubmission(metrics.OutcomeRejected)
		respondError(w, http.StatusBadRequest, "INVALID_JSON", "Request body is not a valid rating")
		return
	}

	result, err := h.ratings.Submit(r.Context(), sub)
	if err != nil {
		var verr *validation.RequestValidationError
		if errors.As(err, &verr) {
			metrics.RecordRatingsSubmission(metrics.OutcomeRejected)
			respondAPIError(w, http.StatusBadRequest, validationAPIError(verr))
			return
		}
		metrics.RecordRatingsSubmission(metrics.OutcomeError)
		h.respondFailure(w, r, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to save rating", err)
		return
	}
	metrics.RecordRatingsSubmission(string(result.Outcome))

	status := http.StatusOK
	if result.Outcome == ratings.OutcomeAppended {
		status = http.StatusCreated
	}
	respondData(w, status, result, models.Metadata{})
}

// Dashboard handles GET /dashboard and renders the chart page.
// sort=score orders the per-film bar chart by mean.
func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	films, err := h.ratings.Films(r.Context())
	if err != nil {
		h.respondFailure(w, r, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to read ratings", err)
		return
	}

	cfg := h.dashboard
	if r.URL.Query().Get("sort") == "score" {
		cfg.SortByScore = true
	}

	var buf bytes.Buffer
	if err := ratings.RenderDashboard(&buf, films, cfg); err != nil {
		h.respondFailure(w, r, http.StatusInternalServerError, "RENDER_ERROR", "Failed to render dashboard", err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		h.requestLogger(r).Debug().Err(err).Msg("dashboard write interrupted")
	}
}
