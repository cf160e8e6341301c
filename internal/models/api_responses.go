// ReelSense - Film Ratings Analytics and Content-Based Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelsense

package models

import (
	"time"

	"github.com/tomtom215/reelsense/internal/recommend"
)

// APIResponse represents a standardized API response wrapper used by all HTTP endpoints.
//
// Status field values:
//   - "success": Request completed successfully, see Data field
//   - "error": Request failed, see Error field for details
//
// Example successful response:
//
//	{
//	  "status": "success",
//	  "data": {"title": "Avatar", "recommendations": [...]},
//	  "metadata": {
//	    "timestamp": "2026-10-16T12:00:00Z",
//	    "query_time_ms": 3,
//	    "model_version": 4
//	  }
//	}
type APIResponse struct {
	Status   string    `json:"status"`
	Data     any       `json:"data"`
	Metadata Metadata  `json:"metadata"`
	Error    *APIError `json:"error,omitempty"`
}

// Metadata contains response metadata for observability.
//
// Cached is true when a recommendation list was served from the lookup cache.
// ModelVersion is the version of the similarity model that answered the request.
type Metadata struct {
	Timestamp    time.Time `json:"timestamp"`
	QueryTimeMS  int64     `json:"query_time_ms,omitempty"`
	Cached       bool      `json:"cached,omitempty"`
	ModelVersion int       `json:"model_version,omitempty"`
}

// APIError represents an error response with structured error details.
//
// Common error codes:
//   - VALIDATION_ERROR: Invalid input parameters or submission fields
//   - NOT_FOUND: Title is not in the model
//   - AMBIGUOUS_TITLE: Title matches several movies and the title policy rejects it
//   - MODEL_NOT_LOADED: No model has been built or loaded yet
//   - RATE_LIMIT_EXCEEDED: Too many requests
type APIError struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

// HealthResponse is returned by the health endpoint.
type HealthResponse struct {
	Status        string  `json:"status"`
	Version       string  `json:"version"`
	ModelLoaded   bool    `json:"model_loaded"`
	ModelVersion  int     `json:"model_version"`
	RatingsFilms  int     `json:"ratings_films"`
	UptimeSeconds float64 `json:"uptime_seconds"`
}

// RecommendationsResponse is the payload of a recommendation lookup.
type RecommendationsResponse struct {
	Title           string                     `json:"title"`
	K               int                        `json:"k"`
	Recommendations []recommend.Recommendation `json:"recommendations"`
}
