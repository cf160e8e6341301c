// ReelSense - Film Ratings Analytics and Content-Based Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelsense

package api

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/reelsense/internal/ratings"
	"github.com/tomtom215/reelsense/internal/recommend"
)

// RecommendationEngine answers title lookups. *recommend.Engine satisfies it.
type RecommendationEngine interface {
	Recommend(ctx context.Context, title string, k int) (*recommend.LookupResult, error)
	Status() recommend.Status
}

// RatingsService reads and updates the film ratings sheet. *ratings.Service satisfies it.
type RatingsService interface {
	Films(ctx context.Context) ([]ratings.Film, error)
	Summary(ctx context.Context) (*ratings.Summary, error)
	Submit(ctx context.Context, sub ratings.Submission) (*ratings.SubmitResult, error)
}

// Handler holds the dependencies of every HTTP endpoint.
type Handler struct {
	engine    RecommendationEngine
	ratings   RatingsService
	dashboard ratings.DashboardConfig
	logger    zerolog.Logger
	version   string
	startTime time.Time

	// lookupTimeout bounds a single recommendation lookup.
	lookupTimeout time.Duration
}

// NewHandler creates the API handler.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewHandler(engine RecommendationEngine, ratingsSvc RatingsService, version string, logger zerolog.Logger) *Handler {
	return &Handler{
		engine:        engine,
		ratings:       ratingsSvc,
		dashboard:     ratings.DefaultDashboardConfig(),
		logger:        logger.With().Str("component", "api").Logger(),
		version:       version,
		startTime:     time.Now(),
		lookupTimeout: 10 * time.Second,
	}
}

// SetDashboardConfig replaces the chart settings used by the dashboard page.
func (h *Handler) SetDashboardConfig(cfg ratings.DashboardConfig) {
	h.dashboard = cfg
}
