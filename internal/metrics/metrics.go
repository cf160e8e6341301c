// ReelSense - Film Ratings Analytics and Content-Based Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelsense

package metrics

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/tomtom215/reelsense/internal/recommend"
)

// Lookup outcome label values.
const (
	OutcomeOK          = "ok"
	OutcomeNotFound    = "not_found"
	OutcomeAmbiguous   = "ambiguous"
	OutcomeNotLoaded   = "not_loaded"
	OutcomeError       = "error"
	OutcomeBuildFailed = "failed"
	OutcomeBuildOK     = "success"
	OutcomeRejected    = "rejected"
)

var (
	// Build Metrics
	BuildDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "recommend_build_duration_seconds",
			Help:    "Duration of full model builds in seconds",
			Buckets: []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60, 120}, // 5k-movie corpora take seconds
		},
	)

	BuildStageDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "recommend_build_stage_duration_seconds",
			Help:    "Duration of each build stage in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"stage"}, // "extract", "vectorize", "similarity"
	)

	BuildsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommend_builds_total",
			Help: "Total number of model builds by result",
		},
		[]string{"result"},
	)

	BuildSkippedRecords = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "recommend_build_skipped_records_total",
			Help: "Total number of malformed records skipped during builds",
		},
	)

	// Model Metrics
	ModelMovies = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "recommend_model_movies",
			Help: "Number of movies in the loaded model",
		},
	)

	ModelVocabularySize = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "recommend_model_vocabulary_size",
			Help: "Number of terms in the loaded model vocabulary",
		},
	)

	ModelVersion = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "recommend_model_version",
			Help: "Artifact version of the loaded model (0 when not persisted)",
		},
	)

	ModelReloads = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommend_model_reloads_total",
			Help: "Total number of artifact reloads by result",
		},
		[]string{"result"},
	)

	// Lookup Metrics
	LookupsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommend_lookups_total",
			Help: "Total number of recommendation lookups by outcome",
		},
		[]string{"outcome"},
	)

	LookupDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "recommend_lookup_duration_seconds",
			Help:    "Duration of recommendation lookups in seconds",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1},
		},
	)

	LookupCacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "recommend_cache_hits_total",
			Help: "Total number of recommendation cache hits",
		},
	)

	LookupCacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "recommend_cache_misses_total",
			Help: "Total number of recommendation cache misses",
		},
	)

	// API Endpoint Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Current number of active API requests",
		},
	)

	APIRateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_rate_limit_hits_total",
			Help: "Total number of rate limit rejections",
		},
		[]string{"endpoint"},
	)

	// Ratings Metrics
	RatingsSubmissions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ratings_submissions_total",
			Help: "Total number of ratings submissions by outcome",
		},
		[]string{"outcome"}, // "appended", "updated", "rejected", "error"
	)

	RatingsFilms = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "ratings_films",
			Help: "Number of films in the ratings sheet",
		},
	)
)

// RecordBuild records a finished or failed build.
func RecordBuild(report *recommend.BuildReport, err error) {
	if err != nil {
		BuildsTotal.WithLabelValues(OutcomeBuildFailed).Inc()
		return
	}
	BuildsTotal.WithLabelValues(OutcomeBuildOK).Inc()
	if report == nil {
		return
	}
	BuildDuration.Observe(report.Duration.Seconds())
	for stage, d := range report.Stages {
		BuildStageDuration.WithLabelValues(stage).Observe(d.Seconds())
	}
	BuildSkippedRecords.Add(float64(report.Skipped))
}

// SetModel updates the model gauges after a build or reload.
func SetModel(movies, vocabulary, version int) {
	ModelMovies.Set(float64(movies))
	ModelVocabularySize.Set(float64(vocabulary))
	ModelVersion.Set(float64(version))
}

// RecordReload records an artifact reload attempt.
func RecordReload(err error) {
	if err != nil {
		ModelReloads.WithLabelValues(OutcomeError).Inc()
		return
	}
	ModelReloads.WithLabelValues(OutcomeOK).Inc()
}

// LookupOutcome maps a lookup error to its outcome label.
func LookupOutcome(err error) string {
	switch {
	case err == nil:
		return OutcomeOK
	case errors.Is(err, recommend.ErrNotFound):
		return OutcomeNotFound
	case errors.Is(err, recommend.ErrAmbiguousTitle):
		return OutcomeAmbiguous
	case errors.Is(err, recommend.ErrModelNotLoaded):
		return OutcomeNotLoaded
	default:
		return OutcomeError
	}
}

// RecordLookup records a recommendation lookup.
func RecordLookup(duration time.Duration, cached bool, err error) {
	LookupsTotal.WithLabelValues(LookupOutcome(err)).Inc()
	LookupDuration.Observe(duration.Seconds())
	if err != nil {
		return
	}
	if cached {
		LookupCacheHits.Inc()
	} else {
		LookupCacheMisses.Inc()
	}
}

// RecordAPIRequest records an API request metric
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest tracks active API requests
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordRateLimitHit records a rejected request.
func RecordRateLimitHit(endpoint string) {
	APIRateLimitHits.WithLabelValues(endpoint).Inc()
}

// RecordRatingsSubmission records a submission outcome.
func RecordRatingsSubmission(outcome string) {
	RatingsSubmissions.WithLabelValues(outcome).Inc()
}

// SetRatingsFilms updates the ratings sheet size gauge.
func SetRatingsFilms(n int) {
	RatingsFilms.Set(float64(n))
}
