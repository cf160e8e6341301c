// ReelSense - Film Ratings Analytics and Content-Based Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelsense

/*
Package metrics provides Prometheus metrics for the recommender and the
ratings dashboard.

All collectors are registered on the default registry through promauto and
exposed at /metrics by the API server:

	curl http://localhost:8080/metrics

# Available Metrics

Build Metrics:
  - recommend_build_duration_seconds: full build time (histogram)
  - recommend_build_stage_duration_seconds: per stage time (histogram)
    Labels: stage (extract, vectorize, similarity)
  - recommend_builds_total: builds (counter)
    Labels: result (success, failed)
  - recommend_build_skipped_records_total: malformed records skipped (counter)

Model Metrics:
  - recommend_model_movies, recommend_model_vocabulary_size,
    recommend_model_version: loaded model shape (gauges)
  - recommend_model_reloads_total: artifact reloads (counter)
    Labels: result (ok, error)

Lookup Metrics:
  - recommend_lookups_total: lookups (counter)
    Labels: outcome (ok, not_found, ambiguous, not_loaded, error)
  - recommend_lookup_duration_seconds: lookup latency (histogram)
  - recommend_cache_hits_total, recommend_cache_misses_total (counters)

API Metrics:
  - api_requests_total: requests (counter)
    Labels: method, endpoint, status_code
  - api_request_duration_seconds: latency (histogram)
    Labels: method, endpoint
  - api_active_requests: in-flight requests (gauge)
  - api_rate_limit_hits_total: rejected requests (counter)
    Labels: endpoint

Ratings Metrics:
  - ratings_submissions_total: submissions (counter)
    Labels: outcome (appended, updated, rejected, error)
  - ratings_films: sheet size (gauge)

# Usage

	start := time.Now()
	res, err := engine.Recommend(ctx, title, k)
	metrics.RecordLookup(time.Since(start), res != nil && res.Cached, err)

Endpoint labels use chi route patterns, not raw paths, to keep label
cardinality bounded.
*/
package metrics
