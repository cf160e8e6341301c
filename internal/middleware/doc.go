// ReelSense - Film Ratings Analytics and Content-Based Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelsense

/*
Package middleware provides chi-compatible HTTP middleware for request
tracking and Prometheus instrumentation.

Key Components:

  - RequestID: UUID-based request tracking, propagated into the logging context
  - PrometheusMetrics: request count, latency and in-flight gauges labelled by route pattern

Usage:

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.PrometheusMetrics)

PrometheusMetrics reads the chi route pattern after the handler returns, so it
must be installed on the router (not wrapped around it) for the endpoint label
to resolve. Requests that match no route are labelled "unmatched".
*/
package middleware
