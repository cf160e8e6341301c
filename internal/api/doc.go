// ReelSense - Film Ratings Analytics and Content-Based Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelsense

/*
Package api provides the HTTP surface of ReelSense on a chi router.

Endpoints:

	GET  /api/v1/health                     liveness and model state
	GET  /api/v1/recommendations?title=&k=  content-based lookup
	GET  /api/v1/recommendations/status     loaded model metadata and counters
	GET  /api/v1/ratings?sort=name|score    film ratings sheet
	GET  /api/v1/ratings/summary            dashboard figures
	POST /api/v1/ratings                    add or update a film rating
	GET  /dashboard                         HTML charts
	GET  /metrics                           Prometheus exposition

Every JSON endpoint answers with the models.APIResponse envelope. Domain errors
map to codes as follows:

	recommend.ErrNotFound        404 NOT_FOUND
	recommend.ErrAmbiguousTitle  409 AMBIGUOUS_TITLE
	recommend.ErrModelNotLoaded  503 MODEL_NOT_LOADED
	validation failures          400 VALIDATION_ERROR

Middleware stack (outermost first): request ID, real IP, panic recovery,
Prometheus instrumentation, CORS, then per-IP rate limiting and security
headers on the /api/v1 group.
*/
package api
