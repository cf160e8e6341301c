// ReelSense - Film Ratings Analytics and Content-Based Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelsense

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tomtom215/reelsense/internal/middleware"
)

// Router wires the handler and middleware into a chi route tree.
type Router struct {
	handler       *Handler
	chiMiddleware *ChiMiddleware
}

// NewRouter creates a router. A nil middleware config uses the defaults.
func NewRouter(handler *Handler, mwConfig *ChiMiddlewareConfig) *Router {
	return &Router{
		handler:       handler,
		chiMiddleware: NewChiMiddleware(mwConfig),
	}
}

// Setup builds the route tree.
func (router *Router) Setup() http.Handler {
	r := chi.NewRouter()

	// Applied to ALL routes in order
	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.PrometheusMetrics)
	r.Use(router.chiMiddleware.CORS()) // CORS must be global to handle OPTIONS preflight

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimit())
		r.Use(APISecurityHeaders())

		r.Get("/health", router.handler.Health)

		r.Route("/recommendations", func(r chi.Router) {
			r.Get("/", router.handler.Recommendations)
			r.Get("/status", router.handler.RecommendationStatus)
		})

		r.Route("/ratings", func(r chi.Router) {
			r.Get("/", router.handler.ListRatings)
			r.Post("/", router.handler.SubmitRating)
			r.Get("/summary", router.handler.RatingsSummary)
		})
	})

	// The chart page embeds its data inline and compresses well.
	r.With(chimiddleware.Compress(5, "text/html")).Get("/dashboard", router.handler.Dashboard)
	r.Handle("/metrics", promhttp.Handler())

	return r
}
