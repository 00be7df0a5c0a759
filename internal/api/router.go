// Basketmine - Market Basket Mining and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/basketmine

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tomtom215/basketmine/internal/config"
)

// NewRouter wires the full HTTP surface: global middleware, the
// versioned API, health, and the Prometheus endpoint.
func NewRouter(handler *Handler, cfg *config.APIConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware, applied to all routes in order.
	r.Use(RequestID())
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(RequestLogging())
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.CORSOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", requestIDHeader},
		MaxAge:         300,
	}))

	r.Route("/api/v1", func(r chi.Router) {
		if cfg.RateLimitRequests > 0 {
			r.Use(httprate.LimitByIP(cfg.RateLimitRequests, cfg.RateLimitWindow))
		}
		r.Use(PrometheusMetrics())

		r.Post("/recommendations", handler.Recommendations)
		r.Get("/rules", handler.Rules)
		r.Get("/itemsets", handler.Itemsets)
		r.Get("/items", handler.Items)
		r.Get("/products/top", handler.TopProducts)
		r.Get("/status", handler.Status)
		r.Post("/train", handler.Train)
	})

	// Health gets a generous limit of its own so monitoring never
	// competes with API clients for budget.
	r.Group(func(r chi.Router) {
		r.Use(httprate.LimitByIP(1000, time.Minute))
		r.Get("/health", handler.Health)
	})

	r.Handle("/metrics", promhttp.Handler())

	return r
}
