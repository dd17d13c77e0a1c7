// FridgeCook - Ingredient-Based Recipe Search
// Copyright 2026 FridgeCook Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fridgecook/fridgecook

// Package api exposes the HTTP surface of the search service: the search
// and feed endpoints, the ingredient picker endpoints, per-user pantry
// CRUD, and health/metrics.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/fridgecook/fridgecook/internal/config"
	"github.com/fridgecook/fridgecook/internal/models"
	"github.com/fridgecook/fridgecook/internal/search"
)

// Pinger is the store liveness probe used by the readiness endpoint.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Router wires handlers, middleware, and rate limits into a chi mux.
type Router struct {
	svc     *search.Service
	pinger  Pinger
	cfg     *config.Config
	started time.Time
}

// NewRouter builds the HTTP handler tree.
func NewRouter(svc *search.Service, pinger Pinger, cfg *config.Config) http.Handler {
	rt := &Router{
		svc:     svc,
		pinger:  pinger,
		cfg:     cfg,
		started: time.Now(),
	}

	// The configured quota is multiplied for non-production environments
	// so load tests and E2E suites do not trip the limiter; production
	// always runs at the base quota.
	quota := cfg.RateLimit.Requests * cfg.EffectiveMultiplier()
	if cfg.RateLimit.Disabled {
		quota = 0
	}
	window := cfg.RateLimit.Window

	r := chi.NewRouter()
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(RequestIDWithLogging())
	r.Use(RequestLogging())
	r.Use(PrometheusMetrics())
	r.Use(CORS(cfg.Server.CORSOrigins))

	r.Route("/api/v1", func(r chi.Router) {
		// Search and feed: the hot read path gets the configured quota.
		r.Group(func(r chi.Router) {
			r.Use(RateLimit(quota, window))
			r.Get("/dishes/search", rt.handleSearchDishes)
			r.Get("/dishes/popular", rt.handlePopularDishes)
			r.Get("/ingredients/search", rt.handleAutocomplete)
			r.Get("/ingredients/base", rt.handleBaseIngredients)
			r.Get("/ingredients/names", rt.handleIngredientNames)
		})

		// Pantry writes: a tighter quota, writes are rarer than searches.
		r.Group(func(r chi.Router) {
			r.Use(RateLimit(quota/2+1, window))
			r.Get("/users/me/ingredients", rt.handlePantryList)
			r.Post("/users/me/ingredients", rt.handlePantryAdd)
			r.Delete("/users/me/ingredients/{ingredientID}", rt.handlePantryRemove)
		})

		// Health: permissive, monitoring probes are frequent.
		r.Group(func(r chi.Router) {
			r.Use(RateLimit(1000, time.Minute))
			r.Get("/health/live", rt.handleHealthLive)
			r.Get("/health/ready", rt.handleHealthReady)
		})
	})

	r.Handle("/metrics", promhttp.Handler())

	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		respondError(w, req, http.StatusNotFound, models.CodeNotFound, "route not found", nil)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, req *http.Request) {
		respondError(w, req, http.StatusMethodNotAllowed, models.CodeValidationError, "method not allowed", nil)
	})

	return r
}
