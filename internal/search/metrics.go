// FridgeCook - Ingredient-Based Recipe Search
// Copyright 2026 FridgeCook Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fridgecook/fridgecook

package search

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	searchRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "fridgecook",
		Subsystem: "search",
		Name:      "requests_total",
		Help:      "Search requests by outcome (hit, miss, empty, error).",
	}, []string{"outcome"})

	storeFailures = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "fridgecook",
		Subsystem: "search",
		Name:      "store_failures_total",
		Help:      "Catalog store call failures, including breaker rejections.",
	})

	breakerState = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "fridgecook",
		Subsystem: "search",
		Name:      "breaker_state",
		Help:      "Store circuit breaker state (0 closed, 1 half-open, 2 open).",
	})

	cacheEntries = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "fridgecook",
		Subsystem: "search",
		Name:      "cache_entries",
		Help:      "Current response cache entry count.",
	})
)

const (
	outcomeHit   = "hit"
	outcomeMiss  = "miss"
	outcomeEmpty = "empty"
	outcomeError = "error"
)
