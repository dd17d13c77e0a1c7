// FridgeCook - Ingredient-Based Recipe Search
// Copyright 2026 FridgeCook Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fridgecook/fridgecook

// Package config loads application configuration with koanf v2.
//
// Configuration loading order:
//  1. Defaults: built-in sensible defaults for all settings
//  2. Config file: optional YAML file (config.yaml or CONFIG_PATH)
//  3. Environment variables: override any setting (SERVER_PORT -> server.port)
//
// Config is immutable after Load() and safe for concurrent reads.
package config

import (
	"fmt"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Database  DatabaseConfig  `koanf:"database"`
	API       APIConfig       `koanf:"api"`
	Search    SearchConfig    `koanf:"search"`
	RateLimit RateLimitConfig `koanf:"rate_limit"`
	Logging   LoggingConfig   `koanf:"logging"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port" validate:"min=1,max=65535"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`

	// Environment is "production" or "development". In production the
	// rate-limit multiplier is hard-capped to 1.
	Environment string `koanf:"environment" validate:"oneof=production development"`

	// CORSOrigins lists allowed origins. Empty means same-origin only.
	CORSOrigins []string `koanf:"cors_origins"`
}

// DatabaseConfig holds DuckDB settings.
type DatabaseConfig struct {
	// Path is the database file path. Empty means in-memory, used by tests.
	Path string `koanf:"path"`

	// MaxMemory limits DuckDB memory usage (e.g. "1GB").
	MaxMemory string `koanf:"max_memory"`

	// Threads is the DuckDB thread count. 0 uses runtime.NumCPU().
	Threads int `koanf:"threads" validate:"min=0"`

	// SeedFixtures loads the development fixture data set after migration.
	SeedFixtures bool `koanf:"seed_fixtures"`
}

// APIConfig holds request shaping settings.
type APIConfig struct {
	// DefaultPageSize is used when the limit parameter is absent.
	DefaultPageSize int `koanf:"default_page_size" validate:"min=1"`

	// MaxPageSize clamps the limit parameter.
	MaxPageSize int `koanf:"max_page_size" validate:"min=1"`

	// MaxSelectionSize clamps the number of ingredient ids per search.
	MaxSelectionSize int `koanf:"max_selection_size" validate:"min=1"`
}

// SearchConfig holds ranking-engine and response-cache settings.
type SearchConfig struct {
	// CacheTTL is how long a cached search response stays fresh.
	CacheTTL time.Duration `koanf:"cache_ttl"`

	// CacheMaxEntries bounds the response cache; oldest-inserted entries
	// are evicted first once the ceiling is reached.
	CacheMaxEntries int `koanf:"cache_max_entries" validate:"min=1"`

	// BreakerOpenTimeout is how long the store circuit breaker stays open
	// after tripping before probing again.
	BreakerOpenTimeout time.Duration `koanf:"breaker_open_timeout"`

	// BreakerFailureThreshold trips the breaker after this many
	// consecutive store failures.
	BreakerFailureThreshold int `koanf:"breaker_failure_threshold" validate:"min=1"`
}

// RateLimitConfig holds per-client request quota settings.
type RateLimitConfig struct {
	// Requests is the quota per client address and route group per window.
	Requests int `koanf:"requests" validate:"min=1"`

	// Window is the rolling quota window.
	Window time.Duration `koanf:"window"`

	// Multiplier scales the quota for test environments. Values above 1
	// are ignored when Server.Environment is "production".
	Multiplier int `koanf:"multiplier" validate:"min=1"`

	// Disabled turns rate limiting off entirely (tests only).
	Disabled bool `koanf:"disabled"`
}

// LoggingConfig holds log output settings.
type LoggingConfig struct {
	Level  string `koanf:"level" validate:"oneof=trace debug info warn error fatal"`
	Format string `koanf:"format" validate:"oneof=json console"`
	Caller bool   `koanf:"caller"`
}

// EffectiveMultiplier returns the rate-limit multiplier with the
// production cap applied.
func (c *Config) EffectiveMultiplier() int {
	m := c.RateLimit.Multiplier
	if m < 1 {
		m = 1
	}
	if c.Server.Environment == "production" && m > 1 {
		return 1
	}
	return m
}

// Validate checks ranges and cross-field consistency.
func (c *Config) Validate() error {
	if err := validateStruct(c); err != nil {
		return err
	}
	if c.API.DefaultPageSize > c.API.MaxPageSize {
		return fmt.Errorf("api.default_page_size (%d) exceeds api.max_page_size (%d)",
			c.API.DefaultPageSize, c.API.MaxPageSize)
	}
	if c.RateLimit.Window <= 0 {
		return fmt.Errorf("rate_limit.window must be positive, got %s", c.RateLimit.Window)
	}
	if c.Search.CacheTTL <= 0 {
		return fmt.Errorf("search.cache_ttl must be positive, got %s", c.Search.CacheTTL)
	}
	return nil
}
