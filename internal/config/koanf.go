// FridgeCook - Ingredient-Based Recipe Search
// Copyright 2026 FridgeCook Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fridgecook/fridgecook

package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists where config files are searched, in order.
// The first file found wins.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/fridgecook/config.yaml",
	"/etc/fridgecook/config.yml",
}

// ConfigPathEnvVar overrides the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// defaultConfig returns a Config with all default values. Defaults are
// applied first, then overridden by config file and environment variables.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            8090,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			Environment:     "production",
			CORSOrigins:     []string{},
		},
		Database: DatabaseConfig{
			Path:         "/data/fridgecook.duckdb",
			MaxMemory:    "1GB",
			Threads:      0, // 0 = runtime.NumCPU()
			SeedFixtures: false,
		},
		API: APIConfig{
			DefaultPageSize:  12,
			MaxPageSize:      50,
			MaxSelectionSize: 30,
		},
		Search: SearchConfig{
			CacheTTL:                time.Minute,
			CacheMaxEntries:         512,
			BreakerOpenTimeout:      30 * time.Second,
			BreakerFailureThreshold: 5,
		},
		RateLimit: RateLimitConfig{
			Requests:   30,
			Window:     time.Minute,
			Multiplier: 1,
			Disabled:   false,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
	}
}

// Load builds the configuration from defaults, an optional YAML config
// file, and environment variables, in ascending precedence.
func Load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if configPath := findConfigFile(); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// SERVER_PORT -> server.port, RATE_LIMIT_MULTIPLIER -> rate_limit.multiplier
	envProvider := env.Provider("", ".", envTransform)
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// knownPrefixes maps environment variable prefixes to koanf sections.
// RATE_LIMIT is listed before the generic split so RATE_LIMIT_WINDOW maps
// to rate_limit.window rather than rate.limit_window.
var knownPrefixes = []struct {
	envPrefix string
	section   string
}{
	{"SERVER_", "server."},
	{"DATABASE_", "database."},
	{"API_", "api."},
	{"SEARCH_", "search."},
	{"RATE_LIMIT_", "rate_limit."},
	{"LOGGING_", "logging."},
}

// envTransform maps environment variable names onto koanf paths.
// Unrecognized variables are dropped so unrelated process environment
// does not leak into the configuration.
func envTransform(key string) string {
	for _, p := range knownPrefixes {
		if strings.HasPrefix(key, p.envPrefix) {
			rest := strings.ToLower(strings.TrimPrefix(key, p.envPrefix))
			return p.section + rest
		}
	}
	return ""
}

// findConfigFile returns the first existing config file path, or "".
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// sliceConfigPaths lists config paths parsed as comma-separated slices
// when supplied through environment variables.
var sliceConfigPaths = []string{
	"server.cors_origins",
}

// processSliceFields converts comma-separated string values into slices
// for known slice fields. Env vars arrive as strings; YAML values are
// already slices and pass through untouched.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		val := k.Get(path)
		if val == nil {
			continue
		}
		if _, ok := val.([]interface{}); ok {
			continue
		}
		if _, ok := val.([]string); ok {
			continue
		}
		s, ok := val.(string)
		if !ok {
			continue
		}
		parts := []string{}
		for _, p := range strings.Split(s, ",") {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				parts = append(parts, trimmed)
			}
		}
		if err := k.Set(path, parts); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}
	return nil
}

// validateStruct runs go-playground/validator over the config tree.
func validateStruct(cfg *Config) error {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := v.Struct(cfg); err != nil {
		var invalid *validator.InvalidValidationError
		if errors.As(err, &invalid) {
			return fmt.Errorf("config validation internal error: %w", err)
		}
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}
