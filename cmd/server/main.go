// FridgeCook - Ingredient-Based Recipe Search
// Copyright 2026 FridgeCook Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fridgecook/fridgecook

// Package main is the entry point for the FridgeCook search server.
//
// FridgeCook answers "what can I cook with what I have": users select
// ingredients and get recipes ranked by how many of their ingredients
// each recipe uses, merged from a curated catalog and creator-submitted
// recipes.
//
// Startup order:
//
//  1. Configuration: koanf v2 layered load (defaults, YAML, environment)
//  2. Logging: zerolog, JSON or console per config
//  3. Database: DuckDB store, schema migration, optional dev fixtures
//  4. Search service: resolver, response cache, circuit breaker
//  5. HTTP server: chi router under a suture supervisor
//
// The server shuts down gracefully on SIGINT and SIGTERM, draining
// in-flight requests within the configured shutdown timeout.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/fridgecook/fridgecook/internal/api"
	"github.com/fridgecook/fridgecook/internal/config"
	"github.com/fridgecook/fridgecook/internal/database"
	"github.com/fridgecook/fridgecook/internal/logging"
	"github.com/fridgecook/fridgecook/internal/search"
	"github.com/fridgecook/fridgecook/internal/server"
)

func main() {
	if err := run(); err != nil {
		logging.Fatal().Err(err).Msg("Server exited with error")
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config load failed: %w", err)
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	logging.Info().
		Str("environment", cfg.Server.Environment).
		Int("port", cfg.Server.Port).
		Msg("Starting FridgeCook server")

	db, err := database.New(&cfg.Database)
	if err != nil {
		return fmt.Errorf("database init failed: %w", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logging.Error().Err(err).Msg("Database close failed")
		}
	}()

	svc := search.New(db, cfg.API, cfg.Search)
	handler := api.NewRouter(svc, db, cfg)

	httpServer := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	sup := server.NewSupervisor(logging.NewSlogLogger(), cfg.Server.ShutdownTimeout)
	sup.AddHTTPServer(httpServer, cfg.Server.ShutdownTimeout)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logging.Info().Str("addr", httpServer.Addr).Msg("Listening")
	if err := sup.Serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	logging.Info().Msg("Shutdown complete")
	return nil
}
