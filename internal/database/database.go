// FridgeCook - Ingredient-Based Recipe Search
// Copyright 2026 FridgeCook Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fridgecook/fridgecook

// Package database provides the DuckDB-backed store for the ingredient
// catalog, curated dishes, creator recipes, and user pantries.
//
// The catalog tables (ingredients, dishes, dish_ingredients) are read-only
// at runtime and maintained by an external import pipeline. The user tables
// (user_ingredients, creators, user_recipes) are read-write.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	_ "github.com/duckdb/duckdb-go/v2"

	"github.com/fridgecook/fridgecook/internal/config"
	"github.com/fridgecook/fridgecook/internal/logging"
)

// DB wraps the DuckDB connection and provides data access methods.
type DB struct {
	conn *sql.DB
	cfg  *config.DatabaseConfig
}

// New opens the database, applies settings, and migrates the schema.
// An empty cfg.Path opens an in-memory database, used by tests.
func New(cfg *config.DatabaseConfig) (*DB, error) {
	if cfg.Path != "" {
		dbDir := filepath.Dir(cfg.Path)
		if dbDir != "" && dbDir != "." {
			if err := os.MkdirAll(dbDir, 0o750); err != nil {
				return nil, fmt.Errorf("failed to create database directory %s: %w", dbDir, err)
			}
		}
	}

	conn, err := sql.Open("duckdb", cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db := &DB{conn: conn, cfg: cfg}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := db.applySettings(ctx); err != nil {
		_ = conn.Close()
		return nil, err
	}
	if err := db.migrate(ctx); err != nil {
		_ = conn.Close()
		return nil, err
	}
	if cfg.SeedFixtures {
		if err := db.SeedFixtures(ctx); err != nil {
			_ = conn.Close()
			return nil, err
		}
	}

	logging.Info().Str("path", cfg.Path).Msg("Database ready")
	return db, nil
}

// applySettings configures DuckDB memory and thread limits.
func (db *DB) applySettings(ctx context.Context) error {
	threads := db.cfg.Threads
	if threads <= 0 {
		threads = runtime.NumCPU()
	}
	if _, err := db.conn.ExecContext(ctx, fmt.Sprintf("SET threads TO %d", threads)); err != nil {
		return fmt.Errorf("failed to set threads: %w", err)
	}
	if db.cfg.MaxMemory != "" {
		// Memory limit is a config-controlled literal, not user input.
		stmt := fmt.Sprintf("SET memory_limit = '%s'", strings.ReplaceAll(db.cfg.MaxMemory, "'", ""))
		if _, err := db.conn.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to set memory limit: %w", err)
		}
	}
	return nil
}

// migrate creates the schema if it does not exist.
func (db *DB) migrate(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS ingredients (
			id        BIGINT PRIMARY KEY,
			name      VARCHAR NOT NULL,
			name_en   VARCHAR,
			category  VARCHAR,
			parent_id BIGINT,
			is_base   BOOLEAN NOT NULL DEFAULT FALSE,
			aliases   VARCHAR
		)`,
		`CREATE TABLE IF NOT EXISTS dishes (
			id          BIGINT PRIMARY KEY,
			name        VARCHAR NOT NULL,
			name_en     VARCHAR,
			category    VARCHAR,
			cuisine     VARCHAR,
			image_url   VARCHAR,
			description VARCHAR
		)`,
		`CREATE TABLE IF NOT EXISTS dish_ingredients (
			dish_id       BIGINT NOT NULL,
			ingredient_id BIGINT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS creators (
			id            BIGINT PRIMARY KEY,
			user_id       BIGINT NOT NULL,
			nickname      VARCHAR,
			channel_name  VARCHAR,
			profile_image VARCHAR
		)`,
		`CREATE TABLE IF NOT EXISTS user_recipes (
			id               BIGINT PRIMARY KEY,
			creator_id       BIGINT NOT NULL,
			title            VARCHAR NOT NULL,
			category         VARCHAR,
			status           VARCHAR NOT NULL DEFAULT 'published',
			youtube_video_id VARCHAR,
			image_url        VARCHAR,
			view_count       BIGINT NOT NULL DEFAULT 0,
			like_count       BIGINT NOT NULL DEFAULT 0,
			created_at       TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS user_recipe_ingredients (
			recipe_id     BIGINT NOT NULL,
			ingredient_id BIGINT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS user_ingredients (
			id            BIGINT PRIMARY KEY,
			user_id       BIGINT NOT NULL,
			ingredient_id BIGINT NOT NULL,
			expiry_date   DATE,
			created_at    TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			UNIQUE (user_id, ingredient_id)
		)`,
		`CREATE SEQUENCE IF NOT EXISTS user_ingredients_seq START 1`,
		`CREATE INDEX IF NOT EXISTS idx_ingredients_parent ON ingredients (parent_id)`,
		`CREATE INDEX IF NOT EXISTS idx_dish_ingredients_dish ON dish_ingredients (dish_id)`,
		`CREATE INDEX IF NOT EXISTS idx_dish_ingredients_ingredient ON dish_ingredients (ingredient_id)`,
		`CREATE INDEX IF NOT EXISTS idx_user_recipes_status ON user_recipes (status)`,
	}
	for _, stmt := range stmts {
		if _, err := db.conn.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}
	return nil
}

// Ping verifies the connection is alive.
func (db *DB) Ping(ctx context.Context) error {
	return db.conn.PingContext(ctx)
}

// Close closes the underlying connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

// placeholders returns a "?, ?, ?" fragment with n slots.
func placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}

// int64Args converts an id slice into query arguments.
func int64Args(ids []int64) []interface{} {
	args := make([]interface{}, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	return args
}
