// FridgeCook - Ingredient-Based Recipe Search
// Copyright 2026 FridgeCook Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fridgecook/fridgecook

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/fridgecook/fridgecook/internal/models"
)

// ErrNotFound is returned for lookups and deletes of absent rows.
var ErrNotFound = errors.New("not found")

// ListUserIngredients returns the pantry of one user, newest first.
func (db *DB) ListUserIngredients(ctx context.Context, userID int64, locale models.Locale) ([]models.UserIngredient, error) {
	query := fmt.Sprintf(`
		SELECT ui.id, ui.user_id, ui.ingredient_id, %s, COALESCE(i.category, ''),
		       ui.expiry_date, ui.created_at
		FROM user_ingredients ui
		JOIN ingredients i ON i.id = ui.ingredient_id
		WHERE ui.user_id = ?
		ORDER BY ui.created_at DESC, ui.id DESC`, nameColumn(locale, "i"))

	rows, err := db.conn.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("pantry list failed: %w", err)
	}
	defer rows.Close()

	items := []models.UserIngredient{}
	for rows.Next() {
		var it models.UserIngredient
		var expiry sql.NullTime
		if err := rows.Scan(&it.ID, &it.UserID, &it.IngredientID, &it.Name, &it.Category,
			&expiry, &it.CreatedAt); err != nil {
			return nil, fmt.Errorf("pantry scan failed: %w", err)
		}
		if expiry.Valid {
			t := expiry.Time
			it.ExpiryDate = &t
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

// AddUserIngredient inserts a pantry row; adding an ingredient the user
// already has refreshes its expiry date instead of duplicating the row.
func (db *DB) AddUserIngredient(ctx context.Context, userID, ingredientID int64, expiry *time.Time) (int64, error) {
	// Verify the ingredient exists and is selectable.
	var isBase bool
	err := db.conn.QueryRowContext(ctx,
		"SELECT is_base FROM ingredients WHERE id = ?", ingredientID).Scan(&isBase)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("ingredient %d: %w", ingredientID, ErrNotFound)
	}
	if err != nil {
		return 0, fmt.Errorf("ingredient check failed: %w", err)
	}

	var existing int64
	err = db.conn.QueryRowContext(ctx,
		"SELECT id FROM user_ingredients WHERE user_id = ? AND ingredient_id = ?",
		userID, ingredientID).Scan(&existing)
	switch {
	case err == nil:
		if _, err := db.conn.ExecContext(ctx,
			"UPDATE user_ingredients SET expiry_date = ? WHERE id = ?", expiry, existing); err != nil {
			return 0, fmt.Errorf("pantry refresh failed: %w", err)
		}
		return existing, nil
	case errors.Is(err, sql.ErrNoRows):
		// fall through to insert
	default:
		return 0, fmt.Errorf("pantry lookup failed: %w", err)
	}

	var id int64
	err = db.conn.QueryRowContext(ctx, `
		INSERT INTO user_ingredients (id, user_id, ingredient_id, expiry_date)
		VALUES (nextval('user_ingredients_seq'), ?, ?, ?)
		RETURNING id`, userID, ingredientID, expiry).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("pantry insert failed: %w", err)
	}
	return id, nil
}

// RemoveUserIngredient deletes one pantry row owned by the user.
func (db *DB) RemoveUserIngredient(ctx context.Context, userID, ingredientID int64) error {
	res, err := db.conn.ExecContext(ctx,
		"DELETE FROM user_ingredients WHERE user_id = ? AND ingredient_id = ?",
		userID, ingredientID)
	if err != nil {
		return fmt.Errorf("pantry delete failed: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("pantry delete result failed: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("pantry ingredient %d: %w", ingredientID, ErrNotFound)
	}
	return nil
}
