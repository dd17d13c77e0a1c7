// FridgeCook - Ingredient-Based Recipe Search
// Copyright 2026 FridgeCook Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fridgecook/fridgecook

package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/fridgecook/fridgecook/internal/models"
)

// nameColumn returns the locale-appropriate display-name expression,
// with every column qualified by table when non-empty.
func nameColumn(locale models.Locale, table string) string {
	name, nameEn := "name", "name_en"
	if table != "" {
		name = table + ".name"
		nameEn = table + ".name_en"
	}
	if locale == models.LocaleEN {
		return fmt.Sprintf("COALESCE(NULLIF(%s, ''), %s)", nameEn, name)
	}
	return name
}

// BaseIngredientIDsByNames resolves display names to base-ingredient ids.
// Matching is locale-aware: the localized name column is checked first,
// then the comma-separated alias list. Names with no base match are
// dropped silently.
func (db *DB) BaseIngredientIDsByNames(ctx context.Context, names []string, locale models.Locale) ([]int64, error) {
	if len(names) == 0 {
		return nil, nil
	}

	ph := placeholders(len(names))
	// Alias matching wraps both sides in commas so "egg" cannot match
	// "eggplant" inside the list.
	query := fmt.Sprintf(`
		SELECT DISTINCT id FROM ingredients
		WHERE is_base
		  AND (%s IN (%s)
		       OR name IN (%s)
		       OR EXISTS (
		           SELECT 1 FROM (SELECT UNNEST(string_split(COALESCE(aliases, ''), ',')) AS alias) a
		           WHERE trim(a.alias) IN (%s)))
		ORDER BY id`,
		nameColumn(locale, ""), ph, ph, ph)

	args := make([]interface{}, 0, len(names)*3)
	for i := 0; i < 3; i++ {
		for _, n := range names {
			args = append(args, strings.TrimSpace(n))
		}
	}

	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("base ingredient lookup failed: %w", err)
	}
	defer rows.Close()

	return scanIDs(rows)
}

// BaseIngredientIDs maps arbitrary ingredient ids (base or variant) to
// base ids. A base id maps to itself; a variant maps through parent_id,
// or through a base row sharing its canonical name when the variant row
// is an independent localized entry without a parent link. Unknown ids
// resolve to nothing.
func (db *DB) BaseIngredientIDs(ctx context.Context, ids []int64) ([]int64, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	ph := placeholders(len(ids))
	query := fmt.Sprintf(`
		SELECT DISTINCT b.id
		FROM ingredients i
		JOIN ingredients b
		  ON b.is_base
		 AND (b.id = i.id
		      OR b.id = i.parent_id
		      OR (NOT i.is_base AND i.parent_id IS NULL AND b.name = i.name))
		WHERE i.id IN (%s)
		ORDER BY b.id`, ph)

	rows, err := db.conn.QueryContext(ctx, query, int64Args(ids)...)
	if err != nil {
		return nil, fmt.Errorf("base id resolution failed: %w", err)
	}
	defer rows.Close()

	return scanIDs(rows)
}

// ExpandWithChildren returns the base ids plus every ingredient whose
// parent is one of them: the concrete matchable identifier set.
func (db *DB) ExpandWithChildren(ctx context.Context, baseIDs []int64) ([]int64, error) {
	if len(baseIDs) == 0 {
		return nil, nil
	}

	ph := placeholders(len(baseIDs))
	query := fmt.Sprintf(`
		SELECT id FROM ingredients
		WHERE id IN (%s) OR parent_id IN (%s)
		ORDER BY id`, ph, ph)

	args := append(int64Args(baseIDs), int64Args(baseIDs)...)
	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("hierarchy expansion failed: %w", err)
	}
	defer rows.Close()

	return scanIDs(rows)
}

// IngredientNamesByIDs returns locale display names for the given ids.
// Missing ids are simply absent from the map.
func (db *DB) IngredientNamesByIDs(ctx context.Context, ids []int64, locale models.Locale) (map[int64]string, error) {
	if len(ids) == 0 {
		return map[int64]string{}, nil
	}

	query := fmt.Sprintf(`SELECT id, %s FROM ingredients WHERE id IN (%s)`,
		nameColumn(locale, ""), placeholders(len(ids)))

	rows, err := db.conn.QueryContext(ctx, query, int64Args(ids)...)
	if err != nil {
		return nil, fmt.Errorf("ingredient name lookup failed: %w", err)
	}
	defer rows.Close()

	names := make(map[int64]string, len(ids))
	for rows.Next() {
		var id int64
		var name string
		if err := rows.Scan(&id, &name); err != nil {
			return nil, fmt.Errorf("ingredient name scan failed: %w", err)
		}
		names[id] = name
	}
	return names, rows.Err()
}

// BaseIngredients lists base ingredients for the picker, optionally
// restricted to one category, ordered by category then name.
func (db *DB) BaseIngredients(ctx context.Context, category string, locale models.Locale) ([]models.Ingredient, error) {
	query := `
		SELECT id, name, COALESCE(name_en, ''), COALESCE(category, ''), is_base
		FROM ingredients
		WHERE is_base`
	args := []interface{}{}
	if category != "" {
		query += " AND category = ?"
		args = append(args, category)
	}
	query += fmt.Sprintf(" ORDER BY category, %s", nameColumn(locale, ""))

	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("base ingredient list failed: %w", err)
	}
	defer rows.Close()

	var out []models.Ingredient
	for rows.Next() {
		var ing models.Ingredient
		if err := rows.Scan(&ing.ID, &ing.Name, &ing.NameEn, &ing.Category, &ing.IsBase); err != nil {
			return nil, fmt.Errorf("base ingredient scan failed: %w", err)
		}
		out = append(out, ing)
	}
	return out, rows.Err()
}

// AutocompleteIngredients searches base ingredients by a partial term,
// ranked exact > prefix > alias > contains, then by name length. Limit 10.
func (db *DB) AutocompleteIngredients(ctx context.Context, term string, categories []string, locale models.Locale) ([]models.AutocompleteResult, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return nil, nil
	}

	name := nameColumn(locale, "")
	prefixPattern := term + "%"
	containsPattern := "%" + term + "%"

	var sb strings.Builder
	args := []interface{}{}

	fmt.Fprintf(&sb, `
		SELECT id, name, COALESCE(name_en, ''), COALESCE(category, ''), is_base,
		       CASE
		           WHEN %[1]s = ? THEN 'exact'
		           WHEN %[1]s LIKE ? THEN 'prefix'
		           WHEN COALESCE(aliases, '') LIKE ? THEN 'alias'
		           ELSE 'contains'
		       END AS match_type
		FROM ingredients
		WHERE is_base`, name)
	args = append(args, term, prefixPattern, containsPattern)

	if len(categories) > 0 {
		fmt.Fprintf(&sb, " AND category IN (%s)", placeholders(len(categories)))
		for _, c := range categories {
			args = append(args, c)
		}
	}

	fmt.Fprintf(&sb, `
		  AND (%[1]s = ? OR %[1]s LIKE ? OR COALESCE(aliases, '') LIKE ? OR %[1]s LIKE ?)
		ORDER BY
		    CASE
		        WHEN %[1]s = ? THEN 1
		        WHEN %[1]s LIKE ? THEN 2
		        WHEN COALESCE(aliases, '') LIKE ? THEN 3
		        ELSE 4
		    END,
		    length(%[1]s),
		    %[1]s
		LIMIT 10`, name)
	args = append(args,
		term, prefixPattern, containsPattern, containsPattern,
		term, prefixPattern, containsPattern)

	rows, err := db.conn.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("ingredient autocomplete failed: %w", err)
	}
	defer rows.Close()

	var out []models.AutocompleteResult
	for rows.Next() {
		var r models.AutocompleteResult
		var matchType string
		if err := rows.Scan(&r.ID, &r.Name, &r.NameEn, &r.Category, &r.IsBase, &matchType); err != nil {
			return nil, fmt.Errorf("autocomplete scan failed: %w", err)
		}
		r.MatchType = models.AutocompleteMatch(matchType)
		out = append(out, r)
	}
	return out, rows.Err()
}

// scanIDs drains a single-column id result set.
func scanIDs(rows *sql.Rows) ([]int64, error) {
	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("id scan failed: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
