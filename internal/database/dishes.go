// FridgeCook - Ingredient-Based Recipe Search
// Copyright 2026 FridgeCook Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fridgecook/fridgecook

package database

import (
	"context"
	"fmt"

	"github.com/fridgecook/fridgecook/internal/models"
)

// coverageCTE computes per-dish coverage against the matchable id set.
//
// match_count counts DISTINCT BASE identities: a required variant
// ingredient is folded onto its base via COALESCE(parent_id, id), so
// selecting "onion" satisfies a dish that lists "diced onion" and two
// covered variants of one base count once. total_count is the dish's own
// required-ingredient cardinality, used to rank more complete matches
// higher.
func coverageCTE(selectionSize int, locale models.Locale) string {
	return fmt.Sprintf(`
		WITH coverage AS (
			SELECT
				di.dish_id,
				COUNT(DISTINCT CASE WHEN di.ingredient_id IN (%s)
				      THEN COALESCE(i.parent_id, i.id) END) AS match_count,
				COUNT(DISTINCT di.ingredient_id) AS total_count,
				string_agg(DISTINCT %s, ', ') AS ingredient_names
			FROM dish_ingredients di
			JOIN ingredients i ON i.id = di.ingredient_id
			GROUP BY di.dish_id
		)`, placeholders(selectionSize), nameColumn(locale, "i"))
}

// SearchDishes ranks and paginates catalog dishes by ingredient coverage.
// Returns the requested page plus the total matching dish count across the
// whole filter. A store failure returns an error without partial results.
func (db *DB) SearchDishes(ctx context.Context, f DishSearchFilter) ([]models.SearchResult, int, error) {
	if err := f.validate(); err != nil {
		return nil, 0, err
	}

	conditions := []string{"c.match_count > 0"}
	cuisineConds, cuisineArgs := f.buildCuisineConditions()
	conditions = append(conditions, cuisineConds...)

	cte := coverageCTE(len(f.MatchableIDs), f.Locale)
	where := whereClause(conditions)

	countQuery := fmt.Sprintf(`%s
		SELECT COUNT(*)
		FROM dishes d
		JOIN coverage c ON c.dish_id = d.id
		%s`, cte, where)

	countArgs := append(int64Args(f.MatchableIDs), cuisineArgs...)
	var total int
	if err := db.conn.QueryRowContext(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("dish count query failed: %w", err)
	}

	if f.Limit == 0 {
		return []models.SearchResult{}, total, nil
	}

	pageQuery := fmt.Sprintf(`%s
		SELECT
			d.id,
			%s,
			COALESCE(d.category, ''),
			COALESCE(d.image_url, ''),
			COALESCE(d.description, ''),
			COALESCE(c.ingredient_names, ''),
			c.match_count,
			c.total_count
		FROM dishes d
		JOIN coverage c ON c.dish_id = d.id
		%s
		%s
		LIMIT ? OFFSET ?`, cte, nameColumn(f.Locale, "d"), where, f.orderBy())

	pageArgs := append(append(int64Args(f.MatchableIDs), cuisineArgs...), f.Limit, f.Offset)
	rows, err := db.conn.QueryContext(ctx, pageQuery, pageArgs...)
	if err != nil {
		return nil, 0, fmt.Errorf("dish search query failed: %w", err)
	}
	defer rows.Close()

	results := []models.SearchResult{}
	for rows.Next() {
		r := models.SearchResult{Provenance: models.ProvenanceCatalog}
		if err := rows.Scan(&r.ID, &r.Name, &r.Category, &r.ImageURL, &r.Description,
			&r.Ingredients, &r.MatchCount, &r.TotalCount); err != nil {
			return nil, 0, fmt.Errorf("dish search scan failed: %w", err)
		}
		results = append(results, r)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("dish search iteration failed: %w", err)
	}

	return results, total, nil
}

// PopularDishes returns the landing-page feed for an empty selection:
// dishes spread evenly across categories, image-carrying rows first,
// shuffled by the same dish-id hash the ranking engine uses so the feed
// is stable across requests.
func (db *DB) PopularDishes(ctx context.Context, cuisine models.Cuisine, offset, limit int, locale models.Locale) ([]models.Dish, int, error) {
	if limit <= 0 {
		return nil, 0, fmt.Errorf("popular dishes requires a positive limit, got %d", limit)
	}
	if offset < 0 {
		offset = 0
	}

	f := DishSearchFilter{Cuisine: cuisine}
	conditions, args := f.buildCuisineConditions()
	where := whereClause(conditions)

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM dishes d %s", where)
	var total int
	if err := db.conn.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("popular dish count failed: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT id, %s, COALESCE(category, ''), COALESCE(cuisine, ''),
		       COALESCE(image_url, ''), COALESCE(description, '')
		FROM (
			SELECT
				d.*,
				ROW_NUMBER() OVER (
					PARTITION BY d.category
					ORDER BY
						CASE WHEN d.image_url IS NOT NULL AND d.image_url != '' THEN 0 ELSE 1 END,
						(d.id * 2654435761) %% 2147483647
				) AS rn
			FROM dishes d
			%s
		) ranked
		ORDER BY rn, (id * 2654435761) %% 2147483647
		LIMIT ? OFFSET ?`, nameColumn(locale, ""), where)

	rows, err := db.conn.QueryContext(ctx, query, append(args, limit, offset)...)
	if err != nil {
		return nil, 0, fmt.Errorf("popular dish query failed: %w", err)
	}
	defer rows.Close()

	dishes := []models.Dish{}
	for rows.Next() {
		var d models.Dish
		if err := rows.Scan(&d.ID, &d.Name, &d.Category, &d.Cuisine, &d.ImageURL, &d.Description); err != nil {
			return nil, 0, fmt.Errorf("popular dish scan failed: %w", err)
		}
		dishes = append(dishes, d)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("popular dish iteration failed: %w", err)
	}

	return dishes, total, nil
}
