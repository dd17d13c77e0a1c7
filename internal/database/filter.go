// FridgeCook - Ingredient-Based Recipe Search
// Copyright 2026 FridgeCook Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fridgecook/fridgecook

package database

import (
	"fmt"
	"strings"

	"github.com/fridgecook/fridgecook/internal/models"
)

// DishSearchFilter contains the parameters for one catalog ranking query.
// All user-influenced values are bound as parameters, never interpolated.
type DishSearchFilter struct {
	// MatchableIDs is the expanded ingredient id set (bases + children).
	// An empty set must be short-circuited by the caller; the builder
	// rejects it defensively.
	MatchableIDs []int64

	// Cuisine restricts candidates to a category allow-list. Ignored when
	// SubCategory is set.
	Cuisine models.Cuisine

	// SubCategory, when non-empty, restricts candidates to one exact
	// category and overrides Cuisine.
	SubCategory string

	Offset int

	// Limit 0 runs a count-only query: the page fell entirely inside the
	// creator pool but the caller still needs the catalog total.
	Limit int

	Locale models.Locale
}

// cuisineCategories maps each cuisine key to its legacy category
// allow-list, used for rows imported before the explicit cuisine taxonomy
// existed. CuisineMixed applies no restriction.
var cuisineCategories = map[models.Cuisine][]string{
	models.CuisineKorean:  {"밑반찬", "메인반찬", "밥/죽/떡", "국/탕", "찌개", "김치/젓갈/장류", "면/만두"},
	models.CuisineWestern: {"양식", "Main", "Side Dish", "스프", "샐러드"},
	models.CuisineDessert: {"디저트", "Dessert", "빵", "과자"},
}

// appendInClause appends "col IN (?, ?, ...)" to conditions and its
// values to args. No-op for an empty value list.
func appendInClause(conditions []string, args []interface{}, column string, values []string) ([]string, []interface{}) {
	if len(values) == 0 {
		return conditions, args
	}
	conditions = append(conditions, fmt.Sprintf("%s IN (%s)", column, placeholders(len(values))))
	for _, v := range values {
		args = append(args, v)
	}
	return conditions, args
}

// buildCuisineConditions returns the WHERE fragments restricting dishes to
// the requested cuisine, and their bound arguments.
//
// A dish qualifies for a cuisine when its explicit cuisine column matches.
// Legacy rows without a cuisine value qualify when their category is in
// the cuisine's allow-list.
func (f *DishSearchFilter) buildCuisineConditions() ([]string, []interface{}) {
	var conditions []string
	var args []interface{}

	if f.SubCategory != "" {
		conditions = append(conditions, "d.category = ?")
		args = append(args, f.SubCategory)
		return conditions, args
	}

	if f.Cuisine == models.CuisineMixed || f.Cuisine == "" {
		return nil, nil
	}

	categories := cuisineCategories[f.Cuisine]
	var legacy []string
	var legacyArgs []interface{}
	legacy, legacyArgs = appendInClause(legacy, legacyArgs, "d.category", categories)

	cond := fmt.Sprintf("(d.cuisine = ? OR (COALESCE(d.cuisine, '') = '' AND %s))", legacy[0])
	conditions = append(conditions, cond)
	args = append(args, string(f.Cuisine))
	args = append(args, legacyArgs...)
	return conditions, args
}

// orderBy returns the deterministic ORDER BY clause for the filter.
//
// Ranking: coverage first, then dishes needing fewer ingredients overall,
// then a cuisine-affinity tie-break, then a Knuth multiplicative hash of
// the dish id so ties land in a stable pseudo-random order that is
// reproducible across identical queries.
func (f *DishSearchFilter) orderBy() string {
	tiebreak := ""
	if f.SubCategory == "" && (f.Cuisine == models.CuisineMixed || f.Cuisine == "") && f.Locale == models.LocaleKO {
		// Mixed feed for the Korean locale floats Korean-category dishes
		// above script-foreign ones at equal rank. Explicit taxonomy wins;
		// the Hangul test is the legacy fallback.
		tiebreak = `
			CASE
				WHEN d.cuisine = 'korean' THEN 0
				WHEN COALESCE(d.cuisine, '') = '' AND regexp_matches(COALESCE(d.category, ''), '[가-힣]') THEN 0
				ELSE 1
			END,`
	}
	return fmt.Sprintf(`
		ORDER BY
			match_count DESC,
			total_count ASC,%s
			(d.id * 2654435761) %% 2147483647`, tiebreak)
}

// validate rejects filters the ranking query cannot serve.
func (f *DishSearchFilter) validate() error {
	if len(f.MatchableIDs) == 0 {
		return fmt.Errorf("dish search filter requires a non-empty matchable id set")
	}
	if f.Limit < 0 {
		return fmt.Errorf("dish search filter requires a non-negative limit, got %d", f.Limit)
	}
	if f.Offset < 0 {
		return fmt.Errorf("dish search filter requires a non-negative offset, got %d", f.Offset)
	}
	return nil
}

// whereClause joins conditions into a WHERE fragment, or "" when empty.
func whereClause(conditions []string) string {
	if len(conditions) == 0 {
		return ""
	}
	return "WHERE " + strings.Join(conditions, " AND ")
}
