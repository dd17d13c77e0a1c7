// FridgeCook - Ingredient-Based Recipe Search
// Copyright 2026 FridgeCook Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fridgecook/fridgecook

package search

import "github.com/fridgecook/fridgecook/internal/models"

// The combined result space is the full ranked creator pool followed by
// the ranked catalog. Pagination walks that concatenation: a page is
// filled from the creator pool first, the remainder from the catalog at
// an offset shifted past the pool. Both the server and the API client
// paginate through these two functions so their arithmetic cannot drift.

// CatalogWindow returns the catalog offset and limit for a page of the
// combined result space. catLimit 0 means the page sits entirely inside
// the creator pool and only the catalog total is needed.
func CatalogWindow(offset, limit, creatorCount int) (catOffset, catLimit int) {
	if offset < 0 {
		offset = 0
	}
	if limit < 0 {
		limit = 0
	}

	creatorTake := creatorSlice(offset, limit, creatorCount)
	catOffset = offset - creatorCount
	if catOffset < 0 {
		catOffset = 0
	}
	catLimit = limit - creatorTake
	return catOffset, catLimit
}

// creatorSlice returns how many creator results land on this page.
func creatorSlice(offset, limit, creatorCount int) int {
	start := offset
	if start > creatorCount {
		start = creatorCount
	}
	end := offset + limit
	if end > creatorCount {
		end = creatorCount
	}
	return end - start
}

// MergePage assembles one page of the combined result space from the full
// ranked creator pool and the catalog page already fetched at the window
// CatalogWindow computed for the same offset and limit.
//
// Pure function of its inputs; identical inputs always produce the same
// page, so repeated queries are stable and consecutive pages are disjoint.
func MergePage(pool, catalogPage []models.SearchResult, catalogTotal, offset, limit int) *models.SearchResponse {
	if offset < 0 {
		offset = 0
	}
	if limit < 0 {
		limit = 0
	}

	start := offset
	if start > len(pool) {
		start = len(pool)
	}
	end := offset + limit
	if end > len(pool) {
		end = len(pool)
	}

	userDishes := make([]models.SearchResult, end-start)
	copy(userDishes, pool[start:end])

	dbDishes := catalogPage
	if dbDishes == nil {
		dbDishes = []models.SearchResult{}
	}

	total := len(pool) + catalogTotal
	return &models.SearchResponse{
		UserDishes: userDishes,
		DBDishes:   dbDishes,
		Total:      total,
		DBTotal:    catalogTotal,
		HasMore:    offset+limit < total,
		Offset:     offset,
	}
}
