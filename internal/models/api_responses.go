// FridgeCook - Ingredient-Based Recipe Search
// Copyright 2026 FridgeCook Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fridgecook/fridgecook

package models

import "time"

// APIResponse is the standardized envelope used by every HTTP endpoint.
//
// Status field values:
//   - "success": request completed, see Data
//   - "error": request failed, see Error
type APIResponse struct {
	Status   string      `json:"status"`
	Data     interface{} `json:"data"`
	Metadata Metadata    `json:"metadata"`
	Error    *APIError   `json:"error,omitempty"`
}

// Metadata carries per-response observability fields.
type Metadata struct {
	Timestamp   time.Time `json:"timestamp"`
	QueryTimeMS int64     `json:"query_time_ms"`
	Cached      bool      `json:"cached,omitempty"`
}

// APIError is the machine-readable error payload.
//
// Error codes used across the API:
//   - VALIDATION_ERROR: malformed request parameters
//   - RATE_LIMITED: per-client quota exceeded, retryable after the window
//   - STORE_UNAVAILABLE: catalog store unreachable, retryable
//   - NOT_FOUND: referenced entity does not exist
//   - INTERNAL_ERROR: unexpected server failure
type APIError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// Error code constants.
const (
	CodeValidationError  = "VALIDATION_ERROR"
	CodeRateLimited      = "RATE_LIMITED"
	CodeStoreUnavailable = "STORE_UNAVAILABLE"
	CodeNotFound         = "NOT_FOUND"
	CodeInternalError    = "INTERNAL_ERROR"
)

// SearchResponse is the payload of GET /api/v1/dishes/search.
//
// UserDishes always holds the full ranked creator pool slice for the
// requested offset; DBDishes is the catalog page. Total is the combined
// result-space size (creator count + catalog total), DBTotal the catalog
// total alone.
type SearchResponse struct {
	UserDishes []SearchResult `json:"userDishes"`
	DBDishes   []SearchResult `json:"dbDishes"`
	Total      int            `json:"total"`
	DBTotal    int            `json:"dbTotal"`
	HasMore    bool           `json:"hasMore"`
	Offset     int            `json:"offset"`
}

// EmptySearchResponse is the short-circuit response for an empty selection.
func EmptySearchResponse() *SearchResponse {
	return &SearchResponse{
		UserDishes: []SearchResult{},
		DBDishes:   []SearchResult{},
	}
}

// IngredientNamesResponse is the payload of GET /api/v1/ingredients/names.
type IngredientNamesResponse struct {
	Names map[int64]string `json:"names"`
}

// AutocompleteMatch tags how an autocomplete row matched the query term.
type AutocompleteMatch string

const (
	MatchExact    AutocompleteMatch = "exact"
	MatchPrefix   AutocompleteMatch = "prefix"
	MatchAlias    AutocompleteMatch = "alias"
	MatchContains AutocompleteMatch = "contains"
)

// AutocompleteResult is one row of the ingredient autocomplete endpoint.
type AutocompleteResult struct {
	Ingredient
	MatchType AutocompleteMatch `json:"match_type"`
}
