// FridgeCook - Ingredient-Based Recipe Search
// Copyright 2026 FridgeCook Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fridgecook/fridgecook

package api

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"

	"github.com/fridgecook/fridgecook/internal/models"
	"github.com/fridgecook/fridgecook/internal/search"
	"github.com/fridgecook/fridgecook/internal/validation"
)

// handleSearchDishes serves GET /api/v1/dishes/search.
//
// The selection arrives as ?ingredients= (comma-separated display names,
// the shareable-URL form) and/or ?ids= (comma-separated ingredient ids).
// Malformed id tokens and unknown names are dropped silently; paging
// parameters are clamped rather than rejected.
func (rt *Router) handleSearchDishes(w http.ResponseWriter, r *http.Request) {
	started := time.Now()
	q := r.URL.Query()

	req := search.Request{
		IDs:         parseIDList(q.Get("ids")),
		Names:       parseNameList(q.Get("ingredients")),
		Cuisine:     models.ParseCuisine(q.Get("cuisine")),
		SubCategory: strings.TrimSpace(q.Get("subCategory")),
		Offset:      parseIntParam(q.Get("offset"), 0),
		Limit:       parseIntParam(q.Get("limit"), 0),
		Locale:      requestLocale(r),
	}

	resp, cached, err := rt.svc.Search(r.Context(), req)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, resp, cached, started)
}

// handlePopularDishes serves GET /api/v1/dishes/popular, the feed shown
// before any ingredient is selected.
func (rt *Router) handlePopularDishes(w http.ResponseWriter, r *http.Request) {
	started := time.Now()
	q := r.URL.Query()

	page, cached, err := rt.svc.Popular(r.Context(),
		models.ParseCuisine(q.Get("cuisine")),
		parseIntParam(q.Get("offset"), 0),
		parseIntParam(q.Get("limit"), 0),
		requestLocale(r))
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, page, cached, started)
}

// handleAutocomplete serves GET /api/v1/ingredients/search.
func (rt *Router) handleAutocomplete(w http.ResponseWriter, r *http.Request) {
	started := time.Now()
	q := r.URL.Query()

	term := strings.TrimSpace(q.Get("q"))
	if term == "" {
		respondError(w, r, http.StatusBadRequest, models.CodeValidationError,
			"query parameter q is required", nil)
		return
	}

	results, err := rt.svc.Autocomplete(r.Context(), term,
		parseNameList(q.Get("categories")), requestLocale(r))
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	if results == nil {
		results = []models.AutocompleteResult{}
	}
	respondJSON(w, r, http.StatusOK, results, false, started)
}

// handleBaseIngredients serves GET /api/v1/ingredients/base, the picker
// canon, optionally restricted to one category.
func (rt *Router) handleBaseIngredients(w http.ResponseWriter, r *http.Request) {
	started := time.Now()

	ingredients, err := rt.svc.BaseIngredients(r.Context(),
		strings.TrimSpace(r.URL.Query().Get("category")), requestLocale(r))
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	if ingredients == nil {
		ingredients = []models.Ingredient{}
	}
	respondJSON(w, r, http.StatusOK, ingredients, false, started)
}

// handleIngredientNames serves GET /api/v1/ingredients/names, used to
// restore display names for ids carried in a shared URL.
func (rt *Router) handleIngredientNames(w http.ResponseWriter, r *http.Request) {
	started := time.Now()

	ids := parseIDList(r.URL.Query().Get("ids"))
	if len(ids) == 0 {
		respondJSON(w, r, http.StatusOK, models.IngredientNamesResponse{Names: map[int64]string{}}, false, started)
		return
	}

	names, err := rt.svc.IngredientNames(r.Context(), ids, requestLocale(r))
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, models.IngredientNamesResponse{Names: names}, false, started)
}

// handlePantryList serves GET /api/v1/users/me/ingredients.
func (rt *Router) handlePantryList(w http.ResponseWriter, r *http.Request) {
	started := time.Now()

	userID, ok := requestUserID(w, r)
	if !ok {
		return
	}

	items, err := rt.svc.Pantry(r.Context(), userID, requestLocale(r))
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, items, false, started)
}

// pantryAddRequest is the POST body for saving a pantry ingredient.
type pantryAddRequest struct {
	IngredientID int64      `json:"ingredient_id" validate:"required,min=1"`
	ExpiryDate   *time.Time `json:"expiry_date,omitempty"`
}

// handlePantryAdd serves POST /api/v1/users/me/ingredients.
func (rt *Router) handlePantryAdd(w http.ResponseWriter, r *http.Request) {
	started := time.Now()

	userID, ok := requestUserID(w, r)
	if !ok {
		return
	}

	var body pantryAddRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respondError(w, r, http.StatusBadRequest, models.CodeValidationError,
			"request body must be valid JSON", nil)
		return
	}
	if verr := validation.ValidateStruct(&body); verr != nil {
		respondServiceError(w, r, verr)
		return
	}

	id, err := rt.svc.AddPantryIngredient(r.Context(), userID, body.IngredientID, body.ExpiryDate)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusCreated, map[string]int64{"id": id}, false, started)
}

// handlePantryRemove serves DELETE /api/v1/users/me/ingredients/{ingredientID}.
func (rt *Router) handlePantryRemove(w http.ResponseWriter, r *http.Request) {
	started := time.Now()

	userID, ok := requestUserID(w, r)
	if !ok {
		return
	}

	ingredientID, err := strconv.ParseInt(chi.URLParam(r, "ingredientID"), 10, 64)
	if err != nil || ingredientID < 1 {
		respondError(w, r, http.StatusBadRequest, models.CodeValidationError,
			"ingredientID must be a positive integer", nil)
		return
	}

	if err := rt.svc.RemovePantryIngredient(r.Context(), userID, ingredientID); err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, map[string]bool{"removed": true}, false, started)
}

// handleHealthLive serves GET /api/v1/health/live.
func (rt *Router) handleHealthLive(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, r, http.StatusOK, map[string]interface{}{
		"status": "alive",
		"uptime": time.Since(rt.started).String(),
	}, false, time.Now())
}

// handleHealthReady serves GET /api/v1/health/ready: the store must
// answer a ping for the instance to accept traffic.
func (rt *Router) handleHealthReady(w http.ResponseWriter, r *http.Request) {
	started := time.Now()

	if err := rt.pinger.Ping(r.Context()); err != nil {
		respondError(w, r, http.StatusServiceUnavailable, models.CodeStoreUnavailable,
			"store ping failed", map[string]interface{}{"error": err.Error()})
		return
	}

	stats := rt.svc.CacheStats()
	respondJSON(w, r, http.StatusOK, map[string]interface{}{
		"status": "ready",
		"cache": map[string]int64{
			"hits":   stats.Hits,
			"misses": stats.Misses,
			"keys":   stats.TotalKeys,
		},
	}, false, started)
}

// requestLocale resolves the display locale: explicit ?locale= first,
// then the lang cookie set by the web frontend, defaulting to English.
func requestLocale(r *http.Request) models.Locale {
	if v := r.URL.Query().Get("locale"); v != "" {
		return models.ParseLocale(v)
	}
	if c, err := r.Cookie("lang"); err == nil {
		return models.ParseLocale(c.Value)
	}
	return models.LocaleEN
}

// requestUserID reads the externally authenticated user id from the
// X-User-ID header, responding with a validation error when absent.
func requestUserID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	raw := r.Header.Get("X-User-ID")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 1 {
		respondError(w, r, http.StatusBadRequest, models.CodeValidationError,
			"X-User-ID header must be a positive integer", nil)
		return 0, false
	}
	return id, true
}

// parseIDList splits a comma-separated id list, dropping malformed and
// non-positive tokens silently.
func parseIDList(raw string) []int64 {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	var ids []int64
	for _, tok := range strings.Split(raw, ",") {
		id, err := strconv.ParseInt(strings.TrimSpace(tok), 10, 64)
		if err != nil || id < 1 {
			continue
		}
		ids = append(ids, id)
	}
	return ids
}

// parseNameList splits a comma-separated name list, dropping blanks.
func parseNameList(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	var names []string
	for _, tok := range strings.Split(raw, ",") {
		if t := strings.TrimSpace(tok); t != "" {
			names = append(names, t)
		}
	}
	return names
}

// parseIntParam parses a non-negative int parameter with a fallback.
func parseIntParam(raw string, fallback int) int {
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return n
}
