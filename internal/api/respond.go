// FridgeCook - Ingredient-Based Recipe Search
// Copyright 2026 FridgeCook Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fridgecook/fridgecook

package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"

	"github.com/fridgecook/fridgecook/internal/database"
	"github.com/fridgecook/fridgecook/internal/logging"
	"github.com/fridgecook/fridgecook/internal/models"
	"github.com/fridgecook/fridgecook/internal/search"
	"github.com/fridgecook/fridgecook/internal/validation"
)

// respondJSON writes a success envelope.
func respondJSON(w http.ResponseWriter, r *http.Request, status int, data interface{}, cached bool, started time.Time) {
	resp := models.APIResponse{
		Status: "success",
		Data:   data,
		Metadata: models.Metadata{
			Timestamp:   time.Now().UTC(),
			QueryTimeMS: time.Since(started).Milliseconds(),
			Cached:      cached,
		},
	}
	writeEnvelope(w, r, status, resp)
}

// respondError writes an error envelope.
func respondError(w http.ResponseWriter, r *http.Request, status int, code, message string, details map[string]interface{}) {
	resp := models.APIResponse{
		Status: "error",
		Metadata: models.Metadata{
			Timestamp: time.Now().UTC(),
		},
		Error: &models.APIError{
			Code:    code,
			Message: message,
			Details: details,
		},
	}
	writeEnvelope(w, r, status, resp)
}

func writeEnvelope(w http.ResponseWriter, r *http.Request, status int, resp models.APIResponse) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Msg("Failed to encode response")
	}
}

// respondServiceError maps service-layer errors onto the error taxonomy.
func respondServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var vErr *validation.RequestValidationError
	switch {
	case errors.As(err, &vErr):
		apiErr := vErr.ToAPIError()
		respondError(w, r, http.StatusBadRequest, apiErr.Code, apiErr.Message, apiErr.Details)
	case errors.Is(err, search.ErrSelectionTooLarge):
		respondError(w, r, http.StatusBadRequest, models.CodeValidationError, err.Error(), nil)
	case errors.Is(err, database.ErrNotFound):
		respondError(w, r, http.StatusNotFound, models.CodeNotFound, err.Error(), nil)
	case errors.Is(err, search.ErrStoreUnavailable):
		logging.Ctx(r.Context()).Error().Err(err).Msg("Store unavailable")
		respondError(w, r, http.StatusServiceUnavailable, models.CodeStoreUnavailable,
			"Catalog store is temporarily unavailable, retry later", nil)
	default:
		logging.Ctx(r.Context()).Error().Err(err).Msg("Unhandled request error")
		respondError(w, r, http.StatusInternalServerError, models.CodeInternalError,
			"Internal server error", nil)
	}
}

// routePattern returns the matched chi pattern, or the raw path before
// routing has matched (e.g. 404s).
func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if p := rctx.RoutePattern(); p != "" {
			return p
		}
	}
	return r.URL.Path
}
