// FridgeCook - Ingredient-Based Recipe Search
// Copyright 2026 FridgeCook Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fridgecook/fridgecook

package client

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/goccy/go-json"

	"github.com/fridgecook/fridgecook/internal/models"
)

func TestClientIngredientNames(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/ingredients/names" {
			http.NotFound(w, r)
			return
		}
		if got := r.URL.Query().Get("ids"); got != "1,2" {
			t.Errorf("ids param = %q, want \"1,2\"", got)
		}
		json.NewEncoder(w).Encode(models.APIResponse{
			Status: "success",
			Data:   models.IngredientNamesResponse{Names: map[int64]string{1: "egg", 2: "rice"}},
		})
	}))
	defer srv.Close()

	names, err := NewClient(srv.URL).IngredientNames(context.Background(), []int64{1, 2}, models.LocaleEN)
	if err != nil {
		t.Fatalf("IngredientNames() error = %v", err)
	}
	if names[1] != "egg" || names[2] != "rice" {
		t.Errorf("names = %v", names)
	}
}

func TestClientRateLimitedResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL).SearchDishes(context.Background(), SearchParams{IDs: []int64{1}})
	if !errors.Is(err, ErrRateLimited) {
		t.Errorf("SearchDishes() error = %v, want ErrRateLimited", err)
	}
}

func TestClientErrorEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		json.NewEncoder(w).Encode(models.APIResponse{
			Status: "error",
			Error:  &models.APIError{Code: models.CodeStoreUnavailable, Message: "store down"},
		})
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL).SearchDishes(context.Background(), SearchParams{IDs: []int64{1}})
	if !errors.Is(err, ErrServer) {
		t.Errorf("SearchDishes() error = %v, want ErrServer", err)
	}
}

func TestClientPantrySendsUserHeader(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("X-User-ID"); got != "7" {
			t.Errorf("X-User-ID = %q, want \"7\"", got)
		}
		json.NewEncoder(w).Encode(models.APIResponse{
			Status: "success",
			Data:   []models.UserIngredient{{ID: 1, UserID: 7, IngredientID: 3, Name: "onion"}},
		})
	}))
	defer srv.Close()

	items, err := NewClient(srv.URL).Pantry(context.Background(), 7, models.LocaleEN)
	if err != nil {
		t.Fatalf("Pantry() error = %v", err)
	}
	if len(items) != 1 || items[0].Name != "onion" {
		t.Errorf("items = %+v", items)
	}
}
