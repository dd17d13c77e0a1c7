// FridgeCook - Ingredient-Based Recipe Search
// Copyright 2026 FridgeCook Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fridgecook/fridgecook

package client

import (
	"reflect"
	"testing"

	"github.com/fridgecook/fridgecook/internal/models"
)

func pantryOf(ids ...int64) []models.UserIngredient {
	out := make([]models.UserIngredient, len(ids))
	for i, id := range ids {
		out[i] = models.UserIngredient{ID: int64(i + 1), UserID: 7, IngredientID: id}
	}
	return out
}

func TestEffectiveSelectionMergesPantryAndSelection(t *testing.T) {
	s := NewSession(models.LocaleEN)
	s.Pantry = pantryOf(3, 1)
	s.Select(SelectionEntry{ID: 2})
	s.Select(SelectionEntry{Name: "kimchi"})

	ids, names := s.EffectiveSelection()
	if want := []int64{1, 2, 3}; !reflect.DeepEqual(ids, want) {
		t.Errorf("ids = %v, want %v", ids, want)
	}
	if want := []string{"kimchi"}; !reflect.DeepEqual(names, want) {
		t.Errorf("names = %v, want %v", names, want)
	}
}

func TestEffectiveSelectionDeduplicates(t *testing.T) {
	s := NewSession(models.LocaleEN)
	s.Pantry = pantryOf(1)
	s.Select(SelectionEntry{ID: 1})

	ids, _ := s.EffectiveSelection()
	if want := []int64{1}; !reflect.DeepEqual(ids, want) {
		t.Errorf("ids = %v, want %v", ids, want)
	}
}

func TestExclusionRemovesPantryIngredient(t *testing.T) {
	s := NewSession(models.LocaleEN)
	s.Pantry = pantryOf(1, 2)

	if !s.ToggleExclusion(2) {
		t.Fatal("ToggleExclusion(2) = false for pantry ingredient")
	}
	ids, _ := s.EffectiveSelection()
	if want := []int64{1}; !reflect.DeepEqual(ids, want) {
		t.Errorf("ids after exclusion = %v, want %v", ids, want)
	}

	// Toggling again restores it.
	s.ToggleExclusion(2)
	ids, _ = s.EffectiveSelection()
	if want := []int64{1, 2}; !reflect.DeepEqual(ids, want) {
		t.Errorf("ids after restore = %v, want %v", ids, want)
	}
}

func TestToggleExclusionUnknownIngredient(t *testing.T) {
	s := NewSession(models.LocaleEN)
	s.Pantry = pantryOf(1)
	if s.ToggleExclusion(99) {
		t.Error("ToggleExclusion(99) = true for non-pantry ingredient")
	}
}

func TestSelectClearsExclusion(t *testing.T) {
	// Selecting an excluded pantry ingredient opts it back in rather
	// than adding a duplicate transient entry.
	s := NewSession(models.LocaleEN)
	s.Pantry = pantryOf(1)
	s.ToggleExclusion(1)

	if !s.Select(SelectionEntry{ID: 1}) {
		t.Fatal("Select() = false for excluded pantry ingredient")
	}
	if s.IsExcluded(1) {
		t.Error("exclusion survived re-selection")
	}
	if len(s.Selection) != 0 {
		t.Errorf("Selection = %v, want empty", s.Selection)
	}
}

func TestSelectDuplicateIsNoOp(t *testing.T) {
	s := NewSession(models.LocaleEN)
	if !s.Select(SelectionEntry{ID: 5}) {
		t.Fatal("first Select() = false")
	}
	if s.Select(SelectionEntry{ID: 5}) {
		t.Error("duplicate Select() = true, want no-op")
	}
	if len(s.Selection) != 1 {
		t.Errorf("Selection length = %d, want 1", len(s.Selection))
	}
}

func TestDeselect(t *testing.T) {
	s := NewSession(models.LocaleEN)
	s.Select(SelectionEntry{ID: 5})
	s.Select(SelectionEntry{Name: "egg"})

	if !s.Deselect(SelectionEntry{ID: 5}) {
		t.Error("Deselect(id) = false")
	}
	if !s.Deselect(SelectionEntry{Name: "egg"}) {
		t.Error("Deselect(name) = false")
	}
	if s.Deselect(SelectionEntry{ID: 5}) {
		t.Error("Deselect() of absent entry = true")
	}
	if !s.Empty() {
		t.Error("session not empty after removing everything")
	}
}

func TestApplyPageAccumulates(t *testing.T) {
	s := NewSession(models.LocaleEN)

	s.ApplyPage(&models.SearchResponse{
		UserDishes: []models.SearchResult{{ID: 201}},
		DBDishes:   []models.SearchResult{{ID: 101}},
		Total:      4, DBTotal: 3, HasMore: true, Offset: 0,
	}, 2)
	s.ApplyPage(&models.SearchResponse{
		UserDishes: []models.SearchResult{},
		DBDishes:   []models.SearchResult{{ID: 102}, {ID: 103}},
		Total:      4, DBTotal: 3, HasMore: false, Offset: 2,
	}, 2)

	if len(s.UserDishes) != 1 || len(s.DBDishes) != 3 {
		t.Errorf("accumulated %d/%d results, want 1/3", len(s.UserDishes), len(s.DBDishes))
	}
	if s.HasMore {
		t.Error("HasMore = true after final page")
	}
	if s.Offset != 4 {
		t.Errorf("Offset = %d, want 4", s.Offset)
	}
}
