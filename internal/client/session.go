// FridgeCook - Ingredient-Based Recipe Search
// Copyright 2026 FridgeCook Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fridgecook/fridgecook

package client

import (
	"sort"

	"github.com/fridgecook/fridgecook/internal/models"
)

// SelectionEntry is one user-chosen ingredient in the transient
// selection, carried by id when known and by display name otherwise
// (restored from a shared URL before names are resolved).
type SelectionEntry struct {
	ID   int64
	Name string
}

// SearchSession is the explicit state of one interactive search: the
// user's pantry, the transient selection layered on top of it, pantry
// exclusions, the cuisine filter, and the accumulated result pages.
//
// The session is a plain value owned by the orchestrator goroutine; it
// has no locking of its own and must not be shared.
type SearchSession struct {
	// Pantry is the user's saved ingredient list, included in every
	// search unless individually excluded.
	Pantry []models.UserIngredient

	// Selection is the transient, per-session ingredient selection.
	Selection []SelectionEntry

	// excluded marks pantry ingredient ids opted out of the current
	// search without being removed from the pantry.
	excluded map[int64]bool

	Cuisine models.Cuisine
	Locale  models.Locale

	// Accumulated results. UserDishes is the full creator pool; DBDishes
	// grows page by page as the user loads more.
	UserDishes []models.SearchResult
	DBDishes   []models.SearchResult
	Total      int
	HasMore    bool
	Offset     int

	// RateLimited is set while the client is cooling down after a 429.
	RateLimited bool
}

// NewSession creates an empty session for the given locale.
func NewSession(locale models.Locale) *SearchSession {
	return &SearchSession{
		excluded: map[int64]bool{},
		Cuisine:  models.CuisineMixed,
		Locale:   locale,
	}
}

// Select adds an ingredient to the transient selection. Selecting an
// already selected ingredient is a no-op; re-selecting an excluded
// pantry ingredient clears the exclusion instead.
func (s *SearchSession) Select(entry SelectionEntry) bool {
	if entry.ID != 0 && s.excluded[entry.ID] {
		delete(s.excluded, entry.ID)
		return true
	}
	for _, e := range s.Selection {
		if (entry.ID != 0 && e.ID == entry.ID) || (entry.ID == 0 && e.Name == entry.Name) {
			return false
		}
	}
	s.Selection = append(s.Selection, entry)
	return true
}

// Deselect removes an ingredient from the transient selection.
func (s *SearchSession) Deselect(entry SelectionEntry) bool {
	for i, e := range s.Selection {
		if (entry.ID != 0 && e.ID == entry.ID) || (entry.ID == 0 && e.Name == entry.Name) {
			s.Selection = append(s.Selection[:i], s.Selection[i+1:]...)
			return true
		}
	}
	return false
}

// ToggleExclusion flips whether a pantry ingredient participates in the
// search. Returns false when the id is not in the pantry.
func (s *SearchSession) ToggleExclusion(ingredientID int64) bool {
	for _, p := range s.Pantry {
		if p.IngredientID == ingredientID {
			if s.excluded[ingredientID] {
				delete(s.excluded, ingredientID)
			} else {
				s.excluded[ingredientID] = true
			}
			return true
		}
	}
	return false
}

// IsExcluded reports whether a pantry ingredient is currently opted out.
func (s *SearchSession) IsExcluded(ingredientID int64) bool {
	return s.excluded[ingredientID]
}

// EffectiveSelection derives the search input: pantry ingredients minus
// exclusions, plus the transient selection. IDs are deduplicated and
// sorted; name-only entries are carried separately.
func (s *SearchSession) EffectiveSelection() (ids []int64, names []string) {
	seen := map[int64]bool{}
	for _, p := range s.Pantry {
		if !s.excluded[p.IngredientID] && !seen[p.IngredientID] {
			seen[p.IngredientID] = true
			ids = append(ids, p.IngredientID)
		}
	}
	for _, e := range s.Selection {
		if e.ID != 0 {
			if !seen[e.ID] {
				seen[e.ID] = true
				ids = append(ids, e.ID)
			}
		} else if e.Name != "" {
			names = append(names, e.Name)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, names
}

// Empty reports whether there is nothing to search for.
func (s *SearchSession) Empty() bool {
	ids, names := s.EffectiveSelection()
	return len(ids) == 0 && len(names) == 0
}

// ResetResults clears accumulated pages, keeping the selection. Called
// whenever the selection, cuisine, or locale changes.
func (s *SearchSession) ResetResults() {
	s.UserDishes = nil
	s.DBDishes = nil
	s.Total = 0
	s.HasMore = false
	s.Offset = 0
}

// ApplyPage folds one server page into the session. The first page
// replaces results; later pages append catalog rows (the creator pool is
// always complete on page one).
func (s *SearchSession) ApplyPage(resp *models.SearchResponse, pageSize int) {
	if resp.Offset == 0 {
		s.UserDishes = resp.UserDishes
		s.DBDishes = resp.DBDishes
	} else {
		s.UserDishes = append(s.UserDishes, resp.UserDishes...)
		s.DBDishes = append(s.DBDishes, resp.DBDishes...)
	}
	s.Total = resp.Total
	s.HasMore = resp.HasMore
	s.Offset = resp.Offset + pageSize
}
