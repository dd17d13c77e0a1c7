// FridgeCook - Ingredient-Based Recipe Search
// Copyright 2026 FridgeCook Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fridgecook/fridgecook

package search

import (
	"testing"

	"github.com/fridgecook/fridgecook/internal/models"
)

func results(ids ...int64) []models.SearchResult {
	out := make([]models.SearchResult, len(ids))
	for i, id := range ids {
		out[i] = models.SearchResult{ID: id}
	}
	return out
}

func ids(rs []models.SearchResult) []int64 {
	out := make([]int64, len(rs))
	for i, r := range rs {
		out[i] = r.ID
	}
	return out
}

func TestCatalogWindow(t *testing.T) {
	tests := []struct {
		name                      string
		offset, limit, creators   int
		wantOffset, wantLimit     int
	}{
		{"first page fills from creators then catalog", 0, 5, 2, 0, 3},
		{"page entirely inside creator pool", 0, 2, 5, 0, 0},
		{"page straddles pool boundary", 3, 4, 5, 0, 2},
		{"page entirely past creator pool", 10, 5, 3, 7, 5},
		{"no creators", 4, 6, 0, 4, 6},
		{"negative inputs clamp", -1, -1, 2, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotOffset, gotLimit := CatalogWindow(tt.offset, tt.limit, tt.creators)
			if gotOffset != tt.wantOffset || gotLimit != tt.wantLimit {
				t.Errorf("CatalogWindow(%d, %d, %d) = (%d, %d), want (%d, %d)",
					tt.offset, tt.limit, tt.creators, gotOffset, gotLimit, tt.wantOffset, tt.wantLimit)
			}
		})
	}
}

func TestMergePageCreatorsFirst(t *testing.T) {
	pool := results(201)
	catalog := results(101)

	resp := MergePage(pool, catalog, 2, 0, 2)

	if got, want := ids(resp.UserDishes), []int64{201}; !equalIDs(got, want) {
		t.Errorf("UserDishes = %v, want %v", got, want)
	}
	if got, want := ids(resp.DBDishes), []int64{101}; !equalIDs(got, want) {
		t.Errorf("DBDishes = %v, want %v", got, want)
	}
	if resp.Total != 3 || resp.DBTotal != 2 {
		t.Errorf("Total = %d, DBTotal = %d, want 3, 2", resp.Total, resp.DBTotal)
	}
	if !resp.HasMore {
		t.Error("HasMore = false, want true")
	}
}

func TestMergePageConsecutivePagesDisjoint(t *testing.T) {
	pool := results(201, 202, 203)
	full := results(101, 102, 103, 104)
	limit := 2

	seen := map[int64]bool{}
	count := 0
	for offset := 0; offset < len(pool)+len(full); offset += limit {
		catOffset, catLimit := CatalogWindow(offset, limit, len(pool))
		if catOffset > len(full) {
			catOffset = len(full)
		}
		end := catOffset + catLimit
		if end > len(full) {
			end = len(full)
		}
		resp := MergePage(pool, full[catOffset:end], len(full), offset, limit)

		for _, id := range append(ids(resp.UserDishes), ids(resp.DBDishes)...) {
			if seen[id] {
				t.Fatalf("id %d appeared on more than one page", id)
			}
			seen[id] = true
			count++
		}
		if wantMore := offset+limit < len(pool)+len(full); resp.HasMore != wantMore {
			t.Errorf("offset %d: HasMore = %v, want %v", offset, resp.HasMore, wantMore)
		}
	}
	if count != len(pool)+len(full) {
		t.Errorf("walked %d results, want %d", count, len(pool)+len(full))
	}
}

func TestMergePageOffsetPastEnd(t *testing.T) {
	resp := MergePage(results(201), results(), 1, 10, 5)
	if len(resp.UserDishes) != 0 || len(resp.DBDishes) != 0 {
		t.Errorf("past-end page = %v/%v, want empty", resp.UserDishes, resp.DBDishes)
	}
	if resp.HasMore {
		t.Error("HasMore = true past the end of the result space")
	}
	if resp.Total != 2 {
		t.Errorf("Total = %d, want 2", resp.Total)
	}
}

func TestMergePageNilCatalogBecomesEmptySlice(t *testing.T) {
	resp := MergePage(nil, nil, 0, 0, 10)
	if resp.UserDishes == nil || resp.DBDishes == nil {
		t.Error("merge produced nil slices, want empty slices for JSON encoding")
	}
}

func equalIDs(a, b []int64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
