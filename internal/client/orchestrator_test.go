// FridgeCook - Ingredient-Based Recipe Search
// Copyright 2026 FridgeCook Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fridgecook/fridgecook

package client

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync/atomic"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/fridgecook/fridgecook/internal/models"
	"github.com/fridgecook/fridgecook/internal/search"
)

// newSearchServer serves /api/v1/dishes/search over a fixed corpus: one
// creator recipe (201) and three catalog dishes (101..103), paginated
// with the same merge arithmetic the real server uses.
func newSearchServer(t *testing.T, hits *int64, limited *atomic.Bool) *httptest.Server {
	t.Helper()

	pool := []models.SearchResult{{ID: 201, Provenance: models.ProvenanceCreator}}
	catalog := []models.SearchResult{
		{ID: 101, Provenance: models.ProvenanceCatalog},
		{ID: 102, Provenance: models.ProvenanceCatalog},
		{ID: 103, Provenance: models.ProvenanceCatalog},
	}

	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/dishes/search" {
			http.NotFound(w, r)
			return
		}
		atomic.AddInt64(hits, 1)

		if limited != nil && limited.Load() {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}

		offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
		if limit <= 0 {
			limit = 12
		}

		catOffset, catLimit := search.CatalogWindow(offset, limit, len(pool))
		if catOffset > len(catalog) {
			catOffset = len(catalog)
		}
		end := catOffset + catLimit
		if end > len(catalog) {
			end = len(catalog)
		}

		resp := search.MergePage(pool, catalog[catOffset:end], len(catalog), offset, limit)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(models.APIResponse{Status: "success", Data: resp})
	}))
}

func startOrchestrator(t *testing.T, baseURL string, opts Options) (*Orchestrator, chan Snapshot) {
	t.Helper()

	updates := make(chan Snapshot, 32)
	opts.OnUpdate = func(s Snapshot) { updates <- s }
	if opts.Debounce == 0 {
		opts.Debounce = 20 * time.Millisecond
	}
	if opts.PageSize == 0 {
		opts.PageSize = 2
	}

	o := NewOrchestrator(NewClient(baseURL), models.LocaleEN, opts)
	t.Cleanup(o.Close)
	return o, updates
}

func waitSnapshot(t *testing.T, updates chan Snapshot) Snapshot {
	t.Helper()
	select {
	case s := <-updates:
		return s
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for snapshot")
		return Snapshot{}
	}
}

func TestOrchestratorDebounceCollapsesRapidSelections(t *testing.T) {
	var hits int64
	srv := newSearchServer(t, &hits, nil)
	defer srv.Close()

	o, updates := startOrchestrator(t, srv.URL, Options{})

	// Three rapid selections must produce exactly one request, for the
	// final selection state.
	o.SelectIngredient(SelectionEntry{ID: 1})
	o.SelectIngredient(SelectionEntry{ID: 2})
	o.SelectIngredient(SelectionEntry{ID: 3})

	snap := waitSnapshot(t, updates)
	if snap.Err != nil {
		t.Fatalf("snapshot error: %v", snap.Err)
	}
	if n := atomic.LoadInt64(&hits); n != 1 {
		t.Errorf("server hits = %d, want 1 (debounce collapsed)", n)
	}
	if len(snap.UserDishes) != 1 || snap.UserDishes[0].ID != 201 {
		t.Errorf("UserDishes = %+v, want [201]", snap.UserDishes)
	}
	if len(snap.DBDishes) != 1 || snap.DBDishes[0].ID != 101 {
		t.Errorf("DBDishes = %+v, want [101]", snap.DBDishes)
	}
	if !snap.HasMore {
		t.Error("HasMore = false, want true")
	}
}

func TestOrchestratorCacheServesRepeatQuery(t *testing.T) {
	var hits int64
	srv := newSearchServer(t, &hits, nil)
	defer srv.Close()

	o, updates := startOrchestrator(t, srv.URL, Options{})

	o.SelectIngredient(SelectionEntry{ID: 1})
	first := waitSnapshot(t, updates)
	if first.Err != nil {
		t.Fatalf("first snapshot error: %v", first.Err)
	}

	// Same state again: served locally, no second request.
	o.Refresh()
	second := waitSnapshot(t, updates)
	if second.Err != nil {
		t.Fatalf("second snapshot error: %v", second.Err)
	}
	if n := atomic.LoadInt64(&hits); n != 1 {
		t.Errorf("server hits = %d, want 1 (cache hit)", n)
	}
	if second.Total != first.Total || len(second.DBDishes) != len(first.DBDishes) {
		t.Error("cached snapshot differs from original")
	}
}

func TestOrchestratorLoadMoreAppendsAndStops(t *testing.T) {
	var hits int64
	srv := newSearchServer(t, &hits, nil)
	defer srv.Close()

	o, updates := startOrchestrator(t, srv.URL, Options{})

	o.SelectIngredient(SelectionEntry{ID: 1})
	snap := waitSnapshot(t, updates)
	if !snap.HasMore {
		t.Fatal("first page HasMore = false")
	}

	o.LoadMore()
	snap = waitSnapshot(t, updates)
	if snap.Err != nil {
		t.Fatalf("LoadMore snapshot error: %v", snap.Err)
	}
	// 4 combined results, page size 2: second page exhausts the space.
	if got := len(snap.UserDishes) + len(snap.DBDishes); got != 4 {
		t.Errorf("accumulated results = %d, want 4", got)
	}
	if snap.HasMore {
		t.Error("HasMore = true after final page")
	}

	// Further LoadMore calls are no-ops.
	before := atomic.LoadInt64(&hits)
	o.LoadMore()
	o.Session(func(*SearchSession) {}) // barrier: wait for the event to process
	if atomic.LoadInt64(&hits) != before {
		t.Error("LoadMore past the end still queried the server")
	}
}

func TestOrchestratorEmptySelectionClearsResults(t *testing.T) {
	var hits int64
	srv := newSearchServer(t, &hits, nil)
	defer srv.Close()

	o, updates := startOrchestrator(t, srv.URL, Options{})

	o.SelectIngredient(SelectionEntry{ID: 1})
	waitSnapshot(t, updates)

	o.DeselectIngredient(SelectionEntry{ID: 1})
	snap := waitSnapshot(t, updates)
	if snap.Total != 0 || len(snap.UserDishes) != 0 || len(snap.DBDishes) != 0 {
		t.Errorf("empty-selection snapshot = %+v, want cleared", snap)
	}
	if n := atomic.LoadInt64(&hits); n != 1 {
		t.Errorf("server hits = %d, want 1 (empty selection never queries)", n)
	}
}

func TestOrchestratorRateLimitFlagDoesNotBlockQueries(t *testing.T) {
	var hits int64
	var limited atomic.Bool
	limited.Store(true)
	srv := newSearchServer(t, &hits, &limited)
	defer srv.Close()

	o, updates := startOrchestrator(t, srv.URL, Options{Cooldown: 10 * time.Second})

	o.SelectIngredient(SelectionEntry{ID: 1})
	snap := waitSnapshot(t, updates)
	if !snap.RateLimited {
		t.Fatal("snapshot not flagged RateLimited after 429")
	}

	// The flag does not suppress traffic: a refresh inside the cooldown
	// window still reaches the server.
	before := atomic.LoadInt64(&hits)
	o.Refresh()
	snap = waitSnapshot(t, updates)
	if !snap.RateLimited {
		t.Error("cooldown snapshot not flagged RateLimited")
	}
	if atomic.LoadInt64(&hits) != before+1 {
		t.Errorf("server hits = %d, want %d (cooldown must not suppress queries)",
			atomic.LoadInt64(&hits), before+1)
	}

	// A success clears the flag even before the cooldown elapses.
	limited.Store(false)
	o.Refresh()
	snap = waitSnapshot(t, updates)
	if snap.Err != nil {
		t.Fatalf("post-recovery snapshot error: %v", snap.Err)
	}
	if snap.RateLimited {
		t.Error("RateLimited flag survived a successful query")
	}
}

func TestOrchestratorRateLimitFlagClearsAfterCooldown(t *testing.T) {
	var hits int64
	var limited atomic.Bool
	limited.Store(true)
	srv := newSearchServer(t, &hits, &limited)
	defer srv.Close()

	o, updates := startOrchestrator(t, srv.URL, Options{Cooldown: 40 * time.Millisecond})

	o.SelectIngredient(SelectionEntry{ID: 1})
	snap := waitSnapshot(t, updates)
	if !snap.RateLimited {
		t.Fatal("snapshot not flagged RateLimited after 429")
	}

	// Once the cooldown has elapsed, the flag drops on the next query
	// attempt even though the previous response was a 429.
	limited.Store(false)
	time.Sleep(60 * time.Millisecond)
	o.Refresh()
	snap = waitSnapshot(t, updates)
	if snap.Err != nil {
		t.Fatalf("post-cooldown snapshot error: %v", snap.Err)
	}
	if snap.RateLimited {
		t.Error("RateLimited flag survived past the cooldown window")
	}
}

func TestOrchestratorLocaleChangeResetsSession(t *testing.T) {
	var hits int64
	srv := newSearchServer(t, &hits, nil)
	defer srv.Close()

	o, updates := startOrchestrator(t, srv.URL, Options{})

	o.SelectIngredient(SelectionEntry{ID: 1})
	waitSnapshot(t, updates)

	// Switching language drops the cache and the whole query state:
	// the selection does not survive into the new locale, so no search
	// with the old ids goes out.
	o.SetLocale(models.LocaleKO)
	snap := waitSnapshot(t, updates)
	if snap.Err != nil {
		t.Fatalf("post-locale snapshot error: %v", snap.Err)
	}
	if snap.Total != 0 || len(snap.UserDishes) != 0 || len(snap.DBDishes) != 0 {
		t.Errorf("post-locale snapshot = %+v, want cleared results", snap)
	}
	if n := atomic.LoadInt64(&hits); n != 1 {
		t.Errorf("server hits = %d, want 1 (reset session must not re-query old ids)", n)
	}
	o.Session(func(s *SearchSession) {
		if s.Locale != models.LocaleKO {
			t.Errorf("session locale = %s, want ko", s.Locale)
		}
		if !s.Empty() {
			t.Error("selection survived the locale change")
		}
	})
}
