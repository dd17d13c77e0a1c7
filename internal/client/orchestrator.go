// FridgeCook - Ingredient-Based Recipe Search
// Copyright 2026 FridgeCook Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fridgecook/fridgecook

package client

import (
	"context"
	"errors"
	"time"

	"github.com/fridgecook/fridgecook/internal/cache"
	"github.com/fridgecook/fridgecook/internal/logging"
	"github.com/fridgecook/fridgecook/internal/models"
)

// Snapshot is an immutable view of the session delivered to the UI
// after every state change that affects results.
type Snapshot struct {
	UserDishes  []models.SearchResult
	DBDishes    []models.SearchResult
	Total       int
	HasMore     bool
	RateLimited bool
	Err         error
}

// Options configure the orchestrator. Zero values fall back to defaults.
type Options struct {
	// PageSize is the page length requested from the server (default 12).
	PageSize int

	// Debounce is how long to wait after the last selection change
	// before querying (default 300ms). Rapid changes collapse into one
	// request for the final state.
	Debounce time.Duration

	// CacheTTL bounds how long a response may be replayed (default 1m).
	CacheTTL time.Duration

	// CacheMaxEntries bounds the response cache (default 128).
	CacheMaxEntries int

	// Cooldown is how long the rate-limited flag stays raised after a
	// 429 unless a success clears it sooner (default 30s). Queries are
	// still attempted while the flag is up.
	Cooldown time.Duration

	// OnUpdate receives a snapshot after every result change. Called
	// from the orchestrator goroutine; must not block.
	OnUpdate func(Snapshot)
}

func (o *Options) applyDefaults() {
	if o.PageSize <= 0 {
		o.PageSize = 12
	}
	if o.Debounce <= 0 {
		o.Debounce = 300 * time.Millisecond
	}
	if o.CacheTTL <= 0 {
		o.CacheTTL = time.Minute
	}
	if o.CacheMaxEntries <= 0 {
		o.CacheMaxEntries = 128
	}
	if o.Cooldown <= 0 {
		o.Cooldown = 30 * time.Second
	}
}

// Orchestrator owns a SearchSession and serializes every mutation and
// query through one goroutine, replacing ad-hoc concurrent fetches with
// an explicit event queue. Selection changes are debounced; identical
// queries are served from a local TTL cache; a server 429 raises a
// rate-limited flag for a cooldown window without blocking further
// attempts.
type Orchestrator struct {
	client  *Client
	session *SearchSession
	cache   *cache.Cache
	opts    Options

	events chan func()
	stop   chan struct{}
	done   chan struct{}

	// debounce state, touched only by the run goroutine.
	debounce      *time.Timer
	debounceArmed bool

	cooldownUntil time.Time
	now           func() time.Time
}

// NewOrchestrator creates and starts an orchestrator for one session.
func NewOrchestrator(c *Client, locale models.Locale, opts Options) *Orchestrator {
	opts.applyDefaults()

	o := &Orchestrator{
		client:  c,
		session: NewSession(locale),
		cache:   cache.New(opts.CacheTTL, opts.CacheMaxEntries),
		opts:    opts,
		events:  make(chan func(), 64),
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
		now:     time.Now,
	}
	go o.run()
	return o
}

// Close stops the orchestrator goroutine and waits for it to exit.
func (o *Orchestrator) Close() {
	close(o.stop)
	<-o.done
}

// post queues a command for the orchestrator goroutine.
func (o *Orchestrator) post(fn func()) {
	select {
	case o.events <- fn:
	case <-o.stop:
	}
}

// SelectIngredient adds an ingredient to the selection and schedules a
// debounced search.
func (o *Orchestrator) SelectIngredient(entry SelectionEntry) {
	o.post(func() {
		if o.session.Select(entry) {
			o.invalidateResults()
		}
	})
}

// DeselectIngredient removes an ingredient from the selection.
func (o *Orchestrator) DeselectIngredient(entry SelectionEntry) {
	o.post(func() {
		if o.session.Deselect(entry) {
			o.invalidateResults()
		}
	})
}

// ToggleMyIngredient flips a pantry ingredient in or out of the search
// without modifying the stored pantry.
func (o *Orchestrator) ToggleMyIngredient(ingredientID int64) {
	o.post(func() {
		if o.session.ToggleExclusion(ingredientID) {
			o.invalidateResults()
		}
	})
}

// SetCuisine changes the cuisine filter and schedules a search.
func (o *Orchestrator) SetCuisine(c models.Cuisine) {
	o.post(func() {
		if o.session.Cuisine == c {
			return
		}
		o.session.Cuisine = c
		o.invalidateResults()
	})
}

// SetLocale switches the display language. Localized names permeate the
// cached responses and the resolved selection alike, so the cache is
// dropped wholesale and the session rebuilt empty at the new locale.
// The user re-picks ingredients from the new locale's catalog.
func (o *Orchestrator) SetLocale(l models.Locale) {
	o.post(func() {
		if o.session.Locale == l {
			return
		}
		o.session = NewSession(l)
		o.cache.Clear()
		o.invalidateResults()
	})
}

// SetPantry replaces the session's pantry list, typically after a fetch
// from the server.
func (o *Orchestrator) SetPantry(items []models.UserIngredient) {
	o.post(func() {
		o.session.Pantry = items
		o.invalidateResults()
	})
}

// LoadMore fetches the next page immediately. A no-op when no further
// results exist or the session has no results yet.
func (o *Orchestrator) LoadMore() {
	o.post(func() {
		if !o.session.HasMore {
			return
		}
		o.executeQuery(o.session.Offset)
	})
}

// Refresh re-runs the current search immediately, bypassing the
// debounce but not the cache.
func (o *Orchestrator) Refresh() {
	o.post(func() {
		o.session.ResetResults()
		o.executeQuery(0)
	})
}

// Session runs fn on the orchestrator goroutine with the live session
// and blocks until it returns. For tests and synchronous reads.
func (o *Orchestrator) Session(fn func(*SearchSession)) {
	doneCh := make(chan struct{})
	o.post(func() {
		fn(o.session)
		close(doneCh)
	})
	select {
	case <-doneCh:
	case <-o.done:
	}
}

// invalidateResults clears accumulated pages and arms the debounce
// timer. Must run on the orchestrator goroutine.
func (o *Orchestrator) invalidateResults() {
	o.session.ResetResults()
	o.armDebounce()
}

// run is the orchestrator event loop. Commands and the debounce timer
// both land here, so all session access is single-threaded.
func (o *Orchestrator) run() {
	defer close(o.done)

	o.debounce = time.NewTimer(time.Hour)
	if !o.debounce.Stop() {
		<-o.debounce.C
	}

	for {
		select {
		case <-o.stop:
			o.debounce.Stop()
			return
		case fn := <-o.events:
			fn()
		case <-o.debounce.C:
			o.debounceArmed = false
			o.executeQuery(0)
		}
	}
}

// armDebounce (re)starts the debounce countdown.
func (o *Orchestrator) armDebounce() {
	if o.debounceArmed && !o.debounce.Stop() {
		<-o.debounce.C
	}
	o.debounce.Reset(o.opts.Debounce)
	o.debounceArmed = true
}

// executeQuery performs one search at the given offset and folds the
// page into the session. Must run on the orchestrator goroutine.
func (o *Orchestrator) executeQuery(offset int) {
	if o.session.Empty() {
		o.session.ResetResults()
		o.session.RateLimited = false
		o.emit(nil)
		return
	}

	if o.session.RateLimited && !o.now().Before(o.cooldownUntil) {
		o.session.RateLimited = false
	}

	ids, names := o.session.EffectiveSelection()
	params := SearchParams{
		IDs:     ids,
		Names:   names,
		Cuisine: o.session.Cuisine,
		Offset:  offset,
		Limit:   o.opts.PageSize,
		Locale:  o.session.Locale,
	}

	key := cache.GenerateKey("client_search", params)
	if v, ok := o.cache.Get(key); ok {
		o.session.ApplyPage(v.(*models.SearchResponse), o.opts.PageSize)
		o.emit(nil)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	resp, err := o.client.SearchDishes(ctx, params)
	cancel()

	if err != nil {
		if errors.Is(err, ErrRateLimited) {
			o.cooldownUntil = o.now().Add(o.opts.Cooldown)
			o.session.RateLimited = true
			logging.Warn().Dur("cooldown", o.opts.Cooldown).Msg("Search rate limited, cooling down")
		}
		o.emit(err)
		return
	}

	o.cooldownUntil = time.Time{}
	o.session.RateLimited = false
	o.cache.Set(key, resp)
	o.session.ApplyPage(resp, o.opts.PageSize)
	o.emit(nil)
}

// emit delivers a snapshot to the update callback.
func (o *Orchestrator) emit(err error) {
	if o.opts.OnUpdate == nil {
		return
	}
	s := o.session
	o.opts.OnUpdate(Snapshot{
		UserDishes:  append([]models.SearchResult(nil), s.UserDishes...),
		DBDishes:    append([]models.SearchResult(nil), s.DBDishes...),
		Total:       s.Total,
		HasMore:     s.HasMore,
		RateLimited: s.RateLimited,
		Err:         err,
	})
}
