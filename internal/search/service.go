// FridgeCook - Ingredient-Based Recipe Search
// Copyright 2026 FridgeCook Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fridgecook/fridgecook

// Package search orchestrates the two ranking engines behind a response
// cache and a circuit breaker, and owns the pagination arithmetic that
// merges their result spaces.
package search

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sony/gobreaker/v2"

	"github.com/fridgecook/fridgecook/internal/cache"
	"github.com/fridgecook/fridgecook/internal/config"
	"github.com/fridgecook/fridgecook/internal/database"
	"github.com/fridgecook/fridgecook/internal/ingredient"
	"github.com/fridgecook/fridgecook/internal/logging"
	"github.com/fridgecook/fridgecook/internal/models"
)

// Store is the catalog store surface the service depends on. *database.DB
// satisfies it; tests substitute fakes.
type Store interface {
	ingredient.Store

	SearchDishes(ctx context.Context, f database.DishSearchFilter) ([]models.SearchResult, int, error)
	SearchUserRecipes(ctx context.Context, matchableIDs []int64, locale models.Locale) ([]models.SearchResult, error)
	PopularDishes(ctx context.Context, cuisine models.Cuisine, offset, limit int, locale models.Locale) ([]models.Dish, int, error)

	BaseIngredients(ctx context.Context, category string, locale models.Locale) ([]models.Ingredient, error)
	AutocompleteIngredients(ctx context.Context, term string, categories []string, locale models.Locale) ([]models.AutocompleteResult, error)
	IngredientNamesByIDs(ctx context.Context, ids []int64, locale models.Locale) (map[int64]string, error)

	ListUserIngredients(ctx context.Context, userID int64, locale models.Locale) ([]models.UserIngredient, error)
	AddUserIngredient(ctx context.Context, userID, ingredientID int64, expiry *time.Time) (int64, error)
	RemoveUserIngredient(ctx context.Context, userID, ingredientID int64) error
}

// Request carries the parameters of one combined search.
type Request struct {
	// Selection identifiers; names arrive from shareable URLs, ids from
	// interactive selection. Either or both may be set.
	IDs   []int64
	Names []string

	Cuisine     models.Cuisine
	SubCategory string
	Offset      int
	Limit       int
	Locale      models.Locale
}

// PopularPage is the cached unit for the landing-page feed.
type PopularPage struct {
	Dishes  []models.Dish `json:"dishes"`
	Total   int           `json:"total"`
	HasMore bool          `json:"hasMore"`
	Offset  int           `json:"offset"`
}

// Service fronts the store with resolution, caching, merging, and failure
// isolation. Safe for concurrent use.
type Service struct {
	store    Store
	resolver *ingredient.Resolver
	cache    *cache.Cache
	breaker  *gobreaker.CircuitBreaker[any]
	api      config.APIConfig
}

// New creates the search service.
func New(store Store, apiCfg config.APIConfig, searchCfg config.SearchConfig) *Service {
	threshold := uint32(searchCfg.BreakerFailureThreshold)
	if threshold == 0 {
		threshold = 5
	}

	breaker := gobreaker.NewCircuitBreaker[any](gobreaker.Settings{
		Name:    "catalog-store",
		Timeout: searchCfg.BreakerOpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		IsSuccessful: func(err error) bool {
			// A missing row is a caller error, not store degradation.
			return err == nil || errors.Is(err, database.ErrNotFound)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Warn().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("Store circuit breaker state changed")
			switch to {
			case gobreaker.StateClosed:
				breakerState.Set(0)
			case gobreaker.StateHalfOpen:
				breakerState.Set(1)
			case gobreaker.StateOpen:
				breakerState.Set(2)
			}
		},
	})

	return &Service{
		store:    store,
		resolver: ingredient.NewResolver(store),
		cache:    cache.New(searchCfg.CacheTTL, searchCfg.CacheMaxEntries),
		breaker:  breaker,
		api:      apiCfg,
	}
}

// execute runs a store call through the circuit breaker, folding breaker
// rejections and store failures into ErrStoreUnavailable.
func (s *Service) execute(fn func() (any, error)) (any, error) {
	v, err := s.breaker.Execute(fn)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, err
		}
		storeFailures.Inc()
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return v, nil
}

// normalize clamps paging parameters and rejects oversized selections.
func (s *Service) normalize(req *Request) error {
	if req.Offset < 0 {
		req.Offset = 0
	}
	if req.Limit <= 0 {
		req.Limit = s.api.DefaultPageSize
	}
	if req.Limit > s.api.MaxPageSize {
		req.Limit = s.api.MaxPageSize
	}
	if len(req.IDs)+len(req.Names) > s.api.MaxSelectionSize {
		return fmt.Errorf("%w: %d identifiers, maximum %d",
			ErrSelectionTooLarge, len(req.IDs)+len(req.Names), s.api.MaxSelectionSize)
	}
	if req.Cuisine == "" {
		req.Cuisine = models.CuisineMixed
	}
	if req.Locale == "" {
		req.Locale = models.LocaleEN
	}
	return nil
}

// searchKey is the canonical cache key input: the resolved matchable set
// rather than the raw selection, so equivalent selections (base vs its
// variants, names vs ids) share one entry.
type searchKey struct {
	IDs         []int64        `json:"ids"`
	Cuisine     models.Cuisine `json:"cuisine"`
	SubCategory string         `json:"sub_category,omitempty"`
	Offset      int            `json:"offset"`
	Limit       int            `json:"limit"`
	Locale      models.Locale  `json:"locale"`
}

// Search runs one combined search: resolve the selection, rank both
// pools, merge, paginate. The bool result reports a cache hit.
//
// An empty or entirely unresolvable selection short-circuits to an empty
// response without touching the ranking queries.
func (s *Service) Search(ctx context.Context, req Request) (*models.SearchResponse, bool, error) {
	if err := s.normalize(&req); err != nil {
		return nil, false, err
	}

	sel := ingredient.Selection{IDs: req.IDs, Names: req.Names}
	if sel.Empty() {
		searchRequests.WithLabelValues(outcomeEmpty).Inc()
		return models.EmptySearchResponse(), false, nil
	}

	resolved, err := s.execute(func() (any, error) {
		return s.resolver.Resolve(ctx, sel, req.Locale)
	})
	if err != nil {
		searchRequests.WithLabelValues(outcomeError).Inc()
		return nil, false, err
	}
	matchable := resolved.(ingredient.Set)
	if matchable.Empty() {
		searchRequests.WithLabelValues(outcomeEmpty).Inc()
		return models.EmptySearchResponse(), false, nil
	}

	key := cache.GenerateKey("dish_search", searchKey{
		IDs:         matchable.Slice(),
		Cuisine:     req.Cuisine,
		SubCategory: req.SubCategory,
		Offset:      req.Offset,
		Limit:       req.Limit,
		Locale:      req.Locale,
	})
	if v, ok := s.cache.Get(key); ok {
		searchRequests.WithLabelValues(outcomeHit).Inc()
		return v.(*models.SearchResponse), true, nil
	}

	poolAny, err := s.execute(func() (any, error) {
		return s.store.SearchUserRecipes(ctx, matchable.Slice(), req.Locale)
	})
	if err != nil {
		searchRequests.WithLabelValues(outcomeError).Inc()
		return nil, false, err
	}
	pool := poolAny.([]models.SearchResult)

	catOffset, catLimit := CatalogWindow(req.Offset, req.Limit, len(pool))
	pageAny, err := s.execute(func() (any, error) {
		page, total, err := s.store.SearchDishes(ctx, database.DishSearchFilter{
			MatchableIDs: matchable.Slice(),
			Cuisine:      req.Cuisine,
			SubCategory:  req.SubCategory,
			Offset:       catOffset,
			Limit:        catLimit,
			Locale:       req.Locale,
		})
		if err != nil {
			return nil, err
		}
		return MergePage(pool, page, total, req.Offset, req.Limit), nil
	})
	if err != nil {
		searchRequests.WithLabelValues(outcomeError).Inc()
		return nil, false, err
	}
	resp := pageAny.(*models.SearchResponse)

	s.cache.Set(key, resp)
	cacheEntries.Set(float64(s.cache.Len()))
	searchRequests.WithLabelValues(outcomeMiss).Inc()

	logging.Ctx(ctx).Debug().
		Int("matchable", matchable.Len()).
		Int("creators", len(pool)).
		Int("total", resp.Total).
		Int("offset", req.Offset).
		Msg("Search executed")

	return resp, false, nil
}

// Popular returns the landing-page feed for an empty selection, cached
// under the same TTL as search responses.
func (s *Service) Popular(ctx context.Context, cuisine models.Cuisine, offset, limit int, locale models.Locale) (*PopularPage, bool, error) {
	if offset < 0 {
		offset = 0
	}
	if limit <= 0 {
		limit = s.api.DefaultPageSize
	}
	if limit > s.api.MaxPageSize {
		limit = s.api.MaxPageSize
	}
	if cuisine == "" {
		cuisine = models.CuisineMixed
	}

	key := cache.GenerateKey("popular_dishes", searchKey{
		Cuisine: cuisine, Offset: offset, Limit: limit, Locale: locale,
	})
	if v, ok := s.cache.Get(key); ok {
		return v.(*PopularPage), true, nil
	}

	v, err := s.execute(func() (any, error) {
		dishes, total, err := s.store.PopularDishes(ctx, cuisine, offset, limit, locale)
		if err != nil {
			return nil, err
		}
		return &PopularPage{
			Dishes:  dishes,
			Total:   total,
			HasMore: offset+limit < total,
			Offset:  offset,
		}, nil
	})
	if err != nil {
		return nil, false, err
	}
	page := v.(*PopularPage)
	s.cache.Set(key, page)
	return page, false, nil
}

// Autocomplete searches base ingredients by a partial term. Not cached:
// the term space is wide and the query is cheap.
func (s *Service) Autocomplete(ctx context.Context, term string, categories []string, locale models.Locale) ([]models.AutocompleteResult, error) {
	v, err := s.execute(func() (any, error) {
		return s.store.AutocompleteIngredients(ctx, term, categories, locale)
	})
	if err != nil {
		return nil, err
	}
	return v.([]models.AutocompleteResult), nil
}

// BaseIngredients lists the selectable ingredient canon for the picker.
func (s *Service) BaseIngredients(ctx context.Context, category string, locale models.Locale) ([]models.Ingredient, error) {
	key := cache.GenerateKey("base_ingredients", map[string]string{
		"category": category, "locale": string(locale),
	})
	if v, ok := s.cache.Get(key); ok {
		return v.([]models.Ingredient), nil
	}

	v, err := s.execute(func() (any, error) {
		return s.store.BaseIngredients(ctx, category, locale)
	})
	if err != nil {
		return nil, err
	}
	out := v.([]models.Ingredient)
	s.cache.Set(key, out)
	return out, nil
}

// IngredientNames resolves ids to locale display names for URL restoration.
func (s *Service) IngredientNames(ctx context.Context, ids []int64, locale models.Locale) (map[int64]string, error) {
	v, err := s.execute(func() (any, error) {
		return s.store.IngredientNamesByIDs(ctx, ids, locale)
	})
	if err != nil {
		return nil, err
	}
	return v.(map[int64]string), nil
}

// Pantry returns one user's saved ingredients.
func (s *Service) Pantry(ctx context.Context, userID int64, locale models.Locale) ([]models.UserIngredient, error) {
	v, err := s.execute(func() (any, error) {
		return s.store.ListUserIngredients(ctx, userID, locale)
	})
	if err != nil {
		return nil, err
	}
	return v.([]models.UserIngredient), nil
}

// AddPantryIngredient saves an ingredient to a user's pantry.
func (s *Service) AddPantryIngredient(ctx context.Context, userID, ingredientID int64, expiry *time.Time) (int64, error) {
	v, err := s.execute(func() (any, error) {
		return s.store.AddUserIngredient(ctx, userID, ingredientID, expiry)
	})
	if err != nil {
		return 0, err
	}
	return v.(int64), nil
}

// RemovePantryIngredient deletes an ingredient from a user's pantry.
func (s *Service) RemovePantryIngredient(ctx context.Context, userID, ingredientID int64) error {
	_, err := s.execute(func() (any, error) {
		return nil, s.store.RemoveUserIngredient(ctx, userID, ingredientID)
	})
	return err
}

// CacheStats exposes response-cache counters for the readiness payload.
func (s *Service) CacheStats() cache.Stats {
	return s.cache.GetStats()
}
