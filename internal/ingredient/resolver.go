// FridgeCook - Ingredient-Based Recipe Search
// Copyright 2026 FridgeCook Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fridgecook/fridgecook

// Package ingredient resolves user ingredient selections into the
// matchable identifier set used for coverage computation.
//
// A selection may mix base ids, variant ids, and locale-dependent names
// (as arriving from a shareable URL). Resolution first maps everything
// onto base ids, then expands each base to itself plus all direct
// children. Identifiers with no resolvable base are dropped silently:
// partial selections are expected during incremental UI interaction and
// must never fail the whole query.
package ingredient

import (
	"context"
	"sort"

	"github.com/fridgecook/fridgecook/internal/models"
)

// Set is a matchable identifier set: concrete ingredient ids only, bases
// plus their children. Ephemeral; recomputed per query, never persisted.
type Set map[int64]struct{}

// NewSet builds a Set from ids, collapsing duplicates.
func NewSet(ids ...int64) Set {
	s := make(Set, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

// Contains reports whether id is in the set.
func (s Set) Contains(id int64) bool {
	_, ok := s[id]
	return ok
}

// Empty reports whether the set has no members. Callers must
// short-circuit to an empty result without touching the store when true.
func (s Set) Empty() bool { return len(s) == 0 }

// Len returns the member count.
func (s Set) Len() int { return len(s) }

// Slice returns the members in ascending order. The ordering makes the
// set usable directly in deterministic cache keys.
func (s Set) Slice() []int64 {
	ids := make([]int64, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Store is the subset of the database layer the resolver needs.
type Store interface {
	// BaseIngredientIDsByNames resolves locale display names or aliases
	// to base ids, dropping unknown names.
	BaseIngredientIDsByNames(ctx context.Context, names []string, locale models.Locale) ([]int64, error)

	// BaseIngredientIDs maps arbitrary ids onto base ids, dropping
	// unknown ids and ids with no base ancestor.
	BaseIngredientIDs(ctx context.Context, ids []int64) ([]int64, error)

	// ExpandWithChildren returns the bases plus all their direct children.
	ExpandWithChildren(ctx context.Context, baseIDs []int64) ([]int64, error)
}

// Selection is the raw user input to a resolution.
type Selection struct {
	IDs   []int64
	Names []string
}

// Empty reports whether the selection carries no identifiers at all.
func (sel Selection) Empty() bool {
	return len(sel.IDs) == 0 && len(sel.Names) == 0
}

// Resolver expands selections through the ingredient hierarchy.
type Resolver struct {
	store Store
}

// NewResolver creates a resolver backed by the given store.
func NewResolver(store Store) *Resolver {
	return &Resolver{store: store}
}

// Resolve computes the matchable identifier set for a selection.
//
// Base ids contribute themselves and all direct children; variant ids
// contribute through their base. An entirely unresolvable selection
// yields an empty set, not an error.
func (r *Resolver) Resolve(ctx context.Context, sel Selection, locale models.Locale) (Set, error) {
	if sel.Empty() {
		return NewSet(), nil
	}

	baseIDs := NewSet()

	if len(sel.IDs) > 0 {
		ids, err := r.store.BaseIngredientIDs(ctx, dedupeIDs(sel.IDs))
		if err != nil {
			return nil, err
		}
		for _, id := range ids {
			baseIDs[id] = struct{}{}
		}
	}

	if len(sel.Names) > 0 {
		ids, err := r.store.BaseIngredientIDsByNames(ctx, sel.Names, locale)
		if err != nil {
			return nil, err
		}
		for _, id := range ids {
			baseIDs[id] = struct{}{}
		}
	}

	if baseIDs.Empty() {
		return NewSet(), nil
	}

	expanded, err := r.store.ExpandWithChildren(ctx, baseIDs.Slice())
	if err != nil {
		return nil, err
	}
	return NewSet(expanded...), nil
}

// dedupeIDs collapses duplicate ids preserving first-seen order.
func dedupeIDs(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
