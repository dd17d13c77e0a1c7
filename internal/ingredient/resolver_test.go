// FridgeCook - Ingredient-Based Recipe Search
// Copyright 2026 FridgeCook Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fridgecook/fridgecook

package ingredient

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/fridgecook/fridgecook/internal/models"
)

// fakeStore models the fixture hierarchy: onion (3) has children diced
// onion (4) and red onion (5); pork (6) has child pork belly (7); egg (1)
// and rice (2) stand alone.
type fakeStore struct {
	err      error
	nameCall []string
	idCall   []int64
}

func (s *fakeStore) BaseIngredientIDsByNames(_ context.Context, names []string, _ models.Locale) ([]int64, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.nameCall = names
	out := []int64{}
	for _, n := range names {
		switch n {
		case "egg", "계란":
			out = append(out, 1)
		case "onion", "양파":
			out = append(out, 3)
		}
	}
	return out, nil
}

func (s *fakeStore) BaseIngredientIDs(_ context.Context, ids []int64) ([]int64, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.idCall = ids
	toBase := map[int64]int64{1: 1, 2: 2, 3: 3, 4: 3, 5: 3, 6: 6, 7: 6}
	out := []int64{}
	for _, id := range ids {
		if base, ok := toBase[id]; ok {
			out = append(out, base)
		}
	}
	return out, nil
}

func (s *fakeStore) ExpandWithChildren(_ context.Context, baseIDs []int64) ([]int64, error) {
	if s.err != nil {
		return nil, s.err
	}
	children := map[int64][]int64{3: {4, 5}, 6: {7}}
	out := []int64{}
	for _, id := range baseIDs {
		out = append(out, id)
		out = append(out, children[id]...)
	}
	return out, nil
}

func TestResolveEmptySelection(t *testing.T) {
	r := NewResolver(&fakeStore{})
	set, err := r.Resolve(context.Background(), Selection{}, models.LocaleKO)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if !set.Empty() {
		t.Errorf("empty selection resolved to %v, want empty set", set.Slice())
	}
}

func TestResolveBaseExpandsToChildren(t *testing.T) {
	r := NewResolver(&fakeStore{})
	set, err := r.Resolve(context.Background(), Selection{IDs: []int64{3}}, models.LocaleKO)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	want := []int64{3, 4, 5}
	if got := set.Slice(); !reflect.DeepEqual(got, want) {
		t.Errorf("Resolve(onion) = %v, want %v", got, want)
	}
}

func TestResolveVariantEquivalentToBase(t *testing.T) {
	// Selecting any variant of a base must resolve to the same matchable
	// set as selecting the base itself.
	r := NewResolver(&fakeStore{})
	ctx := context.Background()

	base, err := r.Resolve(ctx, Selection{IDs: []int64{3}}, models.LocaleKO)
	if err != nil {
		t.Fatalf("Resolve(base) error = %v", err)
	}
	for _, variant := range []int64{4, 5} {
		got, err := r.Resolve(ctx, Selection{IDs: []int64{variant}}, models.LocaleKO)
		if err != nil {
			t.Fatalf("Resolve(variant %d) error = %v", variant, err)
		}
		if !reflect.DeepEqual(got.Slice(), base.Slice()) {
			t.Errorf("Resolve(variant %d) = %v, want %v", variant, got.Slice(), base.Slice())
		}
	}
}

func TestResolveMixedNamesAndIDs(t *testing.T) {
	r := NewResolver(&fakeStore{})
	set, err := r.Resolve(context.Background(),
		Selection{IDs: []int64{7}, Names: []string{"egg"}}, models.LocaleEN)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	// pork belly folds to pork (6) + belly (7); egg stands alone.
	want := []int64{1, 6, 7}
	if got := set.Slice(); !reflect.DeepEqual(got, want) {
		t.Errorf("Resolve(mixed) = %v, want %v", got, want)
	}
}

func TestResolveDropsUnknownSilently(t *testing.T) {
	r := NewResolver(&fakeStore{})
	set, err := r.Resolve(context.Background(),
		Selection{IDs: []int64{999}, Names: []string{"unobtainium", "egg"}}, models.LocaleEN)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	want := []int64{1}
	if got := set.Slice(); !reflect.DeepEqual(got, want) {
		t.Errorf("Resolve(partially unknown) = %v, want %v", got, want)
	}
}

func TestResolveAllUnknownYieldsEmptySet(t *testing.T) {
	r := NewResolver(&fakeStore{})
	set, err := r.Resolve(context.Background(),
		Selection{IDs: []int64{999}}, models.LocaleKO)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if !set.Empty() {
		t.Errorf("unresolvable selection = %v, want empty set", set.Slice())
	}
}

func TestResolveDeduplicatesIDs(t *testing.T) {
	store := &fakeStore{}
	r := NewResolver(store)
	if _, err := r.Resolve(context.Background(),
		Selection{IDs: []int64{3, 3, 4, 3}}, models.LocaleKO); err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	want := []int64{3, 4}
	if !reflect.DeepEqual(store.idCall, want) {
		t.Errorf("store received ids %v, want deduplicated %v", store.idCall, want)
	}
}

func TestResolvePropagatesStoreError(t *testing.T) {
	boom := errors.New("store down")
	r := NewResolver(&fakeStore{err: boom})
	if _, err := r.Resolve(context.Background(),
		Selection{IDs: []int64{1}}, models.LocaleKO); !errors.Is(err, boom) {
		t.Errorf("Resolve() error = %v, want %v", err, boom)
	}
}

func TestSetSliceSorted(t *testing.T) {
	s := NewSet(5, 1, 3, 1)
	want := []int64{1, 3, 5}
	if got := s.Slice(); !reflect.DeepEqual(got, want) {
		t.Errorf("Slice() = %v, want %v", got, want)
	}
	if s.Len() != 3 {
		t.Errorf("Len() = %d, want 3", s.Len())
	}
	if !s.Contains(3) || s.Contains(2) {
		t.Error("Contains() membership wrong")
	}
}
