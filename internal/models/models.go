// FridgeCook - Ingredient-Based Recipe Search
// Copyright 2026 FridgeCook Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fridgecook/fridgecook

// Package models defines the domain rows and API projections shared by the
// storage, search, and HTTP layers.
package models

import "time"

// Locale identifies the display language for ingredient and dish names.
// Ingredient rows carry both name columns; the locale picks which one is
// authoritative for display and alias matching.
type Locale string

const (
	LocaleEN Locale = "en"
	LocaleKO Locale = "ko"
)

// ParseLocale normalizes a raw locale value. Anything other than "ko"
// falls back to English, matching the cookie contract of the web frontend.
func ParseLocale(raw string) Locale {
	if raw == string(LocaleKO) {
		return LocaleKO
	}
	return LocaleEN
}

// Cuisine is the fixed enumeration of catalog cuisine filters.
type Cuisine string

const (
	CuisineMixed   Cuisine = "mixed"
	CuisineWestern Cuisine = "western"
	CuisineDessert Cuisine = "dessert"
	CuisineKorean  Cuisine = "korean"
)

// ParseCuisine normalizes a raw cuisine value, defaulting to mixed.
func ParseCuisine(raw string) Cuisine {
	switch Cuisine(raw) {
	case CuisineWestern, CuisineDessert, CuisineKorean:
		return Cuisine(raw)
	default:
		return CuisineMixed
	}
}

// Ingredient is a catalog ingredient row. Base ingredients (IsBase=true,
// ParentID=nil) are the user-selectable canon; non-base rows are variants
// that roll up to exactly one base via ParentID.
type Ingredient struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`              // primary (Korean) name
	NameEn   string `json:"name_en,omitempty"` // English name, may be empty for legacy rows
	Category string `json:"category,omitempty"`
	ParentID *int64 `json:"parent_id,omitempty"`
	IsBase   bool   `json:"is_base"`
	Aliases  string `json:"-"` // comma-separated alias list, locale-mixed
}

// DisplayName returns the locale-appropriate ingredient name, falling back
// to the primary name when the English column is empty.
func (i Ingredient) DisplayName(locale Locale) string {
	if locale == LocaleEN && i.NameEn != "" {
		return i.NameEn
	}
	return i.Name
}

// Dish is a curated catalog dish. Cuisine is an explicit taxonomy column;
// rows imported before the taxonomy existed may carry an empty value, in
// which case ranking falls back to a script heuristic on Category.
type Dish struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	NameEn      string `json:"name_en,omitempty"`
	Category    string `json:"category,omitempty"`
	Cuisine     string `json:"cuisine,omitempty"`
	ImageURL    string `json:"image_url,omitempty"`
	Description string `json:"description,omitempty"`
}

// Creator holds the attribution fields surfaced on creator search results.
type Creator struct {
	ID           int64  `json:"id"`
	Nickname     string `json:"nickname,omitempty"`
	ChannelName  string `json:"channel_name,omitempty"`
	ProfileImage string `json:"profile_image,omitempty"`
}

// RecipeStatus is the publication state of a creator recipe. Only published
// recipes are eligible for search; drafts are reachable solely by owner
// lookup, which lives outside this core.
type RecipeStatus string

const (
	RecipeDraft     RecipeStatus = "draft"
	RecipePublished RecipeStatus = "published"
)

// UserRecipe is a creator-submitted recipe row.
type UserRecipe struct {
	ID             int64        `json:"id"`
	CreatorID      int64        `json:"creator_id"`
	Title          string       `json:"title"`
	Category       string       `json:"category,omitempty"`
	Status         RecipeStatus `json:"status"`
	YouTubeVideoID string       `json:"youtube_video_id,omitempty"`
	ImageURL       string       `json:"image_url,omitempty"`
	ViewCount      int64        `json:"view_count"`
	LikeCount      int64        `json:"like_count"`
	CreatedAt      time.Time    `json:"created_at"`
}

// Provenance tags which pool a search result came from.
type Provenance string

const (
	ProvenanceCatalog Provenance = "catalog"
	ProvenanceCreator Provenance = "creator"
)

// SearchResult is the ranked projection returned by both ranking engines.
// MatchCount counts distinct base ingredients covered by the selection;
// TotalCount is the dish's or recipe's own required-ingredient cardinality,
// driving the client's "X/Y matched" display.
type SearchResult struct {
	ID          int64      `json:"id"`
	Name        string     `json:"name"`
	Category    string     `json:"category,omitempty"`
	ImageURL    string     `json:"image_url,omitempty"`
	Description string     `json:"description,omitempty"`
	Ingredients string     `json:"ingredients,omitempty"` // display names, comma-joined
	MatchCount  int        `json:"match_count"`
	TotalCount  int        `json:"total_count"`
	Provenance  Provenance `json:"provenance"`

	// Creator-only attribution.
	Creator        *Creator `json:"creator,omitempty"`
	YouTubeVideoID string   `json:"youtube_video_id,omitempty"`
	ViewCount      int64    `json:"view_count,omitempty"`
	LikeCount      int64    `json:"like_count,omitempty"`
}

// UserIngredient is a pantry row owned by an externally authenticated user.
type UserIngredient struct {
	ID           int64      `json:"id"`
	UserID       int64      `json:"user_id"`
	IngredientID int64      `json:"ingredient_id"`
	Name         string     `json:"name"`
	Category     string     `json:"category,omitempty"`
	ExpiryDate   *time.Time `json:"expiry_date,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}
