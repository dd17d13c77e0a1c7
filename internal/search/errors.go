// FridgeCook - Ingredient-Based Recipe Search
// Copyright 2026 FridgeCook Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fridgecook/fridgecook

package search

import "errors"

// ErrStoreUnavailable wraps catalog store failures, including a tripped
// circuit breaker. Callers map it to a retryable 503.
var ErrStoreUnavailable = errors.New("catalog store unavailable")

// ErrSelectionTooLarge is returned when a search selection exceeds the
// configured maximum. Callers map it to a 400.
var ErrSelectionTooLarge = errors.New("ingredient selection exceeds maximum size")
