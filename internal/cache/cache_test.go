// FridgeCook - Ingredient-Based Recipe Search
// Copyright 2026 FridgeCook Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fridgecook/fridgecook

package cache

import (
	"fmt"
	"testing"
	"time"
)

func TestCacheBasicOperations(t *testing.T) {
	c := New(1*time.Minute, 16)

	c.Set("key1", "value1")
	value, exists := c.Get("key1")
	if !exists {
		t.Error("Expected key1 to exist")
	}
	if value != "value1" {
		t.Errorf("Expected value1, got %v", value)
	}

	_, exists = c.Get("key2")
	if exists {
		t.Error("Expected key2 to not exist")
	}
}

func TestCacheExpiration(t *testing.T) {
	c := New(50*time.Millisecond, 16)

	base := time.Now()
	c.now = func() time.Time { return base }
	c.Set("key1", "value1")

	if _, exists := c.Get("key1"); !exists {
		t.Error("Expected key1 to exist immediately after set")
	}

	c.now = func() time.Time { return base.Add(100 * time.Millisecond) }
	if _, exists := c.Get("key1"); exists {
		t.Error("Expected key1 to be expired")
	}
}

func TestCacheNeverServesStaleEntry(t *testing.T) {
	// Lazy cleanup must not let an expired entry leak out between sweeps.
	c := New(10*time.Millisecond, 16)
	base := time.Now()
	c.now = func() time.Time { return base }
	c.Set("k", 1)

	// Advance past TTL but well short of the cleanup interval.
	c.now = func() time.Time { return base.Add(20 * time.Millisecond) }
	if _, exists := c.Get("k"); exists {
		t.Error("expired entry served before cleanup sweep")
	}
}

func TestCacheSizeCeilingEvictsOldestFirst(t *testing.T) {
	c := New(1*time.Minute, 3)

	for i := 0; i < 3; i++ {
		c.Set(fmt.Sprintf("key%d", i), i)
	}
	c.Set("key3", 3) // exceeds ceiling, key0 must go

	if _, exists := c.Get("key0"); exists {
		t.Error("Expected key0 to be evicted as oldest-inserted")
	}
	for i := 1; i <= 3; i++ {
		if _, exists := c.Get(fmt.Sprintf("key%d", i)); !exists {
			t.Errorf("Expected key%d to survive eviction", i)
		}
	}
	if got := c.Len(); got != 3 {
		t.Errorf("Expected 3 entries after eviction, got %d", got)
	}
}

func TestCacheOverwriteKeepsInsertionOrder(t *testing.T) {
	c := New(1*time.Minute, 2)

	c.Set("a", 1)
	c.Set("b", 2)
	c.Set("a", 10) // overwrite, a stays oldest
	c.Set("c", 3)  // evicts a

	if _, exists := c.Get("a"); exists {
		t.Error("Expected a to be evicted despite recent overwrite")
	}
	if v, _ := c.Get("b"); v != 2 {
		t.Errorf("Expected b=2, got %v", v)
	}
}

func TestCacheDelete(t *testing.T) {
	c := New(1*time.Minute, 16)

	c.Set("key1", "value1")
	c.Delete("key1")

	if _, exists := c.Get("key1"); exists {
		t.Error("Expected key1 to be deleted")
	}
}

func TestCacheClear(t *testing.T) {
	c := New(1*time.Minute, 16)

	c.Set("key1", "value1")
	c.Set("key2", "value2")
	c.Clear()

	for _, key := range []string{"key1", "key2"} {
		if _, exists := c.Get(key); exists {
			t.Errorf("Expected %s to be cleared", key)
		}
	}
	if c.Len() != 0 {
		t.Errorf("Expected empty cache after clear, got %d entries", c.Len())
	}
}

func TestCacheStats(t *testing.T) {
	c := New(1*time.Minute, 16)

	c.Set("key1", "value1")
	c.Get("key1") // hit
	c.Get("key2") // miss
	c.Get("key1") // hit

	stats := c.GetStats()
	if stats.Hits != 2 {
		t.Errorf("Expected 2 hits, got %d", stats.Hits)
	}
	if stats.Misses != 1 {
		t.Errorf("Expected 1 miss, got %d", stats.Misses)
	}
	if c.HitRate() < 66.0 || c.HitRate() > 67.0 {
		t.Errorf("Expected ~66.7%% hit rate, got %.2f", c.HitRate())
	}
}

func TestGenerateKeyDeterministic(t *testing.T) {
	type params struct {
		IDs    []int64
		Locale string
	}
	k1 := GenerateKey("search", params{IDs: []int64{1, 2, 3}, Locale: "en"})
	k2 := GenerateKey("search", params{IDs: []int64{1, 2, 3}, Locale: "en"})
	k3 := GenerateKey("search", params{IDs: []int64{1, 2, 3}, Locale: "ko"})

	if k1 != k2 {
		t.Error("Expected identical params to produce identical keys")
	}
	if k1 == k3 {
		t.Error("Expected locale to change the key")
	}
}
