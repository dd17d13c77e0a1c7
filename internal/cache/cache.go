// FridgeCook - Ingredient-Based Recipe Search
// Copyright 2026 FridgeCook Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fridgecook/fridgecook

// Package cache provides a thread-safe in-memory TTL cache with a hard
// size ceiling.
//
// There is no background janitor: expired entries are reaped lazily, on
// the access path, at most once per cleanup interval. When the size
// ceiling is reached the oldest-inserted entry is evicted first, bounding
// memory over long sessions regardless of TTL.
package cache

import (
	"container/list"
	"crypto/sha256"
	"fmt"
	"sync"
	"time"

	"github.com/goccy/go-json"
)

// cleanupInterval is the minimum spacing between opportunistic sweeps.
const cleanupInterval = time.Minute

// entry is a cached item with its expiration and insertion-order handle.
type entry struct {
	key       string
	data      interface{}
	expiresAt time.Time
}

// Stats tracks cache performance counters. Returned by value from
// GetStats; safe to read without locks.
type Stats struct {
	Hits        int64
	Misses      int64
	Evictions   int64
	TotalKeys   int64
	LastCleanup time.Time
}

// Cache is a bounded TTL cache. Safe for concurrent use.
type Cache struct {
	mu         sync.Mutex
	entries    map[string]*list.Element
	order      *list.List // insertion order, front = oldest
	ttl        time.Duration
	maxEntries int
	stats      Stats
	now        func() time.Time // injectable clock for tests
}

// New creates a cache with the given default TTL and entry ceiling.
// maxEntries <= 0 falls back to 512.
func New(ttl time.Duration, maxEntries int) *Cache {
	if maxEntries <= 0 {
		maxEntries = 512
	}
	return &Cache{
		entries:    make(map[string]*list.Element),
		order:      list.New(),
		ttl:        ttl,
		maxEntries: maxEntries,
		stats:      Stats{LastCleanup: time.Now()},
		now:        time.Now,
	}
}

// Get returns the value for key if present and unexpired. An expired
// entry is removed and reported as a miss; a stale entry is never served.
func (c *Cache) Get(key string) (interface{}, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.maybeCleanup()

	el, ok := c.entries[key]
	if !ok {
		c.stats.Misses++
		return nil, false
	}

	e := el.Value.(*entry)
	if c.now().After(e.expiresAt) {
		c.removeLocked(el)
		c.stats.Misses++
		c.stats.Evictions++
		return nil, false
	}

	c.stats.Hits++
	return e.data, true
}

// Set stores value under key with the default TTL.
func (c *Cache) Set(key string, value interface{}) {
	c.SetWithTTL(key, value, c.ttl)
}

// SetWithTTL stores value under key with a custom TTL. Overwriting an
// existing key keeps its original insertion position; eviction order is
// by first insertion, not last write.
func (c *Cache) SetWithTTL(key string, value interface{}, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.maybeCleanup()

	if el, ok := c.entries[key]; ok {
		e := el.Value.(*entry)
		e.data = value
		e.expiresAt = c.now().Add(ttl)
		c.stats.TotalKeys = int64(len(c.entries))
		return
	}

	// Enforce the ceiling before inserting.
	for len(c.entries) >= c.maxEntries {
		oldest := c.order.Front()
		if oldest == nil {
			break
		}
		c.removeLocked(oldest)
		c.stats.Evictions++
	}

	el := c.order.PushBack(&entry{
		key:       key,
		data:      value,
		expiresAt: c.now().Add(ttl),
	})
	c.entries[key] = el
	c.stats.TotalKeys = int64(len(c.entries))
}

// Delete removes key if present.
func (c *Cache) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.entries[key]; ok {
		c.removeLocked(el)
		c.stats.Evictions++
	}
}

// Clear removes all entries.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.stats.Evictions += int64(len(c.entries))
	c.entries = make(map[string]*list.Element)
	c.order.Init()
	c.stats.TotalKeys = 0
}

// Len returns the current entry count, including any not-yet-reaped
// expired entries.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// GetStats returns a snapshot of the performance counters.
func (c *Cache) GetStats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stats
}

// HitRate returns the hit percentage across the cache lifetime.
func (c *Cache) HitRate() float64 {
	s := c.GetStats()
	total := s.Hits + s.Misses
	if total == 0 {
		return 0.0
	}
	return float64(s.Hits) / float64(total) * 100.0
}

// maybeCleanup sweeps expired entries if the cleanup interval has passed.
// Must be called with the lock held.
func (c *Cache) maybeCleanup() {
	now := c.now()
	if now.Sub(c.stats.LastCleanup) < cleanupInterval {
		return
	}
	c.stats.LastCleanup = now

	var next *list.Element
	for el := c.order.Front(); el != nil; el = next {
		next = el.Next()
		if now.After(el.Value.(*entry).expiresAt) {
			c.removeLocked(el)
			c.stats.Evictions++
		}
	}
}

// removeLocked unlinks an element from both indexes. Lock must be held.
func (c *Cache) removeLocked(el *list.Element) {
	e := el.Value.(*entry)
	delete(c.entries, e.key)
	c.order.Remove(el)
	c.stats.TotalKeys = int64(len(c.entries))
}

// GenerateKey creates a deterministic cache key from a method name and a
// JSON-serializable parameter struct.
func GenerateKey(method string, params interface{}) string {
	data, err := json.Marshal(params)
	if err != nil {
		// Fallback to a best-effort string key
		return fmt.Sprintf("%s:%v", method, params)
	}
	hash := sha256.Sum256(data)
	return fmt.Sprintf("%s:%x", method, hash[:16])
}
