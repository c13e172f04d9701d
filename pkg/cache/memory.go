// Copyright (c) 2025 Glowdesk Inc. All Rights Reserved.
// This is licensed software from Glowdesk Inc, for limitations
// and restrictions contact your company contract manager.

package cache

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/glowdesk/health-engine/pkg/model"
	"github.com/sirupsen/logrus"
)

// DefaultCapacity bounds the in-memory cache when no capacity is
// configured.
const DefaultCapacity = 1000

// MemoryScoreCache is a bounded in-process ScoreCache. A single mutex
// covers both the per-key read-modify-write and the eviction sweep, so
// trend reads, snapshot writes and capacity trims never race.
type MemoryScoreCache struct {
	mu       sync.Mutex
	entries  map[string]*Entry
	capacity int
	now      func() time.Time

	onEvict func(evicted int)
}

// MemoryOption configures a MemoryScoreCache.
type MemoryOption func(*MemoryScoreCache)

// WithClock overrides the write-timestamp clock. Tests use this to make
// eviction ordering deterministic.
func WithClock(now func() time.Time) MemoryOption {
	return func(c *MemoryScoreCache) {
		c.now = now
	}
}

// WithEvictionCallback is invoked with the number of entries removed by
// each eviction sweep. The engine uses it to feed metrics.
func WithEvictionCallback(fn func(evicted int)) MemoryOption {
	return func(c *MemoryScoreCache) {
		c.onEvict = fn
	}
}

// NewMemoryScoreCache creates a bounded in-memory score cache.
// A non-positive capacity falls back to DefaultCapacity.
func NewMemoryScoreCache(capacity int, opts ...MemoryOption) *MemoryScoreCache {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}

	c := &MemoryScoreCache{
		entries:  make(map[string]*Entry),
		capacity: capacity,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get returns a copy of the cached entry for a customer.
func (c *MemoryScoreCache) Get(ctx context.Context, customerID string) (*Entry, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[customerID]
	if !ok {
		return nil, false, nil
	}

	cp := *entry
	return &cp, true, nil
}

// Update atomically applies fn to the prior entry and stores the
// result. Inserting beyond capacity triggers an eviction sweep that
// keeps the entries with the most recent timestamps.
func (c *MemoryScoreCache) Update(ctx context.Context, customerID string, fn func(prev *Entry) (model.CustomerHealthScore, error)) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var prev *Entry
	if existing, ok := c.entries[customerID]; ok {
		cp := *existing
		prev = &cp
	}

	score, err := fn(prev)
	if err != nil {
		return err
	}

	c.entries[customerID] = &Entry{
		CustomerID: customerID,
		Score:      score,
		Timestamp:  c.now(),
	}

	c.evictLocked()
	return nil
}

// evictLocked trims the cache down to capacity, dropping the oldest
// write timestamps first. Caller must hold c.mu.
func (c *MemoryScoreCache) evictLocked() {
	excess := len(c.entries) - c.capacity
	if excess <= 0 {
		return
	}

	all := make([]*Entry, 0, len(c.entries))
	for _, e := range c.entries {
		all = append(all, e)
	}
	sort.Slice(all, func(i, j int) bool {
		return all[i].Timestamp.Before(all[j].Timestamp)
	})

	for _, e := range all[:excess] {
		delete(c.entries, e.CustomerID)
	}

	logrus.Debugf("score cache evicted %d entries, %d retained", excess, len(c.entries))
	if c.onEvict != nil {
		c.onEvict(excess)
	}
}

// Entries returns a copy of all cached entries.
func (c *MemoryScoreCache) Entries(ctx context.Context) ([]Entry, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]Entry, 0, len(c.entries))
	for _, e := range c.entries {
		out = append(out, *e)
	}
	return out, nil
}

// Len returns the number of cached entries.
func (c *MemoryScoreCache) Len(ctx context.Context) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	return len(c.entries), nil
}
