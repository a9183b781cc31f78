// Package cache is an in-process TTL memoization layer. Entries expire
// lazily at read time; there is no background sweep. Concurrent misses
// for the same key are collapsed so at most one fetch is in flight per
// key.
package cache

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"
)

// FetchFunc produces the value for a key on a miss.
type FetchFunc func(ctx context.Context) (any, error)

type entry struct {
	value     any
	fetchedAt time.Time
}

// Cache memoizes fetch results keyed by string. Safe for concurrent use.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]entry
	flight  singleflight.Group
	now     func() time.Time

	hits   atomic.Int64
	misses atomic.Int64
}

// New returns an empty cache using the wall clock.
func New() *Cache {
	return NewWithClock(time.Now)
}

// NewWithClock returns an empty cache with an injected clock, used by
// tests to drive expiry deterministically.
func NewWithClock(now func() time.Time) *Cache {
	return &Cache{entries: make(map[string]entry), now: now}
}

// GetOrFetch returns the cached value for key when it is younger than
// ttl, otherwise invokes fetch and stores the result. A fetch failure is
// returned to the caller, is never cached, and leaves any prior entry
// untouched; the caller decides whether stale data is an acceptable
// fallback.
func (c *Cache) GetOrFetch(ctx context.Context, key string, ttl time.Duration, fetch FetchFunc) (any, error) {
	if v, ok := c.lookup(key, ttl); ok {
		c.hits.Add(1)
		return v, nil
	}
	c.misses.Add(1)

	v, err, _ := c.flight.Do(key, func() (any, error) {
		// A concurrent caller may have stored the value while this one
		// waited on the flight group.
		if v, ok := c.lookup(key, ttl); ok {
			return v, nil
		}
		v, err := fetch(ctx)
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		c.entries[key] = entry{value: v, fetchedAt: c.now()}
		c.mu.Unlock()
		return v, nil
	})
	if err != nil {
		return nil, err
	}
	return v, nil
}

func (c *Cache) lookup(key string, ttl time.Duration) (any, bool) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok {
		return nil, false
	}
	if c.now().Sub(e.fetchedAt) >= ttl {
		return nil, false
	}
	return e.value, true
}

// GetOrFetch is the typed wrapper over Cache.GetOrFetch. A cached value
// of the wrong type counts as a miss rather than a panic, which can only
// happen on a key collision between operations.
func GetOrFetch[T any](ctx context.Context, c *Cache, key string, ttl time.Duration, fetch func(ctx context.Context) (T, error)) (T, error) {
	v, err := c.GetOrFetch(ctx, key, ttl, func(ctx context.Context) (any, error) {
		return fetch(ctx)
	})
	if err != nil {
		var zero T
		return zero, err
	}
	t, ok := v.(T)
	if !ok {
		return fetch(ctx)
	}
	return t, nil
}

// Len reports the number of stored entries, expired or not.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Stats reports cumulative hit and miss counts.
func (c *Cache) Stats() (hits, misses int64) {
	return c.hits.Load(), c.misses.Load()
}
