package reconcile

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// Cache holds values keyed by string for a fixed TTL.
// Concurrent misses for the same key share one build call.
type Cache[T any] struct {
	ttl     time.Duration
	mu      sync.RWMutex
	entries map[string]cacheEntry[T]
	gens    map[string]uint64
	sf      singleflight.Group
	now     func() time.Time
}

type cacheEntry[T any] struct {
	value T
	built time.Time
}

// NewCache creates a cache. A zero TTL disables caching: every Get builds.
func NewCache[T any](ttl time.Duration) *Cache[T] {
	return &Cache[T]{
		ttl:     ttl,
		entries: make(map[string]cacheEntry[T]),
		gens:    make(map[string]uint64),
		now:     time.Now,
	}
}

func (c *Cache[T]) lookup(key string) (T, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.entries[key]
	if !ok || c.ttl == 0 || c.now().Sub(e.built) > c.ttl {
		var zero T
		return zero, false
	}
	return e.value, true
}

// Get returns the cached value for key or builds, stores and returns a new one.
// Build errors are not cached. A value whose build overlapped an Invalidate of the
// same key is returned to its callers but not stored.
func (c *Cache[T]) Get(ctx context.Context, key string, build func(ctx context.Context) (T, error)) (T, error) {
	if v, ok := c.lookup(key); ok {
		return v, nil
	}

	result, err, _ := c.sf.Do(key, func() (interface{}, error) {
		// Another caller may have stored it while we waited.
		if v, ok := c.lookup(key); ok {
			return v, nil
		}

		c.mu.RLock()
		gen := c.gens[key]
		c.mu.RUnlock()

		v, err := build(ctx)
		if err != nil {
			return nil, err
		}

		c.mu.Lock()
		if c.gens[key] == gen {
			c.entries[key] = cacheEntry[T]{value: v, built: c.now()}
		}
		c.mu.Unlock()

		return v, nil
	})
	if err != nil {
		var zero T
		return zero, err
	}

	return result.(T), nil
}

// Invalidate drops the entry for key. Builds already running for key will not
// store their result, and later callers start a fresh build instead of joining them.
func (c *Cache[T]) Invalidate(key string) {
	c.mu.Lock()
	delete(c.entries, key)
	c.gens[key]++
	c.mu.Unlock()
	c.sf.Forget(key)
}
