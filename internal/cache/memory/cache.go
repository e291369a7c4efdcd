// Package memory is a per-process TTL cache for listing queries. Listing
// data is already a public snapshot, so cross-process coherence buys
// nothing; a map under a mutex keeps the hot trending path allocation-free.
package memory

import (
	"sync"
	"time"
)

type entry struct {
	value     any
	expiresAt time.Time
}

// Cache is a TTL map safe for concurrent use. Expired entries are dropped
// lazily on read and whenever a write passes the cleanup interval.
type Cache struct {
	mu      sync.Mutex
	entries map[string]entry
	lastGC  time.Time
	now     func() time.Time
}

const gcInterval = time.Minute

// New creates an empty cache.
func New() *Cache {
	return &Cache{
		entries: make(map[string]entry),
		now:     time.Now,
	}
}

// Get returns the cached value for key if present and not expired.
func (c *Cache) Get(key string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if c.now().After(e.expiresAt) {
		delete(c.entries, key)
		return nil, false
	}
	return e.value, true
}

// Set stores value under key for the given TTL.
func (c *Cache) Set(key string, value any, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	c.entries[key] = entry{value: value, expiresAt: now.Add(ttl)}

	if now.Sub(c.lastGC) >= gcInterval {
		for k, e := range c.entries {
			if now.After(e.expiresAt) {
				delete(c.entries, k)
			}
		}
		c.lastGC = now
	}
}

// Evict removes key from the cache.
func (c *Cache) Evict(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
}
