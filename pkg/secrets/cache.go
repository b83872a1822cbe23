package secrets

import (
	"sync"
	"time"
)

// DefaultTTL is how long a resolved secret stays fresh in the cache.
const DefaultTTL = 300 * time.Second

// Cache is a process-scoped TTL cache of resolved secret values. It
// is never persisted to disk.
type Cache struct {
	mu      sync.RWMutex
	ttl     time.Duration
	now     func() time.Time
	entries map[string]cacheEntry
}

type cacheEntry struct {
	value     string
	fetchedAt time.Time
}

// NewCache creates a cache with the given TTL. A zero or negative ttl
// falls back to DefaultTTL.
func NewCache(ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Cache{
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]cacheEntry),
	}
}

// Get returns the cached value for ref if a fresh entry exists.
func (c *Cache) Get(ref string) (string, bool) {
	c.mu.RLock()
	entry, ok := c.entries[ref]
	c.mu.RUnlock()

	if !ok {
		return "", false
	}
	if c.now().Sub(entry.fetchedAt) > c.ttl {
		// Stale entries are removed lazily on access.
		c.mu.Lock()
		delete(c.entries, ref)
		c.mu.Unlock()
		return "", false
	}
	return entry.value, true
}

// Set stores a value for ref, stamped with the current time.
func (c *Cache) Set(ref, value string) {
	c.mu.Lock()
	c.entries[ref] = cacheEntry{value: value, fetchedAt: c.now()}
	c.mu.Unlock()
}

// Len returns the number of entries, stale ones included.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
