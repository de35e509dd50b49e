package chartimg

import (
	"sync"
	"time"
)

// Key identifies a rendered chart. Only seeded tables are cacheable: two
// sessions with the same seed hold equal tables.
type Key struct {
	Seed uint32
	Year int
}

type cacheEntry struct {
	data      []byte
	expiresAt time.Time
}

// Cache holds rendered PNGs for a short period.
type Cache struct {
	mu      sync.RWMutex
	entries map[Key]cacheEntry
	ttl     time.Duration
	now     func() time.Time
}

// NewCache creates a chart cache with the given TTL.
func NewCache(ttl time.Duration) *Cache {
	return &Cache{
		entries: make(map[Key]cacheEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

// Get returns the cached image if still valid.
func (c *Cache) Get(k Key) ([]byte, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.entries[k]
	if !ok || c.now().After(e.expiresAt) {
		return nil, false
	}
	return e.data, true
}

// Set stores an image, dropping any expired entries.
func (c *Cache) Set(k Key, data []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	for key, e := range c.entries {
		if now.After(e.expiresAt) {
			delete(c.entries, key)
		}
	}
	c.entries[k] = cacheEntry{data: data, expiresAt: now.Add(c.ttl)}
}

// Len reports the number of stored entries, expired or not.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
