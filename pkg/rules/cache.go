package rules

import (
	"path/filepath"
	"sync"
)

// Cache memoizes the ruleset (or its absence) found in each directory during
// one invocation. The filesystem is assumed static for the lifetime of a
// cache; create a new one per run.
type Cache struct {
	mu      sync.Mutex
	entries map[string]cacheEntry
	hits    int
	misses  int
}

type cacheEntry struct {
	ruleset Ruleset
	present bool
}

// NewCache creates an empty cache
func NewCache() *Cache {
	return &Cache{entries: make(map[string]cacheEntry)}
}

// Load returns the cached value for dir, calling load on the first request.
// Concurrent first requests may both call load; the content is deterministic
// per directory so the last writer wins harmlessly.
func (c *Cache) Load(dir string, load func() (Ruleset, bool)) (Ruleset, bool) {
	key := filepath.Clean(dir)

	c.mu.Lock()
	if entry, ok := c.entries[key]; ok {
		c.hits++
		c.mu.Unlock()
		return entry.ruleset, entry.present
	}
	c.misses++
	c.mu.Unlock()

	ruleset, present := load()

	c.mu.Lock()
	c.entries[key] = cacheEntry{ruleset: ruleset, present: present}
	c.mu.Unlock()

	return ruleset, present
}

// Len returns the number of cached directories
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Stats returns cache hits and misses
func (c *Cache) Stats() (hits, misses int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits, c.misses
}
