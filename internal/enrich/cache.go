package enrich

import (
	"sync"

	"github.com/ppiankov/importspectre/internal/models"
)

// CacheEntry is a cached lookup outcome. A nil Info records a failed lookup.
type CacheEntry struct {
	Info *models.HealthInfo
}

// Cache provides thread-safe caching of advisory lookups keyed by lookup name.
// Entries live for the whole run and are never evicted.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]*CacheEntry
}

// NewCache creates an empty cache
func NewCache() *Cache {
	return &Cache{
		entries: make(map[string]*CacheEntry),
	}
}

// Get retrieves an entry from the cache
func (c *Cache) Get(name string) (*CacheEntry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, exists := c.entries[name]
	return entry, exists
}

// Set stores a lookup result; pass nil to remember a failed lookup
func (c *Cache) Set(name string, info *models.HealthInfo) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[name] = &CacheEntry{Info: info}
}

// Size returns the current number of entries in the cache
func (c *Cache) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
