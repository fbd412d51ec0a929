package refs

import (
	"sync"

	"github.com/maidi29/fsxa-api/content"
)

// Cache maps canonical identifiers to their mapped entities. It is the
// source of truth for "has this entity already been fetched", which is what
// makes a cyclic reference graph safe to traverse: an identifier present
// here is never scheduled for fetching again.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]content.Entity
}

// NewCache creates an empty cache.
func NewCache() *Cache {
	return &Cache{entries: make(map[string]content.Entity)}
}

// Put stores an entity under its canonical identifier. A later write for
// the same id overwrites; within a request that only happens with identical
// content, so concurrent writers need no coordination beyond the lock.
func (c *Cache) Put(canonicalID string, entity content.Entity) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[canonicalID] = entity
}

// Get returns the entity cached under canonicalID, if any.
func (c *Cache) Get(canonicalID string) (content.Entity, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[canonicalID]
	return e, ok
}

// Has reports whether canonicalID has been resolved already.
func (c *Cache) Has(canonicalID string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.entries[canonicalID]
	return ok
}

// Len returns the number of cached entities.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Snapshot copies the cache into a plain map, the shape handed to callers
// as the resolved-references output.
func (c *Cache) Snapshot() map[string]content.Entity {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make(map[string]content.Entity, len(c.entries))
	for id, e := range c.entries {
		out[id] = e
	}
	return out
}
