package cache

import (
	"sync"
	"time"

	"github.com/vetordigital/leadfunnel/internal/domain/providers"
)

type entry struct {
	slots      []string
	computedAt time.Time
}

// MemoryCache implements AvailabilityCache with a TTL-bounded in-process map.
// It is constructed explicitly and injected into the availability engine;
// nothing reads it as ambient global state. Safe under concurrent get/put;
// last writer wins.
type MemoryCache struct {
	mu      sync.RWMutex
	ttl     time.Duration
	entries map[string]entry
	now     func() time.Time
}

// NewMemoryCache creates an availability cache with the given TTL.
func NewMemoryCache(ttl time.Duration) providers.AvailabilityCache {
	return newMemoryCache(ttl, time.Now)
}

func newMemoryCache(ttl time.Duration, now func() time.Time) *MemoryCache {
	return &MemoryCache{
		ttl:     ttl,
		entries: make(map[string]entry),
		now:     now,
	}
}

// Get returns the cached slots for date while the entry is fresh. Stale
// entries are bypassed, not deleted; the next Put overwrites them.
func (c *MemoryCache) Get(date string) ([]string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.entries[date]
	if !ok || c.now().Sub(e.computedAt) >= c.ttl {
		return nil, false
	}

	out := make([]string, len(e.slots))
	copy(out, e.slots)
	return out, true
}

// Put overwrites the entry for date with the current timestamp.
func (c *MemoryCache) Put(date string, slots []string) {
	stored := make([]string, len(slots))
	copy(stored, slots)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[date] = entry{slots: stored, computedAt: c.now()}
}

// Clear drops every entry. Idempotent.
func (c *MemoryCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]entry)
}
