package cache

import (
	"sync"
	"time"

	"github.com/evyataryagoni/geosearch/internal/models"
)

// entry is a single cached response with its expiry deadline
// Entries are never mutated in place; a Set for the same key replaces them
type entry struct {
	response  *models.SearchResponse
	expiresAt time.Time
}

// MemoryCache is an in-process TTL cache for search responses
//
// Expiry is enforced two ways: lazily on Get, and by a periodic sweep
// goroutine that evicts expired entries so untouched keys do not pile up.
// The mutex only protects the map itself; there is no single-flight
// de-duplication, so concurrent misses for the same key may each do the
// underlying work and the last Set wins
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]entry
	ttl     time.Duration
	stop    chan struct{}
	done    chan struct{}
}

// NewMemoryCache creates an in-memory cache and starts its sweep loop
//
// Parameters:
//   - ttl: per-entry time-to-live (DefaultTTL if <= 0)
//   - sweepInterval: how often expired entries are evicted (DefaultSweepInterval if <= 0)
func NewMemoryCache(ttl, sweepInterval time.Duration) *MemoryCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if sweepInterval <= 0 {
		sweepInterval = DefaultSweepInterval
	}

	c := &MemoryCache{
		entries: make(map[string]entry),
		ttl:     ttl,
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}

	go c.sweepLoop(sweepInterval)

	return c
}

// Get implements Cache
// Reports a miss for expired entries even before the sweep removes them
func (c *MemoryCache) Get(key string) (*models.SearchResponse, bool) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok || time.Now().After(e.expiresAt) {
		return nil, false
	}

	// Shared reference; callers must not mutate the response
	return e.response, true
}

// Set implements Cache
func (c *MemoryCache) Set(key string, response *models.SearchResponse) {
	c.mu.Lock()
	c.entries[key] = entry{
		response:  response,
		expiresAt: time.Now().Add(c.ttl),
	}
	c.mu.Unlock()
}

// FlushAll implements Cache
func (c *MemoryCache) FlushAll() error {
	c.mu.Lock()
	c.entries = make(map[string]entry)
	c.mu.Unlock()
	return nil
}

// Close stops the sweep goroutine
// Safe to call once; entries remain readable afterwards but stop expiring
// eagerly (lazy expiry on Get still applies)
func (c *MemoryCache) Close() error {
	close(c.stop)
	<-c.done
	return nil
}

// sweepLoop periodically evicts expired entries
// It only ever removes entries, so it never blocks readers of live keys
// for longer than a map delete
func (c *MemoryCache) sweepLoop(interval time.Duration) {
	defer close(c.done)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.sweep()
		case <-c.stop:
			return
		}
	}
}

// sweep removes every entry whose deadline has passed
func (c *MemoryCache) sweep() {
	now := time.Now()

	c.mu.Lock()
	for key, e := range c.entries {
		if now.After(e.expiresAt) {
			delete(c.entries, key)
		}
	}
	c.mu.Unlock()
}
