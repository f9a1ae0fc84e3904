package weather

import (
	"sync"
	"time"
)

type cacheEntry struct {
	current  CurrentWeather
	storedAt time.Time
}

// Cache is a concurrency-safe TTL cache for current-weather lookups. The
// favorites refresh and the detail view frequently ask for the same city
// within seconds; the cache keeps that from turning into repeated
// provider calls.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]cacheEntry
	ttl     time.Duration
}

// NewCache creates a Cache. A ttl <= 0 disables caching entirely.
func NewCache(ttl time.Duration) *Cache {
	return &Cache{
		entries: make(map[string]cacheEntry),
		ttl:     ttl,
	}
}

// Get returns a cached reading for the location if it is still fresh.
func (c *Cache) Get(loc Location) (CurrentWeather, bool) {
	if c == nil || c.ttl <= 0 {
		return CurrentWeather{}, false
	}
	key := loc.Key()
	if key == "" {
		return CurrentWeather{}, false
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.entries[key]
	if !ok || time.Since(entry.storedAt) >= c.ttl {
		return CurrentWeather{}, false
	}
	return entry.current, true
}

// Put stores a reading for the location and drops any expired entries.
func (c *Cache) Put(loc Location, cw CurrentWeather) {
	if c == nil || c.ttl <= 0 {
		return
	}
	key := loc.Key()
	if key == "" {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	c.entries[key] = cacheEntry{current: cw, storedAt: now}

	for k, e := range c.entries {
		if now.Sub(e.storedAt) >= c.ttl {
			delete(c.entries, k)
		}
	}
}
