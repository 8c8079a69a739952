package cache

import (
	"fmt"
	"sync"
	"time"
)

// ============================================================================
// CACHE SERVICE - IN-MEMORY CACHING WITH TTL
// ============================================================================
// Thread-safe cache with automatic expiration. Used to absorb repeated
// trigger events: scraping the schedule site or re-querying the directions
// provider for the same pair within a minute would only hammer the
// providers for an identical answer.
//
// Usage:
//   cache := NewCache(60*time.Second, 5*time.Minute)
//   cache.Set(ScheduleKey("西宮", "大阪"), result)
//   if v, found := cache.Get(ScheduleKey("西宮", "大阪")); found { ... }

// Item is a cached value with its expiration timestamp.
type Item struct {
	Value      interface{}
	Expiration int64 // UnixNano; 0 means no expiry
}

// Cache is a thread-safe key-value store with TTL.
type Cache struct {
	items             map[string]Item
	mu                sync.RWMutex
	defaultExpiration time.Duration
	cleanupInterval   time.Duration
	stopCleanup       chan bool
}

// NewCache creates a cache with a default TTL; cleanupInterval drives the
// periodic sweep of expired items.
func NewCache(defaultExpiration, cleanupInterval time.Duration) *Cache {
	cache := &Cache{
		items:             make(map[string]Item),
		defaultExpiration: defaultExpiration,
		cleanupInterval:   cleanupInterval,
		stopCleanup:       make(chan bool),
	}
	go cache.startCleanupTimer()
	return cache
}

// Set stores a value with the default TTL.
func (c *Cache) Set(key string, value interface{}) {
	c.SetWithTTL(key, value, c.defaultExpiration)
}

// SetWithTTL stores a value with a specific TTL.
func (c *Cache) SetWithTTL(key string, value interface{}, duration time.Duration) {
	var expiration int64
	if duration > 0 {
		expiration = time.Now().Add(duration).UnixNano()
	}

	c.mu.Lock()
	c.items[key] = Item{Value: value, Expiration: expiration}
	c.mu.Unlock()
}

// Get retrieves a value. Returns (nil, false) for missing or expired keys.
func (c *Cache) Get(key string) (interface{}, bool) {
	c.mu.RLock()
	item, found := c.items[key]
	c.mu.RUnlock()

	if !found {
		return nil, false
	}
	if item.Expiration > 0 && time.Now().UnixNano() > item.Expiration {
		c.Delete(key)
		return nil, false
	}
	return item.Value, true
}

// Delete removes a key.
func (c *Cache) Delete(key string) {
	c.mu.Lock()
	delete(c.items, key)
	c.mu.Unlock()
}

// Clear wipes the cache.
func (c *Cache) Clear() {
	c.mu.Lock()
	c.items = make(map[string]Item)
	c.mu.Unlock()
}

// Count returns the number of cached items (expired ones included until the
// next sweep).
func (c *Cache) Count() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// Stats describes the cache state.
type Stats struct {
	TotalItems   int
	ExpiredItems int
	ValidItems   int
}

// GetStats returns current cache statistics.
func (c *Cache) GetStats() Stats {
	c.mu.RLock()
	defer c.mu.RUnlock()

	stats := Stats{TotalItems: len(c.items)}
	now := time.Now().UnixNano()
	for _, item := range c.items {
		if item.Expiration > 0 && now > item.Expiration {
			stats.ExpiredItems++
		} else {
			stats.ValidItems++
		}
	}
	return stats
}

func (c *Cache) startCleanupTimer() {
	ticker := time.NewTicker(c.cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.deleteExpired()
		case <-c.stopCleanup:
			return
		}
	}
}

func (c *Cache) deleteExpired() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now().UnixNano()
	for key, item := range c.items {
		if item.Expiration > 0 && now > item.Expiration {
			delete(c.items, key)
		}
	}
}

// Stop halts the cleanup goroutine.
func (c *Cache) Stop() {
	c.stopCleanup <- true
}

// ============================================================================
// CACHE PRESETS
// ============================================================================

var (
	// ScheduleCache holds scraped schedule results (TTL: 60 seconds).
	// Departures shift minute to minute, so keep this short.
	ScheduleCache *Cache

	// DirectionsCache holds composed itineraries (TTL: 60 seconds).
	DirectionsCache *Cache
)

// InitCaches initializes the preset caches. Called once from main.
func InitCaches() {
	ScheduleCache = NewCache(60*time.Second, 5*time.Minute)
	DirectionsCache = NewCache(60*time.Second, 5*time.Minute)
}

// StopCaches halts every preset cache.
func StopCaches() {
	if ScheduleCache != nil {
		ScheduleCache.Stop()
	}
	if DirectionsCache != nil {
		DirectionsCache.Stop()
	}
}

// ScheduleKey builds the cache key for one origin/destination pair.
func ScheduleKey(origin, destination string) string {
	return fmt.Sprintf("schedule:%s:%s", origin, destination)
}

// TripKey builds the cache key for one trip origin.
func TripKey(lat, lon float64) string {
	return fmt.Sprintf("trip:%.4f:%.4f", lat, lon)
}
