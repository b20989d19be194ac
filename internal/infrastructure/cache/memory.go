package cache

import (
	"context"
	"sync"
	"time"

	"github.com/skiguide/backend/internal/domain"
)

// cacheItem is one stored response with its expiration time.
type cacheItem struct {
	result     domain.QueryResult
	expiration time.Time
}

// MemoryCache is a thread-safe in-memory response cache with TTL support.
// Only deterministic results are stored here (the orchestrator enforces
// that), so replaying an entry is always safe.
type MemoryCache struct {
	data  map[string]cacheItem
	mutex sync.RWMutex
}

// NewMemoryCache creates a response cache and starts its cleanup loop.
func NewMemoryCache() *MemoryCache {
	c := &MemoryCache{data: make(map[string]cacheItem)}

	// Remove expired entries every 10 minutes.
	go c.cleanupExpired()

	return c
}

// Get returns the cached result for key, or ErrCacheMiss. The caller gets a
// copy; stored results are never aliased.
func (c *MemoryCache) Get(ctx context.Context, key string) (*domain.QueryResult, error) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	item, exists := c.data[key]
	if !exists || time.Now().After(item.expiration) {
		return nil, domain.ErrCacheMiss
	}

	result := item.result
	return &result, nil
}

// Set stores a copy of result under key with the given TTL.
func (c *MemoryCache) Set(ctx context.Context, key string, result *domain.QueryResult, ttl time.Duration) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.data[key] = cacheItem{
		result:     *result,
		expiration: time.Now().Add(ttl),
	}
	return nil
}

// Delete removes a key.
func (c *MemoryCache) Delete(ctx context.Context, key string) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	delete(c.data, key)
	return nil
}

// Size returns the current number of entries, expired ones included.
func (c *MemoryCache) Size() int {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return len(c.data)
}

// Clear removes all entries.
func (c *MemoryCache) Clear() {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.data = make(map[string]cacheItem)
}

func (c *MemoryCache) cleanupExpired() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		c.mutex.Lock()
		now := time.Now()
		for key, item := range c.data {
			if now.After(item.expiration) {
				delete(c.data, key)
			}
		}
		c.mutex.Unlock()
	}
}
