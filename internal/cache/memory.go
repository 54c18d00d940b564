package cache

import (
	"sync"
	"time"
)

type item struct {
	data      []byte
	expiresAt time.Time
}

type MemoryCache struct {
	items map[string]item
	mu    sync.RWMutex
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{
		items: make(map[string]item),
	}
}

func (c *MemoryCache) Get(key string) ([]byte, bool) {
	c.mu.RLock()
	it, exists := c.items[key]
	c.mu.RUnlock()

	if !exists {
		return nil, false
	}

	if expired(it.expiresAt, time.Now()) {
		c.mu.Lock()
		// re-check, a concurrent Set may have refreshed the entry
		if current, ok := c.items[key]; ok && expired(current.expiresAt, time.Now()) {
			delete(c.items, key)
		}
		c.mu.Unlock()
		return nil, false
	}

	return it.data, true
}

func (c *MemoryCache) Set(key string, data []byte, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items[key] = item{
		data:      data,
		expiresAt: expiry(ttl),
	}
	return nil
}

func (c *MemoryCache) Delete(key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.items, key)
	return nil
}

func (c *MemoryCache) Clear() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items = make(map[string]item)
	return nil
}

func (c *MemoryCache) PurgeExpired() (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	var n int64
	for key, it := range c.items {
		if expired(it.expiresAt, now) {
			delete(c.items, key)
			n++
		}
	}
	return n, nil
}

func (c *MemoryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}
