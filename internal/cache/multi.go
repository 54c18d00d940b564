package cache

import (
	"strings"
	"time"

	"github.com/xiaohua-travel/linebot/internal/logger"
)

// MultiLevelCache reads through memory to the persistent level and writes to both.
type MultiLevelCache struct {
	memory     Cache
	db         Cache
	promoteTTL time.Duration
	logger     logger.Logger
}

func NewMultiLevelCache(memory, db Cache, logger logger.Logger) *MultiLevelCache {
	return &MultiLevelCache{
		memory:     memory,
		db:         db,
		promoteTTL: 24 * time.Hour,
		logger:     logger,
	}
}

const (
	MemoryOnlyPrefix = "mem:"
	PersistentPrefix = "db:"
)

func (c *MultiLevelCache) Get(key string) ([]byte, bool) {
	if after, ok := strings.CutPrefix(key, MemoryOnlyPrefix); ok {
		return c.memory.Get(after)
	}

	key = strings.TrimPrefix(key, PersistentPrefix)

	if data, found := c.memory.Get(key); found {
		return data, true
	}

	if data, found := c.db.Get(key); found {
		_ = c.memory.Set(key, data, c.promoteTTL)
		return data, true
	}

	return nil, false
}

func (c *MultiLevelCache) Set(key string, data []byte, ttl time.Duration) error {
	if after, ok := strings.CutPrefix(key, MemoryOnlyPrefix); ok {
		return c.memory.Set(after, data, ttl)
	}

	key = strings.TrimPrefix(key, PersistentPrefix)

	if err := c.db.Set(key, data, ttl); err != nil {
		return err
	}
	memTTL := ttl
	if memTTL <= 0 || memTTL > c.promoteTTL {
		memTTL = c.promoteTTL
	}
	_ = c.memory.Set(key, data, memTTL)
	return nil
}

func (c *MultiLevelCache) Delete(key string) error {
	key = strings.TrimPrefix(strings.TrimPrefix(key, MemoryOnlyPrefix), PersistentPrefix)

	if err := c.memory.Delete(key); err != nil {
		c.logger.WithError(err).Error("Failed to delete from memory cache")
	}

	if err := c.db.Delete(key); err != nil {
		c.logger.WithError(err).Error("Failed to delete from db cache")
		return err
	}

	return nil
}

func (c *MultiLevelCache) Clear() error {
	if err := c.memory.Clear(); err != nil {
		c.logger.WithError(err).Error("Failed to clear memory cache")
	}

	if err := c.db.Clear(); err != nil {
		c.logger.WithError(err).Error("Failed to clear db cache")
		return err
	}

	return nil
}

func (c *MultiLevelCache) PurgeExpired() (int64, error) {
	var total int64
	for _, level := range []Cache{c.memory, c.db} {
		p, ok := level.(Purger)
		if !ok {
			continue
		}
		n, err := p.PurgeExpired()
		if err != nil {
			return total, err
		}
		total += n
	}
	return total, nil
}
