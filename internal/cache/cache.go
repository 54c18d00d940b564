package cache

import "time"

// Cache stores opaque values by key. A ttl <= 0 keeps the value until it is
// deleted or the cache is cleared.
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, data []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// Purger is implemented by caches that can drop expired entries in bulk.
type Purger interface {
	PurgeExpired() (int64, error)
}

func expiry(ttl time.Duration) time.Time {
	if ttl <= 0 {
		return time.Time{}
	}
	return time.Now().Add(ttl)
}

func expired(expiresAt time.Time, now time.Time) bool {
	return !expiresAt.IsZero() && now.After(expiresAt)
}
