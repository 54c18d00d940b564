package cache

import (
	"database/sql"
	"time"

	"github.com/xiaohua-travel/linebot/internal/database"
)

type DBCache struct {
	db database.Database
}

func NewDBCache(db database.Database) *DBCache {
	return &DBCache{db: db}
}

func (c *DBCache) Get(key string) ([]byte, bool) {
	var data []byte
	var expiresAt sql.NullTime

	err := c.db.QueryRow(`
        SELECT data, expires_at
        FROM cache
        WHERE key = ?
    `, key).Scan(&data, &expiresAt)

	if err != nil {
		return nil, false
	}

	if expiresAt.Valid && expired(expiresAt.Time, time.Now()) {
		_ = c.Delete(key)
		return nil, false
	}

	return data, true
}

func (c *DBCache) Set(key string, data []byte, ttl time.Duration) error {
	var expiresAt sql.NullTime
	if at := expiry(ttl); !at.IsZero() {
		expiresAt = sql.NullTime{Time: at.UTC(), Valid: true}
	}
	_, err := c.db.Exec(`
        INSERT OR REPLACE INTO cache (key, data, expires_at)
        VALUES (?, ?, ?)
    `, key, data, expiresAt)
	return err
}

func (c *DBCache) Delete(key string) error {
	_, err := c.db.Exec("DELETE FROM cache WHERE key = ?", key)
	return err
}

func (c *DBCache) Clear() error {
	_, err := c.db.Exec("DELETE FROM cache")
	return err
}

func (c *DBCache) PurgeExpired() (int64, error) {
	res, err := c.db.Exec(
		"DELETE FROM cache WHERE expires_at IS NOT NULL AND expires_at < ?",
		time.Now().UTC(),
	)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
