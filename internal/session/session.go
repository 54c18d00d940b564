// Package session keeps the per-user search state of the text conversation.
package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/xiaohua-travel/linebot/internal/cache"
)

// Record is one itinerary entry returned by a keyword search. Full is filled
// lazily the first time the user opens the entry by its index.
type Record struct {
	Summary string  `json:"summary"`
	Full    *string `json:"full,omitempty"`
}

// Content returns the full text when known and the summary otherwise.
func (r Record) Content() string {
	if r.Full != nil {
		return *r.Full
	}
	return r.Summary
}

type State struct {
	Searching bool     `json:"searching"`
	Results   []Record `json:"results,omitempty"`
}

type Store interface {
	Get(ctx context.Context, userID string) (State, error)
	Set(ctx context.Context, userID string, state State) error
	Clear(ctx context.Context, userID string) error
}

const keyPrefix = "session:"

// CacheStore serializes sessions as JSON into a cache.
type CacheStore struct {
	cache cache.Cache
	ttl   time.Duration
}

func NewCacheStore(c cache.Cache, ttl time.Duration) *CacheStore {
	return &CacheStore{cache: c, ttl: ttl}
}

func NewMemoryStore() *CacheStore {
	return NewCacheStore(cache.NewMemoryCache(), 0)
}

func (s *CacheStore) Get(ctx context.Context, userID string) (State, error) {
	if err := ctx.Err(); err != nil {
		return State{}, err
	}
	data, ok := s.cache.Get(keyPrefix + userID)
	if !ok {
		return State{}, nil
	}
	var state State
	if err := json.Unmarshal(data, &state); err != nil {
		return State{}, fmt.Errorf("failed to decode session %s: %w", userID, err)
	}
	return state, nil
}

func (s *CacheStore) Set(ctx context.Context, userID string, state State) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to encode session %s: %w", userID, err)
	}
	return s.cache.Set(keyPrefix+userID, data, s.ttl)
}

func (s *CacheStore) Clear(ctx context.Context, userID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.cache.Delete(keyPrefix + userID)
}
