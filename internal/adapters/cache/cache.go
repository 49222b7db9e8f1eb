// Package cache implements ports.Cache on an in-process expiring map.
package cache

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/jsamuelsen/kondate/internal/domain"
)

// Memory is an expiring in-process cache.
type Memory struct {
	items *gocache.Cache
}

// NewMemory creates a cache whose entries expire after ttl unless Set says
// otherwise. Expired entries are purged every cleanup interval.
func NewMemory(ttl, cleanup time.Duration) *Memory {
	return &Memory{items: gocache.New(ttl, cleanup)}
}

// Get implements ports.Cache.
func (m *Memory) Get(_ context.Context, key string) ([]byte, error) {
	v, ok := m.items.Get(key)
	if !ok {
		return nil, domain.NewNotFoundError(domain.EntityCacheEntry, key)
	}

	data, ok := v.([]byte)
	if !ok {
		return nil, domain.NewNotFoundError(domain.EntityCacheEntry, key)
	}

	return append([]byte(nil), data...), nil
}

// Set implements ports.Cache. A zero ttl uses the cache default.
func (m *Memory) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = gocache.DefaultExpiration
	}

	m.items.Set(key, append([]byte(nil), value...), ttl)

	return nil
}

// Delete implements ports.Cache.
func (m *Memory) Delete(_ context.Context, key string) error {
	m.items.Delete(key)

	return nil
}

// Len returns the number of cached entries, including expired ones not yet
// purged.
func (m *Memory) Len() int {
	return m.items.ItemCount()
}
