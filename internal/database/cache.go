package database

import (
	"context"
	"sync"

	"nivizrater/internal/config"
	"nivizrater/internal/store"
)

// Cache holds a resolved handle for its owner. The zero value is empty and
// ready to use; a nil *Cache behaves as an empty cache.
type Cache struct {
	mu sync.Mutex
	db store.Store
}

func (c *Cache) Get() (store.Store, bool) {
	if c == nil {
		return nil, false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.db, c.db != nil
}

func (c *Cache) Set(db store.Store) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.db = db
}

// GetOrResolve returns the cached handle or resolves and caches a new one.
// Concurrent callers share a single resolution.
func (c *Cache) GetOrResolve(ctx context.Context, r *Resolver, cfg *config.AppConfig, extra ...config.Pragma) (store.Store, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.db != nil {
		return c.db, nil
	}
	db, err := r.GetOrCreate(ctx, cfg, extra...)
	if err != nil {
		return nil, err
	}
	c.db = db
	return db, nil
}

// Close closes and forgets the cached handle, if any.
func (c *Cache) Close(ctx context.Context) error {
	c.mu.Lock()
	db := c.db
	c.db = nil
	c.mu.Unlock()

	if db == nil {
		return nil
	}
	return db.Close(ctx)
}
