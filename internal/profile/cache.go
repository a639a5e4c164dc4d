package profile

import (
	"context"
	"encoding/json"
	"sync"

	"backend-getyourextreme/internal/kv"
)

const CacheKey = "gye_profile_cache_v1"

// Cache keeps the last known profile per user id under a single key.
// Corrupt contents read as empty.
type Cache struct {
	storage kv.Storage
	mu      sync.Mutex
}

func NewCache(storage kv.Storage) *Cache {
	if storage == nil {
		storage = kv.NewMemory()
	}
	return &Cache{storage: storage}
}

func (c *Cache) Read(ctx context.Context, userID string) (*UserProfile, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	all, err := c.load(ctx)
	if err != nil {
		return nil, err
	}
	p, ok := all[userID]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (c *Cache) Write(ctx context.Context, userID string, p UserProfile) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	all, err := c.load(ctx)
	if err != nil {
		return err
	}
	all[userID] = p
	return c.save(ctx, all)
}

func (c *Cache) Clear(ctx context.Context, userID string) error {
	if userID == "" {
		return c.ClearAll(ctx)
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	all, err := c.load(ctx)
	if err != nil {
		return err
	}
	if _, ok := all[userID]; !ok {
		return nil
	}
	delete(all, userID)
	return c.save(ctx, all)
}

func (c *Cache) ClearAll(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.storage.Remove(ctx, CacheKey)
}

func (c *Cache) load(ctx context.Context) (map[string]UserProfile, error) {
	raw, ok, err := c.storage.Get(ctx, CacheKey)
	if err != nil {
		return nil, err
	}
	all := map[string]UserProfile{}
	if ok {
		if json.Unmarshal([]byte(raw), &all) != nil || all == nil {
			all = map[string]UserProfile{}
		}
	}
	return all, nil
}

func (c *Cache) save(ctx context.Context, all map[string]UserProfile) error {
	payload, err := json.Marshal(all)
	if err != nil {
		return err
	}
	return c.storage.Set(ctx, CacheKey, string(payload))
}
