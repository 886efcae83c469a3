package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// MemoryCache keeps JSON encoded responses in process. Values are stored
// encoded so callers never share mutable state with the cache.
type MemoryCache struct {
	name  string
	items *gocache.Cache
}

// NewMemoryCache creates a cache expiring entries after ttl and purging them every cleanup interval.
func NewMemoryCache(name string, ttl, cleanup time.Duration) *MemoryCache {
	return &MemoryCache{
		name:  name,
		items: gocache.New(ttl, cleanup),
	}
}

func (c *MemoryCache) Get(_ context.Context, key string, dest any) (bool, error) {
	raw, found := c.items.Get(key)
	if !found {
		return false, nil
	}

	data, ok := raw.([]byte)
	if !ok {
		return false, fmt.Errorf("cache %s: unexpected value type %T", c.name, raw)
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return false, fmt.Errorf("cache %s: %w", c.name, err)
	}
	return true, nil
}

func (c *MemoryCache) Set(_ context.Context, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache %s: %w", c.name, err)
	}
	c.items.SetDefault(key, data)
	return nil
}

func (c *MemoryCache) Delete(_ context.Context, key string) error {
	c.items.Delete(key)
	return nil
}

// Len returns the number of entries, expired ones included until the next cleanup.
func (c *MemoryCache) Len() int {
	return c.items.ItemCount()
}

// Check always succeeds; it reports the entry count.
func (c *MemoryCache) Check(context.Context) (bool, map[string]string) {
	return true, map[string]string{
		"type":  "memory",
		"items": strconv.Itoa(c.Len()),
	}
}
