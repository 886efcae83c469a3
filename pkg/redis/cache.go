package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// Cache stores JSON values under a named namespace with a fixed TTL
type Cache struct {
	client *Client
	name   string
	ttl    time.Duration
}

// NewCache creates a cache whose keys live under prefix::name::key
func NewCache(client *Client, name string, ttl time.Duration) *Cache {
	return &Cache{
		client: client,
		name:   name,
		ttl:    ttl,
	}
}

// Get decodes the value at key into dest. It reports false on a miss.
func (c *Cache) Get(ctx context.Context, key string, dest any) (bool, error) {
	data, err := c.client.GetBytes(ctx, c.client.Key(c.name, key))
	if errors.Is(err, ErrCacheMiss) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	if err := json.Unmarshal(data, dest); err != nil {
		return false, fmt.Errorf("failed to deserialize value: %w", err)
	}
	return true, nil
}

// Set stores value at key with the cache TTL
func (c *Cache) Set(ctx context.Context, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to serialize value: %w", err)
	}
	return c.client.Set(ctx, c.client.Key(c.name, key), data, c.ttl)
}

// Delete removes key from the cache
func (c *Cache) Delete(ctx context.Context, key string) error {
	return c.client.Delete(ctx, c.client.Key(c.name, key))
}
