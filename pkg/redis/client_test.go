package redis

import (
	"context"
	"testing"
	"time"
)

// unreachableClient points at a port nothing listens on so every command fails fast.
func unreachableClient(t *testing.T) *Client {
	t.Helper()
	config := NewRedisConfig()
	config.Host = "127.0.0.1"
	config.Port = 1
	config.MaxRetries = 0
	config.DialTimeout = 200 * time.Millisecond

	client, err := NewClient(config)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestUnreachableServer(t *testing.T) {
	client := unreachableClient(t)
	ctx := context.Background()

	up, details := NewHealthChecker(client).Check(ctx)
	if up || details["error"] == "" || details["address"] != "127.0.0.1:1" {
		t.Fatalf("Check = %v %v", up, details)
	}

	cache := NewCache(client, "geocoding", time.Minute)
	var dest []string
	if found, err := cache.Get(ctx, "search:london", &dest); found || err == nil {
		t.Fatalf("Get = %v, %v, want an error", found, err)
	}
	if err := cache.Set(ctx, "search:london", []string{"london"}); err == nil {
		t.Fatal("Set must fail without a server")
	}
}
