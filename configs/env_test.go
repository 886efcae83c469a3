package configs

import (
	"testing"
	"time"

	"weather-api/pkg/resource"
)

func TestLoadFromApplicationFile(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("SWEEP_INTERVAL", "30s")
	t.Setenv("DB_DRIVER", "postgres")

	if err := resource.Init("application.yml"); err != nil {
		t.Fatalf("Init: %v", err)
	}
	config := Load()

	if config.Server.Port != "9090" || config.Server.ContextPath != "/weather-api" {
		t.Fatalf("server = %+v", config.Server)
	}
	if config.Database.Driver != "postgres" || config.Database.Port != "5432" {
		t.Fatalf("database = %+v", config.Database)
	}
	if config.Location.SweepInterval != 30*time.Second {
		t.Fatalf("sweep interval = %v", config.Location.SweepInterval)
	}
	if config.Location.WriteWindow != 30*time.Second {
		t.Fatalf("an empty write window must default to the sweep interval, got %v", config.Location.WriteWindow)
	}
	if config.Location.Policy.EvictAfter != 3*time.Hour || config.Location.BatchSize != 500 {
		t.Fatalf("location = %+v", config.Location)
	}
	if config.Upstream.ResultCount != 100 || config.Cache.Type != CacheMemory {
		t.Fatalf("upstream = %+v, cache = %+v", config.Upstream, config.Cache)
	}
	if !config.Location.ResolveTimezone || config.Redis.Port != 6379 {
		t.Fatalf("resolve timezone = %v, redis port = %d", config.Location.ResolveTimezone, config.Redis.Port)
	}
}
