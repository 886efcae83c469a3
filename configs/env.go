package configs

import (
	"time"

	"weather-api/internal/domain/entity"
	"weather-api/internal/infra/database/sqlc"
	"weather-api/pkg/redis"
	"weather-api/pkg/resource"
)

const (
	CacheMemory = "memory"
	CacheRedis  = "redis"
	CacheNone   = "none"
)

type ServerConfig struct {
	Port            string
	ContextPath     string
	ShutdownTimeout time.Duration
}

type UpstreamConfig struct {
	ForecastURL       string
	GeocodingURL      string
	ReverseURL        string
	GeoNamesUsername  string
	ResultCount       int
	ConnectionTimeout time.Duration
	ReadTimeout       time.Duration
	FetchTimeout      time.Duration
	MaxRetries        int
}

type CacheConfig struct {
	Type    string
	TTL     time.Duration
	Cleanup time.Duration
}

type LocationConfig struct {
	Policy          entity.Policy
	SweepInterval   time.Duration
	WriteWindow     time.Duration
	BatchSize       int
	SearchLogPath   string
	ResolveTimezone bool
}

// AppConfig is the typed view of configs/application.yml.
type AppConfig struct {
	ApplicationName string
	LogLevel        string
	Server          ServerConfig
	Database        sqlc.Config
	Upstream        UpstreamConfig
	Cache           CacheConfig
	Redis           *redis.Config
	Location        LocationConfig
}

// Load reads every application property, falling back to the defaults below for unset keys.
func Load() *AppConfig {
	sweepInterval := resource.GetDurationOr("app.location.sweep-interval", time.Minute)

	redisConfig := redis.NewRedisConfig()
	redisConfig.Host = resource.GetStringOr("app.redis.host", redisConfig.Host)
	redisConfig.Port = resource.GetIntOr("app.redis.port", redisConfig.Port)
	redisConfig.Password = resource.GetString("app.redis.password")
	redisConfig.Database = resource.GetIntOr("app.redis.database", redisConfig.Database)
	redisConfig.KeyPrefix = resource.GetStringOr("app.redis.key-prefix", redisConfig.KeyPrefix)

	return &AppConfig{
		ApplicationName: resource.GetStringOr("app.name", "weather-api"),
		LogLevel:        resource.GetStringOr("app.log.level", "info"),
		Server: ServerConfig{
			Port:            resource.GetStringOr("app.server.port", "8080"),
			ContextPath:     resource.GetStringOr("app.server.context-path", "/weather-api"),
			ShutdownTimeout: resource.GetDurationOr("app.server.shutdown-timeout", 10*time.Second),
		},
		Database: sqlc.Config{
			Driver:       resource.GetStringOr("app.database.driver", sqlc.DriverSQLite),
			SQLitePath:   resource.GetStringOr("app.database.sqlite-path", "data/weather.db"),
			Host:         resource.GetStringOr("app.database.host", "localhost"),
			Port:         resource.GetStringOr("app.database.port", "5432"),
			Username:     resource.GetString("app.database.username"),
			Password:     resource.GetString("app.database.password"),
			Database:     resource.GetStringOr("app.database.name", "weather"),
			Schema:       resource.GetString("app.database.schema"),
			SSLMode:      resource.GetStringOr("app.database.ssl-mode", "disable"),
			MaxOpenConns: resource.GetIntOr("app.database.max-open-conns", 10),
		},
		Upstream: UpstreamConfig{
			ForecastURL:       resource.GetStringOr("app.upstream.forecast-url", "https://api.open-meteo.com"),
			GeocodingURL:      resource.GetStringOr("app.upstream.geocoding-url", "https://geocoding-api.open-meteo.com"),
			ReverseURL:        resource.GetStringOr("app.upstream.reverse-url", "http://api.geonames.org"),
			GeoNamesUsername:  resource.GetStringOr("app.upstream.geonames-username", "demo"),
			ResultCount:       resource.GetIntOr("app.upstream.result-count", 100),
			ConnectionTimeout: resource.GetDurationOr("app.upstream.connection-timeout", 5*time.Second),
			ReadTimeout:       resource.GetDurationOr("app.upstream.read-timeout", 10*time.Second),
			FetchTimeout:      resource.GetDurationOr("app.upstream.fetch-timeout", 15*time.Second),
			MaxRetries:        resource.GetIntOr("app.upstream.max-retries", 2),
		},
		Cache: CacheConfig{
			Type:    resource.GetStringOr("app.cache.type", CacheMemory),
			TTL:     resource.GetDurationOr("app.cache.ttl", 24*time.Hour),
			Cleanup: resource.GetDurationOr("app.cache.cleanup", time.Hour),
		},
		Redis: redisConfig,
		Location: LocationConfig{
			Policy: entity.Policy{
				CurrentTTL: resource.GetDurationOr("app.location.current-ttl", time.Hour),
				DailyTTL:   resource.GetDurationOr("app.location.daily-ttl", 24*time.Hour),
				EvictAfter: resource.GetDurationOr("app.location.evict-after", 3*time.Hour),
			},
			SweepInterval:   sweepInterval,
			WriteWindow:     resource.GetDurationOr("app.location.write-window", sweepInterval),
			BatchSize:       resource.GetIntOr("app.location.batch-size", 500),
			SearchLogPath:   resource.GetStringOr("app.location.search-log-path", "patterns.json"),
			ResolveTimezone: resource.GetBoolOr("app.location.resolve-timezone", true),
		},
	}
}
