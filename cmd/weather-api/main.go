package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.uber.org/zap"

	"weather-api/configs"
	"weather-api/docs"
	"weather-api/internal/application/controller"
	"weather-api/internal/application/middleware"
	"weather-api/internal/application/schedule"
	"weather-api/internal/domain/gateway/api"
	"weather-api/internal/domain/gateway/cache"
	"weather-api/internal/domain/gateway/db"
	"weather-api/internal/domain/gateway/file"
	"weather-api/internal/domain/usecase/health"
	"weather-api/internal/domain/usecase/location"
	infracache "weather-api/internal/infra/cache"
	"weather-api/internal/infra/database/sqlc"
	"weather-api/internal/infra/metrics"
	"weather-api/internal/infra/timezone"
	pkghttp "weather-api/pkg/http"
	"weather-api/pkg/log"
	"weather-api/pkg/msg"
	"weather-api/pkg/redis"
)

// @title weather-api
// @version 1.0
// @description Location keyed weather cache in front of open-meteo and geonames.
// @BasePath /weather-api
func main() {
	log.Info(msg.GetMessage("app.start"))

	config := configs.Load()
	log.SetLevel(config.LogLevel)
	docs.SwaggerInfo.BasePath = config.Server.ContextPath

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Init infra
	database, err := sqlc.Open(ctx, config.Database)
	if err != nil {
		log.Fatal(msg.GetMessage("app.db-failed", err), zap.Error(err))
	}
	defer database.Close()

	if err := sqlc.InitSchema(ctx, database, config.Database.Driver); err != nil {
		log.Fatal(msg.GetMessage("app.db-failed", err), zap.Error(err))
	}

	cacheHealthGateway := cache.NewCacheHealthGateway()
	responseCache, closeCache := newResponseCache(ctx, config, cacheHealthGateway)
	defer closeCache()

	// Init Gateways
	clientOptions := pkghttp.ClientOptions{
		ConnectionTimeout: config.Upstream.ConnectionTimeout,
		ReadTimeout:       config.Upstream.ReadTimeout,
		Backoff:           pkghttp.NewBackoffConfig(config.Upstream.MaxRetries),
		Logger:            pkghttp.ZapHTTPLogger{},
	}
	weatherGateway := api.NewWeatherGateway(config.Upstream.ForecastURL, clientOptions)

	var geocodingGateway api.GeocodingGateway = api.NewGeocodingGateway(api.GeocodingOptions{
		SearchBaseURL:  config.Upstream.GeocodingURL,
		ReverseBaseURL: config.Upstream.ReverseURL,
		Username:       config.Upstream.GeoNamesUsername,
		ResultCount:    config.Upstream.ResultCount,
		ClientOptions:  clientOptions,
	})
	if responseCache != nil {
		geocodingGateway = api.NewCachedGeocodingGateway(geocodingGateway, responseCache, config.Cache.Type)
	}

	locationGateway := db.NewSQLCLocationGateway(database, config.Database.Driver, config.Location.BatchSize)
	searchTermGateway := file.NewJSONSearchTermGateway(config.Location.SearchLogPath)
	dbHealthGateway := db.NewSQLCHealthDBGateway(database, config.Database.Driver)

	// Init UseCase
	locationUseCase := location.NewLocationUseCase(location.Options{
		WeatherGateway:   weatherGateway,
		GeocodingGateway: geocodingGateway,
		LocationGateway:  locationGateway,
		SearchLog:        location.NewSearchLog(searchTermGateway),
		TimezoneResolver: newTimezoneResolver(config),
		Policy:           config.Location.Policy,
		WriteWindow:      config.Location.WriteWindow,
		FetchTimeout:     config.Upstream.FetchTimeout,
	})
	healthUseCase := health.NewHealthUseCase(dbHealthGateway, cacheHealthGateway)

	if err := locationUseCase.Load(ctx); err != nil {
		log.Fatal(msg.GetMessage("app.db-failed", err), zap.Error(err))
	}

	// Init Routes
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(echomw.RequestIDWithConfig(echomw.RequestIDConfig{Generator: uuid.NewString}))
	e.Use(echomw.Recover())
	middleware.SetupRequestLogger(e)

	e.GET("/metrics", echo.WrapHandler(metrics.Handler()))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	group := e.Group(config.Server.ContextPath)
	controller.NewHealthController(group, healthUseCase).InitHealthRoutes()
	controller.NewLocationController(group, locationUseCase).InitLocationRoutes()

	// Init Schedule
	sweepScheduler := schedule.NewSweepScheduler(locationUseCase, config.Location.SweepInterval)
	sweepScheduler.InitSweepScheduleTasks()

	go func() {
		log.Info(msg.GetMessage("app.started", config.Server.Port))
		if err := e.Start(":" + config.Server.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("Server stopped unexpectedly", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	shutdown(e, sweepScheduler, config)
}

func newResponseCache(ctx context.Context, config *configs.AppConfig, healthGateway *cache.CacheHealthGateway) (api.ResponseCache, func()) {
	switch config.Cache.Type {
	case configs.CacheNone:
		return nil, func() {}
	case configs.CacheRedis:
		client, err := redis.NewClient(config.Redis)
		if err == nil {
			err = client.Ping(ctx)
		}
		if err == nil {
			healthGateway.RegisterCache(configs.CacheRedis, redis.NewHealthChecker(client))
			return redis.NewCache(client, "geocoding", config.Cache.TTL), func() { _ = client.Close() }
		}
		log.Warn(msg.GetMessage("app.redis-failed", err), zap.Error(err))
		if client != nil {
			_ = client.Close()
		}
	}

	memoryCache := infracache.NewMemoryCache("geocoding", config.Cache.TTL, config.Cache.Cleanup)
	healthGateway.RegisterCache(configs.CacheMemory, memoryCache)
	return memoryCache, func() {}
}

func newTimezoneResolver(config *configs.AppConfig) timezone.Resolver {
	if !config.Location.ResolveTimezone {
		return nil
	}
	resolver, err := timezone.NewResolver()
	if err != nil {
		log.Warn(msg.GetMessage("app.timezone-failed", err), zap.Error(err))
		return nil
	}
	return resolver
}

// shutdown stops accepting requests, waits for a running sweep and runs a final one
// so nothing updated since the last tick is lost.
func shutdown(e *echo.Echo, sweepScheduler *schedule.SweepScheduler, config *configs.AppConfig) {
	log.Info(msg.GetMessage("app.stopping"))

	ctx, cancel := context.WithTimeout(context.Background(), config.Server.ShutdownTimeout)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		log.Error("Server shutdown failed", zap.Error(err))
	}
	sweepScheduler.Stop()
	sweepScheduler.Sweep()

	log.Info(msg.GetMessage("app.stopped"))
	log.Sync()
}
