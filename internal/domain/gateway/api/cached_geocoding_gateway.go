package api

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"weather-api/internal/domain/model/external"
	"weather-api/internal/infra/metrics"
	"weather-api/pkg/log"
)

// ResponseCache stores decoded upstream responses. Get reports false on a miss.
type ResponseCache interface {
	Get(ctx context.Context, key string, dest any) (bool, error)
	Set(ctx context.Context, key string, value any) error
}

// cachedGeocodingGateway answers repeated geocoder queries from a response cache.
// Cache failures are logged and the provider is asked instead.
type cachedGeocodingGateway struct {
	inner GeocodingGateway
	cache ResponseCache
	name  string
}

// reverseResult wraps the reverse answer so "no place" can be cached too.
type reverseResult struct {
	Place *external.GeoName `json:"place"`
}

// NewCachedGeocodingGateway decorates inner with cache; name labels the cache in logs and metrics
func NewCachedGeocodingGateway(inner GeocodingGateway, cache ResponseCache, name string) GeocodingGateway {
	return &cachedGeocodingGateway{inner: inner, cache: cache, name: name}
}

func (g *cachedGeocodingGateway) SearchByName(ctx context.Context, name string) ([]external.GeocodingResult, error) {
	key := "search:" + strings.ToLower(strings.TrimSpace(name))

	var cached []external.GeocodingResult
	if g.lookup(ctx, key, &cached) {
		return cached, nil
	}

	results, err := g.inner.SearchByName(ctx, name)
	if err != nil {
		return nil, err
	}
	g.store(ctx, key, results)
	return results, nil
}

func (g *cachedGeocodingGateway) ReverseGeocode(ctx context.Context, latitude, longitude string) (*external.GeoName, error) {
	key := "reverse:" + latitude + "," + longitude

	var cached reverseResult
	if g.lookup(ctx, key, &cached) {
		return cached.Place, nil
	}

	place, err := g.inner.ReverseGeocode(ctx, latitude, longitude)
	if err != nil {
		return nil, err
	}
	g.store(ctx, key, reverseResult{Place: place})
	return place, nil
}

func (g *cachedGeocodingGateway) lookup(ctx context.Context, key string, dest any) bool {
	found, err := g.cache.Get(ctx, key, dest)
	if err != nil {
		log.Warn("Response cache read failed", zap.String("cache", g.name), zap.String("key", key), zap.Error(err))
		return false
	}
	metrics.RecordResponseCache(g.name, found)
	return found
}

func (g *cachedGeocodingGateway) store(ctx context.Context, key string, value any) {
	if err := g.cache.Set(ctx, key, value); err != nil {
		log.Warn("Response cache write failed", zap.String("cache", g.name), zap.String("key", key), zap.Error(err))
	}
}
