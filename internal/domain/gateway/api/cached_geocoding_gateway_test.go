package api

import (
	"context"
	"errors"
	"testing"
	"time"

	"weather-api/internal/domain/model/external"
	"weather-api/internal/infra/cache"
)

type countingGeocoder struct {
	searches int
	reverses int
	fail     bool
}

func (g *countingGeocoder) SearchByName(_ context.Context, name string) ([]external.GeocodingResult, error) {
	g.searches++
	if g.fail {
		return nil, errors.New("provider down")
	}
	return []external.GeocodingResult{{ID: 1, Name: name}}, nil
}

func (g *countingGeocoder) ReverseGeocode(_ context.Context, _, _ string) (*external.GeoName, error) {
	g.reverses++
	if g.fail {
		return nil, errors.New("provider down")
	}
	return nil, nil
}

type brokenCache struct{}

func (brokenCache) Get(context.Context, string, any) (bool, error) { return false, errors.New("down") }
func (brokenCache) Set(context.Context, string, any) error { return errors.New("down") }

func TestCachedGeocodingGatewaySearch(t *testing.T) {
	ctx := context.Background()
	inner := &countingGeocoder{}
	gateway := NewCachedGeocodingGateway(inner, cache.NewMemoryCache("geocoding", time.Minute, time.Minute), "geocoding")

	for _, name := range []string{"Paris", "paris ", "PARIS"} {
		results, err := gateway.SearchByName(ctx, name)
		if err != nil || len(results) != 1 {
			t.Fatalf("SearchByName(%q) = %+v, %v", name, results, err)
		}
	}
	if inner.searches != 1 {
		t.Errorf("provider called %d times, want 1", inner.searches)
	}
}

func TestCachedGeocodingGatewayCachesEmptyReverse(t *testing.T) {
	ctx := context.Background()
	inner := &countingGeocoder{}
	gateway := NewCachedGeocodingGateway(inner, cache.NewMemoryCache("reverse", time.Minute, time.Minute), "reverse")

	for i := 0; i < 2; i++ {
		place, err := gateway.ReverseGeocode(ctx, "0.00", "0.00")
		if err != nil || place != nil {
			t.Fatalf("ReverseGeocode() = %+v, %v", place, err)
		}
	}
	if inner.reverses != 1 {
		t.Errorf("provider called %d times, want 1", inner.reverses)
	}
}

func TestCachedGeocodingGatewayDoesNotCacheErrors(t *testing.T) {
	ctx := context.Background()
	inner := &countingGeocoder{fail: true}
	gateway := NewCachedGeocodingGateway(inner, cache.NewMemoryCache("geocoding", time.Minute, time.Minute), "geocoding")

	_, _ = gateway.SearchByName(ctx, "rome")
	inner.fail = false
	results, err := gateway.SearchByName(ctx, "rome")
	if err != nil || len(results) != 1 || inner.searches != 2 {
		t.Errorf("SearchByName() = %+v, %v after %d calls", results, err, inner.searches)
	}
}

func TestCachedGeocodingGatewayFallsThroughBrokenCache(t *testing.T) {
	inner := &countingGeocoder{}
	gateway := NewCachedGeocodingGateway(inner, brokenCache{}, "geocoding")

	results, err := gateway.SearchByName(context.Background(), "lima")
	if err != nil || len(results) != 1 {
		t.Errorf("SearchByName() = %+v, %v", results, err)
	}
}
