package api

import (
	"context"

	"weather-api/internal/domain/model/external"
)

// GeocodingGateway resolves place names and coordinates to candidate locations
type GeocodingGateway interface {
	SearchByName(ctx context.Context, name string) ([]external.GeocodingResult, error)
	// ReverseGeocode returns the nearest place, or nil when the provider knows none.
	ReverseGeocode(ctx context.Context, latitude, longitude string) (*external.GeoName, error)
}
