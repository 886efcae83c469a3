package api

import (
	"context"

	"weather-api/internal/domain/model/external"
)

// ForecastQuery selects which parts of the forecast to fetch for a coordinate pair.
type ForecastQuery struct {
	Latitude  float64
	Longitude float64
	Current   bool
	Daily     bool
}

// WeatherGateway fetches forecasts from the weather provider
type WeatherGateway interface {
	GetForecast(ctx context.Context, query ForecastQuery) (*external.ForecastResponse, error)
}
