package api

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"weather-api/internal/domain/model/external"
	"weather-api/internal/infra/metrics"
	"weather-api/pkg/http"
)

// GeocodingOptions configures both geocoding providers.
type GeocodingOptions struct {
	SearchBaseURL  string
	ReverseBaseURL string
	Username       string
	ResultCount    int
	ClientOptions  http.ClientOptions
}

// geocodingGatewayImpl searches names on open-meteo and reverse geocodes on geonames
type geocodingGatewayImpl struct {
	searchClient  *http.Client
	reverseClient *http.Client
	username      string
	resultCount   int
}

// NewGeocodingGateway creates a new instance of GeocodingGateway with one HTTP client per provider
func NewGeocodingGateway(opts GeocodingOptions) GeocodingGateway {
	if opts.ResultCount <= 0 {
		opts.ResultCount = 100
	}

	return &geocodingGatewayImpl{
		searchClient:  http.NewHttpClient(opts.SearchBaseURL, opts.ClientOptions),
		reverseClient: http.NewHttpClient(opts.ReverseBaseURL, opts.ClientOptions),
		username:      opts.Username,
		resultCount:   opts.ResultCount,
	}
}

// SearchByName returns the provider candidates for a free-text name in provider order
func (g *geocodingGatewayImpl) SearchByName(ctx context.Context, name string) ([]external.GeocodingResult, error) {
	start := time.Now()
	resp, err := g.searchClient.Request().
		WithContext(ctx).
		WithPath("/v1/search").
		WithQueryParams(map[string]string{
			"name":  name,
			"count": strconv.Itoa(g.resultCount),
		}).
		WithResult(&external.GeocodingResponse{}).
		WithFailure(&external.OpenMeteoError{}).
		Do()
	metrics.RecordUpstream("geocoding", err, time.Since(start))

	if err != nil {
		return nil, upstreamError("geocoding", err, resp.Failure)
	}

	response, ok := resp.Result.(*external.GeocodingResponse)
	if !ok || response == nil {
		return nil, nil
	}
	return response.Results, nil
}

// ReverseGeocode returns the place geonames considers nearest to the coordinates
func (g *geocodingGatewayImpl) ReverseGeocode(ctx context.Context, latitude, longitude string) (*external.GeoName, error) {
	start := time.Now()
	resp, err := g.reverseClient.Request().
		WithContext(ctx).
		WithPath("/findNearbyPlaceNameJSON").
		WithQueryParams(map[string]string{
			"lat":      latitude,
			"lng":      longitude,
			"username": g.username,
		}).
		WithResult(&external.GeoNamesResponse{}).
		Do()

	if err == nil {
		if response, ok := resp.Result.(*external.GeoNamesResponse); ok && response != nil && response.Status != nil {
			err = fmt.Errorf("geonames status %d: %s", response.Status.Value, response.Status.Message)
		}
	}
	metrics.RecordUpstream("reverse_geocoding", err, time.Since(start))

	if err != nil {
		return nil, upstreamError("reverse geocoding", err, nil)
	}

	response, ok := resp.Result.(*external.GeoNamesResponse)
	if !ok || response == nil || len(response.GeoNames) == 0 {
		return nil, nil
	}
	place := response.GeoNames[0]
	return &place, nil
}
