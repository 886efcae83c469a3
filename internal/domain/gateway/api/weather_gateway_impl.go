package api

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"weather-api/internal/domain/model/external"
	"weather-api/internal/infra/metrics"
	"weather-api/pkg/http"
)

// weatherGatewayImpl implements the WeatherGateway interface on the open-meteo forecast API
type weatherGatewayImpl struct {
	httpClient *http.Client
}

// NewWeatherGateway creates a new instance of WeatherGateway with HTTP client
func NewWeatherGateway(baseUrl string, clientOptions http.ClientOptions) WeatherGateway {
	return &weatherGatewayImpl{
		httpClient: http.NewHttpClient(baseUrl, clientOptions),
	}
}

// GetForecast requests the current conditions and/or the 7 day forecast with hourly detail
func (w *weatherGatewayImpl) GetForecast(ctx context.Context, query ForecastQuery) (*external.ForecastResponse, error) {
	params := map[string]string{
		"latitude":       formatCoordinate(query.Latitude),
		"longitude":      formatCoordinate(query.Longitude),
		"timeformat":     "unixtime",
		"timezone":       "auto",
		"windspeed_unit": "ms",
		"forecast_days":  "7",
	}
	if query.Current {
		params["current_weather"] = "true"
	}
	if query.Daily {
		params["daily"] = strings.Join(external.DailyVariables, ",")
		params["hourly"] = strings.Join(external.HourlyVariables, ",")
	}

	start := time.Now()
	resp, err := w.httpClient.Request().
		WithContext(ctx).
		WithPath("/v1/forecast").
		WithQueryParams(params).
		WithResult(&external.ForecastResponse{}).
		WithFailure(&external.OpenMeteoError{}).
		Do()
	metrics.RecordUpstream("forecast", err, time.Since(start))

	if err != nil {
		return nil, upstreamError("forecast", err, resp.Failure)
	}

	response, ok := resp.Result.(*external.ForecastResponse)
	if !ok || response == nil {
		return nil, fmt.Errorf("forecast: empty response")
	}
	return response, nil
}

func formatCoordinate(value float64) string {
	return strconv.FormatFloat(value, 'f', -1, 64)
}

// upstreamError prefers the provider's own reason over the transport error
func upstreamError(upstream string, err error, errResp any) error {
	if apiErr, ok := errResp.(*external.OpenMeteoError); ok && apiErr != nil && apiErr.Reason != "" {
		return fmt.Errorf("%s: %s: %w", upstream, apiErr.Reason, err)
	}

	var httpErr *http.HTTPError
	if errors.As(err, &httpErr) {
		return fmt.Errorf("%s: status %d: %w", upstream, httpErr.StatusCode, err)
	}
	return fmt.Errorf("%s: %w", upstream, err)
}
