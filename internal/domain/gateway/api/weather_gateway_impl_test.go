package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	pkghttp "weather-api/pkg/http"
)

func jsonServer(t *testing.T, handler func(w http.ResponseWriter, r *http.Request)) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(handler))
	t.Cleanup(server.Close)
	return server
}

func testClientOptions() pkghttp.ClientOptions {
	return pkghttp.ClientOptions{ReadTimeout: 2 * time.Second}
}

func TestGetForecastQuery(t *testing.T) {
	tests := []struct {
		name        string
		query       ForecastQuery
		wantCurrent bool
		wantDaily   bool
	}{
		{"current only", ForecastQuery{Latitude: 48.85341, Longitude: 2.3488, Current: true}, true, false},
		{"daily only", ForecastQuery{Latitude: -23.5475, Longitude: -46.63611, Daily: true}, false, true},
		{"both", ForecastQuery{Latitude: 1, Longitude: 2, Current: true, Daily: true}, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := jsonServer(t, func(w http.ResponseWriter, r *http.Request) {
				q := r.URL.Query()
				if r.URL.Path != "/v1/forecast" {
					t.Errorf("path = %s", r.URL.Path)
				}
				for key, want := range map[string]string{
					"timeformat": "unixtime", "timezone": "auto", "windspeed_unit": "ms", "forecast_days": "7",
				} {
					if q.Get(key) != want {
						t.Errorf("%s = %q, want %q", key, q.Get(key), want)
					}
				}
				if (q.Get("current_weather") == "true") != tt.wantCurrent {
					t.Errorf("current_weather = %q", q.Get("current_weather"))
				}
				if (q.Get("daily") != "") != tt.wantDaily || (q.Get("hourly") != "") != tt.wantDaily {
					t.Errorf("daily = %q hourly = %q", q.Get("daily"), q.Get("hourly"))
				}
				if tt.wantDaily && !strings.Contains(q.Get("hourly"), "is_day") {
					t.Errorf("hourly variables missing is_day: %s", q.Get("hourly"))
				}
				w.Header().Set("Content-Type", "application/json")
				_, _ = w.Write([]byte(`{"timezone":"Europe/Paris","current_weather":{"temperature":9.5,"weathercode":3,"time":1700000000}}`))
			})

			gateway := NewWeatherGateway(server.URL, testClientOptions())
			response, err := gateway.GetForecast(context.Background(), tt.query)
			if err != nil {
				t.Fatalf("GetForecast() error = %v", err)
			}
			if response.Timezone != "Europe/Paris" || response.CurrentWeather == nil || response.CurrentWeather.Temperature != 9.5 {
				t.Errorf("GetForecast() = %+v", response)
			}
		})
	}
}

func TestGetForecastProviderError(t *testing.T) {
	server := jsonServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":true,"reason":"Latitude must be in range of -90 to 90°."}`))
	})

	_, err := NewWeatherGateway(server.URL, testClientOptions()).GetForecast(context.Background(), ForecastQuery{Latitude: 91, Current: true})
	if err == nil || !strings.Contains(err.Error(), "Latitude must be in range") {
		t.Fatalf("GetForecast() error = %v", err)
	}
}

func TestGetForecastNullsDecodeAsZero(t *testing.T) {
	server := jsonServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"timezone":"UTC","hourly":{"time":[1,2],"temperature_2m":[null,3.5],"weathercode":[null,2],"is_day":[0,1]}}`))
	})

	response, err := NewWeatherGateway(server.URL, testClientOptions()).GetForecast(context.Background(), ForecastQuery{Daily: true})
	if err != nil {
		t.Fatal(err)
	}
	hourly := response.Hourly
	if hourly.Temperature[0] != 0 || hourly.Temperature[1] != 3.5 || hourly.WeatherCode[0] != 0 || hourly.IsDay[1] != 1 {
		t.Errorf("hourly = %+v", hourly)
	}
}
