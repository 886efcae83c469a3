package metrics

import (
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func scrape(t *testing.T) string {
	t.Helper()
	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, err := io.ReadAll(rec.Body)
	if err != nil {
		t.Fatal(err)
	}
	return string(body)
}

func TestHandlerExposesCollectors(t *testing.T) {
	RecordLookup("id", "found")
	RecordSweepStep("evict", errors.New("boom"), time.Millisecond)
	RecordResponseCache("geocoding", true)
	RecordUpstream("forecast", nil, 20*time.Millisecond)
	RecordHTTPRequest("GET", "/location", 200, time.Millisecond)
	CachedLocations.Set(3)

	body := scrape(t)
	for _, want := range []string{
		`weather_api_location_lookups_total{kind="id",outcome="found"} 1`,
		`weather_api_sweep_steps_total{status="error",step="evict"} 1`,
		`weather_api_response_cache_total{cache="geocoding",result="hit"} 1`,
		`weather_api_upstream_requests_total{status="success",upstream="forecast"} 1`,
		`weather_api_http_requests_total{method="GET",path="/location",status="200"} 1`,
		"weather_api_cached_locations 3",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("metrics output missing %q", want)
		}
	}
}
