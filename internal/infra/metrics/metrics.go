package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "weather_api_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "weather_api_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	LocationLookupsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "weather_api_location_lookups_total",
			Help: "Location lookups by kind and outcome",
		},
		[]string{"kind", "outcome"},
	)

	UpstreamRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "weather_api_upstream_requests_total",
			Help: "Upstream provider requests by provider and status",
		},
		[]string{"upstream", "status"},
	)

	UpstreamRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "weather_api_upstream_request_duration_seconds",
			Help:    "Upstream provider request duration in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"upstream"},
	)

	ResponseCacheTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "weather_api_response_cache_total",
			Help: "Geocoder response cache lookups by cache and result",
		},
		[]string{"cache", "result"},
	)

	SweepStepsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "weather_api_sweep_steps_total",
			Help: "Background sweep steps by step and status",
		},
		[]string{"step", "status"},
	)

	SweepStepDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "weather_api_sweep_step_duration_seconds",
			Help:    "Background sweep step duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"step"},
	)

	CachedLocations = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "weather_api_cached_locations",
			Help: "Number of locations held in memory",
		},
	)

	StoredLocations = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "weather_api_stored_locations_total",
			Help: "Locations written to the durable store",
		},
	)

	EvictedLocations = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "weather_api_evicted_locations_total",
			Help: "Locations whose weather data was evicted",
		},
	)
)

// Handler exposes the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}

func RecordHTTPRequest(method, path string, status int, duration time.Duration) {
	HTTPRequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	HTTPRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

func RecordLookup(kind, outcome string) {
	LocationLookupsTotal.WithLabelValues(kind, outcome).Inc()
}

func RecordUpstream(upstream string, err error, duration time.Duration) {
	UpstreamRequestsTotal.WithLabelValues(upstream, status(err)).Inc()
	UpstreamRequestDuration.WithLabelValues(upstream).Observe(duration.Seconds())
}

func RecordResponseCache(cache string, hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	ResponseCacheTotal.WithLabelValues(cache, result).Inc()
}

func RecordSweepStep(step string, err error, duration time.Duration) {
	SweepStepsTotal.WithLabelValues(step, status(err)).Inc()
	SweepStepDuration.WithLabelValues(step).Observe(duration.Seconds())
}

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}
