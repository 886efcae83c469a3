package location

import (
	"context"
	"errors"
	"sync"
	"time"

	"weather-api/internal/domain/entity"
	"weather-api/internal/domain/gateway/api"
	"weather-api/internal/domain/gateway/db"
	"weather-api/internal/domain/model/external"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 5, 10, 9, 30, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type fakeWeatherGateway struct {
	mu      sync.Mutex
	clock   *fakeClock
	queries []api.ForecastQuery
	err     error
	release chan struct{}
}

func (g *fakeWeatherGateway) GetForecast(ctx context.Context, query api.ForecastQuery) (*external.ForecastResponse, error) {
	if g.release != nil {
		<-g.release
	}

	g.mu.Lock()
	g.queries = append(g.queries, query)
	err := g.err
	g.mu.Unlock()
	if err != nil {
		return nil, err
	}

	payload := forecast(g.clock.Now(), query)
	return &payload, nil
}

func (g *fakeWeatherGateway) Queries() []api.ForecastQuery {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]api.ForecastQuery(nil), g.queries...)
}

type fakeGeocodingGateway struct {
	mu           sync.Mutex
	results      map[string][]external.GeocodingResult
	places       map[string]*external.GeoName
	searches     []string
	reverseCalls []string
	err          error
}

func (g *fakeGeocodingGateway) SearchByName(_ context.Context, name string) ([]external.GeocodingResult, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.searches = append(g.searches, name)
	if g.err != nil {
		return nil, g.err
	}
	return g.results[name], nil
}

func (g *fakeGeocodingGateway) ReverseGeocode(_ context.Context, latitude, longitude string) (*external.GeoName, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	key := latitude + "," + longitude
	g.reverseCalls = append(g.reverseCalls, key)
	if g.err != nil {
		return nil, g.err
	}
	return g.places[key], nil
}

func (g *fakeGeocodingGateway) Searches() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]string(nil), g.searches...)
}

func (g *fakeGeocodingGateway) ReverseCalls() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]string(nil), g.reverseCalls...)
}

type fakeLocationGateway struct {
	mu      sync.Mutex
	rows    []db.LocationRow
	blobs   map[int][]byte
	batches [][]db.LocationRow
	err     error
}

func (g *fakeLocationGateway) FindAll(context.Context) ([]db.LocationRow, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.rows, g.err
}

func (g *fakeLocationGateway) UpsertBatch(_ context.Context, rows []db.LocationRow) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.err != nil {
		return g.err
	}
	g.batches = append(g.batches, rows)
	return nil
}

func (g *fakeLocationGateway) FindWeatherData(_ context.Context, id int) ([]byte, bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.err != nil {
		return nil, false, g.err
	}
	blob, ok := g.blobs[id]
	return blob, ok, nil
}

type fakeSearchTermGateway struct {
	mu    sync.Mutex
	terms []string
	saves [][]string
	err   error
}

func (g *fakeSearchTermGateway) Load(context.Context) ([]string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]string(nil), g.terms...), nil
}

func (g *fakeSearchTermGateway) Save(_ context.Context, terms []string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.err != nil {
		return g.err
	}
	g.saves = append(g.saves, terms)
	return nil
}

type fakeResolver struct {
	zone string
}

func (r fakeResolver) Resolve(float64, float64) (string, error) {
	if r.zone == "" {
		return "", errors.New("no zone")
	}
	return r.zone, nil
}

// forecast answers query the way the forecast API does: current conditions
// and the daily plus hourly columns only when asked for.
func forecast(now time.Time, query api.ForecastQuery) external.ForecastResponse {
	payload := external.ForecastResponse{
		Latitude:  query.Latitude,
		Longitude: query.Longitude,
		Timezone:  "Europe/London",
	}

	if query.Current {
		payload.CurrentWeather = &external.CurrentWeather{
			Temperature: 14.2,
			WindSpeed:   4.1,
			WeatherCode: entity.WeatherPartlyCloudy,
			Time:        now.Unix(),
		}
	}
	if !query.Daily {
		return payload
	}

	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	days := make([]int64, entity.DaysPerWeek)
	for i := range days {
		days[i] = midnight.AddDate(0, 0, i).Unix()
	}
	hours := make([]int64, entity.DaysPerWeek*24)
	for i := range hours {
		hours[i] = midnight.Add(time.Duration(i) * time.Hour).Unix()
	}

	daily := func() []float64 { return make([]float64, len(days)) }
	hourly := func() []float64 { return make([]float64, len(hours)) }

	payload.Daily = &external.DailyForecast{
		Time:                   days,
		TemperatureMax:         daily(),
		TemperatureMin:         daily(),
		ApparentTemperatureMax: daily(),
		ApparentTemperatureMin: daily(),
		PrecipitationSum:       daily(),
		RainSum:                daily(),
		ShowersSum:             daily(),
		SnowfallSum:            daily(),
		PrecipitationHours:     daily(),
		WeatherCode:            make([]entity.WeatherCode, len(days)),
		Sunrise:                make([]int64, len(days)),
		Sunset:                 make([]int64, len(days)),
		WindSpeedMax:           daily(),
		WindGustsMax:           daily(),
		WindDirectionDominant:  daily(),
	}
	payload.Hourly = &external.HourlyForecast{
		Time:                     hours,
		Temperature:              hourly(),
		RelativeHumidity:         hourly(),
		ApparentTemperature:      hourly(),
		PressureMSL:              hourly(),
		SurfacePressure:          hourly(),
		CloudCover:               hourly(),
		WindSpeed:                hourly(),
		WindDirection:            hourly(),
		WindGusts:                hourly(),
		Precipitation:            hourly(),
		PrecipitationProbability: hourly(),
		Snowfall:                 hourly(),
		Rain:                     hourly(),
		Showers:                  hourly(),
		WeatherCode:              make([]entity.WeatherCode, len(hours)),
		SnowDepth:                hourly(),
		FreezingLevelHeight:      hourly(),
		Visibility:               hourly(),
		IsDay:                    make([]int, len(hours)),
	}
	return payload
}

// apiQuery builds the forecast query of location, or of the origin when location is nil.
func apiQuery(location *entity.Location, current, daily bool) api.ForecastQuery {
	query := api.ForecastQuery{Current: current, Daily: daily}
	if location != nil {
		query.Latitude = location.Latitude()
		query.Longitude = location.Longitude()
	}
	return query
}

func stringPtr(value string) *string { return &value }
func intPtr(value int) *int { return &value }

func london() external.GeocodingResult {
	return external.GeocodingResult{
		ID:          2643743,
		Name:        "London",
		Latitude:    51.50853,
		Longitude:   -0.12574,
		Country:     stringPtr("United Kingdom"),
		CountryCode: stringPtr("GB"),
		Timezone:    stringPtr("Europe/London"),
		Admin1:      stringPtr("England"),
		Population:  intPtr(7556900),
	}
}
