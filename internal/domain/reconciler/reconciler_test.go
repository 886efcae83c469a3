package reconciler

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"weather-api/internal/domain/entity"
	"weather-api/internal/domain/model/external"
)

// forecastPayload builds seven days starting at the local midnight of start and
// one entry per hour from that midnight for hourCount hours.
func forecastPayload(tz *time.Location, start time.Time, hourCount int) external.ForecastResponse {
	midnight := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, tz)

	daily := &external.DailyForecast{}
	for i := 0; i < entity.DaysPerWeek; i++ {
		day := midnight.AddDate(0, 0, i)
		value := float64(i)
		daily.Time = append(daily.Time, day.Unix())
		daily.TemperatureMax = append(daily.TemperatureMax, 20+value)
		daily.TemperatureMin = append(daily.TemperatureMin, 10+value)
		daily.ApparentTemperatureMax = append(daily.ApparentTemperatureMax, value)
		daily.ApparentTemperatureMin = append(daily.ApparentTemperatureMin, value)
		daily.PrecipitationSum = append(daily.PrecipitationSum, value)
		daily.RainSum = append(daily.RainSum, value)
		daily.ShowersSum = append(daily.ShowersSum, value)
		daily.SnowfallSum = append(daily.SnowfallSum, value)
		daily.PrecipitationHours = append(daily.PrecipitationHours, value)
		daily.WeatherCode = append(daily.WeatherCode, entity.WeatherCode(i))
		daily.Sunrise = append(daily.Sunrise, day.Add(6*time.Hour).Unix())
		daily.Sunset = append(daily.Sunset, day.Add(18*time.Hour).Unix())
		daily.WindSpeedMax = append(daily.WindSpeedMax, value)
		daily.WindGustsMax = append(daily.WindGustsMax, value)
		daily.WindDirectionDominant = append(daily.WindDirectionDominant, value)
	}

	hourly := &external.HourlyForecast{}
	for i := 0; i < hourCount; i++ {
		value := float64(i)
		hourly.Time = append(hourly.Time, midnight.Add(time.Duration(i)*time.Hour).Unix())
		hourly.Temperature = append(hourly.Temperature, value)
		hourly.RelativeHumidity = append(hourly.RelativeHumidity, value)
		hourly.ApparentTemperature = append(hourly.ApparentTemperature, value)
		hourly.PressureMSL = append(hourly.PressureMSL, value)
		hourly.SurfacePressure = append(hourly.SurfacePressure, value)
		hourly.CloudCover = append(hourly.CloudCover, value)
		hourly.WindSpeed = append(hourly.WindSpeed, value)
		hourly.WindDirection = append(hourly.WindDirection, value)
		hourly.WindGusts = append(hourly.WindGusts, value)
		hourly.Precipitation = append(hourly.Precipitation, value)
		hourly.PrecipitationProbability = append(hourly.PrecipitationProbability, value)
		hourly.Snowfall = append(hourly.Snowfall, value)
		hourly.Rain = append(hourly.Rain, value)
		hourly.Showers = append(hourly.Showers, value)
		hourly.WeatherCode = append(hourly.WeatherCode, entity.WeatherCode(i%4))
		hourly.SnowDepth = append(hourly.SnowDepth, value)
		hourly.FreezingLevelHeight = append(hourly.FreezingLevelHeight, value)
		hourly.Visibility = append(hourly.Visibility, value)
		hourly.IsDay = append(hourly.IsDay, i%2)
	}

	return external.ForecastResponse{
		Timezone: tz.String(),
		CurrentWeather: &external.CurrentWeather{
			Temperature: 12.5,
			WindSpeed:   3.2,
			WeatherCode: entity.WeatherOvercast,
			Time:        midnight.Unix(),
		},
		Daily:  daily,
		Hourly: hourly,
	}
}

func mustLoad(t *testing.T, name string) *time.Location {
	t.Helper()
	location, err := time.LoadLocation(name)
	if err != nil {
		t.Fatal(err)
	}
	return location
}

func TestReconcileBucketsAcrossDaylightSaving(t *testing.T) {
	berlin := mustLoad(t, "Europe/Berlin")
	start := time.Date(2024, 3, 28, 0, 0, 0, 0, berlin)
	// 7 local days in this window hold 167 hours; ask for 5 more that fall past the window.
	payload := forecastPayload(berlin, start, 172)

	update, err := Reconcile(payload, berlin)
	if err != nil {
		t.Fatalf("Reconcile() error = %v", err)
	}

	week, ok := update.Days.Get()
	if !ok {
		t.Fatal("expected days")
	}

	wantHours := []int{24, 24, 24, 23, 24, 24, 24}
	seen := map[int64]bool{}
	for i, day := range week {
		if len(day.Hours) != wantHours[i] {
			t.Errorf("day %d (%s) has %d hours, want %d", i, day.LocalDate(berlin), len(day.Hours), wantHours[i])
		}
		for _, hour := range day.Hours {
			if hour.LocalDate(berlin) != day.LocalDate(berlin) {
				t.Errorf("hour %d attached to day %s", hour.Time, day.LocalDate(berlin))
			}
			if seen[hour.Time] {
				t.Errorf("hour %d attached twice", hour.Time)
			}
			seen[hour.Time] = true
		}
	}
	if len(seen) != 167 {
		t.Errorf("attached %d hours, want 167 with the rest dropped", len(seen))
	}

	if current, ok := update.Current.Get(); !ok || current.Temperature != 12.5 {
		t.Errorf("current = %+v, %v", current, ok)
	}
	if update.Timezone != "Europe/Berlin" {
		t.Errorf("Timezone = %q", update.Timezone)
	}
}

func TestReconcileUsesLocalDateNotIndex(t *testing.T) {
	tokyo := mustLoad(t, "Asia/Tokyo")
	start := time.Date(2024, 5, 1, 0, 0, 0, 0, tokyo)
	payload := forecastPayload(tokyo, start, 168)

	week := mustDays(t, payload, tokyo)
	for i, day := range week {
		if len(day.Hours) != 24 {
			t.Fatalf("day %d has %d hours", i, len(day.Hours))
		}
	}

	// Bucketing the same payload in UTC moves hours around: the first local
	// morning of Tokyo is still the previous calendar day in UTC.
	utcWeek := mustDays(t, payload, time.UTC)
	if len(utcWeek[0].Hours) == 24 {
		t.Error("expected UTC bucketing to differ from local bucketing")
	}
}

func mustDays(t *testing.T, payload external.ForecastResponse, tz *time.Location) entity.Week {
	t.Helper()
	update, err := Reconcile(payload, tz)
	if err != nil {
		t.Fatal(err)
	}
	week, ok := update.Days.Get()
	if !ok {
		t.Fatal("expected days")
	}
	return week
}

func TestReconcileFallsBackToPayloadTimezone(t *testing.T) {
	saoPaulo := mustLoad(t, "America/Sao_Paulo")
	payload := forecastPayload(saoPaulo, time.Date(2024, 6, 1, 0, 0, 0, 0, saoPaulo), 168)

	week := mustDays(t, payload, nil)
	if len(week[0].Hours) != 24 {
		t.Errorf("first day has %d hours, want 24", len(week[0].Hours))
	}
}

func TestReconcileCurrentOnly(t *testing.T) {
	update, err := Reconcile(external.ForecastResponse{
		Timezone:       "UTC",
		CurrentWeather: &external.CurrentWeather{Temperature: 1},
	}, time.UTC)
	if err != nil {
		t.Fatal(err)
	}
	if !update.Current.IsPresent() || update.Days.IsPresent() {
		t.Errorf("unexpected update %+v", update)
	}
}

func TestReconcileMalformed(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*external.ForecastResponse)
	}{
		{"short daily column", func(p *external.ForecastResponse) { p.Daily.Sunset = p.Daily.Sunset[:6] }},
		{"eight days", func(p *external.ForecastResponse) {
			p.Daily.Time = append(p.Daily.Time, 0)
		}},
		{"short hourly column", func(p *external.ForecastResponse) { p.Hourly.IsDay = p.Hourly.IsDay[:10] }},
		{"daily without hourly", func(p *external.ForecastResponse) { p.Hourly = nil }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payload := forecastPayload(time.UTC, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), 168)
			tt.mutate(&payload)

			if _, err := Reconcile(payload, time.UTC); !errors.Is(err, ErrMalformedPayload) {
				t.Errorf("Reconcile() error = %v, want ErrMalformedPayload", err)
			}
		})
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	lisbon := mustLoad(t, "Europe/Lisbon")
	payload := forecastPayload(lisbon, time.Date(2024, 10, 24, 0, 0, 0, 0, lisbon), 168)
	update, err := Reconcile(payload, lisbon)
	if err != nil {
		t.Fatal(err)
	}

	blob, err := EncodeWeather(update.Current, update.Days)
	if err != nil {
		t.Fatal(err)
	}
	decoded, err := DecodeWeather(blob)
	if err != nil {
		t.Fatal(err)
	}

	if !reflect.DeepEqual(decoded.Current, update.Current) {
		t.Errorf("current mismatch:\n got %+v\nwant %+v", decoded.Current, update.Current)
	}
	if !reflect.DeepEqual(decoded.Days, update.Days) {
		t.Error("days differ after round trip")
	}
}

func TestEncodeEmpty(t *testing.T) {
	blob, err := EncodeWeather(entity.None[entity.CurrentSnapshot](), entity.None[entity.Week]())
	if err != nil {
		t.Fatal(err)
	}
	if string(blob) != "{}" {
		t.Errorf("EncodeWeather() = %s, want {}", blob)
	}

	decoded, err := DecodeWeather(blob)
	if err != nil || !decoded.IsEmpty() {
		t.Errorf("DecodeWeather({}) = %+v, %v", decoded, err)
	}
}

func TestDecodeWeather(t *testing.T) {
	tests := []struct {
		name        string
		blob        string
		wantCurrent bool
		wantDays    bool
		wantErr     bool
	}{
		{"empty", "", false, false, false},
		{"null", "null", false, false, false},
		{"current only", `{"current_weather":{"temperature":3,"weathercode":2,"time":1}}`, true, false, false},
		{"partial week", `{"daily":[{"time":1,"hourly":[]}]}`, false, false, false},
		{"legacy code object", `{"daily":[` + repeat(`{"weathercode":{"code":3,"description":"overcast clouds"}}`, 7) + `]}`, false, true, false},
		{"garbage", `{"daily":`, false, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := DecodeWeather([]byte(tt.blob))
			if (err != nil) != tt.wantErr {
				t.Fatalf("DecodeWeather() error = %v, wantErr %v", err, tt.wantErr)
			}
			if data.Current.IsPresent() != tt.wantCurrent || data.Days.IsPresent() != tt.wantDays {
				t.Errorf("DecodeWeather() = %+v", data)
			}
		})
	}
}

func repeat(item string, n int) string {
	out := item
	for i := 1; i < n; i++ {
		out += "," + item
	}
	return out
}
