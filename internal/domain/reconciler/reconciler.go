package reconciler

import (
	"errors"
	"fmt"
	"time"

	"weather-api/internal/domain/entity"
	"weather-api/internal/domain/model/external"
)

// ErrMalformedPayload is returned when the parallel arrays of a forecast do not line up.
var ErrMalformedPayload = errors.New("malformed forecast payload")

// Reconcile turns a forecast payload into an entity update. Hours are attached
// to the day sharing their local calendar date in tz; hours outside the
// forecast window are dropped. A nil tz falls back to the zone reported by the payload.
func Reconcile(payload external.ForecastResponse, tz *time.Location) (entity.Update, error) {
	update := entity.Update{Timezone: payload.Timezone}

	if current := payload.CurrentWeather; current != nil {
		update.Current = entity.Some(entity.CurrentSnapshot{
			Temperature:   current.Temperature,
			WindSpeed:     current.WindSpeed,
			WindDirection: current.WindDirection,
			WeatherCode:   current.WeatherCode,
			Time:          current.Time,
		})
	}

	if payload.Daily == nil && payload.Hourly == nil {
		return update, nil
	}
	if payload.Daily == nil || payload.Hourly == nil {
		return entity.Update{}, fmt.Errorf("%w: daily and hourly must be sent together", ErrMalformedPayload)
	}

	days, err := parseDays(payload.Daily)
	if err != nil {
		return entity.Update{}, err
	}
	hours, err := parseHours(payload.Hourly)
	if err != nil {
		return entity.Update{}, err
	}

	if tz == nil {
		tz = payloadLocation(payload)
	}
	update.Days = entity.Some(attachHours(days, hours, tz))
	return update, nil
}

func parseDays(daily *external.DailyForecast) ([entity.DaysPerWeek]entity.DayRecord, error) {
	var days [entity.DaysPerWeek]entity.DayRecord

	columns := map[string]int{
		"time":                       len(daily.Time),
		"temperature_2m_max":         len(daily.TemperatureMax),
		"temperature_2m_min":         len(daily.TemperatureMin),
		"apparent_temperature_max":   len(daily.ApparentTemperatureMax),
		"apparent_temperature_min":   len(daily.ApparentTemperatureMin),
		"precipitation_sum":          len(daily.PrecipitationSum),
		"rain_sum":                   len(daily.RainSum),
		"showers_sum":                len(daily.ShowersSum),
		"snowfall_sum":               len(daily.SnowfallSum),
		"precipitation_hours":        len(daily.PrecipitationHours),
		"weathercode":                len(daily.WeatherCode),
		"sunrise":                    len(daily.Sunrise),
		"sunset":                     len(daily.Sunset),
		"windspeed_10m_max":          len(daily.WindSpeedMax),
		"windgusts_10m_max":          len(daily.WindGustsMax),
		"winddirection_10m_dominant": len(daily.WindDirectionDominant),
	}
	if err := checkColumns("daily", columns, entity.DaysPerWeek); err != nil {
		return days, err
	}

	for i := range days {
		days[i] = entity.DayRecord{
			TemperatureMax:         daily.TemperatureMax[i],
			TemperatureMin:         daily.TemperatureMin[i],
			ApparentTemperatureMax: daily.ApparentTemperatureMax[i],
			ApparentTemperatureMin: daily.ApparentTemperatureMin[i],
			PrecipitationSum:       daily.PrecipitationSum[i],
			RainSum:                daily.RainSum[i],
			ShowersSum:             daily.ShowersSum[i],
			SnowfallSum:            daily.SnowfallSum[i],
			PrecipitationHours:     daily.PrecipitationHours[i],
			WeatherCode:            daily.WeatherCode[i],
			Sunrise:                daily.Sunrise[i],
			Sunset:                 daily.Sunset[i],
			WindSpeedMax:           daily.WindSpeedMax[i],
			WindGustsMax:           daily.WindGustsMax[i],
			WindDirectionDominant:  daily.WindDirectionDominant[i],
			Time:                   daily.Time[i],
		}
	}
	return days, nil
}

func parseHours(hourly *external.HourlyForecast) ([]entity.HourRecord, error) {
	size := len(hourly.Time)

	columns := map[string]int{
		"temperature_2m":            len(hourly.Temperature),
		"relativehumidity_2m":       len(hourly.RelativeHumidity),
		"apparent_temperature":      len(hourly.ApparentTemperature),
		"pressure_msl":              len(hourly.PressureMSL),
		"surface_pressure":          len(hourly.SurfacePressure),
		"cloudcover":                len(hourly.CloudCover),
		"windspeed_10m":             len(hourly.WindSpeed),
		"winddirection_10m":         len(hourly.WindDirection),
		"windgusts_10m":             len(hourly.WindGusts),
		"precipitation":             len(hourly.Precipitation),
		"precipitation_probability": len(hourly.PrecipitationProbability),
		"snowfall":                  len(hourly.Snowfall),
		"rain":                      len(hourly.Rain),
		"showers":                   len(hourly.Showers),
		"weathercode":               len(hourly.WeatherCode),
		"snow_depth":                len(hourly.SnowDepth),
		"freezinglevel_height":      len(hourly.FreezingLevelHeight),
		"visibility":                len(hourly.Visibility),
		"is_day":                    len(hourly.IsDay),
	}
	if err := checkColumns("hourly", columns, size); err != nil {
		return nil, err
	}

	hours := make([]entity.HourRecord, size)
	for i := range hours {
		hours[i] = entity.HourRecord{
			Temperature:              hourly.Temperature[i],
			ApparentTemperature:      hourly.ApparentTemperature[i],
			RelativeHumidity:         hourly.RelativeHumidity[i],
			Visibility:               hourly.Visibility[i],
			PressureMSL:              hourly.PressureMSL[i],
			SurfacePressure:          hourly.SurfacePressure[i],
			CloudCover:               hourly.CloudCover[i],
			WindSpeed:                hourly.WindSpeed[i],
			WindGusts:                hourly.WindGusts[i],
			WindDirection:            hourly.WindDirection[i],
			Precipitation:            hourly.Precipitation[i],
			PrecipitationProbability: hourly.PrecipitationProbability[i],
			Snowfall:                 hourly.Snowfall[i],
			Rain:                     hourly.Rain[i],
			Showers:                  hourly.Showers[i],
			SnowDepth:                hourly.SnowDepth[i],
			WeatherCode:              hourly.WeatherCode[i],
			FreezingLevelHeight:      hourly.FreezingLevelHeight[i],
			IsDay:                    hourly.IsDay[i] != 0,
			Time:                     hourly.Time[i],
		}
	}
	return hours, nil
}

func checkColumns(group string, columns map[string]int, want int) error {
	for name, got := range columns {
		if got != want {
			return fmt.Errorf("%w: %s.%s has %d entries, expected %d", ErrMalformedPayload, group, name, got, want)
		}
	}
	return nil
}

// attachHours groups hours by local date and hands each day the group matching its own date.
func attachHours(days [entity.DaysPerWeek]entity.DayRecord, hours []entity.HourRecord, tz *time.Location) entity.Week {
	byDate := make(map[string][]entity.HourRecord, len(days))
	for _, hour := range hours {
		date := hour.LocalDate(tz)
		byDate[date] = append(byDate[date], hour)
	}

	var week entity.Week
	for i, day := range days {
		week[i] = day.WithHours(byDate[day.LocalDate(tz)])
	}
	return week
}

func payloadLocation(payload external.ForecastResponse) *time.Location {
	if payload.Timezone != "" {
		if location, err := time.LoadLocation(payload.Timezone); err == nil {
			return location
		}
	}
	if payload.UTCOffset != 0 {
		return time.FixedZone("", payload.UTCOffset)
	}
	return time.UTC
}
