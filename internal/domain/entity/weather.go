package entity

import "time"

// DaysPerWeek is the size of a daily forecast window.
const DaysPerWeek = 7

// CurrentSnapshot is the current conditions of one fetch.
type CurrentSnapshot struct {
	Temperature   float64     `json:"temperature"`
	WindSpeed     float64     `json:"windspeed"`
	WindDirection float64     `json:"winddirection"`
	WeatherCode   WeatherCode `json:"weathercode"`
	Time          int64       `json:"time"`
}

// HourRecord is a single hourly forecast entry.
type HourRecord struct {
	Temperature              float64     `json:"temperature_2m"`
	ApparentTemperature      float64     `json:"apparent_temperature"`
	RelativeHumidity         float64     `json:"relativehumidity_2m"`
	Visibility               float64     `json:"visibility"`
	PressureMSL              float64     `json:"pressure_msl"`
	SurfacePressure          float64     `json:"surface_pressure"`
	CloudCover               float64     `json:"cloudcover"`
	WindSpeed                float64     `json:"windspeed_10m"`
	WindGusts                float64     `json:"windgusts_10m"`
	WindDirection            float64     `json:"winddirection_10m"`
	Precipitation            float64     `json:"precipitation"`
	PrecipitationProbability float64     `json:"precipitation_probability"`
	Snowfall                 float64     `json:"snowfall"`
	Rain                     float64     `json:"rain"`
	Showers                  float64     `json:"showers"`
	SnowDepth                float64     `json:"snow_depth"`
	WeatherCode              WeatherCode `json:"weathercode"`
	FreezingLevelHeight      float64     `json:"freezinglevel_height"`
	IsDay                    bool        `json:"is_day"`
	Time                     int64       `json:"time"`
}

// LocalDate returns the calendar date of the hour in loc, formatted as 2006-01-02.
func (h HourRecord) LocalDate(loc *time.Location) string {
	return localDate(h.Time, loc)
}

// DayRecord is a single daily forecast entry with the hours that fall on it.
type DayRecord struct {
	TemperatureMax         float64      `json:"temperature_2m_max"`
	TemperatureMin         float64      `json:"temperature_2m_min"`
	ApparentTemperatureMax float64      `json:"apparent_temperature_max"`
	ApparentTemperatureMin float64      `json:"apparent_temperature_min"`
	PrecipitationSum       float64      `json:"precipitation_sum"`
	RainSum                float64      `json:"rain_sum"`
	ShowersSum             float64      `json:"showers_sum"`
	SnowfallSum            float64      `json:"snowfall_sum"`
	PrecipitationHours     float64      `json:"precipitation_hours"`
	WeatherCode            WeatherCode  `json:"weathercode"`
	Sunrise                int64        `json:"sunrise"`
	Sunset                 int64        `json:"sunset"`
	WindSpeedMax           float64      `json:"windspeed_10m_max"`
	WindGustsMax           float64      `json:"windgusts_10m_max"`
	WindDirectionDominant  float64      `json:"winddirection_10m_dominant"`
	Time                   int64        `json:"time"`
	Hours                  []HourRecord `json:"hourly"`
}

// LocalDate returns the calendar date of the day in loc, formatted as 2006-01-02.
func (d DayRecord) LocalDate(loc *time.Location) string {
	return localDate(d.Time, loc)
}

// WithHours returns a copy of the day carrying hours.
func (d DayRecord) WithHours(hours []HourRecord) DayRecord {
	d.Hours = append([]HourRecord(nil), hours...)
	return d
}

// Week is the seven daily records of a forecast, ordered by ascending date.
type Week [DaysPerWeek]DayRecord

func localDate(unix int64, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	return time.Unix(unix, 0).In(loc).Format(time.DateOnly)
}
