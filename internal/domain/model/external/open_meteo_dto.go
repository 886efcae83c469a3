package external

import "weather-api/internal/domain/entity"

// ForecastResponse is the open-meteo forecast payload. Daily and hourly
// variables arrive as parallel arrays indexed by position; null entries decode as zero.
type ForecastResponse struct {
	Latitude       float64         `json:"latitude"`
	Longitude      float64         `json:"longitude"`
	Timezone       string          `json:"timezone"`
	UTCOffset      int             `json:"utc_offset_seconds"`
	CurrentWeather *CurrentWeather `json:"current_weather,omitempty"`
	Daily          *DailyForecast  `json:"daily,omitempty"`
	Hourly         *HourlyForecast `json:"hourly,omitempty"`
}

type CurrentWeather struct {
	Temperature   float64            `json:"temperature"`
	WindSpeed     float64            `json:"windspeed"`
	WindDirection float64            `json:"winddirection"`
	WeatherCode   entity.WeatherCode `json:"weathercode"`
	Time          int64              `json:"time"`
}

type DailyForecast struct {
	Time                   []int64              `json:"time"`
	TemperatureMax         []float64            `json:"temperature_2m_max"`
	TemperatureMin         []float64            `json:"temperature_2m_min"`
	ApparentTemperatureMax []float64            `json:"apparent_temperature_max"`
	ApparentTemperatureMin []float64            `json:"apparent_temperature_min"`
	PrecipitationSum       []float64            `json:"precipitation_sum"`
	RainSum                []float64            `json:"rain_sum"`
	ShowersSum             []float64            `json:"showers_sum"`
	SnowfallSum            []float64            `json:"snowfall_sum"`
	PrecipitationHours     []float64            `json:"precipitation_hours"`
	WeatherCode            []entity.WeatherCode `json:"weathercode"`
	Sunrise                []int64              `json:"sunrise"`
	Sunset                 []int64              `json:"sunset"`
	WindSpeedMax           []float64            `json:"windspeed_10m_max"`
	WindGustsMax           []float64            `json:"windgusts_10m_max"`
	WindDirectionDominant  []float64            `json:"winddirection_10m_dominant"`
}

type HourlyForecast struct {
	Time                     []int64              `json:"time"`
	Temperature              []float64            `json:"temperature_2m"`
	RelativeHumidity         []float64            `json:"relativehumidity_2m"`
	ApparentTemperature      []float64            `json:"apparent_temperature"`
	PressureMSL              []float64            `json:"pressure_msl"`
	SurfacePressure          []float64            `json:"surface_pressure"`
	CloudCover               []float64            `json:"cloudcover"`
	WindSpeed                []float64            `json:"windspeed_10m"`
	WindDirection            []float64            `json:"winddirection_10m"`
	WindGusts                []float64            `json:"windgusts_10m"`
	Precipitation            []float64            `json:"precipitation"`
	PrecipitationProbability []float64            `json:"precipitation_probability"`
	Snowfall                 []float64            `json:"snowfall"`
	Rain                     []float64            `json:"rain"`
	Showers                  []float64            `json:"showers"`
	WeatherCode              []entity.WeatherCode `json:"weathercode"`
	SnowDepth                []float64            `json:"snow_depth"`
	FreezingLevelHeight      []float64            `json:"freezinglevel_height"`
	Visibility               []float64            `json:"visibility"`
	IsDay                    []int                `json:"is_day"`
}

// DailyVariables and HourlyVariables are requested together whenever the daily forecast is refreshed.
var (
	DailyVariables = []string{
		"temperature_2m_max", "temperature_2m_min", "apparent_temperature_max", "apparent_temperature_min",
		"precipitation_sum", "rain_sum", "showers_sum", "snowfall_sum", "precipitation_hours", "weathercode",
		"sunrise", "sunset", "windspeed_10m_max", "windgusts_10m_max", "winddirection_10m_dominant",
	}
	HourlyVariables = []string{
		"temperature_2m", "relativehumidity_2m", "apparent_temperature", "pressure_msl", "surface_pressure",
		"cloudcover", "windspeed_10m", "winddirection_10m", "windgusts_10m", "precipitation",
		"precipitation_probability", "snowfall", "rain", "showers", "weathercode", "snow_depth",
		"freezinglevel_height", "visibility", "is_day",
	}
)

// GeocodingResponse is the open-meteo geocoding search payload.
type GeocodingResponse struct {
	Results []GeocodingResult `json:"results"`
}

type GeocodingResult struct {
	ID          int     `json:"id"`
	Name        string  `json:"name"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	Country     *string `json:"country,omitempty"`
	CountryCode *string `json:"country_code,omitempty"`
	Timezone    *string `json:"timezone,omitempty"`
	Admin1      *string `json:"admin1,omitempty"`
	Population  *int    `json:"population,omitempty"`
}

// OpenMeteoError is the body open-meteo sends with 4xx answers.
type OpenMeteoError struct {
	Error  bool   `json:"error"`
	Reason string `json:"reason"`
}
