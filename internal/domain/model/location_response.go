package model

import "encoding/json"

// LocationResponse is the read shape of a cached location. WeatherData is only
// filled when a single location is requested by id.
type LocationResponse struct {
	ID             int             `json:"id"`
	Name           string          `json:"name"`
	Latitude       float64         `json:"latitude"`
	Longitude      float64         `json:"longitude"`
	Country        *string         `json:"country,omitempty"`
	CountryCode    *string         `json:"country_code,omitempty"`
	Timezone       *string         `json:"timezone,omitempty"`
	TimezoneShort  *string         `json:"timezone_short,omitempty"`
	TimezoneLong   *string         `json:"timezone_long,omitempty"`
	TimezoneOffset *int            `json:"timezone_offset,omitempty"`
	LastUpdated    int64           `json:"last_updated"`
	Admin1         *string         `json:"admin1,omitempty"`
	Population     *int            `json:"population,omitempty"`
	WeatherData    json.RawMessage `json:"weather_data,omitempty" swaggertype:"object"`
}

// ErrorResponse is the body of every 4xx and 5xx answer.
type ErrorResponse struct {
	Error string `json:"error"`
}
