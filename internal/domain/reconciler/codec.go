package reconciler

import (
	"bytes"
	"encoding/json"
	"fmt"

	"weather-api/internal/domain/entity"
)

// WeatherData is the weather payload of a location in its nested stored form.
type WeatherData struct {
	Current entity.Optional[entity.CurrentSnapshot]
	Days    entity.Optional[entity.Week]
}

// IsEmpty reports whether neither part is present.
func (w WeatherData) IsEmpty() bool {
	return !w.Current.IsPresent() && !w.Days.IsPresent()
}

type wireWeather struct {
	CurrentWeather *entity.CurrentSnapshot `json:"current_weather,omitempty"`
	Daily          []entity.DayRecord      `json:"daily,omitempty"`
}

// EncodeWeather serializes the present parts to the nested wire shape; `{}` when nothing is present.
func EncodeWeather(current entity.Optional[entity.CurrentSnapshot], days entity.Optional[entity.Week]) ([]byte, error) {
	wire := wireWeather{CurrentWeather: current.Ptr()}
	if week, ok := days.Get(); ok {
		wire.Daily = week[:]
	}

	data, err := json.Marshal(wire)
	if err != nil {
		return nil, fmt.Errorf("encoding weather data: %w", err)
	}
	return data, nil
}

// DecodeWeather reads the nested wire shape. A stored daily list that does not
// hold a full week decodes as absent.
func DecodeWeather(blob []byte) (WeatherData, error) {
	blob = bytes.TrimSpace(blob)
	if len(blob) == 0 || bytes.Equal(blob, []byte("null")) {
		return WeatherData{}, nil
	}

	var wire wireWeather
	if err := json.Unmarshal(blob, &wire); err != nil {
		return WeatherData{}, fmt.Errorf("decoding weather data: %w", err)
	}

	data := WeatherData{Current: entity.FromPtr(wire.CurrentWeather)}
	if len(wire.Daily) == entity.DaysPerWeek {
		var week entity.Week
		copy(week[:], wire.Daily)
		data.Days = entity.Some(week)
	}
	return data, nil
}
