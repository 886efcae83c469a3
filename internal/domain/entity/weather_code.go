package entity

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// WeatherCode is a WMO weather interpretation code as reported by open-meteo.
type WeatherCode int

const (
	WeatherClearSky               WeatherCode = 0
	WeatherMainlyClear            WeatherCode = 1
	WeatherPartlyCloudy           WeatherCode = 2
	WeatherOvercast               WeatherCode = 3
	WeatherFog                    WeatherCode = 45
	WeatherDepositingRimeFog      WeatherCode = 48
	WeatherLightDrizzle           WeatherCode = 51
	WeatherModerateDrizzle        WeatherCode = 53
	WeatherDenseDrizzle           WeatherCode = 55
	WeatherLightFreezingDrizzle   WeatherCode = 56
	WeatherDenseFreezingDrizzle   WeatherCode = 57
	WeatherSlightRain             WeatherCode = 61
	WeatherModerateRain           WeatherCode = 63
	WeatherHeavyRain              WeatherCode = 65
	WeatherLightFreezingRain      WeatherCode = 66
	WeatherHeavyFreezingRain      WeatherCode = 67
	WeatherSlightSnowFall         WeatherCode = 71
	WeatherModerateSnowFall       WeatherCode = 73
	WeatherHeavySnowFall          WeatherCode = 75
	WeatherSnowGrains             WeatherCode = 77
	WeatherSlightRainShower       WeatherCode = 80
	WeatherModerateRainShower     WeatherCode = 81
	WeatherViolentRainShower      WeatherCode = 82
	WeatherSlightSnowShower       WeatherCode = 85
	WeatherHeavySnowShower        WeatherCode = 86
	WeatherThunderstorm           WeatherCode = 95
	WeatherSlightThunderstormHail WeatherCode = 96
	WeatherHeavyThunderstormHail  WeatherCode = 99
	WeatherUnknown                WeatherCode = 666
)

var weatherDescriptions = map[WeatherCode]string{
	WeatherClearSky:               "clear sky",
	WeatherMainlyClear:            "mainly clear",
	WeatherPartlyCloudy:           "partly cloudy",
	WeatherOvercast:               "overcast clouds",
	WeatherFog:                    "fog",
	WeatherDepositingRimeFog:      "depositing rime fog",
	WeatherLightDrizzle:           "light drizzle",
	WeatherModerateDrizzle:        "moderate drizzle",
	WeatherDenseDrizzle:           "dense drizzle",
	WeatherLightFreezingDrizzle:   "freezing drizzle",
	WeatherDenseFreezingDrizzle:   "freezing drizzle",
	WeatherSlightRain:             "slight rain",
	WeatherModerateRain:           "moderate rain",
	WeatherHeavyRain:              "heavy rain",
	WeatherLightFreezingRain:      "freezing rain",
	WeatherHeavyFreezingRain:      "freezing rain",
	WeatherSlightSnowFall:         "slight snow fall",
	WeatherModerateSnowFall:       "moderate snow fall",
	WeatherHeavySnowFall:          "heavy snow fall",
	WeatherSnowGrains:             "snow grains",
	WeatherSlightRainShower:       "slight rain shower",
	WeatherModerateRainShower:     "moderate rain shower",
	WeatherViolentRainShower:      "violent rain shower",
	WeatherSlightSnowShower:       "slight snow shower",
	WeatherHeavySnowShower:        "heavy snow shower",
	WeatherThunderstorm:           "thunderstorm",
	WeatherSlightThunderstormHail: "slight thunderstorm hail",
	WeatherHeavyThunderstormHail:  "heavy thunderstorm hail",
	WeatherUnknown:                "unknown",
}

// Known reports whether the code is part of the WMO table.
func (c WeatherCode) Known() bool {
	_, ok := weatherDescriptions[c]
	return ok && c != WeatherUnknown
}

// Category returns the table entry for the code, WeatherUnknown for codes outside it.
func (c WeatherCode) Category() WeatherCode {
	if c.Known() {
		return c
	}
	return WeatherUnknown
}

func (c WeatherCode) Description() string {
	return weatherDescriptions[c.Category()]
}

func (c WeatherCode) String() string {
	return fmt.Sprintf("%d (%s)", int(c), c.Description())
}

// UnmarshalJSON accepts a bare number or an object holding a "code" field.
func (c *WeatherCode) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		return nil
	}

	if len(data) > 0 && data[0] == '{' {
		var object struct {
			Code *float64 `json:"code"`
		}
		if err := json.Unmarshal(data, &object); err != nil {
			return err
		}
		if object.Code == nil {
			return fmt.Errorf("weathercode object without code")
		}
		*c = WeatherCode(int(*object.Code))
		return nil
	}

	var number float64
	if err := json.Unmarshal(data, &number); err != nil {
		return fmt.Errorf("invalid weathercode %s: %w", string(data), err)
	}
	*c = WeatherCode(int(number))
	return nil
}
