package entity

import (
	"fmt"
	"time"
	_ "time/tzdata"
)

// Timezone is the derived metadata of an IANA zone at the moment it became known.
type Timezone struct {
	Name     string
	Offset   int // seconds east of UTC
	Daylight bool
	Short    string
	Long     string

	location *time.Location
}

// NewTimezone loads name and derives offset, daylight flag and labels as of now.
func NewTimezone(name string, now time.Time) (Timezone, error) {
	location, err := time.LoadLocation(name)
	if err != nil {
		return Timezone{}, fmt.Errorf("unknown timezone %q: %w", name, err)
	}

	local := now.In(location)
	short, offset := local.Zone()

	return Timezone{
		Name:     name,
		Offset:   offset,
		Daylight: local.IsDST(),
		Short:    short,
		Long:     fmt.Sprintf("%s (%s)", name, formatOffset(offset)),
		location: location,
	}, nil
}

// Location returns the loaded zone, UTC for the zero value.
func (tz Timezone) Location() *time.Location {
	if tz.location == nil {
		return time.UTC
	}
	return tz.location
}

func formatOffset(seconds int) string {
	sign := '+'
	if seconds < 0 {
		sign = '-'
		seconds = -seconds
	}
	return fmt.Sprintf("UTC%c%02d:%02d", sign, seconds/3600, (seconds%3600)/60)
}
