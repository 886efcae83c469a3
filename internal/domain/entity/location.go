package entity

import (
	"sync"
	"time"

	"weather-api/pkg/util/stringutils"
)

// Policy holds the staleness and eviction windows applied to locations.
type Policy struct {
	CurrentTTL time.Duration
	DailyTTL   time.Duration
	EvictAfter time.Duration
}

// DefaultPolicy refreshes current conditions hourly, the daily forecast daily and
// evicts weather untouched for three hours.
func DefaultPolicy() Policy {
	return Policy{
		CurrentTTL: time.Hour,
		DailyTTL:   24 * time.Hour,
		EvictAfter: 3 * time.Hour,
	}
}

// WeatherState is one fetch's worth of forecast data plus the time it was fetched.
type WeatherState struct {
	Current     Optional[CurrentSnapshot]
	Days        Optional[Week]
	LastUpdated time.Time
}

// Update is what a successful refresh replaces. Absent parts keep the previous value.
type Update struct {
	Timezone string
	Current  Optional[CurrentSnapshot]
	Days     Optional[Week]
}

// LocationDetails are the geocoding fields a location is created from.
type LocationDetails struct {
	ID          int
	Name        string
	Country     Optional[string]
	CountryCode Optional[string]
	Latitude    float64
	Longitude   float64
	Timezone    Optional[string]
	Admin1      Optional[string]
	Population  Optional[int]
}

// Location is a cached place. Identity and coordinates never change; the
// timezone may be back-filled once and the weather state is replaced whole.
type Location struct {
	id             int
	name           string
	normalizedName string
	country        Optional[string]
	countryCode    Optional[string]
	latitude       float64
	longitude      float64
	admin1         Optional[string]
	population     Optional[int]

	mu           sync.RWMutex
	timezone     Optional[Timezone]
	weather      WeatherState
	lastAccessed time.Time
}

// NewLocation creates a location without weather data. lastUpdated starts at
// now so a freshly resolved place is persisted by the next sweep.
func NewLocation(details LocationDetails, now time.Time) *Location {
	return RestoreLocation(details, WeatherState{LastUpdated: now}, now)
}

// RestoreLocation creates a location carrying previously persisted weather.
func RestoreLocation(details LocationDetails, state WeatherState, now time.Time) *Location {
	location := &Location{
		id:             details.ID,
		name:           details.Name,
		normalizedName: stringutils.Normalize(details.Name),
		country:        details.Country,
		countryCode:    details.CountryCode,
		latitude:       details.Latitude,
		longitude:      details.Longitude,
		admin1:         details.Admin1,
		population:     details.Population,
		weather:        state,
		lastAccessed:   now,
	}

	if name, ok := details.Timezone.Get(); ok && name != "" {
		if tz, err := NewTimezone(name, now); err == nil {
			location.timezone = Some(tz)
		}
	}
	return location
}

func (l *Location) ID() int { return l.id }
func (l *Location) Name() string { return l.name }
func (l *Location) NormalizedName() string { return l.normalizedName }
func (l *Location) Country() Optional[string] { return l.country }
func (l *Location) CountryCode() Optional[string] { return l.countryCode }
func (l *Location) Latitude() float64 { return l.latitude }
func (l *Location) Longitude() float64 { return l.longitude }
func (l *Location) Admin1() Optional[string] { return l.admin1 }
func (l *Location) Population() Optional[int] { return l.population }

func (l *Location) Timezone() Optional[Timezone] {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.timezone
}

// Weather returns the current weather state.
func (l *Location) Weather() WeatherState {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.weather
}

func (l *Location) LastAccessed() time.Time {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.lastAccessed
}

// HasWeather reports whether both current conditions and days are present.
func (l *Location) HasWeather() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.weather.Current.IsPresent() && l.weather.Days.IsPresent()
}

// NeedsCurrentRefresh is true when the current snapshot is absent or older than the policy allows.
func (l *Location) NeedsCurrentRefresh(now time.Time, policy Policy) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return !l.weather.Current.IsPresent() || now.Sub(l.weather.LastUpdated) > policy.CurrentTTL
}

// NeedsDailyRefresh is true when the days are absent or older than the policy allows.
func (l *Location) NeedsDailyRefresh(now time.Time, policy Policy) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return !l.weather.Days.IsPresent() || now.Sub(l.weather.LastUpdated) > policy.DailyTTL
}

// IsEvictable is true when the location has not been accessed within the eviction window.
func (l *Location) IsEvictable(now time.Time, policy Policy) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return now.Sub(l.lastAccessed) > policy.EvictAfter
}

// IsWritable is true when the location was updated less than window ago,
// measured in whole seconds.
func (l *Location) IsWritable(now time.Time, window time.Duration) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	elapsed := now.Sub(l.weather.LastUpdated) / time.Second
	return elapsed < window/time.Second
}

// Touch records an access. lastAccessed never moves backwards.
func (l *Location) Touch(now time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if now.After(l.lastAccessed) {
		l.lastAccessed = now
	}
}

// ApplyRefresh commits a successful fetch: the timezone is back-filled when
// unknown, present parts replace the previous ones and lastUpdated becomes now.
func (l *Location) ApplyRefresh(update Update, now time.Time) {
	var tz Optional[Timezone]
	if update.Timezone != "" {
		if loaded, err := NewTimezone(update.Timezone, now); err == nil {
			tz = Some(loaded)
		}
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.timezone.IsPresent() && tz.IsPresent() {
		l.timezone = tz
	}

	next := l.weather
	if update.Current.IsPresent() {
		next.Current = update.Current
	}
	if update.Days.IsPresent() {
		next.Days = update.Days
	}
	next.LastUpdated = now
	l.weather = next
}

// Restore fills in weather read back from the durable store, keeping the stored
// lastUpdated. Parts already in memory win.
func (l *Location) Restore(current Optional[CurrentSnapshot], days Optional[Week]) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	next := l.weather
	changed := false
	if !next.Current.IsPresent() && current.IsPresent() {
		next.Current = current
		changed = true
	}
	if !next.Days.IsPresent() && days.IsPresent() {
		next.Days = days
		changed = true
	}
	l.weather = next
	return changed
}

// Evict drops the weather payload, keeping identity, metadata and lastUpdated.
func (l *Location) Evict() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.weather = WeatherState{LastUpdated: l.weather.LastUpdated}
}

// BackfillTimezone sets the timezone when none is known yet. It reports whether it was set.
func (l *Location) BackfillTimezone(name string, now time.Time) bool {
	if name == "" {
		return false
	}
	tz, err := NewTimezone(name, now)
	if err != nil {
		return false
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.timezone.IsPresent() {
		return false
	}
	l.timezone = Some(tz)
	return true
}

// LocationSnapshot is a consistent copy of a location for serialization.
type LocationSnapshot struct {
	LocationDetails
	Timezone     Optional[Timezone]
	Weather      WeatherState
	LastAccessed time.Time
}

// Snapshot copies the location under one read lock.
func (l *Location) Snapshot() LocationSnapshot {
	l.mu.RLock()
	defer l.mu.RUnlock()

	details := LocationDetails{
		ID:          l.id,
		Name:        l.name,
		Country:     l.country,
		CountryCode: l.countryCode,
		Latitude:    l.latitude,
		Longitude:   l.longitude,
		Admin1:      l.admin1,
		Population:  l.population,
	}
	if tz, ok := l.timezone.Get(); ok {
		details.Timezone = Some(tz.Name)
	}

	return LocationSnapshot{
		LocationDetails: details,
		Timezone:        l.timezone,
		Weather:         l.weather,
		LastAccessed:    l.lastAccessed,
	}
}

// TimezoneLocation returns the zone used for calendar bucketing, UTC while unknown.
func (l *Location) TimezoneLocation() *time.Location {
	tz, ok := l.Timezone().Get()
	if !ok {
		return time.UTC
	}
	return tz.Location()
}
