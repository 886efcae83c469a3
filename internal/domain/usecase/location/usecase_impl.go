package location

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"weather-api/internal/domain/entity"
	"weather-api/internal/domain/gateway/api"
	"weather-api/internal/domain/gateway/db"
	"weather-api/internal/domain/model/external"
	"weather-api/internal/domain/reconciler"
	"weather-api/internal/infra/metrics"
	"weather-api/internal/infra/timezone"
	"weather-api/pkg/log"
	"weather-api/pkg/msg"
	"weather-api/pkg/util/numberutils"
	"weather-api/pkg/util/stringutils"
)

const coordinatePrecision = 2

// Options wires the location use case. TimezoneResolver and Now are optional.
type Options struct {
	WeatherGateway   api.WeatherGateway
	GeocodingGateway api.GeocodingGateway
	LocationGateway  db.LocationGateway
	SearchLog        *SearchLog
	TimezoneResolver timezone.Resolver

	Policy       entity.Policy
	WriteWindow  time.Duration
	FetchTimeout time.Duration
	Now          func() time.Time
}

type locationUseCase struct {
	weatherGateway   api.WeatherGateway
	geocodingGateway api.GeocodingGateway
	locationGateway  db.LocationGateway
	searchLog        *SearchLog
	timezoneResolver timezone.Resolver

	policy       entity.Policy
	writeWindow  time.Duration
	fetchTimeout time.Duration
	now          func() time.Time

	mu        sync.RWMutex
	locations map[int]*entity.Location
	group     singleflight.Group
}

func NewLocationUseCase(opts Options) UseCase {
	if opts.Policy == (entity.Policy{}) {
		opts.Policy = entity.DefaultPolicy()
	}
	if opts.WriteWindow <= 0 {
		opts.WriteWindow = time.Minute
	}
	if opts.FetchTimeout <= 0 {
		opts.FetchTimeout = 10 * time.Second
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.SearchLog == nil {
		opts.SearchLog = NewSearchLog(nil)
	}

	return &locationUseCase{
		weatherGateway:   opts.WeatherGateway,
		geocodingGateway: opts.GeocodingGateway,
		locationGateway:  opts.LocationGateway,
		searchLog:        opts.SearchLog,
		timezoneResolver: opts.TimezoneResolver,
		policy:           opts.Policy,
		writeWindow:      opts.WriteWindow,
		fetchTimeout:     opts.FetchTimeout,
		now:              opts.Now,
		locations:        make(map[int]*entity.Location),
	}
}

// GetByID returns a cached location, refreshing its weather when stale
func (uc *locationUseCase) GetByID(ctx context.Context, id int) (*entity.Location, error) {
	location, ok := uc.get(id)
	if !ok {
		metrics.RecordLookup("id", "not_found")
		return nil, fmt.Errorf("%w: id %d", ErrLocationNotFound, id)
	}

	location.Touch(uc.now())

	if !location.HasWeather() {
		uc.repopulate(ctx, location)
	}

	now := uc.now()
	if location.NeedsCurrentRefresh(now, uc.policy) || location.NeedsDailyRefresh(now, uc.policy) {
		uc.refresh(ctx, location)
	}

	metrics.RecordLookup("id", "found")
	return location, nil
}

// repopulate restores weather kept in the durable store for a cold or evicted location
func (uc *locationUseCase) repopulate(ctx context.Context, location *entity.Location) {
	if uc.locationGateway == nil {
		return
	}

	blob, found, err := uc.locationGateway.FindWeatherData(ctx, location.ID())
	if err != nil {
		log.Warn(msg.GetMessage("location.store.query-failed", location.ID()),
			zap.Int("location_id", location.ID()), zap.Error(err))
		return
	}
	if !found {
		return
	}

	data, err := reconciler.DecodeWeather(blob)
	if err != nil {
		log.Warn(msg.GetMessage("location.store.decode-failed", location.ID()),
			zap.Int("location_id", location.ID()), zap.Error(err))
		return
	}
	if location.Restore(data.Current, data.Days) {
		log.Debug("Weather restored from store", zap.Int("location_id", location.ID()))
	}
}

// refresh runs at most one upstream fetch per location at a time. Failures keep the stale data.
func (uc *locationUseCase) refresh(ctx context.Context, location *entity.Location) {
	key := "id:" + strconv.Itoa(location.ID())

	_, _, _ = uc.group.Do(key, func() (any, error) {
		now := uc.now()
		query := api.ForecastQuery{
			Latitude:  location.Latitude(),
			Longitude: location.Longitude(),
			Current:   location.NeedsCurrentRefresh(now, uc.policy),
			Daily:     location.NeedsDailyRefresh(now, uc.policy),
		}
		if !query.Current && !query.Daily {
			return nil, nil
		}

		fetchCtx, cancel := uc.fetchContext(ctx)
		defer cancel()

		payload, err := uc.weatherGateway.GetForecast(fetchCtx, query)
		if err != nil {
			log.Warn(msg.GetMessage("location.refresh.fetch-failed", location.ID()),
				zap.Int("location_id", location.ID()), zap.Error(err))
			return nil, err
		}

		var zone *time.Location
		if tz, ok := location.Timezone().Get(); ok {
			zone = tz.Location()
		}

		update, err := reconciler.Reconcile(*payload, zone)
		if err != nil {
			log.Warn(msg.GetMessage("location.refresh.malformed", location.ID()),
				zap.Int("location_id", location.ID()), zap.Error(err))
			return nil, err
		}
		if query.Current && !update.Current.IsPresent() || query.Daily && !update.Days.IsPresent() {
			log.Warn("Forecast is missing requested parts", zap.Int("location_id", location.ID()),
				zap.Bool("current", query.Current), zap.Bool("daily", query.Daily))
		}

		location.ApplyRefresh(update, uc.now())
		log.Debug("Weather refreshed", zap.Int("location_id", location.ID()),
			zap.Bool("current", query.Current), zap.Bool("daily", query.Daily))
		return nil, nil
	})
}

// GetByName returns cached locations whose normalized name contains the normalized term
func (uc *locationUseCase) GetByName(ctx context.Context, name string) ([]*entity.Location, error) {
	if stringutils.IsBlank(name) {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	term := stringutils.Normalize(name)

	matches := uc.matchName(term)
	if len(matches) == 0 || !uc.searchLog.Contains(term) {
		found := uc.searchGeocoder(ctx, term)
		matches = mergeByID(matches, found)
	}

	if len(matches) == 0 {
		metrics.RecordLookup("name", "not_found")
		return nil, fmt.Errorf("%w: name %q", ErrLocationNotFound, name)
	}
	metrics.RecordLookup("name", "found")
	return matches, nil
}

// searchGeocoder asks the geocoder once per term and records the term whatever the outcome.
// Only ids the cache did not hold yet are returned; cached ones are reached through name matching.
func (uc *locationUseCase) searchGeocoder(ctx context.Context, term string) []*entity.Location {
	value, _, _ := uc.group.Do("name:"+term, func() (any, error) {
		defer uc.searchLog.Add(term)

		fetchCtx, cancel := uc.fetchContext(ctx)
		defer cancel()

		results, err := uc.geocodingGateway.SearchByName(fetchCtx, term)
		if err != nil {
			log.Warn(msg.GetMessage("location.search.failed", term), zap.String("term", term), zap.Error(err))
			return []*entity.Location(nil), nil
		}

		now := uc.now()
		locations := make([]*entity.Location, 0, len(results))
		for _, result := range results {
			location, inserted := uc.insertIfAbsent(entity.NewLocation(uc.fromGeocodingResult(result), now))
			if !inserted {
				continue
			}
			log.Info(msg.GetMessage("location.search.new", location.Name()),
				zap.Int("location_id", location.ID()), zap.String("term", term))
			locations = append(locations, location)
		}
		return locations, nil
	})

	locations, _ := value.([]*entity.Location)
	return locations
}

// GetByCoords returns the cached location at the truncated coordinates or reverse geocodes it
func (uc *locationUseCase) GetByCoords(ctx context.Context, latitude, longitude float64) (*entity.Location, error) {
	if !validCoordinate(latitude, 90) || !validCoordinate(longitude, 180) {
		return nil, fmt.Errorf("%w: coordinates %v,%v out of range", ErrInvalidInput, latitude, longitude)
	}

	latKey := numberutils.TruncateDecimals(latitude, coordinatePrecision)
	longKey := numberutils.TruncateDecimals(longitude, coordinatePrecision)

	if location := uc.matchCoordinates(latKey, longKey); location != nil {
		location.Touch(uc.now())
		metrics.RecordLookup("coordinates", "found")
		return location, nil
	}

	value, err, _ := uc.group.Do("coords:"+latKey+","+longKey, func() (any, error) {
		fetchCtx, cancel := uc.fetchContext(ctx)
		defer cancel()

		place, err := uc.geocodingGateway.ReverseGeocode(fetchCtx, latKey, longKey)
		if err != nil {
			log.Warn(msg.GetMessage("location.reverse.failed", latKey, longKey),
				zap.String("latitude", latKey), zap.String("longitude", longKey), zap.Error(err))
			return nil, err
		}
		if place == nil {
			return nil, nil
		}

		details, err := uc.fromGeoName(*place)
		if err != nil {
			log.Warn(msg.GetMessage("location.reverse.failed", latKey, longKey), zap.Error(err))
			return nil, err
		}

		location, inserted := uc.insertIfAbsent(entity.NewLocation(details, uc.now()))
		if inserted {
			log.Info(msg.GetMessage("location.reverse.new", location.Name()), zap.Int("location_id", location.ID()))
		}
		return location, nil
	})

	location, _ := value.(*entity.Location)
	if err != nil || location == nil {
		metrics.RecordLookup("coordinates", "not_found")
		return nil, fmt.Errorf("%w: coordinates %s,%s", ErrLocationNotFound, latKey, longKey)
	}

	location.Touch(uc.now())
	metrics.RecordLookup("coordinates", "found")
	return location, nil
}

// Load fills the cache from the durable store and the search log from its file
func (uc *locationUseCase) Load(ctx context.Context) error {
	start := time.Now()

	if count, err := uc.searchLog.Load(ctx); err != nil {
		log.Warn(msg.GetMessage("location.search-log.load-failed"), zap.Error(err))
	} else {
		log.Info(msg.GetMessage("location.search-log.loaded", count))
	}

	if uc.locationGateway == nil {
		return nil
	}

	rows, err := uc.locationGateway.FindAll(ctx)
	if err != nil {
		return fmt.Errorf("load locations: %w", err)
	}

	now := uc.now()
	for _, row := range rows {
		data, err := reconciler.DecodeWeather(row.WeatherData)
		if err != nil {
			log.Warn(msg.GetMessage("location.store.decode-failed", row.ID), zap.Int("location_id", row.ID), zap.Error(err))
		}

		state := entity.WeatherState{
			Current:     data.Current,
			Days:        data.Days,
			LastUpdated: time.UnixMilli(row.LastUpdated),
		}
		uc.insertIfAbsent(entity.RestoreLocation(fromRow(row), state, now))
	}

	log.Info(msg.GetMessage("location.store.loaded", len(rows), time.Since(start).Milliseconds()),
		zap.Int("locations", len(rows)))
	return nil
}

// Store persists locations updated within the write window in one batch
func (uc *locationUseCase) Store(ctx context.Context) (int, error) {
	if uc.locationGateway == nil {
		return 0, nil
	}

	now := uc.now()
	rows := make([]db.LocationRow, 0)
	for _, location := range uc.all() {
		if !location.IsWritable(now, uc.writeWindow) {
			continue
		}

		snapshot := location.Snapshot()
		blob, err := reconciler.EncodeWeather(snapshot.Weather.Current, snapshot.Weather.Days)
		if err != nil {
			log.Warn(msg.GetMessage("location.store.encode-failed", location.ID()), zap.Int("location_id", location.ID()), zap.Error(err))
			continue
		}
		rows = append(rows, toRow(snapshot, blob))
	}

	if len(rows) == 0 {
		return 0, nil
	}
	if err := uc.locationGateway.UpsertBatch(ctx, rows); err != nil {
		return 0, fmt.Errorf("store %d locations: %w", len(rows), err)
	}

	metrics.StoredLocations.Add(float64(len(rows)))
	return len(rows), nil
}

// PersistSearchLog writes the search log when it changed
func (uc *locationUseCase) PersistSearchLog(ctx context.Context) error {
	written, err := uc.searchLog.Persist(ctx)
	if err != nil {
		return err
	}
	if written {
		log.Debug("Search log persisted", zap.Int("terms", uc.searchLog.Len()))
	}
	return nil
}

// Evict drops the weather of idle locations. The locations themselves stay cached.
func (uc *locationUseCase) Evict(_ context.Context) int {
	now := uc.now()
	evicted := 0
	for _, location := range uc.all() {
		if !location.IsEvictable(now, uc.policy) {
			continue
		}
		state := location.Weather()
		if !state.Current.IsPresent() && !state.Days.IsPresent() {
			continue
		}
		location.Evict()
		evicted++
	}

	metrics.EvictedLocations.Add(float64(evicted))
	return evicted
}

func (uc *locationUseCase) Stats() Stats {
	uc.mu.RLock()
	defer uc.mu.RUnlock()
	return Stats{Locations: len(uc.locations), SearchTerms: uc.searchLog.Len()}
}

func (uc *locationUseCase) get(id int) (*entity.Location, bool) {
	uc.mu.RLock()
	defer uc.mu.RUnlock()
	location, ok := uc.locations[id]
	return location, ok
}

// insertIfAbsent stores location unless its id is already cached, returning the cached one.
func (uc *locationUseCase) insertIfAbsent(location *entity.Location) (*entity.Location, bool) {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	if existing, ok := uc.locations[location.ID()]; ok {
		return existing, false
	}
	uc.locations[location.ID()] = location
	metrics.CachedLocations.Set(float64(len(uc.locations)))
	return location, true
}

func (uc *locationUseCase) all() []*entity.Location {
	uc.mu.RLock()
	defer uc.mu.RUnlock()
	locations := make([]*entity.Location, 0, len(uc.locations))
	for _, location := range uc.locations {
		locations = append(locations, location)
	}
	return locations
}

func (uc *locationUseCase) matchName(term string) []*entity.Location {
	matches := make([]*entity.Location, 0)
	for _, location := range uc.all() {
		if strings.Contains(location.NormalizedName(), term) {
			matches = append(matches, location)
		}
	}
	sort.Slice(matches, func(i, j int) bool { return matches[i].ID() < matches[j].ID() })
	return matches
}

func (uc *locationUseCase) matchCoordinates(latKey, longKey string) *entity.Location {
	var match *entity.Location
	for _, location := range uc.all() {
		if numberutils.TruncateDecimals(location.Latitude(), coordinatePrecision) != latKey ||
			numberutils.TruncateDecimals(location.Longitude(), coordinatePrecision) != longKey {
			continue
		}
		if match == nil || location.ID() < match.ID() {
			match = location
		}
	}
	return match
}

// fetchContext detaches upstream calls from the caller so a shared fetch is not
// cancelled when the first requester goes away.
func (uc *locationUseCase) fetchContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(ctx), uc.fetchTimeout)
}

func (uc *locationUseCase) fromGeocodingResult(result external.GeocodingResult) entity.LocationDetails {
	details := entity.LocationDetails{
		ID:          result.ID,
		Name:        result.Name,
		Country:     entity.FromPtr(result.Country),
		CountryCode: entity.FromPtr(result.CountryCode),
		Latitude:    result.Latitude,
		Longitude:   result.Longitude,
		Timezone:    entity.FromPtr(result.Timezone),
		Admin1:      entity.FromPtr(result.Admin1),
		Population:  entity.FromPtr(result.Population),
	}
	uc.resolveTimezone(&details)
	return details
}

func (uc *locationUseCase) fromGeoName(place external.GeoName) (entity.LocationDetails, error) {
	latitude, err := numberutils.ToFloatWithError(place.Lat)
	if err != nil {
		return entity.LocationDetails{}, fmt.Errorf("geonames latitude %q: %w", place.Lat, err)
	}
	longitude, err := numberutils.ToFloatWithError(place.Lng)
	if err != nil {
		return entity.LocationDetails{}, fmt.Errorf("geonames longitude %q: %w", place.Lng, err)
	}

	details := entity.LocationDetails{
		ID:          place.GeonameID,
		Name:        place.Name,
		Country:     optionalString(place.CountryName),
		CountryCode: optionalString(place.CountryCode),
		Latitude:    latitude,
		Longitude:   longitude,
		Admin1:      entity.FromPtr(place.AdminName1),
		Population:  entity.FromPtr(place.Population),
	}
	if place.Timezone != nil {
		details.Timezone = optionalString(place.Timezone.TimeZoneID)
	}
	uc.resolveTimezone(&details)
	return details, nil
}

// resolveTimezone fills a missing timezone from the coordinates when a resolver is configured
func (uc *locationUseCase) resolveTimezone(details *entity.LocationDetails) {
	if details.Timezone.IsPresent() || uc.timezoneResolver == nil {
		return
	}
	name, err := uc.timezoneResolver.Resolve(details.Latitude, details.Longitude)
	if err != nil {
		log.Debug("Timezone not resolved", zap.Int("location_id", details.ID), zap.Error(err))
		return
	}
	details.Timezone = entity.Some(name)
}

func mergeByID(first, second []*entity.Location) []*entity.Location {
	seen := make(map[int]struct{}, len(first)+len(second))
	merged := make([]*entity.Location, 0, len(first)+len(second))
	for _, group := range [][]*entity.Location{first, second} {
		for _, location := range group {
			if _, ok := seen[location.ID()]; ok {
				continue
			}
			seen[location.ID()] = struct{}{}
			merged = append(merged, location)
		}
	}
	return merged
}

func validCoordinate(value, limit float64) bool {
	return !math.IsNaN(value) && !math.IsInf(value, 0) && value >= -limit && value <= limit
}

func optionalString(value string) entity.Optional[string] {
	if value == "" {
		return entity.None[string]()
	}
	return entity.Some(value)
}

func fromRow(row db.LocationRow) entity.LocationDetails {
	details := entity.LocationDetails{
		ID:          row.ID,
		Name:        row.Name,
		Country:     entity.FromPtr(row.Country),
		CountryCode: entity.FromPtr(row.CountryCode),
		Latitude:    row.Latitude,
		Longitude:   row.Longitude,
		Timezone:    entity.FromPtr(row.Timezone),
		Admin1:      entity.FromPtr(row.Admin1),
	}
	if row.Population != nil {
		details.Population = entity.Some(int(*row.Population))
	}
	return details
}

func toRow(snapshot entity.LocationSnapshot, blob []byte) db.LocationRow {
	row := db.LocationRow{
		ID:             snapshot.ID,
		Name:           snapshot.Name,
		NormalizedName: stringutils.Normalize(snapshot.Name),
		Country:        snapshot.Country.Ptr(),
		CountryCode:    snapshot.CountryCode.Ptr(),
		Latitude:       snapshot.Latitude,
		Longitude:      snapshot.Longitude,
		Timezone:       snapshot.LocationDetails.Timezone.Ptr(),
		Admin1:         snapshot.Admin1.Ptr(),
		LastUpdated:    snapshot.Weather.LastUpdated.UnixMilli(),
		WeatherData:    blob,
	}
	if population, ok := snapshot.Population.Get(); ok {
		value := int64(population)
		row.Population = &value
	}
	return row
}
