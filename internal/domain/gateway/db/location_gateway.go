package db

import "context"

// LocationRow is one persisted location. Nil pointers are stored as NULL.
type LocationRow struct {
	ID             int
	Name           string
	NormalizedName string
	Country        *string
	CountryCode    *string
	Latitude       float64
	Longitude      float64
	Timezone       *string
	Admin1         *string
	Population     *int64
	LastUpdated    int64 // unix milliseconds
	WeatherData    []byte
}

type LocationGateway interface {
	FindAll(ctx context.Context) ([]LocationRow, error)
	// UpsertBatch writes rows in a single transaction; nothing is committed on error.
	UpsertBatch(ctx context.Context, rows []LocationRow) error
	// FindWeatherData returns the stored weather blob of id and whether the row exists.
	FindWeatherData(ctx context.Context, id int) ([]byte, bool, error)
}
