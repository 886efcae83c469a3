package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"weather-api/internal/infra/database/sqlc"
)

const (
	locationColumns = "id, name, normalized_name, country, country_code, latitude, longitude, timezone, admin1, population, last_updated, weather_data"
	columnCount     = 12

	DefaultBatchSize = 500
)

type SQLCLocationGateway struct {
	DB        *sql.DB
	Driver    string
	BatchSize int
}

var _ LocationGateway = (*SQLCLocationGateway)(nil)

func NewSQLCLocationGateway(db *sql.DB, driver string, batchSize int) *SQLCLocationGateway {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	return &SQLCLocationGateway{DB: db, Driver: driver, BatchSize: batchSize}
}

// FindAll reads every persisted location ordered by id
func (gateway *SQLCLocationGateway) FindAll(ctx context.Context) ([]LocationRow, error) {
	rows, err := gateway.DB.QueryContext(ctx, "SELECT "+locationColumns+" FROM locations ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("query locations: %w", err)
	}
	defer rows.Close()

	locations := make([]LocationRow, 0)
	for rows.Next() {
		var (
			row         LocationRow
			country     sql.NullString
			countryCode sql.NullString
			timezone    sql.NullString
			admin1      sql.NullString
			population  sql.NullInt64
		)

		if err := rows.Scan(&row.ID, &row.Name, &row.NormalizedName, &country, &countryCode,
			&row.Latitude, &row.Longitude, &timezone, &admin1, &population,
			&row.LastUpdated, &row.WeatherData); err != nil {
			return nil, fmt.Errorf("scan location: %w", err)
		}

		row.Country = stringPtr(country)
		row.CountryCode = stringPtr(countryCode)
		row.Timezone = stringPtr(timezone)
		row.Admin1 = stringPtr(admin1)
		if population.Valid {
			row.Population = &population.Int64
		}
		locations = append(locations, row)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate locations: %w", err)
	}
	return locations, nil
}

// UpsertBatch inserts or updates rows keyed by id, flushing one multi-row
// statement every BatchSize rows inside a single transaction
func (gateway *SQLCLocationGateway) UpsertBatch(ctx context.Context, rows []LocationRow) error {
	if len(rows) == 0 {
		return nil
	}

	tx, err := gateway.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	for start := 0; start < len(rows); start += gateway.BatchSize {
		end := min(start+gateway.BatchSize, len(rows))
		if err := gateway.upsertChunk(ctx, tx, rows[start:end]); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

func (gateway *SQLCLocationGateway) upsertChunk(ctx context.Context, tx *sql.Tx, rows []LocationRow) error {
	values := make([]string, 0, len(rows))
	args := make([]any, 0, len(rows)*columnCount)

	for i, row := range rows {
		values = append(values, "("+sqlc.Placeholders(gateway.Driver, i*columnCount, columnCount)+")")
		args = append(args, row.ID, row.Name, row.NormalizedName, row.Country, row.CountryCode,
			row.Latitude, row.Longitude, row.Timezone, row.Admin1, row.Population,
			row.LastUpdated, string(row.WeatherData))
	}

	query := "INSERT INTO locations (" + locationColumns + ") VALUES " + strings.Join(values, ", ") +
		` ON CONFLICT (id) DO UPDATE SET
			timezone = COALESCE(excluded.timezone, locations.timezone),
			last_updated = excluded.last_updated,
			weather_data = excluded.weather_data`

	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert %d locations: %w", len(rows), err)
	}
	return nil
}

// FindWeatherData reads the stored weather blob of a single location
func (gateway *SQLCLocationGateway) FindWeatherData(ctx context.Context, id int) ([]byte, bool, error) {
	query := "SELECT weather_data FROM locations WHERE id = " + sqlc.Placeholder(gateway.Driver, 1)

	var blob []byte
	err := gateway.DB.QueryRowContext(ctx, query, id).Scan(&blob)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("query weather data of %d: %w", id, err)
	}
	return blob, true, nil
}

func stringPtr(value sql.NullString) *string {
	if !value.Valid {
		return nil
	}
	return &value.String
}
