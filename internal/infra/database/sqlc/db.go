package sqlc

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Config selects the driver and how to reach the database.
type Config struct {
	Driver string

	// SQLitePath is the database file used by the sqlite driver.
	SQLitePath string

	Host     string
	Port     string
	Username string
	Password string
	Database string
	Schema   string
	SSLMode  string

	MaxOpenConns int
}

// DSN builds the data source name for the configured driver.
func (c Config) DSN() (string, error) {
	switch c.Driver {
	case DriverSQLite:
		if c.SQLitePath == "" {
			return "", fmt.Errorf("sqlite path is required")
		}
		return fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)", c.SQLitePath), nil
	case DriverPostgres:
		sslMode := c.SSLMode
		if sslMode == "" {
			sslMode = "disable"
		}
		dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
			c.Host, c.Port, c.Username, c.Password, c.Database, sslMode)
		if c.Schema != "" {
			dsn += " search_path=" + c.Schema
		}
		return dsn, nil
	default:
		return "", fmt.Errorf("unsupported database driver %q", c.Driver)
	}
}

// Open connects to the configured database and checks it answers.
func Open(ctx context.Context, config Config) (*sql.DB, error) {
	dsn, err := config.DSN()
	if err != nil {
		return nil, err
	}

	if config.Driver == DriverSQLite {
		if dir := filepath.Dir(config.SQLitePath); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("create db directory: %w", err)
			}
		}
	}

	db, err := sql.Open(config.Driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", config.Driver, err)
	}

	if config.Driver == DriverSQLite {
		db.SetMaxOpenConns(1)
		db.SetConnMaxLifetime(0)
	} else if config.MaxOpenConns > 0 {
		db.SetMaxOpenConns(config.MaxOpenConns)
	}
	db.SetConnMaxIdleTime(5 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping %s: %w", config.Driver, err)
	}
	return db, nil
}

// InitSchema creates the locations table when it does not exist yet.
func InitSchema(ctx context.Context, db *sql.DB, driver string) error {
	blobType := "TEXT"
	if driver == DriverPostgres {
		blobType = "JSONB"
	}

	stmts := []string{
		`CREATE TABLE IF NOT EXISTS locations (
			id INTEGER PRIMARY KEY,
			name TEXT NOT NULL,
			normalized_name TEXT NOT NULL,
			country TEXT,
			country_code TEXT,
			latitude DOUBLE PRECISION NOT NULL,
			longitude DOUBLE PRECISION NOT NULL,
			timezone TEXT,
			admin1 TEXT,
			population BIGINT,
			last_updated BIGINT NOT NULL,
			weather_data ` + blobType + ` NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_locations_normalized_name ON locations(normalized_name)`,
	}

	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}
	return nil
}

// Placeholder returns the n-th (1-based) bind parameter for driver.
func Placeholder(driver string, n int) string {
	if driver == DriverPostgres {
		return fmt.Sprintf("$%d", n)
	}
	return "?"
}

// Placeholders returns count comma separated bind parameters starting at offset+1.
func Placeholders(driver string, offset, count int) string {
	params := make([]string, count)
	for i := range params {
		params[i] = Placeholder(driver, offset+i+1)
	}
	return strings.Join(params, ", ")
}
