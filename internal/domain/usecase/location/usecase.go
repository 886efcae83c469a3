package location

import (
	"context"
	"errors"

	"weather-api/internal/domain/entity"
)

var (
	ErrLocationNotFound = errors.New("location not found")
	ErrInvalidInput     = errors.New("invalid input")
)

// Stats is a point-in-time view of the cache size.
type Stats struct {
	Locations   int
	SearchTerms int
}

type UseCase interface {
	// GetByID returns a cached location, refreshing its weather when stale
	GetByID(ctx context.Context, id int) (*entity.Location, error)

	// GetByName returns cached locations matching name, asking the geocoder for unseen terms
	GetByName(ctx context.Context, name string) ([]*entity.Location, error)

	// GetByCoords returns the location at the coordinates truncated to two decimals
	GetByCoords(ctx context.Context, latitude, longitude float64) (*entity.Location, error)

	// Load fills the cache from the durable store and the search log from its file
	Load(ctx context.Context) error

	// Store persists recently updated locations in one batch and returns how many were written
	Store(ctx context.Context) (int, error)

	// PersistSearchLog writes the search log when it changed
	PersistSearchLog(ctx context.Context) error

	// Evict drops the weather of locations not accessed recently and returns how many were cleared
	Evict(ctx context.Context) int

	Stats() Stats
}
