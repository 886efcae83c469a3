package cache

import (
	"context"

	"weather-api/internal/domain/model"
)

// Checker is a response cache able to report whether it is reachable.
type Checker interface {
	Check(ctx context.Context) (bool, map[string]string)
}

type HealthGateway interface {
	Health(ctx context.Context) model.ComponentHealthStatus
	RegisterCache(name string, checker Checker)
	UnregisterCache(name string)
}
