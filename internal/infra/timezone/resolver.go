package timezone

import (
	"fmt"
	"sync"

	"github.com/ringsaturn/tzf"
)

// Resolver maps coordinates to an IANA timezone name.
type Resolver interface {
	Resolve(latitude, longitude float64) (string, error)
}

type tzfResolver struct {
	finder tzf.F
}

var (
	instance *tzfResolver
	initErr  error
	once     sync.Once
)

// NewResolver returns the shared resolver. The finder keeps its polygon data
// in memory so it is built once per process.
func NewResolver() (Resolver, error) {
	once.Do(func() {
		finder, err := tzf.NewDefaultFinder()
		if err != nil {
			initErr = fmt.Errorf("failed to initialize timezone finder: %w", err)
			return
		}
		instance = &tzfResolver{finder: finder}
	})
	if initErr != nil {
		return nil, initErr
	}
	return instance, nil
}

func (r *tzfResolver) Resolve(latitude, longitude float64) (string, error) {
	name := r.finder.GetTimezoneName(longitude, latitude)
	if name == "" {
		return "", fmt.Errorf("no timezone for coordinates lat=%f, lon=%f", latitude, longitude)
	}
	return name, nil
}
