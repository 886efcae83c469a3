package cache

import (
	"context"
	"sort"
	"strconv"
	"sync"

	"weather-api/internal/domain/model"
)

type CacheHealthGateway struct {
	caches map[string]Checker
	mutex  sync.RWMutex
}

var _ HealthGateway = (*CacheHealthGateway)(nil)

func NewCacheHealthGateway() *CacheHealthGateway {
	return &CacheHealthGateway{
		caches: make(map[string]Checker),
	}
}

func (gateway *CacheHealthGateway) RegisterCache(name string, checker Checker) {
	gateway.mutex.Lock()
	defer gateway.mutex.Unlock()
	gateway.caches[name] = checker
}

func (gateway *CacheHealthGateway) UnregisterCache(name string) {
	gateway.mutex.Lock()
	defer gateway.mutex.Unlock()
	delete(gateway.caches, name)
}

func (gateway *CacheHealthGateway) Health(ctx context.Context) model.ComponentHealthStatus {
	gateway.mutex.RLock()
	defer gateway.mutex.RUnlock()

	if len(gateway.caches) == 0 {
		return model.ComponentHealthStatus{
			Status: model.StatusUnknown,
			Details: map[string]string{
				"message":      "No caches registered",
				"caches_count": "0",
			},
		}
	}

	names := make([]string, 0, len(gateway.caches))
	for name := range gateway.caches {
		names = append(names, name)
	}
	sort.Strings(names)

	overallStatus := model.StatusUp
	details := make(map[string]string)
	cachesUp, cachesDown := 0, 0

	for _, name := range names {
		up, cacheDetails := gateway.caches[name].Check(ctx)
		if up {
			cachesUp++
			details[name+"_status"] = string(model.StatusUp)
		} else {
			cachesDown++
			overallStatus = model.StatusDown
			details[name+"_status"] = string(model.StatusDown)
		}

		for key, value := range cacheDetails {
			details[name+"_"+key] = value
		}
	}

	details["caches_total"] = strconv.Itoa(len(gateway.caches))
	details["caches_up"] = strconv.Itoa(cachesUp)
	details["caches_down"] = strconv.Itoa(cachesDown)

	return model.ComponentHealthStatus{
		Status:  overallStatus,
		Details: details,
	}
}
