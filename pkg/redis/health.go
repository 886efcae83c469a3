package redis

import (
	"context"
	"strconv"
	"time"
)

// HealthChecker pings Redis and reports connection details
type HealthChecker struct {
	client  *Client
	timeout time.Duration
}

// NewHealthChecker creates a new Redis health checker
func NewHealthChecker(client *Client) *HealthChecker {
	return &HealthChecker{
		client:  client,
		timeout: 2 * time.Second,
	}
}

// Check pings Redis and returns whether it answered along with connection details
func (h *HealthChecker) Check(ctx context.Context) (bool, map[string]string) {
	config := h.client.GetConfig()
	details := map[string]string{
		"type":     "redis",
		"address":  config.Addr(),
		"database": strconv.Itoa(config.Database),
	}

	ctx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()

	start := time.Now()
	if err := h.client.Ping(ctx); err != nil {
		details["error"] = err.Error()
		return false, details
	}
	details["latency"] = time.Since(start).String()

	if stats := h.client.Stats(); stats != nil {
		details["total_conns"] = strconv.FormatUint(uint64(stats.TotalConns), 10)
		details["idle_conns"] = strconv.FormatUint(uint64(stats.IdleConns), 10)
	}
	return true, details
}
