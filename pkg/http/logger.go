package http

import (
	"time"

	"go.uber.org/zap"

	"weather-api/pkg/log"
)

// Logger receives outbound request events. Implementations must be safe for
// concurrent use.
type Logger interface {
	// Sent is called before each attempt, attempt starting at 1
	Sent(url string, attempt int)

	// Completed is called once the request succeeded
	Completed(url string, status int, elapsed time.Duration)

	// Failed is called when the request gives up
	Failed(url string, status int, body string, elapsed time.Duration, err error)

	// Retrying is called before waiting for the next attempt
	Retrying(url string, status, retry, maxRetries int, wait time.Duration, err error)
}

// ZapHTTPLogger writes outbound request events to the application log.
type ZapHTTPLogger struct{}

var _ Logger = ZapHTTPLogger{}

func (ZapHTTPLogger) Sent(url string, attempt int) {
	log.Debug("Outbound request", zap.String("url", url), zap.Int("attempt", attempt))
}

func (ZapHTTPLogger) Completed(url string, status int, elapsed time.Duration) {
	log.Debug("Outbound request completed",
		zap.String("url", url),
		zap.Int("status", status),
		zap.Duration("elapsed", elapsed))
}

func (ZapHTTPLogger) Failed(url string, status int, body string, elapsed time.Duration, err error) {
	log.Warn("Outbound request failed",
		zap.String("url", url),
		zap.Int("status", status),
		zap.String("response", truncate(body, 256)),
		zap.Duration("elapsed", elapsed),
		zap.Error(err))
}

func (ZapHTTPLogger) Retrying(url string, status, retry, maxRetries int, wait time.Duration, err error) {
	log.Info("Retrying outbound request",
		zap.String("url", url),
		zap.Int("status", status),
		zap.Int("retry", retry),
		zap.Int("max_retries", maxRetries),
		zap.Duration("wait", wait),
		zap.Error(err))
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
