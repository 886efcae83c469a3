package log

import (
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

type cronLogger struct{}

// CronLogger adapts the application logger to cron.Logger so recovered job
// panics and scheduler events end up in the structured log.
func CronLogger() cron.Logger {
	return cronLogger{}
}

func (cronLogger) Info(message string, keysAndValues ...interface{}) {
	logger.Sugar().Debugw(message, keysAndValues...)
}

func (cronLogger) Error(err error, message string, keysAndValues ...interface{}) {
	logger.Sugar().Errorw(message, append(keysAndValues, zap.Error(err))...)
}
