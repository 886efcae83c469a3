package schedule

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"weather-api/internal/domain/usecase/location"
	"weather-api/internal/infra/metrics"
	"weather-api/pkg/log"
	"weather-api/pkg/msg"
)

const (
	stepStore     = "store"
	stepSearchLog = "search_log"
	stepEvict     = "evict"
)

// SweepScheduler periodically persists updated locations and the search log,
// then clears the weather of idle locations.
type SweepScheduler struct {
	cron     *cron.Cron
	useCase  location.UseCase
	interval time.Duration
	timeout  time.Duration
}

func NewSweepScheduler(useCase location.UseCase, interval time.Duration) *SweepScheduler {
	if interval <= 0 {
		interval = time.Minute
	}

	return &SweepScheduler{
		cron: cron.New(
			cron.WithLogger(log.CronLogger()),
			cron.WithChain(cron.Recover(log.CronLogger()), cron.SkipIfStillRunning(log.CronLogger())),
		),
		useCase:  useCase,
		interval: interval,
		timeout:  interval,
	}
}

// InitSweepScheduleTasks initializes the sweep schedule
func (scheduler *SweepScheduler) InitSweepScheduleTasks() {
	scheduler.cron.Schedule(cron.Every(scheduler.interval), cron.FuncJob(scheduler.Sweep))
	scheduler.cron.Start()

	log.Info(msg.GetMessage("sweep.started", scheduler.interval))
}

// Sweep runs one store, search log and evict pass. A failing step never stops the following ones.
func (scheduler *SweepScheduler) Sweep() {
	sweepID := uuid.New().String()
	ctx, cancel := context.WithTimeout(context.Background(), scheduler.timeout)
	defer cancel()

	log.Debug(msg.GetMessage("sweep.start"), zap.String("sweep_id", sweepID))

	scheduler.step(sweepID, stepStore, func() error {
		written, err := scheduler.useCase.Store(ctx)
		if err != nil {
			return err
		}
		if written > 0 {
			log.Info(msg.GetMessage("sweep.stored", written), zap.String("sweep_id", sweepID), zap.Int("locations", written))
		}
		return nil
	})

	scheduler.step(sweepID, stepSearchLog, func() error {
		return scheduler.useCase.PersistSearchLog(ctx)
	})

	scheduler.step(sweepID, stepEvict, func() error {
		if evicted := scheduler.useCase.Evict(ctx); evicted > 0 {
			log.Info(msg.GetMessage("sweep.evicted", evicted), zap.String("sweep_id", sweepID), zap.Int("locations", evicted))
		}
		return nil
	})

	log.Debug(msg.GetMessage("sweep.end"), zap.String("sweep_id", sweepID))
}

func (scheduler *SweepScheduler) step(sweepID, name string, run func() error) {
	start := time.Now()
	var err error

	defer func() {
		if recovered := recover(); recovered != nil {
			err = fmt.Errorf("panic: %v", recovered)
		}
		metrics.RecordSweepStep(name, err, time.Since(start))
		if err != nil {
			log.Error(msg.GetMessage("sweep.step-failed", name),
				zap.String("sweep_id", sweepID), zap.String("step", name), zap.Error(err))
		}
	}()

	err = run()
}

// Stop stops the schedule and waits for a running sweep to finish
func (scheduler *SweepScheduler) Stop() {
	if scheduler.cron != nil {
		ctx := scheduler.cron.Stop()
		<-ctx.Done()
	}
}
