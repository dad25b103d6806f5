package usecase

import (
	"context"
	"log/slog"
	"time"

	"NewsNavigator/internal/logging"
	"NewsNavigator/internal/ports"
)

// Scheduler wires the timer driver with the pipeline use case.
type Scheduler struct {
	driver   ports.Scheduler
	pipeline *Pipeline
	logger   *slog.Logger
}

// NewScheduler returns a helper to start/stop the daily run.
func NewScheduler(driver ports.Scheduler, pipeline *Pipeline, logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Scheduler{driver: driver, pipeline: pipeline, logger: logger.With("component", "scheduler")}
}

// Start registers the pipeline with the driver. Runs triggered by the timer
// are not cancelled when ctx is; only the timer is.
func (s *Scheduler) Start(ctx context.Context) error {
	if s.driver == nil || s.pipeline == nil {
		return nil
	}

	runCtx := context.WithoutCancel(ctx)
	job := func(trigger time.Time) {
		s.logger.Info("scheduled run triggered", "at", trigger)
		s.pipeline.RunDaily(runCtx)
	}

	return s.driver.Start(ctx, job)
}

// RunNow executes the pipeline immediately through the same guard.
func (s *Scheduler) RunNow(ctx context.Context) Outcome {
	return s.pipeline.RunDaily(ctx)
}

// Stop gracefully tears down the underlying scheduler.
func (s *Scheduler) Stop(ctx context.Context) error {
	if s.driver == nil {
		return nil
	}

	return s.driver.Stop(ctx)
}
