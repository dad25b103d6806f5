package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"NewsNavigator/internal/ports"
)

type stopper interface {
	Stop() bool
}

// DailyScheduler fires a job at the instants matched by a cron expression.
// It arms one single-shot timer at a time and re-arms it from the wall clock
// after each run, so a slow run never shifts later ones.
type DailyScheduler struct {
	schedule  cron.Schedule
	loc       *time.Location
	logger    *slog.Logger
	now       func() time.Time
	afterFunc func(time.Duration, func()) stopper

	mu        sync.Mutex
	job       func(time.Time)
	timer     stopper
	gen       uint64
	active    bool
	stopWatch func() bool
}

var _ ports.Scheduler = (*DailyScheduler)(nil)

// NewDailyScheduler parses a standard five-field cron expression evaluated in loc.
func NewDailyScheduler(expr string, loc *time.Location, logger *slog.Logger) (*DailyScheduler, error) {
	schedule, err := cron.ParseStandard(expr)
	if err != nil {
		return nil, fmt.Errorf("parse cron expression %q: %w", expr, err)
	}
	if loc == nil {
		loc = time.UTC
	}
	return &DailyScheduler{
		schedule: schedule,
		loc:      loc,
		logger:   logger,
		now:      time.Now,
		afterFunc: func(d time.Duration, f func()) stopper {
			return time.AfterFunc(d, f)
		},
	}, nil
}

// NextRun returns the first scheduled instant strictly after now.
func (s *DailyScheduler) NextRun(now time.Time) time.Time {
	return s.schedule.Next(now.In(s.loc))
}

// Start arms the timer. Calling Start on an active scheduler is a no-op.
// Cancelling ctx disarms the timer like Stop.
func (s *DailyScheduler) Start(ctx context.Context, job func(time.Time)) error {
	if job == nil {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.active {
		return nil
	}
	s.active = true
	s.gen++
	s.job = job
	gen := s.gen
	s.stopWatch = context.AfterFunc(ctx, func() {
		s.disarm(gen)
	})
	s.armLocked(gen)
	return nil
}

// Stop cancels the armed timer and leaves the scheduler disarmed.
// A run already in progress is allowed to finish but will not re-arm.
func (s *DailyScheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	gen := s.gen
	s.mu.Unlock()
	s.disarm(gen)
	return nil
}

func (s *DailyScheduler) disarm(gen uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if gen != s.gen || !s.active {
		return
	}
	s.active = false
	s.gen++
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	if s.stopWatch != nil {
		s.stopWatch()
		s.stopWatch = nil
	}
	s.info("scheduler stopped")
}

func (s *DailyScheduler) armLocked(gen uint64) {
	now := s.now()
	next := s.NextRun(now)
	s.timer = s.afterFunc(next.Sub(now), func() {
		s.fire(gen)
	})
	s.info("next run armed", "at", next.Format(time.RFC3339), "in", next.Sub(now).Round(time.Second).String())
}

func (s *DailyScheduler) fire(gen uint64) {
	s.mu.Lock()
	if gen != s.gen || !s.active {
		s.mu.Unlock()
		return
	}
	job := s.job
	s.timer = nil
	s.mu.Unlock()

	job(s.now())

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen == s.gen && s.active {
		s.armLocked(gen)
	}
}

func (s *DailyScheduler) info(msg string, args ...interface{}) {
	if s.logger != nil {
		s.logger.Info(msg, args...)
	}
}
