package usecase

import (
	"context"
	"testing"
	"time"
)

type fakeDriver struct {
	job     func(time.Time)
	started int
	stopped int
}

func (d *fakeDriver) Start(_ context.Context, job func(time.Time)) error {
	d.started++
	d.job = job
	return nil
}

func (d *fakeDriver) Stop(context.Context) error {
	d.stopped++
	return nil
}

func TestSchedulerRunsPipelineOnTrigger(t *testing.T) {
	t.Parallel()

	papers := &countingProducer{n: 1}
	pipeline := NewPipeline(PipelineDeps{Papers: papers})
	driver := &fakeDriver{}
	s := NewScheduler(driver, pipeline, nil)

	ctx, cancel := context.WithCancel(context.Background())
	if err := s.Start(ctx); err != nil {
		t.Fatalf("start: %v", err)
	}
	cancel()

	// A cancelled start context must not leak into the run.
	driver.job(time.Now())
	if papers.calls != 1 {
		t.Fatalf("trigger should run the pipeline, calls=%d", papers.calls)
	}

	if out := s.RunNow(context.Background()); !out.Success || out.Papers != 1 {
		t.Fatalf("RunNow: %+v", out)
	}
	if err := s.Stop(context.Background()); err != nil || driver.stopped != 1 {
		t.Fatalf("stop: %v (stopped=%d)", err, driver.stopped)
	}
}

func TestSchedulerWithoutDriver(t *testing.T) {
	t.Parallel()

	s := NewScheduler(nil, nil, nil)
	if err := s.Start(context.Background()); err != nil {
		t.Fatalf("start without driver: %v", err)
	}
	if err := s.Stop(context.Background()); err != nil {
		t.Fatalf("stop without driver: %v", err)
	}
}
