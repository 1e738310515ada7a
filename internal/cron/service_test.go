package cron

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/multierr"

	"github.com/petcareclinic/petcare-backend/pkg/logger"
	"github.com/petcareclinic/petcare-backend/pkg/metrics"
)

type fakeLock struct {
	held     bool
	releases int
	err      error
}

func (f *fakeLock) Acquire(context.Context) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	if f.held {
		return false, nil
	}
	f.held = true
	return true, nil
}

func (f *fakeLock) Release(context.Context) error {
	f.held = false
	f.releases++
	return nil
}

type testJob struct {
	name string
	err  error
	runs int
}

func (t *testJob) Name() string { return t.name }

func (t *testJob) Run(context.Context) error {
	t.runs++
	return t.err
}

func newTestService(t *testing.T, lock Lock, jobs ...Job) *Service {
	t.Helper()
	registry, err := NewRegistry(jobs...)
	if err != nil {
		t.Fatalf("build registry: %v", err)
	}
	svc, err := NewService(ServiceParams{
		Logger:   logger.New(logger.Options{ServiceName: "cron-test"}),
		Registry: registry,
		Lock:     lock,
		Metrics:  metrics.NewCronJobMetrics(prometheus.NewRegistry()),
	})
	if err != nil {
		t.Fatalf("construct service: %v", err)
	}
	return svc
}

func TestRunOnceRunsAllJobsEvenOnFailure(t *testing.T) {
	ok := &testJob{name: "success"}
	bad := &testJob{name: "fail", err: errors.New("boom")}
	lock := &fakeLock{}
	svc := newTestService(t, lock, ok, bad)

	err := svc.RunOnce(context.Background())
	if got := len(multierr.Errors(err)); got != 1 {
		t.Fatalf("expected 1 failed job, got %d (%v)", got, err)
	}
	if !strings.HasPrefix(err.Error(), "fail: ") {
		t.Fatalf("expected job name prefix, got %q", err)
	}
	if ok.runs != 1 || bad.runs != 1 {
		t.Fatalf("expected each job to run once, got %d and %d", ok.runs, bad.runs)
	}
	if lock.held || lock.releases != 1 {
		t.Fatalf("expected lock released once, held=%v releases=%d", lock.held, lock.releases)
	}
}

func TestRunOnceSkipsWhenLockHeld(t *testing.T) {
	job := &testJob{name: "noop"}
	svc := newTestService(t, &fakeLock{held: true}, job)

	if err := svc.RunOnce(context.Background()); err != nil {
		t.Fatalf("run once: %v", err)
	}
	if job.runs != 0 {
		t.Fatalf("expected job skipped, ran %d", job.runs)
	}
}

func TestRunOnceSurfacesLockErrors(t *testing.T) {
	svc := newTestService(t, &fakeLock{err: errors.New("redis down")})
	if err := svc.RunOnce(context.Background()); err == nil {
		t.Fatal("expected lock error")
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	job := &testJob{name: "tick"}
	svc := newTestService(t, &fakeLock{}, job)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := svc.Run(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if job.runs != 0 {
		t.Fatalf("expected no jobs after cancel, got %d", job.runs)
	}
}

// cancelJob cancels the cycle from inside, like a SIGINT arriving mid-run.
type cancelJob struct {
	testJob
	cancel context.CancelFunc
}

func (c *cancelJob) Run(ctx context.Context) error {
	c.cancel()
	return c.testJob.Run(ctx)
}

func TestRunOnceSkipsRemainingJobsAfterCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	first := &cancelJob{testJob: testJob{name: "first"}, cancel: cancel}
	second := &testJob{name: "second"}
	lock := &fakeLock{}
	svc := newTestService(t, lock, first, second)

	if err := svc.RunOnce(ctx); err != nil {
		t.Fatalf("run once: %v", err)
	}
	if first.runs != 1 || second.runs != 0 {
		t.Fatalf("expected only first job, got %d and %d", first.runs, second.runs)
	}
	if lock.releases != 1 {
		t.Fatalf("expected lock released after cancel, got %d", lock.releases)
	}
}

type deadlineJob struct {
	sawDeadline bool
}

func (d *deadlineJob) Name() string { return "deadline" }

func (d *deadlineJob) Run(ctx context.Context) error {
	_, d.sawDeadline = ctx.Deadline()
	return nil
}

func TestRunJobAppliesTimeout(t *testing.T) {
	job := &deadlineJob{}
	registry, err := NewRegistry(job)
	if err != nil {
		t.Fatalf("build registry: %v", err)
	}
	svc, err := NewService(ServiceParams{
		Logger:     logger.New(logger.Options{ServiceName: "cron-test"}),
		Registry:   registry,
		Lock:       &fakeLock{},
		JobTimeout: time.Minute,
	})
	if err != nil {
		t.Fatalf("construct service: %v", err)
	}
	if err := svc.RunOnce(context.Background()); err != nil {
		t.Fatalf("run once: %v", err)
	}
	if !job.sawDeadline {
		t.Fatal("expected job context to carry a deadline")
	}
}

func TestNewServiceRequiresDeps(t *testing.T) {
	if _, err := NewService(ServiceParams{Lock: &fakeLock{}}); err == nil {
		t.Fatal("expected logger error")
	}
	if _, err := NewService(ServiceParams{Logger: logger.New(logger.Options{ServiceName: "t"})}); err == nil {
		t.Fatal("expected lock error")
	}
}
