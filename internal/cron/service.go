package cron

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/multierr"

	"github.com/petcareclinic/petcare-backend/pkg/logger"
	"github.com/petcareclinic/petcare-backend/pkg/metrics"
)

const defaultInterval = time.Hour

type ServiceParams struct {
	Logger     *logger.Logger
	Registry   *Registry
	Lock       Lock
	Metrics    *metrics.CronJobMetrics
	Interval   time.Duration
	// JobTimeout bounds each job; zero leaves jobs bound only by ctx.
	JobTimeout time.Duration
}

// Service runs the registered maintenance jobs on a fixed cadence. Only one
// worker across the fleet runs a cycle at a time.
type Service struct {
	logg       *logger.Logger
	registry   *Registry
	lock       Lock
	metrics    *metrics.CronJobMetrics
	interval   time.Duration
	jobTimeout time.Duration
}

func NewService(params ServiceParams) (*Service, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Lock == nil {
		return nil, fmt.Errorf("lock required")
	}
	registry := params.Registry
	if registry == nil {
		registry = &Registry{}
	}
	interval := params.Interval
	if interval <= 0 {
		interval = defaultInterval
	}
	return &Service{
		logg:       params.Logger,
		registry:   registry,
		lock:       params.Lock,
		metrics:    params.Metrics,
		interval:   interval,
		jobTimeout: params.JobTimeout,
	}, nil
}

// Run executes a cycle immediately and then on every tick until ctx ends.
func (s *Service) Run(ctx context.Context) error {
	s.cycle(ctx)
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logg.Info(ctx, "cron service context canceled")
			return ctx.Err()
		case <-ticker.C:
			s.cycle(ctx)
		}
	}
}

// RunOnce executes a single cycle. Job failures are combined into the
// returned error; multierr.Errors splits them back out.
func (s *Service) RunOnce(ctx context.Context) error {
	return s.runCycle(ctx)
}

func (s *Service) cycle(ctx context.Context) {
	err := s.runCycle(ctx)
	if err == nil || ctx.Err() != nil {
		return
	}
	s.logg.Error(s.logg.WithField(ctx, "failed_jobs", len(multierr.Errors(err))), "scheduled run finished with failures", err)
}

func (s *Service) runCycle(ctx context.Context) error {
	locked, err := s.lock.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("lock acquire: %w", err)
	}
	if !locked {
		s.logg.Info(ctx, "another cron instance is running; skipping this cycle")
		return nil
	}
	defer func() {
		// the lock must go even when ctx was canceled mid-cycle
		if relErr := s.lock.Release(context.WithoutCancel(ctx)); relErr != nil {
			s.logg.Error(ctx, "failed to release cron lock", relErr)
		}
	}()

	var errs error
	for _, job := range s.registry.Jobs() {
		if ctx.Err() != nil {
			s.logg.Warn(s.logg.WithField(ctx, "next_job", job.Name()), "cycle interrupted; remaining jobs skipped")
			break
		}
		if err := s.runJob(ctx, job); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("%s: %w", job.Name(), err))
		}
	}
	return errs
}

func (s *Service) runJob(ctx context.Context, job Job) error {
	jobCtx := s.logg.WithFields(ctx, map[string]any{
		"job":   job.Name(),
		"event": "cron.job",
	})
	if s.jobTimeout > 0 {
		var cancel context.CancelFunc
		jobCtx, cancel = context.WithTimeout(jobCtx, s.jobTimeout)
		defer cancel()
	}

	start := time.Now()
	err := job.Run(jobCtx)
	elapsed := time.Since(start)
	s.metrics.ObserveRun(job.Name(), elapsed, err)

	jobCtx = s.logg.WithField(jobCtx, "duration_ms", elapsed.Milliseconds())
	if err != nil {
		s.logg.Error(jobCtx, "job failed", err)
		return err
	}
	s.logg.Info(jobCtx, "job completed")
	return nil
}
