package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/petcareclinic/petcare-backend/pkg/logger"
)

// sweepJob is the shape shared by the maintenance jobs: compute a cutoff from
// the current time, act on every row older than it, log the count.
type sweepJob struct {
	name   string
	logg   *logger.Logger
	now    func() time.Time
	cutoff func(now time.Time) time.Time
	sweep  func(ctx context.Context, cutoff time.Time) (int64, error)
	fields map[string]any
}

func (j *sweepJob) Name() string { return j.name }

func (j *sweepJob) Run(ctx context.Context) error {
	cutoff := j.cutoff(j.now().UTC())
	n, err := j.sweep(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("%s: %w", j.name, err)
	}
	fields := map[string]any{"cutoff": cutoff, "rows_affected": n}
	for k, v := range j.fields {
		fields[k] = v
	}
	j.logg.Info(j.logg.WithFields(ctx, fields), j.name+" sweep complete")
	return nil
}
