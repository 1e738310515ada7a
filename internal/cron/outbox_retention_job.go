package cron

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/petcareclinic/petcare-backend/pkg/logger"
)

const outboxRetentionDays = 30

type OutboxRetentionJobParams struct {
	Logger     *logger.Logger
	Repository outboxRetentionRepo
	Retention  int
}

type outboxRetentionRepo interface {
	DeletePublishedBefore(ctx context.Context, tx *gorm.DB, cutoff time.Time) (int64, error)
}

// NewOutboxRetentionJob prunes outbox rows published more than Retention
// days ago. Unpublished and dead-lettered rows are never touched.
func NewOutboxRetentionJob(params OutboxRetentionJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, errors.New("logger required")
	}
	if params.Repository == nil {
		return nil, errors.New("outbox repository required")
	}
	days := params.Retention
	if days <= 0 {
		days = outboxRetentionDays
	}
	return &sweepJob{
		name:   "outbox-retention",
		logg:   params.Logger,
		now:    time.Now,
		cutoff: func(now time.Time) time.Time { return now.AddDate(0, 0, -days) },
		sweep: func(ctx context.Context, cutoff time.Time) (int64, error) {
			return params.Repository.DeletePublishedBefore(ctx, nil, cutoff)
		},
		fields: map[string]any{"retention_days": days},
	}, nil
}
