package cron

import (
	"context"
	"errors"
	"time"

	"github.com/petcareclinic/petcare-backend/pkg/logger"
)

const defaultCartAbandonAfter = 7 * 24 * time.Hour

type CartAbandonmentJobParams struct {
	Logger     *logger.Logger
	Carts      cartAbandoner
	AbandonAge time.Duration
}

type cartAbandoner interface {
	MarkAbandoned(ctx context.Context, untouchedSince time.Time) (int64, error)
}

// NewCartAbandonmentJob retires ACTIVE carts nobody touched for AbandonAge so
// the owner's next add starts a fresh cart.
func NewCartAbandonmentJob(params CartAbandonmentJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, errors.New("logger required")
	}
	if params.Carts == nil {
		return nil, errors.New("cart repository required")
	}
	age := params.AbandonAge
	if age <= 0 {
		age = defaultCartAbandonAfter
	}
	return &sweepJob{
		name:   "cart-abandonment",
		logg:   params.Logger,
		now:    time.Now,
		cutoff: func(now time.Time) time.Time { return now.Add(-age) },
		sweep:  params.Carts.MarkAbandoned,
		fields: map[string]any{"abandon_after": age.String()},
	}, nil
}
