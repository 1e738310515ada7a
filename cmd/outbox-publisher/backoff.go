package main

import (
	"context"
	"math/rand"
	"time"
)

const (
	maxBackoff   = 10 * time.Second
	jitterWindow = 250 * time.Millisecond
)

// pacer spaces out polling. Idle polls wait the base interval; consecutive
// batch errors double the wait up to maxBackoff.
type pacer struct {
	base    time.Duration
	current time.Duration
	rng     *rand.Rand
}

func newPacer(base time.Duration) *pacer {
	return &pacer{base: base, current: base, rng: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

func (p *pacer) reset() { p.current = p.base }

func (p *pacer) failed() time.Duration {
	p.current = nextBackoff(p.current, p.base, maxBackoff)
	return p.jitter(p.current)
}

func (p *pacer) idle() time.Duration {
	return p.jitter(p.base)
}

func (p *pacer) jitter(d time.Duration) time.Duration {
	if d <= 0 {
		return 0
	}
	return d + time.Duration(p.rng.Int63n(int64(jitterWindow)))
}

func nextBackoff(current, base, limit time.Duration) time.Duration {
	if current <= 0 {
		current = base
	}
	if next := current * 2; next < limit {
		return next
	}
	return limit
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
