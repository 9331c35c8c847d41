package services

import (
	"context"
	"time"
)

// IntervalPacer pauses for a fixed interval on every Wait, so each completion
// call is followed by the full delay regardless of how long the call took.
type IntervalPacer struct {
	interval time.Duration
}

// NewIntervalPacer returns a pacer with the given delay. A non-positive
// interval never blocks.
func NewIntervalPacer(interval time.Duration) *IntervalPacer {
	return &IntervalPacer{interval: interval}
}

// Wait blocks for the interval or until ctx is done.
func (p *IntervalPacer) Wait(ctx context.Context) error {
	if p.interval <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(p.interval)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// NoopPacer never waits.
type NoopPacer struct{}

func (NoopPacer) Wait(context.Context) error { return nil }

var (
	_ Pacer = (*IntervalPacer)(nil)
	_ Pacer = NoopPacer{}
)
