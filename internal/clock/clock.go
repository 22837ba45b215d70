// Package clock paces the frame loop.
// Ticker follows the wall clock at a fixed rate; Manual never blocks and is
// used for headless runs, replays and tests.
package clock

import (
	"context"
	"errors"
	"time"
)

// ErrExhausted is returned by a Manual clock once its frame limit is reached.
var ErrExhausted = errors.New("clock: frame limit reached")

// Clock blocks until the next frame is due.
type Clock interface {
	WaitForNextTick(ctx context.Context) error
}

// Ticker is a wall-clock frame clock firing at a fixed rate.
type Ticker struct {
	ticker   *time.Ticker
	interval time.Duration
}

// NewTicker creates a clock that ticks rate times per second.
// A non-positive rate falls back to 30 Hz.
func NewTicker(rate int) *Ticker {
	if rate <= 0 {
		rate = 30
	}
	interval := time.Second / time.Duration(rate)
	return &Ticker{
		ticker:   time.NewTicker(interval),
		interval: interval,
	}
}

// Interval returns the time between ticks.
func (t *Ticker) Interval() time.Duration {
	return t.interval
}

// WaitForNextTick blocks until the next tick or until ctx is done.
// Ticks missed by a slow consumer are dropped, not queued.
func (t *Ticker) WaitForNextTick(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.ticker.C:
		return nil
	}
}

// Stop releases the underlying ticker.
func (t *Ticker) Stop() {
	t.ticker.Stop()
}

// Manual is a clock that never sleeps.
type Manual struct {
	limit int
	ticks int
}

// NewManual creates a non-blocking clock. A positive limit makes the clock
// return ErrExhausted after that many ticks; zero means unlimited.
func NewManual(limit int) *Manual {
	return &Manual{limit: limit}
}

// WaitForNextTick returns immediately unless ctx is done or the limit is hit.
func (m *Manual) WaitForNextTick(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if m.limit > 0 && m.ticks >= m.limit {
		return ErrExhausted
	}
	m.ticks++
	return nil
}

// Ticks returns how many ticks have been handed out.
func (m *Manual) Ticks() int {
	return m.ticks
}
