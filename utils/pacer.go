package utils

import (
	"context"
	"sync"
	"time"
)

// Sleeper pauses for d or until ctx is done.
type Sleeper func(ctx context.Context, d time.Duration) error

// Pacer enforces a fixed pause between consecutive requests. The pause is
// unconditional: it does not depend on whether the previous request failed.
type Pacer struct {
	interval time.Duration
	sleep    Sleeper

	mu     sync.Mutex
	pauses int
}

// NewPacer creates a Pacer that waits interval on every Pause.
func NewPacer(interval time.Duration) *Pacer {
	return NewPacerWithSleeper(interval, ContextSleep)
}

// NewPacerWithSleeper is NewPacer with an injectable sleep function.
func NewPacerWithSleeper(interval time.Duration, sleep Sleeper) *Pacer {
	if sleep == nil {
		sleep = ContextSleep
	}
	return &Pacer{interval: interval, sleep: sleep}
}

// Interval returns the configured pause length.
func (p *Pacer) Interval() time.Duration {
	return p.interval
}

// Pause blocks for the configured interval.
func (p *Pacer) Pause(ctx context.Context) error {
	p.mu.Lock()
	p.pauses++
	p.mu.Unlock()

	if p.interval <= 0 {
		return ctx.Err()
	}
	return p.sleep(ctx, p.interval)
}

// Pauses returns how many times Pause has been called.
func (p *Pacer) Pauses() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.pauses
}

// ContextSleep sleeps for d, returning early with ctx.Err() on cancellation.
func ContextSleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
