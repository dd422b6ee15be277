package checker

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// Pacer enforces the pacing between account checks: a fixed delay
// before each check, the first one included, and a fixed cooldown
// after each completed check. Both waits honor context cancellation,
// so a stop request never sits out a pending delay.
type Pacer struct {
	delay    time.Duration
	limiter  *rate.Limiter // minimum gap between successive checks
	cooldown time.Duration
}

// NewPacer builds a pacer with the given pre-check delay and post-check
// cooldown. A zero or negative delay disables the corresponding wait.
func NewPacer(delay, cooldown time.Duration) *Pacer {
	limiter := rate.NewLimiter(rate.Inf, 1)
	if delay > 0 {
		limiter = rate.NewLimiter(rate.Every(delay), 1)
	}
	return &Pacer{
		delay:    delay,
		limiter:  limiter,
		cooldown: cooldown,
	}
}

// PreWait sleeps for the full pre-check delay, then waits out whatever
// is left of the minimum gap since the previous check. Every check
// pays the delay, including the first of a run.
func (p *Pacer) PreWait(ctx context.Context) error {
	if err := sleep(ctx, p.delay); err != nil {
		return err
	}
	return p.limiter.Wait(ctx)
}

// PostWait sleeps for the cooldown, or returns early with ctx.Err()
// on cancellation. A cancelled context is reported even when the
// cooldown is zero, so a stop landing during the last check is not
// mistaken for natural completion.
func (p *Pacer) PostWait(ctx context.Context) error {
	if err := sleep(ctx, p.cooldown); err != nil {
		return err
	}
	return ctx.Err()
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
