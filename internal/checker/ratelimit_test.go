package checker

import (
	"context"
	"testing"
	"time"
)

func TestPacer_ZeroDelaysDoNotBlock(t *testing.T) {
	p := NewPacer(0, 0)
	ctx := context.Background()

	start := time.Now()
	if err := p.PreWait(ctx); err != nil {
		t.Fatalf("PreWait: %v", err)
	}
	if err := p.PostWait(ctx); err != nil {
		t.Fatalf("PostWait: %v", err)
	}
	if elapsed := time.Since(start); elapsed > 100*time.Millisecond {
		t.Fatalf("zero pacer took %v", elapsed)
	}
}

// The very first check of a run pays the full delay too.
func TestPacer_FirstPreWaitSleepsDelay(t *testing.T) {
	const delay = 100 * time.Millisecond
	p := NewPacer(delay, 0)

	start := time.Now()
	if err := p.PreWait(context.Background()); err != nil {
		t.Fatalf("PreWait: %v", err)
	}
	if elapsed := time.Since(start); elapsed < delay-20*time.Millisecond {
		t.Fatalf("first PreWait returned after %v, want >= %v", elapsed, delay)
	}
}

func TestPacer_EnforcesGapBetweenChecks(t *testing.T) {
	const gap = 150 * time.Millisecond
	p := NewPacer(gap, 0)
	ctx := context.Background()

	if err := p.PreWait(ctx); err != nil {
		t.Fatalf("PreWait: %v", err)
	}
	start := time.Now()
	if err := p.PreWait(ctx); err != nil {
		t.Fatalf("PreWait: %v", err)
	}
	if elapsed := time.Since(start); elapsed < gap-20*time.Millisecond {
		t.Fatalf("second PreWait returned after %v, want >= %v", elapsed, gap)
	}
}

func TestPacer_PreWaitInterruptible(t *testing.T) {
	p := NewPacer(10*time.Second, 0)
	ctx, cancel := context.WithCancel(context.Background())

	go func() {
		time.Sleep(50 * time.Millisecond)
		cancel()
	}()

	start := time.Now()
	err := p.PreWait(ctx)
	if err == nil {
		t.Fatalf("expected cancellation error")
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Fatalf("cancelled PreWait took %v, should return promptly", elapsed)
	}
}

func TestPacer_PostWaitInterruptible(t *testing.T) {
	p := NewPacer(0, 10*time.Second)
	ctx, cancel := context.WithCancel(context.Background())

	go func() {
		time.Sleep(50 * time.Millisecond)
		cancel()
	}()

	start := time.Now()
	err := p.PostWait(ctx)
	if err != context.Canceled {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Fatalf("cancelled PostWait took %v, should return promptly", elapsed)
	}
}

// With a zero cooldown there is nothing to sleep, but a cancellation
// that already happened must still be surfaced.
func TestPacer_PostWaitZeroCooldownReportsCancellation(t *testing.T) {
	p := NewPacer(0, 0)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := p.PostWait(ctx); err != context.Canceled {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
