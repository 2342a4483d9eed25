package vlr

import (
	"context"
	"sync"
	"time"
)

const DefaultRequestDelay = time.Second

// Throttler spaces outbound requests at least interval apart, measured from
// the moment the previous request finished. A successful Wait holds the
// throttler until Release, so concurrent callers go out one at a time.
type Throttler struct {
	interval time.Duration
	now      func() time.Time
	sleep    func(context.Context, time.Duration) error
	slot     chan struct{}

	mu   sync.Mutex
	last time.Time
}

func NewThrottler(interval time.Duration) *Throttler {
	return &Throttler{
		interval: interval,
		now:      time.Now,
		sleep:    sleepContext,
		slot:     make(chan struct{}, 1),
	}
}

// Wait takes the throttler and blocks until interval has passed since the
// last Done. Every nil return must be paired with a Release.
func (t *Throttler) Wait(ctx context.Context) error {
	select {
	case t.slot <- struct{}{}:
	case <-ctx.Done():
		return ctx.Err()
	}

	last := t.Last()
	if last.IsZero() {
		return nil
	}

	elapsed := t.now().Sub(last)
	if elapsed >= t.interval {
		return nil
	}
	if err := t.sleep(ctx, t.interval-elapsed); err != nil {
		t.Release()
		return err
	}
	return nil
}

// Release hands the throttler to the next waiter.
func (t *Throttler) Release() {
	select {
	case <-t.slot:
	default:
	}
}

// Done records that a request just completed, successfully or not.
func (t *Throttler) Done() {
	t.mu.Lock()
	t.last = t.now()
	t.mu.Unlock()
}

func (t *Throttler) Last() time.Time {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.last
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
