package fetch

import (
	"context"
	"time"
)

// Throttle serializes dispatches to a single source and enforces a minimum
// gap between the end of one dispatch and the start of the next.
type Throttle struct {
	slot     chan struct{}
	spacing  time.Duration
	lastDone time.Time // guarded by slot
	now      func() time.Time
}

// NewThrottle creates a throttle with the given minimum spacing
func NewThrottle(spacing time.Duration) *Throttle {
	return &Throttle{
		slot:    make(chan struct{}, 1),
		spacing: spacing,
		now:     time.Now,
	}
}

// Acquire blocks until the caller holds the dispatch slot and the spacing
// since the previous dispatch has elapsed. Every successful Acquire must be
// paired with Release.
func (t *Throttle) Acquire(ctx context.Context) error {
	select {
	case t.slot <- struct{}{}:
	case <-ctx.Done():
		return ctx.Err()
	}

	if t.lastDone.IsZero() {
		return nil
	}

	wait := t.lastDone.Add(t.spacing).Sub(t.now())
	if wait <= 0 {
		return nil
	}

	timer := time.NewTimer(wait)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		<-t.slot
		return ctx.Err()
	}
}

// Release marks the end of a dispatch and frees the slot
func (t *Throttle) Release() {
	t.lastDone = t.now()
	<-t.slot
}
