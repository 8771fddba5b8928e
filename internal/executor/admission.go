package executor

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// Admission bounds how much browser work runs at once: a counting semaphore
// caps concurrent sessions and a shared limiter paces action starts so bursts
// of invocations do not hammer LinkedIn.
type Admission struct {
	slots   chan struct{}
	limiter *rate.Limiter
}

// NewAdmission creates an admission gate allowing maxConcurrent simultaneous
// sessions and actionsPerMinute action starts. Fractional rates are allowed:
// 0.5 means one action every two minutes.
func NewAdmission(maxConcurrent int, actionsPerMinute float64) *Admission {
	if maxConcurrent < 1 {
		maxConcurrent = 1
	}
	if actionsPerMinute <= 0 {
		actionsPerMinute = 1
	}
	interval := time.Duration(float64(time.Minute) / actionsPerMinute)
	return &Admission{
		slots:   make(chan struct{}, maxConcurrent),
		limiter: rate.NewLimiter(rate.Every(interval), 1),
	}
}

// Acquire blocks until a slot is free and the rate limiter admits a new
// action, or the context is done. On success the caller owns a slot and must
// Release it exactly once.
func (a *Admission) Acquire(ctx context.Context) error {
	select {
	case a.slots <- struct{}{}:
	case <-ctx.Done():
		return ctx.Err()
	}
	if err := a.limiter.Wait(ctx); err != nil {
		<-a.slots
		return err
	}
	return nil
}

// Release frees the slot taken by Acquire.
func (a *Admission) Release() {
	<-a.slots
}
