package executor

import (
	"context"
	"testing"
	"time"
)

func TestAdmission_CapsConcurrency(t *testing.T) {
	a := NewAdmission(1, 6000)
	ctx := context.Background()

	if err := a.Acquire(ctx); err != nil {
		t.Fatalf("first acquire: %v", err)
	}

	blocked, cancel := context.WithTimeout(ctx, 100*time.Millisecond)
	defer cancel()
	if err := a.Acquire(blocked); err == nil {
		t.Fatal("second acquire should block until release")
	}

	a.Release()
	if err := a.Acquire(ctx); err != nil {
		t.Fatalf("acquire after release: %v", err)
	}
	a.Release()
}

func TestAdmission_FractionalRate(t *testing.T) {
	// Half an action per minute: the first acquire passes on the burst token,
	// the second waits two minutes and must fail on its deadline.
	a := NewAdmission(2, 0.5)
	ctx := context.Background()

	if err := a.Acquire(ctx); err != nil {
		t.Fatalf("first acquire: %v", err)
	}

	limited, cancel := context.WithTimeout(ctx, 100*time.Millisecond)
	defer cancel()
	if err := a.Acquire(limited); err == nil {
		t.Fatal("fractional rate should pace the second acquire")
	}
	a.Release()
}

func TestAdmission_CancelWhileRateLimited(t *testing.T) {
	// One action per minute: the second acquire waits on the limiter.
	a := NewAdmission(2, 1)
	ctx := context.Background()

	if err := a.Acquire(ctx); err != nil {
		t.Fatalf("first acquire: %v", err)
	}

	limited, cancel := context.WithTimeout(ctx, 100*time.Millisecond)
	defer cancel()
	if err := a.Acquire(limited); err == nil {
		t.Fatal("expected rate-limited acquire to fail on deadline")
	}

	// The slot taken before the limiter wait must have been returned.
	a.Release()
	select {
	case a.slots <- struct{}{}:
		<-a.slots
	default:
		t.Error("slot leaked after canceled acquire")
	}
	select {
	case a.slots <- struct{}{}:
		<-a.slots
	default:
		t.Error("second slot leaked")
	}
}
