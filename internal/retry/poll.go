// Package retry provides the bounded fixed-interval poll used to bridge
// eventual consistency between the payment gateway and the store.
package retry

import (
	"context"
	"time"
)

type Outcome int

const (
	// Confirmed means the condition became visible within the attempt budget.
	Confirmed Outcome = iota
	// NotYetVisible means the budget ran out without an error; callers may
	// proceed optimistically and reconcile later.
	NotYetVisible
	// Failed means a check returned an error or the context was cancelled.
	Failed
)

func (o Outcome) String() string {
	switch o {
	case Confirmed:
		return "confirmed"
	case NotYetVisible:
		return "not_yet_visible"
	default:
		return "failed"
	}
}

// CheckFunc reports whether the awaited condition is visible yet.
type CheckFunc func(ctx context.Context) (bool, error)

// Poll runs check up to attempts times, sleeping interval between tries.
// It never blocks past attempts*interval: the loop is the replacement for
// inline timed polling, returning a tri-state outcome instead of spinning
// indefinitely.
func Poll(ctx context.Context, attempts int, interval time.Duration, check CheckFunc) (Outcome, error) {
	for i := 0; i < attempts; i++ {
		ok, err := check(ctx)
		if err != nil {
			return Failed, err
		}
		if ok {
			return Confirmed, nil
		}
		if i == attempts-1 {
			break
		}
		select {
		case <-ctx.Done():
			return Failed, ctx.Err()
		case <-time.After(interval):
		}
	}
	return NotYetVisible, nil
}
