package stream

import (
	"context"
	"fmt"
	"time"
)

// ErrRetriesExhausted is returned once a transport has used up its
// reconnection budget. Beyond this point the client silently stops
// receiving live updates until a manual refresh.
var ErrRetriesExhausted = fmt.Errorf("%w: retries exhausted", ErrTransport)

// RetryPolicy is a bounded, fixed-delay reconnection budget. The zero
// value retries forever with no delay, so callers should use
// DefaultRetryPolicy unless they have a reason not to.
type RetryPolicy struct {
	MaxAttempts int
	Delay       time.Duration
}

// DefaultRetryPolicy matches the transport defaults the backend was tuned
// against: five attempts, two seconds apart.
var DefaultRetryPolicy = RetryPolicy{MaxAttempts: 5, Delay: 2 * time.Second}

// Run invokes op until it succeeds, the attempt budget runs out, or ctx is
// cancelled. A fixed delay separates attempts.
func (p RetryPolicy) Run(ctx context.Context, op func() error) error {
	attempt := 0
	for {
		err := op()
		if err == nil {
			return nil
		}
		// Only the caller's context decides cancellation. Transport errors
		// that merely wrap context.Canceled (a reader closing its internal
		// fetch context, for one) still count against the budget.
		if ctx.Err() != nil {
			return ctx.Err()
		}

		attempt++
		if p.MaxAttempts > 0 && attempt >= p.MaxAttempts {
			return fmt.Errorf("%w after %d attempts: %v", ErrRetriesExhausted, attempt, err)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(p.Delay):
		}
	}
}
