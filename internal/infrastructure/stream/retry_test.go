package stream

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRetryPolicy_Run_SucceedsFirstAttempt(t *testing.T) {
	p := RetryPolicy{MaxAttempts: 3, Delay: time.Millisecond}
	calls := 0

	err := p.Run(context.Background(), func() error {
		calls++
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestRetryPolicy_Run_SucceedsAfterFailures(t *testing.T) {
	p := RetryPolicy{MaxAttempts: 5, Delay: time.Millisecond}
	calls := 0

	err := p.Run(context.Background(), func() error {
		calls++
		if calls < 3 {
			return errors.New("connection refused")
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestRetryPolicy_Run_ExhaustsBudget(t *testing.T) {
	p := RetryPolicy{MaxAttempts: 5, Delay: time.Millisecond}
	calls := 0

	err := p.Run(context.Background(), func() error {
		calls++
		return errors.New("connection refused")
	})

	assert.ErrorIs(t, err, ErrRetriesExhausted)
	assert.ErrorIs(t, err, ErrTransport)
	assert.Equal(t, 5, calls)
}

// An op error wrapping context.Canceled under a live caller context is a
// transport failure like any other, never a clean exit.
func TestRetryPolicy_Run_CancelledFlavoredErrorStillFails(t *testing.T) {
	p := RetryPolicy{MaxAttempts: 3, Delay: time.Millisecond}
	calls := 0

	err := p.Run(context.Background(), func() error {
		calls++
		return fmt.Errorf("reader closed: %w", context.Canceled)
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrRetriesExhausted)
	assert.Equal(t, 3, calls)
}

func TestRetryPolicy_Run_CancelledBetweenAttempts(t *testing.T) {
	p := RetryPolicy{MaxAttempts: 0, Delay: time.Hour}
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() {
		done <- p.Run(ctx, func() error {
			return errors.New("connection refused")
		})
	}()

	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("Run did not observe cancellation")
	}
}

func TestNewEvent_RoundTrip(t *testing.T) {
	evt, err := NewEvent("kitchenStatus", map[string]bool{"status": true})
	require.NoError(t, err)
	assert.Equal(t, "kitchenStatus", evt.Name)
	assert.JSONEq(t, `{"status":true}`, string(evt.Data))
}

func TestNewEvent_NilPayload(t *testing.T) {
	evt, err := NewEvent("disconnect", nil)
	require.NoError(t, err)
	assert.Equal(t, "disconnect", evt.Name)
	assert.Nil(t, evt.Data)
}
