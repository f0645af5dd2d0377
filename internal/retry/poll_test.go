package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPollConfirmsImmediately(t *testing.T) {
	calls := 0
	outcome, err := Poll(context.Background(), 5, time.Millisecond, func(ctx context.Context) (bool, error) {
		calls++
		return true, nil
	})
	require.NoError(t, err)
	assert.Equal(t, Confirmed, outcome)
	assert.Equal(t, 1, calls)
}

func TestPollConfirmsAfterRetries(t *testing.T) {
	calls := 0
	outcome, err := Poll(context.Background(), 5, time.Millisecond, func(ctx context.Context) (bool, error) {
		calls++
		return calls >= 3, nil
	})
	require.NoError(t, err)
	assert.Equal(t, Confirmed, outcome)
	assert.Equal(t, 3, calls)
}

func TestPollExhaustsBudget(t *testing.T) {
	calls := 0
	outcome, err := Poll(context.Background(), 4, time.Millisecond, func(ctx context.Context) (bool, error) {
		calls++
		return false, nil
	})
	require.NoError(t, err)
	assert.Equal(t, NotYetVisible, outcome)
	assert.Equal(t, 4, calls, "the budget bounds the number of checks")
}

func TestPollFailsOnError(t *testing.T) {
	boom := errors.New("store down")
	outcome, err := Poll(context.Background(), 5, time.Millisecond, func(ctx context.Context) (bool, error) {
		return false, boom
	})
	assert.Equal(t, Failed, outcome)
	assert.ErrorIs(t, err, boom)
}

func TestPollFailsOnCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	outcome, err := Poll(ctx, 5, time.Second, func(ctx context.Context) (bool, error) {
		return false, nil
	})
	assert.Equal(t, Failed, outcome)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestOutcomeString(t *testing.T) {
	assert.Equal(t, "confirmed", Confirmed.String())
	assert.Equal(t, "not_yet_visible", NotYetVisible.String())
	assert.Equal(t, "failed", Failed.String())
}
