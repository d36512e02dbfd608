package retry_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/jonesrussell/pagestats/infrastructure/retry"
)

var errRefused = errors.New("dial tcp 127.0.0.1:6379: connect: connection refused")

func fastConfig(attempts int) retry.Config {
	return retry.Config{MaxAttempts: attempts, InitialDelay: time.Millisecond, MaxDelay: time.Millisecond}
}

func TestDo_SucceedsAfterTransientFailures(t *testing.T) {
	calls := 0
	err := retry.Do(context.Background(), fastConfig(3), func(context.Context) error {
		calls++
		if calls < 3 {
			return errRefused
		}
		return nil
	})

	assert.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestDo_GivesUp(t *testing.T) {
	calls := 0
	err := retry.Do(context.Background(), fastConfig(2), func(context.Context) error {
		calls++
		return errRefused
	})

	assert.ErrorIs(t, err, retry.ErrMaxAttemptsExceeded)
	assert.ErrorIs(t, err, errRefused)
	assert.Equal(t, 2, calls)
}

func TestDo_PermanentErrorStopsImmediately(t *testing.T) {
	permanent := errors.New("WRONGTYPE Operation against a key holding the wrong kind of value")
	calls := 0
	err := retry.Do(context.Background(), fastConfig(5), func(context.Context) error {
		calls++
		return permanent
	})

	assert.Equal(t, permanent, err)
	assert.Equal(t, 1, calls)
}

func TestDo_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := retry.Do(ctx, fastConfig(3), func(context.Context) error {
		t.Fatal("fn called with cancelled context")
		return nil
	})

	assert.ErrorIs(t, err, context.Canceled)
}

func TestIsTransient(t *testing.T) {
	assert.True(t, retry.IsTransient(errRefused))
	assert.True(t, retry.IsTransient(context.DeadlineExceeded))
	assert.False(t, retry.IsTransient(context.Canceled))
	assert.False(t, retry.IsTransient(nil))
	assert.False(t, retry.IsTransient(errors.New("invalid argument")))
}
