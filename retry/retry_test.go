/*
Copyright © 2025 Webtoolbox Authors.

Released under MIT license.
*/

package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/stretchr/testify/require"
)

func TestDoWithRetry(t *testing.T) {
	policy := NewConstantBackoffPolicy(time.Millisecond, 3)

	t.Run("succeeds after transient failures", func(t *testing.T) {
		var calls int
		err := DoWithRetry(context.Background(), policy, nil, nil, func(ctx context.Context) error {
			calls++
			if calls < 3 {
				return errors.New("transient")
			}
			return nil
		})
		require.NoError(t, err)
		require.Equal(t, 3, calls)
	})

	t.Run("gives up after max attempts", func(t *testing.T) {
		retryErr := errors.New("still failing")
		var calls int
		err := DoWithRetry(context.Background(), policy, nil, nil, func(ctx context.Context) error {
			calls++
			return retryErr
		})
		require.ErrorIs(t, err, retryErr)
		require.Equal(t, 4, calls) // Initial attempt plus three retries.
	})

	t.Run("non-retryable error is not retried", func(t *testing.T) {
		permanentErr := errors.New("permanent")
		var calls int
		err := DoWithRetry(context.Background(), policy, func(err error) bool { return false }, nil,
			func(ctx context.Context) error {
				calls++
				return permanentErr
			})
		require.ErrorIs(t, err, permanentErr)
		require.Equal(t, 1, calls)
	})

	t.Run("canceled context stops retrying", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		var calls int
		err := DoWithRetry(ctx, NewConstantBackoffPolicy(time.Second, 10), nil, nil,
			func(ctx context.Context) error {
				calls++
				cancel()
				return errors.New("transient")
			})
		require.Error(t, err)
		require.Equal(t, 1, calls)
	})

	t.Run("notify receives retry attempts", func(t *testing.T) {
		var notified int
		_ = DoWithRetry(context.Background(), policy, nil,
			func(err error, d time.Duration) { notified++ },
			func(ctx context.Context) error { return errors.New("transient") })
		require.Equal(t, 3, notified)
	})
}

func TestExponentialBackoffPolicy(t *testing.T) {
	bf := NewExponentialBackoffPolicy(time.Millisecond*10, 2).NewBackOff()
	require.Greater(t, bf.NextBackOff(), time.Duration(0))
	require.Greater(t, bf.NextBackOff(), time.Duration(0))
	// Attempts are exhausted after maxRetryAttempts.
	require.Equal(t, backoff.Stop, bf.NextBackOff())
}
