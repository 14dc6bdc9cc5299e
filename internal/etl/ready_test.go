package etl

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWaitForReady(t *testing.T) {
	t.Run("returns immediately on first success", func(t *testing.T) {
		calls := 0
		probe := func(ctx context.Context) error {
			calls++
			return nil
		}

		err := WaitForReady(context.Background(), "postgres", probe, time.Second, time.Millisecond)
		require.NoError(t, err)
		assert.Equal(t, 1, calls)
	})

	t.Run("retries until the probe succeeds", func(t *testing.T) {
		calls := 0
		probe := func(ctx context.Context) error {
			calls++
			if calls < 3 {
				return errors.New("connection refused")
			}
			return nil
		}

		err := WaitForReady(context.Background(), "neo4j", probe, time.Second, time.Millisecond)
		require.NoError(t, err)
		assert.Equal(t, 3, calls)
	})

	t.Run("timeout names the unreachable store", func(t *testing.T) {
		probe := func(ctx context.Context) error {
			return errors.New("connection refused")
		}

		err := WaitForReady(context.Background(), "neo4j", probe, 20*time.Millisecond, 5*time.Millisecond)
		require.ErrorIs(t, err, ErrReadyTimeout)
		assert.Contains(t, err.Error(), "neo4j")
		assert.Contains(t, err.Error(), "connection refused")
	})

	t.Run("cancelled context stops the wait", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		probe := func(ctx context.Context) error {
			return errors.New("connection refused")
		}

		err := WaitForReady(ctx, "postgres", probe, time.Minute, time.Millisecond)
		require.ErrorIs(t, err, context.Canceled)
	})
}
