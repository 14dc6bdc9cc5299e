package etl

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"
)

var ErrReadyTimeout = errors.New("store never became ready")

// Probe is a lightweight connectivity check against a dependent store.
type Probe func(ctx context.Context) error

// WaitForReady polls probe every interval until it succeeds or timeout
// elapses. The timeout error names the store that never became reachable.
func WaitForReady(ctx context.Context, name string, probe Probe, timeout, interval time.Duration) error {
	deadline := time.Now().Add(timeout)

	var lastErr error
	for {
		if err := probe(ctx); err == nil {
			return nil
		} else {
			lastErr = err
		}

		if time.Now().Add(interval).After(deadline) {
			return fmt.Errorf("%w: %s not reachable within %s: %v", ErrReadyTimeout, name, timeout, lastErr)
		}

		log.Printf("[info] stage=ready store=%s waiting interval=%s err=%v", name, interval, lastErr)
		select {
		case <-ctx.Done():
			return fmt.Errorf("waiting for %s: %w", name, ctx.Err())
		case <-time.After(interval):
		}
	}
}
