package app

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"
)

const maxBackoff = 5 * time.Minute

// Syncer reconciles local captured state with the server.
type Syncer interface {
	SyncCaptured(ctx context.Context) error
}

// StartPoller launches a goroutine that calls SyncCaptured every interval,
// backing off exponentially while syncs fail. The returned channel is closed
// once the goroutine exits after ctx is cancelled. A non-positive interval
// disables polling and returns a closed channel.
func StartPoller(ctx context.Context, syncer Syncer, interval time.Duration, logger *zap.Logger) <-chan struct{} {
	done := make(chan struct{})
	if interval <= 0 || syncer == nil {
		close(done)
		return done
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	go func() {
		defer close(done)
		failures := 0
		timer := time.NewTimer(interval)
		defer timer.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-timer.C:
			}

			if err := syncer.SyncCaptured(ctx); err != nil {
				if ctx.Err() != nil {
					return
				}
				failures++
				wait := calculateBackoff(failures, interval)
				logger.Warn("captured sync failed",
					zap.Int("failures", failures),
					zap.Duration("retry_in", wait),
					zap.Error(err))
				timer.Reset(wait)
				continue
			}
			if failures > 0 {
				logger.Info("captured sync recovered", zap.Int("after_failures", failures))
			}
			failures = 0
			timer.Reset(interval)
		}
	}()
	return done
}

// calculateBackoff returns the wait after the given number of consecutive
// failures: base doubled per failure, capped at maxBackoff.
func calculateBackoff(failures int, base time.Duration) time.Duration {
	if failures <= 0 || base <= 0 {
		return base
	}
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = base
	b.RandomizationFactor = 0
	b.Multiplier = 2
	b.MaxInterval = maxBackoff
	b.MaxElapsedTime = 0
	b.Reset()

	wait := base
	for range failures + 1 {
		wait = b.NextBackOff()
	}
	return min(wait, maxBackoff)
}
