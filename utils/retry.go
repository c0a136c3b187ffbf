package utils

import (
	"context"
	"fmt"
	"time"
)

// RetryWithPause retries a function up to maxAttempts times with a fixed
// pause between attempts. The pause is skipped before the first attempt and
// aborted early when the context is canceled.
func RetryWithPause(ctx context.Context, maxAttempts int, pause time.Duration, logger *Logger, fn func() error) error {
	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if attempt > 1 {
			logger.Warn("Retrying (attempt %d/%d) after %v...", attempt, maxAttempts, pause)
			select {
			case <-time.After(pause):
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		if err := fn(); err != nil {
			lastErr = err
			logger.Error("Attempt %d failed: %v", attempt, err)
			continue
		}
		return nil
	}
	return fmt.Errorf("all %d attempts failed, last error: %w", maxAttempts, lastErr)
}
