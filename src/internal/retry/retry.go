// Bounded exponential-backoff retries around single-attempt submissions.
package retry

import (
	"context"
	"time"

	"timberlogs/src/internal/core"

	"github.com/lixenwraith/log"
)

// Policy bounds retry behavior for one submission sequence. The initial
// attempt is always made; MaxRetries caps the additional attempts after it.
type Policy struct {
	MaxRetries   int
	InitialDelay time.Duration
	MaxDelay     time.Duration
}

// Backoff returns the wait before retry n (1-based): the initial delay
// doubled per retry, capped at MaxDelay.
func (p Policy) Backoff(n int) time.Duration {
	delay := p.InitialDelay
	for i := 1; i < n; i++ {
		delay *= 2
		if delay >= p.MaxDelay {
			return p.MaxDelay
		}
	}
	return min(delay, p.MaxDelay)
}

// Do runs fn, retrying retryable failures with exponential backoff until
// the policy is exhausted. Non-retryable failures return immediately.
// Backoff waits abort early when ctx is cancelled; the last submission
// error is still the one returned.
func (p Policy) Do(ctx context.Context, logger *log.Logger, fn func(context.Context) error) error {
	var lastErr error
	for attempt := 0; ; attempt++ {
		err := fn(ctx)
		if err == nil {
			return nil
		}
		lastErr = err

		if !core.Retryable(err) {
			return err
		}
		if attempt >= p.MaxRetries {
			break
		}

		delay := p.Backoff(attempt + 1)
		logger.Warn("msg", "Submission failed, will retry",
			"component", "retry",
			"attempt", attempt+1,
			"max_retries", p.MaxRetries,
			"delay_ms", delay.Milliseconds(),
			"error", err.Error())

		if waitErr := wait(ctx, delay); waitErr != nil {
			return lastErr
		}
	}
	return lastErr
}

func wait(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
