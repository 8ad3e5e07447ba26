package translation

import (
	"context"
	"errors"
	"log/slog"
	"math/rand/v2"
	"time"
)

// RetryPolicy controls how failed completion attempts are retried
type RetryPolicy struct {
	MaxRetries      int           // retries after the first attempt
	BaseDelay       time.Duration // doubled per attempt
	MaxJitter       time.Duration // random extra delay in [0, MaxJitter)
	ValidationDelay time.Duration // fixed delay after a validation failure
}

// DefaultRetryPolicy returns the policy used when none is configured
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxRetries:      3,
		BaseDelay:       time.Second,
		MaxJitter:       time.Second,
		ValidationDelay: 500 * time.Millisecond,
	}
}

// backoff returns the exponential delay before retry number attempt+1
func (p RetryPolicy) backoff(attempt int) time.Duration {
	d := p.BaseDelay << attempt
	if p.MaxJitter > 0 {
		d += rand.N(p.MaxJitter)
	}
	return d
}

// attemptFunc performs one attempt. escalated is true once a validation
// failure has happened within the same call.
type attemptFunc func(ctx context.Context, escalated bool) (string, error)

// retry runs fn until it succeeds, fails with a non-retryable error or the
// attempt budget is spent.
func (t *Translator) retry(ctx context.Context, op string, fn attemptFunc) (string, error) {
	escalated := false
	var lastErr error

	for attempt := 0; attempt <= t.policy.MaxRetries; attempt++ {
		out, err := fn(ctx, escalated)
		if err == nil {
			return out, nil
		}
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		lastErr = err

		kind := KindOf(err)
		if !kind.Retryable() || attempt == t.policy.MaxRetries {
			break
		}

		delay := t.policy.backoff(attempt)
		var terr *Error
		if errors.As(err, &terr) {
			switch {
			case terr.Kind == KindRateLimit && terr.RetryAfter > 0:
				delay = terr.RetryAfter
			case terr.Kind == KindValidation:
				delay = t.policy.ValidationDelay
				escalated = true
			}
		}

		t.logger.Warn("completion attempt failed, retrying",
			slog.String("op", op),
			slog.Int("attempt", attempt+1),
			slog.String("kind", string(kind)),
			slog.Duration("delay", delay),
			slog.Bool("escalated", escalated),
			slog.Any("error", err))

		if err := t.sleep(ctx, delay); err != nil {
			return "", err
		}
	}

	return "", lastErr
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
