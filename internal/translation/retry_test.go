package translation

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRetryTranslator(policy RetryPolicy) (*Translator, *sleepRecorder) {
	rec := &sleepRecorder{}
	return &Translator{
		policy: policy,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		sleep:  rec.sleep,
	}, rec
}

func TestRetryPolicy_Backoff(t *testing.T) {
	p := RetryPolicy{BaseDelay: 100 * time.Millisecond}
	assert.Equal(t, 100*time.Millisecond, p.backoff(0))
	assert.Equal(t, 200*time.Millisecond, p.backoff(1))
	assert.Equal(t, 400*time.Millisecond, p.backoff(2))

	p.MaxJitter = 50 * time.Millisecond
	for i := 0; i < 100; i++ {
		d := p.backoff(1)
		assert.GreaterOrEqual(t, d, 200*time.Millisecond)
		assert.Less(t, d, 250*time.Millisecond)
	}
}

func TestRetry_StopsOnNonRetryable(t *testing.T) {
	tr, rec := newRetryTranslator(RetryPolicy{MaxRetries: 3, BaseDelay: time.Millisecond})

	calls := 0
	_, err := tr.retry(context.Background(), "test", func(context.Context, bool) (string, error) {
		calls++
		return "", &Error{Kind: KindAuth, Op: "test", Err: errors.New("denied")}
	})

	require.Error(t, err)
	assert.Equal(t, 1, calls)
	assert.Empty(t, rec.recorded())
}

func TestRetry_UnclassifiedErrorIsNotRetried(t *testing.T) {
	tr, _ := newRetryTranslator(RetryPolicy{MaxRetries: 3})

	calls := 0
	_, err := tr.retry(context.Background(), "test", func(context.Context, bool) (string, error) {
		calls++
		return "", errors.New("boom")
	})

	require.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestRetry_EscalationIsSticky(t *testing.T) {
	tr, _ := newRetryTranslator(RetryPolicy{MaxRetries: 3, BaseDelay: time.Millisecond})

	var seen []bool
	_, err := tr.retry(context.Background(), "test", func(_ context.Context, escalated bool) (string, error) {
		seen = append(seen, escalated)
		switch len(seen) {
		case 1:
			return "", validationError("echo")
		case 2:
			return "", &Error{Kind: KindNetwork, Op: "test"}
		default:
			return "ok", nil
		}
	})

	require.NoError(t, err)
	assert.Equal(t, []bool{false, true, true}, seen)
}

func TestRetry_CanceledDuringSleep(t *testing.T) {
	tr := &Translator{
		policy: RetryPolicy{MaxRetries: 3, BaseDelay: time.Hour},
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		sleep:  sleepContext,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := tr.retry(ctx, "test", func(context.Context, bool) (string, error) {
		return "", &Error{Kind: KindNetwork, Op: "test"}
	})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestKind(t *testing.T) {
	retryable := map[Kind]bool{
		KindAuth:         false,
		KindInvalidInput: false,
		KindRateLimit:    true,
		KindNetwork:      true,
		KindAPI:          false,
		KindValidation:   true,
		KindUnsupported:  false,
	}
	for kind, want := range retryable {
		if got := kind.Retryable(); got != want {
			t.Errorf("%s.Retryable() = %v, want %v", kind, got, want)
		}
	}

	assert.Equal(t, KindAPI, KindOf(errors.New("plain")))
	wrapped := errors.Join(errors.New("ctx"), &Error{Kind: KindRateLimit})
	assert.Equal(t, KindRateLimit, KindOf(wrapped))
}

func TestError_Message(t *testing.T) {
	err := &Error{Kind: KindRateLimit, Op: "translate", Status: 429, Err: errors.New("slow down")}
	assert.Equal(t, "translate: rate-limit (status 429): slow down", err.Error())
	assert.Equal(t, "slow down", errors.Unwrap(err).Error())
}
