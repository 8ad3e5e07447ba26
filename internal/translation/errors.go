package translation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/sashabaranov/go-openai"
	"github.com/sony/gobreaker"
)

// Kind classifies translation failures for retry and reporting decisions
type Kind string

const (
	KindAuth         Kind = "auth"
	KindInvalidInput Kind = "invalid-input"
	KindRateLimit    Kind = "rate-limit"
	KindNetwork      Kind = "network"
	KindAPI          Kind = "api-error"
	KindValidation   Kind = "validation-error"
	KindUnsupported  Kind = "unsupported-language"
)

// Retryable reports whether a failure of this kind is worth another attempt
func (k Kind) Retryable() bool {
	switch k {
	case KindRateLimit, KindNetwork, KindValidation:
		return true
	default:
		return false
	}
}

// Error is a classified completion failure
type Error struct {
	Kind       Kind
	Op         string
	Status     int
	RetryAfter time.Duration
	Err        error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Op, e.Kind)
	if e.Status != 0 {
		msg += fmt.Sprintf(" (status %d)", e.Status)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf extracts the Kind of err. Errors that were never classified are
// reported as KindAPI.
func KindOf(err error) Kind {
	var terr *Error
	if errors.As(err, &terr) {
		return terr.Kind
	}
	return KindAPI
}

// IsUnsupported reports whether err means the input language is outside
// the supported set
func IsUnsupported(err error) bool {
	return KindOf(err) == KindUnsupported
}

// kindForStatus maps an HTTP status of a failed completion call
func kindForStatus(status int) Kind {
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return KindAuth
	case status == http.StatusBadRequest:
		return KindInvalidInput
	case status == http.StatusTooManyRequests:
		return KindRateLimit
	case status >= http.StatusInternalServerError:
		return KindNetwork
	default:
		return KindAPI
	}
}

// classify turns a go-openai error into an *Error. Cancellation of the
// caller's context is passed through untouched.
func classify(ctx context.Context, op string, err error, meta *responseMeta) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return statusError(op, apiErr.HTTPStatusCode, meta, err)
	}

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return statusError(op, reqErr.HTTPStatusCode, meta, err)
	}

	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return &Error{Kind: KindNetwork, Op: op, Err: err}
	}

	var urlErr *url.Error
	var netErr net.Error
	if errors.As(err, &urlErr) || errors.As(err, &netErr) {
		return &Error{Kind: KindNetwork, Op: op, Err: err}
	}

	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) {
		return &Error{Kind: KindAPI, Op: op, Err: fmt.Errorf("malformed response: %w", err)}
	}

	return &Error{Kind: KindAPI, Op: op, Err: err}
}

func statusError(op string, status int, meta *responseMeta, err error) *Error {
	e := &Error{Kind: kindForStatus(status), Op: op, Status: status, Err: err}
	if e.Kind == KindRateLimit && meta != nil {
		e.RetryAfter = meta.retryAfter
	}
	return e
}
