package query

import (
	"context"
	"errors"
	"time"

	"github.com/codeGROOVE-dev/retry"

	"github.com/preston-bernstein/casino-research-dashboard/internal/apiclient"
)

const (
	defaultRetries    = 3
	defaultRetryDelay = time.Second
	maxRetryDelay     = 30 * time.Second
)

// RetryPolicy bounds how often a failed query fetch is repeated.
// Retries counts attempts after the first failure.
type RetryPolicy struct {
	Retries  int
	Delay    time.Duration
	MaxDelay time.Duration
}

// DefaultRetryPolicy retries three times with exponential backoff capped at 30s.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{Retries: defaultRetries, Delay: defaultRetryDelay, MaxDelay: maxRetryDelay}
}

// NoRetry runs the fetch exactly once.
func NoRetry() RetryPolicy {
	return RetryPolicy{}
}

// Retryable reports whether a fetch failure is worth repeating. Client errors,
// envelope failures, unencodable bodies and caller cancellation are final.
func Retryable(err error) bool {
	switch {
	case err == nil:
		return false
	case apiclient.IsClientError(err), apiclient.IsApplicationError(err):
		return false
	case errors.Is(err, context.Canceled), errors.Is(err, apiclient.ErrEncodeBody):
		return false
	default:
		return true
	}
}

func (p RetryPolicy) run(ctx context.Context, onRetry func(n uint, err error), fn func() error) error {
	if p.Retries <= 0 {
		return fn()
	}
	maxDelay := p.MaxDelay
	if maxDelay <= 0 {
		maxDelay = maxRetryDelay
	}
	jitter := p.Delay / 4
	if jitter <= 0 {
		jitter = time.Millisecond
	}

	var lastErr error
	err := retry.Do(
		func() error {
			lastErr = fn()
			return lastErr
		},
		retry.Attempts(uint(p.Retries)+1),
		retry.Delay(p.Delay),
		retry.MaxDelay(maxDelay),
		retry.MaxJitter(jitter),
		retry.Context(ctx),
		retry.OnRetry(func(n uint, err error) {
			if onRetry != nil && int(n) < p.Retries {
				onRetry(n, err)
			}
		}),
		retry.RetryIf(Retryable),
	)
	if err == nil {
		return nil
	}
	if lastErr != nil {
		return lastErr
	}
	return err
}
