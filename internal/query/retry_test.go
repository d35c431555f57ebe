package query

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/preston-bernstein/casino-research-dashboard/internal/apiclient"
	"github.com/preston-bernstein/casino-research-dashboard/internal/metrics"
)

func fastRetry() RetryPolicy {
	return RetryPolicy{Retries: 3, Delay: time.Millisecond, MaxDelay: 5 * time.Millisecond}
}

func TestRetryableClassification(t *testing.T) {
	assert.False(t, Retryable(nil))
	assert.False(t, Retryable(&apiclient.HTTPError{StatusCode: http.StatusNotFound}))
	assert.False(t, Retryable(&apiclient.ApplicationError{Message: "nope"}))
	assert.False(t, Retryable(context.Canceled))
	assert.False(t, Retryable(&apiclient.TransportError{Method: http.MethodPatch, Err: fmt.Errorf("%w: bad", apiclient.ErrEncodeBody)}))
	assert.True(t, Retryable(&apiclient.TransportError{Method: http.MethodGet, Err: errors.New("connection refused")}))
	assert.True(t, Retryable(&apiclient.HTTPError{StatusCode: http.StatusBadGateway}))
	assert.True(t, Retryable(&apiclient.TimeoutError{}))
	assert.True(t, Retryable(errors.New("reset")))
}

func TestFetchRetriesTransientFailures(t *testing.T) {
	rec := metrics.NewRecorder()
	cache := NewCache(CacheConfig{})
	var attempts int
	q := New(cache, Key{"dashboard", "state-stats"}, func(context.Context) (int, error) {
		attempts++
		if attempts < 3 {
			return 0, &apiclient.HTTPError{StatusCode: http.StatusServiceUnavailable}
		}
		return 42, nil
	}, Options{Retry: fastRetry(), Metrics: rec})

	got, err := q.Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 42, got)
	assert.Equal(t, 3, attempts)
	assert.Equal(t, 2, rec.Snapshot("dashboard/state-stats").Retries)
}

func TestFetchGivesUpAfterRetries(t *testing.T) {
	cache := NewCache(CacheConfig{})
	var attempts int
	cause := errors.New("connection reset")
	q := New(cache, Key{"users"}, func(context.Context) (int, error) {
		attempts++
		return 0, cause
	}, Options{Retry: fastRetry()})

	_, err := q.Fetch(context.Background())
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, 4, attempts)
	assert.ErrorIs(t, q.State().Err, cause)
}

func TestFetchDoesNotRetryClientErrors(t *testing.T) {
	cache := NewCache(CacheConfig{})
	var attempts int
	q := New(cache, Key{"promotions", "comparisons"}, func(context.Context) (int, error) {
		attempts++
		return 0, &apiclient.HTTPError{StatusCode: http.StatusBadRequest, Message: "bad filter"}
	}, Options{Retry: fastRetry()})

	_, err := q.Fetch(context.Background())
	assert.True(t, apiclient.IsClientError(err))
	assert.Equal(t, 1, attempts)
}

func TestNoRetryRunsOnce(t *testing.T) {
	var attempts int
	err := NoRetry().run(context.Background(), nil, func() error {
		attempts++
		return errors.New("boom")
	})
	assert.Error(t, err)
	assert.Equal(t, 1, attempts)
}

func TestDefaultRetryPolicy(t *testing.T) {
	p := DefaultRetryPolicy()
	assert.Equal(t, 3, p.Retries)
	assert.Equal(t, time.Second, p.Delay)
	assert.Equal(t, 30*time.Second, p.MaxDelay)
}
