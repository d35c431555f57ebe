package query

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/preston-bernstein/casino-research-dashboard/internal/logging"
	"github.com/preston-bernstein/casino-research-dashboard/internal/metrics"
)

// FetchFunc loads the data for one key.
type FetchFunc[T any] func(ctx context.Context) (T, error)

// Options configures a Query.
type Options struct {
	Retry   RetryPolicy
	Metrics *metrics.Recorder
	Logger  *slog.Logger

	// OnSettled runs after every fetch, once its result has been applied or discarded.
	OnSettled func(applied bool, err error)
}

// State is the typed view of a cache entry.
type State[T any] struct {
	Data           T
	HasData        bool
	Err            error
	DataUpdatedAt  time.Time
	ErrorUpdatedAt time.Time
	Fetching       bool
	Stale          bool
	Invalidated    bool
}

// Query binds a key to its fetch function and routes results through the cache.
type Query[T any] struct {
	cache *Cache
	key   Key
	fetch FetchFunc[T]
	opts  Options

	mu        sync.Mutex
	unobserve func()
}

func New[T any](cache *Cache, key Key, fetch FetchFunc[T], opts Options) *Query[T] {
	return &Query[T]{cache: cache, key: key, fetch: fetch, opts: opts}
}

func (q *Query[T]) Key() Key {
	return q.key
}

// Fetch runs the fetch with the retry policy and settles the result into the cache.
// A result that lost the race to a newer fetch or write is returned but not cached.
func (q *Query[T]) Fetch(ctx context.Context) (T, error) {
	t := q.cache.begin(q.key)
	key := q.key.String()

	var data T
	err := q.opts.Retry.run(ctx, func(n uint, err error) {
		q.opts.Metrics.RecordQueryRetry(key)
		logging.Warn(q.opts.Logger, "retrying query",
			logging.FieldQueryKey, key,
			logging.FieldAttempt, n+1,
			"error", err,
		)
	}, func() error {
		var fetchErr error
		data, fetchErr = q.fetch(ctx)
		return fetchErr
	})

	applied := q.cache.settle(t, data, err)
	if q.opts.OnSettled != nil {
		q.opts.OnSettled(applied, err)
	}
	return data, err
}

// Ensure returns cached data while it is fresh and fetches otherwise.
func (q *Query[T]) Ensure(ctx context.Context) (T, error) {
	st := q.State()
	if st.HasData && !st.Stale {
		return st.Data, nil
	}
	return q.Fetch(ctx)
}

func (q *Query[T]) State() State[T] {
	snap, _ := q.cache.Get(q.key)
	st := State[T]{
		Err:            snap.Err,
		DataUpdatedAt:  snap.DataUpdatedAt,
		ErrorUpdatedAt: snap.ErrorUpdatedAt,
		Fetching:       snap.Fetching,
		Stale:          snap.Stale || !snap.HasData,
		Invalidated:    snap.Invalidated,
	}
	if data, ok := snap.Data.(T); ok && snap.HasData {
		st.Data = data
		st.HasData = true
	}
	return st
}

// Observe makes the query eligible for invalidation refetches. Repeated calls are no-ops.
func (q *Query[T]) Observe() {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.unobserve != nil {
		return
	}
	q.unobserve = q.cache.Observe(q.key, func(ctx context.Context) error {
		_, err := q.Fetch(ctx)
		return err
	})
}

// Close stops observing; cached data is left for GC.
func (q *Query[T]) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.unobserve != nil {
		q.unobserve()
		q.unobserve = nil
	}
}
