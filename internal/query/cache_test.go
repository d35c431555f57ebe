package query

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/preston-bernstein/casino-research-dashboard/internal/testutil"
)

func newFakeClock() *testutil.ManualClock {
	return testutil.NewManualClock(time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC))
}

func TestKeyHelpers(t *testing.T) {
	k := Key{"dashboard", "state-stats"}
	assert.Equal(t, "dashboard/state-stats", k.String())
	assert.NotEqual(t,
		Key{"comparisons", "golden", "x/"}.String(),
		Key{"comparisons", "golden/x", ""}.String(),
		"segments containing a slash must not collide")
	assert.Equal(t, "missing-casinos/a%2Fb", Key{"missing-casinos", "a/b"}.String())
	assert.True(t, k.HasPrefix(Key{"dashboard"}))
	assert.True(t, k.HasPrefix(Key{}))
	assert.False(t, k.HasPrefix(Key{"users"}))
	assert.False(t, Key{"dashboard"}.HasPrefix(k))

	base := Key{"missing-casinos"}
	child := base.Append("NJ", "")
	assert.Equal(t, Key{"missing-casinos", "NJ", ""}, child)
	assert.Len(t, base, 1)
}

func TestFetchStoresDataAndKeepsItOnFailure(t *testing.T) {
	cache := NewCache(CacheConfig{})
	fail := false
	q := New(cache, Key{"users"}, func(context.Context) (int, error) {
		if fail {
			return 0, errors.New("boom")
		}
		return 7, nil
	}, Options{})

	got, err := q.Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 7, got)

	fail = true
	_, err = q.Fetch(context.Background())
	require.Error(t, err)

	st := q.State()
	assert.True(t, st.HasData)
	assert.Equal(t, 7, st.Data)
	assert.EqualError(t, st.Err, "boom")
	assert.False(t, st.ErrorUpdatedAt.IsZero())
	assert.False(t, st.Fetching)
}

func TestLastFetchWins(t *testing.T) {
	cache := NewCache(CacheConfig{})
	release := make(chan struct{})
	started := make(chan struct{})
	var calls int
	var mu sync.Mutex

	q := New(cache, Key{"dashboard", "state-stats"}, func(context.Context) (string, error) {
		mu.Lock()
		calls++
		n := calls
		mu.Unlock()
		if n == 1 {
			close(started)
			<-release
			return "old", nil
		}
		return "new", nil
	}, Options{})

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = q.Fetch(context.Background())
	}()
	<-started

	got, err := q.Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "new", got)
	assert.True(t, q.State().Fetching)

	close(release)
	<-done

	st := q.State()
	assert.Equal(t, "new", st.Data)
	assert.False(t, st.Fetching)
}

func TestSetQueriesDataFencesInFlightFetches(t *testing.T) {
	cache := NewCache(CacheConfig{})
	release := make(chan struct{})
	started := make(chan struct{})
	first := true

	q := New(cache, Key{"dashboard", "state-stats"}, func(context.Context) (string, error) {
		if first {
			first = false
			return "researching", nil
		}
		close(started)
		<-release
		return "researching-late", nil
	}, Options{})

	_, err := q.Fetch(context.Background())
	require.NoError(t, err)

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = q.Fetch(context.Background())
	}()
	<-started

	n := SetQueriesData(cache, Key{"dashboard"}, func(string) string { return "idle" })
	assert.Equal(t, 1, n)

	close(release)
	<-done
	assert.Equal(t, "idle", q.State().Data)
}

func TestSetQueriesDataSkipsOtherTypesAndEmptyEntries(t *testing.T) {
	cache := NewCache(CacheConfig{})
	_, err := New(cache, Key{"dashboard", "a"}, func(context.Context) (int, error) { return 1, nil }, Options{}).Fetch(context.Background())
	require.NoError(t, err)
	_, err = New(cache, Key{"dashboard", "b"}, func(context.Context) (string, error) { return "x", nil }, Options{}).Fetch(context.Background())
	require.NoError(t, err)
	cache.Observe(Key{"dashboard", "c"}, func(context.Context) error { return nil })

	n := SetQueriesData(cache, Key{"dashboard"}, func(v int) int { return v + 1 })
	assert.Equal(t, 1, n)

	v, ok := Peek[int](cache, Key{"dashboard", "a"})
	require.True(t, ok)
	assert.Equal(t, 2, v)
}

func TestInvalidateRefetchesObservedEntries(t *testing.T) {
	cache := NewCache(CacheConfig{})
	var fetches int
	q := New(cache, Key{"dashboard", "state-stats"}, func(context.Context) (int, error) {
		fetches++
		return fetches, nil
	}, Options{})
	_, err := q.Fetch(context.Background())
	require.NoError(t, err)

	unobserved := New(cache, Key{"dashboard", "other"}, func(context.Context) (int, error) { return 1, nil }, Options{})
	_, err = unobserved.Fetch(context.Background())
	require.NoError(t, err)

	q.Observe()
	q.Observe()
	require.NoError(t, cache.Invalidate(context.Background(), Key{"dashboard"}))

	assert.Equal(t, 2, fetches)
	assert.Equal(t, 2, q.State().Data)
	assert.False(t, q.State().Invalidated)
	assert.True(t, unobserved.State().Invalidated)
	assert.True(t, unobserved.State().Stale)

	q.Close()
	require.NoError(t, cache.Invalidate(context.Background(), Key{"dashboard"}))
	assert.Equal(t, 2, fetches)
}

func TestInvalidateJoinsRefetchErrors(t *testing.T) {
	cache := NewCache(CacheConfig{})
	errA := errors.New("a failed")
	errB := errors.New("b failed")
	cache.Observe(Key{"x", "a"}, func(context.Context) error { return errA })
	cache.Observe(Key{"x", "b"}, func(context.Context) error { return errB })

	err := cache.Invalidate(context.Background(), Key{"x"})
	assert.ErrorIs(t, err, errA)
	assert.ErrorIs(t, err, errB)
}

func TestRemoveDiscardsInFlightResults(t *testing.T) {
	cache := NewCache(CacheConfig{})
	release := make(chan struct{})
	started := make(chan struct{})
	q := New(cache, Key{"missing-casinos", "NJ"}, func(context.Context) (int, error) {
		close(started)
		<-release
		return 1, nil
	}, Options{})

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = q.Fetch(context.Background())
	}()
	<-started

	assert.Equal(t, 1, cache.Remove(Key{"missing-casinos"}))
	close(release)
	<-done

	_, ok := cache.Get(Key{"missing-casinos", "NJ"})
	assert.False(t, ok)
}

func TestStaleAndGCUseClock(t *testing.T) {
	clock := newFakeClock()
	cache := NewCache(CacheConfig{Now: clock.Now})
	q := New(cache, Key{"users"}, func(context.Context) (int, error) { return 1, nil }, Options{})
	_, err := q.Fetch(context.Background())
	require.NoError(t, err)
	assert.False(t, q.State().Stale)

	clock.Advance(DefaultStaleTime)
	assert.True(t, q.State().Stale)

	q.Observe()
	clock.Advance(DefaultGCTime)
	assert.Equal(t, 0, cache.GC())

	q.Close()
	assert.Equal(t, 1, cache.GC())
	assert.Equal(t, 0, cache.Len())
}

func TestEnsureUsesFreshData(t *testing.T) {
	clock := newFakeClock()
	cache := NewCache(CacheConfig{Now: clock.Now})
	var fetches int
	q := New(cache, Key{"users"}, func(context.Context) (int, error) {
		fetches++
		return fetches, nil
	}, Options{})

	v, err := q.Ensure(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, v)

	v, err = q.Ensure(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, v)

	clock.Advance(DefaultStaleTime + time.Second)
	v, err = q.Ensure(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, v)
}

func TestOnSettledReportsAppliedResults(t *testing.T) {
	cache := NewCache(CacheConfig{})
	var applied []bool
	q := New(cache, Key{"users"}, func(context.Context) (int, error) { return 1, nil }, Options{
		OnSettled: func(ok bool, err error) {
			require.NoError(t, err)
			applied = append(applied, ok)
		},
	})
	_, err := q.Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []bool{true}, applied)
}
