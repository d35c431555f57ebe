package query

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/preston-bernstein/casino-research-dashboard/internal/logging"
)

const (
	DefaultStaleTime = 5 * time.Minute
	DefaultGCTime    = 10 * time.Minute
)

// Snapshot is a point-in-time copy of one cache entry.
type Snapshot struct {
	Key            Key
	Data           any
	HasData        bool
	Err            error
	DataUpdatedAt  time.Time
	ErrorUpdatedAt time.Time
	Invalidated    bool
	Fetching       bool
	Stale          bool
}

// RefetchFunc reloads an observed entry.
type RefetchFunc func(ctx context.Context) error

type entry struct {
	key            Key
	data           any
	hasData        bool
	err            error
	dataUpdatedAt  time.Time
	errorUpdatedAt time.Time
	invalidated    bool
	inFlight       int
	nextSeq        uint64
	appliedSeq     uint64
	observers      map[uint64]RefetchFunc
}

// ticket identifies one fetch. It is void once a newer result was applied or the entry was removed.
type ticket struct {
	entry *entry
	seq   uint64
}

// CacheConfig tunes a Cache; zero values fall back to the defaults.
type CacheConfig struct {
	StaleTime time.Duration
	GCTime    time.Duration
	Logger    *slog.Logger
	Now       func() time.Time
}

// Cache holds query results. Entries are written only by settled fetches,
// SetQueriesData and invalidation-driven refetches.
type Cache struct {
	mu        sync.Mutex
	entries   map[string]*entry
	nextID    uint64
	staleTime time.Duration
	gcTime    time.Duration
	logger    *slog.Logger
	now       func() time.Time
}

func NewCache(cfg CacheConfig) *Cache {
	if cfg.StaleTime <= 0 {
		cfg.StaleTime = DefaultStaleTime
	}
	if cfg.GCTime <= 0 {
		cfg.GCTime = DefaultGCTime
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Cache{
		entries:   make(map[string]*entry),
		staleTime: cfg.StaleTime,
		gcTime:    cfg.GCTime,
		logger:    cfg.Logger,
		now:       cfg.Now,
	}
}

func (c *Cache) ensure(key Key) *entry {
	id := key.String()
	e, ok := c.entries[id]
	if !ok {
		e = &entry{key: append(Key(nil), key...), observers: make(map[uint64]RefetchFunc)}
		c.entries[id] = e
	}
	return e
}

// begin registers an in-flight fetch for key.
func (c *Cache) begin(key Key) ticket {
	c.mu.Lock()
	defer c.mu.Unlock()
	e := c.ensure(key)
	e.nextSeq++
	e.inFlight++
	return ticket{entry: e, seq: e.nextSeq}
}

// settle applies a fetch result unless a newer fetch or write already landed.
// Failures keep the previous data.
func (c *Cache) settle(t ticket, data any, err error) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	e := t.entry
	if e.inFlight > 0 {
		e.inFlight--
	}
	if c.entries[e.key.String()] != e || t.seq <= e.appliedSeq {
		logging.Debug(c.logger, "discarding superseded fetch", logging.FieldQueryKey, e.key.String())
		return false
	}
	e.appliedSeq = t.seq
	now := c.now()
	if err != nil {
		e.err = err
		e.errorUpdatedAt = now
		return true
	}
	e.data = data
	e.hasData = true
	e.err = nil
	e.dataUpdatedAt = now
	e.invalidated = false
	return true
}

// Get returns a copy of the entry for key.
func (c *Cache) Get(key Key) (Snapshot, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key.String()]
	if !ok {
		return Snapshot{Key: key}, false
	}
	return c.snapshot(e), true
}

func (c *Cache) snapshot(e *entry) Snapshot {
	stale := !e.hasData || e.invalidated || c.now().Sub(e.dataUpdatedAt) >= c.staleTime
	return Snapshot{
		Key:            e.key,
		Data:           e.data,
		HasData:        e.hasData,
		Err:            e.err,
		DataUpdatedAt:  e.dataUpdatedAt,
		ErrorUpdatedAt: e.errorUpdatedAt,
		Invalidated:    e.invalidated,
		Fetching:       e.inFlight > 0,
		Stale:          stale,
	}
}

// Peek returns the typed data cached under key.
func Peek[T any](c *Cache, key Key) (T, bool) {
	snap, ok := c.Get(key)
	if !ok || !snap.HasData {
		var zero T
		return zero, false
	}
	data, ok := snap.Data.(T)
	return data, ok
}

// SetQueriesData rewrites the data of every entry under prefix that holds a T.
// The write supersedes every fetch already in flight for those entries.
// It returns the number of entries updated.
func SetQueriesData[T any](c *Cache, prefix Key, update func(T) T) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.now()
	updated := 0
	for _, e := range c.entries {
		if !e.key.HasPrefix(prefix) || !e.hasData {
			continue
		}
		current, ok := e.data.(T)
		if !ok {
			continue
		}
		e.data = update(current)
		e.dataUpdatedAt = now
		e.appliedSeq = e.nextSeq
		updated++
	}
	return updated
}

// Observe registers refetch as the reloader for key until the returned func is called.
func (c *Cache) Observe(key Key, refetch RefetchFunc) func() {
	c.mu.Lock()
	defer c.mu.Unlock()
	e := c.ensure(key)
	c.nextID++
	id := c.nextID
	e.observers[id] = refetch
	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		delete(e.observers, id)
	}
}

// Invalidate marks every entry under prefix stale and synchronously refetches the
// observed ones. Refetch failures are joined into the returned error.
func (c *Cache) Invalidate(ctx context.Context, prefix Key) error {
	c.mu.Lock()
	var refetches []RefetchFunc
	for _, e := range c.entries {
		if !e.key.HasPrefix(prefix) {
			continue
		}
		e.invalidated = true
		for _, fn := range e.observers {
			refetches = append(refetches, fn)
		}
	}
	c.mu.Unlock()

	var errs []error
	for _, fn := range refetches {
		if err := fn(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Remove drops every entry under prefix; in-flight fetches for them are discarded on settle.
func (c *Cache) Remove(prefix Key) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	removed := 0
	for id, e := range c.entries {
		if e.key.HasPrefix(prefix) {
			delete(c.entries, id)
			removed++
		}
	}
	return removed
}

// GC sweeps unobserved, idle entries whose data is older than the gc time.
func (c *Cache) GC() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.now()
	removed := 0
	for id, e := range c.entries {
		if len(e.observers) > 0 || e.inFlight > 0 {
			continue
		}
		last := e.dataUpdatedAt
		if e.errorUpdatedAt.After(last) {
			last = e.errorUpdatedAt
		}
		if now.Sub(last) >= c.gcTime {
			delete(c.entries, id)
			removed++
		}
	}
	if removed > 0 {
		logging.Debug(c.logger, "query cache swept", logging.FieldCount, removed)
	}
	return removed
}

// Len reports the number of entries.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
