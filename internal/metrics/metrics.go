package metrics

import (
	"sync"
	"time"
)

type endpointStats struct {
	calls           int
	errors          int
	retries         int
	lastCallLatency time.Duration
}

// Recorder captures in-memory metrics about backend calls and forwards them to
// OpenTelemetry instruments when Setup enabled them.
type Recorder struct {
	mu        sync.Mutex
	stats     map[string]*endpointStats
	mutations map[string]int
	otel      *otelInstruments
}

func NewRecorder() *Recorder {
	return newRecorder(nil)
}

func newRecorder(otel *otelInstruments) *Recorder {
	return &Recorder{
		stats:     make(map[string]*endpointStats),
		mutations: make(map[string]int),
		otel:      otel,
	}
}

// RecordAPICall increments counters for a backend call and stores the last observed latency.
func (r *Recorder) RecordAPICall(endpoint string, duration time.Duration, err error) {
	if r == nil {
		return
	}

	r.mu.Lock()
	stats := r.ensureStats(endpoint)
	stats.calls++
	stats.lastCallLatency = duration
	if err != nil {
		stats.errors++
	}
	r.mu.Unlock()

	if r.otel != nil {
		r.otel.recordAPICall(endpoint, duration, err)
	}
}

// RecordQueryRetry tracks that a query fetch is being retried.
func (r *Recorder) RecordQueryRetry(key string) {
	if r == nil {
		return
	}

	r.mu.Lock()
	r.ensureStats(key).retries++
	r.mu.Unlock()

	if r.otel != nil {
		r.otel.recordRetry(key)
	}
}

// RecordMutation counts a user-initiated mutation and its outcome.
func (r *Recorder) RecordMutation(name string, err error) {
	if r == nil {
		return
	}

	r.mu.Lock()
	r.mutations[name]++
	r.mu.Unlock()

	if r.otel != nil {
		r.otel.recordMutation(name, err)
	}
}

// Snapshot is a copy of the stats recorded for one endpoint or query key.
type Snapshot struct {
	Calls           int
	Errors          int
	Retries         int
	LastCallLatency time.Duration
}

func (r *Recorder) Snapshot(endpoint string) Snapshot {
	if r == nil {
		return Snapshot{}
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	stats, ok := r.stats[endpoint]
	if !ok || stats == nil {
		return Snapshot{}
	}
	return Snapshot{
		Calls:           stats.calls,
		Errors:          stats.errors,
		Retries:         stats.retries,
		LastCallLatency: stats.lastCallLatency,
	}
}

// Mutations returns how many times the named mutation ran.
func (r *Recorder) Mutations(name string) int {
	if r == nil {
		return 0
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.mutations[name]
}

// RecordHTTPRequest tracks basic HTTP metrics for requests served by the mock backend.
func (r *Recorder) RecordHTTPRequest(method, path string, status int, duration time.Duration) {
	if r == nil || r.otel == nil {
		return
	}
	r.otel.recordHTTPRequest(method, path, status, duration)
}

// RecordPollerCycle tracks poller cycles and errors.
func (r *Recorder) RecordPollerCycle(duration time.Duration, err error) {
	if r == nil || r.otel == nil {
		return
	}
	r.otel.recordPoller(duration, err)
}

// RecordJobTick tracks research job simulator progress.
func (r *Recorder) RecordJobTick(progress float64) {
	if r == nil || r.otel == nil {
		return
	}
	r.otel.recordJobTick(progress)
}

// caller holds r.mu
func (r *Recorder) ensureStats(endpoint string) *endpointStats {
	stats, ok := r.stats[endpoint]
	if !ok {
		stats = &endpointStats{}
		r.stats[endpoint] = stats
	}
	return stats
}
