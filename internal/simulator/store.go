package simulator

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrNoJob is returned by a Store that has never saved a job.
var ErrNoJob = errors.New("job state not found")

// Counters are the per-state figures the research job grows.
type Counters struct {
	MissingCasinos     int `json:"missingCasinos"`
	PendingComparisons int `json:"pendingComparisons"`
	CasinosTracked     int `json:"casinosTracked"`
	PromotionsActive   int `json:"promotionsActive"`
}

// Job is the persisted research job state, keyed by state abbreviation.
type Job struct {
	Running   bool                `json:"running"`
	StartedAt time.Time           `json:"startedAt"`
	Progress  map[string]Counters `json:"progress"`
}

func (j Job) clone() Job {
	out := j
	out.Progress = make(map[string]Counters, len(j.Progress))
	for k, v := range j.Progress {
		out.Progress[k] = v
	}
	return out
}

// Store persists the job between ticks and across simulator instances.
type Store interface {
	Load(ctx context.Context) (Job, error)
	Save(ctx context.Context, job Job) error
	Ping(ctx context.Context) error
	Close() error
}

// MemoryStore keeps the job in process memory.
type MemoryStore struct {
	mu  sync.RWMutex
	job *Job
}

// NewMemoryStore constructs an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Load(ctx context.Context) (Job, error) {
	_ = ctx
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.job == nil {
		return Job{}, ErrNoJob
	}
	return s.job.clone(), nil
}

func (s *MemoryStore) Save(ctx context.Context, job Job) error {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()

	saved := job.clone()
	s.job = &saved
	return nil
}

func (s *MemoryStore) Ping(ctx context.Context) error {
	return ctx.Err()
}

func (s *MemoryStore) Close() error {
	return nil
}
