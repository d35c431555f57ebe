package store

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/preston-bernstein/casino-research-dashboard/internal/domain"
	"github.com/preston-bernstein/casino-research-dashboard/internal/domain/casinos"
	"github.com/preston-bernstein/casino-research-dashboard/internal/domain/promotions"
	"github.com/preston-bernstein/casino-research-dashboard/internal/domain/users"
)

// ErrNotFound is returned when a comparison id is unknown.
var ErrNotFound = errors.New("not found")

// Seed is the initial dataset loaded into a MemoryStore.
type Seed struct {
	MissingCasinos []casinos.MissingCasino
	Comparisons    []promotions.Comparison
	Users          []users.BackendUser
}

// MemoryStore keeps the mock backend's records in memory. Slices preserve fixture order.
type MemoryStore struct {
	mu          sync.RWMutex
	casinos     []casinos.MissingCasino
	comparisons []promotions.Comparison
	index       map[string]int
	users       []users.BackendUser
	now         func() time.Time
}

// NewMemoryStore constructs a MemoryStore from a seed.
func NewMemoryStore(seed Seed, now func() time.Time) *MemoryStore {
	if now == nil {
		now = time.Now
	}
	s := &MemoryStore{now: now}
	s.Reset(seed)
	return s
}

// Reset replaces every dataset with the seed.
func (s *MemoryStore) Reset(seed Seed) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.casinos = append([]casinos.MissingCasino(nil), seed.MissingCasinos...)
	s.comparisons = append([]promotions.Comparison(nil), seed.Comparisons...)
	s.users = append([]users.BackendUser(nil), seed.Users...)
	s.index = make(map[string]int, len(s.comparisons))
	for i, c := range s.comparisons {
		s.index[c.ID] = i
	}
}

// ListMissingCasinos filters by state and search, then returns the offset window.
func (s *MemoryStore) ListMissingCasinos(q casinos.Query) casinos.Page {
	s.mu.RLock()
	defer s.mu.RUnlock()

	filtered := make([]casinos.MissingCasino, 0, len(s.casinos))
	for _, c := range s.casinos {
		if q.Filters.Matches(c) {
			filtered = append(filtered, c)
		}
	}
	start, end := domain.Window(len(filtered), q.Offset, q.Limit)
	return casinos.Page{
		Data:       append([]casinos.MissingCasino{}, filtered[start:end]...),
		Pagination: domain.PageByOffset(len(filtered), q.Limit, q.Offset),
	}
}

// ListComparisons filters and returns one page by number.
func (s *MemoryStore) ListComparisons(f promotions.Filters) promotions.Page {
	s.mu.RLock()
	defer s.mu.RUnlock()

	filtered := make([]promotions.Comparison, 0, len(s.comparisons))
	for _, c := range s.comparisons {
		if f.Matches(c) {
			filtered = append(filtered, c)
		}
	}
	p := domain.PageByNumber(len(filtered), f.Limit, f.Page)
	start, end := domain.Window(len(filtered), (p.Page-1)*p.Limit, p.Limit)
	return promotions.Page{
		Data:       append([]promotions.Comparison{}, filtered[start:end]...),
		Pagination: p,
	}
}

// GetComparison retrieves a comparison by id.
func (s *MemoryStore) GetComparison(id string) (promotions.Comparison, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i, ok := s.index[id]
	if !ok {
		return promotions.Comparison{}, false
	}
	return s.comparisons[i], true
}

// ApplyComparison applies the action to the stored comparison and returns the result.
func (s *MemoryStore) ApplyComparison(id string, action promotions.Action) (promotions.Comparison, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.index[id]
	if !ok {
		return promotions.Comparison{}, fmt.Errorf("comparison %s: %w", id, ErrNotFound)
	}
	updated := s.comparisons[i].Apply(action, s.now().UTC())
	s.comparisons[i] = updated
	return updated, nil
}

// ListUsers returns a copy of every user.
func (s *MemoryStore) ListUsers() []users.BackendUser {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return append([]users.BackendUser{}, s.users...)
}
