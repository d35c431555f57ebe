package query

import "sync"

// Tentative is a local value with a staged write that is either committed or rolled back.
type Tentative[T any] struct {
	mu        sync.Mutex
	committed T
	staged    T
	pending   bool
}

// Value returns the staged value while one is pending, otherwise the committed value.
func (t *Tentative[T]) Value() T {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.pending {
		return t.staged
	}
	return t.committed
}

// Stage records v without committing it. A later Stage replaces it.
func (t *Tentative[T]) Stage(v T) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.staged = v
	t.pending = true
}

func (t *Tentative[T]) Commit() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.pending {
		t.committed = t.staged
		t.pending = false
	}
}

func (t *Tentative[T]) Rollback() {
	t.mu.Lock()
	defer t.mu.Unlock()
	var zero T
	t.staged = zero
	t.pending = false
}

// Set overwrites the committed value; a pending stage still takes precedence.
func (t *Tentative[T]) Set(v T) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.committed = v
}

func (t *Tentative[T]) Pending() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.pending
}
