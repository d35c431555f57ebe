package query

import (
	"sync"
	"time"
)

// DefaultDebounce is the idle window applied to search input.
const DefaultDebounce = 300 * time.Millisecond

// Debouncer hands the latest pushed value to apply once input has been idle for wait.
type Debouncer[T any] struct {
	mu      sync.Mutex
	wait    time.Duration
	apply   func(T)
	timer   *time.Timer
	value   T
	pending bool
	gen     uint64
	stopped bool
}

func NewDebouncer[T any](wait time.Duration, apply func(T)) *Debouncer[T] {
	if wait <= 0 {
		wait = DefaultDebounce
	}
	return &Debouncer[T]{wait: wait, apply: apply}
}

// Push replaces the pending value and restarts the idle window.
func (d *Debouncer[T]) Push(v T) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped {
		return
	}
	d.value = v
	d.pending = true
	d.gen++
	gen := d.gen
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.wait, func() { d.fire(gen) })
}

func (d *Debouncer[T]) fire(gen uint64) {
	d.mu.Lock()
	if d.stopped || !d.pending || gen != d.gen {
		d.mu.Unlock()
		return
	}
	v := d.value
	d.pending = false
	d.mu.Unlock()
	d.apply(v)
}

// Flush applies the pending value immediately. It reports whether anything was pending.
func (d *Debouncer[T]) Flush() bool {
	d.mu.Lock()
	if d.stopped || !d.pending {
		d.mu.Unlock()
		return false
	}
	if d.timer != nil {
		d.timer.Stop()
	}
	v := d.value
	d.pending = false
	d.gen++
	d.mu.Unlock()
	d.apply(v)
	return true
}

func (d *Debouncer[T]) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pending
}

// Stop cancels any pending value; later pushes are ignored.
func (d *Debouncer[T]) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopped = true
	d.pending = false
	if d.timer != nil {
		d.timer.Stop()
	}
}
