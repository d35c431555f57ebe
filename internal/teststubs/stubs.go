package teststubs

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/preston-bernstein/casino-research-dashboard/internal/notify"
)

// StubTask is a test double for poller.Task.
type StubTask struct {
	mu     sync.Mutex
	err    error
	Calls  atomic.Int32
	Notify chan struct{}
}

// SetErr changes the error returned by later calls.
func (s *StubTask) SetErr(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
}

// Run returns the configured error while tracking calls. Notify is closed on the first call.
func (s *StubTask) Run(ctx context.Context) error {
	_ = ctx
	if s.Notify != nil {
		select {
		case <-s.Notify:
		default:
			close(s.Notify)
		}
	}
	s.Calls.Add(1)
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// StubNotifier is a test double for notify.Notifier that records every notification.
type StubNotifier struct {
	mu   sync.Mutex
	sent []notify.Notification
}

func (n *StubNotifier) Notify(note notify.Notification) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, note)
}

// Sent returns a copy of the recorded notifications.
func (n *StubNotifier) Sent() []notify.Notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]notify.Notification(nil), n.sent...)
}

// Titles returns the titles of the recorded notifications in order.
func (n *StubNotifier) Titles() []string {
	sent := n.Sent()
	out := make([]string, len(sent))
	for i, note := range sent {
		out[i] = note.Title
	}
	return out
}

// StubRefresher counts dashboard refresh callbacks.
type StubRefresher struct {
	Calls atomic.Int32
}

func (r *StubRefresher) Refresh(ctx context.Context) {
	_ = ctx
	r.Calls.Add(1)
}
