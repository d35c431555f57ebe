// Package notify carries user-facing toast notifications from the session to a sink.
package notify

import (
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/preston-bernstein/casino-research-dashboard/internal/logging"
)

// Variant selects how a notification is presented.
type Variant string

const (
	VariantDefault     Variant = "default"
	VariantDestructive Variant = "destructive"
	VariantSuccess     Variant = "success"
	VariantInfo        Variant = "info"
	VariantWarning     Variant = "warning"
)

type Notification struct {
	ID          string
	Title       string
	Description string
	Variant     Variant
	CreatedAt   time.Time
}

// Notifier receives notifications. Implementations must be safe for concurrent use.
type Notifier interface {
	Notify(n Notification)
}

// New builds a notification with a fresh id.
func New(variant Variant, title, description string) Notification {
	if variant == "" {
		variant = VariantDefault
	}
	return Notification{
		ID:          uuid.NewString(),
		Title:       title,
		Description: description,
		Variant:     variant,
		CreatedAt:   time.Now(),
	}
}

func Success(title, description string) Notification {
	return New(VariantSuccess, title, description)
}

func Destructive(title, description string) Notification {
	return New(VariantDestructive, title, description)
}

func Info(title, description string) Notification {
	return New(VariantInfo, title, description)
}

// Discard drops every notification.
type Discard struct{}

func (Discard) Notify(Notification) {}

// Multi fans a notification out to every sink in order.
type Multi []Notifier

func (m Multi) Notify(n Notification) {
	for _, sink := range m {
		if sink != nil {
			sink.Notify(n)
		}
	}
}

// History keeps the most recent notifications, newest last.
type History struct {
	mu    sync.Mutex
	limit int
	items []Notification
}

func NewHistory(limit int) *History {
	if limit <= 0 {
		limit = 20
	}
	return &History{limit: limit}
}

func (h *History) Notify(n Notification) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.items = append(h.items, n)
	if over := len(h.items) - h.limit; over > 0 {
		h.items = append([]Notification(nil), h.items[over:]...)
	}
}

func (h *History) Items() []Notification {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]Notification(nil), h.items...)
}

// Log writes notifications to a structured logger at debug level.
type Log struct {
	Logger *slog.Logger
}

func (l Log) Notify(n Notification) {
	logging.Debug(l.Logger, "notification",
		"title", n.Title,
		"description", n.Description,
		"variant", string(n.Variant),
		"id", n.ID,
	)
}
