package dashboard

import (
	"fmt"
	"time"

	"github.com/preston-bernstein/casino-research-dashboard/internal/domain"
)

// ResearchState is the per-state research status.
type ResearchState string

const (
	StatusIdle        ResearchState = "idle"
	StatusResearching ResearchState = "researching"
)

// ResearchAction toggles the server-side research job.
type ResearchAction string

const (
	ActionStart ResearchAction = "start"
	ActionStop  ResearchAction = "stop"
)

// ScheduleInterval separates the last research run from the next scheduled one.
const ScheduleInterval = 24 * time.Hour

// ParseResearchAction validates a raw action string.
func ParseResearchAction(raw string) (ResearchAction, error) {
	switch ResearchAction(raw) {
	case ActionStart, ActionStop:
		return ResearchAction(raw), nil
	default:
		return "", fmt.Errorf("invalid research action %q", raw)
	}
}

// StateStat carries the counters for one tracked state.
type StateStat struct {
	State              domain.State  `json:"state"`
	CasinosTracked     int           `json:"casinosTracked"`
	PromotionsActive   int           `json:"promotionsActive"`
	MissingCasinos     *int          `json:"missingCasinos,omitempty"`
	PendingComparisons *int          `json:"pendingComparisons,omitempty"`
	Status             ResearchState `json:"status"`
	LastUpdated        time.Time     `json:"lastUpdated"`
}

// Snapshot is one atomic fetch of per-state statistics.
type Snapshot struct {
	Data      []StateStat `json:"data"`
	Timestamp time.Time   `json:"timestamp"`
}

// AnyResearching reports whether at least one state is being researched.
func (s Snapshot) AnyResearching() bool {
	for _, stat := range s.Data {
		if stat.Status == StatusResearching {
			return true
		}
	}
	return false
}

// WithAllIdle returns a copy with every state idle and the timestamp moved to now.
func (s Snapshot) WithAllIdle(now time.Time) Snapshot {
	out := Snapshot{Data: make([]StateStat, len(s.Data)), Timestamp: now}
	for i, stat := range s.Data {
		stat.Status = StatusIdle
		out.Data[i] = stat
	}
	return out
}

// Totals sums counters across states; absent optional counters count as zero.
type Totals struct {
	CasinosTracked     int
	PromotionsActive   int
	MissingCasinos     int
	PendingComparisons int
}

func (s Snapshot) Totals() Totals {
	var t Totals
	for _, stat := range s.Data {
		t.CasinosTracked += stat.CasinosTracked
		t.PromotionsActive += stat.PromotionsActive
		if stat.MissingCasinos != nil {
			t.MissingCasinos += *stat.MissingCasinos
		}
		if stat.PendingComparisons != nil {
			t.PendingComparisons += *stat.PendingComparisons
		}
	}
	return t
}

// Schedule derives the last and next research runs from the snapshot timestamp.
type Schedule struct {
	LastRun time.Time
	NextRun time.Time
}

func (s Snapshot) Schedule() Schedule {
	return Schedule{LastRun: s.Timestamp, NextRun: s.Timestamp.Add(ScheduleInterval)}
}

// ResearchStatusRequest is the body of POST /dashboard/research-status.
type ResearchStatusRequest struct {
	Action ResearchAction `json:"action"`
}

// ResearchStatus is the backend acknowledgement of a start/stop request.
type ResearchStatus struct {
	Success bool          `json:"success"`
	Message string        `json:"message"`
	Status  ResearchState `json:"status"`
}

// IntPtr is a small helper for optional counters.
func IntPtr(v int) *int {
	return &v
}
