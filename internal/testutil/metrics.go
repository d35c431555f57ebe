package testutil

import (
	"context"
	"testing"

	"github.com/preston-bernstein/casino-research-dashboard/internal/metrics"
)

// NewRecorderWithShutdown returns a recorder and a no-op shutdown to simplify tests.
func NewRecorderWithShutdown() (*metrics.Recorder, func(context.Context) error) {
	return metrics.NewRecorder(), func(context.Context) error { return nil }
}

// AssertCalls fails unless endpoint saw exactly calls backend requests, errs of which failed.
func AssertCalls(t *testing.T, rec *metrics.Recorder, endpoint string, calls, errs int) {
	t.Helper()
	snap := rec.Snapshot(endpoint)
	if snap.Calls != calls || snap.Errors != errs {
		t.Fatalf("%s: expected %d calls and %d errors, got %+v", endpoint, calls, errs, snap)
	}
}
