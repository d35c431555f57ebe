package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/preston-bernstein/casino-research-dashboard/internal/apiclient"
	"github.com/preston-bernstein/casino-research-dashboard/internal/config"
	"github.com/preston-bernstein/casino-research-dashboard/internal/domain/casinos"
	"github.com/preston-bernstein/casino-research-dashboard/internal/domain/dashboard"
	"github.com/preston-bernstein/casino-research-dashboard/internal/domain/promotions"
	"github.com/preston-bernstein/casino-research-dashboard/internal/domain/users"
	"github.com/preston-bernstein/casino-research-dashboard/internal/fixtures"
	"github.com/preston-bernstein/casino-research-dashboard/internal/http/middleware"
	"github.com/preston-bernstein/casino-research-dashboard/internal/simulator"
	"github.com/preston-bernstein/casino-research-dashboard/internal/store"
	"github.com/preston-bernstein/casino-research-dashboard/internal/testutil"
)

type stubJob struct {
	Job
	pingErr error
}

func (s stubJob) Ping(ctx context.Context) error {
	_ = ctx
	return s.pingErr
}

func newTestHandler(t *testing.T, envelope string) *Handler {
	t.Helper()
	p := fixtures.New()
	st := store.NewMemoryStore(store.Seed{
		MissingCasinos: p.MissingCasinos(),
		Comparisons:    p.Comparisons(),
		Users:          p.Users(),
	}, nil)
	sim := simulator.New(simulator.NewMemoryStore(), simulator.Options{
		Tick:     time.Hour,
		Baseline: simulator.BaselineFrom(p.StateStats()),
	})
	t.Cleanup(sim.Close)
	return NewHandler(st, sim, p.StateStats, envelope, nil)
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	out, err := apiclient.Decode[T](rr.Body.Bytes())
	if err != nil {
		t.Fatalf("failed to decode response %s: %v", rr.Body.String(), err)
	}
	return out
}

func patch(h http.Handler, path, body string) *httptest.ResponseRecorder {
	return testutil.Serve(h, http.MethodPatch, path, strings.NewReader(body))
}

func TestHealth(t *testing.T) {
	h := newTestHandler(t, config.EnvelopeWrapped)

	rr := testutil.Serve(h, http.MethodGet, "/health", nil)
	testutil.AssertStatus(t, rr, http.StatusOK)

	var resp map[string]string
	testutil.DecodeJSON(t, rr, &resp)
	if resp["status"] != "ok" {
		t.Fatalf("expected status ok, got %s", resp["status"])
	}
}

func TestHealthShuttingDownReturnsServiceUnavailable(t *testing.T) {
	h := newTestHandler(t, config.EnvelopeWrapped)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	ctx, cancel := context.WithCancel(req.Context())
	cancel()
	rr := testutil.ServeRequest(http.HandlerFunc(h.Health), req.WithContext(ctx))

	testutil.AssertStatus(t, rr, http.StatusServiceUnavailable)
	var resp map[string]string
	testutil.DecodeJSON(t, rr, &resp)
	if resp["error"] != "shutting down" {
		t.Fatalf("unexpected error %q", resp["error"])
	}
}

func TestReady(t *testing.T) {
	h := newTestHandler(t, config.EnvelopeWrapped)
	rr := testutil.Serve(h, http.MethodGet, "/ready", nil)
	testutil.AssertStatus(t, rr, http.StatusOK)

	noJob := NewHandler(nil, nil, nil, config.EnvelopeWrapped, nil)
	rr = testutil.Serve(noJob, http.MethodGet, "/ready", nil)
	testutil.AssertStatus(t, rr, http.StatusOK)
}

func TestReadyReportsJobStoreFailure(t *testing.T) {
	h := NewHandler(nil, stubJob{pingErr: errors.New("connection refused")}, nil, config.EnvelopeWrapped, nil)

	rr := testutil.Serve(h, http.MethodGet, "/ready", nil)
	testutil.AssertStatus(t, rr, http.StatusServiceUnavailable)
	if !strings.Contains(rr.Body.String(), "connection refused") {
		t.Fatalf("expected ping error in body, got %s", rr.Body.String())
	}
}

func TestStateStatsWrappedEnvelope(t *testing.T) {
	h := newTestHandler(t, config.EnvelopeWrapped)

	rr := testutil.Serve(h, http.MethodGet, "/dashboard/state-stats", nil)
	testutil.AssertStatus(t, rr, http.StatusOK)
	if !strings.Contains(rr.Body.String(), `"IsSuccess":true`) {
		t.Fatalf("expected wrapped envelope, got %s", rr.Body.String())
	}

	snap := decode[dashboard.Snapshot](t, rr)
	if len(snap.Data) != 4 || snap.AnyResearching() {
		t.Fatalf("expected 4 idle states, got %+v", snap.Data)
	}
	if snap.Totals().CasinosTracked != 53 {
		t.Fatalf("unexpected casinos tracked %d", snap.Totals().CasinosTracked)
	}
}

func TestStateStatsRawEnvelope(t *testing.T) {
	h := newTestHandler(t, config.EnvelopeRaw)

	rr := testutil.Serve(h, http.MethodGet, "/dashboard/state-stats", nil)
	testutil.AssertStatus(t, rr, http.StatusOK)
	if strings.Contains(rr.Body.String(), "IsSuccess") {
		t.Fatalf("expected raw payload, got %s", rr.Body.String())
	}
	if snap := decode[dashboard.Snapshot](t, rr); len(snap.Data) != 4 {
		t.Fatalf("expected 4 states, got %d", len(snap.Data))
	}
}

func TestResearchStatusStartAndStop(t *testing.T) {
	h := newTestHandler(t, config.EnvelopeWrapped)

	rr := testutil.ServeJSON(t, h, http.MethodPost, "/dashboard/research-status", map[string]string{"action": "start"})
	testutil.AssertStatus(t, rr, http.StatusOK)
	started := decode[dashboard.ResearchStatus](t, rr)
	if !started.Success || started.Status != dashboard.StatusResearching || started.Message != "Research started successfully" {
		t.Fatalf("unexpected start response %+v", started)
	}

	rr = testutil.Serve(h, http.MethodGet, "/dashboard/state-stats", nil)
	if snap := decode[dashboard.Snapshot](t, rr); !snap.AnyResearching() {
		t.Fatalf("expected researching after start")
	}

	rr = testutil.ServeJSON(t, h, http.MethodPost, "/dashboard/research-status", map[string]string{"action": "stop"})
	testutil.AssertStatus(t, rr, http.StatusOK)
	stopped := decode[dashboard.ResearchStatus](t, rr)
	if stopped.Status != dashboard.StatusIdle || stopped.Message != "Research stopped successfully" {
		t.Fatalf("unexpected stop response %+v", stopped)
	}

	rr = testutil.Serve(h, http.MethodGet, "/dashboard/state-stats", nil)
	if snap := decode[dashboard.Snapshot](t, rr); snap.AnyResearching() {
		t.Fatalf("expected idle after stop")
	}
}

func TestResearchStatusRejectsBadInput(t *testing.T) {
	h := newTestHandler(t, config.EnvelopeWrapped)

	tests := []struct {
		name string
		body string
	}{
		{"unknown action", `{"action":"pause"}`},
		{"malformed body", `{"action":`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := testutil.Serve(h, http.MethodPost, "/dashboard/research-status", strings.NewReader(tt.body))
			testutil.AssertStatus(t, rr, http.StatusBadRequest)
			_, err := apiclient.Decode[dashboard.ResearchStatus](rr.Body.Bytes())
			if !apiclient.IsApplicationError(err) {
				t.Fatalf("expected wrapped failure envelope, got %v", err)
			}
		})
	}
}

func TestMissingCasinosFilterByState(t *testing.T) {
	h := newTestHandler(t, config.EnvelopeWrapped)

	rr := testutil.Serve(h, http.MethodGet, "/missing-casinos?state=NJ", nil)
	testutil.AssertStatus(t, rr, http.StatusOK)

	page := decode[casinos.Page](t, rr)
	if len(page.Data) != 5 {
		t.Fatalf("expected 5 NJ casinos, got %d", len(page.Data))
	}
	for _, c := range page.Data {
		if c.State.Abbreviation != "NJ" {
			t.Fatalf("unexpected state %s", c.State.Abbreviation)
		}
	}
	if page.Pagination.Limit != defaultMissingLimit {
		t.Fatalf("expected default limit, got %d", page.Pagination.Limit)
	}
}

func TestMissingCasinosSearchAndWindow(t *testing.T) {
	h := newTestHandler(t, config.EnvelopeRaw)

	rr := testutil.Serve(h, http.MethodGet, "/missing-casinos?search=ATLANTIC&limit=2&offset=2", nil)
	testutil.AssertStatus(t, rr, http.StatusOK)

	page := decode[casinos.Page](t, rr)
	if page.Pagination.Total != 3 || len(page.Data) != 1 {
		t.Fatalf("unexpected page %+v", page.Pagination)
	}
	if page.Pagination.HasNext || !page.Pagination.HasPrevious || page.Pagination.Page != 2 {
		t.Fatalf("unexpected pagination %+v", page.Pagination)
	}
}

func TestMissingCasinosRejectsInvalidParams(t *testing.T) {
	h := newTestHandler(t, config.EnvelopeWrapped)

	for _, path := range []string{
		"/missing-casinos?limit=abc",
		"/missing-casinos?limit=0",
		"/missing-casinos?offset=-5",
	} {
		rr := testutil.Serve(h, http.MethodGet, path, nil)
		testutil.AssertStatus(t, rr, http.StatusBadRequest)
	}
}

func TestComparisonsDefaults(t *testing.T) {
	h := newTestHandler(t, config.EnvelopeWrapped)

	rr := testutil.Serve(h, http.MethodGet, "/promotions/comparisons", nil)
	testutil.AssertStatus(t, rr, http.StatusOK)

	page := decode[promotions.Page](t, rr)
	if len(page.Data) != 10 || page.Pagination.Page != 1 || page.Pagination.Limit != 10 {
		t.Fatalf("unexpected default page %+v", page.Pagination)
	}
	for _, c := range page.Data {
		if err := c.Validate(); err != nil {
			t.Fatalf("served invalid comparison: %v", err)
		}
	}
}

func TestComparisonsFilters(t *testing.T) {
	h := newTestHandler(t, config.EnvelopeWrapped)

	rr := testutil.Serve(h, http.MethodGet, "/promotions/comparisons?status=pending&insight=better&state=NJ&page=1&limit=10", nil)
	page := decode[promotions.Page](t, rr)
	if page.Pagination.Total != 2 {
		t.Fatalf("expected comp-001 and comp-008, got %+v", page.Data)
	}

	rr = testutil.Serve(h, http.MethodGet, "/promotions/comparisons?casino=parx&offer_type=Deposit%20Bonus", nil)
	page = decode[promotions.Page](t, rr)
	if len(page.Data) != 1 || page.Data[0].ID != "comp-007" {
		t.Fatalf("expected comp-007, got %+v", page.Data)
	}

	rr = testutil.Serve(h, http.MethodGet, "/promotions/comparisons?page=0", nil)
	testutil.AssertStatus(t, rr, http.StatusBadRequest)
}

func TestUpdateComparisonIgnore(t *testing.T) {
	h := newTestHandler(t, config.EnvelopeWrapped)

	rr := patch(h, "/promotions/comparisons/comp-001", `{"action":"ignore","notes":"duplicate"}`)
	testutil.AssertStatus(t, rr, http.StatusOK)

	resp := decode[promotions.UpdateResponse](t, rr)
	if !resp.Success || resp.Message != "Comparison ignored successfully" {
		t.Fatalf("unexpected response %+v", resp)
	}
	if resp.Comparison.Status != promotions.StatusIgnored {
		t.Fatalf("expected ignored, got %s", resp.Comparison.Status)
	}

	rr = testutil.Serve(h, http.MethodGet, "/promotions/comparisons?promotion_id=comp-001&status=ignored", nil)
	page := decode[promotions.Page](t, rr)
	if len(page.Data) != 1 || page.Data[0].Status != promotions.StatusIgnored {
		t.Fatalf("expected comp-001 ignored on refetch, got %+v", page.Data)
	}
}

func TestUpdateComparisonNotFound(t *testing.T) {
	h := newTestHandler(t, config.EnvelopeWrapped)

	rr := patch(h, "/promotions/comparisons/comp-999", `{"action":"update"}`)
	testutil.AssertStatus(t, rr, http.StatusNotFound)

	var body map[string]any
	testutil.DecodeJSON(t, rr, &body)
	if body["Error"] != "Comparison not found" || body["code"] != "NOT_FOUND" || body["IsSuccess"] != false {
		t.Fatalf("unexpected not found body %+v", body)
	}
}

func TestUpdateComparisonRejectsBadInput(t *testing.T) {
	h := newTestHandler(t, config.EnvelopeWrapped)

	rr := patch(h, "/promotions/comparisons/comp-001", `{"action":"approve"}`)
	testutil.AssertStatus(t, rr, http.StatusBadRequest)

	rr = patch(h, "/promotions/comparisons/comp-001", `not json`)
	testutil.AssertStatus(t, rr, http.StatusBadRequest)

	rr = patch(h, "/promotions/comparisons/a%2Fb", `{"action":"add"}`)
	testutil.AssertStatus(t, rr, http.StatusBadRequest)
}

func TestUsers(t *testing.T) {
	h := newTestHandler(t, config.EnvelopeRaw)

	rr := testutil.Serve(h, http.MethodGet, "/users", nil)
	testutil.AssertStatus(t, rr, http.StatusOK)

	list := decode[[]users.BackendUser](t, rr)
	if len(list) != 8 {
		t.Fatalf("expected 8 users, got %d", len(list))
	}
}

func TestUnknownRouteReturnsNotFound(t *testing.T) {
	h := newTestHandler(t, config.EnvelopeRaw)

	rr := testutil.Serve(h, http.MethodGet, "/casinos", nil)
	testutil.AssertStatus(t, rr, http.StatusNotFound)

	var body map[string]any
	testutil.DecodeJSON(t, rr, &body)
	if body["error"] != "not found" {
		t.Fatalf("expected raw error shape, got %+v", body)
	}
}

func TestMethodNotAllowedHandlers(t *testing.T) {
	h := newTestHandler(t, config.EnvelopeWrapped)

	tests := []struct {
		name   string
		method string
		path   string
	}{
		{"health", http.MethodPost, "/health"},
		{"ready", http.MethodPost, "/ready"},
		{"stateStats", http.MethodPost, "/dashboard/state-stats"},
		{"researchStatus", http.MethodGet, "/dashboard/research-status"},
		{"missingCasinos", http.MethodDelete, "/missing-casinos"},
		{"comparisons", http.MethodPost, "/promotions/comparisons"},
		{"updateComparison", http.MethodGet, "/promotions/comparisons/comp-001"},
		{"users", http.MethodPut, "/users"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := testutil.Serve(h, tt.method, tt.path, nil)
			testutil.AssertStatus(t, rr, http.StatusMethodNotAllowed)
			if rr.Header().Get("Allow") == "" {
				t.Fatalf("expected Allow header")
			}
		})
	}
}

func TestRequestIDPropagatesThroughMiddleware(t *testing.T) {
	h := newTestHandler(t, config.EnvelopeWrapped)
	wrapped := middleware.LoggingMiddleware(nil, nil, h)

	req := httptest.NewRequest(http.MethodGet, "/missing", nil)
	req.Header.Set("X-Request-ID", "req-123")
	rr := testutil.ServeRequest(wrapped, req)

	testutil.AssertStatus(t, rr, http.StatusNotFound)
	if !strings.Contains(rr.Body.String(), "req-123") {
		t.Fatalf("expected request id in error body, got %s", rr.Body.String())
	}
}

func BenchmarkStateStats(b *testing.B) {
	p := fixtures.New()
	sim := simulator.New(nil, simulator.Options{Baseline: simulator.BaselineFrom(p.StateStats())})
	defer sim.Close()
	h := NewHandler(nil, sim, p.StateStats, config.EnvelopeWrapped, nil)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		testutil.Serve(h, http.MethodGet, "/dashboard/state-stats", nil)
	}
}
