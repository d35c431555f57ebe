package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/preston-bernstein/casino-research-dashboard/internal/config"
	"github.com/preston-bernstein/casino-research-dashboard/internal/fixtures"
	"github.com/preston-bernstein/casino-research-dashboard/internal/http/handlers"
	"github.com/preston-bernstein/casino-research-dashboard/internal/simulator"
	"github.com/preston-bernstein/casino-research-dashboard/internal/store"
)

func newTestHandler(t *testing.T) *handlers.Handler {
	t.Helper()
	p := fixtures.New()
	ms := store.NewMemoryStore(store.Seed{
		MissingCasinos: p.MissingCasinos(),
		Comparisons:    p.Comparisons(),
		Users:          p.Users(),
	}, nil)
	sim := simulator.New(nil, simulator.Options{
		Tick:     time.Hour,
		Baseline: simulator.BaselineFrom(p.StateStats()),
	})
	t.Cleanup(sim.Close)
	return handlers.NewHandler(ms, sim, p.StateStats, config.EnvelopeWrapped, nil)
}

func TestRouterRoutesKnownPaths(t *testing.T) {
	router := NewRouter(newTestHandler(t), nil)

	cases := map[string]int{
		"/health":                          http.StatusOK,
		"/ready":                           http.StatusOK,
		"/dashboard/state-stats":           http.StatusOK,
		"/missing-casinos":                 http.StatusOK,
		"/promotions/comparisons":          http.StatusOK,
		"/users":                           http.StatusOK,
		"/promotions/comparisons/comp-001": http.StatusMethodNotAllowed,
	}

	for path, expected := range cases {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)
		if rr.Code != expected {
			t.Fatalf("route %s expected status %d, got %d", path, expected, rr.Code)
		}
	}
}

func TestRouterUnknownRouteReturns404(t *testing.T) {
	router := NewRouter(newTestHandler(t), nil)

	req := httptest.NewRequest(http.MethodGet, "/does-not-exist", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown route, got %d", rr.Code)
	}
}

func TestRouterMountsAdminOnlyWhenProvided(t *testing.T) {
	h := newTestHandler(t)

	req := httptest.NewRequest(http.MethodPost, "/admin/reset", nil)
	rr := httptest.NewRecorder()
	NewRouter(h, nil).ServeHTTP(rr, req)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404 without admin handler, got %d", rr.Code)
	}

	resets := 0
	admin := handlers.NewAdminHandler(func(ctx context.Context) error {
		resets++
		return nil
	}, "secret", nil)

	req = httptest.NewRequest(http.MethodPost, "/admin/reset", nil)
	req.Header.Set("Authorization", "Bearer secret")
	rr = httptest.NewRecorder()
	NewRouter(h, admin).ServeHTTP(rr, req)
	if rr.Code != http.StatusOK || resets != 1 {
		t.Fatalf("expected admin reset to run, got %d (resets=%d)", rr.Code, resets)
	}
}

func TestWrapAppliesCORSAndRequestID(t *testing.T) {
	wrapped := Wrap(NewRouter(newTestHandler(t), nil), Stack{CORSOrigin: "http://localhost:3000"})

	req := httptest.NewRequest(http.MethodOptions, "/dashboard/state-stats", nil)
	rr := httptest.NewRecorder()
	wrapped.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected preflight 200, got %d", rr.Code)
	}
	if got := rr.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:3000" {
		t.Fatalf("unexpected allow origin %q", got)
	}

	req = httptest.NewRequest(http.MethodGet, "/users", nil)
	req.Header.Set("X-Request-ID", "req-42")
	rr = httptest.NewRecorder()
	wrapped.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if got := rr.Header().Get("X-Request-ID"); got != "req-42" {
		t.Fatalf("expected request id echoed, got %q", got)
	}
}
