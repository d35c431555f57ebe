package handlers

import (
	"context"
	"log/slog"
	nethttp "net/http"
	"strings"
	"time"

	"github.com/preston-bernstein/casino-research-dashboard/internal/domain/casinos"
	"github.com/preston-bernstein/casino-research-dashboard/internal/domain/dashboard"
	"github.com/preston-bernstein/casino-research-dashboard/internal/domain/promotions"
	"github.com/preston-bernstein/casino-research-dashboard/internal/domain/users"
)

const (
	readyTimeout   = 2 * time.Second
	maxBodyBytes   = 1 << 20
	comparisonPath = "/promotions/comparisons"
)

// Store is the record store behind the data endpoints.
type Store interface {
	ListMissingCasinos(q casinos.Query) casinos.Page
	ListComparisons(f promotions.Filters) promotions.Page
	ApplyComparison(id string, action promotions.Action) (promotions.Comparison, error)
	ListUsers() []users.BackendUser
}

// Job is the research job the dashboard endpoints observe and toggle.
type Job interface {
	Start(ctx context.Context) (bool, error)
	Stop(ctx context.Context) (bool, error)
	Apply(ctx context.Context, snap dashboard.Snapshot) (dashboard.Snapshot, error)
	Ping(ctx context.Context) error
}

// Handler wires HTTP routes to the mock backend's store and research job.
type Handler struct {
	store    Store
	job      Job
	baseline func() dashboard.Snapshot
	resp     responder
	logger   *slog.Logger
}

// NewHandler constructs a Handler. envelope is config.EnvelopeWrapped or config.EnvelopeRaw.
func NewHandler(store Store, job Job, baseline func() dashboard.Snapshot, envelope string, logger *slog.Logger) *Handler {
	return &Handler{
		store:    store,
		job:      job,
		baseline: baseline,
		resp:     newResponder(envelope, logger),
		logger:   logger,
	}
}

func (h *Handler) ServeHTTP(w nethttp.ResponseWriter, r *nethttp.Request) {
	switch path := r.URL.Path; {
	case path == "/health":
		h.Health(w, r)
	case path == "/ready":
		h.Ready(w, r)
	case path == "/dashboard/state-stats":
		h.StateStats(w, r)
	case path == "/dashboard/research-status":
		h.ResearchStatus(w, r)
	case path == "/missing-casinos":
		h.MissingCasinos(w, r)
	case path == comparisonPath:
		h.Comparisons(w, r)
	case strings.HasPrefix(path, comparisonPath+"/"):
		h.UpdateComparison(w, r)
	case path == "/users":
		h.Users(w, r)
	default:
		h.resp.fail(w, r, nethttp.StatusNotFound, "not found", "NOT_FOUND")
	}
}

// Health reports the service health.
func (h *Handler) Health(w nethttp.ResponseWriter, r *nethttp.Request) {
	if !requireMethod(w, r, nethttp.MethodGet, h.logger) {
		return
	}
	if err := r.Context().Err(); err != nil {
		writeError(w, r, nethttp.StatusServiceUnavailable, "shutting down", h.logger)
		return
	}
	writeJSON(w, nethttp.StatusOK, map[string]string{"status": "ok"}, h.logger)
}

// Ready reports ready once the research job store answers.
func (h *Handler) Ready(w nethttp.ResponseWriter, r *nethttp.Request) {
	if !requireMethod(w, r, nethttp.MethodGet, h.logger) {
		return
	}
	if h.job == nil {
		writeJSON(w, nethttp.StatusOK, map[string]string{"status": "ready"}, h.logger)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), readyTimeout)
	defer cancel()
	if err := h.job.Ping(ctx); err != nil {
		writeError(w, r, nethttp.StatusServiceUnavailable, "job store unavailable: "+err.Error(), h.logger)
		return
	}
	writeJSON(w, nethttp.StatusOK, map[string]string{"status": "ready"}, h.logger)
}

func requireMethod(w nethttp.ResponseWriter, r *nethttp.Request, method string, logger *slog.Logger) bool {
	if r.Method == method {
		return true
	}
	w.Header().Set("Allow", method)
	writeError(w, r, nethttp.StatusMethodNotAllowed, "method not allowed", logger)
	return false
}

func (h *Handler) allow(w nethttp.ResponseWriter, r *nethttp.Request, method string) bool {
	if r.Method == method {
		return true
	}
	w.Header().Set("Allow", method)
	h.resp.fail(w, r, nethttp.StatusMethodNotAllowed, "method not allowed", "")
	return false
}
