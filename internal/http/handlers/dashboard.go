package handlers

import (
	"encoding/json"
	"log/slog"
	nethttp "net/http"

	"github.com/preston-bernstein/casino-research-dashboard/internal/domain/dashboard"
	"github.com/preston-bernstein/casino-research-dashboard/internal/logging"
)

// StateStats serves the baseline per-state counters with the research job overlaid.
func (h *Handler) StateStats(w nethttp.ResponseWriter, r *nethttp.Request) {
	if !h.allow(w, r, nethttp.MethodGet) {
		return
	}
	logger := loggerFromContext(r, h.logger)

	snap := h.baseline()
	if h.job != nil {
		var err error
		snap, err = h.job.Apply(r.Context(), snap)
		if err != nil {
			logging.Error(logger, "failed to load research job", err)
			h.resp.fail(w, r, nethttp.StatusInternalServerError, "failed to load state stats", "")
			return
		}
	}

	logging.Debug(logger, "served state stats",
		slog.Int(logging.FieldCount, len(snap.Data)),
		slog.Bool("researching", snap.AnyResearching()),
	)
	h.resp.ok(w, r, snap)
}

// ResearchStatus starts or stops the research job. Repeating the current state is
// acknowledged as a success.
func (h *Handler) ResearchStatus(w nethttp.ResponseWriter, r *nethttp.Request) {
	if !h.allow(w, r, nethttp.MethodPost) {
		return
	}
	logger := loggerFromContext(r, h.logger)

	var req dashboard.ResearchStatusRequest
	if err := json.NewDecoder(nethttp.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		h.resp.fail(w, r, nethttp.StatusBadRequest, "invalid request body", "")
		return
	}
	action, err := dashboard.ParseResearchAction(string(req.Action))
	if err != nil {
		h.resp.fail(w, r, nethttp.StatusBadRequest, "invalid action", "")
		return
	}
	if h.job == nil {
		h.resp.fail(w, r, nethttp.StatusServiceUnavailable, "research job not configured", "")
		return
	}

	var (
		changed bool
		resp    dashboard.ResearchStatus
	)
	switch action {
	case dashboard.ActionStart:
		changed, err = h.job.Start(r.Context())
		resp = dashboard.ResearchStatus{Success: true, Message: "Research started successfully", Status: dashboard.StatusResearching}
	default:
		changed, err = h.job.Stop(r.Context())
		resp = dashboard.ResearchStatus{Success: true, Message: "Research stopped successfully", Status: dashboard.StatusIdle}
	}
	if err != nil {
		logging.Error(logger, "research status update failed", err, slog.String(logging.FieldAction, string(action)))
		h.resp.fail(w, r, nethttp.StatusInternalServerError, "failed to update research status", "")
		return
	}

	logging.Info(logger, "research status updated",
		slog.String(logging.FieldAction, string(action)),
		slog.Bool("changed", changed),
	)
	h.resp.ok(w, r, resp)
}
