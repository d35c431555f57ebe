package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	nethttp "net/http"
	"net/url"
	"strings"

	"github.com/preston-bernstein/casino-research-dashboard/internal/domain/promotions"
	"github.com/preston-bernstein/casino-research-dashboard/internal/http/requestutil"
	"github.com/preston-bernstein/casino-research-dashboard/internal/logging"
	"github.com/preston-bernstein/casino-research-dashboard/internal/store"
)

const (
	defaultComparisonsPage  = 1
	defaultComparisonsLimit = 10
)

// Comparisons lists promotion comparisons with page-number pagination.
func (h *Handler) Comparisons(w nethttp.ResponseWriter, r *nethttp.Request) {
	if !h.allow(w, r, nethttp.MethodGet) {
		return
	}

	page, ok := requestutil.IntParam(r, "page", defaultComparisonsPage)
	if !ok || page == 0 {
		h.resp.fail(w, r, nethttp.StatusBadRequest, "invalid page", "")
		return
	}
	limit, ok := requestutil.IntParam(r, "limit", defaultComparisonsLimit)
	if !ok || limit == 0 {
		h.resp.fail(w, r, nethttp.StatusBadRequest, "invalid limit", "")
		return
	}

	q := r.URL.Query()
	filters := promotions.Filters{
		Status:      promotions.ComparisonStatus(q.Get("status")),
		Insight:     promotions.ComparisonType(q.Get("insight")),
		State:       q.Get("state"),
		Casino:      q.Get("casino"),
		OfferType:   q.Get("offer_type"),
		PromotionID: q.Get("promotion_id"),
		Page:        page,
		Limit:       limit,
	}
	result := h.store.ListComparisons(filters)

	logging.Debug(loggerFromContext(r, h.logger), "served comparisons",
		slog.Int(logging.FieldCount, len(result.Data)),
		slog.Int("page", result.Pagination.Page),
	)
	h.resp.ok(w, r, result)
}

// UpdateComparison applies a reviewer action to one comparison.
func (h *Handler) UpdateComparison(w nethttp.ResponseWriter, r *nethttp.Request) {
	if !h.allow(w, r, nethttp.MethodPatch) {
		return
	}
	logger := loggerFromContext(r, h.logger)

	raw := strings.TrimPrefix(r.URL.Path, comparisonPath+"/")
	id, err := url.PathUnescape(raw)
	if err != nil || id == "" || strings.ContainsAny(id, " \t/") {
		h.resp.fail(w, r, nethttp.StatusBadRequest, "invalid comparison id", "")
		return
	}

	var req promotions.UpdateRequest
	if err := json.NewDecoder(nethttp.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		h.resp.fail(w, r, nethttp.StatusBadRequest, "invalid request body", "")
		return
	}
	action, err := promotions.ParseAction(string(req.Action))
	if err != nil {
		h.resp.fail(w, r, nethttp.StatusBadRequest, "invalid action", "")
		return
	}

	updated, err := h.store.ApplyComparison(id, action)
	if errors.Is(err, store.ErrNotFound) {
		h.resp.fail(w, r, nethttp.StatusNotFound, "Comparison not found", "NOT_FOUND")
		return
	}
	if err != nil {
		logging.Error(logger, "comparison update failed", err, slog.String("comparison_id", id))
		h.resp.fail(w, r, nethttp.StatusInternalServerError, "failed to update comparison", "")
		return
	}

	logging.Info(logger, "comparison updated",
		slog.String("comparison_id", id),
		slog.String(logging.FieldAction, string(action)),
		slog.Bool("has_notes", req.Notes != ""),
	)
	h.resp.ok(w, r, promotions.UpdateResponse{
		Success:    true,
		Message:    fmt.Sprintf("Comparison %s successfully", action.PastTense()),
		Comparison: updated,
	})
}
