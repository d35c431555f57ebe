package handlers

import (
	"log/slog"
	nethttp "net/http"

	"github.com/preston-bernstein/casino-research-dashboard/internal/domain/casinos"
	"github.com/preston-bernstein/casino-research-dashboard/internal/http/requestutil"
	"github.com/preston-bernstein/casino-research-dashboard/internal/logging"
)

const (
	defaultMissingLimit = 50
	defaultOffset       = 0
)

// MissingCasinos filters by state, then by search text, and returns one offset window.
func (h *Handler) MissingCasinos(w nethttp.ResponseWriter, r *nethttp.Request) {
	if !h.allow(w, r, nethttp.MethodGet) {
		return
	}

	limit, ok := requestutil.IntParam(r, "limit", defaultMissingLimit)
	if !ok || limit == 0 {
		h.resp.fail(w, r, nethttp.StatusBadRequest, "invalid limit", "")
		return
	}
	offset, ok := requestutil.IntParam(r, "offset", defaultOffset)
	if !ok {
		h.resp.fail(w, r, nethttp.StatusBadRequest, "invalid offset", "")
		return
	}

	q := r.URL.Query()
	query := casinos.Query{
		Filters: casinos.Filters{State: q.Get("state"), Search: q.Get("search")}.Normalized(),
		Limit:   limit,
		Offset:  offset,
	}
	page := h.store.ListMissingCasinos(query)

	logging.Debug(loggerFromContext(r, h.logger), "served missing casinos",
		slog.Int(logging.FieldCount, len(page.Data)),
		slog.Int("total", page.Pagination.Total),
	)
	h.resp.ok(w, r, page)
}
