package handlers

import (
	"log/slog"
	nethttp "net/http"

	"github.com/preston-bernstein/casino-research-dashboard/internal/logging"
)

// Users returns every user in backend wire shape.
func (h *Handler) Users(w nethttp.ResponseWriter, r *nethttp.Request) {
	if !h.allow(w, r, nethttp.MethodGet) {
		return
	}
	list := h.store.ListUsers()
	logging.Debug(loggerFromContext(r, h.logger), "served users", slog.Int(logging.FieldCount, len(list)))
	h.resp.ok(w, r, list)
}
