package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/preston-bernstein/casino-research-dashboard/internal/http/requestutil"
	"github.com/preston-bernstein/casino-research-dashboard/internal/logging"
)

// ResetFunc restores the mock backend's fixtures and research job.
type ResetFunc func(ctx context.Context) error

// AdminHandler exposes admin-only endpoints.
type AdminHandler struct {
	reset  ResetFunc
	token  string
	logger *slog.Logger
}

// NewAdminHandler constructs an AdminHandler.
func NewAdminHandler(reset ResetFunc, token string, logger *slog.Logger) *AdminHandler {
	return &AdminHandler{
		reset:  reset,
		token:  token,
		logger: logger,
	}
}

// Reset restores fixture data and stops the research job.
// Guarded by ADMIN_TOKEN; returns 401 if missing or invalid.
func (h *AdminHandler) Reset(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost, h.logger) {
		return
	}
	logger := loggerFromContext(r, h.logger)
	if !h.authorize(r) {
		logging.Warn(logger, "admin unauthorized",
			slog.String(logging.FieldPath, r.URL.Path),
			slog.String("client_ip", requestutil.ClientIP(r)),
		)
		writeError(w, r, http.StatusUnauthorized, "unauthorized", logger)
		return
	}
	if h.reset == nil {
		writeError(w, r, http.StatusServiceUnavailable, "reset not configured", logger)
		return
	}
	if err := h.reset(r.Context()); err != nil {
		logging.Error(logger, "admin reset failed", err)
		writeError(w, r, http.StatusInternalServerError, "failed to reset", logger)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"}, logger)
	logging.Info(logger, "admin reset complete")
}

func (h *AdminHandler) authorize(r *http.Request) bool {
	if h.token == "" {
		return false
	}
	return r.Header.Get("Authorization") == "Bearer "+h.token
}
