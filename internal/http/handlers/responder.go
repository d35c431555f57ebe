package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/preston-bernstein/casino-research-dashboard/internal/config"
	"github.com/preston-bernstein/casino-research-dashboard/internal/http/middleware"
	"github.com/preston-bernstein/casino-research-dashboard/internal/logging"
)

func writeJSON(w http.ResponseWriter, status int, payload any, logger *slog.Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil && logger != nil {
		logger.Error("failed to encode response", "err", err)
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, message string, logger *slog.Logger) {
	body := map[string]any{"error": message}
	if reqID := requestID(r); reqID != "" {
		body["requestId"] = reqID
	}
	writeJSON(w, status, body, logger)
}

func requestID(r *http.Request) string {
	reqID := middleware.RequestIDFromContext(r.Context())
	if reqID == "" {
		reqID = r.Header.Get("X-Request-ID")
	}
	return reqID
}

func loggerFromContext(r *http.Request, fallback *slog.Logger) *slog.Logger {
	if r == nil {
		return fallback
	}
	return logging.FromContext(r.Context(), fallback)
}

// envelope is the wrapped response shape: {IsSuccess, Data, Error}.
type envelope struct {
	IsSuccess bool   `json:"IsSuccess"`
	Data      any    `json:"Data"`
	Error     string `json:"Error,omitempty"`
}

// responder writes API payloads in the configured envelope.
type responder struct {
	wrapped bool
	logger  *slog.Logger
}

func newResponder(mode string, logger *slog.Logger) responder {
	return responder{wrapped: mode != config.EnvelopeRaw, logger: logger}
}

func (rs responder) ok(w http.ResponseWriter, r *http.Request, payload any) {
	logger := loggerFromContext(r, rs.logger)
	if !rs.wrapped {
		writeJSON(w, http.StatusOK, payload, logger)
		return
	}
	writeJSON(w, http.StatusOK, envelope{IsSuccess: true, Data: payload}, logger)
}

// fail writes an error. Wrapped mode uses the failure envelope with Data null; raw mode
// uses a flat {"error": ...} object. code is included when non-empty.
func (rs responder) fail(w http.ResponseWriter, r *http.Request, status int, message, code string) {
	logger := loggerFromContext(r, rs.logger)
	body := map[string]any{}
	if rs.wrapped {
		body["IsSuccess"] = false
		body["Data"] = nil
		body["Error"] = message
	} else {
		body["error"] = message
	}
	if code != "" {
		body["code"] = code
	}
	if reqID := requestID(r); reqID != "" {
		body["requestId"] = reqID
	}
	writeJSON(w, status, body, logger)
}
