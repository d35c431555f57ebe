package middleware

import (
	"context"
	"log/slog"
	"math/rand/v2"
	"net/http"
	"strings"
	"time"

	"github.com/preston-bernstein/casino-research-dashboard/internal/http/requestutil"
	"github.com/preston-bernstein/casino-research-dashboard/internal/logging"
	"github.com/preston-bernstein/casino-research-dashboard/internal/metrics"
)

const (
	allowedMethods = "GET, POST, PUT, DELETE, OPTIONS, PATCH"
	allowedHeaders = "Content-Type, X-Request-ID, Authorization"
)

// LoggingMiddleware wraps the handler with request logging, request ID support, and metrics.
func LoggingMiddleware(baseLogger *slog.Logger, recorder *metrics.Recorder, next http.Handler) http.Handler {
	if baseLogger == nil {
		baseLogger = slog.Default()
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		reqID := requestutil.SanitizeRequestID(r.Header.Get("X-Request-ID"))
		w.Header().Set("X-Request-ID", reqID)

		logger := baseLogger.With(
			slog.String(logging.FieldRequestID, reqID),
			slog.String(logging.FieldMethod, r.Method),
			slog.String(logging.FieldPath, r.URL.Path),
			slog.String("query", r.URL.RawQuery),
			slog.String("client_ip", requestutil.ClientIP(r)),
		)

		ctx := logging.WithLogger(r.Context(), logger)
		ctx = withRequestID(ctx, reqID)
		r = r.WithContext(ctx)
		ww := &responseWriter{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(ww, r)

		duration := time.Since(start)
		recorder.RecordHTTPRequest(r.Method, normalizePath(r.URL.Path), ww.status, duration)

		logger.Info("request complete",
			slog.Int(logging.FieldStatusCode, ww.status),
			logging.Elapsed(duration),
		)
	})
}

// LatencyMiddleware delays API requests by a random duration in [minDelay, maxDelay].
// Probe endpoints and CORS preflights are never delayed. A request whose context ends
// during the delay is dropped.
func LatencyMiddleware(minDelay, maxDelay time.Duration, next http.Handler) http.Handler {
	if maxDelay < minDelay {
		maxDelay = minDelay
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if maxDelay <= 0 || r.Method == http.MethodOptions || isProbe(r.URL.Path) {
			next.ServeHTTP(w, r)
			return
		}

		delay := minDelay
		if spread := maxDelay - minDelay; spread > 0 {
			delay += time.Duration(rand.Int64N(int64(spread) + 1))
		}

		timer := time.NewTimer(delay)
		defer timer.Stop()
		select {
		case <-r.Context().Done():
			return
		case <-timer.C:
		}
		next.ServeHTTP(w, r)
	})
}

// CORSMiddleware sets permissive CORS headers and answers preflight requests directly.
func CORSMiddleware(origin string, next http.Handler) http.Handler {
	if origin == "" {
		origin = "*"
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("Access-Control-Allow-Origin", origin)
		h.Set("Access-Control-Allow-Methods", allowedMethods)
		h.Set("Access-Control-Allow-Headers", allowedHeaders)
		h.Set("Access-Control-Expose-Headers", "X-Request-ID")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (w *responseWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

type responseWriter struct {
	http.ResponseWriter
	status int
}

// RequestIDFromContext extracts the request ID stored by the logging middleware.
func RequestIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if val, ok := ctx.Value(requestIDKey{}).(string); ok {
		return val
	}
	return ""
}

func withRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

type requestIDKey struct{}

func isProbe(path string) bool {
	return path == "/health" || path == "/ready"
}

func normalizePath(path string) string {
	if path == "" {
		return ""
	}
	path = strings.Split(path, "?")[0]
	if strings.HasPrefix(path, "/promotions/comparisons/") {
		return "/promotions/comparisons/:id"
	}
	return path
}
