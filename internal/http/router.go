package http

import (
	"log/slog"
	nethttp "net/http"
	"time"

	"github.com/preston-bernstein/casino-research-dashboard/internal/http/handlers"
	"github.com/preston-bernstein/casino-research-dashboard/internal/http/middleware"
	"github.com/preston-bernstein/casino-research-dashboard/internal/metrics"
)

// NewRouter registers HTTP routes on a ServeMux. The admin handler is optional.
func NewRouter(handler *handlers.Handler, admin *handlers.AdminHandler) nethttp.Handler {
	mux := nethttp.NewServeMux()
	if admin != nil {
		mux.HandleFunc("/admin/reset", admin.Reset)
	}
	mux.Handle("/", handler)
	return mux
}

// Stack configures the middleware applied around a router.
type Stack struct {
	Logger     *slog.Logger
	Metrics    *metrics.Recorder
	CORSOrigin string
	DelayMin   time.Duration
	DelayMax   time.Duration
}

// Wrap applies logging, CORS, and simulated latency, outermost first.
func Wrap(next nethttp.Handler, stack Stack) nethttp.Handler {
	h := middleware.LatencyMiddleware(stack.DelayMin, stack.DelayMax, next)
	h = middleware.CORSMiddleware(stack.CORSOrigin, h)
	return middleware.LoggingMiddleware(stack.Logger, stack.Metrics, h)
}
