package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"

	"github.com/preston-bernstein/casino-research-dashboard/internal/config"
	"github.com/preston-bernstein/casino-research-dashboard/internal/logging"
	"github.com/preston-bernstein/casino-research-dashboard/internal/metrics"
)

// Local is a mock backend served on an ephemeral loopback port. The dashboard
// CLI runs one per command when mocks are enabled.
type Local struct {
	URL string

	backend *Backend
	srv     httpServer
}

// StartLocal builds a fresh backend from cfg and starts serving it.
func StartLocal(cfg config.MockConfig, logger *slog.Logger, recorder *metrics.Recorder) (*Local, error) {
	backend := NewBackend(cfg, logger, recorder)
	ln, err := net.Listen("tcp", loopbackAddr)
	if err != nil {
		_ = backend.Close()
		return nil, fmt.Errorf("listen for mock backend: %w", err)
	}

	srv := newNetHTTPServer("", backend.Handler())
	srv.listener = ln
	launchServer("mock", srv, backend.logger, nil)
	logging.Debug(backend.logger, "mock backend listening", "addr", srv.Addr())

	return &Local{
		URL:     "http://" + srv.Addr(),
		backend: backend,
		srv:     srv,
	}, nil
}

// Backend exposes the served backend, e.g. to reset it between runs.
func (l *Local) Backend() *Backend {
	return l.backend
}

// Stop drains in-flight requests, then releases the job store.
func (l *Local) Stop(ctx context.Context) error {
	err := l.srv.Shutdown(ctx)
	if err != nil {
		err = fmt.Errorf("shutdown mock backend: %w", err)
	}
	return errors.Join(err, l.backend.Close())
}
