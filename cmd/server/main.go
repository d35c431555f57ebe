package main

import (
	"context"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/preston-bernstein/casino-research-dashboard/internal/config"
	"github.com/preston-bernstein/casino-research-dashboard/internal/logging"
	"github.com/preston-bernstein/casino-research-dashboard/internal/server"
)

const (
	appVersion  = "dev"
	serviceName = "casino-research-mock"
)

// main runs the mock casino research backend.
func main() {
	if os.Getenv("SKIP_SERVER_RUN") == "1" {
		return
	}

	cfg := config.Load()
	logger := newLogger(os.Stdout)
	logging.Info(logger, "mock backend configured",
		"port", cfg.Port,
		"envelope", cfg.Mock.Envelope,
		"jobStore", cfg.Mock.JobStore,
		"delayEnabled", cfg.Mock.DelayEnabled,
		"jobDuration", cfg.Mock.JobDuration,
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := server.New(cfg, logger)
	srv.Run(ctx, stop)
}

func newLogger(out io.Writer) *slog.Logger {
	return logging.NewLogger(logging.Config{
		Level:   os.Getenv("LOG_LEVEL"),
		Format:  os.Getenv("LOG_FORMAT"),
		Service: serviceName,
		Version: appVersion,
		Output:  out,
	})
}
