package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/preston-bernstein/casino-research-dashboard/internal/config"
	"github.com/preston-bernstein/casino-research-dashboard/internal/fixtures"
	httpserver "github.com/preston-bernstein/casino-research-dashboard/internal/http"
	"github.com/preston-bernstein/casino-research-dashboard/internal/http/handlers"
	"github.com/preston-bernstein/casino-research-dashboard/internal/logging"
	"github.com/preston-bernstein/casino-research-dashboard/internal/metrics"
	"github.com/preston-bernstein/casino-research-dashboard/internal/simulator"
	"github.com/preston-bernstein/casino-research-dashboard/internal/store"
)

// newRedisStore remains a var for tests to override.
var newRedisStore = func(cfg simulator.RedisConfig) (simulator.Store, error) {
	return simulator.NewRedisStore(cfg)
}

// Backend is the mock casino research API: fixture records, the research job and the routes over them.
type Backend struct {
	fixtures *fixtures.Provider
	store    *store.MemoryStore
	jobStore simulator.Store
	sim      *simulator.Simulator
	handler  http.Handler
	logger   *slog.Logger
}

// NewBackend wires the mock backend. A redis job store that cannot be reached falls back to memory.
func NewBackend(cfg config.MockConfig, logger *slog.Logger, recorder *metrics.Recorder) *Backend {
	if logger == nil {
		logger = logging.NewLogger(logging.Config{})
	}

	p := fixtures.New()
	records := store.NewMemoryStore(seedFrom(p), nil)
	jobStore := buildJobStore(cfg, logger)
	sim := simulator.New(jobStore, simulator.Options{
		Duration: cfg.JobDuration,
		Tick:     cfg.JobTick,
		Baseline: simulator.BaselineFrom(p.StateStats()),
		Logger:   logger,
		Metrics:  recorder,
	})

	b := &Backend{
		fixtures: p,
		store:    records,
		jobStore: jobStore,
		sim:      sim,
		logger:   logger,
	}

	handler := handlers.NewHandler(records, sim, p.StateStats, cfg.Envelope, logger)
	var admin *handlers.AdminHandler
	if cfg.AdminToken != "" {
		admin = handlers.NewAdminHandler(b.Reset, cfg.AdminToken, logger)
	}

	stack := httpserver.Stack{
		Logger:     logger,
		Metrics:    recorder,
		CORSOrigin: cfg.CORSOrigin,
	}
	if cfg.DelayEnabled {
		stack.DelayMin = cfg.DelayMin
		stack.DelayMax = cfg.DelayMax
	}
	b.handler = httpserver.Wrap(httpserver.NewRouter(handler, admin), stack)
	return b
}

// Handler returns the fully wrapped router.
func (b *Backend) Handler() http.Handler {
	return b.handler
}

// Reset restores fixture records and the research job baseline.
func (b *Backend) Reset(ctx context.Context) error {
	b.store.Reset(seedFrom(b.fixtures))
	if err := b.sim.Reset(ctx); err != nil {
		return err
	}
	logging.Info(b.logger, "mock backend reset")
	return nil
}

// Close stops the job loop and releases the job store.
func (b *Backend) Close() error {
	b.sim.Close()
	if err := b.jobStore.Close(); err != nil {
		return fmt.Errorf("close job store: %w", err)
	}
	return nil
}

func seedFrom(p *fixtures.Provider) store.Seed {
	return store.Seed{
		MissingCasinos: p.MissingCasinos(),
		Comparisons:    p.Comparisons(),
		Users:          p.Users(),
	}
}

func buildJobStore(cfg config.MockConfig, logger *slog.Logger) simulator.Store {
	if cfg.JobStore != config.JobStoreRedis {
		return simulator.NewMemoryStore()
	}
	rs, err := newRedisStore(simulator.RedisConfig{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
		Key:      cfg.Redis.Key,
	})
	if err != nil {
		logging.Warn(logger, "redis job store unavailable, falling back to memory",
			slog.String("addr", cfg.Redis.Addr),
			slog.String("err", err.Error()),
		)
		return simulator.NewMemoryStore()
	}
	logging.Info(logger, "using redis job store", slog.String("addr", cfg.Redis.Addr))
	return rs
}
