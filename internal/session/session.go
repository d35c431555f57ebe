// Package session owns one dashboard client session: a query cache, a notifier
// and the consumers that keep dashboard, missing casinos, comparisons and users
// in sync with the backend.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/preston-bernstein/casino-research-dashboard/internal/config"
	"github.com/preston-bernstein/casino-research-dashboard/internal/domain/dashboard"
	"github.com/preston-bernstein/casino-research-dashboard/internal/domain/users"
	"github.com/preston-bernstein/casino-research-dashboard/internal/logging"
	"github.com/preston-bernstein/casino-research-dashboard/internal/metrics"
	"github.com/preston-bernstein/casino-research-dashboard/internal/notify"
	"github.com/preston-bernstein/casino-research-dashboard/internal/poller"
	"github.com/preston-bernstein/casino-research-dashboard/internal/query"
	"github.com/preston-bernstein/casino-research-dashboard/internal/services"
)

const gcInterval = time.Minute

// Config wires a Session. Requester is usually an *apiclient.Client.
type Config struct {
	Requester services.Requester
	Client    config.ClientConfig
	Notifier  notify.Notifier
	Refresh   RefreshFunc
	Logger    *slog.Logger
	Metrics   *metrics.Recorder
	Now       func() time.Time
}

type Session struct {
	Dashboard      *Dashboard
	MissingCasinos *MissingCasinos
	Comparisons    *Comparisons
	Users          *Users

	cache    *query.Cache
	notifier notify.Notifier
	logger   *slog.Logger
	gc       *poller.Poller
	refresh  RefreshFunc

	ctx    context.Context
	cancel context.CancelFunc
}

// RetryPolicy maps the client configuration onto the query retry policy.
func RetryPolicy(cfg config.ClientConfig) query.RetryPolicy {
	if cfg.RetryAttempts <= 0 {
		return query.NoRetry()
	}
	p := query.DefaultRetryPolicy()
	p.Retries = cfg.RetryAttempts
	if cfg.RetryDelay > 0 {
		p.Delay = cfg.RetryDelay
	}
	return p
}

// New builds a session whose background work is bounded by ctx.
func New(ctx context.Context, cfg Config) *Session {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithCancel(ctx)
	notifier := cfg.Notifier
	if notifier == nil {
		notifier = notify.Discard{}
	}
	cache := query.NewCache(query.CacheConfig{Logger: cfg.Logger, Now: cfg.Now})
	retry := RetryPolicy(cfg.Client)

	s := &Session{
		cache:    cache,
		notifier: notifier,
		logger:   cfg.Logger,
		refresh:  cfg.Refresh,
		ctx:      ctx,
		cancel:   cancel,
	}

	s.Dashboard = NewDashboard(services.NewDashboardService(cfg.Requester), cache, notifier, DashboardOptions{
		PollInterval: cfg.Client.PollInterval,
		Retry:        retry,
		Refresh:      s.refreshDerived,
		Logger:       cfg.Logger,
		Metrics:      cfg.Metrics,
		Now:          cfg.Now,
	})
	s.MissingCasinos = NewMissingCasinos(ctx, services.NewMissingCasinosService(cfg.Requester), cache, MissingCasinosOptions{
		PageSize: cfg.Client.MissingPageSize,
		Debounce: cfg.Client.SearchDebounce,
		Retry:    retry,
		Logger:   cfg.Logger,
		Metrics:  cfg.Metrics,
	})
	s.Comparisons = NewComparisons(ctx, services.NewPromotionsService(cfg.Requester), cache, notifier, ComparisonsOptions{
		PerPage:  cfg.Client.ComparisonsPerPage,
		Debounce: cfg.Client.SearchDebounce,
		Retry:    retry,
		Logger:   cfg.Logger,
		Metrics:  cfg.Metrics,
	})
	s.Users = NewUsers(services.NewUsersService(cfg.Requester), cache, retry, cfg.Logger, cfg.Metrics)
	s.gc = poller.New("query-gc", func(context.Context) error {
		cache.GC()
		return nil
	}, nil, cfg.Logger, nil, gcInterval)
	return s
}

// Cache exposes the session cache for inspection.
func (s *Session) Cache() *query.Cache {
	return s.cache
}

// Start begins dashboard polling and cache sweeping.
func (s *Session) Start() {
	s.Dashboard.Start(s.ctx)
	s.gc.Start(s.ctx)
}

// refreshDerived reloads the lists that depend on research results, then runs the configured hook.
func (s *Session) refreshDerived(ctx context.Context) {
	err := errors.Join(
		s.cache.Invalidate(ctx, MissingCasinosKey),
		s.cache.Invalidate(ctx, ComparisonsKey),
	)
	if err != nil {
		logging.Warn(s.logger, "refresh after research change failed", "error", err)
	}
	if s.refresh != nil {
		s.refresh(ctx)
	}
}

// Close stops pollers and debouncers and cancels background work.
func (s *Session) Close(ctx context.Context) error {
	s.MissingCasinos.Close()
	s.Comparisons.Close()
	s.Users.Close()
	err := errors.Join(s.Dashboard.Stop(ctx), s.gc.Stop(ctx))
	s.cancel()
	return err
}

// Overview is every dashboard view loaded together.
type Overview struct {
	Snapshot       dashboard.Snapshot
	Totals         dashboard.Totals
	Schedule       dashboard.Schedule
	MissingCasinos MissingCasinosView
	Comparisons    ComparisonsView
	Users          []users.User
}

// Overview loads the snapshot, first pages and users concurrently.
func (s *Session) Overview(ctx context.Context) (Overview, error) {
	var out Overview
	egroup, gctx := errgroup.WithContext(ctx)

	egroup.Go(func() error {
		snap, err := s.Dashboard.Refetch(gctx)
		if err != nil {
			return fmt.Errorf("state stats: %w", err)
		}
		out.Snapshot = snap
		return nil
	})
	egroup.Go(func() error {
		view, err := s.MissingCasinos.Load(gctx)
		if err != nil {
			return fmt.Errorf("missing casinos: %w", err)
		}
		out.MissingCasinos = view
		return nil
	})
	egroup.Go(func() error {
		view, err := s.Comparisons.Load(gctx)
		if err != nil {
			return fmt.Errorf("comparisons: %w", err)
		}
		out.Comparisons = view
		return nil
	})
	egroup.Go(func() error {
		list, err := s.Users.Load(gctx)
		if err != nil {
			return fmt.Errorf("users: %w", err)
		}
		out.Users = list
		return nil
	})

	if err := egroup.Wait(); err != nil {
		return Overview{}, err
	}
	out.Totals = out.Snapshot.Totals()
	out.Schedule = out.Snapshot.Schedule()
	return out, nil
}
