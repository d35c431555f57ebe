package session

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/preston-bernstein/casino-research-dashboard/internal/apiclient"
	"github.com/preston-bernstein/casino-research-dashboard/internal/domain/dashboard"
	"github.com/preston-bernstein/casino-research-dashboard/internal/logging"
	"github.com/preston-bernstein/casino-research-dashboard/internal/metrics"
	"github.com/preston-bernstein/casino-research-dashboard/internal/notify"
	"github.com/preston-bernstein/casino-research-dashboard/internal/poller"
	"github.com/preston-bernstein/casino-research-dashboard/internal/query"
)

var (
	DashboardKey  = query.Key{"dashboard"}
	StateStatsKey = query.Key{"dashboard", "state-stats"}
)

const (
	DefaultPollInterval = 5 * time.Second

	MessageResearchStarted = "Research started successfully"
	MessageResearchStopped = "Research stopped successfully"
	MessageStartFailed     = "Failed to start research. Please try again."
	MessageStopFailed      = "Failed to stop research. Please try again."
	TitleResearchCompleted = "Research completed"
)

// DashboardAPI is the backend surface the dashboard consumer needs.
type DashboardAPI interface {
	GetStateStats(ctx context.Context) (dashboard.Snapshot, error)
	UpdateResearchStatus(ctx context.Context, action dashboard.ResearchAction) (dashboard.ResearchStatus, error)
}

// RefreshFunc reloads data derived from the dashboard snapshot.
type RefreshFunc func(ctx context.Context)

type DashboardOptions struct {
	PollInterval time.Duration
	Retry        query.RetryPolicy
	Refresh      RefreshFunc
	Logger       *slog.Logger
	Metrics      *metrics.Recorder
	Now          func() time.Time
}

// Dashboard keeps the state-stats snapshot in sync with the research job.
// It polls while any state is researching or a start was just issued, and
// announces completion exactly once per researching-to-idle transition.
type Dashboard struct {
	api      DashboardAPI
	cache    *query.Cache
	notifier notify.Notifier
	refresh  RefreshFunc
	logger   *slog.Logger
	metrics  *metrics.Recorder
	now      func() time.Time

	stats  *query.Query[dashboard.Snapshot]
	poller *poller.Poller

	researchStarted query.Tentative[bool]

	mu             sync.Mutex
	wasResearching bool
}

func NewDashboard(api DashboardAPI, cache *query.Cache, notifier notify.Notifier, opts DashboardOptions) *Dashboard {
	if opts.PollInterval <= 0 {
		opts.PollInterval = DefaultPollInterval
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if notifier == nil {
		notifier = notify.Discard{}
	}
	d := &Dashboard{
		api:      api,
		cache:    cache,
		notifier: notifier,
		refresh:  opts.Refresh,
		logger:   opts.Logger,
		metrics:  opts.Metrics,
		now:      opts.Now,
	}
	d.stats = query.New(cache, StateStatsKey, api.GetStateStats, query.Options{
		Retry:     opts.Retry,
		Metrics:   opts.Metrics,
		Logger:    opts.Logger,
		OnSettled: d.onSettled,
	})
	d.poller = poller.New("dashboard-stats", func(ctx context.Context) error {
		_, err := d.stats.Fetch(ctx)
		return err
	}, d.ShouldPoll, opts.Logger, opts.Metrics, opts.PollInterval)
	return d
}

// Start observes the snapshot and runs the poller until ctx ends or Stop is called.
func (d *Dashboard) Start(ctx context.Context) {
	d.stats.Observe()
	d.poller.Start(ctx)
}

func (d *Dashboard) Stop(ctx context.Context) error {
	d.stats.Close()
	return d.poller.Stop(ctx)
}

// Refetch loads a fresh snapshot outside the polling schedule.
func (d *Dashboard) Refetch(ctx context.Context) (dashboard.Snapshot, error) {
	return d.stats.Fetch(ctx)
}

func (d *Dashboard) State() query.State[dashboard.Snapshot] {
	return d.stats.State()
}

// ShouldPoll is the active-poll predicate.
func (d *Dashboard) ShouldPoll() bool {
	st := d.stats.State()
	if st.HasData && st.Data.AnyResearching() {
		return true
	}
	return d.researchStarted.Value()
}

// IsResearching reports whether the latest cached snapshot shows research in progress.
func (d *Dashboard) IsResearching() bool {
	st := d.stats.State()
	return st.HasData && st.Data.AnyResearching()
}

func (d *Dashboard) ResearchStarted() bool {
	return d.researchStarted.Value()
}

func (d *Dashboard) PollStatus() poller.Status {
	return d.poller.Status()
}

func (d *Dashboard) Totals() (dashboard.Totals, bool) {
	st := d.stats.State()
	if !st.HasData {
		return dashboard.Totals{}, false
	}
	return st.Data.Totals(), true
}

func (d *Dashboard) Schedule() (dashboard.Schedule, bool) {
	st := d.stats.State()
	if !st.HasData {
		return dashboard.Schedule{}, false
	}
	return st.Data.Schedule(), true
}

// onSettled runs the transition checks against each applied fetch result.
func (d *Dashboard) onSettled(applied bool, err error) {
	if !applied || err != nil {
		return
	}
	st := d.stats.State()
	if !st.HasData {
		return
	}
	researching := st.Data.AnyResearching()

	d.mu.Lock()
	completed := d.wasResearching && !researching
	began := !d.wasResearching && researching
	d.wasResearching = researching
	d.mu.Unlock()

	// Any fetch may reveal research started elsewhere; rearm an idle poller.
	if began {
		d.poller.Wake()
	}
	if !researching {
		d.researchStarted.Set(false)
	}
	if !completed {
		return
	}

	logging.Info(d.logger, "research completed", logging.FieldCount, len(st.Data.Data))
	d.notifier.Notify(notify.Info(TitleResearchCompleted, "All tracked states are idle. Data has been refreshed."))
	d.runRefresh(context.Background())
}

func (d *Dashboard) runRefresh(ctx context.Context) {
	if d.refresh != nil {
		d.refresh(ctx)
	}
}

// ToggleResearch stops a running job and starts one otherwise.
func (d *Dashboard) ToggleResearch(ctx context.Context) (dashboard.ResearchStatus, error) {
	if d.IsResearching() {
		return d.Research(ctx, dashboard.ActionStop)
	}
	return d.Research(ctx, dashboard.ActionStart)
}

// Research starts or stops the research job. It is never retried: on failure the
// tentative flag is rolled back, nothing is written to the cache and a
// destructive notification is raised.
func (d *Dashboard) Research(ctx context.Context, action dashboard.ResearchAction) (dashboard.ResearchStatus, error) {
	m := query.Mutation[dashboard.ResearchAction, dashboard.ResearchStatus]{
		Name: "research-" + string(action),
		Fn: func(ctx context.Context, action dashboard.ResearchAction) (dashboard.ResearchStatus, error) {
			res, err := d.api.UpdateResearchStatus(ctx, action)
			if err != nil {
				return res, err
			}
			if !res.Success {
				return res, &apiclient.ApplicationError{Message: res.Message}
			}
			return res, nil
		},
		OnMutate: func(action dashboard.ResearchAction) func() {
			d.researchStarted.Stage(action == dashboard.ActionStart)
			return d.researchStarted.Rollback
		},
		OnSuccess: d.onResearchSuccess,
		OnError: func(_ context.Context, action dashboard.ResearchAction, _ error) {
			msg := MessageStartFailed
			if action == dashboard.ActionStop {
				msg = MessageStopFailed
			}
			d.notifier.Notify(notify.Destructive("Error", msg))
		},
		Metrics: d.metrics,
		Logger:  d.logger,
	}
	return m.Run(ctx, action)
}

func (d *Dashboard) onResearchSuccess(ctx context.Context, action dashboard.ResearchAction, _ dashboard.ResearchStatus) {
	d.researchStarted.Commit()

	msg := MessageResearchStarted
	if action == dashboard.ActionStop {
		msg = MessageResearchStopped
		d.mu.Lock()
		d.wasResearching = false
		d.mu.Unlock()
		now := d.now()
		n := query.SetQueriesData(d.cache, StateStatsKey, func(s dashboard.Snapshot) dashboard.Snapshot {
			return s.WithAllIdle(now)
		})
		logging.Debug(d.logger, "marked cached stats idle", logging.FieldCount, n)
	}

	d.notifier.Notify(notify.Success("Success", msg))
	d.runRefresh(ctx)
	if err := d.cache.Invalidate(ctx, DashboardKey); err != nil {
		logging.Warn(d.logger, "dashboard refetch after research change failed", "error", err)
	}
	d.poller.Wake()
}
