package simulator

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/preston-bernstein/casino-research-dashboard/internal/domain/dashboard"
	"github.com/preston-bernstein/casino-research-dashboard/internal/logging"
	"github.com/preston-bernstein/casino-research-dashboard/internal/metrics"
)

const (
	DefaultDuration = 30 * time.Second
	DefaultTick     = 2 * time.Second
)

// Growth factors applied at full progress.
const (
	missingGrowth    = 0.5
	pendingGrowth    = 0.8
	casinosGrowth    = 0.1
	promotionsGrowth = 0.15
)

// Options configures a Simulator. Zero values fall back to defaults.
type Options struct {
	Duration time.Duration
	Tick     time.Duration
	Baseline map[string]Counters
	Now      func() time.Time
	Logger   *slog.Logger
	Metrics  *metrics.Recorder
}

// Simulator drives the research job: while running, every tick grows each state's
// counters; once the duration elapses the job stops on its own.
type Simulator struct {
	mu       sync.Mutex
	store    Store
	duration time.Duration
	tick     time.Duration
	baseline map[string]Counters
	now      func() time.Time
	logger   *slog.Logger
	metrics  *metrics.Recorder

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// BaselineFrom extracts starting counters from a snapshot.
func BaselineFrom(snap dashboard.Snapshot) map[string]Counters {
	out := make(map[string]Counters, len(snap.Data))
	for _, stat := range snap.Data {
		c := Counters{CasinosTracked: stat.CasinosTracked, PromotionsActive: stat.PromotionsActive}
		if stat.MissingCasinos != nil {
			c.MissingCasinos = *stat.MissingCasinos
		}
		if stat.PendingComparisons != nil {
			c.PendingComparisons = *stat.PendingComparisons
		}
		out[stat.State.Abbreviation] = c
	}
	return out
}

// New constructs a Simulator over store.
func New(store Store, opts Options) *Simulator {
	if store == nil {
		store = NewMemoryStore()
	}
	if opts.Duration <= 0 {
		opts.Duration = DefaultDuration
	}
	if opts.Tick <= 0 {
		opts.Tick = DefaultTick
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Simulator{
		store:    store,
		duration: opts.Duration,
		tick:     opts.Tick,
		baseline: opts.Baseline,
		now:      opts.Now,
		logger:   opts.Logger,
		metrics:  opts.Metrics,
	}
}

// Start begins a run. It reports false without error when a run is already in progress.
func (s *Simulator) Start(ctx context.Context) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	job, err := s.load(ctx)
	if err != nil {
		return false, err
	}
	if job.Running {
		logging.Warn(s.logger, "research job already running")
		return false, nil
	}

	job.Running = true
	job.StartedAt = s.now()
	if err := s.store.Save(ctx, job); err != nil {
		return false, err
	}
	s.startLoop()
	logging.Info(s.logger, "research job started")
	return true, nil
}

// Stop ends the current run. It reports false without error when nothing is running.
func (s *Simulator) Stop(ctx context.Context) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	job, err := s.load(ctx)
	if err != nil {
		return false, err
	}
	if !job.Running {
		logging.Warn(s.logger, "research job is not running")
		return false, nil
	}

	job.Running = false
	job.StartedAt = time.Time{}
	if err := s.store.Save(ctx, job); err != nil {
		return false, err
	}
	s.stopLoop()
	logging.Info(s.logger, "research job stopped")
	return true, nil
}

// Advance applies one tick. Counters compound on every tick while running.
func (s *Simulator) Advance(ctx context.Context) (Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return Job{}, err
	}
	job, err := s.load(ctx)
	if err != nil || !job.Running {
		return job, err
	}

	progress := s.progress(job)
	for state, c := range job.Progress {
		job.Progress[state] = grow(c, progress)
	}
	if progress >= 1 {
		job.Running = false
		job.StartedAt = time.Time{}
	}
	if err := s.store.Save(ctx, job); err != nil {
		return job, err
	}

	s.metrics.RecordJobTick(progress)
	logging.Debug(s.logger, "research job tick", logging.FieldProgress, progress)
	if !job.Running {
		s.stopLoop()
		logging.Info(s.logger, "research job completed")
	}
	return job, nil
}

// Job returns the stored job, or the idle baseline when none has been saved.
func (s *Simulator) Job(ctx context.Context) (Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(ctx)
}

// Apply overlays job counters and status on a snapshot. States the job does not
// track are returned unchanged.
func (s *Simulator) Apply(ctx context.Context, snap dashboard.Snapshot) (dashboard.Snapshot, error) {
	job, err := s.Job(ctx)
	if err != nil {
		return snap, err
	}

	now := s.now().UTC()
	status := dashboard.StatusIdle
	if job.Running {
		status = dashboard.StatusResearching
	}

	out := dashboard.Snapshot{Data: make([]dashboard.StateStat, len(snap.Data)), Timestamp: now}
	for i, stat := range snap.Data {
		if c, ok := job.Progress[stat.State.Abbreviation]; ok {
			stat.Status = status
			stat.CasinosTracked = c.CasinosTracked
			stat.PromotionsActive = c.PromotionsActive
			stat.MissingCasinos = dashboard.IntPtr(c.MissingCasinos)
			stat.PendingComparisons = dashboard.IntPtr(c.PendingComparisons)
			stat.LastUpdated = now
		}
		out.Data[i] = stat
	}
	return out, nil
}

// Reset stops any run and restores the baseline counters.
func (s *Simulator) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stopLoop()
	return s.store.Save(ctx, s.baselineJob())
}

// Ping reports whether the job store is reachable.
func (s *Simulator) Ping(ctx context.Context) error {
	return s.store.Ping(ctx)
}

// Close stops the tick loop and waits for it to exit.
func (s *Simulator) Close() {
	s.mu.Lock()
	s.stopLoop()
	s.mu.Unlock()
	s.wg.Wait()
}

func (s *Simulator) load(ctx context.Context) (Job, error) {
	job, err := s.store.Load(ctx)
	if errors.Is(err, ErrNoJob) {
		return s.baselineJob(), nil
	}
	if err != nil {
		return Job{}, err
	}
	if job.Progress == nil {
		job.Progress = map[string]Counters{}
	}
	return job, nil
}

func (s *Simulator) baselineJob() Job {
	return Job{Progress: s.baseline}.clone()
}

func (s *Simulator) progress(job Job) float64 {
	if job.StartedAt.IsZero() {
		return 1
	}
	elapsed := s.now().Sub(job.StartedAt)
	return math.Max(0, math.Min(float64(elapsed)/float64(s.duration), 1))
}

func grow(c Counters, progress float64) Counters {
	scale := func(v int, factor float64) int {
		return int(math.Floor(float64(v) * (1 + progress*factor)))
	}
	return Counters{
		MissingCasinos:     scale(c.MissingCasinos, missingGrowth),
		PendingComparisons: scale(c.PendingComparisons, pendingGrowth),
		CasinosTracked:     scale(c.CasinosTracked, casinosGrowth),
		PromotionsActive:   scale(c.PromotionsActive, promotionsGrowth),
	}
}

// startLoop must be called with mu held.
func (s *Simulator) startLoop() {
	s.stopLoop()
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.wg.Add(1)
	go s.run(ctx)
}

// stopLoop must be called with mu held.
func (s *Simulator) stopLoop() {
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}

func (s *Simulator) run(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			job, err := s.Advance(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				logging.Error(s.logger, "research job tick failed", err)
				continue
			}
			if !job.Running {
				return
			}
		}
	}
}
