package poller

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/preston-bernstein/casino-research-dashboard/internal/logging"
	"github.com/preston-bernstein/casino-research-dashboard/internal/metrics"
)

const defaultInterval = 5 * time.Second

// Task is one poll cycle, typically a query fetch.
type Task func(ctx context.Context) error

// ActiveFunc reports whether another cycle should be scheduled.
type ActiveFunc func() bool

// Poller runs a task once on start and then again after each interval, but only
// while the activity predicate holds. The timer is rearmed only after the previous
// cycle has returned, so cycles never overlap.
type Poller struct {
	name     string
	task     Task
	active   ActiveFunc
	logger   *slog.Logger
	metrics  *metrics.Recorder
	interval time.Duration

	wake     chan struct{}
	done     chan struct{}
	exited   chan struct{}
	stopOnce sync.Once
	startMu  sync.Mutex
	started  bool

	statusMu sync.RWMutex
	status   Status
}

// Status describes the recent health of the poller loop.
type Status struct {
	ConsecutiveFailures int
	LastError           string
	LastAttempt         time.Time
	LastSuccess         time.Time
	Polling             bool
}

// IsReady reports whether the poller has had a recent success and is not failing repeatedly.
func (s Status) IsReady() bool {
	if s.LastSuccess.IsZero() {
		return false
	}
	return s.ConsecutiveFailures < 3
}

// New constructs a Poller. A nil active func polls unconditionally.
func New(name string, task Task, active ActiveFunc, logger *slog.Logger, recorder *metrics.Recorder, interval time.Duration) *Poller {
	if interval <= 0 {
		interval = defaultInterval
	}
	if active == nil {
		active = func() bool { return true }
	}
	return &Poller{
		name:     name,
		task:     task,
		active:   active,
		logger:   logger,
		metrics:  recorder,
		interval: interval,
		wake:     make(chan struct{}, 1),
		done:     make(chan struct{}),
		exited:   make(chan struct{}),
	}
}

// Start begins polling until the context is cancelled or Stop is called.
func (p *Poller) Start(ctx context.Context) {
	p.startMu.Lock()
	if p.started {
		p.startMu.Unlock()
		return
	}
	p.started = true
	p.startMu.Unlock()

	go p.run(ctx)
}

func (p *Poller) run(ctx context.Context) {
	defer close(p.exited)
	logging.Info(p.logger, "poller started", "poller", p.name, "interval", p.interval)
	p.fetchOnce(ctx)

	for {
		var timer *time.Timer
		var tick <-chan time.Time
		if p.active() {
			timer = time.NewTimer(p.interval)
			tick = timer.C
		}
		p.setPolling(timer != nil)

		select {
		case <-ctx.Done():
			stopTimer(timer)
			p.setPolling(false)
			logging.Info(p.logger, "poller stopped", "poller", p.name)
			return
		case <-p.done:
			stopTimer(timer)
			p.setPolling(false)
			logging.Info(p.logger, "poller stopped", "poller", p.name)
			return
		case <-p.wake:
			stopTimer(timer)
		case <-tick:
			p.fetchOnce(ctx)
		}
	}
}

// Wake asks the loop to re-evaluate the activity predicate, rearming a fresh
// interval when it holds. It never blocks.
func (p *Poller) Wake() {
	select {
	case p.wake <- struct{}{}:
	default:
	}
}

// Stop halts the polling loop and waits for an in-progress cycle to return or ctx to end.
func (p *Poller) Stop(ctx context.Context) error {
	p.stopOnce.Do(func() {
		close(p.done)
	})

	p.startMu.Lock()
	started := p.started
	p.startMu.Unlock()
	if !started {
		return nil
	}

	if ctx == nil {
		ctx = context.Background()
	}
	select {
	case <-p.exited:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (p *Poller) fetchOnce(ctx context.Context) {
	start := time.Now()
	p.recordAttempt(start)
	err := p.task(ctx)
	p.metrics.RecordPollerCycle(time.Since(start), err)
	if err != nil {
		logging.Error(p.logger, "poll cycle failed", err,
			"poller", p.name,
			logging.Elapsed(time.Since(start)),
		)
		p.recordFailure(err, start)
		return
	}
	p.recordSuccess(start)
	logging.Debug(p.logger, "poll cycle complete",
		"poller", p.name,
		logging.Elapsed(time.Since(start)),
	)
}

func stopTimer(t *time.Timer) {
	if t != nil {
		t.Stop()
	}
}

func (p *Poller) setPolling(polling bool) {
	p.statusMu.Lock()
	defer p.statusMu.Unlock()
	p.status.Polling = polling
}

func (p *Poller) recordAttempt(at time.Time) {
	p.statusMu.Lock()
	defer p.statusMu.Unlock()
	p.status.LastAttempt = at
}

func (p *Poller) recordSuccess(at time.Time) {
	p.statusMu.Lock()
	defer p.statusMu.Unlock()
	p.status.ConsecutiveFailures = 0
	p.status.LastError = ""
	p.status.LastSuccess = at
}

func (p *Poller) recordFailure(err error, at time.Time) {
	p.statusMu.Lock()
	defer p.statusMu.Unlock()
	p.status.ConsecutiveFailures++
	if err != nil {
		p.status.LastError = err.Error()
	}
	p.status.LastAttempt = at
}

// Status returns a snapshot of the poller's recent health.
func (p *Poller) Status() Status {
	p.statusMu.RLock()
	defer p.statusMu.RUnlock()
	return p.status
}
