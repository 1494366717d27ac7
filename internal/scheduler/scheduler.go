// Package scheduler runs the anti-idle loop: a start/stop state machine that
// performs one immediate action on start and one action per tick afterwards.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/stigoleg/keepawayk/internal/action"
	"go.uber.org/zap"
)

// DefaultInterval is the tick interval used when none is configured.
const DefaultInterval = 5 * time.Second

// Executor performs one action. *action.Catalog implements it.
type Executor interface {
	Execute(ctx context.Context, c action.Category) error
}

// Options configures a Scheduler. Zero values select the defaults.
type Options struct {
	Interval         time.Duration
	Enabled          map[action.Category]bool // nil enables every category
	FirstTickExclude map[action.Category]bool
	Clock            clockwork.Clock
	Logger           *zap.Logger
	Rand             action.Rand
}

// Stats counts what the scheduler has done since it was created.
type Stats struct {
	Ticks        uint64
	Actions      uint64
	Failures     uint64
	Skipped      uint64
	Empty        uint64
	LastCategory action.Category
	LastAt       time.Time
}

// Scheduler owns the run state, the interval and the enabled set.
type Scheduler struct {
	exec     Executor
	selector *action.Selector
	clock    clockwork.Clock
	log      *zap.Logger

	// engine lifetime; cancelled by Close only
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	// held for the duration of one action
	execMu sync.Mutex

	mu             sync.Mutex
	running        bool
	closed         bool
	gen            uint64
	runLog         *zap.Logger
	runCancel      context.CancelFunc
	interval       time.Duration
	tickerInterval time.Duration
	ticker         clockwork.Ticker
	deadline       clockwork.Timer
	endTime        time.Time
	busyUntil      time.Time
	enabled        map[action.Category]bool
	firstExclude   map[action.Category]bool
	stats          Stats
}

// New returns a stopped scheduler that executes actions through exec.
func New(exec Executor, opts Options) *Scheduler {
	if opts.Interval <= 0 {
		opts.Interval = DefaultInterval
	}
	if opts.Enabled == nil {
		opts.Enabled = action.AllEnabled()
	}
	if opts.Clock == nil {
		opts.Clock = clockwork.NewRealClock()
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		exec:         exec,
		selector:     action.NewSelector(opts.Rand),
		clock:        opts.Clock,
		log:          opts.Logger,
		ctx:          ctx,
		cancel:       cancel,
		interval:     opts.Interval,
		enabled:      copySet(opts.Enabled),
		firstExclude: copySet(opts.FirstTickExclude),
		runLog:       opts.Logger,
	}
}

func copySet(in map[action.Category]bool) map[action.Category]bool {
	out := make(map[action.Category]bool, len(in))
	for c, on := range in {
		if on {
			out[c] = true
		}
	}
	return out
}

// IsRunning reports whether the scheduler is in the Running state.
func (s *Scheduler) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// Start performs one action immediately and then one per interval. It is a
// no-op while running. An action still in flight from a previous run is
// waited for before the immediate one.
func (s *Scheduler) Start() {
	s.start(0)
}

// StartFor is Start with an automatic Stop after d.
func (s *Scheduler) StartFor(d time.Duration) error {
	if d <= 0 {
		return &ConfigurationError{Setting: "duration", Value: d.String(), Err: ErrInvalidDuration}
	}
	s.start(d)
	return nil
}

func (s *Scheduler) start(d time.Duration) {
	s.mu.Lock()
	if s.running || s.closed {
		s.mu.Unlock()
		return
	}
	s.running = true
	s.gen++
	gen := s.gen
	runCtx, cancel := context.WithCancel(s.ctx)
	s.runCancel = cancel
	s.runLog = s.log.With(zap.String("run_id", uuid.NewString()))
	if d > 0 {
		s.endTime = s.clock.Now().Add(d)
		s.deadline = s.clock.AfterFunc(d, func() { s.expire(gen) })
	}
	s.runLog.Info("started",
		zap.Duration("interval", s.interval),
		zap.Strings("enabled", action.Names(s.enabled)),
		zap.Duration("duration", d))
	s.mu.Unlock()

	s.fire(gen, true, s.clock.Now())

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running || s.gen != gen {
		// stopped during the immediate action
		return
	}
	s.ticker = s.clock.NewTicker(s.interval)
	s.tickerInterval = s.interval
	s.wg.Add(1)
	go s.loop(runCtx, gen, s.ticker)
}

func (s *Scheduler) loop(ctx context.Context, gen uint64, t clockwork.Ticker) {
	defer s.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case at := <-t.Chan():
			s.fire(gen, false, at)
		}
	}
}

// Stop cancels the timer. No action starts after Stop returns; one that was
// already in flight is allowed to finish.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running {
		return
	}
	s.stopLocked("stopped")
}

func (s *Scheduler) stopLocked(reason string) {
	s.running = false
	if s.runCancel != nil {
		s.runCancel()
		s.runCancel = nil
	}
	if s.ticker != nil {
		s.ticker.Stop()
		s.ticker = nil
	}
	if s.deadline != nil {
		s.deadline.Stop()
		s.deadline = nil
	}
	s.endTime = time.Time{}
	s.runLog.Info(reason,
		zap.Uint64("actions", s.stats.Actions),
		zap.Uint64("skipped", s.stats.Skipped))
}

func (s *Scheduler) expire(gen uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running && s.gen == gen {
		s.stopLocked("duration elapsed")
	}
}

// Toggle stops a running scheduler and starts a stopped one.
func (s *Scheduler) Toggle() {
	s.mu.Lock()
	running := s.running
	s.mu.Unlock()
	if running {
		s.Stop()
	} else {
		s.Start()
	}
}

// Close stops the scheduler, aborts an in-flight action and waits for the
// scheduling goroutine to exit. The scheduler cannot be restarted.
func (s *Scheduler) Close() error {
	s.mu.Lock()
	if s.running {
		s.stopLocked("stopped")
	}
	s.closed = true
	s.mu.Unlock()

	s.cancel()
	s.wg.Wait()
	return nil
}

// fire runs one tick of generation gen produced at time at.
func (s *Scheduler) fire(gen uint64, first bool, at time.Time) {
	s.mu.Lock()
	if !s.running || s.gen != gen {
		s.mu.Unlock()
		return
	}
	s.stats.Ticks++
	log := s.runLog

	if !first && s.ticker != nil && s.tickerInterval != s.interval {
		s.ticker.Reset(s.interval)
		s.tickerInterval = s.interval
		log.Debug("ticker re-armed", zap.Duration("interval", s.interval))
	}
	if !first && at.Before(s.busyUntil) {
		s.stats.Skipped++
		s.mu.Unlock()
		log.Debug("tick skipped; previous action still running")
		return
	}
	s.mu.Unlock()

	// The immediate action of a run waits for an action left over from the
	// previous run; timer fires never queue behind one.
	if first {
		s.execMu.Lock()
	} else if !s.execMu.TryLock() {
		s.mu.Lock()
		s.stats.Skipped++
		s.mu.Unlock()
		log.Debug("tick skipped; previous action still running")
		return
	}
	defer s.execMu.Unlock()

	s.mu.Lock()
	if !s.running || s.gen != gen {
		s.mu.Unlock()
		return
	}
	var exclude map[action.Category]bool
	if first {
		exclude = s.firstExclude
	}
	cat, ok := s.selector.SelectExcluding(s.enabled, exclude)
	if !ok {
		s.stats.Empty++
		s.mu.Unlock()
		log.Info("no eligible action")
		return
	}
	s.mu.Unlock()

	start := s.clock.Now()
	err := s.execute(cat)
	end := s.clock.Now()

	s.mu.Lock()
	s.stats.Actions++
	s.stats.LastCategory = cat
	s.stats.LastAt = end
	s.busyUntil = end
	if err != nil {
		s.stats.Failures++
	}
	s.mu.Unlock()

	if err != nil {
		log.Warn("action failed", zap.Stringer("action", cat), zap.Error(err))
		return
	}
	log.Debug("action performed", zap.Stringer("action", cat), zap.Duration("took", end.Sub(start)))
}

func (s *Scheduler) execute(cat action.Category) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return s.exec.Execute(s.ctx, cat)
}

// SetEnabled enables or disables one category. It takes effect on the next tick.
func (s *Scheduler) SetEnabled(c action.Category, on bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if on {
		s.enabled[c] = true
	} else {
		delete(s.enabled, c)
	}
}

// SetEnabledSet replaces the whole enabled set.
func (s *Scheduler) SetEnabledSet(set map[action.Category]bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.enabled = copySet(set)
}

// Enabled returns a copy of the enabled set.
func (s *Scheduler) Enabled() map[action.Category]bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copySet(s.enabled)
}

// SetInterval changes the tick interval. A running ticker picks it up on its
// next fire. Non-positive values are rejected and the old value kept.
func (s *Scheduler) SetInterval(d time.Duration) error {
	if d <= 0 {
		return &ConfigurationError{Setting: "interval", Value: d.String(), Err: ErrInvalidInterval}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.interval = d
	return nil
}

// Interval returns the configured tick interval.
func (s *Scheduler) Interval() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.interval
}

// SetFirstTickExclusions sets the categories never chosen by the immediate
// action performed on Start.
func (s *Scheduler) SetFirstTickExclusions(cats ...action.Category) {
	set := make(map[action.Category]bool, len(cats))
	for _, c := range cats {
		set[c] = true
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.firstExclude = set
}

// FirstTickExclusions returns a copy of the first-tick exclusion set.
func (s *Scheduler) FirstTickExclusions() map[action.Category]bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copySet(s.firstExclude)
}

// TimeRemaining returns the time left of a StartFor run, or zero.
func (s *Scheduler) TimeRemaining() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running || s.endTime.IsZero() {
		return 0
	}
	remaining := s.clock.Until(s.endTime)
	if remaining < 0 {
		return 0
	}
	return remaining
}

// Stats returns a snapshot of the counters.
func (s *Scheduler) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stats
}
