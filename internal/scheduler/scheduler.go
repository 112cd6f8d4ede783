// Package scheduler drives snapshot regeneration on an interval and on
// demand, publishing each new snapshot to subscribers.
//
// A Scheduler is Idle while it holds its last published snapshot,
// Recomputing while a cycle waits out its simulated latency, and Stopped
// once disposed. At most one cycle is in flight at a time; readers always
// see the last published snapshot.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"k8s.io/utils/clock"

	"github.com/iwvelando/finpulse/internal/snapshot"
	"github.com/iwvelando/finpulse/pkg/constants"
)

// State is the lifecycle state of a Scheduler.
type State int32

const (
	Idle State = iota
	Recomputing
	Stopped
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Recomputing:
		return "recomputing"
	case Stopped:
		return "stopped"
	}
	return fmt.Sprintf("state(%d)", int32(s))
}

// Trigger names what started a cycle.
type Trigger string

const (
	TriggerTimer  Trigger = "timer"
	TriggerManual Trigger = "manual"
)

// Builder produces the snapshot that follows prev without modifying it.
type Builder interface {
	Next(prev *snapshot.Snapshot) *snapshot.Snapshot
}

// BuilderFunc adapts a function to Builder.
type BuilderFunc func(prev *snapshot.Snapshot) *snapshot.Snapshot

// Next calls f(prev).
func (f BuilderFunc) Next(prev *snapshot.Snapshot) *snapshot.Snapshot {
	return f(prev)
}

// Scheduler owns the current snapshot and its regeneration loop.
type Scheduler struct {
	builder   Builder
	interval  time.Duration
	latency   time.Duration
	clock     clock.WithTicker
	logger    *zap.Logger
	observers Observers

	current atomic.Pointer[snapshot.Snapshot]

	mu          sync.Mutex
	state       State
	subscribers []*subscriber
	refresh     chan struct{}

	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}
}

type subscriber struct {
	fn     func(*snapshot.Snapshot)
	active atomic.Bool
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithInterval sets the time between automatic cycles.
func WithInterval(d time.Duration) Option {
	return func(s *Scheduler) {
		if d > 0 {
			s.interval = d
		}
	}
}

// WithLatency sets the simulated analysis time of each cycle. Zero
// publishes as soon as the snapshot is built.
func WithLatency(d time.Duration) Option {
	return func(s *Scheduler) {
		if d >= 0 {
			s.latency = d
		}
	}
}

// WithClock sets the clock used for the interval and latency timers.
func WithClock(c clock.WithTicker) Option {
	return func(s *Scheduler) {
		if c != nil {
			s.clock = c
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Scheduler) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithObserver registers an observer for cycle events. Repeated options
// add observers, which are notified in registration order.
func WithObserver(o Observer) Option {
	return func(s *Scheduler) {
		if o != nil {
			s.observers = append(s.observers, o)
		}
	}
}

// Start begins periodic simulation from initial and returns immediately.
// A nil initial starts from the seed model. Cancelling ctx is equivalent to
// calling Dispose.
func Start(ctx context.Context, builder Builder, initial *snapshot.Snapshot, opts ...Option) *Scheduler {
	s := &Scheduler{
		builder:  builder,
		interval: constants.DefaultInterval,
		latency:  constants.DefaultLatency,
		clock:    clock.RealClock{},
		logger:   zap.NewNop(),
		refresh:  make(chan struct{}, 1),
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	if initial == nil {
		initial = snapshot.Seed()
	}
	s.current.Store(initial)
	s.ctx, s.cancel = context.WithCancel(ctx)

	ticker := s.clock.NewTicker(s.interval)
	s.logger.Info(fmt.Sprintf("scheduler started with interval %s and latency %s", s.interval, s.latency),
		zap.String("op", "scheduler.Start"),
		zap.Uint64("sequence", initial.Sequence),
	)
	s.observers.StateChanged(Idle)

	go s.loop(ticker)
	return s
}

func (s *Scheduler) loop(ticker clock.Ticker) {
	defer close(s.done)
	defer ticker.Stop()

	for {
		select {
		case <-s.ctx.Done():
			s.Dispose()
			return
		case <-ticker.C():
			s.cycle(TriggerTimer)
		case <-s.refresh:
			s.cycle(TriggerManual)
		}
	}
}

// begin moves Idle to Recomputing. A refresh requested before the cycle
// started is folded into it.
func (s *Scheduler) begin(trigger Trigger) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != Idle || s.ctx.Err() != nil {
		return false
	}
	s.state = Recomputing
	select {
	case <-s.refresh:
	default:
	}
	s.observers.StateChanged(Recomputing)
	s.observers.CycleStarted(trigger)
	return true
}

func (s *Scheduler) cycle(trigger Trigger) {
	started := s.clock.Now()
	if !s.begin(trigger) {
		return
	}
	s.logger.Debug(fmt.Sprintf("%s cycle started", trigger),
		zap.String("op", "scheduler.cycle"),
	)

	if s.latency > 0 {
		timer := s.clock.NewTimer(s.latency)
		select {
		case <-s.ctx.Done():
			timer.Stop()
			s.observers.CycleAbandoned(trigger)
			s.logger.Debug(fmt.Sprintf("%s cycle abandoned", trigger),
				zap.String("op", "scheduler.cycle"),
			)
			return
		case <-timer.C():
		}
	}

	next := s.builder.Next(s.current.Load())
	s.publish(trigger, next, started)
}

func (s *Scheduler) publish(trigger Trigger, next *snapshot.Snapshot, started time.Time) {
	s.mu.Lock()
	if s.state == Stopped {
		s.mu.Unlock()
		s.observers.CycleAbandoned(trigger)
		return
	}
	s.current.Store(next)
	s.state = Idle
	s.observers.CycleCompleted(trigger, next, s.clock.Since(started))
	s.observers.StateChanged(Idle)
	subs := make([]*subscriber, len(s.subscribers))
	copy(subs, s.subscribers)
	s.mu.Unlock()

	s.logger.Debug(fmt.Sprintf("published snapshot %d", next.Sequence),
		zap.String("op", "scheduler.publish"),
		zap.String("trigger", string(trigger)),
		zap.String("id", next.ID),
	)

	for _, sub := range subs {
		if sub.active.Load() {
			sub.fn(next)
		}
	}
}

// Current returns the last published snapshot. It never blocks and keeps
// working after Dispose. Callers must not modify the result.
func (s *Scheduler) Current() *snapshot.Snapshot {
	return s.current.Load()
}

// State returns the lifecycle state.
func (s *Scheduler) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// RequestRefresh asks for an out-of-cycle recomputation. It reports whether
// a cycle was scheduled: false while one is already pending or in flight,
// and after Dispose.
func (s *Scheduler) RequestRefresh() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != Idle {
		return false
	}
	select {
	case s.refresh <- struct{}{}:
		return true
	default:
		return false
	}
}

// Subscribe registers fn to be called once per published snapshot, in
// registration order, on the scheduler goroutine. The returned function
// unregisters fn and may be called any number of times.
func (s *Scheduler) Subscribe(fn func(*snapshot.Snapshot)) (unsubscribe func()) {
	sub := &subscriber{fn: fn}
	sub.active.Store(true)

	s.mu.Lock()
	if s.state != Stopped {
		s.subscribers = append(s.subscribers, sub)
	}
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			sub.active.Store(false)
			s.mu.Lock()
			defer s.mu.Unlock()
			for i, existing := range s.subscribers {
				if existing == sub {
					s.subscribers = append(s.subscribers[:i:i], s.subscribers[i+1:]...)
					break
				}
			}
		})
	}
}

// Dispose stops all future activity. An in-flight cycle is discarded.
// Dispose does not block and may be called any number of times.
func (s *Scheduler) Dispose() {
	s.mu.Lock()
	if s.state == Stopped {
		s.mu.Unlock()
		return
	}
	s.state = Stopped
	for _, sub := range s.subscribers {
		sub.active.Store(false)
	}
	s.subscribers = nil
	s.observers.StateChanged(Stopped)
	s.mu.Unlock()

	s.cancel()
	s.logger.Info("scheduler stopped",
		zap.String("op", "scheduler.Dispose"),
		zap.Uint64("sequence", s.current.Load().Sequence),
	)
}

// Done is closed once the scheduler goroutine has exited and its timers are
// released.
func (s *Scheduler) Done() <-chan struct{} {
	return s.done
}
