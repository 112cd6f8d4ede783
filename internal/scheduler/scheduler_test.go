package scheduler

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	testclock "k8s.io/utils/clock/testing"

	"github.com/iwvelando/finpulse/internal/snapshot"
)

const (
	testInterval = 30 * time.Second
	testLatency  = 1500 * time.Millisecond
	waitFor      = 2 * time.Second
	pollEvery    = time.Millisecond
)

type countingBuilder struct {
	calls atomic.Int32
}

func (b *countingBuilder) Next(prev *snapshot.Snapshot) *snapshot.Snapshot {
	b.calls.Add(1)
	next := prev.Clone()
	next.Sequence = prev.Sequence + 1
	return next
}

type recordingObserver struct {
	mu     sync.Mutex
	events []string
}

func (r *recordingObserver) record(event string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

func (r *recordingObserver) Events() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.events...)
}

func (r *recordingObserver) StateChanged(state State) { r.record("state:" + state.String()) }
func (r *recordingObserver) CycleStarted(trigger Trigger) { r.record("started:" + string(trigger)) }
func (r *recordingObserver) CycleCompleted(trigger Trigger, _ *snapshot.Snapshot, _ time.Duration) {
	r.record("completed:" + string(trigger))
}
func (r *recordingObserver) CycleAbandoned(trigger Trigger) { r.record("abandoned:" + string(trigger)) }

type fixture struct {
	sched   *Scheduler
	clock   *testclock.FakeClock
	builder *countingBuilder
}

func start(t *testing.T, opts ...Option) *fixture {
	t.Helper()
	f := &fixture{
		clock:   testclock.NewFakeClock(time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)),
		builder: &countingBuilder{},
	}
	base := []Option{
		WithClock(f.clock),
		WithInterval(testInterval),
		WithLatency(testLatency),
		WithLogger(zap.NewNop()),
	}
	f.sched = Start(context.Background(), f.builder, snapshot.Seed(), append(base, opts...)...)
	t.Cleanup(func() {
		f.sched.Dispose()
		<-f.sched.Done()
	})
	require.Equal(t, 1, f.clock.Waiters(), "ticker should be registered on start")
	return f
}

// awaitRecomputing waits until a cycle is waiting out its latency.
func (f *fixture) awaitRecomputing(t *testing.T) {
	t.Helper()
	require.Eventually(t, func() bool {
		return f.sched.State() == Recomputing && f.clock.Waiters() == 2
	}, waitFor, pollEvery)
}

func (f *fixture) awaitSequence(t *testing.T, seq uint64) {
	t.Helper()
	require.Eventually(t, func() bool {
		return f.sched.Current().Sequence == seq && f.sched.State() == Idle
	}, waitFor, pollEvery)
}

func TestStartPublishesInitialSnapshot(t *testing.T) {
	f := start(t)

	assert.Equal(t, Idle, f.sched.State())
	assert.Equal(t, uint64(0), f.sched.Current().Sequence)
	assert.Equal(t, snapshot.SeedID, f.sched.Current().ID)
}

func TestManualRefresh(t *testing.T) {
	f := start(t)
	before := f.sched.Current()

	require.True(t, f.sched.RequestRefresh())
	f.awaitRecomputing(t)

	assert.Same(t, before, f.sched.Current(), "old snapshot stays readable while recomputing")

	f.clock.Step(testLatency)
	f.awaitSequence(t, 1)
	assert.Equal(t, int32(1), f.builder.calls.Load())
	assert.Equal(t, uint64(0), before.Sequence, "published snapshots are never modified")
}

func TestTimerTriggersCycle(t *testing.T) {
	f := start(t)

	f.clock.Step(testInterval)
	f.awaitRecomputing(t)
	f.clock.Step(testLatency)
	f.awaitSequence(t, 1)

	f.clock.Step(testInterval - testLatency)
	f.awaitRecomputing(t)
	f.clock.Step(testLatency)
	f.awaitSequence(t, 2)
}

func TestRefreshWhileRecomputingIsNoop(t *testing.T) {
	f := start(t)

	require.True(t, f.sched.RequestRefresh())
	f.awaitRecomputing(t)

	assert.False(t, f.sched.RequestRefresh())
	assert.False(t, f.sched.RequestRefresh())

	f.clock.Step(testLatency)
	f.awaitSequence(t, 1)

	assert.Never(t, func() bool {
		return f.sched.State() == Recomputing
	}, 50*time.Millisecond, 5*time.Millisecond)
	assert.Equal(t, int32(1), f.builder.calls.Load())
	assert.Equal(t, 1, f.clock.Waiters())
}

func TestConcurrentRefreshesCoalesce(t *testing.T) {
	f := start(t)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			f.sched.RequestRefresh()
		}()
	}
	wg.Wait()

	f.awaitRecomputing(t)
	f.clock.Step(testLatency)
	f.awaitSequence(t, 1)

	assert.Never(t, func() bool {
		return f.sched.State() == Recomputing
	}, 50*time.Millisecond, 5*time.Millisecond)
	assert.Equal(t, int32(1), f.builder.calls.Load())
}

func TestSubscribersRunInOrder(t *testing.T) {
	f := start(t)

	var mu sync.Mutex
	var calls []string
	listener := func(name string) func(*snapshot.Snapshot) {
		return func(s *snapshot.Snapshot) {
			mu.Lock()
			defer mu.Unlock()
			calls = append(calls, name)
		}
	}
	seen := func() []string {
		mu.Lock()
		defer mu.Unlock()
		return append([]string(nil), calls...)
	}

	f.sched.Subscribe(listener("a"))
	unsubscribeB := f.sched.Subscribe(listener("b"))
	f.sched.Subscribe(listener("c"))

	require.True(t, f.sched.RequestRefresh())
	f.awaitRecomputing(t)
	f.clock.Step(testLatency)
	require.Eventually(t, func() bool { return len(seen()) == 3 }, waitFor, pollEvery)
	assert.Equal(t, []string{"a", "b", "c"}, seen())

	unsubscribeB()
	unsubscribeB()

	require.True(t, f.sched.RequestRefresh())
	f.awaitRecomputing(t)
	f.clock.Step(testLatency)
	require.Eventually(t, func() bool { return len(seen()) == 5 }, waitFor, pollEvery)
	assert.Equal(t, []string{"a", "b", "c", "a", "c"}, seen())
}

func TestSubscriberReceivesPublishedSnapshot(t *testing.T) {
	f := start(t)

	got := make(chan *snapshot.Snapshot, 1)
	f.sched.Subscribe(func(s *snapshot.Snapshot) { got <- s })

	require.True(t, f.sched.RequestRefresh())
	f.awaitRecomputing(t)
	f.clock.Step(testLatency)

	select {
	case s := <-got:
		assert.Equal(t, uint64(1), s.Sequence)
		assert.Same(t, s, f.sched.Current())
	case <-time.After(waitFor):
		t.Fatal("subscriber was not called")
	}
}

func TestDisposeDuringRecomputeDiscardsCycle(t *testing.T) {
	obs := &recordingObserver{}
	f := start(t, WithObserver(obs))

	var published atomic.Int32
	f.sched.Subscribe(func(*snapshot.Snapshot) { published.Add(1) })

	require.True(t, f.sched.RequestRefresh())
	f.awaitRecomputing(t)

	f.sched.Dispose()
	assert.Equal(t, Stopped, f.sched.State())

	select {
	case <-f.sched.Done():
	case <-time.After(waitFor):
		t.Fatal("scheduler goroutine did not exit")
	}

	f.clock.Step(testLatency)
	f.clock.Step(testInterval)

	assert.Equal(t, uint64(0), f.sched.Current().Sequence)
	assert.Equal(t, int32(0), published.Load())
	assert.Equal(t, int32(0), f.builder.calls.Load())
	assert.Equal(t, 1, f.clock.Waiters(), "latency timer must be released")
	assert.Contains(t, obs.Events(), "abandoned:manual")
}

func TestDisposeIsIdempotent(t *testing.T) {
	obs := &recordingObserver{}
	f := start(t, WithObserver(obs))

	f.sched.Dispose()
	f.sched.Dispose()
	<-f.sched.Done()
	f.sched.Dispose()

	stops := 0
	for _, e := range obs.Events() {
		if e == "state:stopped" {
			stops++
		}
	}
	assert.Equal(t, 1, stops)
	assert.Equal(t, Stopped, f.sched.State())
}

func TestMisuseAfterDispose(t *testing.T) {
	f := start(t)
	last := f.sched.Current()

	f.sched.Dispose()
	<-f.sched.Done()

	assert.False(t, f.sched.RequestRefresh())
	assert.Same(t, last, f.sched.Current())

	unsubscribe := f.sched.Subscribe(func(*snapshot.Snapshot) { t.Error("listener called after dispose") })
	unsubscribe()
	unsubscribe()
}

func TestInstancesAreIndependent(t *testing.T) {
	a := start(t)
	b := start(t)

	a.sched.Dispose()
	<-a.sched.Done()

	require.True(t, b.sched.RequestRefresh())
	b.awaitRecomputing(t)
	b.clock.Step(testLatency)
	b.awaitSequence(t, 1)

	assert.Equal(t, Stopped, a.sched.State())
	assert.Equal(t, uint64(0), a.sched.Current().Sequence)
	assert.Equal(t, int32(0), a.builder.calls.Load())
}

func TestContextCancelStops(t *testing.T) {
	clk := testclock.NewFakeClock(time.Now())
	ctx, cancel := context.WithCancel(context.Background())
	s := Start(ctx, &countingBuilder{}, nil, WithClock(clk))

	cancel()
	select {
	case <-s.Done():
	case <-time.After(waitFor):
		t.Fatal("scheduler did not stop on context cancel")
	}
	assert.Equal(t, Stopped, s.State())
	assert.Equal(t, snapshot.SeedID, s.Current().ID)
}

func TestZeroLatencyPublishesImmediately(t *testing.T) {
	obs := &recordingObserver{}
	f := start(t, WithLatency(0), WithObserver(obs))

	require.True(t, f.sched.RequestRefresh())
	f.awaitSequence(t, 1)
	require.Eventually(t, func() bool { return len(obs.Events()) == 5 }, waitFor, pollEvery)

	assert.Equal(t, []string{
		"state:idle",
		"state:recomputing",
		"started:manual",
		"completed:manual",
		"state:idle",
	}, obs.Events())
}

func TestBuilderFunc(t *testing.T) {
	var b Builder = BuilderFunc(func(prev *snapshot.Snapshot) *snapshot.Snapshot {
		return &snapshot.Snapshot{Sequence: prev.Sequence + 10}
	})
	assert.Equal(t, uint64(10), b.Next(snapshot.Seed()).Sequence)
}

func TestStateString(t *testing.T) {
	tests := map[State]string{
		Idle:        "idle",
		Recomputing: "recomputing",
		Stopped:     "stopped",
		State(9):    "state(9)",
	}
	for state, expected := range tests {
		if got := state.String(); got != expected {
			t.Errorf("State(%d).String() = %q, expected %q", int32(state), got, expected)
		}
	}
}

func TestObserversNotifiedInOrder(t *testing.T) {
	var (
		mu    sync.Mutex
		order []string
	)
	first := &recordingObserver{}
	second := &recordingObserver{}
	tag := func(name string, obs *recordingObserver) Observer {
		return Observers{obs, stateTagger(func(state State) {
			mu.Lock()
			defer mu.Unlock()
			order = append(order, name+":"+state.String())
		})}
	}

	f := start(t, WithLatency(0), WithObserver(tag("first", first)), WithObserver(tag("second", second)))
	require.True(t, f.sched.RequestRefresh())
	f.awaitSequence(t, 1)
	require.Eventually(t, func() bool { return len(second.Events()) == 5 }, waitFor, pollEvery)

	assert.Equal(t, first.Events(), second.Events())
	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{
		"first:idle", "second:idle",
		"first:recomputing", "second:recomputing",
		"first:idle", "second:idle",
	}, order)
}

func TestStoppedIsLastStateReported(t *testing.T) {
	for i := 0; i < 50; i++ {
		obs := &recordingObserver{}
		f := start(t, WithLatency(0), WithObserver(obs))

		require.True(t, f.sched.RequestRefresh())
		go f.sched.Dispose()
		<-f.sched.Done()

		var last string
		for _, e := range obs.Events() {
			if strings.HasPrefix(e, "state:") {
				last = e
			}
		}
		require.Equal(t, "state:stopped", last, "run %d: %v", i, obs.Events())
	}
}

type stateTagger func(State)

func (f stateTagger) StateChanged(state State) { f(state) }
func (stateTagger) CycleStarted(Trigger) {}
func (stateTagger) CycleCompleted(Trigger, *snapshot.Snapshot, time.Duration) {}
func (stateTagger) CycleAbandoned(Trigger) {}
