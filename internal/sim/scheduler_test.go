package sim

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"devpet/internal/clock"
	"devpet/internal/pet"
	"devpet/internal/upgrade"
)

var testNow = time.Date(2026, 3, 14, 22, 0, 0, 0, time.UTC)

func TestStepNormal(t *testing.T) {
	s := NewScheduler(DefaultPolicy())

	tests := []struct {
		name    string
		elapsed time.Duration
		asleep  bool
		want    time.Duration
		wantOK  bool
	}{
		{"below threshold", 30 * time.Second, false, 0, false},
		{"clock moved backwards", -time.Hour, false, 0, false},
		{"at threshold", 36 * time.Second, false, 36 * time.Second, true},
		{"awake long gap", 3 * time.Hour, false, 3 * time.Hour, true},
		{"asleep short gap floored", 40 * time.Second, true, 2 * time.Minute, true},
		{"asleep below threshold still skipped", 10 * time.Second, true, 0, false},
		{"asleep long gap", time.Hour, true, time.Hour, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := s.Step(testNow.Add(tt.elapsed), testNow, tt.asleep)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestStepFastForward(t *testing.T) {
	s := NewScheduler(DefaultPolicy())
	require.True(t, s.SetMode(FastForward))
	require.False(t, s.SetMode(FastForward))

	got, ok := s.Step(testNow.Add(time.Second), testNow, true)
	assert.True(t, ok)
	assert.Equal(t, 5*time.Minute, got)

	got, ok = s.Step(testNow, testNow, true)
	assert.True(t, ok)
	assert.Equal(t, 5*time.Minute, got)

	got, _ = s.Step(testNow.Add(20*time.Minute), testNow, true)
	assert.Equal(t, 20*time.Minute, got)

	assert.Equal(t, DefaultPolicy().FastForwardInterval, s.Interval())
	s.SetMode(Normal)
	assert.Equal(t, DefaultPolicy().TickInterval, s.Interval())
}

func TestCatchUpIsIdempotent(t *testing.T) {
	sched := NewScheduler(DefaultPolicy())
	ups := upgrade.Defaults()
	start := pet.NewStats(testNow)
	now := testNow.Add(3 * time.Hour)

	first, _, applied := CatchUp(start, ups, now, sched, pet.DefaultRates())
	require.True(t, applied)
	assert.Less(t, first.Hunger, start.Hunger)

	second, _, applied := CatchUp(first, ups, now, sched, pet.DefaultRates())
	assert.False(t, applied)
	assert.Equal(t, first, second)
}

func TestCatchUpSleepFloor(t *testing.T) {
	sched := NewScheduler(DefaultPolicy())
	s := pet.NewStats(testNow)
	s.IsAwake = false
	s.Energy = 50

	next, _, applied := CatchUp(s, nil, testNow.Add(45*time.Second), sched, pet.DefaultRates())
	require.True(t, applied)
	// two minutes of sleep at 40/h
	assert.InDelta(t, 50+40.0/30, next.Energy, 1e-9)
}

func TestFastForwardConvergesWithDirectDecay(t *testing.T) {
	const firings = 24
	rates := pet.DefaultRates()
	ups := upgrade.Defaults()

	start := pet.NewStats(testNow)
	start.IsAwake = false
	start.Energy = 5
	start.Hunger = 80

	sched := NewScheduler(DefaultPolicy())
	sched.SetMode(FastForward)

	s := start
	now := testNow
	for i := 0; i < firings; i++ {
		now = now.Add(1500 * time.Millisecond)
		var applied bool
		s, _, applied = CatchUp(s, ups, now, sched, rates)
		require.True(t, applied)
	}

	direct, _ := pet.Decay(start, firings*5*time.Minute, now, ups, rates)
	assert.InDelta(t, direct.Energy, s.Energy, 0.01)
	assert.InDelta(t, direct.Hunger, s.Hunger, 0.01)
}

type fakeTarget struct {
	mu       sync.Mutex
	ticks    int32
	interval time.Duration
	changed  chan struct{}
}

func (f *fakeTarget) Tick(time.Time) {
	atomic.AddInt32(&f.ticks, 1)
}

func (f *fakeTarget) Interval() time.Duration {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.interval
}

func (f *fakeTarget) ModeChanged() <-chan struct{} {
	return f.changed
}

func (f *fakeTarget) setInterval(d time.Duration) {
	f.mu.Lock()
	f.interval = d
	f.mu.Unlock()
	f.changed <- struct{}{}
}

func TestRunnerSwitchesIntervalAndStops(t *testing.T) {
	target := &fakeTarget{interval: time.Hour, changed: make(chan struct{}, 1)}
	runner := NewRunner(target, clock.NewMock(testNow))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- runner.Run(ctx) }()

	target.setInterval(5 * time.Millisecond)
	assert.Eventually(t, func() bool {
		return atomic.LoadInt32(&target.ticks) >= 3
	}, 2*time.Second, 5*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("runner did not stop")
	}
}

func TestModeString(t *testing.T) {
	assert.Equal(t, "normal", Normal.String())
	assert.Equal(t, "fast-forward", FastForward.String())
}
