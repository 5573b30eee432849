package game

import (
	"context"
	"errors"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"devpet/internal/achievement"
	"devpet/internal/clock"
	"devpet/internal/config"
	"devpet/internal/notify"
	"devpet/internal/pet"
	"devpet/internal/sim"
	"devpet/internal/store"
	"devpet/internal/upgrade"
)

var start = time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)

var _ sim.Target = (*Engine)(nil)

func never() float64 { return 1 }

type harness struct {
	e   *Engine
	cfg config.Config
	clk *clock.Mock
	rec *notify.Recorder
	mem *store.Memory
}

func newHarness(t *testing.T, tweak ...func(*config.Config)) *harness {
	t.Helper()
	cfg := config.Default()
	cfg.Actions.EventChance = 0
	for _, fn := range tweak {
		fn(&cfg)
	}
	h := &harness{
		cfg: cfg,
		clk: clock.NewMock(start),
		rec: &notify.Recorder{},
		mem: store.NewMemory(),
	}
	h.e = New(h.options())
	return h
}

func (h *harness) options() Options {
	return Options{
		Config: h.cfg,
		Clock:  h.clk,
		Sink:   h.rec,
		Writer: store.NewWriter(h.mem, 0),
		Rand:   never,
	}
}

// set edits the live stats directly, bypassing the action guards.
func (h *harness) set(fn func(s *pet.Stats)) {
	h.e.mu.Lock()
	defer h.e.mu.Unlock()
	fn(&h.e.ctx.Stats)
}

func (h *harness) advanceAndTick(d time.Duration) pet.Stats {
	h.clk.Advance(d)
	h.e.Tick(h.clk.Now())
	return h.e.Stats()
}

func TestNewEngineDefaults(t *testing.T) {
	h := newHarness(t)
	s := h.e.Stats()

	assert.Equal(t, 60.0, s.Hunger)
	assert.Equal(t, 400, s.Money)
	assert.Equal(t, 1, s.Level)
	assert.True(t, s.IsAwake)
	assert.Equal(t, sim.Normal, h.e.Mode())
	assert.Equal(t, time.Minute, h.e.Interval())
	assert.False(t, h.e.Degraded())

	snap := h.e.Snapshot()
	assert.Len(t, snap.Upgrades, len(upgrade.Defaults()))
	assert.Len(t, snap.Achievements, len(achievement.Defaults()))
	assert.Nil(t, snap.Pending)
}

func TestTickAsleepTwoHours(t *testing.T) {
	h := newHarness(t)
	_, err := h.e.ToggleSleep()
	require.NoError(t, err)

	s := h.advanceAndTick(2 * time.Hour)
	assert.Equal(t, 100.0, s.Energy)
	assert.InDelta(t, 58.0, s.Hunger, 1e-9)
	assert.Equal(t, 75.0, s.Happiness)
	assert.Equal(t, 100.0, s.Health)
}

func TestTickIsIdempotent(t *testing.T) {
	h := newHarness(t)

	first := h.advanceAndTick(3 * time.Hour)
	h.e.Tick(h.clk.Now())
	assert.Equal(t, first, h.e.Stats(), "second tick at the same instant must not decay again")

	h.clk.Advance(10 * time.Second)
	h.e.Tick(h.clk.Now())
	assert.Equal(t, first, h.e.Stats(), "spans under the threshold are skipped")
}

func TestTickIgnoresClockGoingBackwards(t *testing.T) {
	h := newHarness(t)
	before := h.e.Stats()

	h.clk.Advance(-time.Hour)
	h.e.Tick(h.clk.Now())
	assert.Equal(t, before, h.e.Stats())
}

func TestDeathIsAnnouncedOnce(t *testing.T) {
	h := newHarness(t)
	h.set(func(s *pet.Stats) {
		s.Hunger = 0
		s.Energy = 0
		s.Health = 10
	})

	s := h.advanceAndTick(time.Hour)
	assert.InDelta(t, 2.0, s.Health, 1e-9)
	assert.False(t, s.IsDead)

	s = h.advanceAndTick(time.Hour)
	assert.True(t, s.IsDead)
	assert.Equal(t, 0.0, s.Health)

	for i := 0; i < 5; i++ {
		h.advanceAndTick(time.Hour)
	}
	assert.Equal(t, 1, h.rec.Count("💀 Byte died"))

	_, err := h.e.Feed()
	assert.ErrorIs(t, err, ErrDead)
}

func TestRejectedActionKeepsSettledTime(t *testing.T) {
	h := newHarness(t)
	h.set(func(s *pet.Stats) {
		s.Hunger = 0
		s.Energy = 0
		s.Health = 5
	})

	h.clk.Advance(2 * time.Hour)
	s, err := h.e.PurchaseUpgrade("keyboard")
	requireRejection(t, err, RejectValidation, ErrDead)
	assert.True(t, s.IsDead, "the returned snapshot agrees with the rejection")
	assert.Equal(t, 0.0, s.Health)
	assert.True(t, s.LastUpdated.Equal(h.clk.Now()))
	assert.Equal(t, 1, h.rec.Count("💀 Byte died"))
	assert.Equal(t, pet.DefaultMoney, s.Money, "the purchase itself is dropped")

	h.e.Tick(h.clk.Now())
	assert.Equal(t, 1, h.rec.Count("💀 Byte died"))
}

func TestRejectedActionWithoutElapsedTimeChangesNothing(t *testing.T) {
	h := newHarness(t)
	h.set(func(s *pet.Stats) { s.IsAwake = false })
	before := h.e.Snapshot()

	_, err := h.e.Work()
	requireRejection(t, err, RejectValidation, ErrAsleep)
	assert.Equal(t, before.Stats, h.e.Stats())
	assert.Empty(t, h.rec.Drain())
}

func TestReviveRestoresPet(t *testing.T) {
	h := newHarness(t)
	h.set(func(s *pet.Stats) {
		s.Health = 0
		s.IsDead = true
		s.Hunger = 0
		s.Energy = 5
		s.Happiness = 80
	})

	s, err := h.e.Revive()
	require.NoError(t, err)
	assert.False(t, s.IsDead)
	assert.True(t, s.IsAwake)
	assert.Equal(t, 50.0, s.Health)
	assert.Equal(t, 50.0, s.Hunger)
	assert.Equal(t, 50.0, s.Energy)
	assert.Equal(t, 80.0, s.Happiness)
	assert.Equal(t, 1, h.e.Snapshot().Counters.Revives)

	_, err = h.e.Revive()
	r, ok := AsRejection(err)
	require.True(t, ok)
	assert.Equal(t, RejectValidation, r.Kind)
	assert.ErrorIs(t, err, ErrNotDead)
}

func TestFastForward(t *testing.T) {
	h := newHarness(t)

	_, err := h.e.ToggleFastForward()
	assert.ErrorIs(t, err, ErrNotAsleep, "fast-forward needs a sleeping pet")
	assert.Equal(t, sim.Normal, h.e.Mode())

	_, err = h.e.ToggleSleep()
	require.NoError(t, err)
	_, err = h.e.ToggleFastForward()
	require.NoError(t, err)
	assert.Equal(t, sim.FastForward, h.e.Mode())
	assert.Equal(t, 1500*time.Millisecond, h.e.Interval())

	select {
	case <-h.e.ModeChanged():
	default:
		t.Fatal("mode change was not signalled")
	}

	// each firing simulates 5 minutes of sleep: +3.33 energy
	s := h.advanceAndTick(1500 * time.Millisecond)
	assert.InDelta(t, 90+40.0/12, s.Energy, 1e-9)
	assert.InDelta(t, 60-1.0/12, s.Hunger, 1e-9)

	ticks := 1
	for h.e.Mode() == sim.FastForward && ticks < 10 {
		h.advanceAndTick(1500 * time.Millisecond)
		ticks++
	}
	s = h.e.Stats()
	assert.Equal(t, sim.Normal, h.e.Mode(), "waking turns fast-forward off")
	assert.True(t, s.IsAwake)
	assert.Equal(t, 100.0, s.Energy)
	assert.LessOrEqual(t, ticks, 4)
	assert.Equal(t, 1, h.rec.Count("☀️ Byte woke up"))
}

func TestFastForwardTurnsOffWhenWoken(t *testing.T) {
	h := newHarness(t)
	_, _ = h.e.ToggleSleep()
	_, err := h.e.ToggleFastForward()
	require.NoError(t, err)

	_, err = h.e.ToggleSleep()
	require.NoError(t, err)
	assert.Equal(t, sim.Normal, h.e.Mode())
	assert.Equal(t, time.Minute, h.e.Interval())
}

func TestFastForwardToggleOff(t *testing.T) {
	h := newHarness(t)
	_, _ = h.e.ToggleSleep()
	_, _ = h.e.ToggleFastForward()

	_, err := h.e.ToggleFastForward()
	require.NoError(t, err)
	assert.Equal(t, sim.Normal, h.e.Mode())
	assert.True(t, h.e.Stats().Asleep())
}

func TestRunnerDrivesEngine(t *testing.T) {
	h := newHarness(t, func(c *config.Config) {
		c.Schedule.TickInterval = time.Hour
		c.Schedule.FastForwardInterval = 5 * time.Millisecond
	})
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- sim.NewRunner(h.e, h.clk).Run(ctx) }()

	_, _ = h.e.ToggleSleep()
	_, err := h.e.ToggleFastForward()
	require.NoError(t, err)

	// the mock clock never moves, so every firing is a minimum 5 minute step
	assert.Eventually(t, func() bool {
		return h.e.Stats().IsAwake && h.e.Mode() == sim.Normal
	}, 2*time.Second, 5*time.Millisecond)
	assert.Equal(t, 100.0, h.e.Stats().Energy)

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("runner did not stop")
	}
}

func TestLoadRoundTrip(t *testing.T) {
	h := newHarness(t)
	_, err := h.e.Work()
	require.NoError(t, err)
	_, err = h.e.PurchaseUpgrade("keyboard")
	require.NoError(t, err)
	_, err = h.e.BuyItem("coffee")
	require.NoError(t, err)

	loaded := Load(context.Background(), h.mem, h.options())
	want, got := h.e.Snapshot(), loaded.Snapshot()

	assert.True(t, want.Stats.LastUpdated.Equal(got.Stats.LastUpdated))
	want.Stats.LastUpdated, got.Stats.LastUpdated = time.Time{}, time.Time{}
	assert.Equal(t, want.Stats, got.Stats)
	assert.Equal(t, want.Upgrades, got.Upgrades)
	assert.Equal(t, want.Achievements, got.Achievements)
	assert.Equal(t, want.Counters, got.Counters)
	assert.Equal(t, want.Inventory, got.Inventory)
	assert.False(t, loaded.Degraded())
}

func TestLoadCatchesUpOnce(t *testing.T) {
	h := newHarness(t)
	_, err := h.e.ToggleSleep()
	require.NoError(t, err)

	h.clk.Advance(2 * time.Hour)
	first := Load(context.Background(), h.mem, h.options()).Stats()
	assert.Equal(t, 100.0, first.Energy)
	assert.InDelta(t, 58.0, first.Hunger, 1e-9)

	second := Load(context.Background(), h.mem, h.options()).Stats()
	assert.Equal(t, first.Energy, second.Energy)
	assert.Equal(t, first.Hunger, second.Hunger)
	assert.True(t, first.LastUpdated.Equal(second.LastUpdated))
}

func TestLoadIsForwardCompatible(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	require.NoError(t, h.mem.Save(ctx, store.KeyUpgrades, []byte(`[
		{"id": "keyboard", "level": 2, "is_unlocked": true},
		{"id": "quantum_desk", "level": 9, "is_unlocked": true}
	]`)))
	require.NoError(t, h.mem.Save(ctx, store.KeyAchievements, []byte(`[
		{"id": "hello_world", "is_unlocked": true},
		{"id": "retired_badge", "is_unlocked": true}
	]`)))
	require.NoError(t, h.mem.Save(ctx, store.KeyInventory, []byte(`{"coffee": 2, "mystery_box": 1}`)))

	snap := Load(ctx, h.mem, h.options()).Snapshot()

	require.Len(t, snap.Upgrades, len(upgrade.Defaults()))
	assert.Equal(t, 2, snap.Upgrades[upgrade.Find(snap.Upgrades, "keyboard")].Level)
	assert.Equal(t, -1, upgrade.Find(snap.Upgrades, "quantum_desk"))

	require.Len(t, snap.Achievements, len(achievement.Defaults()))
	assert.Equal(t, []string{"first_upgrade", "hello_world"}, achievement.UnlockedIDs(snap.Achievements))
	assert.Equal(t, Inventory{"coffee": 2}, snap.Inventory)
	assert.Equal(t, 0, h.rec.Count("🏆 Hello, World"), "already unlocked achievements are not announced again")
}

func TestLoadPartialStatsBlob(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	require.NoError(t, h.mem.Save(ctx, store.KeyStats, []byte(`{"money": 1234, "last_updated": "2026-03-14T09:00:00Z"}`)))

	e := Load(ctx, h.mem, h.options())
	s := e.Stats()

	assert.Equal(t, 1234, s.Money)
	assert.Equal(t, "Byte", s.Name)
	assert.Equal(t, float64(pet.DefaultHunger), s.Hunger)
	assert.Equal(t, float64(pet.DefaultHealth), s.Health)
	assert.Equal(t, 1, s.Level)
	assert.True(t, s.IsAwake)
	assert.False(t, s.IsDead)
	assert.False(t, e.Degraded())
	assert.Equal(t, 0, h.rec.Count("💀 Byte died"))
}

func TestLoadFailureIsDegraded(t *testing.T) {
	h := newHarness(t)
	h.mem.FailLoads = errors.New("permission denied")

	e := Load(context.Background(), h.mem, h.options())
	assert.True(t, e.Degraded())
	assert.Equal(t, pet.DefaultMoney, e.Stats().Money)
}

func TestSaveFailureIsDegradedNotFatal(t *testing.T) {
	h := newHarness(t)
	h.mem.SetFailSaves(errors.New("disk full"))

	s, err := h.e.Play()
	require.NoError(t, err, "persistence failures never reach the caller")
	assert.Equal(t, 75.0, s.Energy)
	assert.True(t, h.e.Degraded())

	h.mem.SetFailSaves(nil)
	_, err = h.e.Feed()
	require.NoError(t, err)
	assert.False(t, h.e.Degraded())
}

func TestReset(t *testing.T) {
	h := newHarness(t)
	_, _ = h.e.PurchaseUpgrade("keyboard")
	_, _ = h.e.BuyItem("pizza")
	_, _ = h.e.GainExperience(500)

	s, err := h.e.Reset()
	require.NoError(t, err)
	assert.Equal(t, pet.NewStats(start), s)

	snap := h.e.Snapshot()
	assert.Equal(t, 0, snap.Upgrades[upgrade.Find(snap.Upgrades, "keyboard")].Level)
	assert.Empty(t, achievement.UnlockedIDs(snap.Achievements))
	assert.Empty(t, snap.Inventory)
	assert.Equal(t, achievement.Counters{}, snap.Counters)
}

func TestStatsStayInBounds(t *testing.T) {
	h := newHarness(t, func(c *config.Config) { c.Actions.EventChance = 1 })
	rng := rand.New(rand.NewSource(7))
	h.e.rand = rng.Float64

	actions := []func() (pet.Stats, error){
		h.e.Feed, h.e.Play, h.e.Work, h.e.ToggleSleep, h.e.ToggleFastForward, h.e.Revive,
		h.e.ClaimDailyBonus,
		func() (pet.Stats, error) { return h.e.PurchaseUpgrade("coffee_machine") },
		func() (pet.Stats, error) { return h.e.PlayMiniGame(MiniGameSpin, rng.Intn(MaxScore+1)) },
		func() (pet.Stats, error) { return h.e.BuyItem("energy_drink") },
		func() (pet.Stats, error) { return h.e.UseItem("energy_drink") },
		func() (pet.Stats, error) {
			if p, _, ok := h.e.PendingEvent(); ok {
				return h.e.ResolveEvent(p.ID, 0)
			}
			return h.e.Stats(), nil
		},
	}

	for i := 0; i < 1000; i++ {
		if rng.Intn(3) == 0 {
			h.advanceAndTick(time.Duration(rng.Int63n(int64(4 * time.Hour))))
		} else {
			_, err := actions[rng.Intn(len(actions))]()
			if err != nil {
				_, ok := AsRejection(err)
				require.True(t, ok, "actions only fail with rejections: %v", err)
			}
		}

		s := h.e.Stats()
		for name, v := range map[string]float64{
			"hunger": s.Hunger, "happiness": s.Happiness, "energy": s.Energy, "health": s.Health,
		} {
			require.GreaterOrEqual(t, v, pet.MinStat, "%s at step %d", name, i)
			require.LessOrEqual(t, v, pet.MaxStat, "%s at step %d", name, i)
		}
		require.GreaterOrEqual(t, s.Money, 0)
		require.GreaterOrEqual(t, s.Experience, 0)
		require.GreaterOrEqual(t, s.Streak, 0)
		require.GreaterOrEqual(t, s.Level, 1)
		if s.IsDead {
			require.Equal(t, 0.0, s.Health)
		}
	}
}
