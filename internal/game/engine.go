// Package game is the progression facade. Engine owns the live Context,
// runs every mutation through one transaction path and is the only thing
// that talks to persistence and the notification sink.
package game

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"devpet/internal/achievement"
	"devpet/internal/clock"
	"devpet/internal/config"
	"devpet/internal/notify"
	"devpet/internal/pet"
	"devpet/internal/sim"
	"devpet/internal/store"
	"devpet/internal/upgrade"
)

// Options wires an Engine to its collaborators. Zero fields get defaults:
// the built-in config, the real clock, a logging sink, no persistence and
// math/rand.
type Options struct {
	Config config.Config
	Clock  clock.Clock
	Sink   notify.Sink
	Writer *store.Writer
	Rand   func() float64
}

// Engine serializes every call with one mutex.
type Engine struct {
	mu sync.Mutex

	cfg    config.Config
	clock  clock.Clock
	sink   notify.Sink
	writer *store.Writer
	rand   func() float64

	sched  *sim.Scheduler
	modeCh chan struct{}

	ctx        Context
	loadFailed bool
}

// New creates an engine with a fresh save. Nothing is read from storage.
func New(opts Options) *Engine {
	e := newEngine(opts)
	e.ctx = NewContext(e.clock.Now())
	return e
}

func newEngine(opts Options) *Engine {
	if opts.Config == (config.Config{}) {
		opts.Config = config.Default()
	}
	if opts.Clock == nil {
		opts.Clock = clock.Real{}
	}
	if opts.Sink == nil {
		opts.Sink = notify.Log{Logger: logrus.StandardLogger()}
	}
	if opts.Rand == nil {
		opts.Rand = rand.Float64
	}
	return &Engine{
		cfg:    opts.Config,
		clock:  opts.Clock,
		sink:   opts.Sink,
		writer: opts.Writer,
		rand:   opts.Rand,
		sched:  sim.NewScheduler(opts.Config.Schedule),
		modeCh: make(chan struct{}, 1),
	}
}

// Load restores the save from gw, merges it with the current catalogs and
// catches up on the time that passed while the app was closed. A read
// failure is logged and the affected part falls back to its default; the
// engine then reports itself degraded.
func Load(ctx context.Context, gw store.Gateway, opts Options) *Engine {
	e := newEngine(opts)
	now := e.clock.Now()
	fresh := NewContext(now)

	failed := func(key string, err error) {
		if err != nil {
			logrus.WithError(err).WithField("key", key).Error("Failed to load state, using defaults")
			e.loadFailed = true
		}
	}

	stats, err := store.LoadJSON(ctx, gw, store.KeyStats, fresh.Stats)
	failed(store.KeyStats, err)
	savedUps, err := store.LoadJSON[[]upgrade.Saved](ctx, gw, store.KeyUpgrades, nil)
	failed(store.KeyUpgrades, err)
	savedAch, err := store.LoadJSON[[]achievement.Achievement](ctx, gw, store.KeyAchievements, nil)
	failed(store.KeyAchievements, err)
	counters, err := store.LoadJSON(ctx, gw, store.KeyCounters, achievement.Counters{})
	failed(store.KeyCounters, err)
	inv, err := store.LoadJSON(ctx, gw, store.KeyInventory, Inventory{})
	failed(store.KeyInventory, err)

	if stats.LastUpdated.IsZero() {
		stats.LastUpdated = now
	}
	if inv == nil {
		inv = Inventory{}
	}
	for id, n := range inv {
		if _, ok := LookupItem(id); !ok || n <= 0 {
			delete(inv, id)
		}
	}

	e.ctx = Context{
		Stats:        stats.Sanitize(),
		Upgrades:     upgrade.Merge(upgrade.Defaults(), savedUps),
		Achievements: achievement.Merge(savedAch),
		Counters:     counters,
		Inventory:    inv,
	}

	logrus.WithFields(logrus.Fields{
		"pet_level": e.ctx.Stats.Level,
		"money":     e.ctx.Stats.Money,
		"away":      now.Sub(e.ctx.Stats.LastUpdated).Round(time.Second),
		"asleep":    e.ctx.Stats.Asleep(),
	}).Info("Save loaded")

	e.mu.Lock()
	defer e.mu.Unlock()
	t := e.begin(now)
	e.commit(t)
	return e
}

// tx is an action in progress: a private copy of the Context plus the
// notices to send once it commits.
type tx struct {
	Context
	now     time.Time
	notices []notify.Notice
	settled bool // begin applied catch-up
}

func (t *tx) announce(title, body string) {
	t.notices = append(t.notices, notify.Notice{Title: title, Body: body})
}

// begin copies the live context and settles elapsed time in normal mode,
// so the span before an action is decayed under the state it was spent in.
// Fast-forward owns the anchor while it is active.
func (e *Engine) begin(now time.Time) *tx {
	t := &tx{Context: e.ctx.Clone(), now: now}
	if e.sched.Mode() == sim.Normal {
		if next, _, applied := sim.CatchUp(t.Stats, t.Upgrades, now, e.sched, e.cfg.Rates); applied {
			t.Stats = next
			t.settled = true
		}
	}
	return t
}

// commit finalizes t and makes it the live context. Order matters: the new
// snapshot is complete before unlocks and achievements read it, and both
// happen before it is persisted.
func (e *Engine) commit(t *tx) {
	t.Stats = t.Stats.Sanitize()
	name := t.Stats.Name

	if t.Stats.Health <= pet.MinStat && !t.Stats.IsDead {
		t.Stats.IsDead = true
	}
	if t.Stats.IsDead && !e.ctx.Stats.IsDead {
		t.Pending = nil
		t.Stats.IsDizzy = false
		t.announce(pet.StatusEmojiDead+" "+name+" died", "Revive them to keep going.")
		logrus.WithField("pet_level", t.Stats.Level).Warn("Pet died")
	}

	before := t.Upgrades
	t.Upgrades = upgrade.CheckUnlocks(t.Upgrades, t.progress())
	for _, u := range upgrade.NewlyUnlocked(before, t.Upgrades) {
		t.announce("🔓 "+u.Name+" unlocked", "New upgrade available in the shop.")
	}

	fresh := achievement.Diff(t.Achievements, achievement.Evaluate(t.Stats, t.Upgrades, t.Counters))
	if len(fresh) > 0 {
		t.Achievements = achievement.Unlock(t.Achievements, fresh)
		for _, id := range fresh {
			d, _ := achievement.Lookup(id)
			t.announce("🏆 "+d.Title, d.Description)
			logrus.WithField("achievement", id).Info("Achievement unlocked")
		}
	}

	if e.sched.Mode() == sim.FastForward && (t.Stats.IsDead || !t.Stats.Asleep()) {
		e.setMode(sim.Normal)
	}

	e.ctx = t.Context
	e.persist()

	for _, n := range t.notices {
		e.sink.Announce(n.Title, n.Body)
	}
}

func (e *Engine) persist() {
	if e.writer == nil {
		return
	}
	save := func(key string, v any) {
		if err := e.writer.Save(key, v); err != nil {
			logrus.WithError(err).WithField("key", key).Error("Failed to queue save")
		}
	}
	save(store.KeyStats, e.ctx.Stats)
	save(store.KeyUpgrades, upgrade.ToSaved(e.ctx.Upgrades))
	save(store.KeyAchievements, e.ctx.Achievements)
	save(store.KeyCounters, e.ctx.Counters)
	save(store.KeyInventory, e.ctx.Inventory)
}

func (e *Engine) setMode(m sim.Mode) {
	if !e.sched.SetMode(m) {
		return
	}
	select {
	case e.modeCh <- struct{}{}:
	default:
	}
}

// Tick advances the simulation to now. It is the single timer entry point
// for both modes: the scheduler decides how much time the tick covers.
func (e *Engine) Tick(now time.Time) {
	e.mu.Lock()
	defer e.mu.Unlock()

	t := &tx{Context: e.ctx.Clone(), now: now}
	next, died, applied := sim.CatchUp(t.Stats, t.Upgrades, now, e.sched, e.cfg.Rates)
	expired := t.Pending != nil && t.Pending.Expired(now)
	if !applied && !expired {
		return
	}
	t.Stats = next
	if died {
		logrus.WithField("mode", e.sched.Mode()).Debug("Death reached during tick")
	}

	if e.sched.Mode() == sim.FastForward && t.Stats.Asleep() && !t.Stats.IsDead && t.Stats.Energy >= pet.MaxStat {
		t.Stats.IsAwake = true
		t.announce("☀️ "+t.Stats.Name+" woke up", "Fully rested.")
	}

	e.tickEvents(t, applied)
	e.commit(t)
}

// Interval is how often the active mode wants Tick called.
func (e *Engine) Interval() time.Duration {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.sched.Interval()
}

// ModeChanged receives a value whenever the scheduler mode flips.
func (e *Engine) ModeChanged() <-chan struct{} {
	return e.modeCh
}

// Mode returns the active scheduler mode.
func (e *Engine) Mode() sim.Mode {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.sched.Mode()
}

// Stats returns the current stats snapshot.
func (e *Engine) Stats() pet.Stats {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.ctx.Stats
}

// Snapshot returns a deep copy of the whole context.
func (e *Engine) Snapshot() Context {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.ctx.Clone()
}

// Config returns the tuning the engine runs with.
func (e *Engine) Config() config.Config {
	return e.cfg
}

// Degraded reports whether loading failed or the latest save failed. The
// engine keeps running on in-memory state either way.
func (e *Engine) Degraded() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.loadFailed || (e.writer != nil && e.writer.Degraded())
}

// Close flushes pending saves.
func (e *Engine) Close(ctx context.Context) error {
	if e.writer == nil {
		return nil
	}
	return e.writer.Close(ctx)
}
