// Package sim decides how much simulated time each tick covers. One
// Scheduler holds the Normal/FastForward mode so only one elapsed-time
// policy is ever active.
package sim

import (
	"time"

	"github.com/sirupsen/logrus"

	"devpet/internal/pet"
	"devpet/internal/upgrade"
)

// Mode selects the elapsed-time policy.
type Mode int

const (
	Normal Mode = iota
	FastForward
)

func (m Mode) String() string {
	if m == FastForward {
		return "fast-forward"
	}
	return "normal"
}

// Policy holds the timing knobs of the scheduler.
type Policy struct {
	TickInterval        time.Duration `yaml:"tick_interval"`
	FastForwardInterval time.Duration `yaml:"fast_forward_interval"`
	MinElapsed          time.Duration `yaml:"min_elapsed"`
	SleepFloor          time.Duration `yaml:"sleep_floor"`
	FastForwardStep     time.Duration `yaml:"fast_forward_step"`
}

// DefaultPolicy returns the stock timings.
func DefaultPolicy() Policy {
	return Policy{
		TickInterval:        time.Minute,
		FastForwardInterval: 1500 * time.Millisecond,
		MinElapsed:          36 * time.Second,
		SleepFloor:          2 * time.Minute,
		FastForwardStep:     5 * time.Minute,
	}
}

// Scheduler holds the current mode and applies its policy.
type Scheduler struct {
	policy Policy
	mode   Mode
}

// NewScheduler creates a scheduler in Normal mode.
func NewScheduler(p Policy) *Scheduler {
	return &Scheduler{policy: p}
}

// Mode returns the active mode.
func (s *Scheduler) Mode() Mode {
	return s.mode
}

// SetMode switches mode and reports whether it changed.
func (s *Scheduler) SetMode(m Mode) bool {
	if s.mode == m {
		return false
	}
	logrus.WithFields(logrus.Fields{"from": s.mode, "to": m}).Info("Scheduler mode changed")
	s.mode = m
	return true
}

// Interval is how often the active mode wants to be ticked.
func (s *Scheduler) Interval() time.Duration {
	if s.mode == FastForward {
		return s.policy.FastForwardInterval
	}
	return s.policy.TickInterval
}

// Step returns the span to simulate for a tick at now given the stats
// anchor. ok is false when the tick should be skipped.
//
// Normal mode skips spans under MinElapsed (which also covers a clock that
// moved backwards) and floors sleeping spans at SleepFloor. Fast-forward
// always simulates at least FastForwardStep.
func (s *Scheduler) Step(now, anchor time.Time, asleep bool) (time.Duration, bool) {
	actual := now.Sub(anchor)

	if s.mode == FastForward {
		if actual < s.policy.FastForwardStep {
			return s.policy.FastForwardStep, true
		}
		return actual, true
	}

	if actual < s.policy.MinElapsed {
		return 0, false
	}
	if asleep && actual < s.policy.SleepFloor {
		return s.policy.SleepFloor, true
	}
	return actual, true
}

// CatchUp applies one lump-sum decay covering the gap between the stats
// anchor and now. Calling it again with the same clock is a no-op because
// the anchor moves to now on every application.
func CatchUp(s pet.Stats, ups []upgrade.Upgrade, now time.Time, sched *Scheduler, rates pet.Rates) (next pet.Stats, died, applied bool) {
	elapsed, ok := sched.Step(now, s.LastUpdated, s.Asleep())
	if !ok {
		return s, false, false
	}

	logrus.WithFields(logrus.Fields{
		"elapsed": elapsed,
		"mode":    sched.Mode(),
		"asleep":  s.Asleep(),
	}).Debug("Catching up")

	next, died = pet.Decay(s, elapsed, now, ups, rates)
	return next, died, true
}
