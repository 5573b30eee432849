package sim

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"devpet/internal/clock"
)

// Target is what a Runner drives.
type Target interface {
	Tick(now time.Time)
	Interval() time.Duration
	ModeChanged() <-chan struct{}
}

// Runner is the single headless timer loop. It owns one ticker and resets
// its period whenever the target's mode changes, so there is never a second
// timer racing on the same anchor.
type Runner struct {
	target Target
	clock  clock.Clock
}

// NewRunner creates a runner for target.
func NewRunner(target Target, c clock.Clock) *Runner {
	return &Runner{target: target, clock: c}
}

// Run ticks until ctx is done. The ticker is stopped before Run returns.
func (r *Runner) Run(ctx context.Context) error {
	interval := r.target.Interval()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	logrus.WithField("interval", interval).Info("Runner started")

	for {
		select {
		case <-ctx.Done():
			logrus.Info("Runner stopped")
			return ctx.Err()
		case <-ticker.C:
			r.target.Tick(r.clock.Now())
		case <-r.target.ModeChanged():
		}

		if next := r.target.Interval(); next != interval {
			logrus.WithFields(logrus.Fields{"from": interval, "to": next}).Debug("Runner interval changed")
			interval = next
			ticker.Reset(interval)
		}
	}
}
