// Package notify delivers user-facing announcements (level-ups, deaths,
// achievements, daily bonuses).
package notify

import (
	"sync"

	"github.com/sirupsen/logrus"
)

// Sink announces an event to the user. Implementations must not block.
type Sink interface {
	Announce(title, body string)
}

// Func adapts a function to a Sink.
type Func func(title, body string)

// Announce implements Sink.
func (f Func) Announce(title, body string) {
	f(title, body)
}

// Log writes announcements to the logger.
type Log struct {
	Logger logrus.FieldLogger
}

// Announce implements Sink.
func (l Log) Announce(title, body string) {
	logger := l.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	logger.WithField("title", title).Info(body)
}

// Multi fans an announcement out to several sinks.
type Multi []Sink

// Announce implements Sink.
func (m Multi) Announce(title, body string) {
	for _, s := range m {
		s.Announce(title, body)
	}
}

// Notice is one recorded announcement.
type Notice struct {
	Title string
	Body  string
}

// Recorder keeps announcements in memory. The terminal UI drains it to show
// toasts, and tests use it to count notifications.
type Recorder struct {
	mu      sync.Mutex
	notices []Notice
}

// Announce implements Sink.
func (r *Recorder) Announce(title, body string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notices = append(r.notices, Notice{Title: title, Body: body})
}

// Notices returns a copy of everything recorded so far.
func (r *Recorder) Notices() []Notice {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Notice, len(r.notices))
	copy(out, r.notices)
	return out
}

// Drain returns and clears everything recorded so far.
func (r *Recorder) Drain() []Notice {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := r.notices
	r.notices = nil
	return out
}

// Count returns how many notices carry title.
func (r *Recorder) Count(title string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, notice := range r.notices {
		if notice.Title == title {
			n++
		}
	}
	return n
}
