package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"
)

const flushTimeout = 5 * time.Second

// ErrClosed is returned by Save after Close.
var ErrClosed = errors.New("writer closed")

// Writer debounces saves to a Gateway. Each Save replaces the pending
// snapshot for its key, so a flush always writes the latest committed
// value and never an older one. Flushes are serialized. Failures are
// logged and mark the writer degraded; they are never returned to the
// caller of Save.
type Writer struct {
	gw    Gateway
	delay time.Duration

	mu      sync.Mutex
	pending map[string][]byte
	timer   *time.Timer
	closed  bool

	flushMu  sync.Mutex
	degraded atomic.Bool
}

// NewWriter creates a writer that flushes delay after the first unflushed
// save. A zero delay writes synchronously inside Save.
func NewWriter(gw Gateway, delay time.Duration) *Writer {
	return &Writer{
		gw:      gw,
		delay:   delay,
		pending: make(map[string][]byte),
	}
}

// Save snapshots v under key and schedules a flush.
func (w *Writer) Save(key string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}

	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return ErrClosed
	}
	w.pending[key] = data
	if w.delay <= 0 {
		w.mu.Unlock()
		w.Flush(context.Background())
		return nil
	}
	if w.timer == nil {
		w.timer = time.AfterFunc(w.delay, w.flushFromTimer)
	}
	w.mu.Unlock()
	return nil
}

func (w *Writer) flushFromTimer() {
	ctx, cancel := context.WithTimeout(context.Background(), flushTimeout)
	defer cancel()
	w.Flush(ctx)
}

// Flush writes every pending snapshot now. It returns the first error for
// callers that care (shutdown paths); the error is also logged.
func (w *Writer) Flush(ctx context.Context) error {
	// take flushMu before swapping so flushes write snapshots in order
	w.flushMu.Lock()
	defer w.flushMu.Unlock()

	w.mu.Lock()
	batch := w.pending
	w.pending = make(map[string][]byte)
	if w.timer != nil {
		w.timer.Stop()
		w.timer = nil
	}
	w.mu.Unlock()

	if len(batch) == 0 {
		return nil
	}

	keys := make([]string, 0, len(batch))
	for k := range batch {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var firstErr error
	failed := make(map[string][]byte)
	for _, key := range keys {
		if err := w.gw.Save(ctx, key, batch[key]); err != nil {
			logrus.WithError(err).WithField("key", key).Error("Failed to persist state")
			if firstErr == nil {
				firstErr = fmt.Errorf("save %s: %w", key, err)
			}
			failed[key] = batch[key]
			continue
		}
		logrus.WithField("key", key).Debug("State persisted")
	}

	if len(failed) > 0 {
		// retried on the next flush unless a newer snapshot arrived meanwhile
		w.mu.Lock()
		for key, data := range failed {
			if _, newer := w.pending[key]; !newer {
				w.pending[key] = data
			}
		}
		w.mu.Unlock()
	}

	if firstErr != nil {
		if !w.degraded.Swap(true) {
			logrus.Warn("Persistence degraded, continuing with in-memory state")
		}
		return firstErr
	}
	if w.degraded.Swap(false) {
		logrus.Info("Persistence recovered")
	}
	return nil
}

// Degraded reports whether the most recent flush failed.
func (w *Writer) Degraded() bool {
	return w.degraded.Load()
}

// Close flushes pending snapshots and rejects further saves.
func (w *Writer) Close(ctx context.Context) error {
	w.mu.Lock()
	w.closed = true
	w.mu.Unlock()
	return w.Flush(ctx)
}
