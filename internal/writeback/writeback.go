// Package writeback coalesces bursts of persist requests into a single
// trailing write. Each Schedule call replaces the pending write and resets
// the timer, so rapid edits produce one store write carrying only the latest
// snapshot — intermediate states are never separately persisted.
package writeback

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// WriteFunc persists one snapshot. The closure should capture the snapshot
// by value so later mutations cannot leak into an already-scheduled write.
type WriteFunc func(ctx context.Context) error

// Writer holds a single pending-write slot plus a timer handle. Write
// failures are logged, not retried, and never surfaced to callers: the
// in-memory state stays the session's source of truth. In-flight writes are
// not cancelled, so a superseded write may still land after a newer one if
// the store reorders them.
type Writer struct {
	delay   time.Duration
	timeout time.Duration
	log     *slog.Logger

	mu      sync.Mutex
	pending WriteFunc
	timer   *time.Timer
}

// New creates a Writer that fires delay after the most recent Schedule call.
func New(delay time.Duration, log *slog.Logger) *Writer {
	return &Writer{delay: delay, timeout: 10 * time.Second, log: log}
}

// Schedule replaces any pending write with fn and resets the timer.
func (w *Writer) Schedule(fn WriteFunc) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.pending = fn
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.delay, w.fire)
}

// Flush runs the pending write immediately, if any, and cancels the timer.
// Used at shutdown so the trailing snapshot is not lost.
func (w *Writer) Flush(ctx context.Context) error {
	w.mu.Lock()
	fn := w.pending
	w.pending = nil
	if w.timer != nil {
		w.timer.Stop()
		w.timer = nil
	}
	w.mu.Unlock()

	if fn == nil {
		return nil
	}
	return fn(ctx)
}

func (w *Writer) fire() {
	w.mu.Lock()
	fn := w.pending
	w.pending = nil
	w.timer = nil
	w.mu.Unlock()

	if fn == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), w.timeout)
	defer cancel()
	if err := fn(ctx); err != nil {
		w.log.Error("debounced persist failed", "error", err)
	}
}
