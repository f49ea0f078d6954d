package out

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"timeanchor/internal/modules/session/domain"
	sessionout "timeanchor/internal/modules/session/port/out"
)

const slowSaveThreshold = 100 * time.Millisecond

// AsyncSnapshotWriter moves saves off the engine's lock. Only the newest
// pending snapshot is kept; older ones are superseded before they reach disk.
type AsyncSnapshotWriter struct {
	next   sessionout.SnapshotStore
	logger *slog.Logger

	mu      sync.Mutex
	pending *domain.State
	closed  bool

	// writeMu orders writes so an older snapshot never lands after a newer one.
	writeMu sync.Mutex

	wake chan struct{}
	done chan struct{}
	wg   sync.WaitGroup
}

func NewAsyncSnapshotWriter(next sessionout.SnapshotStore, logger *slog.Logger) *AsyncSnapshotWriter {
	if logger == nil {
		logger = slog.Default()
	}
	w := &AsyncSnapshotWriter{
		next:   next,
		logger: logger,
		wake:   make(chan struct{}, 1),
		done:   make(chan struct{}),
	}
	w.wg.Add(1)
	go w.run()
	return w
}

func (w *AsyncSnapshotWriter) Load(ctx context.Context) (domain.State, error) {
	return w.next.Load(ctx)
}

// Save queues state and returns at once.
func (w *AsyncSnapshotWriter) Save(_ context.Context, state domain.State) error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	if w.pending != nil {
		w.logger.Debug("snapshot superseded before write")
	}
	w.pending = &state
	w.mu.Unlock()

	select {
	case w.wake <- struct{}{}:
	default:
	}
	return nil
}

// Clear drops anything queued and clears the underlying store.
func (w *AsyncSnapshotWriter) Clear(ctx context.Context) error {
	w.writeMu.Lock()
	defer w.writeMu.Unlock()
	w.mu.Lock()
	w.pending = nil
	w.mu.Unlock()
	return w.next.Clear(ctx)
}

// Flush writes the pending snapshot, if any, on the caller's goroutine.
func (w *AsyncSnapshotWriter) Flush(ctx context.Context) error {
	w.writeMu.Lock()
	defer w.writeMu.Unlock()
	w.mu.Lock()
	state := w.pending
	w.pending = nil
	w.mu.Unlock()
	if state == nil {
		return nil
	}
	return w.next.Save(ctx, *state)
}

// Close stops the worker and writes whatever is still pending.
func (w *AsyncSnapshotWriter) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	w.mu.Unlock()

	close(w.done)
	w.wg.Wait()
	return w.Flush(context.Background())
}

func (w *AsyncSnapshotWriter) run() {
	defer w.wg.Done()
	for {
		select {
		case <-w.done:
			return
		case <-w.wake:
			start := time.Now()
			if err := w.Flush(context.Background()); err != nil {
				w.logger.Warn("snapshot write failed", "error", err)
				continue
			}
			if elapsed := time.Since(start); elapsed > slowSaveThreshold {
				w.logger.Warn("slow snapshot write", "duration_ms", elapsed.Milliseconds())
			}
		}
	}
}
