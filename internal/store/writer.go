package store

import (
	"context"
	"sync"

	"go.uber.org/zap"
	"philcali.me/fridgesnap/internal/data"
)

// Writer saves snapshots in the background. Only the newest pending snapshot
// is kept; failed saves are logged and never retried.
type Writer struct {
	persistence Persistence
	logger      *zap.Logger

	mu        sync.Mutex
	pending   *data.State
	submitted uint64
	written   uint64
	progress  chan struct{}

	wake chan struct{}
	stop chan struct{}
	done chan struct{}
	once sync.Once
}

func NewWriter(persistence Persistence, logger *zap.Logger) *Writer {
	w := &Writer{
		persistence: persistence,
		logger:      logger,
		progress:    make(chan struct{}),
		wake:        make(chan struct{}, 1),
		stop:        make(chan struct{}),
		done:        make(chan struct{}),
	}
	go w.run()
	return w
}

// Submit queues state for writing and returns immediately.
func (w *Writer) Submit(state data.State) {
	w.mu.Lock()
	w.pending = &state
	w.submitted++
	w.mu.Unlock()
	select {
	case w.wake <- struct{}{}:
	default:
	}
}

func (w *Writer) _writePending() {
	w.mu.Lock()
	state := w.pending
	version := w.submitted
	w.pending = nil
	w.mu.Unlock()
	if state == nil {
		return
	}
	if err := w.persistence.Save(context.Background(), *state); err != nil {
		w.logger.Error("failed to persist client state", zap.Error(err))
	}
	w.mu.Lock()
	w.written = version
	close(w.progress)
	w.progress = make(chan struct{})
	w.mu.Unlock()
}

func (w *Writer) run() {
	defer close(w.done)
	for {
		select {
		case <-w.wake:
			w._writePending()
		case <-w.stop:
			w._writePending()
			return
		}
	}
}

// Flush waits until everything submitted so far has been attempted.
func (w *Writer) Flush(ctx context.Context) error {
	w.mu.Lock()
	target := w.submitted
	w.mu.Unlock()
	for {
		w.mu.Lock()
		if w.written >= target {
			w.mu.Unlock()
			return nil
		}
		progress := w.progress
		w.mu.Unlock()
		select {
		case <-progress:
		case <-w.done:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// Close writes whatever is pending and stops the background goroutine.
func (w *Writer) Close(ctx context.Context) error {
	w.once.Do(func() {
		close(w.stop)
	})
	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
