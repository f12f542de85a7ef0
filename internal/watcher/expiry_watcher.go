package watcher

import (
	"context"
	"log/slog"
	"sync"
)

// ExpiryStream yields redemption ids whose expiry records the storage engine
// removed. The channel closes when the subscription ends.
type ExpiryStream interface {
	Subscribe(ctx context.Context) (<-chan int64, error)
}

// ExpiryMarker applies the expiry transition for a single redemption.
type ExpiryMarker interface {
	MarkExpired(ctx context.Context, id int64) error
}

// ExpiryWatcher consumes expiry events and marks the matching redemptions.
// It holds at most one subscription per process lifetime and never
// reconnects; missed events are reconciled by the periodic sweep.
type ExpiryWatcher struct {
	stream ExpiryStream
	marker ExpiryMarker
	logger *slog.Logger

	mu      sync.Mutex
	started bool
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// NewExpiryWatcher constructs the watcher.
func NewExpiryWatcher(stream ExpiryStream, marker ExpiryMarker, logger *slog.Logger) *ExpiryWatcher {
	return &ExpiryWatcher{stream: stream, marker: marker, logger: logger}
}

// Start establishes the subscription and launches the receive loop. Calling
// it again is a logged no-op. A failed subscription leaves the process
// running: expiry then relies entirely on the sweep.
func (w *ExpiryWatcher) Start(ctx context.Context) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.started {
		w.logger.Info("expiry watcher already started")
		return
	}

	runCtx, cancel := context.WithCancel(ctx)
	events, err := w.stream.Subscribe(runCtx)
	if err != nil {
		cancel()
		w.logger.Error("expiry subscription failed, relying on sweep", slog.String("error", err.Error()))
		return
	}

	w.started = true
	w.cancel = cancel
	w.wg.Add(1)
	go w.loop(runCtx, events)
}

// Stop tears down the subscription and waits for the loop to exit.
func (w *ExpiryWatcher) Stop() {
	w.mu.Lock()
	if w.cancel != nil {
		w.cancel()
		w.cancel = nil
	}
	w.mu.Unlock()

	w.wg.Wait()
}

func (w *ExpiryWatcher) loop(ctx context.Context, events <-chan int64) {
	defer w.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case id, ok := <-events:
			if !ok {
				w.logger.Warn("expiry event stream closed, relying on sweep")
				return
			}
			if err := w.marker.MarkExpired(ctx, id); err != nil {
				w.logger.Error("mark expired failed",
					slog.Int64("redemption_id", id),
					slog.String("error", err.Error()),
				)
			}
		}
	}
}
