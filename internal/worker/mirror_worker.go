package worker

import (
	"context"
	"fmt"
	"sync"
	"time"

	"finances/internal/core"
	"finances/internal/events"
	"finances/internal/log"
	"finances/internal/sheets"
)

// LedgerSource reads the shared ledger.
type LedgerSource interface {
	Load(ctx context.Context) ([]core.Transaction, error)
}

// MirrorWorker copies the stored ledger into a LedgerMirror whenever a
// change notification arrives, and on a fixed interval to cover lost
// notifications.
type MirrorWorker struct {
	source   LedgerSource
	mirror   sheets.LedgerMirror
	interval time.Duration
	logger   *log.Logger

	mu         sync.Mutex
	lastMirror time.Time // start time of the last successful mirror

	// Lifecycle management
	running bool
	stopCh  chan struct{}
	doneCh  chan struct{}
}

func NewMirrorWorker(source LedgerSource, mirror sheets.LedgerMirror, interval time.Duration, logger *log.Logger) *MirrorWorker {
	if logger == nil {
		logger = log.Discard()
	}
	return &MirrorWorker{
		source:   source,
		mirror:   mirror,
		interval: interval,
		logger:   logger.WithComponent(log.ComponentWorker),
	}
}

// HandleChange mirrors the ledger for one notification. Changes published
// before the last successful mirror started are already reflected and are
// skipped.
func (w *MirrorWorker) HandleChange(ctx context.Context, change *events.LedgerChange) error {
	w.mu.Lock()
	last := w.lastMirror
	w.mu.Unlock()

	if !last.IsZero() && change.Timestamp.Before(last) {
		w.logger.DebugContext(ctx, "Change already mirrored",
			"id", change.ID,
			log.FieldOperation, string(change.Operation))
		return nil
	}

	w.logger.InfoContext(ctx, "Processing ledger change",
		"id", change.ID,
		log.FieldOperation, string(change.Operation),
		log.FieldPosition, change.Position,
		log.FieldLedgerLength, change.Length)

	return w.MirrorNow(ctx)
}

// MirrorNow loads the ledger and mirrors it unconditionally.
func (w *MirrorWorker) MirrorNow(ctx context.Context) error {
	started := time.Now().UTC()

	txs, err := w.source.Load(ctx)
	if err != nil {
		return fmt.Errorf("load ledger: %w", err)
	}
	if err := w.mirror.Mirror(ctx, txs); err != nil {
		return fmt.Errorf("mirror ledger: %w", err)
	}

	w.mu.Lock()
	if started.After(w.lastMirror) {
		w.lastMirror = started
	}
	w.mu.Unlock()
	return nil
}

// Start begins the periodic mirror loop. Returns an error if already running.
func (w *MirrorWorker) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return fmt.Errorf("mirror worker is already running")
	}
	w.running = true
	w.stopCh = make(chan struct{})
	w.doneCh = make(chan struct{})
	w.mu.Unlock()

	go w.runLoop(ctx)

	w.logger.InfoContext(ctx, "Mirror worker started", "interval", w.interval)
	return nil
}

// Stop ends the loop and waits for it, or for ctx.
func (w *MirrorWorker) Stop(ctx context.Context) error {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = false
	stopCh, doneCh := w.stopCh, w.doneCh
	w.mu.Unlock()

	close(stopCh)

	select {
	case <-doneCh:
		w.logger.InfoContext(ctx, "Mirror worker stopped")
		return nil
	case <-ctx.Done():
		w.logger.WarnContext(ctx, "Mirror worker stop timed out")
		return ctx.Err()
	}
}

// IsRunning returns whether the loop is active
func (w *MirrorWorker) IsRunning() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.running
}

func (w *MirrorWorker) runLoop(ctx context.Context) {
	defer close(w.doneCh)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	// Mirror immediately on startup
	w.tick(ctx)

	for {
		select {
		case <-w.stopCh:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.tick(ctx)
		}
	}
}

func (w *MirrorWorker) tick(ctx context.Context) {
	if err := w.MirrorNow(ctx); err != nil {
		w.logger.ErrorContext(ctx, "Periodic mirror failed",
			log.FieldError, err.Error(),
			log.FieldOperation, log.OpMirror)
	}
}
