package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"finances/internal/core"
	"finances/internal/events"
	"finances/internal/log"
)

// LedgerStore is the write-through target of a session.
type LedgerStore interface {
	Load(ctx context.Context) ([]core.Transaction, error)
	Save(ctx context.Context, txs []core.Transaction) error
	Close() error
}

// ChangePublisher announces completed mutations. Optional.
type ChangePublisher interface {
	PublishLedgerChange(ctx context.Context, change *events.LedgerChange) error
	Close() error
}

// LedgerService owns the session ledger. Every mutation is saved through
// the store before it returns; if the save fails the ledger is rolled back.
// Calls are serialized, so concurrent requests see one mutation at a time.
type LedgerService struct {
	mu        sync.Mutex
	ledger    *core.Ledger
	store     LedgerStore
	publisher ChangePublisher
	logger    *log.Logger
	events    *log.StructuredLogger
}

// NewLedgerService loads the stored ledger and returns a ready session.
// publisher may be nil.
func NewLedgerService(ctx context.Context, store LedgerStore, publisher ChangePublisher, logger *log.Logger) (*LedgerService, error) {
	if logger == nil {
		logger = log.Discard()
	}
	s := &LedgerService{
		store:     store,
		publisher: publisher,
		logger:    logger.WithComponent(log.ComponentLedger),
		events:    log.NewStructuredLogger(logger),
	}
	if err := s.Reload(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

// Reload replaces the in-memory ledger with the stored one.
func (s *LedgerService) Reload(ctx context.Context) error {
	txs, err := s.store.Load(ctx)
	if err != nil {
		return fmt.Errorf("load ledger: %w", err)
	}

	s.mu.Lock()
	s.ledger = core.NewLedger(txs...)
	s.mu.Unlock()

	s.logger.InfoContext(ctx, "Ledger loaded",
		log.FieldOperation, log.OpLoad,
		log.FieldLedgerLength, len(txs))
	return nil
}

// Add appends tx, saves the ledger and returns the position tx landed at.
func (s *LedgerService) Add(ctx context.Context, tx core.Transaction) (int, error) {
	s.mu.Lock()
	snapshot := s.ledger.Transactions()
	s.ledger.Add(tx)
	if err := s.saveLocked(ctx, snapshot); err != nil {
		s.mu.Unlock()
		return 0, err
	}
	length := s.ledger.Len()
	s.mu.Unlock()

	s.events.LogTransactionAdded(ctx, tx.Description, tx.Amount.Cents, tx.Date, length)
	s.publish(ctx, events.NewLedgerChange(events.OperationAdd, length-1, length))
	return length - 1, nil
}

// Submit validates raw form input, adds the resulting transaction and
// returns it with its position.
// Validation failures are returned as *core.ValidationError and leave the
// ledger untouched.
func (s *LedgerService) Submit(ctx context.Context, in core.FormInput) (core.Transaction, int, error) {
	result := core.ValidateForm(in)
	if !result.OK() {
		s.logger.DebugContext(ctx, "Form rejected",
			log.FieldOperation, log.OpValidate,
			log.FieldReason, string(result.Reason),
			"field", result.Field)
		return core.Transaction{}, 0, result.Err()
	}
	position, err := s.Add(ctx, result.Transaction)
	if err != nil {
		return core.Transaction{}, 0, err
	}
	return result.Transaction, position, nil
}

// Remove deletes the transaction at position and saves the ledger.
// A stale position yields core.ErrOutOfRange.
func (s *LedgerService) Remove(ctx context.Context, position int) error {
	s.mu.Lock()
	snapshot := s.ledger.Transactions()
	if err := s.ledger.Remove(position); err != nil {
		length := s.ledger.Len()
		s.mu.Unlock()
		s.events.LogError(ctx, "Remove position out of range", err, log.ComponentLedger, log.OpRemove,
			log.NewFields().WithPosition(position, length))
		return err
	}
	if err := s.saveLocked(ctx, snapshot); err != nil {
		s.mu.Unlock()
		return err
	}
	length := s.ledger.Len()
	s.mu.Unlock()

	s.events.LogTransactionRemoved(ctx, position, length)
	s.publish(ctx, events.NewLedgerChange(events.OperationRemove, position, length))
	return nil
}

// saveLocked writes the ledger through, restoring snapshot on failure.
func (s *LedgerService) saveLocked(ctx context.Context, snapshot []core.Transaction) error {
	if err := s.store.Save(ctx, s.ledger.Transactions()); err != nil {
		s.ledger = core.NewLedger(snapshot...)
		s.events.LogError(ctx, "Write-through failed, ledger rolled back", err, log.ComponentStorage, log.OpSave, nil)
		return fmt.Errorf("save ledger: %w", err)
	}
	return nil
}

func (s *LedgerService) publish(ctx context.Context, change *events.LedgerChange) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishLedgerChange(ctx, change); err != nil {
		s.logger.WarnContext(ctx, "Failed to publish ledger change",
			log.FieldError, err.Error(),
			log.FieldOperation, string(change.Operation))
	}
}

// Transactions returns a copy of the ledger in insertion order.
func (s *LedgerService) Transactions() []core.Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ledger.Transactions()
}

// Balance returns income, expense and total, recomputed on every call.
func (s *LedgerService) Balance() core.Balance {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ledger.Balance()
}

func (s *LedgerService) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ledger.Len()
}

// Close closes the publisher and the store.
func (s *LedgerService) Close() error {
	var errs []error

	if s.publisher != nil {
		if err := s.publisher.Close(); err != nil {
			errs = append(errs, fmt.Errorf("publisher: %w", err))
		}
	}
	if s.store != nil {
		if err := s.store.Close(); err != nil {
			errs = append(errs, fmt.Errorf("store: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close ledger service: %w", errors.Join(errs...))
	}
	return nil
}
