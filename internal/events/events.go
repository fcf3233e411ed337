// Package events defines the change notification published after every
// successful ledger mutation. Notifications carry no transaction data:
// consumers reload the ledger from the shared store.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type Operation string

const (
	OperationAdd    Operation = "add"
	OperationRemove Operation = "remove"
)

// LedgerChange announces that the stored ledger changed.
type LedgerChange struct {
	ID        string    `json:"id"`
	Operation Operation `json:"operation"`
	Position  int       `json:"position"`
	Length    int       `json:"length"`
	Timestamp time.Time `json:"timestamp"`
}

// NewLedgerChange builds a change with a fresh id. position is the index
// added or removed, length the ledger length after the change.
func NewLedgerChange(op Operation, position, length int) *LedgerChange {
	return &LedgerChange{
		ID:        uuid.NewString(),
		Operation: op,
		Position:  position,
		Length:    length,
		Timestamp: time.Now().UTC(),
	}
}

// ToJSON converts the message to JSON bytes
func (c *LedgerChange) ToJSON() ([]byte, error) {
	return json.Marshal(c)
}

// LedgerChangeFromJSON decodes and checks a change message.
func LedgerChangeFromJSON(data []byte) (*LedgerChange, error) {
	var c LedgerChange
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, err
	}
	switch c.Operation {
	case OperationAdd, OperationRemove:
	default:
		return nil, fmt.Errorf("unknown operation %q", c.Operation)
	}
	if c.ID == "" {
		return nil, fmt.Errorf("missing message id")
	}
	return &c, nil
}

// Publisher sends change notifications to a broker.
type Publisher interface {
	PublishLedgerChange(ctx context.Context, change *LedgerChange) error
	Close() error
}

// Handler processes one received change. Returning an error asks the
// transport to redeliver.
type Handler func(ctx context.Context, change *LedgerChange) error

// Consumer delivers change notifications until ctx is done.
type Consumer interface {
	ConsumeLedgerChanges(ctx context.Context, handler Handler) error
	Close() error
}

// NopPublisher drops every change. Used when no broker is configured.
type NopPublisher struct{}

func (NopPublisher) PublishLedgerChange(context.Context, *LedgerChange) error { return nil }
func (NopPublisher) Close() error                                              { return nil }
