package sheets

import (
	"context"

	"finances/internal/core"
)

// LedgerMirror receives a full copy of the ledger after it changes.
// Mirroring replaces whatever the target held before.
type LedgerMirror interface {
	Mirror(ctx context.Context, txs []core.Transaction) error
}
