package storage

import (
	"context"
	"encoding/json"
	"fmt"

	"finances/internal/core"
	"finances/internal/log"
)

// record is the persisted shape of a transaction. Field names are part of
// the stored format and must not change.
type record struct {
	Description string `json:"description"`
	Amount      int64  `json:"amount"`
	Date        string `json:"date"`
}

// Gateway loads and saves the whole ledger as one JSON array under a
// single key of a KeyValueStore.
type Gateway struct {
	kv     KeyValueStore
	key    string
	logger *log.Logger
}

func NewGateway(kv KeyValueStore, key string, logger *log.Logger) *Gateway {
	if logger == nil {
		logger = log.Discard()
	}
	return &Gateway{kv: kv, key: key, logger: logger.WithComponent(log.ComponentStorage)}
}

// Key returns the storage key the ledger lives under.
func (g *Gateway) Key() string {
	return g.key
}

// Load returns the stored transactions in order. A missing key yields an
// empty ledger. A value that cannot be decoded is treated as absent so a
// corrupt blob never prevents startup; the next Save overwrites it.
// Records whose amount exceeds core.MaxAmountCents are skipped the same way.
func (g *Gateway) Load(ctx context.Context) ([]core.Transaction, error) {
	raw, ok, err := g.kv.Get(ctx, g.key)
	if err != nil {
		return nil, fmt.Errorf("load ledger: %w", err)
	}
	if !ok || raw == "" {
		g.logger.DebugContext(ctx, "No stored ledger", log.FieldStorageKey, g.key)
		return nil, nil
	}

	var records []record
	if err := json.Unmarshal([]byte(raw), &records); err != nil {
		g.logger.WarnContext(ctx, "Stored ledger is corrupt, starting empty",
			log.NewFields().WithError(err).WithOperation(log.OpLoad).ToSlice()...)
		return nil, nil
	}

	txs := make([]core.Transaction, 0, len(records))
	for i, r := range records {
		if r.Amount > core.MaxAmountCents || r.Amount < -core.MaxAmountCents {
			g.logger.WarnContext(ctx, "Stored record amount out of range, skipping",
				log.FieldOperation, log.OpLoad,
				log.FieldPosition, i,
				log.FieldAmountCents, r.Amount)
			continue
		}
		txs = append(txs, core.Transaction{
			Description: r.Description,
			Amount:      core.Money{Cents: r.Amount},
			Date:        r.Date,
		})
	}
	g.logger.DebugContext(ctx, "Ledger loaded",
		log.FieldStorageKey, g.key,
		log.FieldLedgerLength, len(txs))
	return txs, nil
}

// Save replaces the stored ledger with txs.
func (g *Gateway) Save(ctx context.Context, txs []core.Transaction) error {
	records := make([]record, 0, len(txs))
	for _, tx := range txs {
		records = append(records, record{
			Description: tx.Description,
			Amount:      tx.Amount.Cents,
			Date:        tx.Date,
		})
	}
	data, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("encode ledger: %w", err)
	}
	if err := g.kv.Set(ctx, g.key, string(data)); err != nil {
		return fmt.Errorf("save ledger: %w", err)
	}
	return nil
}

// Close closes the underlying store.
func (g *Gateway) Close() error {
	return g.kv.Close()
}
