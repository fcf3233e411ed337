package services

import (
	"context"
	"errors"
	"sync"
	"testing"

	"finances/internal/core"
	"finances/internal/events"
	"finances/internal/storage"
	"finances/internal/storage/memory"
)

const testKey = "dev.finances:transactions"

type fakePublisher struct {
	mu      sync.Mutex
	changes []*events.LedgerChange
	err     error
	closed  bool
}

func (p *fakePublisher) PublishLedgerChange(_ context.Context, c *events.LedgerChange) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.changes = append(p.changes, c)
	return p.err
}

func (p *fakePublisher) Close() error {
	p.closed = true
	return nil
}

// flakyStore fails Save while failSave is set.
type flakyStore struct {
	*storage.Gateway
	failSave bool
}

func (f *flakyStore) Save(ctx context.Context, txs []core.Transaction) error {
	if f.failSave {
		return errors.New("disk full")
	}
	return f.Gateway.Save(ctx, txs)
}

func newService(t *testing.T, pub ChangePublisher) (*LedgerService, *storage.Gateway) {
	t.Helper()
	gw := storage.NewGateway(memory.New(), testKey, nil)
	svc, err := NewLedgerService(context.Background(), gw, pub, nil)
	if err != nil {
		t.Fatalf("NewLedgerService() error = %v", err)
	}
	return svc, gw
}

func tx(desc string, cents int64) core.Transaction {
	return core.Transaction{Description: desc, Amount: core.Money{Cents: cents}, Date: "01/03/2024"}
}

func TestLedgerService_AddRemoveWritesThrough(t *testing.T) {
	ctx := context.Background()
	pub := &fakePublisher{}
	svc, gw := newService(t, pub)

	if _, err := svc.Add(ctx, tx("Salary", 500000)); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Add(ctx, tx("Rent", -200000)); err != nil {
		t.Fatal(err)
	}

	b := svc.Balance()
	if b.Income.Cents != 500000 || b.Expense.Cents != -200000 || b.Total.Cents != 300000 {
		t.Errorf("Balance() = %+v", b)
	}

	if err := svc.Remove(ctx, 0); err != nil {
		t.Fatal(err)
	}
	b = svc.Balance()
	if b.Income.Cents != 0 || b.Expense.Cents != -200000 || b.Total.Cents != -200000 {
		t.Errorf("Balance() after remove = %+v", b)
	}

	stored, err := gw.Load(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(stored) != 1 || stored[0].Description != "Rent" {
		t.Errorf("stored = %+v, want only Rent", stored)
	}

	if len(pub.changes) != 3 {
		t.Fatalf("published %d changes, want 3", len(pub.changes))
	}
	last := pub.changes[2]
	if last.Operation != events.OperationRemove || last.Position != 0 || last.Length != 1 {
		t.Errorf("last change = %+v", last)
	}
}

func TestLedgerService_LoadsExistingLedger(t *testing.T) {
	ctx := context.Background()
	gw := storage.NewGateway(memory.New(), testKey, nil)
	if err := gw.Save(ctx, []core.Transaction{tx("Coffee", -450)}); err != nil {
		t.Fatal(err)
	}

	svc, err := NewLedgerService(ctx, gw, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	if got := svc.Transactions(); len(got) != 1 || got[0].Description != "Coffee" {
		t.Errorf("Transactions() = %+v", got)
	}
}

func TestLedgerService_RemoveOutOfRange(t *testing.T) {
	ctx := context.Background()
	pub := &fakePublisher{}
	svc, _ := newService(t, pub)
	_, _ = svc.Add(ctx, tx("A", 100))

	for _, pos := range []int{-1, 1, 5} {
		if err := svc.Remove(ctx, pos); !errors.Is(err, core.ErrOutOfRange) {
			t.Errorf("Remove(%d) error = %v, want ErrOutOfRange", pos, err)
		}
	}
	if svc.Len() != 1 {
		t.Errorf("Len() = %d, want 1", svc.Len())
	}
	if len(pub.changes) != 1 {
		t.Errorf("failed removes must not publish, got %d changes", len(pub.changes))
	}
}

func TestLedgerService_Submit(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t, nil)

	got, position, err := svc.Submit(ctx, core.FormInput{Description: "Salary", Amount: "1500.50", Date: "2024-03-07"})
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	if position != 0 {
		t.Errorf("Submit() position = %d, want 0", position)
	}
	want := core.Transaction{Description: "Salary", Amount: core.Money{Cents: 150050}, Date: "07/03/2024"}
	if got != want {
		t.Errorf("Submit() = %+v, want %+v", got, want)
	}

	_, _, err = svc.Submit(ctx, core.FormInput{Description: "Bad", Amount: "abc", Date: "2024-03-07"})
	verr, ok := core.AsValidationError(err)
	if !ok || verr.Reason != core.ReasonInvalidAmount {
		t.Errorf("Submit(invalid) error = %v", err)
	}
	if svc.Len() != 1 {
		t.Errorf("invalid submit changed the ledger: Len() = %d", svc.Len())
	}
}

func TestLedgerService_SaveFailureRollsBack(t *testing.T) {
	ctx := context.Background()
	store := &flakyStore{Gateway: storage.NewGateway(memory.New(), testKey, nil)}
	pub := &fakePublisher{}
	svc, err := NewLedgerService(ctx, store, pub, nil)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Add(ctx, tx("Kept", 100)); err != nil {
		t.Fatal(err)
	}

	store.failSave = true
	if _, err := svc.Add(ctx, tx("Lost", 200)); err == nil {
		t.Fatal("Add() should fail when the store fails")
	}
	if err := svc.Remove(ctx, 0); err == nil {
		t.Fatal("Remove() should fail when the store fails")
	}

	got := svc.Transactions()
	if len(got) != 1 || got[0].Description != "Kept" {
		t.Errorf("ledger after failed writes = %+v, want only Kept", got)
	}
	if len(pub.changes) != 1 {
		t.Errorf("failed writes must not publish, got %d changes", len(pub.changes))
	}
}

func TestLedgerService_PublishFailureIsNotReturned(t *testing.T) {
	svc, _ := newService(t, &fakePublisher{err: errors.New("broker down")})
	if _, err := svc.Add(context.Background(), tx("A", 1)); err != nil {
		t.Errorf("Add() error = %v, want nil", err)
	}
}

func TestLedgerService_ConcurrentAdds(t *testing.T) {
	ctx := context.Background()
	svc, gw := newService(t, nil)

	var (
		wg        sync.WaitGroup
		positions [50]int
	)
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			pos, err := svc.Add(ctx, tx("n", int64(i+1)))
			if err != nil {
				t.Errorf("Add() error = %v", err)
			}
			positions[i] = pos
		}(i)
	}
	wg.Wait()

	txs := svc.Transactions()
	seen := make(map[int]bool)
	for i, pos := range positions {
		if seen[pos] {
			t.Fatalf("position %d returned twice", pos)
		}
		seen[pos] = true
		if pos < 0 || pos >= len(txs) || txs[pos].Amount.Cents != int64(i+1) {
			t.Errorf("Add(#%d) returned position %d holding a different transaction", i, pos)
		}
	}

	if svc.Len() != 50 {
		t.Errorf("Len() = %d, want 50", svc.Len())
	}
	stored, _ := gw.Load(ctx)
	if len(stored) != 50 {
		t.Errorf("stored %d transactions, want 50", len(stored))
	}
}

func TestLedgerService_Close(t *testing.T) {
	pub := &fakePublisher{}
	svc, _ := newService(t, pub)
	if err := svc.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if !pub.closed {
		t.Error("publisher not closed")
	}
}
