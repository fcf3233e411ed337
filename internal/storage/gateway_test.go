package storage

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"finances/internal/core"
	"finances/internal/storage/memory"
)

const testKey = "dev.finances:transactions"

func TestGateway_RoundTrip(t *testing.T) {
	ctx := context.Background()
	kv := memory.New()
	g := NewGateway(kv, testKey, nil)

	txs := []core.Transaction{
		{Description: "Salary", Amount: core.Money{Cents: 300000}, Date: "01/03/2024"},
		{Description: "Rent", Amount: core.Money{Cents: -120000}, Date: "05/03/2024"},
	}
	if err := g.Save(ctx, txs); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	raw, _, _ := kv.Get(ctx, testKey)
	want := `[{"description":"Salary","amount":300000,"date":"01/03/2024"},{"description":"Rent","amount":-120000,"date":"05/03/2024"}]`
	if raw != want {
		t.Errorf("stored blob =\n%s\nwant\n%s", raw, want)
	}

	got, err := g.Load(ctx)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !reflect.DeepEqual(got, txs) {
		t.Errorf("Load() = %+v, want %+v", got, txs)
	}
}

func TestGateway_LoadMissingOrCorrupt(t *testing.T) {
	tests := []struct {
		name   string
		values map[string]string
	}{
		{name: "missing key", values: nil},
		{name: "empty value", values: map[string]string{testKey: ""}},
		{name: "not json", values: map[string]string{testKey: "{oops"}},
		{name: "wrong shape", values: map[string]string{testKey: `{"description":"x"}`}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewGateway(memory.NewWithValues(tt.values), testKey, nil)
			got, err := g.Load(context.Background())
			if err != nil {
				t.Fatalf("Load() error = %v", err)
			}
			if len(got) != 0 {
				t.Errorf("Load() = %v, want empty", got)
			}
		})
	}
}

func TestGateway_LoadSkipsOutOfRangeAmounts(t *testing.T) {
	raw := `[{"description":"ok","amount":-450,"date":"02/01/2024"},` +
		`{"description":"huge","amount":9223372036854775807,"date":"02/01/2024"},` +
		`{"description":"tiny","amount":-9223372036854775808,"date":"02/01/2024"}]`
	g := NewGateway(memory.NewWithValues(map[string]string{testKey: raw}), testKey, nil)
	got, err := g.Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	want := []core.Transaction{{Description: "ok", Amount: core.Money{Cents: -450}, Date: "02/01/2024"}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Load() = %+v, want %+v", got, want)
	}
}

func TestGateway_SaveEmptyWritesArray(t *testing.T) {
	ctx := context.Background()
	kv := memory.New()
	if err := NewGateway(kv, testKey, nil).Save(ctx, nil); err != nil {
		t.Fatal(err)
	}
	if raw, _, _ := kv.Get(ctx, testKey); raw != "[]" {
		t.Errorf("stored = %q, want []", raw)
	}
}

type failingStore struct{ err error }

func (f failingStore) Get(context.Context, string) (string, bool, error) { return "", false, f.err }
func (f failingStore) Set(context.Context, string, string) error         { return f.err }
func (f failingStore) Close() error                                      { return nil }

func TestGateway_StoreErrorsPropagate(t *testing.T) {
	boom := errors.New("disk full")
	g := NewGateway(failingStore{err: boom}, testKey, nil)

	if _, err := g.Load(context.Background()); !errors.Is(err, boom) {
		t.Errorf("Load() error = %v, want %v", err, boom)
	}
	if err := g.Save(context.Background(), nil); !errors.Is(err, boom) {
		t.Errorf("Save() error = %v, want %v", err, boom)
	}
}
