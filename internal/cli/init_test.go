package cli

import (
	"context"
	"testing"

	"finances/internal/config"
	"finances/internal/core"
)

func TestOpenLedger_Memory(t *testing.T) {
	cfg := &config.Config{
		DataBackend:   "memory",
		EventsBackend: "none",
		StorageKey:    config.DefaultStorageKey,
	}
	svc, err := OpenLedger(context.Background(), cfg, nil)
	if err != nil {
		t.Fatalf("OpenLedger() error = %v", err)
	}
	defer svc.Close()

	if _, _, err := svc.Submit(context.Background(), core.FormInput{Description: "Tip", Amount: "10", Date: "2024-01-02"}); err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	if svc.Balance().Total.Cents != 1000 {
		t.Errorf("Total = %d", svc.Balance().Total.Cents)
	}
}

func TestOpenLedger_InvalidBackend(t *testing.T) {
	if _, err := OpenLedger(context.Background(), &config.Config{DataBackend: "sheets"}, nil); err == nil {
		t.Error("OpenLedger() should reject an unknown backend")
	}
}

func TestLoadAndValidateConfig(t *testing.T) {
	t.Setenv("PORT", "not-a-port")
	if _, err := LoadAndValidateConfig(); err == nil {
		t.Error("expected validation error")
	}
}
