// Package cli provides common initialization shared by cmd/finances and
// cmd/finances-worker.
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"finances/internal/backend"
	"finances/internal/config"
	"finances/internal/events"
	"finances/internal/log"
	"finances/internal/services"
	"finances/internal/storage"
)

// SetupLogger builds the process logger at the given LOG_LEVEL name and
// installs it as the slog default.
func SetupLogger(level string) *log.Logger {
	logger := log.New(log.Config{
		Level:     log.ParseLevel(level),
		Component: log.ComponentApp,
		Output:    os.Stderr,
	})
	log.SetDefault(logger)
	return logger
}

// LoadEnvFile loads the .env file for local development.
// Errors are ignored silently as this is optional in production.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// LoadAndValidateConfig loads configuration and validates it.
func LoadAndValidateConfig() (*config.Config, error) {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// OpenLedger wires store, gateway and publisher into a LedgerService.
// Closing the service releases all of them.
func OpenLedger(ctx context.Context, cfg *config.Config, logger *log.Logger) (*services.LedgerService, error) {
	bcfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		return nil, err
	}
	factory := backend.NewFactory(logger)

	res, err := factory.CreateBackend(ctx, bcfg)
	if err != nil {
		return nil, err
	}
	publisher, err := factory.CreatePublisher(ctx, bcfg)
	if err != nil {
		res.Cleanup()
		return nil, err
	}

	gateway := storage.NewGateway(res.Store, cfg.StorageKey, logger)
	var pub services.ChangePublisher = publisher
	if _, ok := publisher.(events.NopPublisher); ok {
		pub = nil
	}

	svc, err := services.NewLedgerService(ctx, gateway, pub, logger)
	if err != nil {
		publisher.Close()
		res.Cleanup()
		return nil, fmt.Errorf("open ledger: %w", err)
	}
	return svc, nil
}

// GracefulShutdown returns a context cancelled on SIGINT or SIGTERM.
// cleanup runs before cancellation, bounded by timeout.
func GracefulShutdown(logger *log.Logger, timeout time.Duration, cleanup func(context.Context)) context.Context {
	ctx, cancel := context.WithCancel(context.Background())

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		logger.Info("Shutdown signal received", "signal", sig.String())

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), timeout)
		defer shutdownCancel()

		if cleanup != nil {
			cleanup(shutdownCtx)
		}
		cancel()
	}()

	return ctx
}
