// Command finances-worker mirrors the shared ledger into a Google Sheet.
// It listens for change events from the web server and re-mirrors on a
// fixed interval to cover lost events.
package main

import (
	"context"
	"errors"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"finances/internal/backend"
	"finances/internal/cli"
	"finances/internal/config"
	"finances/internal/log"
	gsheet "finances/internal/sheets/google"
	"finances/internal/storage"
	"finances/internal/worker"
)

func main() {
	cli.LoadEnvFile()

	cfg := config.Load()
	logger := cli.SetupLogger(cfg.LogLevel)
	logger.Info("Starting finances-worker")

	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", log.FieldError, err.Error())
		os.Exit(1)
	}
	if err := cfg.ValidateWorker(); err != nil {
		logger.Error("Worker configuration validation failed", log.FieldError, err.Error())
		os.Exit(1)
	}

	if err := run(cfg, logger); err != nil {
		logger.Error("Worker stopped with error", log.FieldError, err.Error())
		os.Exit(1)
	}
	logger.Info("Worker shutdown complete")
}

func run(cfg *config.Config, logger *log.Logger) error {
	bcfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		return err
	}
	factory := backend.NewFactory(logger)

	setupCtx, setupCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer setupCancel()

	res, err := factory.CreateBackend(setupCtx, bcfg)
	if err != nil {
		return err
	}
	source := storage.NewGateway(res.Store, cfg.StorageKey, logger)
	defer source.Close()

	consumer, err := factory.CreateConsumer(setupCtx, bcfg)
	if err != nil {
		return err
	}
	defer consumer.Close()

	mirror, err := gsheet.New(setupCtx, gsheet.Options{
		SpreadsheetID:   cfg.GoogleSpreadsheetID,
		SheetName:       cfg.GoogleSheetName,
		CredentialsJSON: cfg.GoogleServiceAccountJSON,
		CredentialsFile: cfg.GoogleServiceAccountFile,
		Currency:        cfg.Currency,
	}, logger)
	if err != nil {
		return err
	}
	logger.Info("Google Sheets client initialized",
		"spreadsheet_id", cfg.GoogleSpreadsheetID,
		"sheet", cfg.GoogleSheetName)

	mw := worker.NewMirrorWorker(source, mirror, cfg.SyncInterval, logger)

	ctx := cli.GracefulShutdown(logger, 30*time.Second, func(shutdownCtx context.Context) {
		if err := mw.Stop(shutdownCtx); err != nil {
			logger.Warn("Mirror worker stop failed", log.FieldError, err.Error())
		}
	})

	if err := mw.Start(ctx); err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		err := consumer.ConsumeLedgerChanges(gctx, mw.HandleChange)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	})

	err = g.Wait()

	// No-op after a signal; needed when the consumer fails on its own.
	stopCtx, stopCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer stopCancel()
	_ = mw.Stop(stopCtx)
	return err
}
