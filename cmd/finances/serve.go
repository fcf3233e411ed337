package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/google/subcommands"

	"finances/internal/cli"
	apphttp "finances/internal/http"
	"finances/internal/log"
)

type serveCmd struct {
	addr string
}

func (*serveCmd) Name() string     { return "serve" }
func (*serveCmd) Synopsis() string { return "serve the ledger web UI and JSON API" }
func (*serveCmd) Usage() string {
	return `finances serve [-addr <host:port>]

  Starts the HTTP server. Storage, events and currency come from the
  environment (see .env.example). Stops gracefully on SIGINT/SIGTERM.
`
}

func (c *serveCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.addr, "addr", "", "Listen address. Defaults to :$PORT.")
}

func (c *serveCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	s, err := openSession(ctx, false)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer s.Close()

	addr := c.addr
	if addr == "" {
		addr = ":" + s.cfg.Port
	}

	srv := apphttp.NewServer(addr, s.ledger, s.formatter, s.logger, apphttp.Options{})
	done := cli.GracefulShutdown(s.logger, 30*time.Second, func(shutdownCtx context.Context) {
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error("Server shutdown error", log.FieldError, err.Error())
		}
	})

	s.logger.Info("Starting finances server",
		"addr", addr,
		"backend", s.cfg.DataBackend,
		"events", s.cfg.EventsBackend,
		"currency", s.formatter.Currency(),
		log.FieldLedgerLength, s.ledger.Len())

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		s.logger.Error("Server error", log.FieldError, err.Error(), "addr", addr)
		return subcommands.ExitFailure
	}

	<-done.Done()
	s.logger.Info("Server stopped gracefully")
	return subcommands.ExitSuccess
}
