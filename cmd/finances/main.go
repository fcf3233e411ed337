// Command finances records income and expenses in a personal ledger. It
// serves the web UI and offers the same operations from the terminal.
package main

import (
	"context"
	"flag"
	"io"
	"os"
	"path"

	"github.com/google/subcommands"

	"finances/internal/cli"
	"finances/internal/config"
	"finances/internal/core"
	"finances/internal/log"
	"finances/internal/services"
)

// stdout receives command output; tests swap it.
var stdout io.Writer = os.Stdout

func main() {
	runCompletion()
	cli.LoadEnvFile()

	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	register(commander)

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}

// register adds every subcommand to c.
func register(c *subcommands.Commander) {
	c.Register(c.HelpCommand(), "")
	c.Register(c.FlagsCommand(), "")
	c.Register(c.CommandsCommand(), "")

	c.Register(&serveCmd{}, "server")

	c.Register(&addCmd{}, "ledger")
	c.Register(&rmCmd{}, "ledger")
	c.Register(&listCmd{}, "ledger")
	c.Register(&balanceCmd{}, "ledger")
}

// session is an opened ledger plus what the commands need around it.
type session struct {
	cfg       *config.Config
	logger    *log.Logger
	ledger    *services.LedgerService
	formatter core.Formatter
}

// openSession loads configuration and opens the ledger. One-shot commands
// log at warn unless LOG_LEVEL asks for more.
func openSession(ctx context.Context, oneShot bool) (*session, error) {
	cfg, err := cli.LoadAndValidateConfig()
	if err != nil {
		return nil, err
	}

	level := cfg.LogLevel
	if oneShot && log.ParseLevel(level) == log.ParseLevel("info") {
		level = "warn"
	}
	logger := cli.SetupLogger(level)

	ledger, err := cli.OpenLedger(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	return &session{
		cfg:       cfg,
		logger:    logger,
		ledger:    ledger,
		formatter: core.NewFormatter(cfg.Currency),
	}, nil
}

func (s *session) Close() {
	if err := s.ledger.Close(); err != nil {
		s.logger.Warn("Close ledger failed", log.FieldError, err.Error())
	}
}
