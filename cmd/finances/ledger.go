package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/google/subcommands"

	"finances/internal/core"
	"finances/internal/report"
)

type addCmd struct {
	description string
	amount      string
	date        string
}

func (*addCmd) Name() string     { return "add" }
func (*addCmd) Synopsis() string { return "add an income (positive) or expense (negative)" }
func (*addCmd) Usage() string {
	return `finances add -d <description> -a <amount> [-t <YYYY-MM-DD>]

  Validates the entry and appends it to the ledger. Use a negative amount
  for an expense.

Usage Examples:
$ finances add -d Salary -a 1500 -t 2024-03-01
$ finances add -d Rent -a -500
`
}

func (c *addCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.description, "d", "", "Description.")
	f.StringVar(&c.amount, "a", "", "Amount, e.g. 150.30 or -50.")
	f.StringVar(&c.date, "t", time.Now().Format("2006-01-02"), "Date in YYYY-MM-DD format.")
}

func (c *addCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	s, err := openSession(ctx, true)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer s.Close()

	tx, position, err := s.ledger.Submit(ctx, core.FormInput{
		Description: c.description,
		Amount:      c.amount,
		Date:        c.date,
	})
	if err != nil {
		if verr, ok := core.AsValidationError(err); ok {
			fmt.Fprintf(os.Stderr, "Error: %s\n", verr.Message())
			return subcommands.ExitUsageError
		}
		fmt.Fprintf(os.Stderr, "Error: could not save the transaction: %v\n", err)
		return subcommands.ExitFailure
	}

	fmt.Fprintf(stdout, "Added #%d %s %s %s\n", position, tx.Date, tx.Description, s.formatter.FormatMoney(tx.Amount))
	return subcommands.ExitSuccess
}

type rmCmd struct{}

func (*rmCmd) Name() string     { return "rm" }
func (*rmCmd) Synopsis() string { return "remove the transaction at a position" }
func (*rmCmd) Usage() string {
	return `finances rm <position>

  Removes one transaction. Positions are the # column of "finances list";
  later entries move up by one.
`
}

func (*rmCmd) SetFlags(*flag.FlagSet) {}

func (c *rmCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Error: rm takes exactly one position")
		return subcommands.ExitUsageError
	}
	position, err := strconv.Atoi(f.Arg(0))
	if err != nil || position < 0 {
		fmt.Fprintf(os.Stderr, "Error: invalid position %q\n", f.Arg(0))
		return subcommands.ExitUsageError
	}

	s, err := openSession(ctx, true)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer s.Close()

	if err := s.ledger.Remove(ctx, position); err != nil {
		if errors.Is(err, core.ErrOutOfRange) {
			fmt.Fprintf(os.Stderr, "Error: no transaction at position %d (ledger has %d)\n", position, s.ledger.Len())
			return subcommands.ExitFailure
		}
		fmt.Fprintf(os.Stderr, "Error: could not remove the transaction: %v\n", err)
		return subcommands.ExitFailure
	}

	fmt.Fprintf(stdout, "Removed #%d\n", position)
	return subcommands.ExitSuccess
}

type listCmd struct {
	plain bool
}

func (*listCmd) Name() string     { return "list" }
func (*listCmd) Synopsis() string { return "display the transactions" }
func (*listCmd) Usage() string {
	return `finances list [-plain]

  Displays every transaction in insertion order, followed by the balance.
`
}

func (c *listCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.plain, "plain", false, "Print raw markdown instead of styled output.")
}

func (c *listCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	s, err := openSession(ctx, true)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer s.Close()

	md := report.TransactionsMarkdown(s.ledger.Transactions(), s.formatter) + "\n" +
		report.BalanceMarkdown(s.ledger.Balance(), s.formatter)
	if err := report.Print(stdout, md, !c.plain); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

type balanceCmd struct {
	plain bool
}

func (*balanceCmd) Name() string     { return "balance" }
func (*balanceCmd) Synopsis() string { return "display income, expense and total" }
func (*balanceCmd) Usage() string {
	return `finances balance [-plain]

  Displays the income, expense and grand totals.
`
}

func (c *balanceCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.plain, "plain", false, "Print raw markdown instead of styled output.")
}

func (c *balanceCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	s, err := openSession(ctx, true)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer s.Close()

	if err := report.Print(stdout, report.BalanceMarkdown(s.ledger.Balance(), s.formatter), !c.plain); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
