// Package report renders the ledger as markdown for the terminal.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/glamour"

	"finances/internal/core"
)

// TransactionsMarkdown renders txs as a table. The first column is the
// position accepted by "finances rm".
func TransactionsMarkdown(txs []core.Transaction, f core.Formatter) string {
	var b strings.Builder
	b.WriteString("# Transactions\n\n")
	if len(txs) == 0 {
		b.WriteString("_No transactions yet._\n")
		return b.String()
	}

	b.WriteString("| # | Date | Description | Type | Amount |\n")
	b.WriteString("|--:|------|-------------|------|-------:|\n")
	for i, tx := range txs {
		fmt.Fprintf(&b, "| %d | %s | %s | %s | %s |\n",
			i, tx.Date, escapeCell(tx.Description), tx.Kind(), f.FormatMoney(tx.Amount))
	}
	return b.String()
}

// BalanceMarkdown renders the three aggregates.
func BalanceMarkdown(bal core.Balance, f core.Formatter) string {
	var b strings.Builder
	b.WriteString("# Balance\n\n")
	b.WriteString("| | Amount |\n")
	b.WriteString("|---|-------:|\n")
	fmt.Fprintf(&b, "| Income | %s |\n", f.FormatMoney(bal.Income))
	fmt.Fprintf(&b, "| Expense | %s |\n", f.FormatMoney(bal.Expense))
	fmt.Fprintf(&b, "| **Total** | **%s** |\n", f.FormatMoney(bal.Total))
	return b.String()
}

// Print writes md to w, styled through glamour when styled is set.
func Print(w io.Writer, md string, styled bool) error {
	if !styled {
		_, err := io.WriteString(w, md)
		return err
	}

	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		return fmt.Errorf("create renderer: %w", err)
	}
	out, err := r.Render(md)
	if err != nil {
		return fmt.Errorf("render markdown: %w", err)
	}
	_, err = io.WriteString(w, out)
	return err
}

func escapeCell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.ReplaceAll(s, "\n", " ")
}
