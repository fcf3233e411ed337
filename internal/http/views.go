package http

import (
	"time"

	"finances/internal/core"
)

type rowView struct {
	Position    int
	Description string
	Amount      string
	Date        string
	Class       string
}

type balanceView struct {
	Income  string
	Expense string
	Total   string
}

type indexView struct {
	Balance balanceView
	Rows    []rowView
	Today   string
}

// rowsView numbers rows by their current position; the remove buttons
// post those positions back.
func rowsView(txs []core.Transaction, f core.Formatter) []rowView {
	rows := make([]rowView, 0, len(txs))
	for i, tx := range txs {
		rows = append(rows, rowView{
			Position:    i,
			Description: tx.Description,
			Amount:      f.FormatMoney(tx.Amount),
			Date:        tx.Date,
			Class:       tx.Kind(),
		})
	}
	return rows
}

func newBalanceView(b core.Balance, f core.Formatter) balanceView {
	return balanceView{
		Income:  f.FormatMoney(b.Income),
		Expense: f.FormatMoney(b.Expense),
		Total:   f.FormatMoney(b.Total),
	}
}

// transactionJSON is the API representation of a ledger entry.
type transactionJSON struct {
	Position    int    `json:"position"`
	Description string `json:"description"`
	AmountCents int64  `json:"amount_cents"`
	Amount      string `json:"amount"`
	Display     string `json:"display"`
	Date        string `json:"date"`
	Kind        string `json:"kind"`
}

type balanceJSON struct {
	IncomeCents  int64  `json:"income_cents"`
	ExpenseCents int64  `json:"expense_cents"`
	TotalCents   int64  `json:"total_cents"`
	Income       string `json:"income"`
	Expense      string `json:"expense"`
	Total        string `json:"total"`
}

type ledgerJSON struct {
	Currency     string            `json:"currency"`
	Transactions []transactionJSON `json:"transactions"`
	Balance      balanceJSON       `json:"balance"`
	GeneratedAt  time.Time         `json:"generated_at"`
}

type errorJSON struct {
	Error  string `json:"error"`
	Reason string `json:"reason,omitempty"`
	Field  string `json:"field,omitempty"`
}

func newTransactionJSON(position int, tx core.Transaction, f core.Formatter) transactionJSON {
	return transactionJSON{
		Position:    position,
		Description: tx.Description,
		AmountCents: tx.Amount.Cents,
		Amount:      f.Decimal(tx.Amount.Cents),
		Display:     f.FormatMoney(tx.Amount),
		Date:        tx.Date,
		Kind:        tx.Kind(),
	}
}

func newLedgerJSON(txs []core.Transaction, b core.Balance, f core.Formatter) ledgerJSON {
	out := ledgerJSON{
		Currency:     f.Currency(),
		Transactions: make([]transactionJSON, 0, len(txs)),
		Balance: balanceJSON{
			IncomeCents:  b.Income.Cents,
			ExpenseCents: b.Expense.Cents,
			TotalCents:   b.Total.Cents,
			Income:       f.FormatMoney(b.Income),
			Expense:      f.FormatMoney(b.Expense),
			Total:        f.FormatMoney(b.Total),
		},
		GeneratedAt: time.Now().UTC(),
	}
	for i, tx := range txs {
		out.Transactions = append(out.Transactions, newTransactionJSON(i, tx, f))
	}
	return out
}
