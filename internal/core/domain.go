package core

import (
	"errors"
)

type (
	Money struct {
		Cents int64
	}

	// Transaction is a single ledger entry. It is never modified after creation.
	Transaction struct {
		Description string
		Amount      Money  // positive is income, negative is expense
		Date        string // DD/MM/YYYY
	}
)

var (
	ErrOutOfRange       = errors.New("position out of range")
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrInvalidDate      = errors.New("invalid date")
	ErrEmptyDescription = errors.New("empty description")
)

// IsIncome reports whether the amount is strictly positive.
func (m Money) IsIncome() bool {
	return m.Cents > 0
}

// IsExpense reports whether the amount is strictly negative.
func (m Money) IsExpense() bool {
	return m.Cents < 0
}

// Kind returns "income" or "expense". Zero amounts render as expense, like
// the row styling of the web UI.
func (t Transaction) Kind() string {
	if t.Amount.IsIncome() {
		return "income"
	}
	return "expense"
}
