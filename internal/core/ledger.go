package core

import (
	"fmt"
	"math"
)

// Ledger is the ordered list of transactions of a session. Positions are
// removal handles and shift after every Remove, so callers must not keep
// them across mutations.
//
// A Ledger is not safe for concurrent use.
type Ledger struct {
	items []Transaction
}

// NewLedger returns a ledger holding a copy of txs in order.
func NewLedger(txs ...Transaction) *Ledger {
	return &Ledger{items: append([]Transaction(nil), txs...)}
}

// Add appends tx. It performs no validation.
func (l *Ledger) Add(tx Transaction) {
	l.items = append(l.items, tx)
}

// Remove deletes the transaction at position and shifts later ones down.
func (l *Ledger) Remove(position int) error {
	if position < 0 || position >= len(l.items) {
		return fmt.Errorf("remove %d of %d: %w", position, len(l.items), ErrOutOfRange)
	}
	l.items = append(l.items[:position], l.items[position+1:]...)
	return nil
}

// At returns the transaction at position.
func (l *Ledger) At(position int) (Transaction, error) {
	if position < 0 || position >= len(l.items) {
		return Transaction{}, fmt.Errorf("get %d of %d: %w", position, len(l.items), ErrOutOfRange)
	}
	return l.items[position], nil
}

func (l *Ledger) Len() int {
	return len(l.items)
}

// Transactions returns a copy of the entries in insertion order.
func (l *Ledger) Transactions() []Transaction {
	return append([]Transaction(nil), l.items...)
}

// IncomeTotal sums every strictly positive amount. The sum saturates at
// math.MaxInt64 instead of wrapping.
func (l *Ledger) IncomeTotal() Money {
	var income int64
	for _, tx := range l.items {
		if c := tx.Amount.Cents; c > 0 {
			if income > math.MaxInt64-c {
				income = math.MaxInt64
				continue
			}
			income += c
		}
	}
	return Money{Cents: income}
}

// ExpenseTotal sums every strictly negative amount, so it is never positive.
// The sum saturates at -math.MaxInt64, keeping GrandTotal and its
// formatting free of overflow.
func (l *Ledger) ExpenseTotal() Money {
	var expense int64
	for _, tx := range l.items {
		if c := tx.Amount.Cents; c < 0 {
			if c < -math.MaxInt64 {
				c = -math.MaxInt64
			}
			if expense < -math.MaxInt64-c {
				expense = -math.MaxInt64
				continue
			}
			expense += c
		}
	}
	return Money{Cents: expense}
}

// GrandTotal is IncomeTotal plus ExpenseTotal.
func (l *Ledger) GrandTotal() Money {
	return Money{Cents: l.IncomeTotal().Cents + l.ExpenseTotal().Cents}
}

// Balance returns the three aggregates at once.
func (l *Ledger) Balance() Balance {
	income := l.IncomeTotal()
	expense := l.ExpenseTotal()
	return Balance{
		Income:  income,
		Expense: expense,
		Total:   Money{Cents: income.Cents + expense.Cents},
	}
}
