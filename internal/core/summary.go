package core

// Balance is the income/expense/total summary shown above the ledger.
type Balance struct {
	Income  Money
	Expense Money
	Total   Money
}
