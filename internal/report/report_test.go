package report

import (
	"bytes"
	"strings"
	"testing"

	"finances/internal/core"
)

func TestTransactionsMarkdown(t *testing.T) {
	f := core.NewFormatter("BRL")
	txs := []core.Transaction{
		{Description: "Salary", Amount: core.Money{Cents: 500000}, Date: "01/03/2024"},
		{Description: "Rent | flat", Amount: core.Money{Cents: -200000}, Date: "05/03/2024"},
	}
	md := TransactionsMarkdown(txs, f)

	for _, want := range []string{
		"| 0 | 01/03/2024 | Salary | income | " + f.Format(500000) + " |",
		`| 1 | 05/03/2024 | Rent \| flat | expense | -`,
	} {
		if !strings.Contains(md, want) {
			t.Errorf("markdown missing %q:\n%s", want, md)
		}
	}
}

func TestTransactionsMarkdown_Empty(t *testing.T) {
	if md := TransactionsMarkdown(nil, core.NewFormatter("")); !strings.Contains(md, "No transactions yet") {
		t.Errorf("unexpected markdown:\n%s", md)
	}
}

func TestBalanceMarkdown(t *testing.T) {
	f := core.NewFormatter("BRL")
	md := BalanceMarkdown(core.Balance{
		Income:  core.Money{Cents: 500000},
		Expense: core.Money{Cents: -200000},
		Total:   core.Money{Cents: 300000},
	}, f)

	for _, want := range []string{"Income | " + f.Format(500000), "Expense | " + f.Format(-200000), "**" + f.Format(300000) + "**"} {
		if !strings.Contains(md, want) {
			t.Errorf("markdown missing %q:\n%s", want, md)
		}
	}
}

func TestPrint(t *testing.T) {
	var plain bytes.Buffer
	if err := Print(&plain, "# Title\n", false); err != nil {
		t.Fatal(err)
	}
	if plain.String() != "# Title\n" {
		t.Errorf("plain output = %q", plain.String())
	}

	var styled bytes.Buffer
	if err := Print(&styled, "# Title\n", true); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(styled.String(), "Title") {
		t.Errorf("styled output = %q", styled.String())
	}
}
