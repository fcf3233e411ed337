package core

import (
	"math"
	"testing"
	"time"
)

func TestParseAmountInput(t *testing.T) {
	cases := []struct {
		in  string
		out int64
		ok  bool
	}{
		{"1", 100, true},
		{"150.30", 15030, true},
		{"150.3", 15030, true},
		{"0.01", 1, true},
		{"1.005", 101, true},  // half away from zero
		{"1.004", 100, true},
		{"-1.005", -101, true}, // half away from zero
		{"-50.00", -5000, true},
		{" 2.50 ", 250, true},
		{"12,5", 1250, true},
		{"0", 0, true},
		{"", 0, false},
		{"   ", 0, false},
		{"abc", 0, false},
		{"1.2.3", 0, false},
		{"1.234,56", 0, false},
		{"99999999999999999999", 0, false},
		{"10000000000000", MaxAmountCents, true},
		{"-10000000000000", -MaxAmountCents, true},
		{"10000000000000.01", 0, false},
		{"92233720368547758.07", 0, false},
		{"1e13", MaxAmountCents, true},
		{"1e14", 0, false},
		{"0e99", 0, true},
		{"1e20000000", 0, false},
		{"1e-20000000", 0, false},
	}
	for _, tc := range cases {
		got, err := ParseAmountInput(tc.in)
		if tc.ok {
			if err != nil || got != tc.out {
				t.Fatalf("%q expected %d, got %d (err=%v)", tc.in, tc.out, got, err)
			}
		} else {
			if err == nil {
				t.Fatalf("%q expected error, got %d", tc.in, got)
			}
		}
	}
}

func TestParseAmountInputHugeExponentIsCheap(t *testing.T) {
	for _, in := range []string{"1e20000000", "-1e2000000000", "1e-2000000000"} {
		start := time.Now()
		if _, err := ParseAmountInput(in); err == nil {
			t.Fatalf("%q expected error", in)
		}
		if elapsed := time.Since(start); elapsed > 50*time.Millisecond {
			t.Fatalf("%q took %v", in, elapsed)
		}
	}
}

func TestFormatMinInt64(t *testing.T) {
	f := NewFormatter("USD")
	got := f.Format(math.MinInt64)
	if want := "-" + f.Format(math.MaxInt64); got != want {
		t.Fatalf("Format(MinInt64) = %q, want %q", got, want)
	}
}

func TestFormatCurrencyDisplay(t *testing.T) {
	cases := []struct {
		cents int64
		want  string
	}{
		{15030, "R$150,30"},
		{-5000, "-R$50,00"},
		{0, "R$0,00"},
		{5, "R$0,05"},
		{-5, "-R$0,05"},
		{123456, "R$1.234,56"},
		{-100000000, "-R$1.000.000,00"},
	}
	for _, tc := range cases {
		if got := FormatCurrencyDisplay(tc.cents); got != tc.want {
			t.Errorf("FormatCurrencyDisplay(%d) = %q, want %q", tc.cents, got, tc.want)
		}
	}
}

func TestParseThenFormatRoundTrip(t *testing.T) {
	cents, err := ParseAmountInput("150.30")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if got := FormatCurrencyDisplay(cents); got != "R$150,30" {
		t.Fatalf("round trip = %q", got)
	}

	cents, err = ParseAmountInput("-50.00")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if got := FormatCurrencyDisplay(cents); got != "-R$50,00" {
		t.Fatalf("negative round trip = %q", got)
	}
}

func TestFormatterCurrencies(t *testing.T) {
	eur := NewFormatter(" eur ")
	if eur.Currency() != "EUR" {
		t.Fatalf("currency = %q", eur.Currency())
	}
	if got := eur.Format(-100); got[0] != '-' {
		t.Errorf("EUR format lost the sign: %q", got)
	}
	if got := NewFormatter("").Currency(); got != DefaultCurrency {
		t.Errorf("empty code = %q, want %q", got, DefaultCurrency)
	}
	if got := NewFormatter("USD").Decimal(-5000); got != "-50.00" {
		t.Errorf("decimal = %q", got)
	}
	if !IsKnownCurrency("brl") || IsKnownCurrency("XXX1") {
		t.Errorf("IsKnownCurrency mismatch")
	}
}
