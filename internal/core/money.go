// Package core provides the ledger, its aggregates and the formatting rules
// used to turn raw user input into stored values.
//
// This file contains amount parsing and currency display. Stored amounts are
// always integer minor units; decimal input is handled with exact arithmetic.
package core

import (
	"math"
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// DefaultCurrency is the ISO 4217 code used by the package-level helpers.
const DefaultCurrency = money.BRL

// MaxAmountCents bounds the magnitude of a single amount in minor units.
const MaxAmountCents int64 = 1_000_000_000_000_000

const (
	// maxAmountExponent is the largest decimal exponent an accepted amount
	// can carry: 1e13 major units is MaxAmountCents.
	maxAmountExponent = 13
	// maxFractionDigits limits how many fractional digits are rounded.
	maxFractionDigits = 64
)

var maxMinorUnits = decimal.NewFromInt(MaxAmountCents)

// ParseAmountInput converts raw decimal user input into minor units.
//
// The value is scaled by 100 and rounded to the nearest integer, halves away
// from zero. A comma is accepted as decimal separator when the input has no dot.
// Magnitudes above MaxAmountCents are rejected, as are exponents that
// could not yield such a value, before any rescaling happens.
//
// Examples:
//
//	ParseAmountInput("150.30") -> 15030, nil
//	ParseAmountInput("-50")    -> -5000, nil
//	ParseAmountInput("1.005")  -> 101, nil
//	ParseAmountInput("12,5")   -> 1250, nil
func ParseAmountInput(raw string) (int64, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, ErrInvalidAmount
	}
	if strings.Contains(s, ",") && !strings.Contains(s, ".") {
		s = strings.Replace(s, ",", ".", 1)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, ErrInvalidAmount
	}
	if d.IsZero() {
		return 0, nil
	}
	if exp := d.Exponent(); exp > maxAmountExponent || exp < -maxFractionDigits {
		return 0, ErrInvalidAmount
	}
	scaled := d.Shift(2).Round(0)
	if scaled.Abs().GreaterThan(maxMinorUnits) {
		return 0, ErrInvalidAmount
	}
	return scaled.IntPart(), nil
}

// Formatter renders minor units in a given currency.
type Formatter struct {
	currency string
}

// NewFormatter returns a Formatter for the ISO 4217 code. An empty code
// selects DefaultCurrency.
func NewFormatter(code string) Formatter {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		code = DefaultCurrency
	}
	return Formatter{currency: code}
}

// Currency returns the ISO code used by the formatter.
func (f Formatter) Currency() string {
	if f.currency == "" {
		return DefaultCurrency
	}
	return f.currency
}

// Format renders the magnitude through the currency formatter and puts a
// leading minus back for negative values. math.MinInt64 has no positive
// counterpart and is rendered as -math.MaxInt64.
func (f Formatter) Format(minorUnits int64) string {
	sign := ""
	magnitude := minorUnits
	if minorUnits < 0 {
		sign = "-"
		magnitude = -minorUnits
		if minorUnits == math.MinInt64 {
			magnitude = math.MaxInt64
		}
	}
	return sign + money.New(magnitude, f.Currency()).Display()
}

// FormatMoney is Format for a Money value.
func (f Formatter) FormatMoney(m Money) string {
	return f.Format(m.Cents)
}

// Decimal renders minor units as a plain decimal string ("-50.00").
func (f Formatter) Decimal(minorUnits int64) string {
	fraction := int32(2)
	if c := money.GetCurrency(f.Currency()); c != nil {
		fraction = int32(c.Fraction)
	}
	return decimal.New(minorUnits, -fraction).StringFixed(fraction)
}

// FormatCurrencyDisplay formats minor units with DefaultCurrency.
func FormatCurrencyDisplay(minorUnits int64) string {
	return NewFormatter(DefaultCurrency).Format(minorUnits)
}

// IsKnownCurrency reports whether code is a currency go-money can format.
func IsKnownCurrency(code string) bool {
	return money.GetCurrency(strings.ToUpper(strings.TrimSpace(code))) != nil
}
