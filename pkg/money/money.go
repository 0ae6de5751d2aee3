// Package money provides parsing and formatting for Brazilian-formatted
// monetary amounts ("1.234,56", "R$ 50,00"). Parsing goes through
// shopspring/decimal for precision; display formatting uses go-money.
package money

import (
	"strings"

	gomoney "github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// BRL is the only currency the extraction pipeline deals with.
const BRL = "BRL"

// Parse converts a Brazilian-formatted amount string to a float64.
// It strips every character that is not a digit or a comma (currency
// symbols, thousands dots, surrounding text), then treats the comma as
// the decimal separator.
//
// Parse never fails: empty or malformed input yields 0.0 so that a bad
// field in a document degrades to a zero amount for human review instead
// of aborting the extraction pipeline.
func Parse(s string) float64 {
	var b strings.Builder
	for _, r := range s {
		if (r >= '0' && r <= '9') || r == ',' {
			b.WriteRune(r)
		}
	}
	cleaned := strings.ReplaceAll(b.String(), ",", ".")
	if cleaned == "" {
		return 0
	}

	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return 0
	}
	f, _ := d.Float64()
	return f
}

// Cents converts a float amount to integer cents, rounding to the
// nearest cent through decimal to avoid float drift.
func Cents(amount float64) int64 {
	return decimal.NewFromFloat(amount).Mul(decimal.New(1, 2)).Round(0).IntPart()
}

// FromCents converts integer cents back to a float amount.
func FromCents(cents int64) float64 {
	f, _ := decimal.New(cents, -2).Float64()
	return f
}

// FormatBRL renders an amount as a BRL display string.
func FormatBRL(amount float64) string {
	return gomoney.New(Cents(amount), BRL).Display()
}
