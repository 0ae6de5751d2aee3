// Package ledger holds the persisted transaction model and the
// reconciliation logic that merges newly extracted records into the
// existing ledger.
package ledger

import (
	"encoding/json"
	"fmt"
	"time"
)

// Kind classifies the cash-flow direction of a record.
type Kind string

const (
	KindIncome  Kind = "Receita"
	KindExpense Kind = "Despesa"

	// KindBalance marks computed summary rows only. It is never persisted.
	KindBalance Kind = "SALDO"
)

// Valid reports whether the kind is one of the two persisted values.
func (k Kind) Valid() bool {
	return k == KindIncome || k == KindExpense
}

// Category labels. The taxonomy is open ended: these are the labels the
// extractors and the manual-entry form produce, but stored records may
// carry any string.
const (
	CategorySalary    = "Salário"
	CategoryHousing   = "Casa"
	CategoryCardBill  = "Fatura Cartão"
	CategoryServices  = "Serviços"
	CategoryTransport = "Transporte"
	CategoryLeisure   = "Lazer"
	CategoryOther     = "Outros"
)

// SourceManual is the provenance label for manually entered records.
const SourceManual = "Manual"

// DateLayout is the canonical calendar-date form used everywhere.
const DateLayout = "2006-01-02"

// Record is the canonical unit of ledger data. Amount is always
// non-negative; direction is carried by Kind. Records are immutable once
// extracted: the reconciler may drop exact duplicates but never rewrites
// fields.
type Record struct {
	Date        string   `json:"date"` // YYYY-MM-DD, never blank
	Description string   `json:"description"`
	Category    string   `json:"category"`
	Amount      float64  `json:"amount"`
	Kind        Kind     `json:"kind"`
	Source      string   `json:"source"`
	LineItems   []string `json:"line_items,omitempty"`
}

// Month returns the YYYY-MM prefix of the record date, used for
// period filters.
func (r Record) Month() string {
	if len(r.Date) < 7 {
		return r.Date
	}
	return r.Date[:7]
}

// DedupKey identifies a transaction for reconciliation purposes. Two
// records with the same key are the same transaction. Amount is keyed at
// cent precision so float representation noise cannot split duplicates.
func (r Record) DedupKey() string {
	return fmt.Sprintf("%s|%s|%.2f|%s", r.Date, r.Description, r.Amount, r.Kind)
}

// LineItemsJSON encodes the raw line items as a JSON array of strings.
// Records without line items encode as the empty string, matching the
// tabular-store convention of leaving the column blank.
func (r Record) LineItemsJSON() string {
	if len(r.LineItems) == 0 {
		return ""
	}
	b, err := json.Marshal(r.LineItems)
	if err != nil {
		return ""
	}
	return string(b)
}

// LineItemsFromJSON decodes a stored line-items column. Blank input
// yields nil.
func LineItemsFromJSON(s string) []string {
	if s == "" {
		return nil
	}
	var items []string
	if err := json.Unmarshal([]byte(s), &items); err != nil {
		return nil
	}
	return items
}

// Validate checks the invariants a record must hold before persisting.
func (r Record) Validate() error {
	if r.Amount < 0 {
		return fmt.Errorf("record amount must be non-negative, got %f", r.Amount)
	}
	if !r.Kind.Valid() {
		return fmt.Errorf("record kind %q is not a persisted kind", r.Kind)
	}
	if _, err := time.Parse(DateLayout, r.Date); err != nil {
		return fmt.Errorf("record date %q is not a calendar date: %w", r.Date, err)
	}
	return nil
}
