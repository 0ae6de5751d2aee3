// Package insights computes review-oriented summaries over the ledger:
// income/expense totals, per-category expense breakdowns, and filtered
// table views with a computed balance row.
package insights

import (
	"context"
	"log/slog"
	"slices"
	"sort"

	"github.com/FACorreiaa/finauto/internal/domain/ledger"
)

// BalanceRowDescription labels the computed balance row appended to
// filtered views. The row carries ledger.KindBalance and is never
// persisted.
const BalanceRowDescription = "--- SALDO DO PERÍODO ---"

// Filter narrows a summary to a month (YYYY-MM) and/or categories.
// Zero values mean no filtering.
type Filter struct {
	Month      string
	Categories []string
}

// Summary is the computed view over the (filtered) ledger.
type Summary struct {
	TotalIncome  float64
	TotalExpense float64
	Balance      float64

	// ExpenseByCategory breaks expenses down for the category chart.
	ExpenseByCategory map[string]float64

	// Months lists every YYYY-MM present in the full ledger, sorted,
	// for building period selectors.
	Months []string

	// Records is the filtered view with the balance row appended.
	Records []ledger.Record
}

// LedgerReader is the slice of the ledger service the summary needs.
type LedgerReader interface {
	Snapshot(ctx context.Context) []ledger.Record
}

// Service computes ledger summaries.
type Service struct {
	ledger LedgerReader
	logger *slog.Logger
}

// NewService creates a new insights service.
func NewService(l LedgerReader, logger *slog.Logger) *Service {
	return &Service{ledger: l, logger: logger}
}

// Summarize loads the current ledger and computes totals for the given
// filter. An unreachable store surfaces as an empty ledger upstream, so
// this always succeeds.
func (s *Service) Summarize(ctx context.Context, filter Filter) *Summary {
	return Compute(s.ledger.Snapshot(ctx), filter)
}

// Compute builds a summary from an in-memory ledger snapshot.
func Compute(all []ledger.Record, filter Filter) *Summary {
	monthSet := make(map[string]struct{})
	for _, rec := range all {
		monthSet[rec.Month()] = struct{}{}
	}
	months := make([]string, 0, len(monthSet))
	for m := range monthSet {
		months = append(months, m)
	}
	sort.Strings(months)

	filtered := make([]ledger.Record, 0, len(all))
	for _, rec := range all {
		if filter.Month != "" && rec.Month() != filter.Month {
			continue
		}
		if len(filter.Categories) > 0 && !slices.Contains(filter.Categories, rec.Category) {
			continue
		}
		filtered = append(filtered, rec)
	}

	summary := &Summary{
		ExpenseByCategory: make(map[string]float64),
		Months:            months,
	}
	for _, rec := range filtered {
		switch rec.Kind {
		case ledger.KindIncome:
			summary.TotalIncome += rec.Amount
		case ledger.KindExpense:
			summary.TotalExpense += rec.Amount
			summary.ExpenseByCategory[rec.Category] += rec.Amount
		}
	}
	summary.Balance = summary.TotalIncome - summary.TotalExpense

	// The balance row is a display artifact: its amount may be negative
	// and its kind is the computed-only pseudo kind.
	summary.Records = append(filtered, ledger.Record{
		Description: BalanceRowDescription,
		Amount:      summary.Balance,
		Kind:        ledger.KindBalance,
	})
	return summary
}
