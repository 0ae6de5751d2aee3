// Package export renders ledger snapshots as CSV and XLSX downloads.
package export

import (
	"fmt"
	"io"

	"github.com/gocarina/gocsv"
	"github.com/xuri/excelize/v2"

	"github.com/FACorreiaa/finauto/internal/domain/ledger"
)

// row mirrors the persisted tabular layout, one column per record field.
type row struct {
	Date        string  `csv:"date"`
	Description string  `csv:"description"`
	Category    string  `csv:"category"`
	Amount      float64 `csv:"amount"`
	Kind        string  `csv:"kind"`
	Source      string  `csv:"source"`
	LineItems   string  `csv:"line_items"`
}

func toRows(records []ledger.Record) []row {
	rows := make([]row, len(records))
	for i, rec := range records {
		rows[i] = row{
			Date:        rec.Date,
			Description: rec.Description,
			Category:    rec.Category,
			Amount:      rec.Amount,
			Kind:        string(rec.Kind),
			Source:      rec.Source,
			LineItems:   rec.LineItemsJSON(),
		}
	}
	return rows
}

// WriteCSV writes the ledger as CSV with a header row.
func WriteCSV(w io.Writer, records []ledger.Record) error {
	if err := gocsv.Marshal(toRows(records), w); err != nil {
		return fmt.Errorf("failed to write ledger csv: %w", err)
	}
	return nil
}

// WriteXLSX writes the ledger as a single-sheet workbook.
func WriteXLSX(w io.Writer, records []ledger.Record) error {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Ledger"
	index, err := f.NewSheet(sheet)
	if err != nil {
		return fmt.Errorf("failed to create ledger sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("failed to drop default sheet: %w", err)
	}

	header := []any{"date", "description", "category", "amount", "kind", "source", "line_items"}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("failed to write header row: %w", err)
	}

	for i, r := range toRows(records) {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("failed to address row %d: %w", i, err)
		}
		values := []any{r.Date, r.Description, r.Category, r.Amount, r.Kind, r.Source, r.LineItems}
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i, err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}
