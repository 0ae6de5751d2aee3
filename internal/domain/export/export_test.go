package export

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/FACorreiaa/finauto/internal/domain/ledger"
)

var exportRecords = []ledger.Record{
	{Date: "2024-01-05", Description: "Contracheque - Salário Mensal", Category: ledger.CategorySalary, Amount: 3500, Kind: ledger.KindIncome, Source: "contracheque.pdf"},
	{Date: "2024-01-10", Description: "Fatura Cartão XP", Category: ledger.CategoryCardBill, Amount: 1200.5, Kind: ledger.KindExpense, Source: "Fatura XP", LineItems: []string{"05/01 IFOOD 45,90"}},
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, exportRecords))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "date,description,category,amount,kind,source,line_items", lines[0])
	assert.Contains(t, lines[1], "Contracheque - Salário Mensal")
	assert.Contains(t, lines[1], "Receita")
	assert.Contains(t, lines[2], "Despesa")
}

func TestWriteCSVEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, nil))
	// Header row only.
	assert.Equal(t, "date,description,category,amount,kind,source,line_items", strings.TrimSpace(buf.String()))
}

func TestWriteXLSX(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf, exportRecords))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Ledger")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "date", rows[0][0])
	assert.Equal(t, "Fatura Cartão XP", rows[2][1])
	assert.Equal(t, "Despesa", rows[2][4])
}
