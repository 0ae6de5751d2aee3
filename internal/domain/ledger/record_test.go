package ledger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDedupKeyCentPrecision(t *testing.T) {
	a := Record{Date: "2024-03-10", Description: "Conta de Luz (Cemig)", Amount: 185.43, Kind: KindExpense}
	b := a
	// Float noise below a cent must not split duplicates.
	b.Amount = 185.43000000000001

	assert.Equal(t, a.DedupKey(), b.DedupKey())

	c := a
	c.Amount = 185.44
	assert.NotEqual(t, a.DedupKey(), c.DedupKey())
}

func TestDedupKeyIgnoresSourceAndCategory(t *testing.T) {
	a := Record{Date: "2024-03-10", Description: "Boleto Diverso", Amount: 99.9, Kind: KindExpense, Source: "a.pdf", Category: CategoryOther}
	b := a
	b.Source = "b.pdf"
	b.Category = CategoryServices

	assert.Equal(t, a.DedupKey(), b.DedupKey())
}

func TestRecordMonth(t *testing.T) {
	assert.Equal(t, "2024-03", Record{Date: "2024-03-10"}.Month())
	assert.Equal(t, "", Record{}.Month())
}

func TestRecordValidate(t *testing.T) {
	valid := Record{
		Date:        "2024-03-10",
		Description: "Contracheque - Salário Mensal",
		Category:    CategorySalary,
		Amount:      3500,
		Kind:        KindIncome,
		Source:      "contracheque.pdf",
	}
	require.NoError(t, valid.Validate())

	tests := []struct {
		name   string
		mutate func(*Record)
	}{
		{"negative amount", func(r *Record) { r.Amount = -1 }},
		{"balance kind is not persistable", func(r *Record) { r.Kind = KindBalance }},
		{"blank kind", func(r *Record) { r.Kind = "" }},
		{"brazilian date form", func(r *Record) { r.Date = "10/03/2024" }},
		{"blank date", func(r *Record) { r.Date = "" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := valid
			tt.mutate(&r)
			assert.Error(t, r.Validate())
		})
	}
}

func TestLineItemsJSONRoundTrip(t *testing.T) {
	r := Record{LineItems: []string{"05/02 IFOOD 45,90", "07/02 UBER 23,50"}}

	encoded := r.LineItemsJSON()
	require.NotEmpty(t, encoded)
	assert.Equal(t, r.LineItems, LineItemsFromJSON(encoded))

	// No items stores as a blank column, not "[]" or "null".
	assert.Equal(t, "", Record{}.LineItemsJSON())
	assert.Nil(t, LineItemsFromJSON(""))
	assert.Nil(t, LineItemsFromJSON("not json"))
}
