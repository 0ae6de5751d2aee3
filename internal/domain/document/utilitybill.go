package document

import (
	"regexp"

	"github.com/FACorreiaa/finauto/internal/domain/ledger"
	"github.com/FACorreiaa/finauto/pkg/money"
)

var (
	amountDuePattern = regexp.MustCompile(`(?is)Valor a pagar.*?R\$\)?\s*([\d\.]+,\d{2})`)

	// Any currency-prefixed decimal amount.
	currencyAmountPattern = regexp.MustCompile(`R\$\s*([\d\.]+,\d{2})`)
)

// UtilityBillExtractor handles CEMIG electricity bills. When the "Valor
// a pagar" label is absent it takes the maximum of every currency-
// prefixed amount on the bill: these documents print several figures
// (previous balance, late fee, total) and the largest is the amount due.
type UtilityBillExtractor struct{}

func (e *UtilityBillExtractor) Extract(doc *Document) ledger.Record {
	var amount float64
	if m := amountDuePattern.FindStringSubmatch(doc.Text); m != nil {
		amount = money.Parse(m[1])
	} else {
		for _, m := range currencyAmountPattern.FindAllStringSubmatch(doc.Text, -1) {
			if v := money.Parse(m[1]); v > amount {
				amount = v
			}
		}
	}

	return ledger.Record{
		Date:        ExtractDate(doc.Text),
		Description: "Conta de Luz (Cemig)",
		Category:    ledger.CategoryHousing,
		Amount:      amount,
		Kind:        ledger.KindExpense,
		Source:      doc.Filename,
	}
}
