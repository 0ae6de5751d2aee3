package document

import (
	"regexp"
	"strings"

	"github.com/FACorreiaa/finauto/internal/domain/ledger"
	"github.com/FACorreiaa/finauto/pkg/money"
)

var (
	// Total due under either label phrase, optional currency symbol.
	totalDuePattern = regexp.MustCompile(`(?is)(?:Pagamento total|Valor total devido).*?R?\$?\s*([\d\.]+,\d{2})`)

	// One itemized statement line: DD/MM/YY, free text, amount.
	statementLinePattern = regexp.MustCompile(`(\d{2}/\d{2}/\d{2})\s+(.+?)\s+(\d{1,3}(?:\.\d{3})*,\d{2})`)
)

// CardStatementExtractor handles XP credit card statements. Besides the
// total due, it collects every itemized line across all pages as an
// audit trail; the lines are stored raw, not decomposed into separate
// records.
type CardStatementExtractor struct{}

func (e *CardStatementExtractor) Extract(doc *Document) ledger.Record {
	var amount float64
	if m := totalDuePattern.FindStringSubmatch(doc.Text); m != nil {
		amount = money.Parse(m[1])
	}

	var items []string
	for _, page := range doc.Pages {
		for _, line := range strings.Split(page, "\n") {
			if statementLinePattern.MatchString(line) {
				items = append(items, line)
			}
		}
	}

	return ledger.Record{
		Date:        ExtractDate(doc.Text),
		Description: "Fatura Cartão XP",
		Category:    ledger.CategoryCardBill,
		Amount:      amount,
		Kind:        ledger.KindExpense,
		Source:      "Fatura XP",
		LineItems:   items,
	}
}
