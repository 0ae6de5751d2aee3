package document

import (
	"regexp"
	"strings"

	"github.com/FACorreiaa/finauto/internal/domain/ledger"
	"github.com/FACorreiaa/finauto/pkg/money"
)

// Candidate field labels for generic boletos. Documents often repeat the
// total under more than one label; the largest match wins.
var genericAmountPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?is)Valor do Documento.*?R?\$?\s*([\d\.]+,\d{2})`),
	regexp.MustCompile(`(?is)Valor Cobrado.*?R?\$?\s*([\d\.]+,\d{2})`),
	regexp.MustCompile(`(?is)Total a Pagar.*?R?\$?\s*([\d\.]+,\d{2})`),
}

// GenericExtractor is the fallback for documents no specialized marker
// set claims. Every classifiable document still yields exactly one
// expense record, even if all fields degrade to defaults.
type GenericExtractor struct{}

func (e *GenericExtractor) Extract(doc *Document) ledger.Record {
	var amount float64
	for _, pattern := range genericAmountPatterns {
		if m := pattern.FindStringSubmatch(doc.Text); m != nil {
			if v := money.Parse(m[1]); v > amount {
				amount = v
			}
		}
	}

	description := "Boleto Diverso"
	category := ledger.CategoryOther
	if strings.Contains(strings.ToLower(doc.Text), "blink") {
		description = "Internet (Blink)"
		category = ledger.CategoryServices
	}

	return ledger.Record{
		Date:        ExtractDate(doc.Text),
		Description: description,
		Category:    category,
		Amount:      amount,
		Kind:        ledger.KindExpense,
		Source:      doc.Filename,
	}
}
