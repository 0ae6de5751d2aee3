package document

import (
	"regexp"
	"strings"
	"time"

	"github.com/FACorreiaa/finauto/internal/domain/ledger"
	"github.com/FACorreiaa/finauto/pkg/money"
)

var (
	// Net pay: the "Líquido" label followed eventually by a decimal
	// amount, case-insensitively, across line breaks.
	netPayPattern = regexp.MustCompile(`(?is)Líquido.*?([\d\.]+,\d{2})`)

	// Labeled payment date field.
	paymentDatePattern = regexp.MustCompile(`(?i)Data do Pagamento:\s*(\d{2}/\d{2}/\d{4})`)
)

// PayslipExtractor handles municipal payslips (contracheques). The net
// pay becomes an income record in the salary category.
type PayslipExtractor struct{}

func (e *PayslipExtractor) Extract(doc *Document) ledger.Record {
	var amount float64
	if m := netPayPattern.FindStringSubmatch(doc.Text); m != nil {
		amount = money.Parse(m[1])
	}

	date := ExtractDate(doc.Text)
	if m := paymentDatePattern.FindStringSubmatch(doc.Text); m != nil {
		if d, err := time.Parse(brazilianDateLayout, m[1]); err == nil {
			date = d.Format(ledger.DateLayout)
		}
	}

	label := "Salário Mensal"
	if strings.Contains(doc.Text, "13.") || strings.Contains(doc.Text, "DECIMO") {
		label = "13º Salário"
	}

	return ledger.Record{
		Date:        date,
		Description: "Contracheque - " + label,
		Category:    ledger.CategorySalary,
		Amount:      amount,
		Kind:        ledger.KindIncome,
		Source:      doc.Filename,
	}
}
