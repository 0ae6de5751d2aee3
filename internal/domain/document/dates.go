package document

import (
	"regexp"
	"time"

	"github.com/FACorreiaa/finauto/internal/domain/ledger"
)

// First DD/MM/YYYY occurrence anywhere in the text.
var datePattern = regexp.MustCompile(`(\d{2}/\d{2}/\d{4})`)

const brazilianDateLayout = "02/01/2006"

// ExtractDate finds the first DD/MM/YYYY date in the text and returns it
// in canonical YYYY-MM-DD form. When no parsable date is present it
// returns today: a document without a discoverable date still produces a
// record, timestamped at ingestion time.
func ExtractDate(text string) string {
	return ExtractDateAt(text, time.Now())
}

// ExtractDateAt is ExtractDate with an injectable clock for the
// missing-date fallback.
func ExtractDateAt(text string, now time.Time) string {
	if m := datePattern.FindStringSubmatch(text); m != nil {
		if d, err := time.Parse(brazilianDateLayout, m[1]); err == nil {
			return d.Format(ledger.DateLayout)
		}
	}
	return now.Format(ledger.DateLayout)
}
