package document

import (
	"context"
	"log/slog"

	"github.com/cloudflare/ahocorasick"

	"github.com/FACorreiaa/finauto/internal/domain/ledger"
)

// Type identifies which specialized extractor handles a document.
type Type string

const (
	TypePayslip       Type = "payslip"
	TypeCardStatement Type = "card_statement"
	TypeUtilityBill   Type = "utility_bill"
	TypeGeneric       Type = "generic"
)

// Extractor turns one classified document into exactly one ledger
// record. Extractors never fail: missing fields degrade to zero amounts,
// today's date, and default labels for human review.
type Extractor interface {
	Extract(doc *Document) ledger.Record
}

// Discriminating markers, scanned in one Aho-Corasick pass over the
// document text. Matching is byte-exact substring containment, same as
// the dispatch rules it feeds.
const (
	markerContracheque = iota
	markerPrefeitura
	markerLiquido
	markerXP
	markerFatura
	markerCemig
)

var markerPatterns = []string{
	markerContracheque: "CONTRACHEQUE",
	markerPrefeitura:   "PREFEITURA",
	markerLiquido:      "Líquido",
	markerXP:           "XP",
	markerFatura:       "Fatura",
	markerCemig:        "CEMIG",
}

type markerHits map[int]bool

// rule pairs a marker predicate with the extractor it dispatches to.
// Rules are evaluated in declaration order and the first match wins;
// the order is a load-bearing contract because the marker sets are not
// mutually exclusive (a payslip mentioning "XP" is still a payslip).
type rule struct {
	docType Type
	match   func(hits markerHits) bool
}

// Router classifies extracted document text and dispatches to the
// matching extractor, falling back to the generic one.
type Router struct {
	matcher    *ahocorasick.Matcher
	rules      []rule
	extractors map[Type]Extractor
	logger     *slog.Logger
	metrics    *Metrics
}

// NewRouter wires the fixed-priority dispatch table.
func NewRouter(logger *slog.Logger, metrics *Metrics) *Router {
	return &Router{
		matcher: ahocorasick.NewStringMatcher(markerPatterns),
		rules: []rule{
			{TypePayslip, func(h markerHits) bool {
				return h[markerContracheque] || (h[markerPrefeitura] && h[markerLiquido])
			}},
			{TypeCardStatement, func(h markerHits) bool {
				return h[markerXP] && h[markerFatura]
			}},
			{TypeUtilityBill, func(h markerHits) bool {
				return h[markerCemig]
			}},
		},
		extractors: map[Type]Extractor{
			TypePayslip:       &PayslipExtractor{},
			TypeCardStatement: &CardStatementExtractor{},
			TypeUtilityBill:   &UtilityBillExtractor{},
			TypeGeneric:       &GenericExtractor{},
		},
		logger:  logger,
		metrics: metrics,
	}
}

// Classify scans the text for discriminating markers and returns the
// document type, TypeGeneric when no specialized marker set matches.
// One Router is shared across requests, so the scan must use the
// matcher's thread-safe variant: plain Match mutates matcher state.
func (r *Router) Classify(text string) Type {
	hits := make(markerHits, len(markerPatterns))
	for _, idx := range r.matcher.MatchThreadSafe([]byte(text)) {
		hits[idx] = true
	}

	for _, rule := range r.rules {
		if rule.match(hits) {
			return rule.docType
		}
	}
	return TypeGeneric
}

// Process classifies a PDF byte stream and extracts its record. It
// returns nil only when the PDF itself is unreadable; that document is
// skipped, never fatal to the batch.
func (r *Router) Process(ctx context.Context, data []byte, filename string) *ledger.Record {
	pages, err := ExtractPages(data)
	if err != nil {
		r.logger.Warn("skipping unreadable document",
			slog.String("filename", filename),
			slog.Any("error", err),
		)
		if r.metrics != nil {
			r.metrics.DocumentsSkipped.Inc()
		}
		return nil
	}

	rec := r.ProcessDocument(NewDocument(filename, pages))
	return &rec
}

// ProcessDocument classifies already-extracted text and runs the
// matching extractor.
func (r *Router) ProcessDocument(doc *Document) ledger.Record {
	docType := r.Classify(doc.Text)
	rec := r.extractors[docType].Extract(doc)

	r.logger.Info("document classified",
		slog.String("filename", doc.Filename),
		slog.String("type", string(docType)),
		slog.String("date", rec.Date),
		slog.Float64("amount", rec.Amount),
	)
	if r.metrics != nil {
		r.metrics.DocumentsProcessed.WithLabelValues(string(docType)).Inc()
	}
	return rec
}
