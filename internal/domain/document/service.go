package document

import (
	"context"
	"log/slog"

	"github.com/FACorreiaa/finauto/internal/domain/ledger"
)

// File is one uploaded PDF: raw bytes plus the original filename used as
// record provenance.
type File struct {
	Name string
	Data []byte
}

// BatchResult reports one batch-processing call. Every input file lands
// in exactly one of Records (extracted), Skipped (filename already seen)
// or Failed (unreadable PDF).
type BatchResult struct {
	Records []ledger.Record
	Skipped []string
	Failed  []string
}

// Service runs the extraction pipeline over batches of files.
type Service struct {
	router *Router
	logger *slog.Logger
}

// NewService creates a new document pipeline service.
func NewService(router *Router, logger *slog.Logger) *Service {
	return &Service{router: router, logger: logger}
}

// ImportBatch processes files sequentially, one document to completion
// before the next. The seen set carries which filenames were already
// ingested; it is an explicit parameter rather than hidden session
// state, and the updated copy is returned alongside the result. A nil
// seen set is treated as empty.
func (s *Service) ImportBatch(ctx context.Context, files []File, seen map[string]struct{}) (*BatchResult, map[string]struct{}) {
	updated := make(map[string]struct{}, len(seen)+len(files))
	for name := range seen {
		updated[name] = struct{}{}
	}

	result := &BatchResult{}
	for _, f := range files {
		if _, done := updated[f.Name]; done {
			result.Skipped = append(result.Skipped, f.Name)
			continue
		}

		rec := s.router.Process(ctx, f.Data, f.Name)
		if rec == nil {
			result.Failed = append(result.Failed, f.Name)
			continue
		}

		result.Records = append(result.Records, *rec)
		updated[f.Name] = struct{}{}
	}

	s.logger.Info("document batch processed",
		slog.Int("extracted", len(result.Records)),
		slog.Int("skipped", len(result.Skipped)),
		slog.Int("failed", len(result.Failed)),
	)
	return result, updated
}
