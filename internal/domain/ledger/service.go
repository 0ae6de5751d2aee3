package ledger

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// Service reconciles record batches into the persistent ledger.
type Service struct {
	repo   Repository
	logger *slog.Logger
}

// NewService creates a new ledger service.
func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// Snapshot loads the current ledger. A persistence failure degrades to an
// empty ledger so callers can render "no data" instead of propagating a
// raw store fault.
func (s *Service) Snapshot(ctx context.Context) []Record {
	records, err := s.repo.Load(ctx)
	if err != nil {
		s.logger.Warn("ledger load failed, presenting empty ledger", slog.Any("error", err))
		return []Record{}
	}
	return records
}

// SaveAll merges a batch of new records into the stored ledger:
// load, concatenate, dedupe on the 4-tuple key keeping first occurrence,
// replace. Returns the persisted snapshot.
func (s *Service) SaveAll(ctx context.Context, incoming []Record) ([]Record, error) {
	for _, rec := range incoming {
		if err := rec.Validate(); err != nil {
			return nil, fmt.Errorf("refusing to save invalid record: %w", err)
		}
	}

	existing, err := s.repo.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load ledger before merge: %w", err)
	}

	merged := Merge(existing, incoming)
	if err := s.repo.Replace(ctx, merged); err != nil {
		return nil, fmt.Errorf("failed to persist merged ledger: %w", err)
	}

	s.logger.Info("ledger reconciled",
		slog.Int("incoming", len(incoming)),
		slog.Int("existing", len(existing)),
		slog.Int("stored", len(merged)),
		slog.Int("duplicates_dropped", len(existing)+len(incoming)-len(merged)),
	)
	return merged, nil
}

// AddManual stores a manually entered record. Source is forced to the
// Manual sentinel and a blank date defaults to today.
func (s *Service) AddManual(ctx context.Context, rec Record) ([]Record, error) {
	rec.Source = SourceManual
	if rec.Date == "" {
		rec.Date = time.Now().Format(DateLayout)
	}
	if err := rec.Validate(); err != nil {
		return nil, err
	}
	return s.SaveAll(ctx, []Record{rec})
}

// DeleteAt removes one record by its position in the most recently
// loaded snapshot, expressed as a full replace without that row.
func (s *Service) DeleteAt(ctx context.Context, position int) error {
	records, err := s.repo.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load ledger before delete: %w", err)
	}

	remaining, ok := RemoveAt(records, position)
	if !ok {
		return fmt.Errorf("position %d is outside the current ledger of %d records", position, len(records))
	}

	if err := s.repo.Replace(ctx, remaining); err != nil {
		return fmt.Errorf("failed to persist ledger after delete: %w", err)
	}
	s.logger.Info("ledger row deleted", slog.Int("position", position))
	return nil
}
