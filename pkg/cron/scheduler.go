// Package cron provides scheduled background jobs using robfig/cron.
package cron

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/FACorreiaa/finauto/internal/domain/insights"
	"github.com/FACorreiaa/finauto/pkg/money"
)

// Scheduler manages background scheduled jobs using robfig/cron.
type Scheduler struct {
	cron     *cron.Cron
	insights *insights.Service
	logger   *slog.Logger
}

// NewScheduler creates a new job scheduler.
func NewScheduler(insightsSvc *insights.Service, logger *slog.Logger) *Scheduler {
	c := cron.New(cron.WithLogger(cron.VerbosePrintfLogger(slog.NewLogLogger(logger.Handler(), slog.LevelDebug))))

	return &Scheduler{
		cron:     c,
		insights: insightsSvc,
		logger:   logger,
	}
}

// Start begins scheduled jobs.
func (s *Scheduler) Start() error {
	// Ledger summary snapshot: runs daily at 2:00 AM
	_, err := s.cron.AddFunc("0 2 * * *", s.logLedgerSummary)
	if err != nil {
		return err
	}

	s.cron.Start()
	s.logger.Info("cron scheduler started",
		slog.Int("jobs", len(s.cron.Entries())),
	)
	return nil
}

// Stop gracefully stops all scheduled jobs.
func (s *Scheduler) Stop() context.Context {
	s.logger.Info("cron scheduler stopping")
	return s.cron.Stop()
}

// RunNow manually triggers the summary snapshot (for testing/admin).
func (s *Scheduler) RunNow() {
	go s.logLedgerSummary()
}

// logLedgerSummary records the current ledger totals so the operator has
// a daily audit line even when nobody opens the dashboard.
func (s *Scheduler) logLedgerSummary() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	summary := s.insights.Summarize(ctx, insights.Filter{})
	s.logger.Info("daily ledger summary",
		slog.String("income", money.FormatBRL(summary.TotalIncome)),
		slog.String("expense", money.FormatBRL(summary.TotalExpense)),
		slog.String("balance", money.FormatBRL(summary.Balance)),
		slog.Int("records", len(summary.Records)-1),
	)
}
