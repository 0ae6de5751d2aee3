package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/FACorreiaa/finauto/internal/api"
	"github.com/FACorreiaa/finauto/internal/domain/document"
	"github.com/FACorreiaa/finauto/internal/domain/insights"
	"github.com/FACorreiaa/finauto/internal/domain/ledger"
	"github.com/FACorreiaa/finauto/pkg/config"
	"github.com/FACorreiaa/finauto/pkg/cron"
	"github.com/FACorreiaa/finauto/pkg/db"
	"github.com/FACorreiaa/finauto/pkg/storage"
)

// Dependencies holds all application dependencies
type Dependencies struct {
	Config *config.Config
	DB     *db.DB
	Logger *slog.Logger

	// Repositories
	LedgerRepo ledger.Repository

	// Services
	DocumentService *document.Service
	LedgerService   *ledger.Service
	InsightsService *insights.Service
	FileStorage     storage.Storage

	// Handlers
	APIHandler *api.Handler

	Scheduler *cron.Scheduler
}

// InitDependencies initializes all application dependencies
func InitDependencies(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Dependencies, error) {
	deps := &Dependencies{
		Config: cfg,
		Logger: logger,
	}

	dsn := cfg.Database.DSN()
	if err := db.Migrate(dsn); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	database, err := db.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to init database: %w", err)
	}
	deps.DB = database

	deps.LedgerRepo = ledger.NewPostgresRepository(database.Pool)

	files, err := storage.NewLocalStorage(cfg.Storage.LocalPath)
	if err != nil {
		return nil, fmt.Errorf("failed to init file storage: %w", err)
	}
	deps.FileStorage = files

	metrics := document.NewMetrics(prometheus.DefaultRegisterer)
	router := document.NewRouter(logger, metrics)

	deps.DocumentService = document.NewService(router, logger)
	deps.LedgerService = ledger.NewService(deps.LedgerRepo, logger)
	deps.InsightsService = insights.NewService(deps.LedgerService, logger)

	deps.APIHandler = api.NewHandler(
		deps.DocumentService,
		deps.LedgerService,
		deps.InsightsService,
		deps.FileStorage,
		logger,
	)

	deps.Scheduler = cron.NewScheduler(deps.InsightsService, logger)

	return deps, nil
}

// Close releases held resources.
func (d *Dependencies) Close() {
	if d.Scheduler != nil {
		<-d.Scheduler.Stop().Done()
	}
	if d.DB != nil {
		d.DB.Close()
	}
}
