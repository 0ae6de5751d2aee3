// Command import classifies financial PDFs from the command line and
// optionally reconciles the extracted records into the ledger.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/FACorreiaa/finauto/internal/domain/document"
	"github.com/FACorreiaa/finauto/internal/domain/ledger"
	"github.com/FACorreiaa/finauto/pkg/config"
	"github.com/FACorreiaa/finauto/pkg/db"
	"github.com/FACorreiaa/finauto/pkg/money"
)

func main() {
	saveFlag := flag.Bool("save", false, "Reconcile extracted records into the ledger (default: preview only)")
	verboseFlag := flag.Bool("verbose", false, "Enable debug logging")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, `FinAuto document import

Classifies financial PDFs (payslips, card statements, utility bills,
generic boletos), extracts one transaction record per document, and
optionally reconciles them into the ledger.

Usage:
  import [flags] <document.pdf> [document2.pdf ...]

Flags:
`)
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	level := slog.LevelInfo
	if *verboseFlag {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	ctx := context.Background()
	if err := run(ctx, logger, flag.Args(), *saveFlag); err != nil {
		logger.Error("import failed", slog.Any("error", err))
		os.Exit(1)
	}
}

func run(ctx context.Context, logger *slog.Logger, paths []string, save bool) error {
	files := make([]document.File, 0, len(paths))
	for _, path := range paths {
		if ext := strings.ToLower(filepath.Ext(path)); ext != ".pdf" {
			return fmt.Errorf("expected a .pdf file, got %q", path)
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("could not read %s: %w", path, err)
		}
		files = append(files, document.File{Name: filepath.Base(path), Data: data})
	}

	metrics := document.NewMetrics(prometheus.NewRegistry())
	router := document.NewRouter(logger, metrics)
	docs := document.NewService(router, logger)

	// One invocation is one batch; the batch's own seen set already
	// skips a path listed twice on the command line.
	result, _ := docs.ImportBatch(ctx, files, nil)

	for _, rec := range result.Records {
		fmt.Printf("%s  %-12s  %-30s  %s\n", rec.Date, rec.Kind, rec.Description, money.FormatBRL(rec.Amount))
	}
	for _, name := range result.Failed {
		fmt.Fprintf(os.Stderr, "skipped unreadable document: %s\n", name)
	}

	if !save {
		fmt.Printf("%d record(s) extracted (preview only, re-run with --save to persist)\n", len(result.Records))
		return nil
	}
	if len(result.Records) == 0 {
		fmt.Println("nothing to save")
		return nil
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("could not load configuration: %w", err)
	}
	dsn := cfg.Database.DSN()
	if err := db.Migrate(dsn); err != nil {
		return err
	}
	database, err := db.New(ctx, dsn)
	if err != nil {
		return err
	}
	defer database.Close()

	ledgerSvc := ledger.NewService(ledger.NewPostgresRepository(database.Pool), logger)
	stored, err := ledgerSvc.SaveAll(ctx, result.Records)
	if err != nil {
		return err
	}
	fmt.Printf("ledger now holds %d record(s)\n", len(stored))
	return nil
}
