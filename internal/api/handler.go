// Package api exposes the document pipeline and ledger over a small
// JSON HTTP surface.
package api

import (
	"bytes"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/FACorreiaa/finauto/internal/domain/document"
	"github.com/FACorreiaa/finauto/internal/domain/export"
	"github.com/FACorreiaa/finauto/internal/domain/insights"
	"github.com/FACorreiaa/finauto/internal/domain/ledger"
	"github.com/FACorreiaa/finauto/pkg/storage"
)

// Handler holds the HTTP handlers for the API.
type Handler struct {
	docs        *document.Service
	ledgerSvc   *ledger.Service
	insightsSvc *insights.Service
	files       storage.Storage
	logger      *slog.Logger

	// seen tracks filenames already ingested over the life of the
	// process, so re-uploading a document across requests reports it as
	// skipped instead of extracting it again.
	mu   sync.Mutex
	seen map[string]struct{}
}

// NewHandler creates the API handler.
func NewHandler(docs *document.Service, ledgerSvc *ledger.Service, insightsSvc *insights.Service, files storage.Storage, logger *slog.Logger) *Handler {
	return &Handler{
		docs:        docs,
		ledgerSvc:   ledgerSvc,
		insightsSvc: insightsSvc,
		files:       files,
		logger:      logger,
		seen:        make(map[string]struct{}),
	}
}

func (h *Handler) snapshotSeen() map[string]struct{} {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make(map[string]struct{}, len(h.seen))
	for name := range h.seen {
		out[name] = struct{}{}
	}
	return out
}

func (h *Handler) markSeen(updated map[string]struct{}) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for name := range updated {
		h.seen[name] = struct{}{}
	}
}

// Register sets up the HTTP routes.
func (h *Handler) Register(app *fiber.App) {
	api := app.Group("/api")

	api.Get("/health", h.handleHealth)
	api.Post("/import", h.handleImport)
	api.Get("/ledger", h.handleListLedger)
	api.Post("/ledger", h.handleSaveBatch)
	api.Post("/ledger/manual", h.handleManualEntry)
	api.Delete("/ledger/:position", h.handleDelete)
	api.Get("/summary", h.handleSummary)
	api.Get("/files", h.handleListFiles)
	api.Get("/files/:id", h.handleDownloadFile)
	api.Delete("/files/:id", h.handleDeleteFile)
	api.Get("/export/csv", h.handleExportCSV)
	api.Get("/export/xlsx", h.handleExportXLSX)
}

func (h *Handler) handleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

// importResponse reports one upload batch. Records are a preview unless
// save=1 was passed, in which case they are already reconciled.
type importResponse struct {
	Records []ledger.Record `json:"records"`
	Skipped []string        `json:"skipped"`
	Failed  []string        `json:"failed"`
	Saved   bool            `json:"saved"`
}

// handleImport accepts multipart PDF uploads under the "documents"
// field, classifies and extracts each one, and optionally (save=1)
// reconciles the extracted records into the ledger right away. The
// default is preview-only so a human can review values first.
func (h *Handler) handleImport(c *fiber.Ctx) error {
	form, err := c.MultipartForm()
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "expected multipart form upload")
	}
	uploads := form.File["documents"]
	if len(uploads) == 0 {
		return fiber.NewError(fiber.StatusBadRequest, "no documents uploaded")
	}

	files := make([]document.File, 0, len(uploads))
	for _, fh := range uploads {
		src, err := fh.Open()
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "could not read upload "+fh.Filename)
		}
		data, err := io.ReadAll(src)
		src.Close()
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "could not read upload "+fh.Filename)
		}

		// Archive the original before extraction so the record's source
		// stays auditable even when extraction degrades to defaults.
		if h.files != nil {
			if _, err := h.files.Upload(c.Context(), fh.Filename, fh.Header.Get("Content-Type"), bytes.NewReader(data)); err != nil {
				h.logger.Warn("failed to archive upload", slog.String("filename", fh.Filename), slog.Any("error", err))
			}
		}

		files = append(files, document.File{Name: fh.Filename, Data: data})
	}

	result, updated := h.docs.ImportBatch(c.Context(), files, h.snapshotSeen())
	h.markSeen(updated)

	resp := importResponse{
		Records: result.Records,
		Skipped: result.Skipped,
		Failed:  result.Failed,
	}
	if c.QueryBool("save") && len(result.Records) > 0 {
		if _, err := h.ledgerSvc.SaveAll(c.Context(), result.Records); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		resp.Saved = true
	}
	return c.JSON(resp)
}

// positionedRecord pairs a record with its position in the current
// snapshot, the handle used for deletion.
type positionedRecord struct {
	Position int           `json:"position"`
	Record   ledger.Record `json:"record"`
}

// handleListLedger returns the current snapshot, optionally narrowed by
// month, category, and a fuzzy description query.
func (h *Handler) handleListLedger(c *fiber.Ctx) error {
	records := h.ledgerSvc.Snapshot(c.Context())

	month := c.Query("month")
	category := c.Query("category")

	out := make([]positionedRecord, 0, len(records))
	for pos, rec := range records {
		if month != "" && rec.Month() != month {
			continue
		}
		if category != "" && rec.Category != category {
			continue
		}
		out = append(out, positionedRecord{Position: pos, Record: rec})
	}

	if q := c.Query("q"); q != "" {
		filtered := make([]positionedRecord, 0, len(out))
		subset := make([]ledger.Record, len(out))
		for i, pr := range out {
			subset[i] = pr.Record
		}
		for _, match := range ledger.Search(subset, q) {
			for _, pr := range out {
				if pr.Record.DedupKey() == match.DedupKey() {
					filtered = append(filtered, pr)
					break
				}
			}
		}
		out = filtered
	}

	return c.JSON(out)
}

func (h *Handler) handleSaveBatch(c *fiber.Ctx) error {
	var records []ledger.Record
	if err := c.BodyParser(&records); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "expected a JSON array of records")
	}
	stored, err := h.ledgerSvc.SaveAll(c.Context(), records)
	if err != nil {
		if strings.Contains(err.Error(), "invalid record") {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
	return c.JSON(fiber.Map{"stored": len(stored)})
}

func (h *Handler) handleManualEntry(c *fiber.Ctx) error {
	var rec ledger.Record
	if err := c.BodyParser(&rec); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "expected a JSON record")
	}
	stored, err := h.ledgerSvc.AddManual(c.Context(), rec)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	return c.JSON(fiber.Map{"stored": len(stored)})
}

func (h *Handler) handleDelete(c *fiber.Ctx) error {
	position, err := c.ParamsInt("position")
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "position must be an integer")
	}
	if err := h.ledgerSvc.DeleteAt(c.Context(), position); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// handleListFiles returns the archived upload metadata, newest first.
func (h *Handler) handleListFiles(c *fiber.Ctx) error {
	if h.files == nil {
		return fiber.NewError(fiber.StatusNotFound, "file archive is disabled")
	}
	infos, err := h.files.List(c.Context())
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
	return c.JSON(infos)
}

func (h *Handler) handleDownloadFile(c *fiber.Ctx) error {
	if h.files == nil {
		return fiber.NewError(fiber.StatusNotFound, "file archive is disabled")
	}
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "file id must be a uuid")
	}
	r, err := h.files.GetReader(c.Context(), id)
	if err != nil {
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	return c.SendStream(r)
}

func (h *Handler) handleDeleteFile(c *fiber.Ctx) error {
	if h.files == nil {
		return fiber.NewError(fiber.StatusNotFound, "file archive is disabled")
	}
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "file id must be a uuid")
	}
	if err := h.files.Delete(c.Context(), id); err != nil {
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *Handler) handleSummary(c *fiber.Ctx) error {
	filter := insights.Filter{Month: c.Query("month")}
	if category := c.Query("category"); category != "" {
		filter.Categories = strings.Split(category, ",")
	}
	return c.JSON(h.insightsSvc.Summarize(c.Context(), filter))
}

func (h *Handler) handleExportCSV(c *fiber.Ctx) error {
	records := h.ledgerSvc.Snapshot(c.Context())

	var buf bytes.Buffer
	if err := export.WriteCSV(&buf, records); err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
	c.Set(fiber.HeaderContentType, "text/csv")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="ledger.csv"`)
	return c.Send(buf.Bytes())
}

func (h *Handler) handleExportXLSX(c *fiber.Ctx) error {
	records := h.ledgerSvc.Snapshot(c.Context())

	var buf bytes.Buffer
	if err := export.WriteXLSX(&buf, records); err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
	c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="ledger.xlsx"`)
	return c.Send(buf.Bytes())
}
