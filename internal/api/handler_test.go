package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/finauto/internal/domain/document"
	"github.com/FACorreiaa/finauto/internal/domain/insights"
	"github.com/FACorreiaa/finauto/internal/domain/ledger"
	"github.com/FACorreiaa/finauto/pkg/storage"
)

// memoryRepository is an in-memory ledger.Repository for handler tests.
type memoryRepository struct {
	records []ledger.Record
}

func (m *memoryRepository) Load(ctx context.Context) ([]ledger.Record, error) {
	return append([]ledger.Record{}, m.records...), nil
}

func (m *memoryRepository) Replace(ctx context.Context, records []ledger.Record) error {
	m.records = append([]ledger.Record{}, records...)
	return nil
}

func testAppWithStorage(repo *memoryRepository, files storage.Storage) (*fiber.App, *Handler) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	router := document.NewRouter(logger, document.NewMetrics(prometheus.NewRegistry()))
	docs := document.NewService(router, logger)
	ledgerSvc := ledger.NewService(repo, logger)
	insightsSvc := insights.NewService(ledgerSvc, logger)

	app := fiber.New()
	h := NewHandler(docs, ledgerSvc, insightsSvc, files, logger)
	h.Register(app)
	return app, h
}

func testApp(repo *memoryRepository) *fiber.App {
	app, _ := testAppWithStorage(repo, nil)
	return app
}

func doJSON(t *testing.T, app *fiber.App, method, target string, body any) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func TestHealth(t *testing.T) {
	app := testApp(&memoryRepository{})

	resp := doJSON(t, app, http.MethodGet, "/api/health", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestSaveBatchAndList(t *testing.T) {
	repo := &memoryRepository{}
	app := testApp(repo)

	records := []ledger.Record{
		{Date: "2024-01-05", Description: "Contracheque - Salário Mensal", Category: ledger.CategorySalary, Amount: 3500, Kind: ledger.KindIncome, Source: "contracheque.pdf"},
		{Date: "2024-02-10", Description: "Fatura Cartão XP", Category: ledger.CategoryCardBill, Amount: 1200.5, Kind: ledger.KindExpense, Source: "Fatura XP"},
	}

	resp := doJSON(t, app, http.MethodPost, "/api/ledger", records)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	stored := decode[map[string]int](t, resp)
	assert.Equal(t, 2, stored["stored"])

	// Saving the same batch again changes nothing.
	resp = doJSON(t, app, http.MethodPost, "/api/ledger", records)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 2, decode[map[string]int](t, resp)["stored"])

	type positioned struct {
		Position int           `json:"position"`
		Record   ledger.Record `json:"record"`
	}

	resp = doJSON(t, app, http.MethodGet, "/api/ledger", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	listed := decode[[]positioned](t, resp)
	require.Len(t, listed, 2)
	assert.Equal(t, 0, listed[0].Position)

	resp = doJSON(t, app, http.MethodGet, "/api/ledger?month=2024-02", nil)
	listed = decode[[]positioned](t, resp)
	require.Len(t, listed, 1)
	assert.Equal(t, 1, listed[0].Position, "positions address the full snapshot, not the filtered view")

	resp = doJSON(t, app, http.MethodGet, "/api/ledger?q=fatura", nil)
	listed = decode[[]positioned](t, resp)
	require.Len(t, listed, 1)
	assert.Equal(t, "Fatura Cartão XP", listed[0].Record.Description)
}

func TestSaveBatchRejectsInvalid(t *testing.T) {
	app := testApp(&memoryRepository{})

	resp := doJSON(t, app, http.MethodPost, "/api/ledger", []ledger.Record{
		{Date: "10/01/2024", Description: "data fora do formato", Amount: 10, Kind: ledger.KindExpense},
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestManualEntry(t *testing.T) {
	repo := &memoryRepository{}
	app := testApp(repo)

	resp := doJSON(t, app, http.MethodPost, "/api/ledger/manual", ledger.Record{
		Date:        "2024-04-01",
		Description: "Presente",
		Category:    ledger.CategoryLeisure,
		Amount:      120,
		Kind:        ledger.KindExpense,
		Source:      "spoofed.pdf",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	require.Len(t, repo.records, 1)
	assert.Equal(t, ledger.SourceManual, repo.records[0].Source)
}

func TestDelete(t *testing.T) {
	repo := &memoryRepository{records: []ledger.Record{
		{Date: "2024-01-01", Description: "a", Amount: 1, Kind: ledger.KindExpense},
		{Date: "2024-01-02", Description: "b", Amount: 2, Kind: ledger.KindExpense},
	}}
	app := testApp(repo)

	resp := doJSON(t, app, http.MethodDelete, "/api/ledger/0", nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	require.Len(t, repo.records, 1)
	assert.Equal(t, "b", repo.records[0].Description)

	resp = doJSON(t, app, http.MethodDelete, "/api/ledger/9", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = doJSON(t, app, http.MethodDelete, "/api/ledger/abc", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestSummary(t *testing.T) {
	repo := &memoryRepository{records: []ledger.Record{
		{Date: "2024-01-05", Description: "Contracheque - Salário Mensal", Category: ledger.CategorySalary, Amount: 3500, Kind: ledger.KindIncome},
		{Date: "2024-01-10", Description: "Conta de Luz (Cemig)", Category: ledger.CategoryHousing, Amount: 185.43, Kind: ledger.KindExpense},
	}}
	app := testApp(repo)

	resp := doJSON(t, app, http.MethodGet, "/api/summary", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	summary := decode[insights.Summary](t, resp)
	assert.InDelta(t, 3314.57, summary.Balance, 0.001)
	require.NotEmpty(t, summary.Records)
	assert.Equal(t, insights.BalanceRowDescription, summary.Records[len(summary.Records)-1].Description)
}

func TestImportRejectsNonMultipart(t *testing.T) {
	app := testApp(&memoryRepository{})

	resp := doJSON(t, app, http.MethodPost, "/api/import", []string{})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func doUpload(t *testing.T, app *fiber.App, filename string, data []byte) *http.Response {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("documents", filename)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/import", &body)
	req.Header.Set(fiber.HeaderContentType, mw.FormDataContentType())
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func TestImportReportsUnreadableFiles(t *testing.T) {
	app := testApp(&memoryRepository{})

	resp := doUpload(t, app, "broken.pdf", []byte("not a pdf"))
	require.Equal(t, http.StatusOK, resp.StatusCode)

	result := decode[importResponse](t, resp)
	assert.Empty(t, result.Records)
	assert.Equal(t, []string{"broken.pdf"}, result.Failed)
	assert.False(t, result.Saved)
}

func TestImportSkipsFilenamesAcrossRequests(t *testing.T) {
	app, h := testAppWithStorage(&memoryRepository{}, nil)

	// A filename ingested by an earlier request is skipped before any
	// parsing happens on the next one.
	h.markSeen(map[string]struct{}{"fatura-jan.pdf": {}})

	resp := doUpload(t, app, "fatura-jan.pdf", []byte("garbage"))
	require.Equal(t, http.StatusOK, resp.StatusCode)

	result := decode[importResponse](t, resp)
	assert.Equal(t, []string{"fatura-jan.pdf"}, result.Skipped)
	assert.Empty(t, result.Failed)
}

func TestImportRetriesFailedFilenames(t *testing.T) {
	app := testApp(&memoryRepository{})

	// An unreadable file is not remembered as seen, so a corrected
	// upload under the same name gets another attempt.
	for i := 0; i < 2; i++ {
		resp := doUpload(t, app, "broken.pdf", []byte("garbage"))
		require.Equal(t, http.StatusOK, resp.StatusCode)
		result := decode[importResponse](t, resp)
		assert.Equal(t, []string{"broken.pdf"}, result.Failed)
		assert.Empty(t, result.Skipped)
	}
}

func TestFileArchiveEndpoints(t *testing.T) {
	files, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	app, _ := testAppWithStorage(&memoryRepository{}, files)

	// Uploads are archived before extraction, so even an unreadable
	// document lands in the archive.
	resp := doUpload(t, app, "broken.pdf", []byte("not a pdf"))
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = doJSON(t, app, http.MethodGet, "/api/files", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	listed := decode[[]storage.FileInfo](t, resp)
	require.Len(t, listed, 1)
	assert.Equal(t, "broken.pdf", listed[0].Name)

	resp = doJSON(t, app, http.MethodGet, "/api/files/"+listed[0].ID.String(), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, "not a pdf", string(body))

	resp = doJSON(t, app, http.MethodDelete, "/api/files/"+listed[0].ID.String(), nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = doJSON(t, app, http.MethodGet, "/api/files", nil)
	assert.Empty(t, decode[[]storage.FileInfo](t, resp))

	resp = doJSON(t, app, http.MethodGet, "/api/files/not-a-uuid", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = doJSON(t, app, http.MethodGet, "/api/files/"+uuid.NewString(), nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestExportCSV(t *testing.T) {
	repo := &memoryRepository{records: []ledger.Record{
		{Date: "2024-01-05", Description: "Contracheque - Salário Mensal", Category: ledger.CategorySalary, Amount: 3500, Kind: ledger.KindIncome},
	}}
	app := testApp(repo)

	resp := doJSON(t, app, http.MethodGet, "/api/export/csv", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/csv", resp.Header.Get(fiber.HeaderContentType))

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Contains(t, string(body), "Contracheque - Salário Mensal")
}
