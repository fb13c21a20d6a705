package api

import (
	"bytes"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/pigeonworks-llc/campus-budget/internal/mockdata"
	"github.com/pigeonworks-llc/campus-budget/internal/models"
	"github.com/pigeonworks-llc/campus-budget/internal/store"
	"github.com/pigeonworks-llc/campus-budget/pkg/budget"
	"github.com/pigeonworks-llc/campus-budget/pkg/pathutil"
)

// maxReceiptBytes caps receipt uploads.
const maxReceiptBytes = 10 << 20

// ReceiptsHandler handles receipt-related API requests.
type ReceiptsHandler struct {
	store  *store.Store
	gen    *mockdata.Generator
	paths  *pathutil.PathResolver
	logger *slog.Logger
}

// NewReceiptsHandler creates a new ReceiptsHandler.
func NewReceiptsHandler(s *store.Store, gen *mockdata.Generator, paths *pathutil.PathResolver, logger *slog.Logger) *ReceiptsHandler {
	return &ReceiptsHandler{store: s, gen: gen, paths: paths, logger: logger}
}

// Scan handles POST /api/receipts/scan.
// @Summary Scan a receipt
// @Description Stores the uploaded image and returns a draft debit built from the recognised fields
// @Tags receipts
// @Accept multipart/form-data
// @Produce json
// @Param receipt formData file true "Receipt image or PDF"
// @Param accountId formData string false "Account for the draft transaction"
// @Success 200 {object} models.ScanResponse
// @Failure 400 {object} ErrorResponse
// @Router /receipts/scan [post]
func (h *ReceiptsHandler) Scan(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxReceiptBytes)
	if err := r.ParseMultipartForm(maxReceiptBytes); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_request", "Failed to parse multipart form")
		return
	}

	file, header, err := r.FormFile("receipt")
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_parameter", "Missing receipt file")
		return
	}
	defer file.Close()

	sniff := make([]byte, 512)
	n, err := io.ReadFull(file, sniff)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) {
		writeJSONError(w, http.StatusBadRequest, "invalid_parameter", "Empty receipt file")
		return
	}
	contentType := http.DetectContentType(sniff[:n])
	if !acceptedReceiptType(contentType) {
		writeJSONError(w, http.StatusBadRequest, "invalid_parameter", "Receipt must be an image or PDF, got "+contentType)
		return
	}

	scan := h.gen.ScanReceipt()
	id := mockdata.NewID("rcpt")
	dest := h.paths.ReceiptPath(scan.Date, id+filepath.Ext(header.Filename))
	if err := h.paths.EnsureParentDir(dest); err != nil {
		h.logger.Error("failed to create receipt directory", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "server_error", "Failed to create upload directory")
		return
	}

	size, err := writeUpload(dest, io.MultiReader(bytes.NewReader(sniff[:n]), file))
	if err != nil {
		h.logger.Error("failed to save receipt", "path", dest, "error", err)
		writeJSONError(w, http.StatusInternalServerError, "server_error", "Failed to save file")
		return
	}

	receipt := &models.Receipt{
		ID:        id,
		FileName:  filepath.Base(header.Filename),
		FilePath:  dest,
		SizeBytes: size,
		Merchant:  scan.Merchant,
		Amount:    scan.Amount,
		Label:     scan.Label,
		Date:      scan.Date.Format("2006-01-02"),
		CreatedAt: h.gen.Now(),
	}
	if err := h.store.CreateReceipt(receipt); err != nil {
		_ = os.Remove(dest)
		writeJSONError(w, http.StatusInternalServerError, "server_error", "Failed to create receipt")
		return
	}

	h.logger.Info("receipt scanned", "id", id, "merchant", scan.Merchant, "label", scan.Label)

	writeJSON(w, http.StatusOK, models.ScanResponse{
		Receipt: *receipt,
		Draft: budget.Transaction{
			ID:          mockdata.NewID("txn"),
			AccountID:   r.FormValue("accountId"),
			Type:        budget.TxnDebit,
			Amount:      scan.Amount,
			Category:    budget.CategoryOrOther(scan.Label),
			Description: scan.Merchant,
			CreatedAt:   scan.Date,
		},
	})
}

// List handles GET /api/receipts.
func (h *ReceiptsHandler) List(w http.ResponseWriter, r *http.Request) {
	receipts, err := h.store.ListReceipts()
	if err != nil {
		writeJSONError(w, http.StatusInternalServerError, "server_error", "Failed to list receipts")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"receipts": receipts})
}

// Delete handles DELETE /api/receipts/{id}. The stored file goes too.
func (h *ReceiptsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	receipt, err := h.store.GetReceipt(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeJSONError(w, http.StatusNotFound, "not_found", "Receipt not found")
		} else {
			writeJSONError(w, http.StatusInternalServerError, "server_error", "Failed to get receipt")
		}
		return
	}

	if err := h.store.DeleteReceipt(id); err != nil {
		writeJSONError(w, http.StatusInternalServerError, "server_error", "Failed to delete receipt")
		return
	}
	if receipt.FilePath != "" {
		if err := os.Remove(receipt.FilePath); err != nil && !os.IsNotExist(err) {
			h.logger.Warn("failed to remove receipt file", "path", receipt.FilePath, "error", err)
		}
	}

	writeJSON(w, http.StatusOK, models.SuccessResponse{Success: true, ID: id})
}

func acceptedReceiptType(contentType string) bool {
	return strings.HasPrefix(contentType, "image/") || contentType == "application/pdf"
}

func writeUpload(dest string, src io.Reader) (int64, error) {
	f, err := os.Create(dest)
	if err != nil {
		return 0, err
	}
	n, err := io.Copy(f, src)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(dest)
		return 0, err
	}
	return n, nil
}
