package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/pigeonworks-llc/campus-budget/internal/mockdata"
	"github.com/pigeonworks-llc/campus-budget/internal/models"
	"github.com/pigeonworks-llc/campus-budget/internal/store"
	"github.com/pigeonworks-llc/campus-budget/pkg/budget"
)

// TransactionsHandler handles /api/transactions.
type TransactionsHandler struct {
	store  *store.Store
	gen    *mockdata.Generator
	logger *slog.Logger
}

// NewTransactionsHandler creates a new TransactionsHandler.
func NewTransactionsHandler(s *store.Store, gen *mockdata.Generator, logger *slog.Logger) *TransactionsHandler {
	return &TransactionsHandler{store: s, gen: gen, logger: logger}
}

// List handles GET /api/transactions. Records created through the API
// come first, followed by freshly generated demo transactions.
// @Summary List transactions
// @Tags transactions
// @Produce json
// @Success 200 {array} budget.Transaction
// @Failure 500 {object} ErrorResponse
// @Router /transactions [get]
func (h *TransactionsHandler) List(w http.ResponseWriter, r *http.Request) {
	created, err := h.store.ListTransactions()
	if err != nil {
		h.logger.Error("failed to list transactions", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "server_error", "Failed to list transactions")
		return
	}
	writeJSON(w, http.StatusOK, append(created, h.gen.Transactions()...))
}

// Create handles POST /api/transactions.
// @Summary Create a transaction
// @Tags transactions
// @Accept json
// @Produce json
// @Param request body models.CreateTransactionRequest true "Transaction"
// @Success 200 {object} budget.Transaction
// @Failure 400 {object} ErrorResponse
// @Router /transactions [post]
func (h *TransactionsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreateTransactionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	if err := validateRequest(req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_parameter", err.Error())
		return
	}

	txn := req.Transaction(mockdata.NewID("txn"), h.gen.Now())
	if err := h.store.SaveTransaction(txn); err != nil {
		h.logger.Error("failed to save transaction", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "server_error", "Failed to create transaction")
		return
	}
	writeJSON(w, http.StatusOK, txn)
}

// Update handles PUT /api/transactions/{id}. The patch is echoed back with
// the id and update time; a stored record with that id is updated too.
func (h *TransactionsHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var patch budget.TransactionPatch
	if err := decodeJSON(r, &patch); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	if err := validateRequest(patch); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_parameter", err.Error())
		return
	}

	existing, err := h.store.GetTransaction(id)
	switch {
	case err == nil:
		if err := h.store.SaveTransaction(patch.Apply(existing)); err != nil {
			writeJSONError(w, http.StatusInternalServerError, "server_error", "Failed to update transaction")
			return
		}
	case !errors.Is(err, store.ErrNotFound):
		writeJSONError(w, http.StatusInternalServerError, "server_error", "Failed to get transaction")
		return
	}

	writeJSON(w, http.StatusOK, models.TransactionUpdate{TransactionPatch: patch, ID: id, UpdatedAt: h.gen.Now()})
}

// Delete handles DELETE /api/transactions/{id}. Unknown ids still succeed.
func (h *TransactionsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.store.Delete(store.BucketTransactions, id); err != nil && !errors.Is(err, store.ErrNotFound) {
		writeJSONError(w, http.StatusInternalServerError, "server_error", "Failed to delete transaction")
		return
	}
	writeJSON(w, http.StatusOK, models.SuccessResponse{Success: true, ID: id})
}
