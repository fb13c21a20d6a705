package api

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/pigeonworks-llc/campus-budget/internal/metrics"
	"github.com/pigeonworks-llc/campus-budget/internal/mockdata"
	"github.com/pigeonworks-llc/campus-budget/internal/models"
	"github.com/pigeonworks-llc/campus-budget/pkg/linkwizard"
)

// LinkHandler simulates linking a bank account and card.
type LinkHandler struct {
	gen      *mockdata.Generator
	delayMin time.Duration
	delayMax time.Duration
	metrics  *metrics.Metrics
	logger   *slog.Logger
}

// NewLinkHandler creates a new LinkHandler. Each request waits a random
// delay in [delayMin, delayMax].
func NewLinkHandler(gen *mockdata.Generator, delayMin, delayMax time.Duration, m *metrics.Metrics, logger *slog.Logger) *LinkHandler {
	return &LinkHandler{gen: gen, delayMin: delayMin, delayMax: delayMax, metrics: m, logger: logger}
}

// Link handles POST /api/link.
// @Summary Link accounts
// @Description Validates the wizard payload, waits to simulate the bank, then returns demo data
// @Tags link
// @Accept json
// @Produce json
// @Param request body linkwizard.LinkRequest true "Wizard stages"
// @Success 200 {object} models.LinkResponse
// @Failure 400 {object} ErrorResponse
// @Router /link [post]
func (h *LinkHandler) Link(w http.ResponseWriter, r *http.Request) {
	var req linkwizard.LinkRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	if err := req.Validate(); err != nil {
		var fe linkwizard.FieldErrors
		if errors.As(err, &fe) {
			writeJSON(w, http.StatusBadRequest, ErrorResponse{
				Error:            "validation_failed",
				ErrorDescription: "One or more fields are invalid",
				Fields:           fe,
			})
			return
		}
		writeJSONError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	delay := h.gen.Duration(h.delayMin, h.delayMax)
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-timer.C:
	case <-r.Context().Done():
		h.logger.Info("link cancelled by client", "after", delay)
		return
	}
	h.metrics.ObserveLinkDelay(delay)

	resp := models.LinkResponse{
		Success: true,
		Data: models.LinkData{
			Accounts:     h.gen.Accounts(),
			Transactions: h.gen.Transactions(),
			SavingsGoals: h.gen.SavingsGoals(),
			Notes:        h.gen.Notes(),
		},
	}
	h.logger.Info("accounts linked",
		"bank", req.Bank.BankName,
		"accounts", len(resp.Data.Accounts),
		"transactions", len(resp.Data.Transactions))
	writeJSON(w, http.StatusOK, resp)
}
