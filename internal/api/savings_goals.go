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

// SavingsGoalsHandler handles /api/savings-goals.
type SavingsGoalsHandler struct {
	store  *store.Store
	gen    *mockdata.Generator
	logger *slog.Logger
}

// NewSavingsGoalsHandler creates a new SavingsGoalsHandler.
func NewSavingsGoalsHandler(s *store.Store, gen *mockdata.Generator, logger *slog.Logger) *SavingsGoalsHandler {
	return &SavingsGoalsHandler{store: s, gen: gen, logger: logger}
}

// List handles GET /api/savings-goals.
func (h *SavingsGoalsHandler) List(w http.ResponseWriter, r *http.Request) {
	created, err := h.store.ListSavingsGoals()
	if err != nil {
		h.logger.Error("failed to list savings goals", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "server_error", "Failed to list savings goals")
		return
	}
	writeJSON(w, http.StatusOK, append(created, h.gen.SavingsGoals()...))
}

// Create handles POST /api/savings-goals. A current amount above the
// target is accepted.
func (h *SavingsGoalsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreateSavingsGoalRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	if err := validateRequest(req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_parameter", err.Error())
		return
	}

	goal := req.SavingsGoal(mockdata.NewID("goal"))
	if err := h.store.SaveSavingsGoal(goal); err != nil {
		h.logger.Error("failed to save savings goal", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "server_error", "Failed to create savings goal")
		return
	}
	writeJSON(w, http.StatusOK, goal)
}

// Update handles PUT /api/savings-goals/{id}.
func (h *SavingsGoalsHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var patch budget.SavingsGoalPatch
	if err := decodeJSON(r, &patch); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	if err := validateRequest(patch); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_parameter", err.Error())
		return
	}

	existing, err := h.store.GetSavingsGoal(id)
	switch {
	case err == nil:
		if err := h.store.SaveSavingsGoal(patch.Apply(existing)); err != nil {
			writeJSONError(w, http.StatusInternalServerError, "server_error", "Failed to update savings goal")
			return
		}
	case !errors.Is(err, store.ErrNotFound):
		writeJSONError(w, http.StatusInternalServerError, "server_error", "Failed to get savings goal")
		return
	}

	writeJSON(w, http.StatusOK, models.SavingsGoalUpdate{SavingsGoalPatch: patch, ID: id, UpdatedAt: h.gen.Now()})
}

// Delete handles DELETE /api/savings-goals/{id}.
func (h *SavingsGoalsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.store.Delete(store.BucketSavingsGoals, id); err != nil && !errors.Is(err, store.ErrNotFound) {
		writeJSONError(w, http.StatusInternalServerError, "server_error", "Failed to delete savings goal")
		return
	}
	writeJSON(w, http.StatusOK, models.SuccessResponse{Success: true, ID: id})
}
