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

// NotesHandler handles /api/notes.
type NotesHandler struct {
	store  *store.Store
	gen    *mockdata.Generator
	logger *slog.Logger
}

// NewNotesHandler creates a new NotesHandler.
func NewNotesHandler(s *store.Store, gen *mockdata.Generator, logger *slog.Logger) *NotesHandler {
	return &NotesHandler{store: s, gen: gen, logger: logger}
}

// List handles GET /api/notes.
// @Summary List notes
// @Tags notes
// @Produce json
// @Success 200 {array} budget.Note
// @Router /notes [get]
func (h *NotesHandler) List(w http.ResponseWriter, r *http.Request) {
	created, err := h.store.ListNotes()
	if err != nil {
		h.logger.Error("failed to list notes", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "server_error", "Failed to list notes")
		return
	}
	writeJSON(w, http.StatusOK, append(created, h.gen.Notes()...))
}

// Create handles POST /api/notes.
func (h *NotesHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreateNoteRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	if err := validateRequest(req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_parameter", err.Error())
		return
	}

	note := req.Note(mockdata.NewID("note"), h.gen.Now())
	if err := h.store.SaveNote(note); err != nil {
		h.logger.Error("failed to save note", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "server_error", "Failed to create note")
		return
	}
	writeJSON(w, http.StatusOK, note)
}

// Update handles PUT /api/notes/{id}.
func (h *NotesHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var patch budget.NotePatch
	if err := decodeJSON(r, &patch); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	existing, err := h.store.GetNote(id)
	switch {
	case err == nil:
		if err := h.store.SaveNote(patch.Apply(existing)); err != nil {
			writeJSONError(w, http.StatusInternalServerError, "server_error", "Failed to update note")
			return
		}
	case !errors.Is(err, store.ErrNotFound):
		writeJSONError(w, http.StatusInternalServerError, "server_error", "Failed to get note")
		return
	}

	writeJSON(w, http.StatusOK, models.NoteUpdate{NotePatch: patch, ID: id, UpdatedAt: h.gen.Now()})
}

// Delete handles DELETE /api/notes/{id}.
func (h *NotesHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.store.Delete(store.BucketNotes, id); err != nil && !errors.Is(err, store.ErrNotFound) {
		writeJSONError(w, http.StatusInternalServerError, "server_error", "Failed to delete note")
		return
	}
	writeJSON(w, http.StatusOK, models.SuccessResponse{Success: true, ID: id})
}
