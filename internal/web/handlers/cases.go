package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/shubhamdhabu/trace-rescue/internal/cases"
)

// CasesHandler handles case CRUD endpoints.
type CasesHandler struct {
	store *cases.Store
}

// NewCasesHandler creates a new cases handler.
func NewCasesHandler(store *cases.Store) *CasesHandler {
	return &CasesHandler{store: store}
}

// List returns all cases visible to the caller, most recent first.
// An optional ?limit= query parameter caps the result.
func (h *CasesHandler) List(w http.ResponseWriter, r *http.Request) {
	p, ok := mustGetPrincipal(w, r)
	if !ok {
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			respondError(w, http.StatusBadRequest, "limit must be a non-negative integer")
			return
		}
		limit = n
	}

	records, err := h.store.List(r.Context(), p, limit)
	if err != nil {
		respondCaseError(w, err)
		return
	}
	if records == nil {
		records = []cases.Case{}
	}
	respondJSON(w, http.StatusOK, records)
}

// Create registers a new case owned by the caller.
func (h *CasesHandler) Create(w http.ResponseWriter, r *http.Request) {
	p, ok := mustGetPrincipal(w, r)
	if !ok {
		return
	}

	var draft cases.Draft
	if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
		respondError(w, http.StatusBadRequest, errInvalidRequestBody)
		return
	}

	c, err := h.store.Create(r.Context(), p, draft)
	if err != nil {
		respondCaseError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, c)
}

// Get returns a single visible case.
func (h *CasesHandler) Get(w http.ResponseWriter, r *http.Request) {
	p, ok := mustGetPrincipal(w, r)
	if !ok {
		return
	}

	c, err := h.store.Get(r.Context(), p, chi.URLParam(r, "id"))
	if err != nil {
		respondCaseError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, c)
}

// statusRequest is the payload for a status move.
type statusRequest struct {
	Status cases.Status `json:"status"`
}

// UpdateStatus moves a case to a new lifecycle status.
func (h *CasesHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	p, ok := mustGetPrincipal(w, r)
	if !ok {
		return
	}

	var req statusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, errInvalidRequestBody)
		return
	}

	c, err := h.store.UpdateStatus(r.Context(), p, chi.URLParam(r, "id"), req.Status)
	if err != nil {
		respondCaseError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, c)
}

// visibilityRequest is the payload for a visibility change.
type visibilityRequest struct {
	IsPublic bool `json:"is_public"`
}

// UpdateVisibility flips the public flag on a case.
func (h *CasesHandler) UpdateVisibility(w http.ResponseWriter, r *http.Request) {
	p, ok := mustGetPrincipal(w, r)
	if !ok {
		return
	}

	var req visibilityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, errInvalidRequestBody)
		return
	}

	c, err := h.store.UpdateVisibility(r.Context(), p, chi.URLParam(r, "id"), req.IsPublic)
	if err != nil {
		respondCaseError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, c)
}
