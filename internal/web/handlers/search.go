package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shubhamdhabu/trace-rescue/internal/cases"
	"github.com/shubhamdhabu/trace-rescue/internal/search"
)

// SearchHandler handles the recognition search endpoints.
type SearchHandler struct {
	store        *cases.Store
	manager      *search.Manager
	orchestrator *search.Orchestrator
}

// NewSearchHandler creates a new search handler.
func NewSearchHandler(store *cases.Store, manager *search.Manager, orchestrator *search.Orchestrator) *SearchHandler {
	return &SearchHandler{
		store:        store,
		manager:      manager,
		orchestrator: orchestrator,
	}
}

// startRequest is the payload for starting a search.
type startRequest struct {
	CaseID string `json:"case_id"`
}

// Start launches the recognition workflow for a case. Only one search may be
// live at a time; a second start is rejected with 409.
func (h *SearchHandler) Start(w http.ResponseWriter, r *http.Request) {
	p, ok := mustGetPrincipal(w, r)
	if !ok {
		return
	}

	var req startRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, errInvalidRequestBody)
		return
	}
	if req.CaseID == "" {
		respondError(w, http.StatusBadRequest, "case_id is required")
		return
	}

	c, err := h.store.Get(r.Context(), p, req.CaseID)
	if err != nil {
		respondCaseError(w, err)
		return
	}
	if c.OwnerID != p.ID {
		respondError(w, http.StatusForbidden, "only the case owner may start a search")
		return
	}
	if c.Status != cases.StatusActive {
		respondError(w, http.StatusConflict, "case is not active")
		return
	}

	sess, ctx, err := h.manager.Create(c.ID, c.FullName, c.OwnerID)
	if err != nil {
		if errors.Is(err, search.ErrSessionActive) {
			respondError(w, http.StatusConflict, "another search is already running")
			return
		}
		respondError(w, http.StatusInternalServerError, "could not create session")
		return
	}

	log.Printf("starting recognition search %s for case %s", sess.ID, sanitizeForLog(c.ID))
	go h.orchestrator.Run(ctx, sess)

	respondJSON(w, http.StatusAccepted, sess.Snapshot())
}

// Status returns a snapshot of a search session.
func (h *SearchHandler) Status(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.ownedSession(w, r)
	if !ok {
		return
	}
	respondJSON(w, http.StatusOK, sess.Snapshot())
}

// Events streams session progress over SSE until the session reaches a
// terminal state or the client disconnects.
func (h *SearchHandler) Events(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.ownedSession(w, r)
	if !ok {
		return
	}
	streamSessionEvents(w, r, sess)
}

// Cancel stops a running search and removes the session from the registry.
// For an already-terminal session only the removal happens.
func (h *SearchHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.ownedSession(w, r)
	if !ok {
		return
	}

	if !sess.State().Terminal() {
		sess.Cancel()
	}
	// Cancel blocks until the workflow goroutine has exited, so the
	// snapshot below is final.
	snapshot := sess.Snapshot()
	h.manager.Delete(sess.ID)
	respondJSON(w, http.StatusOK, snapshot)
}

// ownedSession resolves the session from the URL and checks it belongs to the
// caller. Foreign sessions answer 404 so their existence is not leaked.
func (h *SearchHandler) ownedSession(w http.ResponseWriter, r *http.Request) (*search.Session, bool) {
	p, ok := mustGetPrincipal(w, r)
	if !ok {
		return nil, false
	}

	id := chi.URLParam(r, "sessionId")
	if id == "" {
		respondError(w, http.StatusBadRequest, "missing session ID")
		return nil, false
	}

	sess := h.manager.Get(id)
	if sess == nil || sess.OwnerID != p.ID {
		respondError(w, http.StatusNotFound, "session not found")
		return nil, false
	}
	return sess, true
}
