// Package handlers holds the HTTP handlers for the JSON API.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/shubhamdhabu/trace-rescue/internal/cases"
	"github.com/shubhamdhabu/trace-rescue/internal/web/middleware"
)

// errInvalidRequestBody is a shared error message for invalid JSON request bodies.
const errInvalidRequestBody = "invalid request body"

// sanitizeForLog removes newlines and carriage returns to prevent log injection.
func sanitizeForLog(s string) string {
	return strings.NewReplacer("\n", "", "\r", "").Replace(s)
}

// respondJSON sends a JSON response.
func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// respondError sends an error response.
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// respondCaseError maps the case error taxonomy onto HTTP statuses.
func respondCaseError(w http.ResponseWriter, err error) {
	var (
		validation *cases.ValidationError
		authz      *cases.AuthorizationError
		notFound   *cases.NotFoundError
		transition *cases.InvalidTransitionError
		storage    *cases.StorageError
	)

	switch {
	case errors.As(err, &validation):
		respondError(w, http.StatusBadRequest, validation.Error())
	case errors.As(err, &authz):
		respondError(w, http.StatusForbidden, authz.Error())
	case errors.As(err, &notFound):
		respondError(w, http.StatusNotFound, notFound.Error())
	case errors.As(err, &transition):
		respondError(w, http.StatusConflict, transition.Error())
	case errors.As(err, &storage):
		respondError(w, http.StatusInternalServerError, "storage failure")
	default:
		respondError(w, http.StatusInternalServerError, "internal error")
	}
}

// mustGetPrincipal pulls the principal from the context, writing a 401 when
// the request somehow skipped the auth middleware.
func mustGetPrincipal(w http.ResponseWriter, r *http.Request) (cases.Principal, bool) {
	p, ok := middleware.GetPrincipal(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
	}
	return p, ok
}

// HealthCheck handles the health check endpoint.
func HealthCheck(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
	})
}
