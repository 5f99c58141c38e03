package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/shubhamdhabu/trace-rescue/internal/config"
	"github.com/shubhamdhabu/trace-rescue/internal/users"
	"github.com/shubhamdhabu/trace-rescue/internal/web/middleware"
)

// AuthHandler handles account registration and login.
type AuthHandler struct {
	repo users.Repository
	auth *config.AuthConfig
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(repo users.Repository, auth *config.AuthConfig) *AuthHandler {
	return &AuthHandler{repo: repo, auth: auth}
}

// RegisterRequest is the payload for creating an account.
type RegisterRequest struct {
	Username         string `json:"username"`
	Email            string `json:"email"`
	Password         string `json:"password"`
	FullName         string `json:"full_name"`
	BranchDepartment string `json:"branch_department"`
}

// LoginRequest is the payload for logging in.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// tokenResponse carries a fresh token and the account it belongs to.
type tokenResponse struct {
	Token string      `json:"token"`
	User  *users.User `json:"user"`
}

// Register creates a new account and returns a token for it.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, errInvalidRequestBody)
		return
	}

	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(req.Email)
	if req.Username == "" || req.Email == "" {
		respondError(w, http.StatusBadRequest, "username and email are required")
		return
	}
	if len(req.Password) < 8 {
		respondError(w, http.StatusBadRequest, "password must be at least 8 characters")
		return
	}

	hash, err := users.HashPassword(req.Password)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "could not hash password")
		return
	}

	user, err := h.repo.Insert(r.Context(), &users.User{
		Username:         req.Username,
		Email:            req.Email,
		FullName:         req.FullName,
		BranchDepartment: req.BranchDepartment,
	}, hash)
	if err != nil {
		if errors.Is(err, users.ErrDuplicate) {
			respondError(w, http.StatusConflict, "account already exists")
			return
		}
		respondError(w, http.StatusInternalServerError, "storage failure")
		return
	}

	token, err := users.GenerateToken(user, []byte(h.auth.JWTSecret), h.auth.TokenTTL)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "could not issue token")
		return
	}

	respondJSON(w, http.StatusCreated, tokenResponse{Token: token, User: user})
}

// Login checks credentials and returns a token.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, errInvalidRequestBody)
		return
	}

	user, hash, err := h.repo.GetByEmail(r.Context(), strings.TrimSpace(req.Email))
	if err != nil {
		respondError(w, http.StatusInternalServerError, "storage failure")
		return
	}
	// Same answer for unknown accounts and wrong passwords.
	if user == nil || !users.CheckPassword(hash, req.Password) {
		respondError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	token, err := users.GenerateToken(user, []byte(h.auth.JWTSecret), h.auth.TokenTTL)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "could not issue token")
		return
	}

	respondJSON(w, http.StatusOK, tokenResponse{Token: token, User: user})
}

// Status returns the account behind the current token.
func (h *AuthHandler) Status(w http.ResponseWriter, r *http.Request) {
	p, ok := middleware.GetPrincipal(r.Context())
	if !ok {
		respondJSON(w, http.StatusOK, map[string]any{"authenticated": false})
		return
	}

	user, err := h.repo.Get(r.Context(), p.ID)
	if err != nil || user == nil {
		respondJSON(w, http.StatusOK, map[string]any{"authenticated": false})
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"authenticated": true,
		"user":          user,
	})
}
