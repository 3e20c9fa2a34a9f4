// Package http provides HTTP handlers for account signup and login.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/safedesk/safedesk/internal/models"
)

// AuthService defines the interface for account operations required by the
// HTTP handlers.
type AuthService interface {
	// Signup creates a new account, rejecting duplicate usernames with
	// models.ErrUsernameTaken.
	Signup(ctx context.Context, u models.User) (models.User, error)
	// Login validates the credentials against the stored record, rejecting
	// mismatches with models.ErrInvalidCredentials.
	Login(ctx context.Context, username, password, accountType string) (models.User, error)
}

// AuthHandler handles HTTP requests for signup and login.
type AuthHandler struct {
	// AuthService performs the underlying account operations.
	AuthService AuthService
}

// SignupRequest represents the JSON payload for account registration.
type SignupRequest struct {
	FullName    string `json:"fullName"`
	Username    string `json:"username"`
	Email       string `json:"email"`
	AccountType string `json:"accountType"`
	Password    string `json:"password"`
}

// LoginRequest represents the JSON payload for login.
type LoginRequest struct {
	Username    string `json:"username"`
	Password    string `json:"password"`
	AccountType string `json:"accountType"`
}

// Signup handles POST /api/signup. All fields are required. A duplicate
// username yields 409; any backend failure the persistence layer could not
// absorb yields 500.
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	if req.FullName == "" || req.Username == "" || req.Email == "" || req.AccountType == "" || req.Password == "" {
		http.Error(w, "missing required fields", http.StatusBadRequest)
		return
	}

	user, err := h.AuthService.Signup(r.Context(), models.User{
		FullName:    req.FullName,
		Username:    req.Username,
		Email:       req.Email,
		AccountType: req.AccountType,
		Password:    req.Password,
	})
	switch {
	case errors.Is(err, models.ErrUsernameTaken):
		http.Error(w, "username already taken", http.StatusConflict)
		return
	case err != nil:
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	user.Password = ""
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(user)
}

// Login handles POST /api/login. Username and password are required. A
// credential or account-type mismatch yields 401.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	if req.Username == "" || req.Password == "" || req.AccountType == "" {
		http.Error(w, "missing required fields", http.StatusBadRequest)
		return
	}

	user, err := h.AuthService.Login(r.Context(), req.Username, req.Password, req.AccountType)
	switch {
	case errors.Is(err, models.ErrInvalidCredentials):
		http.Error(w, "invalid credentials", http.StatusUnauthorized)
		return
	case err != nil:
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"status": "ok",
		"user":   user,
	})
}
