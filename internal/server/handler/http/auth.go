// Package http provides the HTTP handlers and routers for the
// data-source and data-sink services.
package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/OWSqix/sovity-ce-local-demo-datasource-and-datasink/internal/models"
	"github.com/OWSqix/sovity-ce-local-demo-datasource-and-datasink/internal/repository"
	"github.com/OWSqix/sovity-ce-local-demo-datasource-and-datasink/internal/service"
	"go.uber.org/zap"
)

// AuthService defines the authentication operations required by the
// HTTP handlers.
type AuthService interface {
	// Register creates a new user from a username and plaintext password.
	Register(username, password string) error
	// Verify reports whether the password matches the stored credential.
	Verify(username, password string) bool
}

// TokenIssuer creates bearer tokens for authenticated users.
type TokenIssuer interface {
	Issue(username string) (token string, expiresIn time.Duration, err error)
}

// AuthHandler handles HTTP requests for user registration and login.
type AuthHandler struct {
	Auth   AuthService
	Tokens TokenIssuer
	Logger *zap.Logger
}

// writeJSON writes v with the given status as a JSON response.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Register handles POST /auth/register. It expects a JSON body with
// username and password and answers 201 on success. Weak passwords and
// duplicate usernames both answer 400.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.Auth.Register(req.Username, req.Password); err != nil {
		switch {
		case errors.Is(err, repository.ErrConflict):
			http.Error(w, "username already registered", http.StatusBadRequest)
		case errors.Is(err, service.ErrWeakPassword), errors.Is(err, service.ErrEmptyUsername):
			http.Error(w, err.Error(), http.StatusBadRequest)
		default:
			h.Logger.Error("register failed", zap.Error(err))
			http.Error(w, "internal error", http.StatusInternalServerError)
		}
		return
	}

	h.Logger.Info("user registered", zap.String("username", req.Username))
	writeJSON(w, http.StatusCreated, models.Message{Msg: "user '" + req.Username + "' registered successfully"})
}

// Login handles POST /auth/login. Bad credentials of every kind answer
// the same 401 so the endpoint cannot be used as a username oracle.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if !h.Auth.Verify(req.Username, req.Password) {
		http.Error(w, "invalid username or password", http.StatusUnauthorized)
		return
	}

	token, expiresIn, err := h.Tokens.Issue(req.Username)
	if err != nil {
		h.Logger.Error("token issue failed", zap.Error(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	h.Logger.Info("user logged in", zap.String("username", req.Username))
	writeJSON(w, http.StatusOK, models.LoginResponse{
		Token:     token,
		TokenType: "bearer",
		ExpiresIn: int64(expiresIn.Seconds()),
	})
}
