package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/OWSqix/sovity-ce-local-demo-datasource-and-datasink/internal/repository"
	"github.com/OWSqix/sovity-ce-local-demo-datasource-and-datasink/internal/service"
	"go.uber.org/zap"
)

// fakeAuthService implements AuthService for testing.
type fakeAuthService struct {
	registerErr  error
	verifyReturn bool
}

func (f *fakeAuthService) Register(username, password string) error {
	return f.registerErr
}

func (f *fakeAuthService) Verify(username, password string) bool {
	return f.verifyReturn
}

// fakeTokenIssuer implements TokenIssuer for testing.
type fakeTokenIssuer struct {
	token    string
	issueErr error
}

func (f *fakeTokenIssuer) Issue(username string) (string, time.Duration, error) {
	return f.token, time.Hour, f.issueErr
}

func TestAuthHandler_Register(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		service        *fakeAuthService
		expectedCode   int
		expectedSubstr string
	}{
		{
			name:           "invalid JSON",
			body:           `not a json`,
			service:        &fakeAuthService{},
			expectedCode:   http.StatusBadRequest,
			expectedSubstr: "invalid request body",
		},
		{
			name:           "weak password",
			body:           `{"username":"alice","password":"12345"}`,
			service:        &fakeAuthService{registerErr: service.ErrWeakPassword},
			expectedCode:   http.StatusBadRequest,
			expectedSubstr: "password",
		},
		{
			name:           "empty username",
			body:           `{"username":"","password":"secret1"}`,
			service:        &fakeAuthService{registerErr: service.ErrEmptyUsername},
			expectedCode:   http.StatusBadRequest,
			expectedSubstr: "username",
		},
		{
			name:           "duplicate username",
			body:           `{"username":"alice","password":"secret1"}`,
			service:        &fakeAuthService{registerErr: repository.ErrConflict},
			expectedCode:   http.StatusBadRequest,
			expectedSubstr: "already registered",
		},
		{
			name:           "store failure",
			body:           `{"username":"alice","password":"secret1"}`,
			service:        &fakeAuthService{registerErr: errors.New("disk on fire")},
			expectedCode:   http.StatusInternalServerError,
			expectedSubstr: "internal error",
		},
		{
			name:           "success",
			body:           `{"username":"alice","password":"secret1"}`,
			service:        &fakeAuthService{},
			expectedCode:   http.StatusCreated,
			expectedSubstr: "registered successfully",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest("POST", "/auth/register", bytes.NewBufferString(tt.body))
			h := &AuthHandler{Auth: tt.service, Tokens: &fakeTokenIssuer{}, Logger: zap.NewNop()}

			h.Register(rec, req)

			if rec.Code != tt.expectedCode {
				t.Errorf("status = %d, want %d", rec.Code, tt.expectedCode)
			}
			if !strings.Contains(rec.Body.String(), tt.expectedSubstr) {
				t.Errorf("body %q does not contain %q", rec.Body.String(), tt.expectedSubstr)
			}
		})
	}
}

func TestAuthHandler_Login(t *testing.T) {
	tests := []struct {
		name         string
		body         string
		auth         *fakeAuthService
		tokens       *fakeTokenIssuer
		expectedCode int
	}{
		{
			name:         "invalid JSON",
			body:         `{{`,
			auth:         &fakeAuthService{},
			tokens:       &fakeTokenIssuer{},
			expectedCode: http.StatusBadRequest,
		},
		{
			name:         "bad credentials",
			body:         `{"username":"alice","password":"wrong"}`,
			auth:         &fakeAuthService{verifyReturn: false},
			tokens:       &fakeTokenIssuer{},
			expectedCode: http.StatusUnauthorized,
		},
		{
			name:         "issuer failure",
			body:         `{"username":"alice","password":"secret1"}`,
			auth:         &fakeAuthService{verifyReturn: true},
			tokens:       &fakeTokenIssuer{issueErr: errors.New("no key")},
			expectedCode: http.StatusInternalServerError,
		},
		{
			name:         "success",
			body:         `{"username":"alice","password":"secret1"}`,
			auth:         &fakeAuthService{verifyReturn: true},
			tokens:       &fakeTokenIssuer{token: "tok123"},
			expectedCode: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest("POST", "/auth/login", bytes.NewBufferString(tt.body))
			h := &AuthHandler{Auth: tt.auth, Tokens: tt.tokens, Logger: zap.NewNop()}

			h.Login(rec, req)

			if rec.Code != tt.expectedCode {
				t.Errorf("status = %d, want %d", rec.Code, tt.expectedCode)
			}
			if tt.expectedCode == http.StatusOK {
				var resp struct {
					Token     string `json:"token"`
					TokenType string `json:"token_type"`
					ExpiresIn int64  `json:"expires_in"`
				}
				if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
					t.Fatalf("invalid response JSON: %v", err)
				}
				if resp.Token != "tok123" {
					t.Errorf("token = %q, want %q", resp.Token, "tok123")
				}
				if resp.TokenType != "bearer" {
					t.Errorf("token_type = %q, want bearer", resp.TokenType)
				}
				if resp.ExpiresIn != 3600 {
					t.Errorf("expires_in = %d, want 3600", resp.ExpiresIn)
				}
			}
		})
	}
}
