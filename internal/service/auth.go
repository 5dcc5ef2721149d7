// Package service provides authentication business logic,
// delegating credential persistence to a repository.CredentialStore.
package service

import (
	"errors"
	"fmt"

	"github.com/OWSqix/sovity-ce-local-demo-datasource-and-datasink/internal/repository"
	"golang.org/x/crypto/bcrypt"
)

// MinPasswordLength is the registration policy minimum.
const MinPasswordLength = 6

var (
	// ErrWeakPassword is returned for passwords below MinPasswordLength.
	ErrWeakPassword = fmt.Errorf("password must be at least %d characters", MinPasswordLength)
	// ErrEmptyUsername is returned when the username is missing.
	ErrEmptyUsername = errors.New("username is required")
)

// dummyHash is a bcrypt hash compared against when the username is
// unknown, so that Verify burns roughly the same time for unknown
// users as for wrong passwords.
var dummyHash = func() []byte {
	h, err := bcrypt.GenerateFromPassword([]byte("placeholder"), bcrypt.DefaultCost)
	if err != nil {
		panic(err)
	}
	return h
}()

// AuthService registers users and verifies their passwords.
type AuthService struct {
	store repository.CredentialStore
}

// NewAuthService constructs an AuthService backed by the given store.
func NewAuthService(store repository.CredentialStore) *AuthService {
	return &AuthService{store: store}
}

// Register validates the username and password, hashes the password
// with bcrypt, and stores the hash. The plaintext is never retained.
// Returns ErrEmptyUsername, ErrWeakPassword, or repository.ErrConflict
// for a duplicate username.
func (s *AuthService) Register(username, password string) error {
	if username == "" {
		return ErrEmptyUsername
	}
	if len(password) < MinPasswordLength {
		return ErrWeakPassword
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	return s.store.Add(username, string(hash))
}

// Verify reports whether password matches the stored hash for username.
// bcrypt's comparison is constant-time over the hash; unknown usernames
// still pay for one comparison against a fixed dummy hash.
func (s *AuthService) Verify(username, password string) bool {
	hash, ok := s.store.Get(username)
	if !ok {
		_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
