// Package repository provides credential persistence for the backend
// services. The store is in-memory and lives for the process lifetime;
// there is deliberately no database behind it.
package repository

import (
	"errors"
	"sync"
)

// ErrConflict is returned when registering a username that already exists.
var ErrConflict = errors.New("username already registered")

// CredentialStore holds username → password-hash pairs.
type CredentialStore interface {
	// Add stores a password hash for a new username.
	// Returns ErrConflict if the username is already present.
	Add(username, passwordHash string) error
	// Get returns the stored password hash for a username.
	Get(username string) (string, bool)
	// Exists reports whether a username is registered.
	Exists(username string) bool
}

// MemoryCredentialStore is a mutex-guarded in-memory CredentialStore.
// A single instance is shared by every component that validates tokens,
// so subject-existence checks have one source of truth.
type MemoryCredentialStore struct {
	mu    sync.RWMutex
	users map[string]string
}

// NewMemoryCredentialStore returns an empty store.
func NewMemoryCredentialStore() *MemoryCredentialStore {
	return &MemoryCredentialStore{users: make(map[string]string)}
}

// Add inserts the username if absent. The check and the insert happen
// under one lock so concurrent registrations of the same name cannot
// both succeed.
func (s *MemoryCredentialStore) Add(username, passwordHash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[username]; ok {
		return ErrConflict
	}
	s.users[username] = passwordHash
	return nil
}

// Get returns the stored hash for username.
func (s *MemoryCredentialStore) Get(username string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	hash, ok := s.users[username]
	return hash, ok
}

// Exists reports whether username is registered.
func (s *MemoryCredentialStore) Exists(username string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.users[username]
	return ok
}
