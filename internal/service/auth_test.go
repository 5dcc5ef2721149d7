package service

import (
	"testing"

	"github.com/OWSqix/sovity-ce-local-demo-datasource-and-datasink/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegister(t *testing.T) {
	tests := []struct {
		name     string
		username string
		password string
		wantErr  error
	}{
		{name: "valid credentials", username: "alice", password: "secret1"},
		{name: "minimum length password", username: "bob", password: "123456"},
		{name: "short password", username: "carol", password: "12345", wantErr: ErrWeakPassword},
		{name: "empty password", username: "dave", password: "", wantErr: ErrWeakPassword},
		{name: "empty username", username: "", password: "secret1", wantErr: ErrEmptyUsername},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewAuthService(repository.NewMemoryCredentialStore())
			err := s.Register(tt.username, tt.password)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestRegister_Duplicate(t *testing.T) {
	s := NewAuthService(repository.NewMemoryCredentialStore())

	require.NoError(t, s.Register("alice", "secret1"))
	assert.ErrorIs(t, s.Register("alice", "another1"), repository.ErrConflict)
}

func TestRegister_StoresHashNotPlaintext(t *testing.T) {
	store := repository.NewMemoryCredentialStore()
	s := NewAuthService(store)

	require.NoError(t, s.Register("alice", "secret1"))

	hash, ok := store.Get("alice")
	require.True(t, ok)
	assert.NotEqual(t, "secret1", hash)
	assert.NotContains(t, hash, "secret1")
}

func TestVerify(t *testing.T) {
	s := NewAuthService(repository.NewMemoryCredentialStore())
	require.NoError(t, s.Register("alice", "secret1"))

	assert.True(t, s.Verify("alice", "secret1"))
	assert.False(t, s.Verify("alice", "secret2"))
	assert.False(t, s.Verify("alice", ""))
	assert.False(t, s.Verify("bob", "secret1"))
}
