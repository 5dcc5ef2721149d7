package service

import (
	"testing"
	"time"

	"github.com/OWSqix/sovity-ce-local-demo-datasource-and-datasink/internal/repository"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTokenFixture builds a TokenService over a store with "alice" registered.
func newTokenFixture(t *testing.T, ttl time.Duration) *TokenService {
	t.Helper()
	store := repository.NewMemoryCredentialStore()
	require.NoError(t, store.Add("alice", "hash"))
	return NewTokenService([]byte("test-secret"), ttl, store)
}

func TestIssueAndValidate(t *testing.T) {
	svc := newTokenFixture(t, time.Hour)

	token, expiresIn, err := svc.Issue("alice")
	require.NoError(t, err)
	assert.Equal(t, time.Hour, expiresIn)
	assert.NotEmpty(t, token)

	subject, err := svc.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, "alice", subject)
}

func TestValidate_TamperedSignature(t *testing.T) {
	svc := newTokenFixture(t, time.Hour)

	token, _, err := svc.Issue("alice")
	require.NoError(t, err)

	// Flip the last byte of the signature segment.
	tampered := token[:len(token)-1]
	if token[len(token)-1] == 'A' {
		tampered += "B"
	} else {
		tampered += "A"
	}

	_, err = svc.Validate(tampered)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidate_WrongSecret(t *testing.T) {
	store := repository.NewMemoryCredentialStore()
	require.NoError(t, store.Add("alice", "hash"))

	issuer := NewTokenService([]byte("secret-a"), time.Hour, store)
	verifier := NewTokenService([]byte("secret-b"), time.Hour, store)

	token, _, err := issuer.Issue("alice")
	require.NoError(t, err)

	_, err = verifier.Validate(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidate_Garbage(t *testing.T) {
	svc := newTokenFixture(t, time.Hour)

	for _, token := range []string{"", "not-a-token", "a.b.c"} {
		_, err := svc.Validate(token)
		assert.ErrorIs(t, err, ErrInvalidToken, "token %q", token)
	}
}

func TestValidate_Expired(t *testing.T) {
	svc := newTokenFixture(t, -time.Minute)

	token, _, err := svc.Issue("alice")
	require.NoError(t, err)

	_, err = svc.Validate(token)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestValidate_UnknownSubject(t *testing.T) {
	// A well-signed, unexpired token whose subject was never registered.
	store := repository.NewMemoryCredentialStore()
	svc := NewTokenService([]byte("test-secret"), time.Hour, store)

	token, _, err := svc.Issue("ghost")
	require.NoError(t, err)

	_, err = svc.Validate(token)
	assert.ErrorIs(t, err, ErrUnknownSubject)
}

func TestValidate_RejectsUnsignedAlgorithm(t *testing.T) {
	svc := newTokenFixture(t, time.Hour)

	unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{
		Subject:   "alice",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})
	token, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = svc.Validate(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
