package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/OWSqix/sovity-ce-local-demo-datasource-and-datasink/internal/repository"
	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrInvalidToken is returned for tokens whose signature does not
	// verify or that cannot be parsed at all.
	ErrInvalidToken = errors.New("invalid token")
	// ErrTokenExpired is returned for well-signed tokens past their expiry.
	ErrTokenExpired = errors.New("token has expired")
	// ErrUnknownSubject is returned when the token subject is no longer
	// present in the credential store.
	ErrUnknownSubject = errors.New("unknown token subject")
)

// TokenService issues and validates HS256-signed bearer tokens bound
// to a username. Tokens are stateless: validity is recomputed from the
// signature and embedded claims on every call.
type TokenService struct {
	secret []byte
	ttl    time.Duration
	store  repository.CredentialStore
}

// NewTokenService constructs a TokenService. The same secret must be
// used by every service that validates tokens, and store must be the
// shared credential store so subject-existence checks agree everywhere.
func NewTokenService(secret []byte, ttl time.Duration, store repository.CredentialStore) *TokenService {
	return &TokenService{secret: secret, ttl: ttl, store: store}
}

// Issue creates a signed token for username, expiring after the
// configured TTL. It returns the token and its lifetime.
func (s *TokenService) Issue(username string) (string, time.Duration, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   username,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
	})
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", 0, fmt.Errorf("sign token: %w", err)
	}
	return signed, s.ttl, nil
}

// Validate checks the token and returns its subject. Checks run in a
// fixed order: signature first, then expiry, then subject existence.
// No embedded claim is trusted before the signature verifies.
func (s *TokenService) Validate(tokenString string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return "", ErrTokenExpired
	case err != nil:
		return "", ErrInvalidToken
	case !token.Valid:
		return "", ErrInvalidToken
	}
	if claims.Subject == "" || !s.store.Exists(claims.Subject) {
		return "", ErrUnknownSubject
	}
	return claims.Subject, nil
}
