// Package middleware provides HTTP middlewares for authentication,
// request logging, and rate limiting.
package middleware

import (
	"context"
	"net/http"
	"strings"
)

type ctxKey string

const userKey ctxKey = "user"

// TokenValidator verifies a bearer token and returns its subject.
type TokenValidator interface {
	Validate(token string) (string, error)
}

// BearerAuth enforces bearer-token authentication on every request it
// wraps. All auth failures produce the same 401 body, so callers learn
// nothing about why a token was rejected.
//
// On success the token subject is stored in the request context and
// can be read downstream with GetUsernameFromContext.
func BearerAuth(validator TokenValidator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}
			token := strings.TrimPrefix(header, "Bearer ")
			if token == header || token == "" {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}
			username, err := validator.Validate(token)
			if err != nil {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}
			ctx := context.WithValue(r.Context(), userKey, username)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetUsernameFromContext extracts the authenticated username from the
// request context. Returns an empty string if not found.
func GetUsernameFromContext(ctx context.Context) string {
	val := ctx.Value(userKey)
	if s, ok := val.(string); ok {
		return s
	}
	return ""
}
