// Package models defines the wire-level request and response types of
// the backend API.
package models

// RegisterRequest is the JSON payload for POST /auth/register.
type RegisterRequest struct {
	// Username is the login name chosen by the user.
	Username string `json:"username"`
	// Password is the plaintext password; it is hashed before storage.
	Password string `json:"password"`
}

// LoginRequest is the JSON payload for POST /auth/login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse carries the issued bearer token.
type LoginResponse struct {
	// Token is the signed bearer token.
	Token string `json:"token"`
	// TokenType is always "bearer".
	TokenType string `json:"token_type"`
	// ExpiresIn is the token lifetime in seconds.
	ExpiresIn int64 `json:"expires_in"`
}

// MkdirRequest is the JSON payload for POST /files/mkdir.
type MkdirRequest struct {
	// Path is the new directory, relative to the sandbox root.
	Path string `json:"path"`
}

// Message is the generic acknowledgement body.
type Message struct {
	Msg string `json:"msg"`
}
