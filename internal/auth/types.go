package auth

import (
	"errors"
	"time"
)

// User represents a registered account. A user owns zero or more sensors
// and, transitively, their readings and anomalies.
type User struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // never serialised
	CreatedAt    time.Time `json:"created_at"`
}

// Identity is the authenticated caller attached to a request context
// after token validation.
type Identity struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
}

// Sentinel errors for auth operations.
var (
	ErrEmailExists        = errors.New("email already registered")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenInvalid       = errors.New("invalid token")
	ErrMissingCredentials = errors.New("missing credentials")
)
