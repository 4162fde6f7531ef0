package auth

import (
	"context"
	"fmt"
	"strings"
)

// Service implements registration and credential verification on top of
// a UserRepository.
type Service struct {
	users UserRepository
}

// NewService creates an auth service backed by the given repository.
func NewService(users UserRepository) *Service {
	return &Service{users: users}
}

// Register creates a new account. The email is lowercased before storage
// so duplicate checks are case-insensitive.
//
// Returns ErrMissingCredentials for an empty email or password and
// ErrEmailExists for a duplicate registration.
func (s *Service) Register(ctx context.Context, email, password string) (*User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, ErrMissingCredentials
	}

	hash, err := HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	user := &User{
		Email:        email,
		PasswordHash: hash,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Authenticate verifies an email/password pair.
//
// Both an unknown email and a wrong password yield
// ErrInvalidCredentials; a user is never returned on failure.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		// Do not reveal whether the account exists.
		return nil, ErrInvalidCredentials
	}

	ok, err := VerifyPassword(password, user.PasswordHash)
	if err != nil || !ok {
		return nil, ErrInvalidCredentials
	}

	return user, nil
}
