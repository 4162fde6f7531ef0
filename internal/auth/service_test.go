package auth

import (
	"context"
	"errors"
	"testing"
)

func testService(t *testing.T) *Service {
	t.Helper()
	return NewService(NewUserRepository(testDB(t)))
}

func TestServiceRegister(t *testing.T) {
	svc := testService(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, "  Alice@Example.COM ", "secret123")
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if user.Email != "alice@example.com" {
		t.Errorf("email should be trimmed and lowercased, got %q", user.Email)
	}
	if user.PasswordHash == "secret123" || user.PasswordHash == "" {
		t.Error("password must be stored hashed")
	}

	// Case-insensitive duplicate
	if _, err := svc.Register(ctx, "ALICE@example.com", "other"); !errors.Is(err, ErrEmailExists) {
		t.Errorf("duplicate Register() error = %v, want ErrEmailExists", err)
	}
}

func TestServiceRegisterMissingCredentials(t *testing.T) {
	svc := testService(t)
	ctx := context.Background()

	tests := []struct {
		name     string
		email    string
		password string
	}{
		{"empty email", "", "pass"},
		{"empty password", "dave@example.com", ""},
		{"both empty", "", ""},
		{"whitespace email", "   ", "pass"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Register(ctx, tt.email, tt.password)
			if !errors.Is(err, ErrMissingCredentials) {
				t.Errorf("Register() error = %v, want ErrMissingCredentials", err)
			}
		})
	}
}

func TestServiceAuthenticate(t *testing.T) {
	svc := testService(t)
	ctx := context.Background()

	if _, err := svc.Register(ctx, "erin@example.com", "hunter2hunter2"); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	user, err := svc.Authenticate(ctx, "Erin@Example.com", "hunter2hunter2")
	if err != nil {
		t.Fatalf("Authenticate() error = %v", err)
	}
	if user.Email != "erin@example.com" {
		t.Errorf("Authenticate() email = %q, want erin@example.com", user.Email)
	}

	// Unknown account and bad password are indistinguishable
	if _, err := svc.Authenticate(ctx, "erin@example.com", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("bad password error = %v, want ErrInvalidCredentials", err)
	}
	if _, err := svc.Authenticate(ctx, "nobody@example.com", "hunter2hunter2"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("unknown email error = %v, want ErrInvalidCredentials", err)
	}
}
