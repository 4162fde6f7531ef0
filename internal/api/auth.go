package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/voltguard/voltguard-core/internal/auth"
)

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Server) tokenTTL() time.Duration {
	return time.Duration(s.secCfg.JWT.TokenTTLDays) * 24 * time.Hour
}

// handleSignup registers a new account and returns a bearer token.
//
// POST /api/v1/auth/signup
func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorCode(w, http.StatusBadRequest, ErrCodeMissingCredentials)
		return
	}

	user, err := s.auth.Register(r.Context(), req.Email, req.Password)
	switch {
	case errors.Is(err, auth.ErrMissingCredentials):
		writeErrorCode(w, http.StatusBadRequest, ErrCodeMissingCredentials)
		return
	case errors.Is(err, auth.ErrEmailExists):
		writeErrorCode(w, http.StatusBadRequest, ErrCodeEmailTaken)
		return
	case err != nil:
		s.logger.Error("signup failed", "error", err)
		writeInternalError(w)
		return
	}

	token, err := auth.IssueToken(user, s.secCfg.JWT.Secret, s.tokenTTL())
	if err != nil {
		s.logger.Error("issuing token failed", "error", err)
		writeInternalError(w)
		return
	}

	writeOK(w, map[string]any{"token": token})
}

// handleLogin verifies credentials and returns a bearer token.
//
// POST /api/v1/auth/login
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorCode(w, http.StatusUnauthorized, ErrCodeInvalidLogin)
		return
	}

	user, err := s.auth.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		writeErrorCode(w, http.StatusUnauthorized, ErrCodeInvalidLogin)
		return
	}

	token, err := auth.IssueToken(user, s.secCfg.JWT.Secret, s.tokenTTL())
	if err != nil {
		s.logger.Error("issuing token failed", "error", err)
		writeInternalError(w)
		return
	}

	writeOK(w, map[string]any{"token": token})
}

// handleMe returns the identity resolved from the bearer token.
//
// GET /api/v1/auth/me
func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	identity := identityFrom(r.Context())
	writeOK(w, map[string]any{
		"user": map[string]any{
			"id":    identity.ID,
			"email": identity.Email,
		},
	})
}
