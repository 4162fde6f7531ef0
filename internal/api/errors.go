package api

import (
	"encoding/json"
	"net/http"
)

// Stable error codes returned in the response envelope.
const (
	ErrCodeMissingCredentials = "missing_credentials"
	ErrCodeEmailTaken         = "email_taken"
	ErrCodeInvalidLogin       = "invalid_login"
	ErrCodeMissingBearerToken = "missing_bearer_token"
	ErrCodeInvalidToken       = "invalid_token"
	ErrCodeMissingFields      = "missing_fields"
	ErrCodeMissingData        = "missing_data"
	ErrCodeSensorNotFound     = "sensor_not_found"
	ErrCodeNoData             = "no_data"
	ErrCodeInternal           = "internal_error"
)

// writeJSON writes a JSON response with the given status code and payload.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		//nolint:errcheck // Best-effort write to response; connection may be closed
		json.NewEncoder(w).Encode(v)
	}
}

// writeOK writes a success envelope; extra fields merge into the
// top-level object alongside "ok".
func writeOK(w http.ResponseWriter, extra map[string]any) {
	body := map[string]any{"ok": true}
	for k, v := range extra {
		body[k] = v
	}
	writeJSON(w, http.StatusOK, body)
}

// writeErrorCode writes a failure envelope with a stable error code.
func writeErrorCode(w http.ResponseWriter, status int, code string) {
	writeJSON(w, status, map[string]any{"ok": false, "error": code})
}

func writeInternalError(w http.ResponseWriter) {
	writeErrorCode(w, http.StatusInternalServerError, ErrCodeInternal)
}
