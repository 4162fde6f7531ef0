package api

import (
	"encoding/json"
	"net/http"
)

// maxShutdownReason caps the free-text reason recorded for a shutdown.
const maxShutdownReason = 128

type shutdownRequest struct {
	Reason string `json:"reason"`
}

// handleShutdown broadcasts an emergency shutdown command to
// downstream control hardware over MQTT. Without a broker the request
// is acknowledged and logged only.
//
// POST /api/v1/actions/shutdown
func (s *Server) handleShutdown(w http.ResponseWriter, r *http.Request) {
	req := shutdownRequest{Reason: "manual"}
	//nolint:errcheck // missing or invalid body keeps the default reason
	json.NewDecoder(r.Body).Decode(&req)
	if req.Reason == "" {
		req.Reason = "manual"
	}
	if len(req.Reason) > maxShutdownReason {
		req.Reason = req.Reason[:maxShutdownReason]
	}

	identity := identityFrom(r.Context())
	s.logger.Warn("emergency shutdown requested",
		"user_id", identity.ID,
		"reason", req.Reason)

	if s.mqtt != nil {
		if err := s.mqtt.PublishShutdown(r.Context(), req.Reason); err != nil {
			s.logger.Error("publishing shutdown command failed", "error", err)
			writeInternalError(w)
			return
		}
	}

	writeOK(w, map[string]any{
		"message": "Shutdown sequence initiated",
		"reason":  req.Reason,
	})
}
