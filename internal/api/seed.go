package api

import (
	"net/http"
	"time"
)

// handleSeedDemo provisions the demo tenant: account, sensors and a
// reading history large enough to train against.
//
// POST /api/v1/seed/demo
func (s *Server) handleSeedDemo(w http.ResponseWriter, r *http.Request) {
	if s.seeder == nil {
		writeErrorCode(w, http.StatusNotFound, ErrCodeNoData)
		return
	}

	email, err := s.seeder.SeedDemo(r.Context(), func() float64 {
		return float64(time.Now().UnixNano()) / 1e9
	})
	if err != nil {
		s.logger.Error("seeding demo data failed", "error", err)
		writeInternalError(w)
		return
	}

	writeOK(w, map[string]any{"demo_user": email})
}
