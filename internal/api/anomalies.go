package api

import "net/http"

const (
	defaultAnomaliesLimit    = 100
	defaultRoomsLimit        = 1000
	defaultRecentAlertsLimit = 10
)

// handleListAnomalies returns the caller's anomalies newest-first,
// enriched with sensor context and prevention advice.
//
// GET /api/v1/anomalies?limit=
func (s *Server) handleListAnomalies(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", defaultAnomaliesLimit)

	records, err := s.anomalies.ListByUser(r.Context(), identityFrom(r.Context()).ID, limit)
	if err != nil {
		s.logger.Error("listing anomalies failed", "error", err)
		writeInternalError(w)
		return
	}

	writeOK(w, map[string]any{"anomalies": records})
}

// handleRecentAlerts returns the newest alerts from the model's
// diagnosis history. Shared process-wide, like the model itself.
//
// GET /api/v1/alerts/recent?limit=
func (s *Server) handleRecentAlerts(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", defaultRecentAlertsLimit)
	writeJSON(w, http.StatusOK, map[string]any{"alerts": s.telemetry.RecentAlerts(limit)})
}

// handleRoomsSummary aggregates the caller's recent readings by room.
//
// GET /api/v1/rooms/summary?limit=
func (s *Server) handleRoomsSummary(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", defaultRoomsLimit)

	rooms, err := s.readings.RoomSummaries(r.Context(), identityFrom(r.Context()).ID, limit)
	if err != nil {
		s.logger.Error("summarising rooms failed", "error", err)
		writeInternalError(w)
		return
	}

	writeOK(w, map[string]any{"rooms": rooms})
}
