package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/voltguard/voltguard-core/internal/sensor"
)

type createSensorRequest struct {
	Name string `json:"name"`
	Room string `json:"room"`
	Type string `json:"type"`
}

func sensorJSON(sn *sensor.Sensor) map[string]any {
	return map[string]any{
		"id":   sn.ID,
		"name": sn.Name,
		"room": sn.Room,
		"type": sn.Type,
	}
}

// handleCreateSensor registers a telemetry source for the caller.
//
// POST /api/v1/sensors
func (s *Server) handleCreateSensor(w http.ResponseWriter, r *http.Request) {
	var req createSensorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorCode(w, http.StatusBadRequest, ErrCodeMissingFields)
		return
	}

	name := strings.TrimSpace(req.Name)
	room := strings.TrimSpace(req.Room)
	if name == "" || room == "" {
		writeErrorCode(w, http.StatusBadRequest, ErrCodeMissingFields)
		return
	}

	sn := &sensor.Sensor{
		UserID: identityFrom(r.Context()).ID,
		Name:   name,
		Room:   room,
		Type:   sensor.NormalizeType(req.Type),
	}
	if err := s.sensors.Create(r.Context(), sn); err != nil {
		s.logger.Error("creating sensor failed", "error", err)
		writeInternalError(w)
		return
	}

	writeOK(w, map[string]any{"sensor": sensorJSON(sn)})
}

// handleListSensors lists the caller's sensors.
//
// GET /api/v1/sensors
func (s *Server) handleListSensors(w http.ResponseWriter, r *http.Request) {
	sensors, err := s.sensors.ListByUser(r.Context(), identityFrom(r.Context()).ID)
	if err != nil {
		s.logger.Error("listing sensors failed", "error", err)
		writeInternalError(w)
		return
	}

	out := make([]map[string]any, 0, len(sensors))
	for _, sn := range sensors {
		out = append(out, sensorJSON(sn))
	}
	writeOK(w, map[string]any{"sensors": out})
}

// handleDeleteSensor removes a sensor the caller owns. Its readings
// cascade away; anomalies survive with the sensor reference cleared.
//
// DELETE /api/v1/sensors/{id}
func (s *Server) handleDeleteSensor(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeErrorCode(w, http.StatusNotFound, ErrCodeSensorNotFound)
		return
	}

	err = s.sensors.Delete(r.Context(), id, identityFrom(r.Context()).ID)
	switch {
	case errors.Is(err, sensor.ErrSensorNotFound):
		writeErrorCode(w, http.StatusNotFound, ErrCodeSensorNotFound)
		return
	case err != nil:
		s.logger.Error("deleting sensor failed", "error", err)
		writeInternalError(w)
		return
	}

	writeOK(w, nil)
}
