package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/voltguard/voltguard-core/internal/detector"
	"github.com/voltguard/voltguard-core/internal/sensor"
)

const defaultReadingsLimit = 500

type ingestRequest struct {
	SensorID   int64       `json:"sensor_id"`
	Data       [][]float64 `json:"data"`
	Timestamps []float64   `json:"timestamps"`
}

// handleIngestReadings accepts a batch of rows for one sensor, runs
// both detection engines and returns the inserted count plus any
// anomalies raised.
//
// POST /api/v1/readings
func (s *Server) handleIngestReadings(w http.ResponseWriter, r *http.Request) {
	var req ingestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorCode(w, http.StatusBadRequest, ErrCodeMissingData)
		return
	}
	if req.SensorID == 0 || len(req.Data) == 0 {
		writeErrorCode(w, http.StatusBadRequest, ErrCodeMissingData)
		return
	}

	rows := make([]detector.Row, len(req.Data))
	for i, vec := range req.Data {
		if len(vec) < detector.Channels {
			writeErrorCode(w, http.StatusBadRequest, ErrCodeMissingData)
			return
		}
		rows[i] = detector.Row{vec[0], vec[1], vec[2]}
	}

	result, err := s.telemetry.Ingest(r.Context(),
		identityFrom(r.Context()).ID, req.SensorID, rows, req.Timestamps)
	switch {
	case errors.Is(err, sensor.ErrSensorNotFound):
		writeErrorCode(w, http.StatusNotFound, ErrCodeSensorNotFound)
		return
	case err != nil:
		s.logger.Error("ingesting readings failed", "error", err)
		writeInternalError(w)
		return
	}

	writeOK(w, map[string]any{
		"inserted":  result.Inserted,
		"anomalies": result.Anomalies,
	})
}

// handleListReadings returns a window of the caller's most recent
// readings, oldest first, as [v1, v2, v3, timestamp, sensor_id]
// tuples.
//
// GET /api/v1/readings?sensor_id=&limit=
func (s *Server) handleListReadings(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", defaultReadingsLimit)
	sensorID, _ := strconv.ParseInt(r.URL.Query().Get("sensor_id"), 10, 64) //nolint:errcheck // 0 means all

	readings, err := s.readings.ListByUser(r.Context(),
		identityFrom(r.Context()).ID, sensorID, limit)
	if err != nil {
		s.logger.Error("listing readings failed", "error", err)
		writeInternalError(w)
		return
	}

	out := make([][]float64, 0, len(readings))
	for _, rd := range readings {
		out = append(out, []float64{rd.V1, rd.V2, rd.V3, rd.Timestamp, float64(rd.SensorID)})
	}
	writeOK(w, map[string]any{"data": out})
}

// queryInt parses an integer query parameter with a fallback.
func queryInt(r *http.Request, name string, fallback int) int {
	v, err := strconv.Atoi(r.URL.Query().Get(name))
	if err != nil || v <= 0 {
		return fallback
	}
	return v
}
