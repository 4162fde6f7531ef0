package api

import (
	"errors"
	"net/http"

	"github.com/voltguard/voltguard-core/internal/detector"
	"github.com/voltguard/voltguard-core/internal/telemetry"
)

// handleTrainModel refits the baseline model on the caller's stored
// reading history.
//
// POST /api/v1/model/train
func (s *Server) handleTrainModel(w http.ResponseWriter, r *http.Request) {
	trained, err := s.telemetry.Train(r.Context(), identityFrom(r.Context()).ID)
	switch {
	case errors.Is(err, telemetry.ErrNoReadings):
		writeErrorCode(w, http.StatusBadRequest, ErrCodeNoData)
		return
	case err != nil:
		s.logger.Error("training model failed", "error", err)
		writeInternalError(w)
		return
	}

	writeOK(w, map[string]any{"trained_on": trained})
}

// handleSafetyCheck diagnoses a synthetic telemetry series and
// persists any anomalies for the caller, untied to a sensor.
//
// POST /api/v1/diagnostics/safety-check
func (s *Server) handleSafetyCheck(w http.ResponseWriter, r *http.Request) {
	diagnosis, err := s.telemetry.SafetyCheck(r.Context(), identityFrom(r.Context()).ID)
	if err != nil {
		s.logger.Error("safety check failed", "error", err)
		writeInternalError(w)
		return
	}

	writeOK(w, map[string]any{"result": diagnosis})
}

// handleReport returns aggregate statistics over a synthetic
// telemetry series.
//
// GET /api/v1/diagnostics/report
func (s *Server) handleReport(w http.ResponseWriter, _ *http.Request) {
	report, err := s.telemetry.Report()
	if err != nil {
		s.logger.Error("generating report failed", "error", err)
		writeInternalError(w)
		return
	}

	writeJSON(w, http.StatusOK, report)
}

// handleSampleSeries returns a synthetic telemetry series for
// frontend charts and offline testing.
//
// GET /api/v1/diagnostics/sample
func (s *Server) handleSampleSeries(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"data": detector.SampleSeries(0),
	})
}
