package telemetry

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/voltguard/voltguard-core/internal/detector"
	"github.com/voltguard/voltguard-core/internal/infrastructure/logging"
	"github.com/voltguard/voltguard-core/internal/metrics"
	"github.com/voltguard/voltguard-core/internal/sensor"
)

// ReadingMirror receives a copy of ingested readings and anomaly
// scores for time-series storage. Implementations must be safe to
// call when disabled.
type ReadingMirror interface {
	WriteReading(sensorID int64, timestamp float64, v1, v2, v3 float64)
	WriteAnomalyScore(sensorID int64, timestamp, score float64, explanation string)
}

// AlertPublisher pushes detected anomalies to subscribers.
type AlertPublisher interface {
	PublishAnomalyAlert(ctx context.Context, sensorID int64, timestamp, score float64, explanation string) error
}

// Service orchestrates ingestion, detection, training and
// diagnostics.
type Service struct {
	db        *sql.DB
	sensors   sensor.Repository
	readings  ReadingRepository
	anomalies AnomalyRepository
	model     *detector.Baseline
	logger    *logging.Logger

	// optional mirrors, nil when the backing system is disabled
	mirror ReadingMirror
	alerts AlertPublisher

	now func() float64
}

// NewService creates a telemetry service. mirror and alerts may be
// nil.
func NewService(
	db *sql.DB,
	sensors sensor.Repository,
	readings ReadingRepository,
	anomalies AnomalyRepository,
	model *detector.Baseline,
	logger *logging.Logger,
	mirror ReadingMirror,
	alerts AlertPublisher,
) *Service {
	return &Service{
		db:        db,
		sensors:   sensors,
		readings:  readings,
		anomalies: anomalies,
		model:     model,
		logger:    logger.With("component", "telemetry"),
		mirror:    mirror,
		alerts:    alerts,
		now:       func() float64 { return float64(time.Now().UnixNano()) / 1e9 },
	}
}

// Ingest persists a batch of rows for a sensor and runs both
// detection engines over it.
//
// Rows without a matching entry in timestamps are stamped with the
// current time. The batch, every reading and every anomaly commit in
// one transaction; mirrors are fed only after commit.
func (s *Service) Ingest(ctx context.Context, userID, sensorID int64, rows []detector.Row, timestamps []float64) (*IngestResult, error) {
	sn, err := s.sensors.GetOwned(ctx, sensorID, userID)
	if err != nil {
		return nil, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning ingest transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	stamps := make([]float64, len(rows))
	readings := make([]*Reading, len(rows))
	for i, row := range rows {
		ts := s.now()
		if i < len(timestamps) {
			ts = timestamps[i]
		}
		stamps[i] = ts

		readings[i] = &Reading{
			UserID:    userID,
			SensorID:  sensorID,
			Timestamp: ts,
			V1:        row[0],
			V2:        row[1],
			V3:        row[2],
		}
		if err := s.readings.InsertTx(ctx, tx, readings[i]); err != nil {
			return nil, err
		}
	}

	result := &IngestResult{Inserted: len(rows), Anomalies: make([]AnomalyAlert, 0)}
	var stored []*Anomaly

	// Statistical engine over the whole batch
	baselineFlagged := 0
	for i, rs := range s.model.Score(rows) {
		if !rs.Outlier {
			continue
		}
		a := &Anomaly{
			UserID:      userID,
			SensorID:    &sensorID,
			Timestamp:   stamps[i],
			Score:       rs.Score,
			Explanation: detector.ExplanationOutlier,
		}
		if err := s.anomalies.InsertTx(ctx, tx, a); err != nil {
			return nil, err
		}
		stored = append(stored, a)
		result.Anomalies = append(result.Anomalies, AnomalyAlert{
			Timestamp: a.Timestamp, Score: a.Score, Explanation: a.Explanation,
		})
		baselineFlagged++
	}

	// Rule engine per row, using the sensor's own type
	rulesFlagged := 0
	for i, row := range rows {
		verdict := detector.Evaluate(sn.Type, row)
		if verdict == nil {
			continue
		}
		a := &Anomaly{
			UserID:      userID,
			SensorID:    &sensorID,
			Timestamp:   stamps[i],
			Score:       verdict.Score,
			Explanation: verdict.Explanation,
		}
		if err := s.anomalies.InsertTx(ctx, tx, a); err != nil {
			return nil, err
		}
		stored = append(stored, a)
		result.Anomalies = append(result.Anomalies, AnomalyAlert{
			Timestamp: a.Timestamp, Score: a.Score, Explanation: a.Explanation,
		})
		rulesFlagged++
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing ingest transaction: %w", err)
	}

	metrics.ReadingsIngested.Add(float64(len(rows)))
	metrics.AnomaliesDetected.WithLabelValues(metrics.EngineBaseline).Add(float64(baselineFlagged))
	metrics.AnomaliesDetected.WithLabelValues(metrics.EngineRules).Add(float64(rulesFlagged))

	s.logger.Info("batch ingested",
		"sensor_id", sensorID,
		"rows", len(rows),
		"anomalies", len(result.Anomalies))

	s.mirrorBatch(ctx, readings, stored)
	return result, nil
}

// mirrorBatch forwards committed data to the optional mirrors.
// Mirror failures are logged, never surfaced.
func (s *Service) mirrorBatch(ctx context.Context, readings []*Reading, anomalies []*Anomaly) {
	if s.mirror != nil {
		for _, r := range readings {
			s.mirror.WriteReading(r.SensorID, r.Timestamp, r.V1, r.V2, r.V3)
		}
		for _, a := range anomalies {
			if a.SensorID != nil {
				s.mirror.WriteAnomalyScore(*a.SensorID, a.Timestamp, a.Score, a.Explanation)
			}
		}
	}
	if s.alerts != nil {
		for _, a := range anomalies {
			if a.SensorID == nil {
				continue
			}
			if err := s.alerts.PublishAnomalyAlert(ctx, *a.SensorID, a.Timestamp, a.Score, a.Explanation); err != nil {
				s.logger.Warn("publishing anomaly alert failed", "error", err)
			}
		}
	}
}

// Train refits the baseline model on the user's full reading history.
// Returns the number of rows trained on, or ErrNoReadings when the
// user has no stored data.
func (s *Service) Train(ctx context.Context, userID int64) (int, error) {
	history, err := s.readings.HistoryByUser(ctx, userID)
	if err != nil {
		return 0, err
	}
	if len(history) == 0 {
		return 0, ErrNoReadings
	}

	if err := s.model.Fit(history); err != nil {
		return 0, err
	}
	metrics.ModelRetrains.Inc()
	s.logger.Info("model retrained", "user_id", userID, "rows", len(history))
	return len(history), nil
}

// SafetyCheck diagnoses a synthetic telemetry series against the
// baseline and persists any anomalies for the user, untied to a
// sensor. All anomalies from one check commit in one transaction.
func (s *Service) SafetyCheck(ctx context.Context, userID int64) (*detector.Diagnosis, error) {
	diagnosis, err := s.model.Diagnose(detector.SampleSeries(0))
	if err != nil {
		return nil, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning safety check transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	for _, alert := range diagnosis.Anomalies {
		a := &Anomaly{
			UserID:      userID,
			Timestamp:   alert.Timestamp,
			Score:       alert.Score,
			Explanation: alert.Explanation,
		}
		if err := s.anomalies.InsertTx(ctx, tx, a); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing safety check transaction: %w", err)
	}

	metrics.AnomaliesDetected.WithLabelValues(metrics.EngineBaseline).Add(float64(diagnosis.Detected))
	return diagnosis, nil
}

// RecentAlerts returns the newest alerts raised by model diagnoses.
func (s *Service) RecentAlerts(limit int) []detector.Alert {
	return s.model.RecentAlerts(limit)
}

// Report computes aggregate statistics over a synthetic telemetry
// series.
func (s *Service) Report() (*detector.Report, error) {
	return s.model.GenerateReport(detector.SampleSeries(0))
}
