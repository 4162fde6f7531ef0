package telemetry

import (
	"errors"

	"github.com/voltguard/voltguard-core/internal/detector"
)

// ErrNoReadings is returned when an operation needs stored readings
// and the user has none.
var ErrNoReadings = errors.New("no readings recorded")

// Reading is one persisted three-channel measurement.
type Reading struct {
	ID        int64
	UserID    int64
	SensorID  int64
	Timestamp float64
	V1        float64
	V2        float64
	V3        float64
}

// Row returns the reading's channel values as a detector row.
func (r *Reading) Row() detector.Row {
	return detector.Row{r.V1, r.V2, r.V3}
}

// Anomaly is one persisted detection result. SensorID is nil for
// anomalies raised by ad-hoc diagnostics that are not tied to a
// stored sensor.
type Anomaly struct {
	ID          int64
	UserID      int64
	SensorID    *int64
	Timestamp   float64
	Score       float64
	Explanation string
}

// AnomalyRecord is an anomaly enriched with sensor context and advice
// for listing. Placeholder values stand in when the sensor record no
// longer resolves.
type AnomalyRecord struct {
	Timestamp   float64 `json:"timestamp"`
	Score       float64 `json:"score"`
	Explanation string  `json:"explanation"`
	SensorID    *int64  `json:"sensor_id"`
	SensorName  string  `json:"sensor_name"`
	SensorType  string  `json:"sensor_type"`
	Room        string  `json:"room"`
	Advice      string  `json:"advice"`
}

// RoomSummary aggregates a room's recent readings.
type RoomSummary struct {
	Room         string     `json:"room"`
	Sensors      int        `json:"sensors"`
	ReadingCount int        `json:"reading_count"`
	Total        float64    `json:"total"`
	Last         [3]float64 `json:"last"`
	LastTS       float64    `json:"last_ts"`
}

// AnomalyAlert is the per-anomaly shape returned from an ingest call.
type AnomalyAlert struct {
	Timestamp   float64 `json:"timestamp"`
	Score       float64 `json:"score"`
	Explanation string  `json:"explanation"`
}

// IngestResult summarizes one ingested batch.
type IngestResult struct {
	Inserted  int            `json:"inserted"`
	Anomalies []AnomalyAlert `json:"anomalies"`
}
