package telemetry

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/voltguard/voltguard-core/internal/sensor"
)

// AnomalyRepository defines the interface for anomaly persistence.
type AnomalyRepository interface {
	InsertTx(ctx context.Context, tx *sql.Tx, a *Anomaly) error
	Insert(ctx context.Context, a *Anomaly) error
	ListByUser(ctx context.Context, userID int64, limit int) ([]*AnomalyRecord, error)
}

// SQLiteAnomalyRepository implements AnomalyRepository using SQLite.
type SQLiteAnomalyRepository struct {
	db *sql.DB
}

// NewAnomalyRepository creates a new SQLite-backed anomaly repository.
func NewAnomalyRepository(db *sql.DB) *SQLiteAnomalyRepository {
	return &SQLiteAnomalyRepository{db: db}
}

// InsertTx inserts an anomaly within an existing transaction.
func (r *SQLiteAnomalyRepository) InsertTx(ctx context.Context, tx *sql.Tx, a *Anomaly) error {
	result, err := tx.ExecContext(ctx,
		`INSERT INTO anomalies (user_id, sensor_id, timestamp, score, explanation)
		 VALUES (?, ?, ?, ?, ?)`,
		a.UserID, a.SensorID, a.Timestamp, a.Score, a.Explanation,
	)
	if err != nil {
		return fmt.Errorf("inserting anomaly: %w", err)
	}
	a.ID, _ = result.LastInsertId() //nolint:errcheck // always succeeds on SQLite
	return nil
}

// Insert inserts an anomaly outside any caller-managed transaction.
func (r *SQLiteAnomalyRepository) Insert(ctx context.Context, a *Anomaly) error {
	result, err := r.db.ExecContext(ctx,
		`INSERT INTO anomalies (user_id, sensor_id, timestamp, score, explanation)
		 VALUES (?, ?, ?, ?, ?)`,
		a.UserID, a.SensorID, a.Timestamp, a.Score, a.Explanation,
	)
	if err != nil {
		return fmt.Errorf("inserting anomaly: %w", err)
	}
	a.ID, _ = result.LastInsertId() //nolint:errcheck // always succeeds on SQLite
	return nil
}

// ListByUser returns the user's newest anomalies first, each enriched
// with sensor context via an outer join. Anomalies whose sensor no
// longer resolves fall back to placeholder values, and every record
// carries prevention advice keyed by the sensor type.
func (r *SQLiteAnomalyRepository) ListByUser(ctx context.Context, userID int64, limit int) ([]*AnomalyRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT a.timestamp, a.score, a.explanation, a.sensor_id,
		        s.name, s.type, s.room
		 FROM anomalies a LEFT JOIN sensors s ON a.sensor_id = s.id
		 WHERE a.user_id = ?
		 ORDER BY a.timestamp DESC LIMIT ?`,
		userID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("listing anomalies: %w", err)
	}
	defer rows.Close()

	records := make([]*AnomalyRecord, 0)
	for rows.Next() {
		var rec AnomalyRecord
		var name, typ, room sql.NullString
		if err := rows.Scan(&rec.Timestamp, &rec.Score, &rec.Explanation,
			&rec.SensorID, &name, &typ, &room); err != nil {
			return nil, fmt.Errorf("scanning anomaly: %w", err)
		}

		rec.SensorType = "unknown"
		if typ.Valid && typ.String != "" {
			rec.SensorType = typ.String
		}
		rec.Room = "-"
		if room.Valid && room.String != "" {
			rec.Room = room.String
		}
		rec.SensorName = placeholderName(rec.SensorID)
		if name.Valid && name.String != "" {
			rec.SensorName = name.String
		}
		rec.Advice = sensor.AdviceFor(rec.SensorType)

		records = append(records, &rec)
	}
	return records, rows.Err()
}

func placeholderName(sensorID *int64) string {
	if sensorID == nil {
		return "Sensor"
	}
	return fmt.Sprintf("Sensor %d", *sensorID)
}
