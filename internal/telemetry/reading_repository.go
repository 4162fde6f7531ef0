package telemetry

import (
	"context"
	"database/sql"
	"fmt"
	"sort"

	"github.com/voltguard/voltguard-core/internal/detector"
)

// ReadingRepository defines the interface for reading persistence.
type ReadingRepository interface {
	InsertTx(ctx context.Context, tx *sql.Tx, r *Reading) error
	ListByUser(ctx context.Context, userID int64, sensorID int64, limit int) ([]*Reading, error)
	HistoryByUser(ctx context.Context, userID int64) ([]detector.Row, error)
	RoomSummaries(ctx context.Context, userID int64, limit int) ([]*RoomSummary, error)
}

// SQLiteReadingRepository implements ReadingRepository using SQLite.
type SQLiteReadingRepository struct {
	db *sql.DB
}

// NewReadingRepository creates a new SQLite-backed reading repository.
func NewReadingRepository(db *sql.DB) *SQLiteReadingRepository {
	return &SQLiteReadingRepository{db: db}
}

// InsertTx inserts a reading within an existing transaction.
func (r *SQLiteReadingRepository) InsertTx(ctx context.Context, tx *sql.Tx, reading *Reading) error {
	result, err := tx.ExecContext(ctx,
		`INSERT INTO readings (user_id, sensor_id, timestamp, v1, v2, v3)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		reading.UserID, reading.SensorID, reading.Timestamp,
		reading.V1, reading.V2, reading.V3,
	)
	if err != nil {
		return fmt.Errorf("inserting reading: %w", err)
	}
	reading.ID, _ = result.LastInsertId() //nolint:errcheck // always succeeds on SQLite
	return nil
}

// ListByUser returns up to limit of the user's most recent readings in
// chronological order (oldest of the window first). A sensorID of 0
// means all sensors.
func (r *SQLiteReadingRepository) ListByUser(ctx context.Context, userID, sensorID int64, limit int) ([]*Reading, error) {
	query := `SELECT id, user_id, sensor_id, timestamp, v1, v2, v3
		FROM readings WHERE user_id = ?`
	args := []any{userID}
	if sensorID != 0 {
		query += " AND sensor_id = ?"
		args = append(args, sensorID)
	}
	query += " ORDER BY timestamp DESC LIMIT ?"
	args = append(args, limit)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing readings: %w", err)
	}
	defer rows.Close()

	readings := make([]*Reading, 0)
	for rows.Next() {
		var rd Reading
		if err := rows.Scan(&rd.ID, &rd.UserID, &rd.SensorID, &rd.Timestamp,
			&rd.V1, &rd.V2, &rd.V3); err != nil {
			return nil, fmt.Errorf("scanning reading: %w", err)
		}
		readings = append(readings, &rd)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Window is selected newest-first; present it oldest-first.
	for i, j := 0, len(readings)-1; i < j; i, j = i+1, j-1 {
		readings[i], readings[j] = readings[j], readings[i]
	}
	return readings, nil
}

// HistoryByUser returns every channel triple the user has ever stored,
// for retraining the baseline model.
func (r *SQLiteReadingRepository) HistoryByUser(ctx context.Context, userID int64) ([]detector.Row, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT v1, v2, v3 FROM readings WHERE user_id = ?", userID)
	if err != nil {
		return nil, fmt.Errorf("loading reading history: %w", err)
	}
	defer rows.Close()

	history := make([]detector.Row, 0)
	for rows.Next() {
		var row detector.Row
		if err := rows.Scan(&row[0], &row[1], &row[2]); err != nil {
			return nil, fmt.Errorf("scanning reading history: %w", err)
		}
		history = append(history, row)
	}
	return history, rows.Err()
}

// RoomSummaries aggregates the user's most recent readings (up to
// limit) by room. Rooms that have sensors but no readings in the
// window still appear with zero counts. Rooms with more sensors sort
// first; ties break on room name.
func (r *SQLiteReadingRepository) RoomSummaries(ctx context.Context, userID int64, limit int) ([]*RoomSummary, error) {
	sensorCounts := make(map[string]int)
	rows, err := r.db.QueryContext(ctx,
		"SELECT room, COUNT(*) FROM sensors WHERE user_id = ? GROUP BY room", userID)
	if err != nil {
		return nil, fmt.Errorf("counting sensors per room: %w", err)
	}
	for rows.Next() {
		var room string
		var count int
		if err := rows.Scan(&room, &count); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scanning sensor count: %w", err)
		}
		sensorCounts[room] = count
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	rows.Close()

	rows, err = r.db.QueryContext(ctx,
		`SELECT s.room, r.timestamp, r.v1, r.v2, r.v3
		 FROM readings r JOIN sensors s ON r.sensor_id = s.id
		 WHERE r.user_id = ?
		 ORDER BY r.timestamp DESC LIMIT ?`,
		userID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("loading recent readings: %w", err)
	}
	defer rows.Close()

	byRoom := make(map[string]*RoomSummary)
	for rows.Next() {
		var room string
		var ts, v1, v2, v3 float64
		if err := rows.Scan(&room, &ts, &v1, &v2, &v3); err != nil {
			return nil, fmt.Errorf("scanning room reading: %w", err)
		}

		entry, ok := byRoom[room]
		if !ok {
			entry = &RoomSummary{Room: room, Sensors: sensorCounts[room]}
			byRoom[room] = entry
		}
		entry.ReadingCount++
		entry.Total += v1 + v2 + v3
		if ts > entry.LastTS {
			entry.LastTS = ts
			entry.Last = [3]float64{v1, v2, v3}
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Sensor-only rooms with no readings in the window
	for room, count := range sensorCounts {
		if _, ok := byRoom[room]; !ok {
			byRoom[room] = &RoomSummary{Room: room, Sensors: count}
		}
	}

	out := make([]*RoomSummary, 0, len(byRoom))
	for _, entry := range byRoom {
		out = append(out, entry)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Sensors != out[j].Sensors {
			return out[i].Sensors > out[j].Sensors
		}
		return out[i].Room < out[j].Room
	})
	return out, nil
}
