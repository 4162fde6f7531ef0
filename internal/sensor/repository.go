package sensor

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// Repository defines the interface for sensor persistence. All reads
// are scoped to a user id so tenants cannot see each other's sensors.
type Repository interface {
	Create(ctx context.Context, s *Sensor) error
	GetOwned(ctx context.Context, id, userID int64) (*Sensor, error)
	ListByUser(ctx context.Context, userID int64) ([]*Sensor, error)
	Delete(ctx context.Context, id, userID int64) error
}

// SQLiteRepository implements Repository using SQLite.
type SQLiteRepository struct {
	db *sql.DB
}

// NewRepository creates a new SQLite-backed sensor repository.
func NewRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// Create inserts a sensor and fills in the generated ID.
func (r *SQLiteRepository) Create(ctx context.Context, s *Sensor) error {
	result, err := r.db.ExecContext(ctx,
		`INSERT INTO sensors (user_id, name, room, type) VALUES (?, ?, ?, ?)`,
		s.UserID, s.Name, s.Room, s.Type,
	)
	if err != nil {
		return fmt.Errorf("creating sensor: %w", err)
	}

	s.ID, _ = result.LastInsertId() //nolint:errcheck // always succeeds on SQLite
	return nil
}

// GetOwned retrieves a sensor by id, but only if it belongs to userID.
// A sensor owned by another user yields ErrSensorNotFound.
func (r *SQLiteRepository) GetOwned(ctx context.Context, id, userID int64) (*Sensor, error) {
	var s Sensor
	err := r.db.QueryRowContext(ctx,
		"SELECT id, user_id, name, room, type FROM sensors WHERE id = ? AND user_id = ?",
		id, userID,
	).Scan(&s.ID, &s.UserID, &s.Name, &s.Room, &s.Type)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSensorNotFound
		}
		return nil, fmt.Errorf("scanning sensor: %w", err)
	}
	return &s, nil
}

// ListByUser returns all sensors owned by a user, oldest first.
func (r *SQLiteRepository) ListByUser(ctx context.Context, userID int64) ([]*Sensor, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, user_id, name, room, type FROM sensors WHERE user_id = ? ORDER BY id",
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing sensors: %w", err)
	}
	defer rows.Close()

	sensors := make([]*Sensor, 0)
	for rows.Next() {
		var s Sensor
		if err := rows.Scan(&s.ID, &s.UserID, &s.Name, &s.Room, &s.Type); err != nil {
			return nil, fmt.Errorf("scanning sensor row: %w", err)
		}
		sensors = append(sensors, &s)
	}
	return sensors, rows.Err()
}

// Delete removes a sensor owned by userID. Readings cascade via the
// foreign key; anomalies keep their rows with sensor_id set to NULL.
func (r *SQLiteRepository) Delete(ctx context.Context, id, userID int64) error {
	result, err := r.db.ExecContext(ctx,
		"DELETE FROM sensors WHERE id = ? AND user_id = ?", id, userID)
	if err != nil {
		return fmt.Errorf("deleting sensor: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting sensor: %w", err)
	}
	if affected == 0 {
		return ErrSensorNotFound
	}
	return nil
}
