package telemetry

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math/rand"

	"github.com/voltguard/voltguard-core/internal/auth"
	"github.com/voltguard/voltguard-core/internal/sensor"
)

// Demo account credentials created by SeedDemo.
const (
	DemoEmail    = "demo@voltguard.local"
	DemoPassword = "demo1234"
)

const seedSamples = 10000

// Seeder provisions a demo tenant with sensors and a reading history
// large enough to exercise training and aggregation.
type Seeder struct {
	db      *sql.DB
	users   auth.UserRepository
	sensors sensor.Repository
}

// NewSeeder creates a demo data seeder.
func NewSeeder(db *sql.DB, users auth.UserRepository, sensors sensor.Repository) *Seeder {
	return &Seeder{db: db, users: users, sensors: sensors}
}

// SeedDemo creates the demo user, three meter sensors and roughly ten
// thousand readings with a 2% spike rate. Calling it again reuses the
// existing user and sensors but appends a fresh batch of readings.
func (s *Seeder) SeedDemo(ctx context.Context, now func() float64) (string, error) {
	user, err := s.users.GetByEmail(ctx, DemoEmail)
	if errors.Is(err, auth.ErrUserNotFound) {
		hash, herr := auth.HashPassword(DemoPassword)
		if herr != nil {
			return "", fmt.Errorf("hashing demo password: %w", herr)
		}
		user = &auth.User{Email: DemoEmail, PasswordHash: hash}
		if err := s.users.Create(ctx, user); err != nil {
			return "", err
		}
	} else if err != nil {
		return "", err
	}

	rng := rand.New(rand.NewSource(123))
	rooms := []string{"Kitchen", "Living Room", "Bedroom", "Garage"}

	existing, err := s.sensors.ListByUser(ctx, user.ID)
	if err != nil {
		return "", err
	}
	byName := make(map[string]*sensor.Sensor, len(existing))
	for _, sn := range existing {
		byName[sn.Name] = sn
	}

	var sensors []*sensor.Sensor
	for _, name := range []string{"Main Meter", "HVAC", "Washer"} {
		if sn, ok := byName[name]; ok {
			sensors = append(sensors, sn)
			continue
		}
		sn := &sensor.Sensor{
			UserID: user.ID,
			Name:   name,
			Room:   rooms[rng.Intn(len(rooms))],
			Type:   sensor.TypeMeter,
		}
		if err := s.sensors.Create(ctx, sn); err != nil {
			return "", err
		}
		sensors = append(sensors, sn)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("beginning seed transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO readings (user_id, sensor_id, timestamp, v1, v2, v3)
		 VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return "", fmt.Errorf("preparing seed insert: %w", err)
	}
	defer stmt.Close()

	perSensor := seedSamples / len(sensors)
	for _, sn := range sensors {
		for i := 0; i < perSensor; i++ {
			v1 := 100 + 10*rng.NormFloat64()
			v2 := 100 + 10*rng.NormFloat64()
			v3 := 100 + 10*rng.NormFloat64()
			if rng.Float64() < 0.02 {
				v1, v2, v3 = v1*1.8, v2*1.8, v3*1.8
			}
			if _, err := stmt.ExecContext(ctx, user.ID, sn.ID, now(), v1, v2, v3); err != nil {
				return "", fmt.Errorf("seeding reading: %w", err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("committing seed transaction: %w", err)
	}
	return DemoEmail, nil
}
