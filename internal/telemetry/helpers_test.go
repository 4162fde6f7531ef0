package telemetry

import (
	"database/sql"
	"os"
	"testing"

	_ "github.com/mattn/go-sqlite3"

	"github.com/voltguard/voltguard-core/internal/infrastructure/config"
	"github.com/voltguard/voltguard-core/internal/infrastructure/logging"
)

func testDB(t *testing.T) *sql.DB {
	t.Helper()

	f, err := os.CreateTemp("", "telemetry-test-*.db")
	if err != nil {
		t.Fatalf("creating temp db: %v", err)
	}
	dbPath := f.Name()
	f.Close()
	t.Cleanup(func() { os.Remove(dbPath) })

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=ON")
	if err != nil {
		t.Fatalf("opening test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	schema := `
		CREATE TABLE users (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			email TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			created_at TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%SZ', 'now'))
		) STRICT;
		CREATE TABLE sensors (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			name TEXT NOT NULL,
			room TEXT NOT NULL,
			type TEXT NOT NULL DEFAULT 'meter'
		) STRICT;
		CREATE TABLE readings (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			sensor_id INTEGER NOT NULL REFERENCES sensors(id) ON DELETE CASCADE,
			timestamp REAL NOT NULL,
			v1 REAL NOT NULL,
			v2 REAL NOT NULL,
			v3 REAL NOT NULL
		) STRICT;
		CREATE TABLE anomalies (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			sensor_id INTEGER REFERENCES sensors(id) ON DELETE SET NULL,
			timestamp REAL NOT NULL,
			score REAL NOT NULL,
			explanation TEXT NOT NULL DEFAULT ''
		) STRICT;
	`
	if _, err := db.Exec(schema); err != nil {
		t.Fatalf("creating schema: %v", err)
	}

	if _, err := db.Exec(
		"INSERT INTO users (email, password_hash) VALUES ('tenant@x.com', 'h'), ('other@x.com', 'h')"); err != nil {
		t.Fatalf("seeding users: %v", err)
	}

	return db
}

func testLogger() *logging.Logger {
	return logging.New(config.Logging{Level: "error", Format: "text", Output: "stderr"}, "test")
}

func seedSensor(t *testing.T, db *sql.DB, userID int64, name, room, typ string) int64 {
	t.Helper()
	result, err := db.Exec(
		"INSERT INTO sensors (user_id, name, room, type) VALUES (?, ?, ?, ?)",
		userID, name, room, typ)
	if err != nil {
		t.Fatalf("seeding sensor %s: %v", name, err)
	}
	id, _ := result.LastInsertId() //nolint:errcheck
	return id
}

func seedReading(t *testing.T, db *sql.DB, userID, sensorID int64, ts, v1, v2, v3 float64) {
	t.Helper()
	if _, err := db.Exec(
		"INSERT INTO readings (user_id, sensor_id, timestamp, v1, v2, v3) VALUES (?, ?, ?, ?, ?, ?)",
		userID, sensorID, ts, v1, v2, v3); err != nil {
		t.Fatalf("seeding reading: %v", err)
	}
}
