package telemetry

import (
	"context"
	"testing"

	"github.com/voltguard/voltguard-core/internal/auth"
	"github.com/voltguard/voltguard-core/internal/sensor"
)

func TestSeedDemo(t *testing.T) {
	db := testDB(t)
	users := auth.NewUserRepository(db)
	seeder := NewSeeder(db, users, sensor.NewRepository(db))
	ctx := context.Background()
	clock := func() float64 { return 1700000000 }

	email, err := seeder.SeedDemo(ctx, clock)
	if err != nil {
		t.Fatalf("SeedDemo() error = %v", err)
	}
	if email != DemoEmail {
		t.Errorf("email = %q, want %q", email, DemoEmail)
	}

	user, err := users.GetByEmail(ctx, DemoEmail)
	if err != nil {
		t.Fatalf("demo user not created: %v", err)
	}

	ok, err := auth.VerifyPassword(DemoPassword, user.PasswordHash)
	if err != nil || !ok {
		t.Errorf("demo password should verify, ok=%v err=%v", ok, err)
	}

	sensors, err := sensor.NewRepository(db).ListByUser(ctx, user.ID)
	if err != nil {
		t.Fatalf("listing demo sensors: %v", err)
	}
	if len(sensors) != 3 {
		t.Fatalf("got %d sensors, want 3", len(sensors))
	}
	for _, sn := range sensors {
		if sn.Type != sensor.TypeMeter {
			t.Errorf("sensor %s type = %q, want meter", sn.Name, sn.Type)
		}
	}

	var readings int
	if err := db.QueryRow("SELECT COUNT(*) FROM readings WHERE user_id = ?", user.ID).Scan(&readings); err != nil {
		t.Fatal(err)
	}
	if readings < 9000 {
		t.Errorf("seeded %d readings, want about 10000", readings)
	}
}

func TestSeedDemoIdempotentUserAndSensors(t *testing.T) {
	db := testDB(t)
	users := auth.NewUserRepository(db)
	seeder := NewSeeder(db, users, sensor.NewRepository(db))
	ctx := context.Background()
	clock := func() float64 { return 1700000000 }

	if _, err := seeder.SeedDemo(ctx, clock); err != nil {
		t.Fatalf("first SeedDemo() error = %v", err)
	}
	if _, err := seeder.SeedDemo(ctx, clock); err != nil {
		t.Fatalf("second SeedDemo() error = %v", err)
	}

	user, err := users.GetByEmail(ctx, DemoEmail)
	if err != nil {
		t.Fatal(err)
	}
	sensors, err := sensor.NewRepository(db).ListByUser(ctx, user.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(sensors) != 3 {
		t.Errorf("reseeding duplicated sensors: got %d, want 3", len(sensors))
	}
}
