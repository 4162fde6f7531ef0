package telemetry

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"testing"

	"github.com/voltguard/voltguard-core/internal/detector"
	"github.com/voltguard/voltguard-core/internal/infrastructure/config"
	"github.com/voltguard/voltguard-core/internal/sensor"
)

type fakeMirror struct {
	readings  int
	anomalies int
}

func (m *fakeMirror) WriteReading(int64, float64, float64, float64, float64) { m.readings++ }
func (m *fakeMirror) WriteAnomalyScore(int64, float64, float64, string)     { m.anomalies++ }

type fakeAlerts struct {
	published []string
}

func (a *fakeAlerts) PublishAnomalyAlert(_ context.Context, _ int64, _, _ float64, explanation string) error {
	a.published = append(a.published, explanation)
	return nil
}

func testService(t *testing.T, db *sql.DB, mirror ReadingMirror, alerts AlertPublisher) *Service {
	t.Helper()

	model := detector.NewBaseline(config.Detector{
		BaselineSamples: 2000,
		Contamination:   0.02,
		Seed:            42,
	}, func() float64 { return 1700000000 })

	svc := NewService(db,
		sensor.NewRepository(db),
		NewReadingRepository(db),
		NewAnomalyRepository(db),
		model, testLogger(), mirror, alerts)
	svc.now = func() float64 { return 1700000000 }
	return svc
}

func TestIngestRejectsForeignSensor(t *testing.T) {
	db := testDB(t)
	svc := testService(t, db, nil, nil)
	ctx := context.Background()

	sensorID := seedSensor(t, db, 1, "Main", "Kitchen", "meter")

	if _, err := svc.Ingest(ctx, 2, sensorID, []detector.Row{{1, 2, 3}}, nil); !errors.Is(err, sensor.ErrSensorNotFound) {
		t.Errorf("foreign sensor error = %v, want ErrSensorNotFound", err)
	}
	if _, err := svc.Ingest(ctx, 1, 9999, []detector.Row{{1, 2, 3}}, nil); !errors.Is(err, sensor.ErrSensorNotFound) {
		t.Errorf("missing sensor error = %v, want ErrSensorNotFound", err)
	}
}

func TestIngestNormalBatch(t *testing.T) {
	db := testDB(t)
	svc := testService(t, db, nil, nil)
	ctx := context.Background()

	// Readings at the meter profile mean, also unremarkable for the
	// baseline model
	sensorID := seedSensor(t, db, 1, "Main", "Kitchen", "meter")
	result, err := svc.Ingest(ctx, 1, sensorID,
		[]detector.Row{{110, 110, 110}, {112, 108, 110}},
		[]float64{1000, 1001})
	if err != nil {
		t.Fatalf("Ingest() error = %v", err)
	}

	if result.Inserted != 2 {
		t.Errorf("Inserted = %d, want 2", result.Inserted)
	}
	if len(result.Anomalies) != 0 {
		t.Errorf("normal batch produced %d anomalies: %+v", len(result.Anomalies), result.Anomalies)
	}

	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM readings WHERE sensor_id = ?", sensorID).Scan(&count); err != nil {
		t.Fatal(err)
	}
	if count != 2 {
		t.Errorf("persisted %d readings, want 2", count)
	}

	var ts float64
	if err := db.QueryRow("SELECT timestamp FROM readings ORDER BY id LIMIT 1").Scan(&ts); err != nil {
		t.Fatal(err)
	}
	if ts != 1000 {
		t.Errorf("supplied timestamp not used, got %v", ts)
	}
}

func TestIngestFlagsSpikeByBothEngines(t *testing.T) {
	db := testDB(t)
	mirror := &fakeMirror{}
	alerts := &fakeAlerts{}
	svc := testService(t, db, mirror, alerts)
	ctx := context.Background()

	sensorID := seedSensor(t, db, 1, "Main", "Kitchen", "meter")
	result, err := svc.Ingest(ctx, 1, sensorID, []detector.Row{{250, 250, 250}}, nil)
	if err != nil {
		t.Fatalf("Ingest() error = %v", err)
	}

	if result.Inserted != 1 {
		t.Errorf("Inserted = %d, want 1", result.Inserted)
	}
	// The row is an outlier for the baseline and a spike for the rule
	// engine, so one input row yields two anomalies
	if len(result.Anomalies) != 2 {
		t.Fatalf("got %d anomalies, want 2: %+v", len(result.Anomalies), result.Anomalies)
	}

	var ruleAlert *AnomalyAlert
	for i := range result.Anomalies {
		if strings.Contains(result.Anomalies[i].Explanation, "meter") {
			ruleAlert = &result.Anomalies[i]
		}
	}
	if ruleAlert == nil {
		t.Fatal("no rule-engine anomaly mentioning the sensor type")
	}
	if ruleAlert.Score < 2.0 {
		t.Errorf("rule score = %v, want >= 2.0", ruleAlert.Score)
	}

	// Missing timestamps default to the injected clock
	if result.Anomalies[0].Timestamp != 1700000000 {
		t.Errorf("timestamp = %v, want clock default", result.Anomalies[0].Timestamp)
	}

	var stored int
	if err := db.QueryRow("SELECT COUNT(*) FROM anomalies WHERE user_id = 1 AND sensor_id = ?", sensorID).Scan(&stored); err != nil {
		t.Fatal(err)
	}
	if stored != 2 {
		t.Errorf("persisted %d anomalies, want 2", stored)
	}

	// Mirrors fed after commit
	if mirror.readings != 1 || mirror.anomalies != 2 {
		t.Errorf("mirror saw %d readings / %d anomalies, want 1 / 2", mirror.readings, mirror.anomalies)
	}
	if len(alerts.published) != 2 {
		t.Errorf("published %d alerts, want 2", len(alerts.published))
	}
}

func TestTrain(t *testing.T) {
	db := testDB(t)
	svc := testService(t, db, nil, nil)
	ctx := context.Background()

	if _, err := svc.Train(ctx, 1); !errors.Is(err, ErrNoReadings) {
		t.Fatalf("Train() with no data error = %v, want ErrNoReadings", err)
	}

	sensorID := seedSensor(t, db, 1, "Main", "Kitchen", "meter")
	for i := 0; i < 50; i++ {
		seedReading(t, db, 1, sensorID, float64(i), 20, 20, 20)
	}

	n, err := svc.Train(ctx, 1)
	if err != nil {
		t.Fatalf("Train() error = %v", err)
	}
	if n != 50 {
		t.Errorf("trained on %d rows, want 50", n)
	}
	if svc.model.FittedOn() != 50 {
		t.Errorf("model FittedOn = %d, want 50", svc.model.FittedOn())
	}
}

func TestSafetyCheckPersistsUntiedAnomalies(t *testing.T) {
	db := testDB(t)
	svc := testService(t, db, nil, nil)
	ctx := context.Background()

	diagnosis, err := svc.SafetyCheck(ctx, 1)
	if err != nil {
		t.Fatalf("SafetyCheck() error = %v", err)
	}
	// The sample series always carries one injected spike
	if diagnosis.Detected < 1 {
		t.Fatal("sample series spike should be detected")
	}

	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM anomalies WHERE user_id = 1 AND sensor_id IS NULL").Scan(&count); err != nil {
		t.Fatal(err)
	}
	if count != diagnosis.Detected {
		t.Errorf("persisted %d untied anomalies, want %d", count, diagnosis.Detected)
	}
}

func TestSafetyCheckCommitsAtomically(t *testing.T) {
	db := testDB(t)
	svc := testService(t, db, nil, nil)
	ctx := context.Background()

	// Refit far from the sample distribution so every sample row is an
	// outlier, guaranteeing multiple inserts inside one check
	rows := make([]detector.Row, 100)
	for i := range rows {
		rows[i] = detector.Row{1000, 1000, 1000}
	}
	if err := svc.model.Fit(rows); err != nil {
		t.Fatal(err)
	}

	// Reject any insert after the first
	if _, err := db.Exec(`CREATE TRIGGER one_anomaly_only BEFORE INSERT ON anomalies
		WHEN (SELECT COUNT(*) FROM anomalies) >= 1
		BEGIN SELECT RAISE(ABORT, 'insert rejected'); END`); err != nil {
		t.Fatal(err)
	}

	if _, err := svc.SafetyCheck(ctx, 1); err == nil {
		t.Fatal("SafetyCheck() should fail when persistence is rejected")
	}

	// The partial batch must roll back, not remain half committed
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM anomalies").Scan(&count); err != nil {
		t.Fatal(err)
	}
	if count != 0 {
		t.Errorf("failed check left %d anomalies, want 0", count)
	}
}

func TestReport(t *testing.T) {
	svc := testService(t, testDB(t), nil, nil)

	report, err := svc.Report()
	if err != nil {
		t.Fatalf("Report() error = %v", err)
	}
	if report.Samples != 128 {
		t.Errorf("Samples = %d, want 128", report.Samples)
	}
	if report.PeakValue <= report.AvgValue {
		t.Errorf("peak %v should exceed mean %v", report.PeakValue, report.AvgValue)
	}
}
