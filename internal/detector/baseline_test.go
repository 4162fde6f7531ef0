package detector

import (
	"errors"
	"math"
	"sync"
	"testing"

	"github.com/voltguard/voltguard-core/internal/infrastructure/config"
)

func testConfig() config.Detector {
	return config.Detector{
		BaselineSamples: 2000,
		Contamination:   0.02,
		Seed:            42,
	}
}

func testBaseline(t *testing.T) *Baseline {
	t.Helper()
	return NewBaseline(testConfig(), func() float64 { return 1700000000 })
}

func TestNewBaselineFitsSynthetic(t *testing.T) {
	b := testBaseline(t)

	if b.FittedOn() != 2000 {
		t.Errorf("FittedOn() = %d, want 2000", b.FittedOn())
	}
	if b.Cutoff() <= 0 {
		t.Errorf("Cutoff() = %v, want > 0", b.Cutoff())
	}
}

func TestBaselineDeterministicAcrossRestarts(t *testing.T) {
	b1 := NewBaseline(testConfig(), func() float64 { return 0 })
	b2 := NewBaseline(testConfig(), func() float64 { return 0 })

	if b1.Cutoff() != b2.Cutoff() {
		t.Errorf("same seed should produce the same cutoff: %v vs %v", b1.Cutoff(), b2.Cutoff())
	}
}

func TestScoreFlagsExtremes(t *testing.T) {
	b := testBaseline(t)

	scores := b.Score([]Row{
		{100, 100, 100}, // dead center of the baseline
		{250, 250, 250}, // far outside
	})

	if scores[0].Outlier {
		t.Errorf("center row flagged as outlier, score=%v cutoff=%v", scores[0].Score, b.Cutoff())
	}
	if !scores[1].Outlier {
		t.Errorf("extreme row not flagged, score=%v cutoff=%v", scores[1].Score, b.Cutoff())
	}
	if scores[1].Score <= scores[0].Score {
		t.Error("more extreme rows should score higher")
	}
	for _, s := range scores {
		if s.Score < 0 || math.IsNaN(s.Score) || math.IsInf(s.Score, 0) {
			t.Errorf("scores must be finite and non-negative, got %v", s.Score)
		}
	}
}

func TestDiagnose(t *testing.T) {
	b := testBaseline(t)

	batch := []Row{
		{100, 100, 100},
		{101, 99, 100},
		{300, 300, 300},
	}
	d, err := b.Diagnose(batch)
	if err != nil {
		t.Fatalf("Diagnose() error = %v", err)
	}

	if d.Detected != len(d.Anomalies) {
		t.Errorf("Detected = %d but %d anomalies listed", d.Detected, len(d.Anomalies))
	}
	if d.Detected < 1 {
		t.Fatal("extreme row should be detected")
	}
	if d.Anomalies[0].Explanation != ExplanationOutlier {
		t.Errorf("explanation = %q", d.Anomalies[0].Explanation)
	}
	if d.Anomalies[0].Timestamp != 1700000000 {
		t.Errorf("alert timestamp = %v, want injected clock value", d.Anomalies[0].Timestamp)
	}
	if d.MaxScore < d.MeanScore {
		t.Errorf("max %v should be >= mean %v", d.MaxScore, d.MeanScore)
	}

	if _, err := b.Diagnose(nil); !errors.Is(err, ErrNoData) {
		t.Errorf("Diagnose(nil) error = %v, want ErrNoData", err)
	}
}

func TestFitReplacesModel(t *testing.T) {
	b := testBaseline(t)

	// Refit around a different center; the old center becomes extreme
	rows := make([]Row, 500)
	for i := range rows {
		rows[i] = Row{20, 20, 20}
	}
	rows[0] = Row{21, 19, 20}
	if err := b.Fit(rows); err != nil {
		t.Fatalf("Fit() error = %v", err)
	}
	if b.FittedOn() != 500 {
		t.Errorf("FittedOn() = %d, want 500", b.FittedOn())
	}

	scores := b.Score([]Row{{100, 100, 100}})
	if !scores[0].Outlier {
		t.Error("old baseline center should be an outlier after refit")
	}
}

func TestFitEmptyKeepsModel(t *testing.T) {
	b := testBaseline(t)
	before := b.Cutoff()

	if err := b.Fit(nil); !errors.Is(err, ErrNoData) {
		t.Fatalf("Fit(nil) error = %v, want ErrNoData", err)
	}
	if b.Cutoff() != before {
		t.Error("failed fit must leave the model untouched")
	}

	// Model still usable
	if got := b.Score([]Row{{100, 100, 100}}); len(got) != 1 {
		t.Fatal("Score() should still work after a failed fit")
	}
}

func TestConcurrentScoreAndFit(t *testing.T) {
	b := testBaseline(t)
	batch := SyntheticBaseline(100, 7)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				b.Score(batch)
			}
		}()
	}
	wg.Add(1)
	go func() {
		defer wg.Done()
		for j := 0; j < 20; j++ {
			if err := b.Fit(batch); err != nil {
				t.Errorf("Fit() error = %v", err)
			}
		}
	}()
	wg.Wait()
}

func TestGenerateReport(t *testing.T) {
	b := testBaseline(t)

	report, err := b.GenerateReport([]Row{
		{1, 2, 3},
		{4, 5, 6},
	})
	if err != nil {
		t.Fatalf("GenerateReport() error = %v", err)
	}

	if report.ConsumptionKWh != 21 {
		t.Errorf("ConsumptionKWh = %v, want 21", report.ConsumptionKWh)
	}
	if report.PeakValue != 6 {
		t.Errorf("PeakValue = %v, want 6", report.PeakValue)
	}
	if report.AvgValue != 3.5 {
		t.Errorf("AvgValue = %v, want 3.5", report.AvgValue)
	}
	if report.Samples != 2 {
		t.Errorf("Samples = %d, want 2", report.Samples)
	}

	if _, err := b.GenerateReport(nil); !errors.Is(err, ErrNoData) {
		t.Errorf("GenerateReport(nil) error = %v, want ErrNoData", err)
	}
}

func TestRecentAlertsWindow(t *testing.T) {
	b := testBaseline(t)

	if got := b.RecentAlerts(0); len(got) != 0 {
		t.Fatalf("fresh model has %d alerts, want 0", len(got))
	}

	// Each diagnosis of one extreme row adds one alert to the history
	for i := 0; i < 15; i++ {
		d, err := b.Diagnose([]Row{{500 + float64(i), 500, 500}})
		if err != nil {
			t.Fatal(err)
		}
		if d.Detected != 1 {
			t.Fatalf("diagnosis %d detected %d anomalies, want 1", i, d.Detected)
		}
	}

	// Default window serves the newest 10, oldest first
	got := b.RecentAlerts(0)
	if len(got) != 10 {
		t.Fatalf("RecentAlerts(0) returned %d alerts, want 10", len(got))
	}
	for i := 1; i < len(got); i++ {
		if got[i].Score < got[i-1].Score {
			t.Errorf("alerts out of order at %d: %v then %v", i, got[i-1].Score, got[i].Score)
		}
	}

	if got := b.RecentAlerts(3); len(got) != 3 {
		t.Errorf("RecentAlerts(3) returned %d alerts, want 3", len(got))
	}
	if got := b.RecentAlerts(100); len(got) != 15 {
		t.Errorf("RecentAlerts(100) returned %d alerts, want 15", len(got))
	}
}

func TestRecentAlertsHistoryBounded(t *testing.T) {
	b := testBaseline(t)

	rows := make([]Row, recentAlertsCap+50)
	for i := range rows {
		rows[i] = Row{900, 900, 900}
	}
	if _, err := b.Diagnose(rows); err != nil {
		t.Fatal(err)
	}

	b.mu.RLock()
	kept := len(b.recent)
	b.mu.RUnlock()
	if kept != recentAlertsCap {
		t.Errorf("history holds %d alerts, want cap %d", kept, recentAlertsCap)
	}
}
