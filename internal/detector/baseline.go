package detector

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/voltguard/voltguard-core/internal/infrastructure/config"
)

// Channels is the number of measurement channels per reading row.
const Channels = 3

// ErrNoData is returned when a fit or diagnosis is attempted on an
// empty dataset.
var ErrNoData = errors.New("no data")

// Row is a single three-channel reading.
type Row [Channels]float64

// RowScore is the statistical engine's verdict for one row.
type RowScore struct {
	Score   float64
	Outlier bool
}

// Alert is a single anomaly raised during a diagnosis.
type Alert struct {
	Timestamp   float64 `json:"timestamp"`
	Index       int     `json:"index"`
	Score       float64 `json:"score"`
	Explanation string  `json:"explanation"`
}

// Diagnosis summarizes a batch scored against the baseline.
type Diagnosis struct {
	Detected  int     `json:"detected"`
	Anomalies []Alert `json:"anomalies"`
	MaxScore  float64 `json:"max_score"`
	MeanScore float64 `json:"mean_score"`
}

// Report holds aggregate statistics over a batch of readings. It is a
// pure aggregation; the model is not involved.
type Report struct {
	ConsumptionKWh float64 `json:"consumption_kwh"`
	PeakValue      float64 `json:"peak_value"`
	AvgValue       float64 `json:"avg_value"`
	Samples        int     `json:"samples"`
}

// ExplanationOutlier is attached to anomalies raised by the
// statistical engine.
const ExplanationOutlier = "statistical outlier relative to baseline"

// Baseline scores batches of rows against a fitted per-channel
// Gaussian reference. A row's score is the root mean square of its
// per-channel z values; the outlier cutoff is the empirical
// (1 - contamination) quantile of the fitting data's scores, fixed at
// fit time.
//
// One instance is shared process-wide. Score and Diagnose take a read
// lock; Fit takes the write lock and replaces the model atomically.
type Baseline struct {
	mu sync.RWMutex

	mean   [Channels]float64
	stddev [Channels]float64
	cutoff float64

	contamination float64
	fittedOn      int
	now           func() float64

	recent []Alert
}

// recentAlertsCap bounds the in-memory alert history; RecentAlerts
// serves a window from its tail.
const recentAlertsCap = 100

// defaultRecentAlerts is the window served when no limit is given.
const defaultRecentAlerts = 10

// NewBaseline creates a baseline model fitted against synthetic normal
// usage (cfg.BaselineSamples rows drawn from N(100, 10) with the
// configured seed).
func NewBaseline(cfg config.Detector, now func() float64) *Baseline {
	b := &Baseline{
		contamination: cfg.Contamination,
		now:           now,
	}
	// Fit cannot fail here: the synthetic set is never empty.
	_ = b.Fit(SyntheticBaseline(cfg.BaselineSamples, cfg.Seed)) //nolint:errcheck
	return b
}

// Fit replaces the fitted model with one derived from rows. Prior
// state is discarded, not merged. An empty dataset yields ErrNoData
// and leaves the current model untouched.
func (b *Baseline) Fit(rows []Row) error {
	if len(rows) == 0 {
		return ErrNoData
	}

	var mean, stddev [Channels]float64
	n := float64(len(rows))
	for _, r := range rows {
		for c := 0; c < Channels; c++ {
			mean[c] += r[c]
		}
	}
	for c := 0; c < Channels; c++ {
		mean[c] /= n
	}
	for _, r := range rows {
		for c := 0; c < Channels; c++ {
			d := r[c] - mean[c]
			stddev[c] += d * d
		}
	}
	for c := 0; c < Channels; c++ {
		stddev[c] = math.Sqrt(stddev[c] / n)
	}

	// Decision boundary: the (1 - contamination) quantile of the
	// fitting data's own scores.
	scores := make([]float64, len(rows))
	for i, r := range rows {
		scores[i] = rowScore(r, mean, stddev)
	}
	sort.Float64s(scores)
	idx := int(math.Ceil(float64(len(scores))*(1-b.contamination))) - 1
	if idx < 0 {
		idx = 0
	}
	if idx >= len(scores) {
		idx = len(scores) - 1
	}
	cutoff := scores[idx]

	b.mu.Lock()
	b.mean = mean
	b.stddev = stddev
	b.cutoff = cutoff
	b.fittedOn = len(rows)
	b.mu.Unlock()
	return nil
}

// Score evaluates a batch against the current model. The returned
// slice is index-aligned with the input.
func (b *Baseline) Score(batch []Row) []RowScore {
	b.mu.RLock()
	defer b.mu.RUnlock()

	out := make([]RowScore, len(batch))
	for i, r := range batch {
		s := rowScore(r, b.mean, b.stddev)
		out[i] = RowScore{Score: s, Outlier: s > b.cutoff}
	}
	return out
}

// Diagnose scores a batch and collects an Alert for every outlier row,
// stamped with the current time.
func (b *Baseline) Diagnose(batch []Row) (*Diagnosis, error) {
	if len(batch) == 0 {
		return nil, ErrNoData
	}

	scores := b.Score(batch)
	d := &Diagnosis{Anomalies: make([]Alert, 0)}
	var sum float64
	for i, rs := range scores {
		sum += rs.Score
		if rs.Score > d.MaxScore {
			d.MaxScore = rs.Score
		}
		if rs.Outlier {
			d.Anomalies = append(d.Anomalies, Alert{
				Timestamp:   b.now(),
				Index:       i,
				Score:       rs.Score,
				Explanation: ExplanationOutlier,
			})
		}
	}
	d.Detected = len(d.Anomalies)
	d.MeanScore = sum / float64(len(scores))

	if d.Detected > 0 {
		b.mu.Lock()
		b.recent = append(b.recent, d.Anomalies...)
		if overflow := len(b.recent) - recentAlertsCap; overflow > 0 {
			b.recent = append(b.recent[:0], b.recent[overflow:]...)
		}
		b.mu.Unlock()
	}
	return d, nil
}

// RecentAlerts returns up to limit alerts from the tail of the
// diagnosis history, oldest first. A non-positive limit uses the
// default window.
func (b *Baseline) RecentAlerts(limit int) []Alert {
	if limit <= 0 {
		limit = defaultRecentAlerts
	}

	b.mu.RLock()
	defer b.mu.RUnlock()

	start := 0
	if len(b.recent) > limit {
		start = len(b.recent) - limit
	}
	out := make([]Alert, len(b.recent)-start)
	copy(out, b.recent[start:])
	return out
}

// GenerateReport computes aggregate statistics over a batch.
func (b *Baseline) GenerateReport(batch []Row) (*Report, error) {
	if len(batch) == 0 {
		return nil, ErrNoData
	}

	r := &Report{Samples: len(batch), PeakValue: math.Inf(-1)}
	for _, row := range batch {
		for c := 0; c < Channels; c++ {
			r.ConsumptionKWh += row[c]
			if row[c] > r.PeakValue {
				r.PeakValue = row[c]
			}
		}
	}
	r.AvgValue = r.ConsumptionKWh / float64(len(batch)*Channels)
	return r, nil
}

// FittedOn reports the size of the dataset behind the current model.
func (b *Baseline) FittedOn() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.fittedOn
}

// Cutoff returns the current outlier decision boundary.
func (b *Baseline) Cutoff() float64 {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.cutoff
}

func rowScore(r Row, mean, stddev [Channels]float64) float64 {
	var sum float64
	for c := 0; c < Channels; c++ {
		z := (r[c] - mean[c]) / math.Max(1e-6, stddev[c])
		sum += z * z
	}
	return math.Sqrt(sum / Channels)
}

// String implements fmt.Stringer for log output.
func (b *Baseline) String() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return fmt.Sprintf("baseline(fitted_on=%d cutoff=%.3f)", b.fittedOn, b.cutoff)
}
