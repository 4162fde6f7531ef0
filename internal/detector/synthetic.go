package detector

import "math/rand"

// Parameters of the synthetic steady-state load shape.
const (
	baselineMean   = 100.0
	baselineStdDev = 10.0
)

// SyntheticBaseline generates n rows of synthetic normal usage drawn
// from N(100, 10). The seed makes the dataset, and therefore the
// fitted model, deterministic across restarts.
func SyntheticBaseline(n int, seed int64) []Row {
	if n <= 0 {
		n = 1
	}
	rng := rand.New(rand.NewSource(seed))
	rows := make([]Row, n)
	for i := range rows {
		for c := 0; c < Channels; c++ {
			rows[i][c] = baselineMean + baselineStdDev*rng.NormFloat64()
		}
	}
	return rows
}

// SampleSeries generates a synthetic telemetry series of n rows with
// one injected spike row scaled by 1.8. It stands in for a live feed
// during diagnostics and reporting.
func SampleSeries(n int) []Row {
	if n <= 0 {
		n = 128
	}
	rows := make([]Row, n)
	for i := range rows {
		for c := 0; c < Channels; c++ {
			rows[i][c] = baselineMean + baselineStdDev*rand.NormFloat64()
		}
	}
	spike := rand.Intn(n)
	for c := 0; c < Channels; c++ {
		rows[spike][c] *= 1.8
	}
	return rows
}
