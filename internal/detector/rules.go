package detector

import (
	"fmt"
	"math"
	"strings"
)

// Profile is the expected load shape for one sensor type.
type Profile struct {
	Mean       float64
	StdDev     float64
	ZThreshold float64
}

// Spike/dip bounds relative to the profile mean.
const (
	spikeFactor = 1.6
	dipFactor   = 0.6
)

// ProfileFor returns the rule profile for a sensor type. Unknown types
// get the fallback profile (100, 10, 3.0).
func ProfileFor(sensorType string) Profile {
	switch strings.ToLower(sensorType) {
	case "meter":
		return Profile{Mean: 120, StdDev: 15, ZThreshold: 3.0}
	case "phase":
		return Profile{Mean: 100, StdDev: 10, ZThreshold: 2.5}
	case "plug":
		return Profile{Mean: 20, StdDev: 8, ZThreshold: 2.0}
	default:
		return Profile{Mean: 100, StdDev: 10, ZThreshold: 3.0}
	}
}

// RuleVerdict is the rule engine's result for one row.
type RuleVerdict struct {
	Score       float64
	Explanation string
}

// Evaluate applies the type-aware rule check to a single row. It
// returns nil when the row is within bounds.
//
// A row is anomalous when any channel spikes above mean*1.6, dips
// below mean*0.6, or exceeds the profile's z-threshold. The score is
// the maximum per-channel z.
func Evaluate(sensorType string, row Row) *RuleVerdict {
	p := ProfileFor(sensorType)

	maxV, minV := row[0], row[0]
	var maxZ float64
	exceeded := false
	for c := 0; c < Channels; c++ {
		v := row[c]
		if v > maxV {
			maxV = v
		}
		if v < minV {
			minV = v
		}
		z := math.Abs(v-p.Mean) / math.Max(1e-6, p.StdDev)
		if z > maxZ {
			maxZ = z
		}
		if z > p.ZThreshold {
			exceeded = true
		}
	}

	spike := maxV > p.Mean*spikeFactor
	dip := minV < p.Mean*dipFactor
	if !spike && !dip && !exceeded {
		return nil
	}

	return &RuleVerdict{
		Score:       maxZ,
		Explanation: fmt.Sprintf("Type-aware rule: %s z=%.2f", sensorType, maxZ),
	}
}
