package sensor

import (
	"errors"
	"strings"
)

// Sensor types. The type selects the rule profile used during
// detection and the prevention advice attached to anomalies.
const (
	TypeMeter = "meter"
	TypePhase = "phase"
	TypePlug  = "plug"
)

// ErrSensorNotFound is returned when a sensor does not exist or is
// owned by a different user.
var ErrSensorNotFound = errors.New("sensor not found")

// Sensor is a registered telemetry source owned by a user.
type Sensor struct {
	ID     int64  `json:"id"`
	UserID int64  `json:"-"`
	Name   string `json:"name"`
	Room   string `json:"room"`
	Type   string `json:"type"`
}

// NormalizeType trims a type tag, defaulting empty input to meter.
// Unknown tags are kept as-is; the rule engine maps them onto its
// fallback profile at evaluation time.
func NormalizeType(t string) string {
	t = strings.TrimSpace(t)
	if t == "" {
		return TypeMeter
	}
	return t
}
