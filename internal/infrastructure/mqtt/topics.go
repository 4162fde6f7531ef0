package mqtt

import "fmt"

// Topic prefixes for the VoltGuard MQTT hierarchy.
const (
	// TopicPrefix is the base for all VoltGuard topics.
	TopicPrefix = "voltguard"

	// TopicPrefixSystem is the base for service status topics.
	TopicPrefixSystem = "voltguard/system"
)

// Topics provides builders for VoltGuard MQTT topics. Using these
// helpers keeps topic naming consistent across publishers and
// subscribers.
type Topics struct{}

// AnomalyAlert returns the topic for anomaly notifications from one
// sensor.
//
// Example: voltguard/alerts/anomaly/42
func (Topics) AnomalyAlert(sensorID int64) string {
	return fmt.Sprintf("%s/alerts/anomaly/%d", TopicPrefix, sensorID)
}

// ShutdownCommand returns the topic emergency shutdown requests are
// published on for downstream control hardware.
func (Topics) ShutdownCommand() string {
	return TopicPrefix + "/command/shutdown"
}

// SystemStatus returns the retained topic carrying the service's
// online/offline status.
func (Topics) SystemStatus() string {
	return TopicPrefixSystem + "/status"
}
