package mqtt

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// Maximum payload size for MQTT messages (1MB), aligned with typical
// broker limits.
const maxPayloadSize = 1 << 20

// Publish sends a message to the given topic and waits for broker
// acknowledgment at the configured QoS.
func (c *Client) Publish(topic string, payload []byte, qos byte, retained bool) error {
	if topic == "" {
		return ErrInvalidTopic
	}
	if len(payload) > maxPayloadSize {
		return fmt.Errorf("%w: payload size %d exceeds maximum %d bytes",
			ErrPublishFailed, len(payload), maxPayloadSize)
	}
	if !c.IsConnected() {
		return ErrNotConnected
	}

	token := c.client.Publish(topic, qos, retained, payload)
	if !token.WaitTimeout(defaultPublishTimeout) {
		return fmt.Errorf("%w: timeout after %v", ErrPublishFailed, defaultPublishTimeout)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("%w: %w", ErrPublishFailed, err)
	}
	return nil
}

// PublishAnomalyAlert notifies subscribers that an anomaly was
// persisted for a sensor.
func (c *Client) PublishAnomalyAlert(_ context.Context, sensorID int64, timestamp, score float64, explanation string) error {
	payload, err := json.Marshal(map[string]any{
		"sensor_id":   sensorID,
		"timestamp":   timestamp,
		"score":       score,
		"explanation": explanation,
	})
	if err != nil {
		return fmt.Errorf("encoding anomaly alert: %w", err)
	}
	return c.Publish(Topics{}.AnomalyAlert(sensorID), payload, byte(c.cfg.QoS), false)
}

// PublishShutdown broadcasts an emergency shutdown command for
// downstream control hardware. The message is retained so hardware
// reconnecting mid-incident still receives it.
func (c *Client) PublishShutdown(_ context.Context, reason string) error {
	payload, err := json.Marshal(map[string]any{
		"action":    "shutdown",
		"reason":    reason,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		return fmt.Errorf("encoding shutdown command: %w", err)
	}
	return c.Publish(Topics{}.ShutdownCommand(), payload, byte(c.cfg.QoS), true)
}
