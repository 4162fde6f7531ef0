// Package mqtt wraps paho.mqtt.golang for VoltGuard's outbound
// messaging: anomaly alerts, emergency shutdown commands and service
// status.
//
// The client is optional. When the broker is disabled in
// configuration the rest of the system runs without it; callers hold a
// nil *Client and skip publishing. When enabled, the client maintains
// the connection with automatic reconnection and a Last Will message
// so subscribers can detect an unexpected crash.
//
// All methods are safe for concurrent use.
package mqtt
