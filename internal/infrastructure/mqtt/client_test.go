package mqtt

import (
	"strings"
	"testing"
)

func TestTopics(t *testing.T) {
	topics := Topics{}

	if got := topics.AnomalyAlert(42); got != "voltguard/alerts/anomaly/42" {
		t.Errorf("AnomalyAlert(42) = %q", got)
	}
	if got := topics.ShutdownCommand(); got != "voltguard/command/shutdown" {
		t.Errorf("ShutdownCommand() = %q", got)
	}
	if got := topics.SystemStatus(); got != "voltguard/system/status" {
		t.Errorf("SystemStatus() = %q", got)
	}
}

func TestStatusPayloads(t *testing.T) {
	online := buildOnlinePayload("voltguard-core")
	if !strings.Contains(online, `"status":"online"`) || !strings.Contains(online, "voltguard-core") {
		t.Errorf("online payload = %s", online)
	}

	offline := buildOfflinePayload("voltguard-core")
	if !strings.Contains(offline, `"status":"offline"`) || !strings.Contains(offline, "graceful_shutdown") {
		t.Errorf("offline payload = %s", offline)
	}
}

func TestPublishValidation(t *testing.T) {
	c := &Client{}

	if err := c.Publish("", []byte("x"), 0, false); err != ErrInvalidTopic {
		t.Errorf("empty topic error = %v, want ErrInvalidTopic", err)
	}

	big := make([]byte, maxPayloadSize+1)
	if err := c.Publish("voltguard/test", big, 0, false); err == nil {
		t.Error("oversized payload should be rejected")
	}
}
