package influxdb

import (
	"errors"
	"testing"
	"time"

	"github.com/voltguard/voltguard-core/internal/infrastructure/config"
)

func TestConnectDisabled(t *testing.T) {
	_, err := Connect(config.InfluxDB{Enabled: false})
	if !errors.Is(err, ErrDisabled) {
		t.Errorf("Connect(disabled) error = %v, want ErrDisabled", err)
	}
}

func TestWriteSkippedWhenDisconnected(t *testing.T) {
	// Zero-value client is disconnected; writes must be silent no-ops
	c := &Client{}

	c.WriteReading(1, 1700000000, 100, 100, 100)
	c.WriteAnomalyScore(1, 1700000000, 3.5, "spike")
	c.Flush()

	if c.IsConnected() {
		t.Error("zero-value client should report disconnected")
	}
}

func TestEpochToTime(t *testing.T) {
	got := epochToTime(1700000000.5)
	want := time.Unix(1700000000, 500000000)
	if !got.Equal(want) {
		t.Errorf("epochToTime() = %v, want %v", got, want)
	}
}
