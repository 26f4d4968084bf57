package influxdb

import (
	"context"
	"errors"
	"testing"

	"github.com/kestrelworks/otaboot/internal/infrastructure/config"
)

func TestConnectDisabled(t *testing.T) {
	_, err := Connect(config.InfluxDBConfig{Enabled: false}, "device-001")
	if !errors.Is(err, ErrDisabled) {
		t.Errorf("Connect() error = %v, want ErrDisabled", err)
	}
}

func TestNilClientIsSafe(t *testing.T) {
	var c *Client

	if c.IsConnected() {
		t.Error("nil client reports connected")
	}

	// Every write must be a silent no-op.
	c.WriteBootPhase("wifi_connecting", true)
	c.WriteConnectAttempt(3, false)
	c.WriteAgentEvent("ctx-1", "state_change", "waiting", 0)
	c.WriteUpdateOutcome("2.0.0", "success", "")
}

func TestDisconnectedClientWritesAreNoOps(t *testing.T) {
	c := &Client{}

	c.WriteBootPhase("agent_starting", true)
	c.WriteAgentEvent("ctx-1", "failure", "downloading", 50)
	c.WriteUpdateOutcome("2.0.0", "failure", "digest mismatch")

	if err := c.HealthCheck(context.Background()); !errors.Is(err, ErrNotConnected) {
		t.Errorf("HealthCheck() error = %v, want ErrNotConnected", err)
	}
}

func TestCloseNilSafe(t *testing.T) {
	c := &Client{}
	if err := c.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
}
