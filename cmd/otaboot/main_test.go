package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/kestrelworks/otaboot/internal/agent"
)

// TestRun_InvalidConfig verifies run fails with an invalid config path.
func TestRun_InvalidConfig(t *testing.T) {
	t.Setenv("OTABOOT_CONFIG", "/nonexistent/path/config.yaml")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := run(ctx); err == nil {
		t.Fatal("run() should fail with invalid config path")
	}
}

// TestRun_InvalidWifiConfig verifies run fails config validation before
// touching the network.
func TestRun_InvalidWifiConfig(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "test-config.yaml")

	// Missing SSID fails validation.
	configContent := `
device:
  id: test-device

wifi:
  interface: wlan0
  ssid: ""
  max_retries: 10
  retry_delay_ms: 500

mqtt:
  broker:
    host: "127.0.0.1"
    port: 1883

influxdb:
  enabled: false

logging:
  level: info
  format: text
  output: stdout
`
	if err := os.WriteFile(configPath, []byte(configContent), 0600); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}
	t.Setenv("OTABOOT_CONFIG", configPath)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := run(ctx); err == nil {
		t.Fatal("run() should fail with empty wifi ssid")
	}
}

// TestGetConfigPath_Default verifies the default config path.
func TestGetConfigPath_Default(t *testing.T) {
	t.Setenv("OTABOOT_CONFIG", "")

	path := getConfigPath()
	if path != defaultConfigPath {
		t.Errorf("getConfigPath() = %q, want %q", path, defaultConfigPath)
	}
}

// TestGetConfigPath_EnvOverride verifies environment variable override.
func TestGetConfigPath_EnvOverride(t *testing.T) {
	expected := "/custom/path/config.yaml"
	t.Setenv("OTABOOT_CONFIG", expected)

	if path := getConfigPath(); path != expected {
		t.Errorf("getConfigPath() = %q, want %q", path, expected)
	}
}

// TestTelemetryCallback_NilClient verifies the telemetry fan-out leg
// tolerates both a nil client and an unbound context ref.
func TestTelemetryCallback_NilClient(t *testing.T) {
	cb := telemetryCallback(nil)

	// Unbound ref: must not panic.
	cb(agent.ReasonStateChange, 0, &agent.ContextRef{})
}
