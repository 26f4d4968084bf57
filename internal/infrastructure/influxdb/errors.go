package influxdb

import "errors"

// Sentinel errors for InfluxDB operations.
// Use errors.Is() to check error types.
var (
	// ErrNotConnected indicates the client is not connected to InfluxDB.
	ErrNotConnected = errors.New("influxdb: not connected")

	// ErrConnectionFailed indicates the initial connection attempt failed.
	ErrConnectionFailed = errors.New("influxdb: connection failed")

	// ErrDisabled indicates telemetry is disabled in config. Callers
	// treat this as "run without telemetry", not as a failure.
	ErrDisabled = errors.New("influxdb: disabled in configuration")
)
