// Package influxdb ships fleet telemetry: bootstrap phase transitions,
// Wi-Fi retry counts, agent events, and update outcomes, written to an
// InfluxDB v2 server with batched non-blocking writes.
//
// Telemetry is strictly optional. When disabled (or unreachable) the
// device boots and updates exactly the same; every write method is a
// no-op on a nil or disconnected client.
package influxdb
