package influxdb

import (
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"
)

// All write methods are nil-receiver safe and no-ops when disconnected,
// so telemetry stays strictly optional at every call site.

// WriteBootPhase records a bootstrap phase transition, so fleet
// dashboards can spot devices stuck in (or failing at) a given phase.
func (c *Client) WriteBootPhase(phase string, success bool) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(
		"boot_phase",
		map[string]string{
			"device_id": c.deviceID,
			"phase":     phase,
		},
		map[string]interface{}{
			"success": success,
		},
		time.Now(),
	)

	c.writeAPI.WritePoint(point)
}

// WriteConnectAttempt records one Wi-Fi association attempt with its
// ordinal, so retry churn is visible per device.
func (c *Client) WriteConnectAttempt(attempt int, success bool) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(
		"wifi_connect",
		map[string]string{
			"device_id": c.deviceID,
		},
		map[string]interface{}{
			"attempt": attempt,
			"success": success,
		},
		time.Now(),
	)

	c.writeAPI.WritePoint(point)
}

// WriteAgentEvent records one agent status event.
//
// Parameters:
//   - contextID: The agent context identity
//   - reason: Event reason name ("state_change", "success", "failure")
//   - state: Agent state name at the time of the event
//   - value: Event value (download percent while downloading)
func (c *Client) WriteAgentEvent(contextID, reason, state string, value uint32) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(
		"agent_event",
		map[string]string{
			"device_id": c.deviceID,
			"reason":    reason,
			"state":     state,
		},
		map[string]interface{}{
			"context_id": contextID,
			"value":      int64(value),
		},
		time.Now(),
	)

	c.writeAPI.WritePoint(point)
}

// WriteUpdateOutcome records the final result of one update attempt.
func (c *Client) WriteUpdateOutcome(version, status, errDetail string) {
	if !c.IsConnected() {
		return
	}

	fields := map[string]interface{}{
		"count": 1,
	}
	if errDetail != "" {
		fields["error"] = errDetail
	}

	point := write.NewPoint(
		"update_outcome",
		map[string]string{
			"device_id": c.deviceID,
			"version":   version,
			"status":    status,
		},
		fields,
		time.Now(),
	)

	c.writeAPI.WritePoint(point)
}
