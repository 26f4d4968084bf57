package mqtt

import "fmt"

// Topic prefixes for the otaboot update namespace.
//
// All device topics use the flat scheme: otaboot/{category}/{device_id}[/...]
// The publisher side (fleet service) mirrors this layout.
const (
	// TopicPrefix is the base for all otaboot topics.
	TopicPrefix = "otaboot"

	// TopicCategoryUpdate is the category for update job traffic.
	TopicCategoryUpdate = "update"

	// TopicCategoryStatus is the category for device presence/status.
	TopicCategoryStatus = "status"

	// TopicCategoryReport is the category for update result reports.
	TopicCategoryReport = "report"
)

// Topics provides builders for otaboot MQTT topics.
// Using these helpers ensures consistent topic naming across the codebase.
//
//	topics := mqtt.Topics{}
//	notify := topics.UpdateNotify("device-001")
//	// Returns: "otaboot/update/device-001/notify"
type Topics struct{}

// UpdateNotify returns the topic on which a device receives update job
// notifications from the fleet publisher.
//
// Example: otaboot/update/device-001/notify
func (Topics) UpdateNotify(deviceID string) string {
	return fmt.Sprintf("%s/%s/%s/notify", TopicPrefix, TopicCategoryUpdate, deviceID)
}

// UpdateProgress returns the topic on which a device publishes download
// and install progress for a job.
//
// Example: otaboot/update/device-001/progress
func (Topics) UpdateProgress(deviceID string) string {
	return fmt.Sprintf("%s/%s/%s/progress", TopicPrefix, TopicCategoryUpdate, deviceID)
}

// UpdateResult returns the topic on which a device publishes the final
// outcome of an update job.
//
// Example: otaboot/report/device-001/result
func (Topics) UpdateResult(deviceID string) string {
	return fmt.Sprintf("%s/%s/%s/result", TopicPrefix, TopicCategoryReport, deviceID)
}

// DeviceStatus returns the retained presence topic for a device.
// The LWT and graceful shutdown messages are published here.
//
// Example: otaboot/status/device-001
func (Topics) DeviceStatus(deviceID string) string {
	return fmt.Sprintf("%s/%s/%s", TopicPrefix, TopicCategoryStatus, deviceID)
}

// DeviceUpdateFilter returns the default subscription pattern covering all
// update traffic addressed to a device. This is the default topic filter
// handed to the OTA agent when none is configured.
//
// Pattern: otaboot/update/device-001/#
func (Topics) DeviceUpdateFilter(deviceID string) string {
	return fmt.Sprintf("%s/%s/%s/#", TopicPrefix, TopicCategoryUpdate, deviceID)
}

// BroadcastNotify returns the topic for fleet-wide update notifications.
//
// Example: otaboot/update/all/notify
func (Topics) BroadcastNotify() string {
	return fmt.Sprintf("%s/%s/all/notify", TopicPrefix, TopicCategoryUpdate)
}

// AllDeviceStatuses returns a pattern matching every device status topic.
//
// Pattern: otaboot/status/+
func (Topics) AllDeviceStatuses() string {
	return fmt.Sprintf("%s/%s/+", TopicPrefix, TopicCategoryStatus)
}

// AllUpdateResults returns a pattern matching every update result topic.
//
// Pattern: otaboot/report/+/result
func (Topics) AllUpdateResults() string {
	return fmt.Sprintf("%s/%s/+/result", TopicPrefix, TopicCategoryReport)
}
