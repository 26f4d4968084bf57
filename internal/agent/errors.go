package agent

import "errors"

// Sentinel errors for agent operations.
// Use errors.Is() to check error types.
var (
	// ErrInvalidParams indicates Start was called with missing or
	// unusable parameters (nil network interface, no callback).
	ErrInvalidParams = errors.New("invalid agent parameters")

	// ErrNetworkNotReady indicates the supplied network interface is
	// not connected. Start requires an established connection.
	ErrNetworkNotReady = errors.New("network interface not ready")

	// ErrInvalidJob indicates an update notification could not be
	// parsed or failed validation.
	ErrInvalidJob = errors.New("invalid update job")

	// ErrUpdateFailed indicates an update attempt failed; the agent
	// returned to waiting.
	ErrUpdateFailed = errors.New("update failed")
)
