package wifi

import "errors"

// Sentinel errors for Wi-Fi connection failures.
// Use errors.Is() to check error types.
var (
	// ErrAssociationFailed indicates a single association attempt failed.
	ErrAssociationFailed = errors.New("wifi association failed")

	// ErrRetriesExceeded indicates every attempt failed and the retry
	// budget is exhausted. The final attempt's error is wrapped inside.
	ErrRetriesExceeded = errors.New("wifi retries exceeded")
)
