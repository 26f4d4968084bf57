package agent

import (
	"encoding/json"
	"fmt"
)

// Job describes one update offered over the notify topic.
type Job struct {
	// Version is the firmware version being offered.
	Version string `json:"version"`

	// Size is the image size in bytes.
	Size int64 `json:"size"`

	// SHA256 is the hex-encoded digest the downloaded image must match.
	SHA256 string `json:"sha256"`

	// Source is where to fetch the image from (URL or path, consumed
	// by the installer command).
	Source string `json:"source"`
}

// ParseJob decodes and validates an update notification payload.
func ParseJob(payload []byte) (Job, error) {
	var job Job
	if err := json.Unmarshal(payload, &job); err != nil {
		return Job{}, fmt.Errorf("%w: %w", ErrInvalidJob, err)
	}
	if job.Version == "" {
		return Job{}, fmt.Errorf("%w: missing version", ErrInvalidJob)
	}
	if job.Source == "" {
		return Job{}, fmt.Errorf("%w: missing source", ErrInvalidJob)
	}
	if job.SHA256 == "" {
		return Job{}, fmt.Errorf("%w: missing sha256", ErrInvalidJob)
	}
	if job.Size < 0 {
		return Job{}, fmt.Errorf("%w: negative size %d", ErrInvalidJob, job.Size)
	}
	return job, nil
}
