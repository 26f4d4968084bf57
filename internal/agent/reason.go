package agent

import "fmt"

// Reason classifies why the status callback fired.
type Reason int

// Callback reasons.
const (
	// ReasonStateChange reports the agent entered a new state. The
	// callback value carries state-specific detail (download percent
	// while downloading, zero otherwise).
	ReasonStateChange Reason = iota

	// ReasonSuccess reports an update completed and was applied.
	ReasonSuccess

	// ReasonFailure reports an update attempt failed. The agent
	// records the error and returns to waiting.
	ReasonFailure
)

// String returns the reason name for logs.
func (r Reason) String() string {
	switch r {
	case ReasonStateChange:
		return "state_change"
	case ReasonSuccess:
		return "success"
	case ReasonFailure:
		return "failure"
	default:
		return fmt.Sprintf("unknown(%d)", int(r))
	}
}

// State is the agent's position in the update lifecycle.
type State int

// Agent lifecycle states.
const (
	// StateWaiting means the agent is subscribed and idle, waiting
	// for an update notification.
	StateWaiting State = iota

	// StateStartUpdate means a job was accepted and work is beginning.
	StateStartUpdate

	// StateDownloading means the image is being fetched. State-change
	// callbacks in this state carry the completion percentage.
	StateDownloading

	// StateVerifying means the downloaded image's digest is being
	// checked against the job's expected digest.
	StateVerifying

	// StateComplete means the image was applied successfully.
	StateComplete

	// StateRebootPending means the agent is about to hand the device
	// to the new image.
	StateRebootPending

	// StateExiting means the agent is shutting down.
	StateExiting
)

// String returns the state name for logs.
func (s State) String() string {
	switch s {
	case StateWaiting:
		return "waiting"
	case StateStartUpdate:
		return "start_update"
	case StateDownloading:
		return "downloading"
	case StateVerifying:
		return "verifying"
	case StateComplete:
		return "complete"
	case StateRebootPending:
		return "reboot_pending"
	case StateExiting:
		return "exiting"
	default:
		return fmt.Sprintf("unknown(%d)", int(s))
	}
}
