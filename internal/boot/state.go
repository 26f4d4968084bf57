package boot

import "fmt"

// State is a phase of the bootstrap lifecycle. The driver moves forward
// only: there is no retry of a completed phase, and Fatal is absorbing.
type State int

// Bootstrap lifecycle states in order of progression.
const (
	// StateIdle is the initial state before any work begins.
	StateIdle State = iota

	// StateWifiConnecting covers the bounded-retry association loop.
	StateWifiConnecting

	// StateSubsystemsInitializing covers the ordered init sequence.
	StateSubsystemsInitializing

	// StateAgentStarting covers launching the update agent.
	StateAgentStarting

	// StateRunning is the terminal success state: the agent owns the
	// device from here and the driver parks until shutdown.
	StateRunning

	// StateFatal is the terminal failure state. Once entered it is
	// never left; the process exits nonzero.
	StateFatal
)

// String returns the state name for logs.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateWifiConnecting:
		return "wifi_connecting"
	case StateSubsystemsInitializing:
		return "subsystems_initializing"
	case StateAgentStarting:
		return "agent_starting"
	case StateRunning:
		return "running"
	case StateFatal:
		return "fatal"
	default:
		return fmt.Sprintf("unknown(%d)", int(s))
	}
}

// Terminal reports whether the state admits no further transitions.
func (s State) Terminal() bool {
	return s == StateRunning || s == StateFatal
}

// Driver tracks the current bootstrap phase and enforces forward-only
// progression. It is not safe for concurrent use; the bootstrap runs
// on a single goroutine.
type Driver struct {
	state State
}

// NewDriver returns a Driver in StateIdle.
func NewDriver() *Driver {
	return &Driver{state: StateIdle}
}

// State returns the current phase.
func (d *Driver) State() State {
	return d.state
}

// Advance moves the driver to the next phase. It panics on a backward
// or skipping transition, which would indicate a programming error in
// the bootstrap, not a runtime condition.
func (d *Driver) Advance(next State) {
	if d.state.Terminal() {
		panic(fmt.Sprintf("boot: transition out of terminal state %s", d.state))
	}
	if next == StateFatal {
		d.state = StateFatal
		return
	}
	if next != d.state+1 {
		panic(fmt.Sprintf("boot: invalid transition %s -> %s", d.state, next))
	}
	d.state = next
}

// Fail moves the driver to StateFatal from any non-terminal state.
func (d *Driver) Fail() {
	d.Advance(StateFatal)
}
