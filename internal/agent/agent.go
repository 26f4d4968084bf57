package agent

import (
	"context"
	"encoding/json"
	"time"

	"github.com/kestrelworks/otaboot/internal/infrastructure/mqtt"
)

// Logger defines the logging interface for the agent.
type Logger interface {
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// noopLogger is a logger that does nothing.
type noopLogger struct{}

func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// Agent listens for update notifications and runs one update at a time.
// Create one with Start; it remains alive for the rest of the process.
type Agent struct {
	octx    *Context
	network NetworkParams
	params  AgentParams
	logger  Logger

	deviceID string
	filters  []string
	jobs     chan Job
	done     chan struct{}
}

// Start validates the parameters, binds the agent's Context into the
// caller's ContextRef, subscribes to the update topics, and launches
// the agent's run loop. The first status event (entering the waiting
// state) fires after the ContextRef is bound, so callbacks always see
// a non-nil Context.
//
// The network interface reference is captured here, immediately before
// the agent starts using it; callers must not pass an interface they
// intend to reconfigure.
//
// Parameters:
//   - ctx: Context governing the agent's lifetime
//   - network: The established broker connection to run over
//   - params: Callback, updater, and reboot configuration
//
// Returns:
//   - *Agent: The running agent; hold it for the process lifetime
//   - error: ErrInvalidParams or ErrNetworkNotReady on bad input, or a
//     subscription failure
func Start(ctx context.Context, network NetworkParams, params AgentParams) (*Agent, error) {
	if err := network.validate(); err != nil {
		return nil, err
	}
	if err := params.validate(); err != nil {
		return nil, err
	}

	deviceID := network.DeviceID
	if deviceID == "" {
		deviceID = network.Interface.ClientID()
	}

	filters := params.TopicFilters
	if len(filters) == 0 {
		filters = []string{mqtt.Topics{}.DeviceUpdateFilter(deviceID)}
	}

	a := &Agent{
		octx:     newContext(),
		network:  network,
		params:   params,
		logger:   params.Logger,
		deviceID: deviceID,
		filters:  filters,
		jobs:     make(chan Job, 1),
		done:     make(chan struct{}),
	}
	if a.logger == nil {
		a.logger = noopLogger{}
	}

	// Bind identity before any event can fire.
	params.CallbackArg.bind(a.octx)

	for _, filter := range filters {
		if err := network.Interface.Subscribe(filter, 1, a.handleNotify); err != nil {
			return nil, err
		}
	}

	a.notify(ReasonStateChange, 0)
	a.logger.Info("update agent started",
		"context", a.octx.ID(),
		"device_id", deviceID,
		"filters", filters,
	)

	go a.run(ctx)
	return a, nil
}

// Context returns the agent's runtime context.
func (a *Agent) Context() *Context {
	return a.octx
}

// Done is closed when the agent's run loop has exited.
func (a *Agent) Done() <-chan struct{} {
	return a.done
}

// handleNotify parses an update notification and queues it. A job
// arriving while another is in progress is dropped; the sender retries
// on the next report cycle.
func (a *Agent) handleNotify(topic string, payload []byte) error {
	job, err := ParseJob(payload)
	if err != nil {
		a.logger.Warn("rejected update notification", "topic", topic, "error", err)
		return err
	}

	select {
	case a.jobs <- job:
		a.logger.Info("queued update job", "version", job.Version, "size", job.Size)
	default:
		a.logger.Warn("dropped update notification, update already in progress",
			"version", job.Version,
		)
	}
	return nil
}

// run processes queued jobs until the context is cancelled.
func (a *Agent) run(ctx context.Context) {
	defer close(a.done)

	for {
		select {
		case <-ctx.Done():
			a.octx.setState(StateExiting)
			a.notify(ReasonStateChange, 0)
			a.unsubscribe()
			return
		case job := <-a.jobs:
			a.runJob(ctx, job)
		}
	}
}

// runJob drives one update through its lifecycle. Failures are
// reported and the agent returns to waiting; the process never exits
// because an update failed.
func (a *Agent) runJob(ctx context.Context, job Job) {
	a.octx.setJob(job)
	a.transition(StateStartUpdate, 0)
	a.transition(StateDownloading, 0)

	err := a.params.Updater.Apply(ctx, job, func(percent uint32) {
		a.reportProgress(job, percent)
	})
	if err != nil {
		a.octx.setLastError(err)
		a.logger.Error("update failed", "version", job.Version, "error", err)
		a.notify(ReasonFailure, 0)
		a.publishResult(job, "failure", err)
		a.transition(StateWaiting, 0)
		return
	}

	a.transition(StateComplete, 0)
	a.notify(ReasonSuccess, 0)
	a.publishResult(job, "success", nil)
	a.logger.Info("update applied", "version", job.Version)

	if a.params.RebootUponCompletion {
		a.transition(StateRebootPending, 0)
		if err := a.params.Rebooter.Reboot(ctx); err != nil {
			a.octx.setLastError(err)
			a.logger.Error("reboot failed", "error", err)
			a.notify(ReasonFailure, 0)
			a.transition(StateWaiting, 0)
		}
		return
	}

	a.transition(StateWaiting, 0)
}

// reportProgress forwards installer progress. Reaching 100 percent
// means the download finished and the installer moved on to verifying.
func (a *Agent) reportProgress(job Job, percent uint32) {
	if percent >= 100 {
		a.transition(StateVerifying, 0)
		return
	}
	a.notify(ReasonStateChange, percent)
	a.publishProgress(job, percent)
}

// transition records a state change and fires the callback.
func (a *Agent) transition(s State, value uint32) {
	a.octx.setState(s)
	a.notify(ReasonStateChange, value)
}

func (a *Agent) notify(reason Reason, value uint32) {
	a.params.Callback(reason, value, a.params.CallbackArg)
}

func (a *Agent) unsubscribe() {
	for _, filter := range a.filters {
		if err := a.network.Interface.Unsubscribe(filter); err != nil {
			a.logger.Warn("unsubscribe failed", "filter", filter, "error", err)
		}
	}
}

type progressReport struct {
	DeviceID  string `json:"device_id"`
	Version   string `json:"version"`
	Percent   uint32 `json:"percent"`
	Timestamp string `json:"timestamp"`
}

type resultReport struct {
	DeviceID  string `json:"device_id"`
	Version   string `json:"version"`
	Status    string `json:"status"`
	Error     string `json:"error,omitempty"`
	Timestamp string `json:"timestamp"`
}

func (a *Agent) publishProgress(job Job, percent uint32) {
	payload, err := json.Marshal(progressReport{
		DeviceID:  a.deviceID,
		Version:   job.Version,
		Percent:   percent,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		return
	}
	topic := mqtt.Topics{}.UpdateProgress(a.deviceID)
	if err := a.network.Interface.Publish(topic, payload, 0, false); err != nil {
		a.logger.Warn("progress publish failed", "error", err)
	}
}

func (a *Agent) publishResult(job Job, status string, cause error) {
	report := resultReport{
		DeviceID:  a.deviceID,
		Version:   job.Version,
		Status:    status,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
	if cause != nil {
		report.Error = cause.Error()
	}
	payload, err := json.Marshal(report)
	if err != nil {
		return
	}
	topic := mqtt.Topics{}.UpdateResult(a.deviceID)
	if err := a.network.Interface.Publish(topic, payload, 1, false); err != nil {
		a.logger.Warn("result publish failed", "error", err)
	}
}
