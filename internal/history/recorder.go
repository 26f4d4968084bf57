package history

import (
	"context"
	"time"

	"github.com/kestrelworks/otaboot/internal/agent"
)

// recorder queue sizing and write bounds.
const (
	recorderQueueSize = 64
	writeTimeout      = 5 * time.Second
)

// Logger defines the logging interface for the recorder.
type Logger interface {
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// Recorder turns agent status events into history rows without
// blocking the agent. Events are queued to a writer goroutine; if the
// queue fills (the database is stalled), events are dropped with a
// warning rather than stalling the update in progress.
type Recorder struct {
	store  *Store
	logger Logger
	queue  chan entry
	done   chan struct{}
}

type entry struct {
	event   Event
	outcome *Outcome
}

// NewRecorder creates a Recorder and starts its writer goroutine.
// Call Close during shutdown to flush queued events.
func NewRecorder(store *Store, logger Logger) *Recorder {
	r := &Recorder{
		store:  store,
		logger: logger,
		queue:  make(chan entry, recorderQueueSize),
		done:   make(chan struct{}),
	}
	go r.writeLoop()
	return r
}

// Callback returns an agent.Callback that records every event, plus an
// outcome row when an update finishes.
func (r *Recorder) Callback() agent.Callback {
	return func(reason agent.Reason, value uint32, arg *agent.ContextRef) {
		octx := arg.Load()
		if octx == nil {
			return
		}

		e := entry{event: Event{
			ContextID:  octx.ID(),
			OccurredAt: time.Now().UTC(),
			Reason:     reason.String(),
			State:      octx.State().String(),
			Value:      value,
		}}
		if err := octx.LastError(); err != nil {
			e.event.LastError = err.Error()
		}

		if reason == agent.ReasonSuccess || reason == agent.ReasonFailure {
			job := octx.Job()
			o := Outcome{
				ContextID:  octx.ID(),
				OccurredAt: e.event.OccurredAt,
				Version:    job.Version,
				Status:     StatusSuccess,
				Size:       job.Size,
				SHA256:     job.SHA256,
				Source:     job.Source,
			}
			if reason == agent.ReasonFailure {
				o.Status = StatusFailure
				o.Error = e.event.LastError
			}
			e.outcome = &o
		}

		select {
		case r.queue <- e:
		default:
			r.logger.Warn("history queue full, dropping event",
				"reason", e.event.Reason,
				"state", e.event.State,
			)
		}
	}
}

// Close stops the writer after flushing queued events.
func (r *Recorder) Close() {
	close(r.queue)
	<-r.done
}

func (r *Recorder) writeLoop() {
	defer close(r.done)
	for e := range r.queue {
		r.write(e)
	}
}

func (r *Recorder) write(e entry) {
	ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
	defer cancel()

	if err := r.store.RecordEvent(ctx, e.event); err != nil {
		r.logger.Error("recording agent event failed", "error", err)
	}
	if e.outcome != nil {
		if err := r.store.RecordOutcome(ctx, *e.outcome); err != nil {
			r.logger.Error("recording update outcome failed", "error", err)
		}
	}
}
