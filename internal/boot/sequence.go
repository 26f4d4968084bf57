package boot

import (
	"context"
	"fmt"
)

// Step is one named initialization unit. Run performs the work and
// returns an error if the subsystem could not be brought up.
type Step struct {
	Name string
	Run  func(ctx context.Context) error
}

// StepError reports which step of a sequence failed and why.
type StepError struct {
	// Step is the name of the failed step.
	Step string

	// Index is the step's zero-based position in the sequence.
	Index int

	// Err is the underlying failure.
	Err error
}

// Error implements the error interface.
func (e *StepError) Error() string {
	return fmt.Sprintf("boot step %q (index %d) failed: %v", e.Step, e.Index, e.Err)
}

// Unwrap returns the underlying error for errors.Is/As.
func (e *StepError) Unwrap() error {
	return e.Err
}

// Logger defines the logging interface for the sequence.
type Logger interface {
	Info(msg string, args ...any)
	Error(msg string, args ...any)
}

// noopLogger is a logger that does nothing.
type noopLogger struct{}

func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// Sequence runs initialization steps strictly in order. The first
// failure stops the sequence: later steps never run, partially
// initialized earlier steps are not rolled back. The caller treats a
// sequence failure as fatal and exits.
type Sequence struct {
	steps  []Step
	logger Logger
}

// NewSequence creates a Sequence over the given steps.
func NewSequence(steps ...Step) *Sequence {
	return &Sequence{
		steps:  steps,
		logger: noopLogger{},
	}
}

// SetLogger sets the logger for the sequence.
func (s *Sequence) SetLogger(logger Logger) {
	s.logger = logger
}

// Run executes every step in declaration order. It returns nil when all
// steps succeed, or a *StepError identifying the first step that failed.
// Context cancellation between steps aborts the sequence.
func (s *Sequence) Run(ctx context.Context) error {
	for i, step := range s.steps {
		if err := ctx.Err(); err != nil {
			return &StepError{Step: step.Name, Index: i, Err: err}
		}

		s.logger.Info("initializing subsystem", "step", step.Name, "index", i)
		if err := step.Run(ctx); err != nil {
			s.logger.Error("subsystem initialization failed",
				"step", step.Name,
				"index", i,
				"error", err,
			)
			return &StepError{Step: step.Name, Index: i, Err: err}
		}
		s.logger.Info("subsystem initialized", "step", step.Name, "index", i)
	}
	return nil
}
