// Package boot runs the device's startup sequence: ordered subsystem
// initialization where the first failure is fatal, and a small
// forward-only state machine tracking the bootstrap phase.
//
// A Sequence holds named Steps and runs them strictly in declaration
// order. There is no rollback and no partial recovery: a failed step
// returns a *StepError and the process is expected to exit. The Driver
// records which phase the bootstrap is in so logs and telemetry can
// attribute a failure to the phase it happened in.
package boot
