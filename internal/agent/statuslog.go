package agent

// StatusCallback returns a Callback that logs every agent event as a
// single structured line carrying the context identity, the reason
// (code and name), the event value, the current state (code and name),
// and the last recorded error. The line is self-contained so operators
// can follow an update without correlating across log entries.
func StatusCallback(logger Logger) Callback {
	return func(reason Reason, value uint32, arg *ContextRef) {
		octx := arg.Load()
		if octx == nil {
			// Cannot happen through Start, which binds before the
			// first event; guard anyway for hand-built callbacks.
			logger.Warn("agent event before context bound",
				"reason_code", int(reason),
				"reason", reason.String(),
				"value", value,
			)
			return
		}

		state := octx.State()
		lastError := "none"
		if err := octx.LastError(); err != nil {
			lastError = err.Error()
		}

		logger.Info("agent status",
			"context", octx.ID(),
			"reason_code", int(reason),
			"reason", reason.String(),
			"value", value,
			"state_code", int(state),
			"state", state.String(),
			"last_error", lastError,
		)
	}
}

// FanOut returns a Callback that invokes each given callback in order.
// Use it to attach history recording or telemetry alongside logging.
func FanOut(callbacks ...Callback) Callback {
	return func(reason Reason, value uint32, arg *ContextRef) {
		for _, cb := range callbacks {
			cb(reason, value, arg)
		}
	}
}
