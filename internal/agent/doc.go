// Package agent runs the over-the-air update lifecycle: it subscribes
// to update notifications over the broker, drives each offered job
// through download, verification, and application, and reports every
// lifecycle event through a caller-supplied status callback.
//
// Start is the only entry point. It validates its parameters, binds
// the agent's Context into the caller's ContextRef before any event
// fires, and returns a running Agent that lives for the rest of the
// process. One update runs at a time; a failed update is reported and
// the agent returns to waiting rather than terminating.
//
// The mechanics of fetching and applying an image are behind the
// Updater interface. Production configures a CommandUpdater that
// delegates to an external installer command; tests use in-memory
// fakes.
package agent
