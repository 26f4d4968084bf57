// Package wifi joins the device to its configured access point with a
// bounded, fixed-delay retry loop.
//
// The package separates policy from mechanism: the Connector owns the
// retry policy (attempt budget, constant delay, last-error reporting)
// while the Associator interface abstracts the single association
// attempt. The production Associator shells out to NetworkManager's
// nmcli; tests substitute an in-memory fake.
//
// The retry loop is deliberately literal: the fixed delay is taken
// after every failed attempt, including the final one before the last
// error is returned. Callers that need a different policy wrap their
// own loop around an Associator instead of changing this one.
package wifi
