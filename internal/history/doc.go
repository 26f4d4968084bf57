// Package history keeps an on-device record of agent activity: every
// status event and the outcome of every update attempt, stored in the
// local SQLite database. The record survives reboots and is the first
// place to look when a device came back from an update misbehaving.
package history
