// Package database provides the SQLite connection used for the
// device's local update history. It wraps database/sql with directory
// setup, pragma configuration (WAL, busy timeout, foreign keys), a
// health check, and filename-ordered schema migrations applied from an
// embedded filesystem.
//
// SQLite is configured for a single writer; the service is the only
// process touching the file.
package database
