package history

import (
	"context"
	"fmt"
	"time"

	"github.com/kestrelworks/otaboot/internal/infrastructure/database"
)

// Event is one recorded agent status event.
type Event struct {
	ID         int64
	ContextID  string
	OccurredAt time.Time
	Reason     string
	State      string
	Value      uint32
	LastError  string
}

// Outcome is the final result of one update attempt.
type Outcome struct {
	ID         int64
	ContextID  string
	OccurredAt time.Time
	Version    string
	Status     string
	Error      string
	Size       int64
	SHA256     string
	Source     string
}

// Outcome status values.
const (
	StatusSuccess = "success"
	StatusFailure = "failure"
)

// Store persists agent events and update outcomes to the local
// database. Safe for concurrent use; SQLite serializes the writes.
type Store struct {
	db *database.DB
}

// NewStore creates a Store over an open database.
func NewStore(db *database.DB) *Store {
	return &Store{db: db}
}

// RecordEvent appends one agent status event.
func (s *Store) RecordEvent(ctx context.Context, ev Event) error {
	occurredAt := ev.OccurredAt
	if occurredAt.IsZero() {
		occurredAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO agent_events (context_id, occurred_at, reason, state, value, last_error)
		VALUES (?, ?, ?, ?, ?, ?)`,
		ev.ContextID,
		occurredAt.UTC().Format(time.RFC3339Nano),
		ev.Reason,
		ev.State,
		ev.Value,
		ev.LastError,
	)
	if err != nil {
		return fmt.Errorf("recording agent event: %w", err)
	}
	return nil
}

// RecordOutcome appends the result of one update attempt.
func (s *Store) RecordOutcome(ctx context.Context, o Outcome) error {
	occurredAt := o.OccurredAt
	if occurredAt.IsZero() {
		occurredAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO update_outcomes (context_id, occurred_at, version, status, error, size, sha256, source)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		o.ContextID,
		occurredAt.UTC().Format(time.RFC3339Nano),
		o.Version,
		o.Status,
		o.Error,
		o.Size,
		o.SHA256,
		o.Source,
	)
	if err != nil {
		return fmt.Errorf("recording update outcome: %w", err)
	}
	return nil
}

// RecentEvents returns the newest events, most recent first.
func (s *Store) RecentEvents(ctx context.Context, limit int) ([]Event, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, context_id, occurred_at, reason, state, value, COALESCE(last_error, '')
		FROM agent_events
		ORDER BY id DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying agent events: %w", err)
	}
	defer rows.Close()

	var events []Event
	for rows.Next() {
		var ev Event
		var occurredAt string
		if err := rows.Scan(&ev.ID, &ev.ContextID, &occurredAt, &ev.Reason, &ev.State, &ev.Value, &ev.LastError); err != nil {
			return nil, fmt.Errorf("scanning agent event: %w", err)
		}
		ev.OccurredAt, _ = time.Parse(time.RFC3339Nano, occurredAt) //nolint:errcheck // Format is controlled
		events = append(events, ev)
	}
	return events, rows.Err()
}

// RecentOutcomes returns the newest update outcomes, most recent first.
func (s *Store) RecentOutcomes(ctx context.Context, limit int) ([]Outcome, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, context_id, occurred_at, version, status, COALESCE(error, ''), size, sha256, source
		FROM update_outcomes
		ORDER BY id DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying update outcomes: %w", err)
	}
	defer rows.Close()

	var outcomes []Outcome
	for rows.Next() {
		var o Outcome
		var occurredAt string
		if err := rows.Scan(&o.ID, &o.ContextID, &occurredAt, &o.Version, &o.Status, &o.Error, &o.Size, &o.SHA256, &o.Source); err != nil {
			return nil, fmt.Errorf("scanning update outcome: %w", err)
		}
		o.OccurredAt, _ = time.Parse(time.RFC3339Nano, occurredAt) //nolint:errcheck // Format is controlled
		outcomes = append(outcomes, o)
	}
	return outcomes, rows.Err()
}
