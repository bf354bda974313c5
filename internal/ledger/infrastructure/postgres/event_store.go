// Package postgres persists the append-only event stream.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"lunchledger/internal/eventing"
	ledger "lunchledger/internal/ledger/domain"
)

const defaultEventsTable = "ledger_events"

// Schema is the DDL for the events table.
const Schema = `
CREATE TABLE IF NOT EXISTS ledger_events (
	seq BIGSERIAL PRIMARY KEY,
	event_id TEXT NOT NULL UNIQUE,
	event_type TEXT NOT NULL,
	occurred_at TIMESTAMPTZ NOT NULL,
	payload JSONB NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

// EventStore is a Postgres implementation of the append-only store.
// Appends are ordered and atomic per call.
type EventStore struct {
	db    *sql.DB
	table string
}

// NewEventStore constructs an event store.
func NewEventStore(db *sql.DB, opts ...Option) *EventStore {
	store := &EventStore{db: db, table: defaultEventsTable}
	for _, opt := range opts {
		opt(store)
	}
	return store
}

// Option configures the event store.
type Option func(*EventStore)

// WithEventsTable overrides the table name.
func WithEventsTable(table string) Option {
	return func(store *EventStore) {
		if table != "" {
			store.table = table
		}
	}
}

// EnsureSchema creates the events table when missing.
func (s *EventStore) EnsureSchema(ctx context.Context) error {
	if s == nil || s.db == nil {
		return errors.New("event store: nil db")
	}
	_, err := s.db.ExecContext(ctx, Schema)
	return err
}

// Append writes events in order inside one transaction.
func (s *EventStore) Append(ctx context.Context, events []ledger.Event) error {
	if s == nil || s.db == nil {
		return errors.New("event store: nil db")
	}
	if len(events) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	query := fmt.Sprintf(`
INSERT INTO %s (event_id, event_type, occurred_at, payload)
VALUES ($1, $2, $3, $4)`, s.table)

	for _, event := range events {
		env, err := eventing.Wrap(event)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, query, env.EventID, env.EventType, env.OccurredAt, []byte(env.Payload)); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// LoadAll returns every stored event in append order, for replay.
func (s *EventStore) LoadAll(ctx context.Context) ([]ledger.Event, error) {
	if s == nil || s.db == nil {
		return nil, errors.New("event store: nil db")
	}
	query := fmt.Sprintf(`
SELECT seq, event_id, event_type, occurred_at, payload
FROM %s
ORDER BY seq ASC`, s.table)

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []ledger.Event
	for rows.Next() {
		var env eventing.Envelope
		var payload []byte
		if err := rows.Scan(&env.Seq, &env.EventID, &env.EventType, &env.OccurredAt, &payload); err != nil {
			return nil, err
		}
		env.Payload = payload
		event, err := env.Event()
		if err != nil {
			return nil, fmt.Errorf("event store: decode seq %d: %w", env.Seq, err)
		}
		events = append(events, event)
	}
	return events, rows.Err()
}
