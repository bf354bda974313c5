// Package memory provides an in-memory event store for tests and
// single-process demo runs.
package memory

import (
	"context"
	"sync"

	ledger "lunchledger/internal/ledger/domain"
)

// EventStore keeps the event stream in memory.
type EventStore struct {
	mu     sync.Mutex
	events []ledger.Event
}

// NewEventStore constructs an empty store.
func NewEventStore() *EventStore {
	return &EventStore{}
}

// Append stores events in order.
func (s *EventStore) Append(_ context.Context, events []ledger.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, events...)
	return nil
}

// LoadAll returns a copy of every stored event in append order.
func (s *EventStore) LoadAll(_ context.Context) ([]ledger.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]ledger.Event(nil), s.events...), nil
}
