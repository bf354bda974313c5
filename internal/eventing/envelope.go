// Package eventing wraps ledger events in storage envelopes for the
// append-only store.
package eventing

import (
	"encoding/json"
	"errors"
	"time"

	ledger "lunchledger/internal/ledger/domain"
)

// Envelope wraps an event payload with storage metadata. Seq is
// assigned by the store on append and orders the stream.
type Envelope struct {
	Seq        int64            `json:"seq"`
	EventID    string           `json:"event_id"`
	EventType  ledger.EventType `json:"event_type"`
	OccurredAt time.Time        `json:"occurred_at"`
	Payload    json.RawMessage  `json:"payload"`
}

// Wrap builds an envelope for an event, minting a fresh event id.
func Wrap(event ledger.Event) (Envelope, error) {
	if event.Type == "" {
		return Envelope{}, errors.New("eventing: event without type")
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return Envelope{}, err
	}
	occurredAt := event.TS
	if occurredAt.IsZero() {
		occurredAt = time.Now().UTC()
	}
	return Envelope{
		EventID:    NewEventID(),
		EventType:  event.Type,
		OccurredAt: occurredAt.UTC(),
		Payload:    payload,
	}, nil
}

// Event decodes the wrapped event.
func (e Envelope) Event() (ledger.Event, error) {
	var event ledger.Event
	if err := json.Unmarshal(e.Payload, &event); err != nil {
		return ledger.Event{}, err
	}
	if event.Type == "" {
		event.Type = e.EventType
	}
	return event, nil
}
