package ledger

import (
	"time"

	"github.com/shopspring/decimal"
)

// EventType enumerates the durable facts the ledger records.
type EventType string

const (
	EventPaid     EventType = "paid"
	EventBought   EventType = "bought"
	EventUnbought EventType = "unbought"
	EventCost     EventType = "cost"
	EventUncost   EventType = "uncost"
	EventIn       EventType = "in"
	EventOut      EventType = "out"
	EventChoose   EventType = "choose"
	EventOrder    EventType = "order"
)

// Event is an immutable, append-only fact. Only the fields the Type
// requires are set; everything else stays at its zero value.
type Event struct {
	Type         EventType       `json:"type"`
	Person       PersonID        `json:"person,omitempty"`
	TS           time.Time       `json:"ts"`
	Amount       decimal.Decimal `json:"amount"`
	PretaxAmount decimal.Decimal `json:"pretax_amount"`
	Date         Date            `json:"date"`
	To           PersonID        `json:"to,omitempty"`
	Restaurant   RestaurantName  `json:"restaurant,omitempty"`
	Food         string          `json:"food,omitempty"`
}

// NewEvent stamps a fresh event with the issuing command's requestor
// and timestamp. Handlers that target a different person (restaurant
// change reversals) override Person afterwards.
func NewEvent(eventType EventType, meta CommandMeta) Event {
	return Event{
		Type:   eventType,
		Person: meta.Requestor,
		TS:     meta.TS,
	}
}

// IsReversal reports whether the event cancels a prior contribution.
func (e Event) IsReversal() bool {
	return e.Type == EventUnbought || e.Type == EventUncost
}

// IsMoney reports whether the event affects balances.
func (e Event) IsMoney() bool {
	switch e.Type {
	case EventPaid, EventBought, EventUnbought, EventCost, EventUncost:
		return true
	}
	return false
}
