package application

import (
	ledger "lunchledger/internal/ledger/domain"
)

// Deriver translates a command and the current snapshot into the
// ordered sequence of events the command implies. It is pure: it never
// mutates the snapshot and never fails for well-formed input. Query
// commands and unrecognized commands derive no events.
type Deriver struct{}

// NewDeriver constructs a deriver.
func NewDeriver() *Deriver {
	return &Deriver{}
}

// Derive returns the events a command produces, in append order.
//
// Corrections never overwrite: whenever a value is being replaced, a
// reversal event carrying the old amount precedes the new event, so a
// fold that sums signed contributions stays correct under resubmission.
func (d *Deriver) Derive(cmd ledger.Command, snapshot *ledger.Snapshot) []ledger.Event {
	switch c := cmd.(type) {
	case ledger.SubmitPayment:
		return d.derivePayment(c)
	case ledger.SubmitBought:
		return d.deriveBought(c, snapshot)
	case ledger.SubmitCost:
		return d.deriveCost(c, snapshot)
	case ledger.DeclareIn:
		return d.deriveIn(c)
	case ledger.DeclareOut:
		return d.deriveOut(c, snapshot)
	case ledger.ChooseRestaurant:
		return d.deriveChoose(c, snapshot)
	case ledger.SubmitOrder:
		return d.deriveOrder(c)
	default:
		return nil
	}
}

func (d *Deriver) derivePayment(cmd ledger.SubmitPayment) []ledger.Event {
	event := ledger.NewEvent(ledger.EventPaid, cmd.CommandMeta)
	event.Amount = cmd.Amount
	event.To = cmd.To
	event.Date = cmd.Date
	return []ledger.Event{event}
}

func (d *Deriver) deriveBought(cmd ledger.SubmitBought, snapshot *ledger.Snapshot) []ledger.Event {
	var events []ledger.Event
	if prior, ok := snapshot.BoughtAmount(cmd.Requestor, cmd.Date); ok {
		reversal := ledger.NewEvent(ledger.EventUnbought, cmd.CommandMeta)
		reversal.Amount = prior
		reversal.Date = cmd.Date
		events = append(events, reversal)
	}
	event := ledger.NewEvent(ledger.EventBought, cmd.CommandMeta)
	event.Amount = cmd.Amount
	event.Date = cmd.Date
	return append(events, event)
}

func (d *Deriver) deriveCost(cmd ledger.SubmitCost, snapshot *ledger.Snapshot) []ledger.Event {
	var events []ledger.Event
	if prior, ok := snapshot.CostAmount(cmd.Requestor, cmd.Date); ok {
		reversal := ledger.NewEvent(ledger.EventUncost, cmd.CommandMeta)
		reversal.Amount = prior
		reversal.Date = cmd.Date
		events = append(events, reversal)
	}
	event := ledger.NewEvent(ledger.EventCost, cmd.CommandMeta)
	event.Amount = cmd.Amount
	event.Date = cmd.Date
	if cmd.PlusTax {
		rate := ledger.SalesTaxRateFor(snapshot, cmd.Date)
		event.Amount = ledger.ApplySalesTax(cmd.Amount, rate)
		event.PretaxAmount = cmd.Amount
	}
	return append(events, event)
}

func (d *Deriver) deriveIn(cmd ledger.DeclareIn) []ledger.Event {
	event := ledger.NewEvent(ledger.EventIn, cmd.CommandMeta)
	event.Date = cmd.Date
	return []ledger.Event{event}
}

func (d *Deriver) deriveOut(cmd ledger.DeclareOut, snapshot *ledger.Snapshot) []ledger.Event {
	var events []ledger.Event
	if prior, ok := snapshot.CostAmount(cmd.Requestor, cmd.Date); ok {
		reversal := ledger.NewEvent(ledger.EventUncost, cmd.CommandMeta)
		reversal.Amount = prior
		reversal.Date = cmd.Date
		events = append(events, reversal)
	}
	event := ledger.NewEvent(ledger.EventOut, cmd.CommandMeta)
	event.Date = cmd.Date
	return append(events, event)
}

func (d *Deriver) deriveChoose(cmd ledger.ChooseRestaurant, snapshot *ledger.Snapshot) []ledger.Event {
	chosen := snapshot.ChosenRestaurant(cmd.Date)
	if chosen != nil && chosen.Name == cmd.Restaurant {
		// Re-choosing the current restaurant is a no-op.
		return nil
	}
	var events []ledger.Event
	// Changing restaurant invalidates every recorded cost for the date;
	// reversals target the affected person, not the requestor.
	for _, pc := range snapshot.PeopleWithCost(cmd.Date) {
		reversal := ledger.NewEvent(ledger.EventUncost, cmd.CommandMeta)
		reversal.Person = pc.Person
		reversal.Amount = pc.Amount
		reversal.Date = cmd.Date
		events = append(events, reversal)
	}
	event := ledger.NewEvent(ledger.EventChoose, cmd.CommandMeta)
	event.Restaurant = cmd.Restaurant
	event.Date = cmd.Date
	return append(events, event)
}

func (d *Deriver) deriveOrder(cmd ledger.SubmitOrder) []ledger.Event {
	event := ledger.NewEvent(ledger.EventOrder, cmd.CommandMeta)
	event.Food = cmd.Food
	event.Date = cmd.Date
	return []ledger.Event{event}
}
