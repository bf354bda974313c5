// Package aggregate folds the append-only event stream into the
// snapshot the command core reads.
package aggregate

import (
	"github.com/shopspring/decimal"

	ledger "lunchledger/internal/ledger/domain"
)

// Aggregator maintains the current snapshot by folding events as they
// are appended. It is not safe for concurrent use; the application
// service serializes command processing around it.
type Aggregator struct {
	restaurants map[ledger.RestaurantName]ledger.Restaurant
	snapshot    *ledger.Snapshot
}

// New constructs an aggregator with an empty snapshot. The restaurant
// directory resolves chosen restaurants to their configured tax rates.
func New(restaurants map[ledger.RestaurantName]ledger.Restaurant) *Aggregator {
	return &Aggregator{
		restaurants: restaurants,
		snapshot: &ledger.Snapshot{
			Meals:    make(map[ledger.Date]*ledger.Meal),
			Balances: make(map[ledger.PersonID]decimal.Decimal),
		},
	}
}

// Snapshot returns the current state. Callers treat it as read-only.
func (a *Aggregator) Snapshot() *ledger.Snapshot {
	return a.snapshot
}

// SetRestaurants replaces the restaurant directory. Meals already
// folded keep the restaurant they resolved at fold time.
func (a *Aggregator) SetRestaurants(restaurants map[ledger.RestaurantName]ledger.Restaurant) {
	a.restaurants = restaurants
}

// Apply folds events into the snapshot, in order.
func (a *Aggregator) Apply(events ...ledger.Event) {
	for _, event := range events {
		a.apply(event)
	}
}

func (a *Aggregator) apply(event ledger.Event) {
	switch event.Type {
	case ledger.EventPaid:
		a.addBalance(event.Person, event.Amount)
		a.addBalance(event.To, event.Amount.Neg())
		a.recordMoney(event)
	case ledger.EventBought:
		a.addBalance(event.Person, event.Amount)
		amount := event.Amount
		a.mealPerson(event.Date, event.Person).Bought = &amount
		a.recordMoney(event)
	case ledger.EventUnbought:
		a.addBalance(event.Person, event.Amount.Neg())
		a.mealPerson(event.Date, event.Person).Bought = nil
		a.recordMoney(event)
	case ledger.EventCost:
		a.addBalance(event.Person, event.Amount.Neg())
		amount := event.Amount
		a.mealPerson(event.Date, event.Person).Cost = &amount
		a.recordMoney(event)
	case ledger.EventUncost:
		a.addBalance(event.Person, event.Amount)
		a.mealPerson(event.Date, event.Person).Cost = nil
		a.recordMoney(event)
	case ledger.EventIn:
		a.mealPerson(event.Date, event.Person).Attendance = ledger.AttendanceIn
	case ledger.EventOut:
		a.mealPerson(event.Date, event.Person).Attendance = ledger.AttendanceOut
	case ledger.EventChoose:
		a.meal(event.Date).Chosen = a.resolveRestaurant(event.Restaurant)
	case ledger.EventOrder:
		a.mealPerson(event.Date, event.Person).Order = event.Food
	}
}

func (a *Aggregator) addBalance(person ledger.PersonID, amount decimal.Decimal) {
	if person == "" {
		return
	}
	a.snapshot.Balances[person] = a.snapshot.Balances[person].Add(amount)
}

func (a *Aggregator) recordMoney(event ledger.Event) {
	a.snapshot.MoneyEvents = append(a.snapshot.MoneyEvents, event)
}

func (a *Aggregator) meal(date ledger.Date) *ledger.Meal {
	meal := a.snapshot.Meals[date]
	if meal == nil {
		meal = &ledger.Meal{Date: date}
		a.snapshot.Meals[date] = meal
	}
	return meal
}

func (a *Aggregator) mealPerson(date ledger.Date, person ledger.PersonID) *ledger.MealPerson {
	return a.meal(date).EnsurePerson(person)
}

func (a *Aggregator) resolveRestaurant(name ledger.RestaurantName) *ledger.Restaurant {
	if restaurant, ok := a.restaurants[name]; ok {
		copy := restaurant
		return &copy
	}
	return &ledger.Restaurant{Name: name}
}
