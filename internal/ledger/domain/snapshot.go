package ledger

import (
	"sort"

	"github.com/shopspring/decimal"
)

// Attendance is a person's declared status for a meal.
type Attendance string

const (
	AttendanceIn  Attendance = "in"
	AttendanceOut Attendance = "out"
)

// Restaurant is a configured restaurant. SalesTaxRate is nil when the
// restaurant has no configured rate and the default applies.
type Restaurant struct {
	Name         RestaurantName   `yaml:"name"`
	SalesTaxRate *decimal.Decimal `yaml:"sales_tax_rate"`
}

// MealPerson is one person's current standing for a meal: what they
// bought, what their share costs, whether they are in or out, and what
// they ordered. Bought and Cost are nil until recorded.
type MealPerson struct {
	Bought     *decimal.Decimal
	Cost       *decimal.Decimal
	Attendance Attendance
	Order      string
}

// Meal is the per-date record of a group lunch.
type Meal struct {
	Date   Date
	Chosen *Restaurant
	People map[PersonID]*MealPerson
}

// Person returns the meal record for a person, or nil.
func (m *Meal) Person(person PersonID) *MealPerson {
	if m == nil {
		return nil
	}
	return m.People[person]
}

// EnsurePerson returns the meal record for a person, creating it if needed.
func (m *Meal) EnsurePerson(person PersonID) *MealPerson {
	if m.People == nil {
		m.People = make(map[PersonID]*MealPerson)
	}
	mp := m.People[person]
	if mp == nil {
		mp = &MealPerson{}
		m.People[person] = mp
	}
	return mp
}

// HasPurchase reports whether any bought or cost amount is recorded.
func (m *Meal) HasPurchase() bool {
	if m == nil {
		return false
	}
	for _, mp := range m.People {
		if mp.Bought != nil || mp.Cost != nil {
			return true
		}
	}
	return false
}

// Balance is one person's net position. Positive means the group owes
// the person money.
type Balance struct {
	Person PersonID
	Amount decimal.Decimal
}

// PersonCost pairs a person with their recorded cost for a meal.
type PersonCost struct {
	Person PersonID
	Amount decimal.Decimal
}

// Snapshot is a point-in-time view of state folded from all prior
// events. It is produced by the aggregator and consumed read-only; the
// deriver and composer never mutate or retain it.
type Snapshot struct {
	Meals       map[Date]*Meal
	Balances    map[PersonID]decimal.Decimal
	MoneyEvents []Event
}

// Meal returns the meal record for a date, or nil when none exists.
func (s *Snapshot) Meal(date Date) *Meal {
	if s == nil {
		return nil
	}
	return s.Meals[date]
}

// BoughtAmount returns the person's recorded bought amount for a date.
func (s *Snapshot) BoughtAmount(person PersonID, date Date) (decimal.Decimal, bool) {
	mp := s.Meal(date).Person(person)
	if mp == nil || mp.Bought == nil {
		return decimal.Decimal{}, false
	}
	return *mp.Bought, true
}

// CostAmount returns the person's recorded cost amount for a date.
func (s *Snapshot) CostAmount(person PersonID, date Date) (decimal.Decimal, bool) {
	mp := s.Meal(date).Person(person)
	if mp == nil || mp.Cost == nil {
		return decimal.Decimal{}, false
	}
	return *mp.Cost, true
}

// ChosenRestaurant returns the restaurant chosen for a date, or nil.
func (s *Snapshot) ChosenRestaurant(date Date) *Restaurant {
	meal := s.Meal(date)
	if meal == nil {
		return nil
	}
	return meal.Chosen
}

// PeopleWithCost lists everyone with a recorded cost for a date,
// sorted by person so reversal order is deterministic.
func (s *Snapshot) PeopleWithCost(date Date) []PersonCost {
	meal := s.Meal(date)
	if meal == nil {
		return nil
	}
	var costs []PersonCost
	for person, mp := range meal.People {
		if mp.Cost != nil {
			costs = append(costs, PersonCost{Person: person, Amount: *mp.Cost})
		}
	}
	sort.Slice(costs, func(i, j int) bool { return costs[i].Person < costs[j].Person })
	return costs
}

// BalanceList returns balances as a list, in no particular order.
func (s *Snapshot) BalanceList() []Balance {
	if s == nil {
		return nil
	}
	balances := make([]Balance, 0, len(s.Balances))
	for person, amount := range s.Balances {
		balances = append(balances, Balance{Person: person, Amount: amount})
	}
	return balances
}

// RecentMealsAt returns up to limit meals, most recent first, where the
// person attended or ordered and the given restaurant was chosen.
func (s *Snapshot) RecentMealsAt(person PersonID, restaurant RestaurantName, limit int) []*Meal {
	if s == nil || limit <= 0 {
		return nil
	}
	var dates []Date
	for date, meal := range s.Meals {
		if meal.Chosen == nil || meal.Chosen.Name != restaurant {
			continue
		}
		if meal.Person(person) == nil {
			continue
		}
		dates = append(dates, date)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[j].Before(dates[i]) })
	if len(dates) > limit {
		dates = dates[:limit]
	}
	meals := make([]*Meal, 0, len(dates))
	for _, date := range dates {
		meals = append(meals, s.Meals[date])
	}
	return meals
}

// RecentMoneyEvents returns up to limit money events, oldest first.
func (s *Snapshot) RecentMoneyEvents(limit int) []Event {
	if s == nil || limit <= 0 {
		return nil
	}
	events := s.MoneyEvents
	if len(events) > limit {
		events = events[len(events)-limit:]
	}
	return events
}
