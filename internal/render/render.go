// Package render formats ledger domain objects as chat display text.
package render

import (
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	ledger "lunchledger/internal/ledger/domain"
)

// Text renders domain objects as plain chat text. All methods return ""
// when there is nothing to report.
type Text struct{}

// NewText constructs a text renderer.
func NewText() *Text {
	return &Text{}
}

// Event renders a single event as a one-line description.
func (t *Text) Event(event ledger.Event) string {
	switch event.Type {
	case ledger.EventPaid:
		return fmt.Sprintf("%s paid %s %s", event.Person, event.To, money(event.Amount))
	case ledger.EventBought:
		return fmt.Sprintf("%s bought lunch for %s on %s", event.Person, money(event.Amount), event.Date)
	case ledger.EventUnbought:
		return fmt.Sprintf("removed %s's earlier purchase of %s on %s", event.Person, money(event.Amount), event.Date)
	case ledger.EventCost:
		if event.PretaxAmount.Sign() > 0 {
			return fmt.Sprintf("%s's lunch cost %s on %s (%s + tax)",
				event.Person, money(event.Amount), event.Date, money(event.PretaxAmount))
		}
		return fmt.Sprintf("%s's lunch cost %s on %s", event.Person, money(event.Amount), event.Date)
	case ledger.EventUncost:
		return fmt.Sprintf("removed %s's earlier cost of %s on %s", event.Person, money(event.Amount), event.Date)
	case ledger.EventIn:
		return fmt.Sprintf("%s is in for %s", event.Person, event.Date)
	case ledger.EventOut:
		return fmt.Sprintf("%s is out for %s", event.Person, event.Date)
	case ledger.EventChoose:
		return fmt.Sprintf("%s it is for %s", event.Restaurant, event.Date)
	case ledger.EventOrder:
		return fmt.Sprintf("%s ordered %q for %s", event.Person, event.Food, event.Date)
	default:
		return ""
	}
}

// BalanceTable renders balances one per line, amounts aligned.
func (t *Text) BalanceTable(balances []ledger.Balance) string {
	if len(balances) == 0 {
		return "no balances yet"
	}
	width := 0
	for _, b := range balances {
		if len(b.Person) > width {
			width = len(b.Person)
		}
	}
	var lines []string
	for _, b := range balances {
		lines = append(lines, fmt.Sprintf("%-*s %8s", width, b.Person, money(b.Amount)))
	}
	return strings.Join(lines, "\n")
}

// Payment renders a single suggested payment addressed to its payer.
func (t *Text) Payment(payment ledger.Payment) string {
	return fmt.Sprintf("pay %s %s", payment.To, money(payment.Amount))
}

// PayoffList renders the transactions that settle all balances.
func (t *Text) PayoffList(payments []ledger.Payment) string {
	if len(payments) == 0 {
		return "all settled up"
	}
	var lines []string
	for _, p := range payments {
		lines = append(lines, fmt.Sprintf("%s pays %s %s", p.From, p.To, money(p.Amount)))
	}
	return strings.Join(lines, "\n")
}

// History renders recent money events, oldest first.
func (t *Text) History(events []ledger.Event) string {
	if len(events) == 0 {
		return "no history yet"
	}
	var lines []string
	for _, event := range events {
		if line := t.Event(event); line != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n")
}

// PreOrderSummary renders a meal before anyone has bought: restaurant,
// attendance, and orders so far.
func (t *Text) PreOrderSummary(meal *ledger.Meal, date ledger.Date) string {
	var lines []string
	lines = append(lines, fmt.Sprintf("lunch for %s", date))
	if meal != nil && meal.Chosen != nil {
		lines = append(lines, fmt.Sprintf("restaurant: %s", meal.Chosen.Name))
	} else {
		lines = append(lines, "restaurant: not chosen yet")
	}
	for _, person := range sortedPeople(meal) {
		mp := meal.People[person]
		switch {
		case mp.Order != "":
			lines = append(lines, fmt.Sprintf("%s: in, ordered %q", person, mp.Order))
		case mp.Attendance == ledger.AttendanceOut:
			lines = append(lines, fmt.Sprintf("%s: out", person))
		case mp.Attendance == ledger.AttendanceIn:
			lines = append(lines, fmt.Sprintf("%s: in", person))
		}
	}
	return strings.Join(lines, "\n")
}

// PostOrderSummary renders a meal after purchases: who bought, what
// each share cost, and the totals.
func (t *Text) PostOrderSummary(meal *ledger.Meal, date ledger.Date) string {
	var lines []string
	lines = append(lines, fmt.Sprintf("lunch for %s", date))
	if meal == nil {
		lines = append(lines, "nothing recorded")
		return strings.Join(lines, "\n")
	}
	if meal.Chosen != nil {
		lines = append(lines, fmt.Sprintf("restaurant: %s", meal.Chosen.Name))
	}
	var totalBought, totalCost decimal.Decimal
	for _, person := range sortedPeople(meal) {
		mp := meal.People[person]
		var parts []string
		if mp.Bought != nil {
			totalBought = totalBought.Add(*mp.Bought)
			parts = append(parts, fmt.Sprintf("bought %s", money(*mp.Bought)))
		}
		if mp.Cost != nil {
			totalCost = totalCost.Add(*mp.Cost)
			parts = append(parts, fmt.Sprintf("cost %s", money(*mp.Cost)))
		}
		if len(parts) > 0 {
			lines = append(lines, fmt.Sprintf("%s: %s", person, strings.Join(parts, ", ")))
		}
	}
	lines = append(lines, fmt.Sprintf("total bought %s, total cost %s", money(totalBought), money(totalCost)))
	return strings.Join(lines, "\n")
}

// PersonHistory renders a person's recent meals at a restaurant.
func (t *Text) PersonHistory(person ledger.PersonID, restaurant ledger.RestaurantName, meals []*ledger.Meal) string {
	if len(meals) == 0 {
		return fmt.Sprintf("%s has no history at %s", person, restaurant)
	}
	var lines []string
	lines = append(lines, fmt.Sprintf("%s's recent meals at %s:", person, restaurant))
	for _, meal := range meals {
		mp := meal.Person(person)
		if mp == nil {
			continue
		}
		line := fmt.Sprintf("%s:", meal.Date)
		if mp.Order != "" {
			line += fmt.Sprintf(" ordered %q", mp.Order)
		}
		if mp.Cost != nil {
			line += fmt.Sprintf(" cost %s", money(*mp.Cost))
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

// Discrepancies renders meals whose bought and cost totals disagree.
func (t *Text) Discrepancies(meals []*ledger.Meal) string {
	if len(meals) == 0 {
		return "no discrepancies"
	}
	var lines []string
	for _, meal := range meals {
		var bought, cost decimal.Decimal
		for _, mp := range meal.People {
			if mp.Bought != nil {
				bought = bought.Add(*mp.Bought)
			}
			if mp.Cost != nil {
				cost = cost.Add(*mp.Cost)
			}
		}
		lines = append(lines, fmt.Sprintf("%s: bought %s, cost %s", meal.Date, money(bought), money(cost)))
	}
	return strings.Join(lines, "\n")
}

func money(amount decimal.Decimal) string {
	return "$" + amount.StringFixed(2)
}

func sortedPeople(meal *ledger.Meal) []ledger.PersonID {
	if meal == nil {
		return nil
	}
	people := make([]ledger.PersonID, 0, len(meal.People))
	for person := range meal.People {
		people = append(people, person)
	}
	sort.Slice(people, func(i, j int) bool { return people[i] < people[j] })
	return people
}
