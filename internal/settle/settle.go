// Package settle computes balance orderings and settlement suggestions
// from folded ledger state.
package settle

import (
	"sort"

	"github.com/shopspring/decimal"

	ledger "lunchledger/internal/ledger/domain"
)

// Calculator implements the settlement math the reply composer asks
// for. It is stateless.
type Calculator struct{}

// NewCalculator constructs a calculator.
func NewCalculator() *Calculator {
	return &Calculator{}
}

// SortBalances returns a copy sorted ascending by amount, ties broken
// by person so output is stable.
func (c *Calculator) SortBalances(balances []ledger.Balance) []ledger.Balance {
	sorted := append([]ledger.Balance(nil), balances...)
	sort.Slice(sorted, func(i, j int) bool {
		if !sorted[i].Amount.Equal(sorted[j].Amount) {
			return sorted[i].Amount.LessThan(sorted[j].Amount)
		}
		return sorted[i].Person < sorted[j].Person
	})
	return sorted
}

// BestPayment suggests the single payment the person should make: pay
// the most-owed person the smaller of the debt and that person's
// credit. There is no suggestion when the person owes nothing.
func (c *Calculator) BestPayment(person ledger.PersonID, balances []ledger.Balance) (ledger.Payment, bool) {
	var debt decimal.Decimal
	for _, b := range balances {
		if b.Person == person {
			debt = b.Amount
			break
		}
	}
	if debt.Sign() >= 0 {
		return ledger.Payment{}, false
	}

	sorted := c.SortBalances(balances)
	creditor := sorted[len(sorted)-1]
	if creditor.Amount.Sign() <= 0 || creditor.Person == person {
		return ledger.Payment{}, false
	}

	amount := debt.Neg()
	if creditor.Amount.LessThan(amount) {
		amount = creditor.Amount
	}
	return ledger.Payment{From: person, To: creditor.Person, Amount: amount.Round(2)}, true
}

// MinimalPayoffs computes a transaction list that settles every
// balance, greedily matching the largest debtor with the largest
// creditor. For n people with nonzero balances it produces at most n-1
// payments.
func (c *Calculator) MinimalPayoffs(balances []ledger.Balance) []ledger.Payment {
	sorted := c.SortBalances(balances)

	var debtors, creditors []ledger.Balance
	for _, b := range sorted {
		switch {
		case b.Amount.Sign() < 0:
			debtors = append(debtors, b)
		case b.Amount.Sign() > 0:
			creditors = append(creditors, b)
		}
	}
	// Largest creditor last in sorted order; walk it backwards.
	for i, j := 0, len(creditors)-1; i < j; i, j = i+1, j-1 {
		creditors[i], creditors[j] = creditors[j], creditors[i]
	}

	var payments []ledger.Payment
	di, ci := 0, 0
	for di < len(debtors) && ci < len(creditors) {
		owed := debtors[di].Amount.Neg()
		credit := creditors[ci].Amount

		amount := owed
		if credit.LessThan(amount) {
			amount = credit
		}
		if amount.Sign() > 0 {
			payments = append(payments, ledger.Payment{
				From:   debtors[di].Person,
				To:     creditors[ci].Person,
				Amount: amount.Round(2),
			})
		}

		debtors[di].Amount = debtors[di].Amount.Add(amount)
		creditors[ci].Amount = creditors[ci].Amount.Sub(amount)
		if debtors[di].Amount.Sign() == 0 {
			di++
		}
		if creditors[ci].Amount.Sign() == 0 {
			ci++
		}
	}
	return payments
}

// Discrepant reports whether a meal's recorded purchases disagree:
// someone bought food but the bought and cost totals do not match.
func (c *Calculator) Discrepant(meal *ledger.Meal) bool {
	if meal == nil || !meal.HasPurchase() {
		return false
	}
	var bought, cost decimal.Decimal
	for _, mp := range meal.People {
		if mp.Bought != nil {
			bought = bought.Add(*mp.Bought)
		}
		if mp.Cost != nil {
			cost = cost.Add(*mp.Cost)
		}
	}
	return !bought.Equal(cost)
}
