package settle

import (
	"testing"

	"github.com/shopspring/decimal"

	ledger "lunchledger/internal/ledger/domain"
)

func dec(value string) decimal.Decimal {
	return decimal.RequireFromString(value)
}

func balance(person ledger.PersonID, amount string) ledger.Balance {
	return ledger.Balance{Person: person, Amount: dec(amount)}
}

func TestSortBalancesAscendingWithTiebreak(t *testing.T) {
	c := NewCalculator()
	input := []ledger.Balance{
		balance("carol", "3.00"),
		balance("bob", "-5.00"),
		balance("dave", "3.00"),
		balance("alice", "-1.00"),
	}
	sorted := c.SortBalances(input)

	want := []ledger.PersonID{"bob", "alice", "carol", "dave"}
	for i, person := range want {
		if sorted[i].Person != person {
			t.Fatalf("position %d: got %s, want %s", i, sorted[i].Person, person)
		}
	}
	// The input must not be reordered.
	if input[0].Person != "carol" {
		t.Fatalf("input mutated: %+v", input)
	}
}

func TestBestPaymentPicksLargestCreditor(t *testing.T) {
	c := NewCalculator()
	balances := []ledger.Balance{
		balance("alice", "-4.00"),
		balance("bob", "10.00"),
		balance("carol", "-6.00"),
	}
	payment, ok := c.BestPayment("alice", balances)
	if !ok {
		t.Fatal("expected a suggestion")
	}
	if payment.From != "alice" || payment.To != "bob" || !payment.Amount.Equal(dec("4.00")) {
		t.Fatalf("unexpected payment: %+v", payment)
	}
}

func TestBestPaymentCappedByCredit(t *testing.T) {
	c := NewCalculator()
	balances := []ledger.Balance{
		balance("alice", "-10.00"),
		balance("bob", "3.00"),
		balance("carol", "7.00"),
	}
	payment, ok := c.BestPayment("alice", balances)
	if !ok {
		t.Fatal("expected a suggestion")
	}
	if payment.To != "carol" || !payment.Amount.Equal(dec("7.00")) {
		t.Fatalf("unexpected payment: %+v", payment)
	}
}

func TestBestPaymentNoneWhenNotInDebt(t *testing.T) {
	c := NewCalculator()
	balances := []ledger.Balance{
		balance("alice", "2.00"),
		balance("bob", "-2.00"),
	}
	if _, ok := c.BestPayment("alice", balances); ok {
		t.Fatal("creditor should get no suggestion")
	}
	if _, ok := c.BestPayment("dave", balances); ok {
		t.Fatal("unknown person should get no suggestion")
	}
}

func TestMinimalPayoffsSettlesEveryone(t *testing.T) {
	c := NewCalculator()
	balances := []ledger.Balance{
		balance("alice", "-7.00"),
		balance("bob", "10.00"),
		balance("carol", "-3.00"),
	}
	payments := c.MinimalPayoffs(balances)

	if len(payments) != 2 {
		t.Fatalf("expected 2 payments, got %+v", payments)
	}
	if payments[0].From != "alice" || payments[0].To != "bob" || !payments[0].Amount.Equal(dec("7.00")) {
		t.Fatalf("unexpected first payment: %+v", payments[0])
	}
	if payments[1].From != "carol" || payments[1].To != "bob" || !payments[1].Amount.Equal(dec("3.00")) {
		t.Fatalf("unexpected second payment: %+v", payments[1])
	}
}

func TestMinimalPayoffsSplitsAcrossCreditors(t *testing.T) {
	c := NewCalculator()
	balances := []ledger.Balance{
		balance("alice", "-9.00"),
		balance("bob", "5.00"),
		balance("carol", "4.00"),
	}
	payments := c.MinimalPayoffs(balances)

	if len(payments) != 2 {
		t.Fatalf("expected 2 payments, got %+v", payments)
	}
	if payments[0].To != "bob" || !payments[0].Amount.Equal(dec("5.00")) {
		t.Fatalf("unexpected first payment: %+v", payments[0])
	}
	if payments[1].To != "carol" || !payments[1].Amount.Equal(dec("4.00")) {
		t.Fatalf("unexpected second payment: %+v", payments[1])
	}
}

func TestMinimalPayoffsAllSettled(t *testing.T) {
	c := NewCalculator()
	balances := []ledger.Balance{
		balance("alice", "0.00"),
		balance("bob", "0.00"),
	}
	if payments := c.MinimalPayoffs(balances); len(payments) != 0 {
		t.Fatalf("expected no payments, got %+v", payments)
	}
}

func TestDiscrepant(t *testing.T) {
	c := NewCalculator()

	if c.Discrepant(nil) {
		t.Fatal("nil meal flagged")
	}
	if c.Discrepant(&ledger.Meal{}) {
		t.Fatal("empty meal flagged")
	}

	bought := dec("20.00")
	costA := dec("12.00")
	costB := dec("8.00")
	balanced := &ledger.Meal{People: map[ledger.PersonID]*ledger.MealPerson{
		"alice": {Bought: &bought, Cost: &costA},
		"bob":   {Cost: &costB},
	}}
	if c.Discrepant(balanced) {
		t.Fatal("balanced meal flagged")
	}

	short := dec("5.00")
	unbalanced := &ledger.Meal{People: map[ledger.PersonID]*ledger.MealPerson{
		"alice": {Bought: &bought},
		"bob":   {Cost: &short},
	}}
	if !c.Discrepant(unbalanced) {
		t.Fatal("unbalanced meal not flagged")
	}
}
