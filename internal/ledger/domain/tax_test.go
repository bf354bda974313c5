package ledger

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestApplySalesTaxRoundsBeforeAdding(t *testing.T) {
	cases := []struct {
		amount string
		rate   string
		want   string
	}{
		{"10.00", "0.0925", "10.93"}, // 0.925 rounds up
		{"1.00", "0.0925", "1.09"},   // 0.0925 rounds down
		{"8.50", "0.0925", "9.29"},   // 0.786 rounds up
		{"10.00", "0.05", "10.50"},
		{"0.00", "0.0925", "0.00"},
	}
	for _, tc := range cases {
		amount := decimal.RequireFromString(tc.amount)
		rate := decimal.RequireFromString(tc.rate)
		got := ApplySalesTax(amount, rate)
		if !got.Equal(decimal.RequireFromString(tc.want)) {
			t.Fatalf("%s at %s: got %s, want %s", tc.amount, tc.rate, got, tc.want)
		}
	}
}

func TestSalesTaxRateForPrefersChosenRestaurant(t *testing.T) {
	date := Date{Year: 2024, Month: time.January, Day: 10}
	rate := decimal.RequireFromString("0.05")
	snapshot := &Snapshot{Meals: map[Date]*Meal{
		date: {Date: date, Chosen: &Restaurant{Name: "taqueria", SalesTaxRate: &rate}},
	}}

	if got := SalesTaxRateFor(snapshot, date); !got.Equal(rate) {
		t.Fatalf("got %s, want 0.05", got)
	}

	// No configured rate on the restaurant: fall back to the default.
	other := Date{Year: 2024, Month: time.January, Day: 11}
	snapshot.Meals[other] = &Meal{Date: other, Chosen: &Restaurant{Name: "popup"}}
	if got := SalesTaxRateFor(snapshot, other); !got.Equal(DefaultSalesTaxRate) {
		t.Fatalf("got %s, want default", got)
	}

	// No restaurant at all.
	if got := SalesTaxRateFor(&Snapshot{}, date); !got.Equal(DefaultSalesTaxRate) {
		t.Fatalf("got %s, want default", got)
	}
}
