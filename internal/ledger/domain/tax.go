package ledger

import "github.com/shopspring/decimal"

// DefaultSalesTaxRate applies when the chosen restaurant has no
// configured rate.
var DefaultSalesTaxRate = decimal.RequireFromString("0.0925")

// ApplySalesTax adds sales tax to a currency amount. The tax is rounded
// half-up to 2 decimal places before it is added, so 10.00 at the
// default rate yields 10.93.
func ApplySalesTax(amount decimal.Decimal, rate decimal.Decimal) decimal.Decimal {
	tax := amount.Mul(rate).Round(2)
	return amount.Add(tax)
}

// SalesTaxRateFor resolves the rate for a date: the chosen restaurant's
// configured rate when present, else the default.
func SalesTaxRateFor(snapshot *Snapshot, date Date) decimal.Decimal {
	if chosen := snapshot.ChosenRestaurant(date); chosen != nil && chosen.SalesTaxRate != nil {
		return *chosen.SalesTaxRate
	}
	return DefaultSalesTaxRate
}
