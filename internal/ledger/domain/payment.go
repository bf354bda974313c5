package ledger

import "github.com/shopspring/decimal"

// Payment is a suggested transfer between two people.
type Payment struct {
	From   PersonID
	To     PersonID
	Amount decimal.Decimal
}
