package ledger

import (
	"time"

	"github.com/shopspring/decimal"
)

// PersonID identifies a participant.
type PersonID string

// RestaurantName identifies a restaurant.
type RestaurantName string

// InfoType selects the question a Show command asks.
type InfoType string

const (
	InfoBalances      InfoType = "balances"
	InfoPay           InfoType = "pay?"
	InfoPayoffs       InfoType = "payoffs"
	InfoHistory       InfoType = "history"
	InfoMealSummary   InfoType = "meal-summary"
	InfoOrdered       InfoType = "ordered?"
	InfoDiscrepancies InfoType = "discrepancies"
)

// CommandMeta carries the fields shared by every command: who issued
// it, when, and where replies should go.
type CommandMeta struct {
	Requestor PersonID
	TS        time.Time
	ChannelID string
}

// Command is a user request. Each concrete variant carries only the
// payload its command type requires; dispatch is by type switch with a
// default, so unknown variants degrade to no events and no replies.
type Command interface {
	Meta() CommandMeta
}

// Meta returns the shared command fields.
func (m CommandMeta) Meta() CommandMeta { return m }

// SubmitPayment records money handed from the requestor to another person.
type SubmitPayment struct {
	CommandMeta
	Amount decimal.Decimal
	To     PersonID
	Date   Date
}

// SubmitBought records what the requestor spent buying a meal for the group.
type SubmitBought struct {
	CommandMeta
	Amount decimal.Decimal
	Date   Date
}

// SubmitCost records the requestor's share of a meal. PlusTax asks for
// sales tax to be added on top of the amount.
type SubmitCost struct {
	CommandMeta
	Amount  decimal.Decimal
	Date    Date
	PlusTax bool
}

// DeclareIn marks the requestor as attending the meal on Date.
type DeclareIn struct {
	CommandMeta
	Date Date
}

// DeclareOut marks the requestor as not attending the meal on Date.
type DeclareOut struct {
	CommandMeta
	Date Date
}

// ChooseRestaurant selects where the group eats on Date.
type ChooseRestaurant struct {
	CommandMeta
	Restaurant RestaurantName
	Date       Date
}

// SubmitOrder records what the requestor wants to eat on Date.
type SubmitOrder struct {
	CommandMeta
	Food string
	Date Date
}

// Show asks a question about current state; Info selects which one.
type Show struct {
	CommandMeta
	Info InfoType
	Date Date
}

// Help asks for the help document.
type Help struct {
	CommandMeta
}

// Unrecognized is produced by the parser for input it cannot interpret.
type Unrecognized struct {
	CommandMeta
}
