// Package chatparse turns raw chat text into ledger commands.
package chatparse

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	ledger "lunchledger/internal/ledger/domain"
)

// Parser interprets one chat message as a command. Anything it cannot
// interpret becomes an Unrecognized command; the parser never fails.
type Parser struct{}

// NewParser constructs a parser.
func NewParser() *Parser {
	return &Parser{}
}

// Parse interprets a message from requestor in channelID, sent at ts.
// Dates in the text are resolved relative to ts; commands that accept a
// date default to the day the message was sent.
func (p *Parser) Parse(requestor ledger.PersonID, channelID, text string, ts time.Time) ledger.Command {
	meta := ledger.CommandMeta{Requestor: requestor, TS: ts, ChannelID: channelID}
	today := ledger.DateOf(ts)

	fields := strings.Fields(text)
	if len(fields) == 0 {
		return ledger.Unrecognized{CommandMeta: meta}
	}
	keyword := strings.ToLower(fields[0])
	args := fields[1:]

	switch keyword {
	case "paid":
		return parsePaid(meta, today, args)
	case "bought":
		return parseBought(meta, today, args)
	case "cost":
		return parseCost(meta, today, args)
	case "in":
		return ledger.DeclareIn{CommandMeta: meta, Date: dateOrDefault(args, today)}
	case "out":
		return ledger.DeclareOut{CommandMeta: meta, Date: dateOrDefault(args, today)}
	case "choose":
		if len(args) == 0 {
			return ledger.Unrecognized{CommandMeta: meta}
		}
		return ledger.ChooseRestaurant{
			CommandMeta: meta,
			Restaurant:  ledger.RestaurantName(strings.Join(args, " ")),
			Date:        today,
		}
	case "order":
		if len(args) == 0 {
			return ledger.Unrecognized{CommandMeta: meta}
		}
		return ledger.SubmitOrder{CommandMeta: meta, Food: strings.Join(args, " "), Date: today}
	case "show":
		return parseShow(meta, today, args)
	case "balances", "pay?", "payoffs", "history", "meal-summary", "ordered?", "discrepancies":
		return parseShow(meta, today, fields)
	case "help", "?":
		return ledger.Help{CommandMeta: meta}
	default:
		return ledger.Unrecognized{CommandMeta: meta}
	}
}

func parsePaid(meta ledger.CommandMeta, today ledger.Date, args []string) ledger.Command {
	if len(args) < 2 {
		return ledger.Unrecognized{CommandMeta: meta}
	}
	amount, ok := parseAmount(args[1])
	if !ok {
		return ledger.Unrecognized{CommandMeta: meta}
	}
	return ledger.SubmitPayment{
		CommandMeta: meta,
		To:          ledger.PersonID(args[0]),
		Amount:      amount,
		Date:        dateOrDefault(args[2:], today),
	}
}

func parseBought(meta ledger.CommandMeta, today ledger.Date, args []string) ledger.Command {
	if len(args) < 1 {
		return ledger.Unrecognized{CommandMeta: meta}
	}
	amount, ok := parseAmount(args[0])
	if !ok {
		return ledger.Unrecognized{CommandMeta: meta}
	}
	return ledger.SubmitBought{CommandMeta: meta, Amount: amount, Date: dateOrDefault(args[1:], today)}
}

func parseCost(meta ledger.CommandMeta, today ledger.Date, args []string) ledger.Command {
	if len(args) < 1 {
		return ledger.Unrecognized{CommandMeta: meta}
	}
	token := args[0]
	plusTax := false
	if rest, found := strings.CutSuffix(strings.ToLower(token), "+tax"); found {
		plusTax = true
		token = rest
	}
	amount, ok := parseAmount(token)
	if !ok {
		return ledger.Unrecognized{CommandMeta: meta}
	}
	return ledger.SubmitCost{
		CommandMeta: meta,
		Amount:      amount,
		PlusTax:     plusTax,
		Date:        dateOrDefault(args[1:], today),
	}
}

func parseShow(meta ledger.CommandMeta, today ledger.Date, args []string) ledger.Command {
	if len(args) == 0 {
		return ledger.Unrecognized{CommandMeta: meta}
	}
	info := ledger.InfoType(strings.ToLower(args[0]))
	switch info {
	case ledger.InfoBalances, ledger.InfoPay, ledger.InfoPayoffs, ledger.InfoHistory,
		ledger.InfoOrdered, ledger.InfoDiscrepancies:
		return ledger.Show{CommandMeta: meta, Info: info}
	case ledger.InfoMealSummary:
		return ledger.Show{CommandMeta: meta, Info: info, Date: dateOrDefault(args[1:], today)}
	default:
		return ledger.Unrecognized{CommandMeta: meta}
	}
}

func parseAmount(token string) (decimal.Decimal, bool) {
	token = strings.TrimPrefix(token, "$")
	amount, err := decimal.NewFromString(token)
	if err != nil || amount.Sign() < 0 {
		return decimal.Decimal{}, false
	}
	return amount, true
}

// dateOrDefault parses the first argument as a date when present,
// else returns the fallback. An unparseable date also falls back.
func dateOrDefault(args []string, fallback ledger.Date) ledger.Date {
	if len(args) == 0 {
		return fallback
	}
	if date, ok := parseDate(args[0], fallback); ok {
		return date
	}
	return fallback
}

// parseDate accepts today, yesterday, weekday names (the most recent
// occurrence not after today), and 2006-01-02.
func parseDate(token string, today ledger.Date) (ledger.Date, bool) {
	switch strings.ToLower(token) {
	case "today":
		return today, true
	case "yesterday":
		return today.AddDays(-1), true
	}
	if weekday, ok := weekdays[strings.ToLower(token)]; ok {
		date := today
		for date.Time().Weekday() != weekday {
			date = date.AddDays(-1)
		}
		return date, true
	}
	if date, err := ledger.ParseDate(token); err == nil {
		return date, true
	}
	return ledger.Date{}, false
}

var weekdays = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}
