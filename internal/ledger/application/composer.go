package application

import (
	"errors"
	"sort"
	"strings"

	ledger "lunchledger/internal/ledger/domain"
)

const (
	msgUnrecognized = "huh? try help"
	msgNothingOwed  = "you don't owe anyone money, sit back and relax"
	msgNoRestaurant = "no restaurant chosen for today, someone should choose one"

	historyLimit       = 20
	personHistoryLimit = 3
)

// Renderer turns domain objects into display strings. An empty string
// means "nothing to report" and suppresses the reply line.
type Renderer interface {
	Event(event ledger.Event) string
	BalanceTable(balances []ledger.Balance) string
	Payment(payment ledger.Payment) string
	PayoffList(payments []ledger.Payment) string
	History(events []ledger.Event) string
	PreOrderSummary(meal *ledger.Meal, date ledger.Date) string
	PostOrderSummary(meal *ledger.Meal, date ledger.Date) string
	PersonHistory(person ledger.PersonID, restaurant ledger.RestaurantName, meals []*ledger.Meal) string
	Discrepancies(meals []*ledger.Meal) string
}

// Settler computes balance orderings and settlement suggestions.
type Settler interface {
	SortBalances(balances []ledger.Balance) []ledger.Balance
	BestPayment(person ledger.PersonID, balances []ledger.Balance) (ledger.Payment, bool)
	MinimalPayoffs(balances []ledger.Balance) []ledger.Payment
	Discrepant(meal *ledger.Meal) bool
}

// HelpSource supplies the static help document.
type HelpSource interface {
	HelpText() string
}

// Composer translates a command into replies: echo commands render the
// events they just produced, query commands answer from the snapshot.
// That separation is a routing invariant, not an accident.
type Composer struct {
	renderer Renderer
	settler  Settler
	help     HelpSource
}

// NewComposer constructs a composer.
func NewComposer(renderer Renderer, settler Settler, help HelpSource) (*Composer, error) {
	if renderer == nil {
		return nil, errors.New("composer: nil renderer")
	}
	if settler == nil {
		return nil, errors.New("composer: nil settler")
	}
	if help == nil {
		return nil, errors.New("composer: nil help source")
	}
	return &Composer{renderer: renderer, settler: settler, help: help}, nil
}

// Compose returns the replies a command produces, each addressed to the
// command's channel. Unknown commands and unknown show questions
// produce no replies.
func (c *Composer) Compose(cmd ledger.Command, snapshot *ledger.Snapshot, events []ledger.Event) []ledger.Reply {
	meta := cmd.Meta()
	switch cm := cmd.(type) {
	case ledger.SubmitPayment, ledger.SubmitBought, ledger.SubmitCost,
		ledger.DeclareIn, ledger.DeclareOut, ledger.ChooseRestaurant, ledger.SubmitOrder:
		return c.echo(meta, events)
	case ledger.Show:
		return c.answer(cm, snapshot)
	case ledger.Help:
		return c.reply(meta, c.help.HelpText())
	case ledger.Unrecognized:
		return c.reply(meta, msgUnrecognized)
	default:
		return nil
	}
}

// echo renders just-produced events, one line per event. No events, or
// nothing renderable, means no reply.
func (c *Composer) echo(meta ledger.CommandMeta, events []ledger.Event) []ledger.Reply {
	var lines []string
	for _, event := range events {
		if line := c.renderer.Event(event); line != "" {
			lines = append(lines, line)
		}
	}
	if len(lines) == 0 {
		return nil
	}
	return c.reply(meta, strings.Join(lines, "\n"))
}

// answer resolves a show question from the snapshot alone.
func (c *Composer) answer(cmd ledger.Show, snapshot *ledger.Snapshot) []ledger.Reply {
	switch cmd.Info {
	case ledger.InfoBalances:
		sorted := c.settler.SortBalances(snapshot.BalanceList())
		reverse(sorted)
		return c.reply(cmd.CommandMeta, c.renderer.BalanceTable(sorted))
	case ledger.InfoPay:
		payment, ok := c.settler.BestPayment(cmd.Requestor, snapshot.BalanceList())
		if !ok {
			return c.reply(cmd.CommandMeta, msgNothingOwed)
		}
		return c.reply(cmd.CommandMeta, c.renderer.Payment(payment))
	case ledger.InfoPayoffs:
		payments := c.settler.MinimalPayoffs(snapshot.BalanceList())
		return c.reply(cmd.CommandMeta, c.renderer.PayoffList(payments))
	case ledger.InfoHistory:
		return c.reply(cmd.CommandMeta, c.renderer.History(snapshot.RecentMoneyEvents(historyLimit)))
	case ledger.InfoMealSummary:
		return c.mealSummary(cmd, snapshot)
	case ledger.InfoOrdered:
		return c.ordered(cmd, snapshot)
	case ledger.InfoDiscrepancies:
		return c.discrepancies(cmd, snapshot)
	default:
		return nil
	}
}

func (c *Composer) mealSummary(cmd ledger.Show, snapshot *ledger.Snapshot) []ledger.Reply {
	date := cmd.Date
	today := ledger.DateOf(cmd.TS)
	if date.IsZero() {
		date = today
	}
	meal := snapshot.Meal(date)
	if date.Before(today) || meal.HasPurchase() {
		return c.reply(cmd.CommandMeta, c.renderer.PostOrderSummary(meal, date))
	}
	return c.reply(cmd.CommandMeta, c.renderer.PreOrderSummary(meal, date))
}

func (c *Composer) ordered(cmd ledger.Show, snapshot *ledger.Snapshot) []ledger.Reply {
	today := ledger.DateOf(cmd.TS)
	chosen := snapshot.ChosenRestaurant(today)
	if chosen == nil {
		return c.reply(cmd.CommandMeta, msgNoRestaurant)
	}
	meals := snapshot.RecentMealsAt(cmd.Requestor, chosen.Name, personHistoryLimit)
	return c.reply(cmd.CommandMeta, c.renderer.PersonHistory(cmd.Requestor, chosen.Name, meals))
}

func (c *Composer) discrepancies(cmd ledger.Show, snapshot *ledger.Snapshot) []ledger.Reply {
	var flagged []*ledger.Meal
	for _, date := range sortedMealDates(snapshot) {
		if meal := snapshot.Meals[date]; c.settler.Discrepant(meal) {
			flagged = append(flagged, meal)
		}
	}
	return c.reply(cmd.CommandMeta, c.renderer.Discrepancies(flagged))
}

func (c *Composer) reply(meta ledger.CommandMeta, text string) []ledger.Reply {
	if text == "" {
		return nil
	}
	return []ledger.Reply{{ChannelID: meta.ChannelID, Text: text}}
}

func reverse(balances []ledger.Balance) {
	for i, j := 0, len(balances)-1; i < j; i, j = i+1, j-1 {
		balances[i], balances[j] = balances[j], balances[i]
	}
}

func sortedMealDates(snapshot *ledger.Snapshot) []ledger.Date {
	if snapshot == nil {
		return nil
	}
	dates := make([]ledger.Date, 0, len(snapshot.Meals))
	for date := range snapshot.Meals {
		dates = append(dates, date)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
	return dates
}
