package application

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	ledger "lunchledger/internal/ledger/domain"
)

// Statement summarizes one month of meals for export.
type Statement struct {
	Year        int
	Month       time.Month
	Items       []StatementItem
	TotalBought decimal.Decimal
	TotalCost   decimal.Decimal
}

// StatementItem is one meal day in a statement.
type StatementItem struct {
	Date       ledger.Date
	Restaurant ledger.RestaurantName
	Bought     decimal.Decimal
	Cost       decimal.Decimal
}

func buildStatement(snapshot *ledger.Snapshot, year int, month time.Month) Statement {
	stmt := Statement{Year: year, Month: month}
	for date, meal := range snapshot.Meals {
		if date.Year != year || date.Month != month {
			continue
		}
		item := StatementItem{Date: date}
		if meal.Chosen != nil {
			item.Restaurant = meal.Chosen.Name
		}
		for _, mp := range meal.People {
			if mp.Bought != nil {
				item.Bought = item.Bought.Add(*mp.Bought)
			}
			if mp.Cost != nil {
				item.Cost = item.Cost.Add(*mp.Cost)
			}
		}
		stmt.Items = append(stmt.Items, item)
		stmt.TotalBought = stmt.TotalBought.Add(item.Bought)
		stmt.TotalCost = stmt.TotalCost.Add(item.Cost)
	}
	sort.Slice(stmt.Items, func(i, j int) bool { return stmt.Items[i].Date.Before(stmt.Items[j].Date) })
	return stmt
}
