package application

import (
	"context"
	"io"
	"log"
	"testing"
	"time"

	"lunchledger/internal/aggregate"
	ledger "lunchledger/internal/ledger/domain"
	"lunchledger/internal/ledger/infrastructure/memory"
	"lunchledger/internal/render"
	"lunchledger/internal/settle"
)

func newTestService(t *testing.T, store EventStore) *Service {
	t.Helper()
	settler := settle.NewCalculator()
	help, err := NewFileHelp("")
	if err != nil {
		t.Fatalf("help: %v", err)
	}
	composer, err := NewComposer(render.NewText(), settler, help)
	if err != nil {
		t.Fatalf("composer: %v", err)
	}
	logger := log.New(io.Discard, "", 0)
	service, err := NewService(NewDeriver(), composer, store, aggregate.New(nil), settler, logger)
	if err != nil {
		t.Fatalf("service: %v", err)
	}
	return service
}

func meta(person ledger.PersonID) ledger.CommandMeta {
	return ledger.CommandMeta{Requestor: person, TS: testTS, ChannelID: "lunch"}
}

func TestHandleBoughtEchoesRenderedEvent(t *testing.T) {
	store := memory.NewEventStore()
	service := newTestService(t, store)
	ctx := context.Background()

	replies, err := service.Handle(ctx, ledger.SubmitBought{
		CommandMeta: meta("alice"),
		Amount:      dec("12.00"),
		Date:        testDate,
	})
	if err != nil {
		t.Fatalf("handle: %v", err)
	}

	stored, _ := store.LoadAll(ctx)
	if len(stored) != 1 {
		t.Fatalf("expected 1 stored event, got %d", len(stored))
	}
	if stored[0].Type != ledger.EventBought || stored[0].Person != "alice" || !stored[0].Amount.Equal(dec("12.00")) {
		t.Fatalf("unexpected stored event: %+v", stored[0])
	}

	if len(replies) != 1 {
		t.Fatalf("expected 1 reply, got %d", len(replies))
	}
	want := "alice bought lunch for $12.00 on 2024-01-10"
	if replies[0].Text != want {
		t.Fatalf("reply %q, want %q", replies[0].Text, want)
	}
	if replies[0].ChannelID != "lunch" {
		t.Fatalf("reply channel %q", replies[0].ChannelID)
	}
}

func TestHandleCorrectionThenBalances(t *testing.T) {
	store := memory.NewEventStore()
	service := newTestService(t, store)
	ctx := context.Background()

	mustHandle := func(cmd ledger.Command) []ledger.Reply {
		t.Helper()
		replies, err := service.Handle(ctx, cmd)
		if err != nil {
			t.Fatalf("handle %T: %v", cmd, err)
		}
		return replies
	}

	mustHandle(ledger.SubmitBought{CommandMeta: meta("alice"), Amount: dec("10.00"), Date: testDate})
	replies := mustHandle(ledger.SubmitBought{CommandMeta: meta("alice"), Amount: dec("15.00"), Date: testDate})

	// The correction echoes both the reversal and the new purchase.
	want := "removed alice's earlier purchase of $10.00 on 2024-01-10\nalice bought lunch for $15.00 on 2024-01-10"
	if len(replies) != 1 || replies[0].Text != want {
		t.Fatalf("correction reply %+v, want %q", replies, want)
	}

	mustHandle(ledger.SubmitCost{CommandMeta: meta("bob"), Amount: dec("6.00"), Date: testDate})

	balances := service.Balances()
	if len(balances) != 2 {
		t.Fatalf("expected 2 balances, got %+v", balances)
	}
	if balances[0].Person != "alice" || !balances[0].Amount.Equal(dec("15.00")) {
		t.Fatalf("unexpected first balance: %+v", balances[0])
	}
	if balances[1].Person != "bob" || !balances[1].Amount.Equal(dec("-6.00")) {
		t.Fatalf("unexpected second balance: %+v", balances[1])
	}
}

func TestHandleQueryAppendsNothing(t *testing.T) {
	store := memory.NewEventStore()
	service := newTestService(t, store)
	ctx := context.Background()

	replies, err := service.Handle(ctx, ledger.Show{CommandMeta: meta("alice"), Info: ledger.InfoBalances})
	if err != nil {
		t.Fatalf("handle: %v", err)
	}
	if len(replies) != 1 || replies[0].Text != "no balances yet" {
		t.Fatalf("unexpected replies: %+v", replies)
	}

	stored, _ := store.LoadAll(ctx)
	if len(stored) != 0 {
		t.Fatalf("query appended events: %+v", stored)
	}
}

func TestReplayRebuildsSnapshot(t *testing.T) {
	store := memory.NewEventStore()
	ctx := context.Background()

	first := newTestService(t, store)
	if _, err := first.Handle(ctx, ledger.SubmitBought{CommandMeta: meta("alice"), Amount: dec("20.00"), Date: testDate}); err != nil {
		t.Fatalf("handle: %v", err)
	}
	if _, err := first.Handle(ctx, ledger.SubmitCost{CommandMeta: meta("bob"), Amount: dec("8.00"), Date: testDate}); err != nil {
		t.Fatalf("handle: %v", err)
	}

	// A fresh service over the same store converges to the same state.
	second := newTestService(t, store)
	if err := second.Replay(ctx); err != nil {
		t.Fatalf("replay: %v", err)
	}

	want := first.Balances()
	got := second.Balances()
	if len(got) != len(want) {
		t.Fatalf("balance count %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i].Person != want[i].Person || !got[i].Amount.Equal(want[i].Amount) {
			t.Fatalf("balance %d: got %+v, want %+v", i, got[i], want[i])
		}
	}

	meal := second.MealFor(testDate)
	if meal == nil {
		t.Fatal("meal missing after replay")
	}
	if meal.Person("alice").Bought == nil || !meal.Person("alice").Bought.Equal(dec("20.00")) {
		t.Fatalf("alice bought not rebuilt: %+v", meal.Person("alice"))
	}
}

func TestStatementForSummarizesMonth(t *testing.T) {
	store := memory.NewEventStore()
	service := newTestService(t, store)
	ctx := context.Background()

	jan := testDate
	feb := ledger.Date{Year: 2024, Month: time.February, Day: 2}
	for _, cmd := range []ledger.Command{
		ledger.ChooseRestaurant{CommandMeta: meta("alice"), Restaurant: "taqueria", Date: jan},
		ledger.SubmitBought{CommandMeta: meta("alice"), Amount: dec("20.00"), Date: jan},
		ledger.SubmitCost{CommandMeta: meta("bob"), Amount: dec("8.00"), Date: jan},
		ledger.SubmitBought{CommandMeta: meta("carol"), Amount: dec("30.00"), Date: feb},
	} {
		if _, err := service.Handle(ctx, cmd); err != nil {
			t.Fatalf("handle %T: %v", cmd, err)
		}
	}

	stmt := service.StatementFor(2024, time.January)
	if len(stmt.Items) != 1 {
		t.Fatalf("expected 1 item, got %+v", stmt.Items)
	}
	item := stmt.Items[0]
	if item.Date != jan || item.Restaurant != "taqueria" {
		t.Fatalf("unexpected item: %+v", item)
	}
	if !stmt.TotalBought.Equal(dec("20.00")) || !stmt.TotalCost.Equal(dec("8.00")) {
		t.Fatalf("totals bought=%s cost=%s", stmt.TotalBought, stmt.TotalCost)
	}
}
