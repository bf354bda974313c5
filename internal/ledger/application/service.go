package application

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"lunchledger/internal/aggregate"
	ledger "lunchledger/internal/ledger/domain"
	"lunchledger/internal/observability/metrics"
)

// EventStore is the append-only store the service writes to.
type EventStore interface {
	Append(ctx context.Context, events []ledger.Event) error
	LoadAll(ctx context.Context) ([]ledger.Event, error)
}

// Service runs the command pipeline: derive events, append them, fold
// them into the snapshot, compose replies. Commands are processed one
// at a time so the snapshot each command sees excludes only itself.
type Service struct {
	mu       sync.Mutex
	deriver  *Deriver
	composer *Composer
	store    EventStore
	agg      *aggregate.Aggregator
	settler  Settler
	logger   *log.Logger
}

// NewService constructs the service.
func NewService(deriver *Deriver, composer *Composer, store EventStore, agg *aggregate.Aggregator, settler Settler, logger *log.Logger) (*Service, error) {
	if deriver == nil {
		return nil, errors.New("service: nil deriver")
	}
	if composer == nil {
		return nil, errors.New("service: nil composer")
	}
	if store == nil {
		return nil, errors.New("service: nil store")
	}
	if agg == nil {
		return nil, errors.New("service: nil aggregator")
	}
	if settler == nil {
		return nil, errors.New("service: nil settler")
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Service{
		deriver:  deriver,
		composer: composer,
		store:    store,
		agg:      agg,
		settler:  settler,
		logger:   logger,
	}, nil
}

// Replay rebuilds the snapshot from the full stored stream.
func (s *Service) Replay(ctx context.Context) error {
	events, err := s.store.LoadAll(ctx)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.agg.Apply(events...)
	s.logger.Printf("replayed %d events", len(events))
	return nil
}

// Handle processes one command end to end and returns the replies to
// deliver. The snapshot handed to the deriver reflects every event
// appended before this command, never the command's own events.
func (s *Service) Handle(ctx context.Context, cmd ledger.Command) ([]ledger.Reply, error) {
	start := time.Now()
	s.mu.Lock()
	defer s.mu.Unlock()

	events := s.deriver.Derive(cmd, s.agg.Snapshot())
	if len(events) > 0 {
		if err := s.store.Append(ctx, events); err != nil {
			return nil, err
		}
		s.agg.Apply(events...)
		for _, event := range events {
			metrics.IncEventsAppended(string(event.Type))
		}
	}

	replies := s.composer.Compose(cmd, s.agg.Snapshot(), events)

	metrics.IncCommand(commandTypeName(cmd))
	metrics.AddReplies(len(replies))
	metrics.ObserveCommandLatency(time.Since(start))
	return replies, nil
}

// SetRestaurants swaps the restaurant directory, e.g. after a config
// reload.
func (s *Service) SetRestaurants(restaurants map[ledger.RestaurantName]ledger.Restaurant) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.agg.SetRestaurants(restaurants)
}

// Balances returns current balances sorted largest-owed first.
func (s *Service) Balances() []ledger.Balance {
	s.mu.Lock()
	defer s.mu.Unlock()
	sorted := s.settler.SortBalances(s.agg.Snapshot().BalanceList())
	for i, j := 0, len(sorted)-1; i < j; i, j = i+1, j-1 {
		sorted[i], sorted[j] = sorted[j], sorted[i]
	}
	return sorted
}

// MealFor returns a detached copy of the meal record for a date, or
// nil when nothing is recorded.
func (s *Service) MealFor(date ledger.Date) *ledger.Meal {
	s.mu.Lock()
	defer s.mu.Unlock()
	meal := s.agg.Snapshot().Meal(date)
	if meal == nil {
		return nil
	}
	copy := &ledger.Meal{Date: meal.Date, People: make(map[ledger.PersonID]*ledger.MealPerson, len(meal.People))}
	if meal.Chosen != nil {
		chosen := *meal.Chosen
		copy.Chosen = &chosen
	}
	for person, mp := range meal.People {
		mpCopy := *mp
		copy.People[person] = &mpCopy
	}
	return copy
}

// StatementFor summarizes a month's meals for export.
func (s *Service) StatementFor(year int, month time.Month) Statement {
	s.mu.Lock()
	defer s.mu.Unlock()
	return buildStatement(s.agg.Snapshot(), year, month)
}

func commandTypeName(cmd ledger.Command) string {
	switch c := cmd.(type) {
	case ledger.SubmitPayment:
		return "submit-payment"
	case ledger.SubmitBought:
		return "submit-bought"
	case ledger.SubmitCost:
		return "submit-cost"
	case ledger.DeclareIn:
		return "declare-in"
	case ledger.DeclareOut:
		return "declare-out"
	case ledger.ChooseRestaurant:
		return "choose-restaurant"
	case ledger.SubmitOrder:
		return "submit-order"
	case ledger.Show:
		return "show " + string(c.Info)
	case ledger.Help:
		return "help"
	case ledger.Unrecognized:
		return "unrecognized"
	default:
		return "unknown"
	}
}
