package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"tripsplit/internal/core"
	"tripsplit/internal/events"
	"tripsplit/internal/storage"
)

// ErrAmbiguousSplits is returned when a request supplies both equal-split
// participants and explicit splits.
var ErrAmbiguousSplits = errors.New("provide participants or explicit splits, not both")

// CreateExpenseInput carries one expense submission. Exactly one of
// Participants (equal split) or Splits (explicit amounts) must be set.
type CreateExpenseInput struct {
	PayerID      string
	Amount       core.Money
	Category     string
	Participants []string
	Splits       []core.Split
}

// ExpenseService records expenses and derives balance sheets.
type ExpenseService struct {
	store     storage.Store
	publisher EventPublisher
}

func NewExpenseService(store storage.Store, publisher EventPublisher) *ExpenseService {
	return &ExpenseService{store: store, publisher: publisher}
}

// CreateExpense validates the submission against the trip's current
// roster, persists the record, and broadcasts an expense.created event.
// All split validation happens here, at construction time; aggregation
// never has to tolerate a bad reference later.
func (s *ExpenseService) CreateExpense(ctx context.Context, tripID string, in CreateExpenseInput) (*core.ExpenseRecord, error) {
	if _, err := s.store.GetTrip(ctx, tripID); err != nil {
		return nil, err
	}
	if len(in.Participants) > 0 && len(in.Splits) > 0 {
		return nil, ErrAmbiguousSplits
	}

	members, err := s.store.ListMembers(ctx, tripID)
	if err != nil {
		return nil, fmt.Errorf("load members: %w", err)
	}
	roster := core.NewRoster(members)

	var rec *core.ExpenseRecord
	if len(in.Splits) > 0 {
		rec, err = core.NewExpenseWithSplits(roster, in.PayerID, in.Amount, in.Category, in.Splits)
	} else {
		rec, err = core.NewEqualExpense(roster, in.PayerID, in.Amount, in.Category, in.Participants)
	}
	if err != nil {
		return nil, err
	}

	if err := s.store.AppendExpense(ctx, tripID, rec); err != nil {
		return nil, fmt.Errorf("append expense: %w", err)
	}

	payerName := rec.PayerID
	if m, ok := roster.Member(rec.PayerID); ok {
		payerName = m.DisplayName
	}
	s.broadcast(ctx, &events.TripEvent{
		ID:          uuid.New().String(),
		TripID:      tripID,
		Kind:        events.KindExpenseCreated,
		MemberID:    rec.PayerID,
		ExpenseID:   rec.ID,
		AmountCents: rec.Amount.Cents,
		Category:    rec.Category,
		Message:     fmt.Sprintf("%s paid %s", payerName, rec.Amount),
		OccurredAt:  time.Now().UTC(),
	})

	slog.InfoContext(ctx, "Expense recorded",
		"trip_id", tripID,
		"expense_id", rec.ID,
		"payer_id", rec.PayerID,
		"amount_cents", rec.Amount.Cents,
		"category", rec.Category,
		"operation", "create")
	return rec, nil
}

func (s *ExpenseService) ListExpenses(ctx context.Context, tripID string) (core.Ledger, error) {
	if _, err := s.store.GetTrip(ctx, tripID); err != nil {
		return nil, err
	}
	return s.store.ListExpenses(ctx, tripID)
}

// BalanceSheet recomputes the trip's balance sheet from the stored ledger
// and the current roster. Nothing is cached between calls: the sheet
// always reflects the ledger as persisted at this moment.
func (s *ExpenseService) BalanceSheet(ctx context.Context, tripID string) (*core.BalanceSheet, error) {
	if _, err := s.store.GetTrip(ctx, tripID); err != nil {
		return nil, err
	}

	members, err := s.store.ListMembers(ctx, tripID)
	if err != nil {
		return nil, fmt.Errorf("load members: %w", err)
	}
	ledger, err := s.store.ListExpenses(ctx, tripID)
	if err != nil {
		return nil, fmt.Errorf("load expenses: %w", err)
	}

	sheet, err := core.ComputeBalanceSheet(ledger, members)
	if err != nil {
		return nil, fmt.Errorf("compute balance sheet: %w", err)
	}

	slog.DebugContext(ctx, "Balance sheet computed",
		"trip_id", tripID,
		"expenses", len(ledger),
		"transfers", len(sheet.Settlement),
		"operation", "compute")
	return sheet, nil
}

func (s *ExpenseService) broadcast(ctx context.Context, event *events.TripEvent) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		slog.ErrorContext(ctx, "Failed to publish trip event",
			"error", err, "event_kind", event.Kind, "trip_id", event.TripID)
	}
}
