// Package services orchestrates the trip and expense operations: it
// loads snapshots from storage, runs the core engine over them, and
// publishes activity events.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"tripsplit/internal/core"
	"tripsplit/internal/events"
	"tripsplit/internal/storage"
)

var (
	ErrEmptyTripName   = errors.New("trip name cannot be empty")
	ErrEmptyMemberName = errors.New("member display name cannot be empty")

	// ErrMemberHasExpenses blocks deactivating a member the ledger still
	// references; dropping them would make every later balance
	// computation fail on an unresolvable reference.
	ErrMemberHasExpenses = errors.New("member is referenced by recorded expenses")
)

// EventPublisher is the broadcast seam. A nil publisher disables
// broadcasting without disabling the operation itself.
type EventPublisher interface {
	Publish(ctx context.Context, event *events.TripEvent) error
}

// TripService manages trips and their member rosters.
type TripService struct {
	store     storage.Store
	publisher EventPublisher
}

func NewTripService(store storage.Store, publisher EventPublisher) *TripService {
	return &TripService{store: store, publisher: publisher}
}

func (s *TripService) CreateTrip(ctx context.Context, name string) (*storage.Trip, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyTripName
	}

	trip := &storage.Trip{
		ID:        uuid.New().String(),
		Name:      name,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.store.CreateTrip(ctx, trip); err != nil {
		return nil, fmt.Errorf("create trip: %w", err)
	}

	slog.InfoContext(ctx, "Trip created", "trip_id", trip.ID, "operation", "create")
	return trip, nil
}

func (s *TripService) GetTrip(ctx context.Context, tripID string) (*storage.Trip, error) {
	return s.store.GetTrip(ctx, tripID)
}

func (s *TripService) ListTrips(ctx context.Context) ([]storage.Trip, error) {
	return s.store.ListTrips(ctx)
}

// AddMember appends an active member to the trip roster and broadcasts a
// member.joined event.
func (s *TripService) AddMember(ctx context.Context, tripID, displayName string) (core.Member, error) {
	displayName = strings.TrimSpace(displayName)
	if displayName == "" {
		return core.Member{}, ErrEmptyMemberName
	}

	member := core.Member{
		ID:          uuid.New().String(),
		DisplayName: displayName,
		Active:      true,
	}
	if err := s.store.AddMember(ctx, tripID, member); err != nil {
		return core.Member{}, fmt.Errorf("add member: %w", err)
	}

	s.broadcast(ctx, &events.TripEvent{
		ID:         uuid.New().String(),
		TripID:     tripID,
		Kind:       events.KindMemberJoined,
		MemberID:   member.ID,
		Message:    fmt.Sprintf("%s joined the trip", displayName),
		OccurredAt: time.Now().UTC(),
	})

	slog.InfoContext(ctx, "Member added",
		"trip_id", tripID, "member_id", member.ID, "operation", "create")
	return member, nil
}

func (s *TripService) ListMembers(ctx context.Context, tripID string) ([]core.Member, error) {
	if _, err := s.store.GetTrip(ctx, tripID); err != nil {
		return nil, err
	}
	return s.store.ListMembers(ctx, tripID)
}

// DeactivateMember removes a member from future rosters. Membership is
// validated when expenses are created, not when balances are aggregated,
// so a member with ledger history cannot be deactivated. The
// referenced-check runs atomically inside the store; checking here first
// would leave a window for a concurrent expense to slip in a reference.
func (s *TripService) DeactivateMember(ctx context.Context, tripID, memberID string) error {
	if err := s.store.DeactivateMember(ctx, tripID, memberID); err != nil {
		if errors.Is(err, storage.ErrMemberReferenced) {
			return ErrMemberHasExpenses
		}
		return fmt.Errorf("deactivate member: %w", err)
	}

	s.broadcast(ctx, &events.TripEvent{
		ID:         uuid.New().String(),
		TripID:     tripID,
		Kind:       events.KindMemberDeactivated,
		MemberID:   memberID,
		Message:    "a member left the trip",
		OccurredAt: time.Now().UTC(),
	})
	return nil
}

func (s *TripService) Activity(ctx context.Context, tripID string, limit int) ([]storage.ActivityEntry, error) {
	if _, err := s.store.GetTrip(ctx, tripID); err != nil {
		return nil, err
	}
	return s.store.ListActivity(ctx, tripID, limit)
}

// broadcast publishes best-effort: the write already succeeded, a feed
// gap is preferable to failing the request.
func (s *TripService) broadcast(ctx context.Context, event *events.TripEvent) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		slog.ErrorContext(ctx, "Failed to publish trip event",
			"error", err, "event_kind", event.Kind, "trip_id", event.TripID)
	}
}
