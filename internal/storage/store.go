// Package storage provides persistence for trips, members, expenses and
// the activity feed. Three backends implement the same Store interface:
// SQLite, Postgres and an in-memory store used in tests.
package storage

import (
	"context"
	"errors"
	"time"

	"tripsplit/internal/core"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("not found")

// ErrMemberReferenced is returned by DeactivateMember when the trip's
// ledger still references the member.
var ErrMemberReferenced = errors.New("member is referenced by expenses")

// Trip is one planned trip owning a member roster and a ledger.
type Trip struct {
	ID        string
	Name      string
	CreatedAt time.Time
}

// ActivityEntry is one row of a trip's activity feed, written by the
// worker from broker events.
type ActivityEntry struct {
	ID         string
	TripID     string
	Kind       string
	Message    string
	OccurredAt time.Time
}

// Store is the persistence interface shared by all backends. Writes that
// span several rows (an expense and its splits) happen atomically so two
// concurrent appends cannot interleave into a half-written record.
type Store interface {
	CreateTrip(ctx context.Context, t *Trip) error
	GetTrip(ctx context.Context, id string) (*Trip, error)
	ListTrips(ctx context.Context) ([]Trip, error)

	// AddMember appends a member to the trip's roster. Roster order is
	// join order and is stable across reads.
	AddMember(ctx context.Context, tripID string, m core.Member) error
	ListMembers(ctx context.Context, tripID string) ([]core.Member, error)

	// DeactivateMember marks a member inactive. The referenced-check
	// and the update are one atomic store operation: if the trip's
	// ledger references the member as payer or split participant it
	// fails with ErrMemberReferenced and changes nothing, so no window
	// exists for a concurrent expense to create a dangling reference.
	DeactivateMember(ctx context.Context, tripID, memberID string) error

	// AppendExpense persists an immutable expense record with its splits.
	AppendExpense(ctx context.Context, tripID string, rec *core.ExpenseRecord) error
	ListExpenses(ctx context.Context, tripID string) (core.Ledger, error)

	AppendActivity(ctx context.Context, e *ActivityEntry) error
	ListActivity(ctx context.Context, tripID string, limit int) ([]ActivityEntry, error)

	Close() error
}
