package core

import (
	"errors"
	"fmt"
	"time"
)

// CategoryOther is the bucket for expenses recorded without a category.
const CategoryOther = "OTHER"

var (
	ErrInvalidAmount        = errors.New("invalid amount")
	ErrEmptyParticipants    = errors.New("expense has no participants")
	ErrDuplicateParticipant = errors.New("duplicate participant")
	ErrUnknownMember        = errors.New("unknown member")
	ErrSplitMismatch        = errors.New("splits do not sum to expense amount")

	// ErrUnbalancedLedger signals that member nets do not sum to zero.
	// It indicates corrupted input or a bug, never bad user input.
	ErrUnbalancedLedger = errors.New("ledger balances do not sum to zero")
)

// UnknownMemberError reports a member reference that does not resolve to
// an active member of the trip. It matches ErrUnknownMember via errors.Is.
type UnknownMemberError struct {
	MemberID string
}

func (e *UnknownMemberError) Error() string {
	return fmt.Sprintf("unknown member %q", e.MemberID)
}

func (e *UnknownMemberError) Is(target error) bool {
	return target == ErrUnknownMember
}

// SplitMismatchError reports explicit splits whose sum differs from the
// expense total. It matches ErrSplitMismatch via errors.Is.
type SplitMismatchError struct {
	Got  Money // sum of the provided splits
	Want Money // expense total
}

func (e *SplitMismatchError) Error() string {
	return fmt.Sprintf("splits sum to %s, expected %s (off by %s)",
		e.Got, e.Want, e.Want.Sub(e.Got).Abs())
}

func (e *SplitMismatchError) Is(target error) bool {
	return target == ErrSplitMismatch
}

// Member is one trip participant in the membership snapshot.
type Member struct {
	ID          string
	DisplayName string
	Active      bool
}

// Roster is the active-member view of a membership snapshot. It preserves
// the snapshot order, which fixes the remainder assignment of equal splits
// and the iteration order of balance output.
type Roster struct {
	order []string
	byID  map[string]Member
}

// NewRoster builds a roster from a membership snapshot, keeping only
// active members and preserving their order. A later duplicate of an id
// already present is ignored.
func NewRoster(members []Member) Roster {
	r := Roster{byID: make(map[string]Member, len(members))}
	for _, m := range members {
		if !m.Active {
			continue
		}
		if _, seen := r.byID[m.ID]; seen {
			continue
		}
		r.byID[m.ID] = m
		r.order = append(r.order, m.ID)
	}
	return r
}

// Contains reports whether id is an active member.
func (r Roster) Contains(id string) bool {
	_, ok := r.byID[id]
	return ok
}

// Member returns the member with the given id.
func (r Roster) Member(id string) (Member, bool) {
	m, ok := r.byID[id]
	return m, ok
}

// IDs returns the active member ids in snapshot order.
func (r Roster) IDs() []string {
	ids := make([]string, len(r.order))
	copy(ids, r.order)
	return ids
}

// Len returns the number of active members.
func (r Roster) Len() int { return len(r.order) }

// Split is the portion of one expense attributed to one member.
type Split struct {
	MemberID string
	Amount   Money
}

// ExpenseRecord is a single expense: who paid, how much, and how the
// amount is attributed across members. Records are immutable once created;
// the splits always sum to Amount exactly.
type ExpenseRecord struct {
	ID        string
	PayerID   string
	Amount    Money
	Category  string
	CreatedAt time.Time
	Splits    []Split
}

// Transfer is one settlement edge: FromMemberID pays ToMemberID Amount.
// Transfers are derived per computation and never persisted.
type Transfer struct {
	FromMemberID string
	ToMemberID   string
	Amount       Money
}
