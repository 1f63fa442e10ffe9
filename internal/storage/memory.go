package storage

import (
	"context"
	"sync"

	"tripsplit/internal/core"
)

// MemoryStore implements Store in memory. It backs the memory data
// backend and the service tests; nothing survives a restart.
type MemoryStore struct {
	mu       sync.RWMutex
	trips    []Trip
	members  map[string][]core.Member // trip id -> roster in join order
	expenses map[string]core.Ledger   // trip id -> ledger in append order
	activity map[string][]ActivityEntry
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		members:  make(map[string][]core.Member),
		expenses: make(map[string]core.Ledger),
		activity: make(map[string][]ActivityEntry),
	}
}

func (s *MemoryStore) Close() error { return nil }

func (s *MemoryStore) CreateTrip(_ context.Context, t *Trip) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.trips = append(s.trips, *t)
	return nil
}

func (s *MemoryStore) GetTrip(_ context.Context, id string) (*Trip, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, t := range s.trips {
		if t.ID == id {
			trip := t
			return &trip, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryStore) ListTrips(_ context.Context) ([]Trip, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Trip(nil), s.trips...), nil
}

func (s *MemoryStore) AddMember(ctx context.Context, tripID string, m core.Member) error {
	if _, err := s.GetTrip(ctx, tripID); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.members[tripID] = append(s.members[tripID], m)
	return nil
}

func (s *MemoryStore) ListMembers(_ context.Context, tripID string) ([]core.Member, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]core.Member(nil), s.members[tripID]...), nil
}

// DeactivateMember checks and updates under one lock, so a concurrent
// AppendExpense cannot slip a reference in between.
func (s *MemoryStore) DeactivateMember(_ context.Context, tripID, memberID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, rec := range s.expenses[tripID] {
		if rec.PayerID == memberID {
			return ErrMemberReferenced
		}
		for _, sp := range rec.Splits {
			if sp.MemberID == memberID {
				return ErrMemberReferenced
			}
		}
	}

	for i, m := range s.members[tripID] {
		if m.ID == memberID {
			s.members[tripID][i].Active = false
			return nil
		}
	}
	return ErrNotFound
}

func (s *MemoryStore) AppendExpense(_ context.Context, tripID string, rec *core.ExpenseRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *rec
	cp.Splits = append([]core.Split(nil), rec.Splits...)
	s.expenses[tripID] = append(s.expenses[tripID], cp)
	return nil
}

func (s *MemoryStore) ListExpenses(_ context.Context, tripID string) (core.Ledger, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append(core.Ledger(nil), s.expenses[tripID]...), nil
}

func (s *MemoryStore) AppendActivity(_ context.Context, e *ActivityEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.activity[e.TripID] = append(s.activity[e.TripID], *e)
	return nil
}

func (s *MemoryStore) ListActivity(_ context.Context, tripID string, limit int) ([]ActivityEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries := s.activity[tripID]
	// Newest first, matching the SQL backends.
	out := make([]ActivityEntry, 0, len(entries))
	for i := len(entries) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, entries[i])
	}
	return out, nil
}

var _ Store = (*MemoryStore)(nil)
