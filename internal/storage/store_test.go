package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"

	"tripsplit/internal/core"
)

// The memory and SQLite backends share one behavioral suite; the Postgres
// backend runs the same queries against a live server and is covered by
// integration environments, not unit tests.
func TestMemoryStore(t *testing.T) {
	runStoreSuite(t, func(t *testing.T) Store { return NewMemoryStore() })
}

func TestSQLiteStore(t *testing.T) {
	runStoreSuite(t, func(t *testing.T) Store {
		store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "test.db"))
		if err != nil {
			t.Fatalf("NewSQLiteStore: %v", err)
		}
		t.Cleanup(func() { store.Close() })
		return store
	})
}

func runStoreSuite(t *testing.T, open func(t *testing.T) Store) {
	ctx := context.Background()

	newTrip := func(t *testing.T, s Store, name string) *Trip {
		trip := &Trip{ID: uuid.New().String(), Name: name, CreatedAt: time.Now().UTC()}
		if err := s.CreateTrip(ctx, trip); err != nil {
			t.Fatalf("CreateTrip: %v", err)
		}
		return trip
	}

	t.Run("trip round trip", func(t *testing.T) {
		s := open(t)
		trip := newTrip(t, s, "Lisbon")

		got, err := s.GetTrip(ctx, trip.ID)
		if err != nil {
			t.Fatalf("GetTrip: %v", err)
		}
		if got.Name != "Lisbon" {
			t.Errorf("Name = %q, want Lisbon", got.Name)
		}

		trips, err := s.ListTrips(ctx)
		if err != nil {
			t.Fatalf("ListTrips: %v", err)
		}
		if len(trips) != 1 {
			t.Errorf("got %d trips, want 1", len(trips))
		}
	})

	t.Run("missing trip", func(t *testing.T) {
		s := open(t)
		if _, err := s.GetTrip(ctx, "nope"); !errors.Is(err, ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("members keep join order", func(t *testing.T) {
		s := open(t)
		trip := newTrip(t, s, "Alps")

		for _, name := range []string{"Alice", "Bob", "Carol"} {
			m := core.Member{ID: uuid.New().String(), DisplayName: name, Active: true}
			if err := s.AddMember(ctx, trip.ID, m); err != nil {
				t.Fatalf("AddMember(%s): %v", name, err)
			}
		}

		members, err := s.ListMembers(ctx, trip.ID)
		if err != nil {
			t.Fatalf("ListMembers: %v", err)
		}
		if len(members) != 3 {
			t.Fatalf("got %d members, want 3", len(members))
		}
		want := []string{"Alice", "Bob", "Carol"}
		for i, m := range members {
			if m.DisplayName != want[i] {
				t.Errorf("member[%d] = %q, want %q", i, m.DisplayName, want[i])
			}
		}
	})

	t.Run("member of unknown trip", func(t *testing.T) {
		s := open(t)
		err := s.AddMember(ctx, "nope", core.Member{ID: "m1", Active: true})
		if !errors.Is(err, ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("deactivate member", func(t *testing.T) {
		s := open(t)
		trip := newTrip(t, s, "Rome")
		m := core.Member{ID: uuid.New().String(), DisplayName: "Alice", Active: true}
		if err := s.AddMember(ctx, trip.ID, m); err != nil {
			t.Fatal(err)
		}

		if err := s.DeactivateMember(ctx, trip.ID, m.ID); err != nil {
			t.Fatalf("DeactivateMember: %v", err)
		}
		members, err := s.ListMembers(ctx, trip.ID)
		if err != nil {
			t.Fatal(err)
		}
		if members[0].Active {
			t.Error("member should be inactive")
		}

		if err := s.DeactivateMember(ctx, trip.ID, "nope"); !errors.Is(err, ErrNotFound) {
			t.Fatalf("expected ErrNotFound for unknown member, got %v", err)
		}
	})

	t.Run("deactivate refused while ledger references member", func(t *testing.T) {
		s := open(t)
		trip := newTrip(t, s, "Porto")

		members := []core.Member{
			{ID: "alice", DisplayName: "Alice", Active: true},
			{ID: "bob", DisplayName: "Bob", Active: true},
		}
		for _, m := range members {
			if err := s.AddMember(ctx, trip.ID, m); err != nil {
				t.Fatal(err)
			}
		}
		roster := core.NewRoster(members)
		rec, err := core.NewEqualExpense(roster, "alice", core.Money{Cents: 1000}, "", []string{"alice", "bob"})
		if err != nil {
			t.Fatal(err)
		}
		if err := s.AppendExpense(ctx, trip.ID, rec); err != nil {
			t.Fatal(err)
		}

		// alice is the payer, bob only appears in a split; both are held.
		for _, id := range []string{"alice", "bob"} {
			if err := s.DeactivateMember(ctx, trip.ID, id); !errors.Is(err, ErrMemberReferenced) {
				t.Errorf("%s: expected ErrMemberReferenced, got %v", id, err)
			}
		}

		got, err := s.ListMembers(ctx, trip.ID)
		if err != nil {
			t.Fatal(err)
		}
		for _, m := range got {
			if !m.Active {
				t.Errorf("%s was deactivated despite ledger references", m.ID)
			}
		}
	})

	t.Run("expense round trip preserves splits", func(t *testing.T) {
		s := open(t)
		trip := newTrip(t, s, "Kyoto")

		members := []core.Member{
			{ID: "alice", DisplayName: "Alice", Active: true},
			{ID: "bob", DisplayName: "Bob", Active: true},
		}
		for _, m := range members {
			if err := s.AddMember(ctx, trip.ID, m); err != nil {
				t.Fatal(err)
			}
		}

		roster := core.NewRoster(members)
		rec, err := core.NewEqualExpense(roster, "alice", core.Money{Cents: 333}, "food", []string{"alice", "bob"})
		if err != nil {
			t.Fatal(err)
		}
		if err := s.AppendExpense(ctx, trip.ID, rec); err != nil {
			t.Fatalf("AppendExpense: %v", err)
		}

		ledger, err := s.ListExpenses(ctx, trip.ID)
		if err != nil {
			t.Fatalf("ListExpenses: %v", err)
		}
		if len(ledger) != 1 {
			t.Fatalf("got %d expenses, want 1", len(ledger))
		}
		got := ledger[0]
		if got.ID != rec.ID || got.PayerID != "alice" || got.Amount.Cents != 333 || got.Category != "food" {
			t.Errorf("unexpected record: %+v", got)
		}
		if len(got.Splits) != 2 {
			t.Fatalf("got %d splits, want 2", len(got.Splits))
		}
		for i, sp := range got.Splits {
			if sp != rec.Splits[i] {
				t.Errorf("split[%d] = %+v, want %+v", i, sp, rec.Splits[i])
			}
		}
	})

	t.Run("activity feed newest first", func(t *testing.T) {
		s := open(t)
		trip := newTrip(t, s, "Oslo")

		base := time.Now().UTC().Truncate(time.Second)
		for i, kind := range []string{"expense.created", "member.joined", "expense.created"} {
			e := &ActivityEntry{
				ID:         uuid.New().String(),
				TripID:     trip.ID,
				Kind:       kind,
				Message:    kind,
				OccurredAt: base.Add(time.Duration(i) * time.Second),
			}
			if err := s.AppendActivity(ctx, e); err != nil {
				t.Fatalf("AppendActivity: %v", err)
			}
		}

		entries, err := s.ListActivity(ctx, trip.ID, 2)
		if err != nil {
			t.Fatalf("ListActivity: %v", err)
		}
		if len(entries) != 2 {
			t.Fatalf("got %d entries, want 2", len(entries))
		}
		if entries[0].OccurredAt.Before(entries[1].OccurredAt) {
			t.Error("activity should be newest first")
		}
	})
}
