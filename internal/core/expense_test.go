package core

import (
	"errors"
	"testing"
)

func testRoster() Roster {
	return NewRoster([]Member{
		{ID: "alice", DisplayName: "Alice", Active: true},
		{ID: "bob", DisplayName: "Bob", Active: true},
		{ID: "carol", DisplayName: "Carol", Active: true},
		{ID: "dave", DisplayName: "Dave", Active: false},
	})
}

func TestNewRosterFiltersInactive(t *testing.T) {
	r := testRoster()
	if r.Len() != 3 {
		t.Fatalf("Len = %d, want 3", r.Len())
	}
	if r.Contains("dave") {
		t.Error("inactive member should not be in the roster")
	}
	want := []string{"alice", "bob", "carol"}
	for i, id := range r.IDs() {
		if id != want[i] {
			t.Errorf("IDs()[%d] = %q, want %q", i, id, want[i])
		}
	}
}

func TestNewEqualExpense(t *testing.T) {
	r := testRoster()

	t.Run("equal three-way split assigns remainder in roster order", func(t *testing.T) {
		rec, err := NewEqualExpense(r, "alice", Money{Cents: 10000}, "food", []string{"carol", "alice", "bob"})
		if err != nil {
			t.Fatal(err)
		}
		want := []Split{
			{MemberID: "alice", Amount: Money{Cents: 3334}},
			{MemberID: "bob", Amount: Money{Cents: 3333}},
			{MemberID: "carol", Amount: Money{Cents: 3333}},
		}
		if len(rec.Splits) != len(want) {
			t.Fatalf("got %d splits, want %d", len(rec.Splits), len(want))
		}
		for i, s := range rec.Splits {
			if s != want[i] {
				t.Errorf("split[%d] = %+v, want %+v", i, s, want[i])
			}
		}
	})

	t.Run("splits always sum to the amount", func(t *testing.T) {
		for _, cents := range []int64{1, 2, 99, 100, 101, 9999, 12345} {
			rec, err := NewEqualExpense(r, "bob", Money{Cents: cents}, "", []string{"alice", "bob", "carol"})
			if err != nil {
				t.Fatal(err)
			}
			var sum Money
			for _, s := range rec.Splits {
				sum = sum.Add(s.Amount)
			}
			if sum.Cents != cents {
				t.Errorf("amount %d: splits sum to %d", cents, sum.Cents)
			}
		}
	})

	t.Run("no participants", func(t *testing.T) {
		_, err := NewEqualExpense(r, "alice", Money{Cents: 100}, "", nil)
		if !errors.Is(err, ErrEmptyParticipants) {
			t.Fatalf("expected ErrEmptyParticipants, got %v", err)
		}
	})

	t.Run("duplicate participant", func(t *testing.T) {
		_, err := NewEqualExpense(r, "alice", Money{Cents: 100}, "", []string{"bob", "bob"})
		if !errors.Is(err, ErrDuplicateParticipant) {
			t.Fatalf("expected ErrDuplicateParticipant, got %v", err)
		}
	})

	t.Run("unknown participant", func(t *testing.T) {
		_, err := NewEqualExpense(r, "alice", Money{Cents: 100}, "", []string{"bob", "mallory"})
		if !errors.Is(err, ErrUnknownMember) {
			t.Fatalf("expected ErrUnknownMember, got %v", err)
		}
		var ume *UnknownMemberError
		if !errors.As(err, &ume) || ume.MemberID != "mallory" {
			t.Fatalf("expected UnknownMemberError naming mallory, got %v", err)
		}
	})

	t.Run("inactive participant", func(t *testing.T) {
		_, err := NewEqualExpense(r, "alice", Money{Cents: 100}, "", []string{"dave"})
		if !errors.Is(err, ErrUnknownMember) {
			t.Fatalf("expected ErrUnknownMember, got %v", err)
		}
	})

	t.Run("unknown payer", func(t *testing.T) {
		_, err := NewEqualExpense(r, "mallory", Money{Cents: 100}, "", []string{"alice"})
		if !errors.Is(err, ErrUnknownMember) {
			t.Fatalf("expected ErrUnknownMember, got %v", err)
		}
	})

	t.Run("non-positive amount", func(t *testing.T) {
		for _, cents := range []int64{0, -100} {
			_, err := NewEqualExpense(r, "alice", Money{Cents: cents}, "", []string{"alice"})
			if !errors.Is(err, ErrInvalidAmount) {
				t.Fatalf("amount %d: expected ErrInvalidAmount, got %v", cents, err)
			}
		}
	})
}

func TestNewExpenseWithSplits(t *testing.T) {
	r := testRoster()

	t.Run("exact splits accepted", func(t *testing.T) {
		rec, err := NewExpenseWithSplits(r, "alice", Money{Cents: 5000}, "lodging", []Split{
			{MemberID: "alice", Amount: Money{Cents: 2000}},
			{MemberID: "bob", Amount: Money{Cents: 3000}},
		})
		if err != nil {
			t.Fatal(err)
		}
		if rec.Amount.Cents != 5000 || len(rec.Splits) != 2 {
			t.Fatalf("unexpected record: %+v", rec)
		}
	})

	t.Run("one cent off fails with the discrepancy", func(t *testing.T) {
		_, err := NewExpenseWithSplits(r, "alice", Money{Cents: 5000}, "", []Split{
			{MemberID: "alice", Amount: Money{Cents: 2000}},
			{MemberID: "bob", Amount: Money{Cents: 3001}},
		})
		if !errors.Is(err, ErrSplitMismatch) {
			t.Fatalf("expected ErrSplitMismatch, got %v", err)
		}
		var sme *SplitMismatchError
		if !errors.As(err, &sme) {
			t.Fatalf("expected SplitMismatchError, got %T", err)
		}
		if sme.Got.Cents != 5001 || sme.Want.Cents != 5000 {
			t.Errorf("mismatch got=%d want=%d", sme.Got.Cents, sme.Want.Cents)
		}
	})

	t.Run("duplicate split member", func(t *testing.T) {
		_, err := NewExpenseWithSplits(r, "alice", Money{Cents: 200}, "", []Split{
			{MemberID: "bob", Amount: Money{Cents: 100}},
			{MemberID: "bob", Amount: Money{Cents: 100}},
		})
		if !errors.Is(err, ErrDuplicateParticipant) {
			t.Fatalf("expected ErrDuplicateParticipant, got %v", err)
		}
	})

	t.Run("unknown split member", func(t *testing.T) {
		_, err := NewExpenseWithSplits(r, "alice", Money{Cents: 100}, "", []Split{
			{MemberID: "mallory", Amount: Money{Cents: 100}},
		})
		if !errors.Is(err, ErrUnknownMember) {
			t.Fatalf("expected ErrUnknownMember, got %v", err)
		}
	})

	t.Run("negative split amount", func(t *testing.T) {
		_, err := NewExpenseWithSplits(r, "alice", Money{Cents: 100}, "", []Split{
			{MemberID: "alice", Amount: Money{Cents: 200}},
			{MemberID: "bob", Amount: Money{Cents: -100}},
		})
		if !errors.Is(err, ErrInvalidAmount) {
			t.Fatalf("expected ErrInvalidAmount, got %v", err)
		}
	})

	t.Run("empty splits", func(t *testing.T) {
		_, err := NewExpenseWithSplits(r, "alice", Money{Cents: 100}, "", nil)
		if !errors.Is(err, ErrEmptyParticipants) {
			t.Fatalf("expected ErrEmptyParticipants, got %v", err)
		}
	})
}
