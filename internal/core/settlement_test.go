package core

import (
	"errors"
	"testing"
)

func net(id string, cents int64) Balance {
	return Balance{MemberID: id, Net: Money{Cents: cents}}
}

// applyTransfers replays a settlement plan against the nets and returns
// the resulting residual per member.
func applyTransfers(balances []Balance, transfers []Transfer) map[string]int64 {
	nets := make(map[string]int64, len(balances))
	for _, b := range balances {
		nets[b.MemberID] = b.Net.Cents
	}
	for _, tr := range transfers {
		nets[tr.FromMemberID] -= tr.Amount.Cents
		nets[tr.ToMemberID] += tr.Amount.Cents
	}
	return nets
}

func TestPlanSettlement(t *testing.T) {
	t.Run("all zero balances yield empty plan", func(t *testing.T) {
		transfers, err := PlanSettlement([]Balance{net("a", 0), net("b", 0)})
		if err != nil {
			t.Fatal(err)
		}
		if len(transfers) != 0 {
			t.Fatalf("expected no transfers, got %d", len(transfers))
		}
	})

	t.Run("two debtors pay one creditor", func(t *testing.T) {
		balances := []Balance{net("alice", -6000), net("bob", 3000), net("carol", 3000)}
		transfers, err := PlanSettlement(balances)
		if err != nil {
			t.Fatal(err)
		}
		if len(transfers) != 2 {
			t.Fatalf("expected 2 transfers, got %d: %+v", len(transfers), transfers)
		}
		var toAlice int64
		for _, tr := range transfers {
			if tr.ToMemberID != "alice" {
				t.Errorf("unexpected recipient %s", tr.ToMemberID)
			}
			toAlice += tr.Amount.Cents
		}
		if toAlice != 6000 {
			t.Errorf("alice receives %d, want 6000", toAlice)
		}
	})

	t.Run("plan zeroes every member", func(t *testing.T) {
		balances := []Balance{
			net("a", 5500), net("b", -1200), net("c", -4300),
			net("d", 700), net("e", -700),
		}
		transfers, err := PlanSettlement(balances)
		if err != nil {
			t.Fatal(err)
		}
		for id, residual := range applyTransfers(balances, transfers) {
			if residual != 0 {
				t.Errorf("%s residual = %d after settlement", id, residual)
			}
		}
	})

	t.Run("at most n-1 transfers", func(t *testing.T) {
		balances := []Balance{
			net("a", 100), net("b", 200), net("c", 300),
			net("d", -250), net("e", -350),
		}
		transfers, err := PlanSettlement(balances)
		if err != nil {
			t.Fatal(err)
		}
		if len(transfers) > 4 {
			t.Errorf("got %d transfers for 5 nonzero members, want at most 4", len(transfers))
		}
	})

	t.Run("deterministic under equal magnitudes", func(t *testing.T) {
		balances := []Balance{net("b", 100), net("a", 100), net("y", -100), net("x", -100)}
		first, err := PlanSettlement(balances)
		if err != nil {
			t.Fatal(err)
		}
		// Ties break by member id, independent of input order.
		reordered := []Balance{net("x", -100), net("a", 100), net("y", -100), net("b", 100)}
		second, err := PlanSettlement(reordered)
		if err != nil {
			t.Fatal(err)
		}
		if len(first) != len(second) {
			t.Fatalf("plans differ in length: %d vs %d", len(first), len(second))
		}
		for i := range first {
			if first[i] != second[i] {
				t.Errorf("transfer %d differs: %+v vs %+v", i, first[i], second[i])
			}
		}
		if first[0].FromMemberID != "a" || first[0].ToMemberID != "x" {
			t.Errorf("tie-break by id violated: %+v", first[0])
		}
	})

	t.Run("unbalanced input fails", func(t *testing.T) {
		_, err := PlanSettlement([]Balance{net("a", 100)})
		if !errors.Is(err, ErrUnbalancedLedger) {
			t.Fatalf("expected ErrUnbalancedLedger, got %v", err)
		}
	})
}
