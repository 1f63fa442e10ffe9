package core

// BalanceSheet bundles everything the presentation layer needs for one
// trip: aggregate totals, per-member balances in roster order, the
// settlement plan, and the category breakdown. Pure data, assembled fresh
// on every call and never diffed against a previous version.
type BalanceSheet struct {
	TotalSpent Money
	Balances   []Balance
	Settlement []Transfer
	Categories []CategoryAmount
}

// ComputeBalanceSheet derives the full balance sheet from a ledger
// snapshot and a membership snapshot. Inactive members are filtered out
// before computation. Identical snapshots yield identical output.
func ComputeBalanceSheet(ledger Ledger, members []Member) (*BalanceSheet, error) {
	roster := NewRoster(members)

	balances, err := ComputeBalances(ledger, roster)
	if err != nil {
		return nil, err
	}

	settlement, err := PlanSettlement(balances)
	if err != nil {
		return nil, err
	}

	return &BalanceSheet{
		TotalSpent: ledger.TotalSpent(),
		Balances:   balances,
		Settlement: settlement,
		Categories: ledger.ByCategory(),
	}, nil
}
