package core

// Balance is one member's derived position: what they paid out of pocket,
// what their splits attribute to them, and the net. Positive net means the
// member owes money into the pool; negative means they are owed.
//
// Balances are derived data, recomputed from scratch on every call. They
// are never stored or incrementally updated, so they always reflect the
// ledger they were computed from.
type Balance struct {
	MemberID  string
	TotalPaid Money
	TotalOwed Money
	Net       Money // TotalOwed - TotalPaid
}

// ComputeBalances derives one Balance per active roster member, in roster
// order. Members with no activity appear with a zero balance.
//
// An expense referencing a payer or split member outside the roster fails
// with an UnknownMemberError rather than being silently dropped; a dropped
// reference would corrupt every other member's balance.
func ComputeBalances(ledger Ledger, roster Roster) ([]Balance, error) {
	paid := make(map[string]Money, roster.Len())
	owed := make(map[string]Money, roster.Len())

	for _, rec := range ledger {
		if !roster.Contains(rec.PayerID) {
			return nil, &UnknownMemberError{MemberID: rec.PayerID}
		}
		paid[rec.PayerID] = paid[rec.PayerID].Add(rec.Amount)
		for _, s := range rec.Splits {
			if !roster.Contains(s.MemberID) {
				return nil, &UnknownMemberError{MemberID: s.MemberID}
			}
			owed[s.MemberID] = owed[s.MemberID].Add(s.Amount)
		}
	}

	balances := make([]Balance, 0, roster.Len())
	for _, id := range roster.IDs() {
		balances = append(balances, Balance{
			MemberID:  id,
			TotalPaid: paid[id],
			TotalOwed: owed[id],
			Net:       owed[id].Sub(paid[id]),
		})
	}
	return balances, nil
}
