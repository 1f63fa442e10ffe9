package core

import "sort"

// PlanSettlement converts net balances into a minimal list of transfers
// that zeroes every member's net.
//
// Greedy matching: debtors (net > 0) and creditors (net < 0) are each
// sorted by magnitude descending, ties broken by member id, so the plan
// is reproducible for identical input. The largest debtor repeatedly pays
// the largest creditor the smaller of the two remainders until both sides
// are exhausted. For n members with nonzero net this emits at most n-1
// transfers and moves exactly the sum of the positive nets.
//
// The nets must sum to zero; a nonzero residual means the conservation
// invariant was violated upstream and fails with ErrUnbalancedLedger
// instead of inventing a transfer to nobody.
func PlanSettlement(balances []Balance) ([]Transfer, error) {
	var debtors, creditors []Balance
	var residual Money
	for _, b := range balances {
		residual = residual.Add(b.Net)
		switch {
		case b.Net.IsPositive():
			debtors = append(debtors, b)
		case b.Net.IsNegative():
			creditors = append(creditors, b)
		}
	}
	if !residual.IsZero() {
		return nil, ErrUnbalancedLedger
	}

	byMagnitude := func(s []Balance) {
		sort.SliceStable(s, func(i, j int) bool {
			ci, cj := s[i].Net.Abs(), s[j].Net.Abs()
			if ci.Cmp(cj) != 0 {
				return ci.Cmp(cj) > 0
			}
			return s[i].MemberID < s[j].MemberID
		})
	}
	byMagnitude(debtors)
	byMagnitude(creditors)

	transfers := make([]Transfer, 0, len(debtors))
	i, j := 0, 0
	var owes, owed Money
	for i < len(debtors) && j < len(creditors) {
		if owes.IsZero() {
			owes = debtors[i].Net
		}
		if owed.IsZero() {
			owed = creditors[j].Net.Abs()
		}

		amount := owes
		if owed.Cmp(amount) < 0 {
			amount = owed
		}
		transfers = append(transfers, Transfer{
			FromMemberID: debtors[i].MemberID,
			ToMemberID:   creditors[j].MemberID,
			Amount:       amount,
		})

		owes = owes.Sub(amount)
		owed = owed.Sub(amount)
		if owes.IsZero() {
			i++
		}
		if owed.IsZero() {
			j++
		}
	}
	return transfers, nil
}
