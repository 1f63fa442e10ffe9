package core

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// NewEqualExpense creates an expense whose amount is split equally across
// the given participants. The floor share goes to everyone and the
// remaining cents are assigned one each to the earliest participants in
// roster order, so the splits sum to amount exactly and the assignment is
// deterministic for identical snapshots.
//
// Every participant and the payer must be an active roster member.
func NewEqualExpense(roster Roster, payerID string, amount Money, category string, participants []string) (*ExpenseRecord, error) {
	if err := validatePayer(roster, payerID, amount); err != nil {
		return nil, err
	}
	if len(participants) == 0 {
		return nil, ErrEmptyParticipants
	}

	chosen := make(map[string]bool, len(participants))
	for _, id := range participants {
		if chosen[id] {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateParticipant, id)
		}
		if !roster.Contains(id) {
			return nil, &UnknownMemberError{MemberID: id}
		}
		chosen[id] = true
	}

	// Remainder cents must land on a stable subset: walk the roster in
	// snapshot order, not the caller's argument order.
	ordered := make([]string, 0, len(chosen))
	for _, id := range roster.IDs() {
		if chosen[id] {
			ordered = append(ordered, id)
		}
	}

	shares, err := amount.Distribute(len(ordered))
	if err != nil {
		return nil, err
	}

	splits := make([]Split, len(ordered))
	for i, id := range ordered {
		splits[i] = Split{MemberID: id, Amount: shares[i]}
	}

	return newRecord(payerID, amount, category, splits), nil
}

// NewExpenseWithSplits creates an expense from caller-supplied per-member
// amounts. The splits must cover the amount exactly; any mismatch fails
// with a SplitMismatchError naming the discrepancy instead of being
// silently truncated.
func NewExpenseWithSplits(roster Roster, payerID string, amount Money, category string, splits []Split) (*ExpenseRecord, error) {
	if err := validatePayer(roster, payerID, amount); err != nil {
		return nil, err
	}
	if len(splits) == 0 {
		return nil, ErrEmptyParticipants
	}

	seen := make(map[string]bool, len(splits))
	var sum Money
	for _, s := range splits {
		if seen[s.MemberID] {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateParticipant, s.MemberID)
		}
		if !roster.Contains(s.MemberID) {
			return nil, &UnknownMemberError{MemberID: s.MemberID}
		}
		if s.Amount.IsNegative() {
			return nil, ErrInvalidAmount
		}
		seen[s.MemberID] = true
		sum = sum.Add(s.Amount)
	}
	if sum.Cmp(amount) != 0 {
		return nil, &SplitMismatchError{Got: sum, Want: amount}
	}

	return newRecord(payerID, amount, category, append([]Split(nil), splits...)), nil
}

func validatePayer(roster Roster, payerID string, amount Money) error {
	if !amount.IsPositive() {
		return ErrInvalidAmount
	}
	if !roster.Contains(payerID) {
		return &UnknownMemberError{MemberID: payerID}
	}
	return nil
}

func newRecord(payerID string, amount Money, category string, splits []Split) *ExpenseRecord {
	return &ExpenseRecord{
		ID:        uuid.New().String(),
		PayerID:   payerID,
		Amount:    amount,
		Category:  category,
		CreatedAt: time.Now().UTC(),
		Splits:    splits,
	}
}
