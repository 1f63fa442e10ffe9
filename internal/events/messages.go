package events

import (
	"encoding/json"
	"time"
)

// Event kinds published on the trip exchange.
const (
	KindExpenseCreated    = "expense.created"
	KindMemberJoined      = "member.joined"
	KindMemberDeactivated = "member.deactivated"
)

// TripEvent is the broadcast payload for trip activity. It carries enough
// to render a feed line without a database lookup; consumers that need
// the full record fetch it by id.
type TripEvent struct {
	ID          string    `json:"id"`
	TripID      string    `json:"trip_id"`
	Kind        string    `json:"kind"`
	MemberID    string    `json:"member_id,omitempty"`
	ExpenseID   string    `json:"expense_id,omitempty"`
	AmountCents int64     `json:"amount_cents,omitempty"`
	Category    string    `json:"category,omitempty"`
	Message     string    `json:"message"`
	OccurredAt  time.Time `json:"occurred_at"`
}

// ToJSON serializes the event for publishing.
func (e *TripEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// TripEventFromJSON deserializes a broker delivery body.
func TripEventFromJSON(data []byte) (*TripEvent, error) {
	var e TripEvent
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, err
	}
	return &e, nil
}
