package amqp

import (
	"encoding/json"
	"time"
)

// ExpenseEvent announces a successful mutation of the expense collection.
// It carries only the operation and the record id; consumers fetch whatever
// detail they need from the collection API themselves.
type ExpenseEvent struct {
	Op         string    `json:"op"`
	ExpenseID  string    `json:"expense_id"`
	OccurredAt time.Time `json:"occurred_at"`
}

// NewExpenseEvent stamps an event with the current time.
func NewExpenseEvent(op, expenseID string) *ExpenseEvent {
	return &ExpenseEvent{
		Op:         op,
		ExpenseID:  expenseID,
		OccurredAt: time.Now(),
	}
}

// ToJSON converts the event to JSON bytes.
func (m *ExpenseEvent) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// ExpenseEventFromJSON parses an event from JSON bytes.
func ExpenseEventFromJSON(data []byte) (*ExpenseEvent, error) {
	var msg ExpenseEvent
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
