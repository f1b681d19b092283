package events

import (
	"encoding/json"
	"time"
)

// Event types published on the domain event stream.
const (
	TypeExpenseCreated = "expense.created"
	TypeExpenseDeleted = "expense.deleted"
	TypeGoalCreated    = "goal.created"
	TypeGoalDeleted    = "goal.deleted"
	TypeGoalProgress   = "goal.progress"
	TypeAwardGranted   = "award.granted"
)

// Event is the JSON envelope for every published message. ID carries
// the record/goal identifier for data events and the challenge or
// achievement identifier for awards; Reward is only set for awards.
type Event struct {
	Type      string    `json:"type"`
	ID        string    `json:"id"`
	Kind      string    `json:"kind,omitempty"`
	Reward    int64     `json:"reward,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// NewEvent creates an event stamped with the current time.
func NewEvent(eventType, id string) *Event {
	return &Event{
		Type:      eventType,
		ID:        id,
		Timestamp: time.Now(),
	}
}

// ToJSON converts the event to JSON bytes.
func (e *Event) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// EventFromJSON creates an event from JSON bytes.
func EventFromJSON(data []byte) (*Event, error) {
	var e Event
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, err
	}
	return &e, nil
}
