package events

import (
	"time"

	"github.com/google/uuid"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventEmployeeCreated   EventType = "employee_created"
	EventEmployeeUpdated   EventType = "employee_updated"
	EventEmployeeDeleted   EventType = "employee_deleted"
	EventDepartmentCreated EventType = "department_created"
)

// AllTypes lists every event type in publication order.
var AllTypes = []EventType{
	EventEmployeeCreated,
	EventEmployeeUpdated,
	EventEmployeeDeleted,
	EventDepartmentCreated,
}

// Event represents a domain event emitted by services after a successful write.
type Event struct {
	ID        string    `json:"id"`
	Type      EventType `json:"type"`
	EntityID  string    `json:"entity_id"`
	Timestamp time.Time `json:"timestamp"`
	Payload   any       `json:"payload,omitempty"`
}

// NewEvent stamps a new event with a random id and the current time.
func NewEvent(eventType EventType, entityID string, payload any) Event {
	return Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		EntityID:  entityID,
		Timestamp: time.Now().UTC(),
		Payload:   payload,
	}
}

// EmployeeDeletedPayload payload.
type EmployeeDeletedPayload struct {
	EmployeeID string `json:"employee_id"`
}
