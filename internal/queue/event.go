// Package queue carries studio events over RabbitMQ: the publisher used by
// the HTTP handlers and the roster job, and the consumer that keeps the
// activity log.
package queue

import "time"

// QueueName is the durable queue every studio event is routed to.
const QueueName = "studio.events"

// EventType names what happened.
type EventType string

const (
	StudentCreated    EventType = "student.created"
	StudentUpdated    EventType = "student.updated"
	InstructorCreated EventType = "instructor.created"
	InstructorUpdated EventType = "instructor.updated"
	InstructorDeleted EventType = "instructor.deleted"
	ClassCreated      EventType = "class.created"
	ClassUpdated      EventType = "class.updated"
	PaymentRecorded   EventType = "payment.recorded"
	RosterDaily       EventType = "roster.daily"
)

// StudioEvent is published after a mutation has been applied.  It carries
// enough to write a readable activity line without reading the state back.
type StudioEvent struct {
	Type       EventType      `json:"type"`
	EntityID   string         `json:"entity_id"`
	Name       string         `json:"name"`
	OccurredAt string         `json:"occurred_at"` // RFC 3339, UTC
	Details    map[string]any `json:"details,omitempty"`
}

// NewEvent stamps an event with the current UTC time.
func NewEvent(t EventType, id, name string) StudioEvent {
	return StudioEvent{
		Type:       t,
		EntityID:   id,
		Name:       name,
		OccurredAt: time.Now().UTC().Format(time.RFC3339),
	}
}
