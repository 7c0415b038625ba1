package kernel

import "time"

// DomainEvent is a fact raised by an aggregate. Events are collected while a
// unit of work runs and handed to the event publisher only after commit.
type DomainEvent interface {
	EventID() UUID
	EventName() string
	AggregateID() UUID
	OccurredAt() time.Time
}

// EventRecorder collects pending domain events. Aggregates embed it.
type EventRecorder struct {
	events []DomainEvent
}

// Raise appends an event to the pending list.
func (r *EventRecorder) Raise(event DomainEvent) {
	r.events = append(r.events, event)
}

// DomainEvents returns a copy of the pending events.
func (r *EventRecorder) DomainEvents() []DomainEvent {
	out := make([]DomainEvent, len(r.events))
	copy(out, r.events)
	return out
}

// ClearDomainEvents drops all pending events.
func (r *EventRecorder) ClearDomainEvents() {
	r.events = nil
}

// EventSource is implemented by every aggregate that raises events.
type EventSource interface {
	DomainEvents() []DomainEvent
	ClearDomainEvents()
}
