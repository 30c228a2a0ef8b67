// Package shared holds the domain event plumbing used by the aggregates
package shared

import (
	"time"

	"github.com/google/uuid"
)

// DomainEvent represents an event that has occurred in the domain
type DomainEvent interface {
	EventName() string
	OccurredAt() time.Time
	UserID() uuid.UUID
}

// EventDispatcher dispatches domain events to handlers
type EventDispatcher interface {
	Dispatch(event DomainEvent) error
	Register(eventName string, handler EventHandler)
}

// EventHandler handles domain events
type EventHandler func(event DomainEvent) error

// BaseEvent carries the fields every event shares
type BaseEvent struct {
	User uuid.UUID
	At   time.Time
}

// OccurredAt implements DomainEvent
func (e BaseEvent) OccurredAt() time.Time { return e.At }

// UserID implements DomainEvent
func (e BaseEvent) UserID() uuid.UUID { return e.User }

// AggregateRoot is the base type for aggregate roots
type AggregateRoot struct {
	events []DomainEvent
}

// AddEvent adds a domain event to be dispatched
func (a *AggregateRoot) AddEvent(event DomainEvent) {
	a.events = append(a.events, event)
}

// Events returns and clears pending domain events
func (a *AggregateRoot) Events() []DomainEvent {
	events := a.events
	a.events = nil
	return events
}
