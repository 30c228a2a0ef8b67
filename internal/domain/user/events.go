package user

import "github.com/macrotrack/api/internal/domain/shared"

// EventRegistered is the name of the event raised on signup
const EventRegistered = "user.registered"

// RegisteredEvent is raised when a new account is created
type RegisteredEvent struct {
	shared.BaseEvent
	Username string
}

// EventName implements shared.DomainEvent
func (RegisteredEvent) EventName() string { return EventRegistered }
