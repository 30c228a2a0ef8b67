package goals

import "github.com/macrotrack/api/internal/domain/shared"

// EventGoalsUpdated is the name of the event raised whenever targets are stored
const EventGoalsUpdated = "goals.updated"

// Trigger records what caused a recalculation
type Trigger string

const (
	TriggerProfile Trigger = "profile"
	TriggerVitals  Trigger = "vitals"
)

// GoalsUpdatedEvent carries the freshly computed targets
type GoalsUpdatedEvent struct {
	shared.BaseEvent
	Trigger Trigger
	Goals   Goals
}

// EventName implements shared.DomainEvent
func (GoalsUpdatedEvent) EventName() string { return EventGoalsUpdated }
