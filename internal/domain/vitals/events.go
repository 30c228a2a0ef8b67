package vitals

import "github.com/macrotrack/api/internal/domain/shared"

// EventRecorded is the name of the event raised for each new reading
const EventRecorded = "vitals.recorded"

// RecordedEvent is raised once a reading is stored
type RecordedEvent struct {
	shared.BaseEvent
	Reading Reading
}

// EventName implements shared.DomainEvent
func (RecordedEvent) EventName() string { return EventRecorded }

// Recorded builds the event for a reading
func Recorded(r *Reading) RecordedEvent {
	return RecordedEvent{
		BaseEvent: shared.BaseEvent{User: r.UserID, At: r.RecordedAt},
		Reading:   *r,
	}
}
