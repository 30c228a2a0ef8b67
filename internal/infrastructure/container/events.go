package container

import (
	"sync"

	"go.uber.org/zap"

	"github.com/macrotrack/api/internal/domain/goals"
	"github.com/macrotrack/api/internal/domain/shared"
	"github.com/macrotrack/api/internal/domain/user"
	"github.com/macrotrack/api/internal/domain/vitals"
	"github.com/macrotrack/api/internal/infrastructure/monitoring"
)

// AllEvents registers a handler for every event name
const AllEvents = "*"

// EventDispatcher delivers domain events to handlers in-process, in
// registration order
type EventDispatcher struct {
	mu       sync.RWMutex
	handlers map[string][]shared.EventHandler
	log      *zap.Logger
}

var _ shared.EventDispatcher = (*EventDispatcher)(nil)

// NewEventDispatcher creates a new event dispatcher
func NewEventDispatcher(log *zap.Logger) *EventDispatcher {
	return &EventDispatcher{
		handlers: make(map[string][]shared.EventHandler),
		log:      log.Named("events"),
	}
}

// Dispatch dispatches an event to registered handlers. A failing handler is
// logged and does not stop the others.
func (d *EventDispatcher) Dispatch(event shared.DomainEvent) error {
	d.mu.RLock()
	handlers := append(append([]shared.EventHandler(nil), d.handlers[event.EventName()]...), d.handlers[AllEvents]...)
	d.mu.RUnlock()

	if len(handlers) == 0 {
		d.log.Debug("No handlers registered for event", zap.String("event", event.EventName()))
		return nil
	}

	for _, handler := range handlers {
		if err := handler(event); err != nil {
			d.log.Error("Failed to handle event",
				zap.String("event", event.EventName()),
				zap.String("user_id", event.UserID().String()),
				zap.Error(err),
			)
		}
	}
	return nil
}

// Register registers an event handler
func (d *EventDispatcher) Register(event string, handler shared.EventHandler) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.handlers[event] = append(d.handlers[event], handler)
	d.log.Debug("Registered event handler", zap.String("event", event))
}

// RegisterEventHandlers subscribes logging and metrics to the domain events.
// metrics and telemetry may be nil.
func RegisterEventHandlers(
	d *EventDispatcher,
	log *zap.Logger,
	metrics *monitoring.MetricsCollector,
	telemetry *monitoring.OpenTelemetryProvider,
) {
	log = log.Named("events")

	d.Register(user.EventRegistered, func(e shared.DomainEvent) error {
		log.Info("User registered", zap.String("user_id", e.UserID().String()))
		return nil
	})
	d.Register(goals.EventGoalsUpdated, func(e shared.DomainEvent) error {
		updated, ok := e.(goals.GoalsUpdatedEvent)
		if !ok {
			return nil
		}
		log.Info("Goals updated",
			zap.String("user_id", e.UserID().String()),
			zap.String("trigger", string(updated.Trigger)),
			zap.Float64("adjusted_calories", updated.Goals.AdjustedCalories),
		)
		return nil
	})
	d.Register(vitals.EventRecorded, func(e shared.DomainEvent) error {
		log.Debug("Vitals recorded", zap.String("user_id", e.UserID().String()))
		return nil
	})

	if metrics != nil {
		d.Register(AllEvents, metrics.EventHandler)
	}
	if telemetry != nil {
		d.Register(goals.EventGoalsUpdated, telemetry.EventHandler)
	}
}
