package container

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/macrotrack/api/internal/domain/goals"
	"github.com/macrotrack/api/internal/domain/shared"
	"github.com/macrotrack/api/internal/domain/user"
	"github.com/macrotrack/api/internal/infrastructure/monitoring"
)

func TestModuleGraphIsComplete(t *testing.T) {
	err := fx.ValidateApp(
		Module,
		fx.Supply(ConfigPath("")),
		fx.NopLogger,
	)
	require.NoError(t, err)
}

func TestEventDispatcherDeliversInOrder(t *testing.T) {
	d := NewEventDispatcher(zap.NewNop())
	var got []string
	d.Register(user.EventRegistered, func(shared.DomainEvent) error {
		got = append(got, "first")
		return errors.New("boom")
	})
	d.Register(user.EventRegistered, func(shared.DomainEvent) error {
		got = append(got, "second")
		return nil
	})
	d.Register(AllEvents, func(e shared.DomainEvent) error {
		got = append(got, "all:"+e.EventName())
		return nil
	})

	event := user.RegisteredEvent{BaseEvent: shared.BaseEvent{User: uuid.New(), At: time.Now()}}
	require.NoError(t, d.Dispatch(event))
	assert.Equal(t, []string{"first", "second", "all:user.registered"}, got)

	got = nil
	require.NoError(t, d.Dispatch(goals.GoalsUpdatedEvent{}))
	assert.Equal(t, []string{"all:goals.updated"}, got)
}

func TestRegisterEventHandlersFeedsMetrics(t *testing.T) {
	metrics := monitoring.NewMetricsCollector(zap.NewNop())
	d := NewEventDispatcher(zap.NewNop())
	RegisterEventHandlers(d, zap.NewNop(), metrics, nil)

	require.NoError(t, d.Dispatch(goals.GoalsUpdatedEvent{
		BaseEvent: shared.BaseEvent{User: uuid.New(), At: time.Now()},
		Trigger:   goals.TriggerProfile,
	}))

	families, err := metrics.Registry().Gather()
	require.NoError(t, err)
	found := false
	for _, f := range families {
		if f.GetName() == "macrotrack_domain_events_total" {
			found = true
			require.Len(t, f.GetMetric(), 1)
			assert.Equal(t, 1.0, f.GetMetric()[0].GetCounter().GetValue())
		}
	}
	assert.True(t, found)
}
