package goals

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGoalProfileLifecycle(t *testing.T) {
	userID := uuid.New()
	t0 := time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC)

	p, err := NewProfile(70, 175, 30, "male", 1.2, 0)
	require.NoError(t, err)

	gp := NewGoalProfile(userID, p, t0)
	assert.Equal(t, 1979, gp.Goals.MaintenanceCalories)

	events := gp.Events()
	require.Len(t, events, 1)
	ev := events[0].(GoalsUpdatedEvent)
	assert.Equal(t, TriggerProfile, ev.Trigger)
	assert.Equal(t, userID, ev.UserID())

	t1 := t0.Add(24 * time.Hour)
	require.NoError(t, gp.RecalculateForWeight(80, t1))
	assert.Equal(t, 80.0, gp.Profile.WeightKg)
	assert.Equal(t, 175.0, gp.Profile.HeightCm)
	assert.Equal(t, Calculate(gp.Profile), gp.Goals)
	assert.Equal(t, t1, gp.UpdatedAt)

	events = gp.Events()
	require.Len(t, events, 1)
	assert.Equal(t, TriggerVitals, events[0].(GoalsUpdatedEvent).Trigger)

	before := gp.Goals
	assert.ErrorIs(t, gp.RecalculateForWeight(0, t1), ErrInvalidWeight)
	assert.Equal(t, before, gp.Goals)
	assert.Empty(t, gp.Events())
}
