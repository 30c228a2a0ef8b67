package goals

import (
	"time"

	"github.com/google/uuid"

	"github.com/macrotrack/api/internal/domain/shared"
)

// GoalProfile is the stored biometric profile of a user together with the
// targets last computed from it. There is at most one per user.
type GoalProfile struct {
	shared.AggregateRoot

	UserID    uuid.UUID
	Profile   Profile
	Goals     Goals
	UpdatedAt time.Time
}

// NewGoalProfile computes targets for the profile and stamps them for the user.
func NewGoalProfile(userID uuid.UUID, p Profile, now time.Time) *GoalProfile {
	g := &GoalProfile{
		UserID:    userID,
		Profile:   p,
		Goals:     Calculate(p),
		UpdatedAt: now,
	}
	g.raiseUpdated(TriggerProfile)
	return g
}

// RecalculateForWeight reruns the pipeline with a new body weight while keeping
// height, age, gender, activity and weekly goal.
func (g *GoalProfile) RecalculateForWeight(weightKg float64, now time.Time) error {
	p, err := g.Profile.WithWeight(weightKg)
	if err != nil {
		return err
	}

	g.Profile = p
	g.Goals = Calculate(p)
	g.UpdatedAt = now
	g.raiseUpdated(TriggerVitals)
	return nil
}

func (g *GoalProfile) raiseUpdated(trigger Trigger) {
	g.AddEvent(GoalsUpdatedEvent{
		BaseEvent: shared.BaseEvent{User: g.UserID, At: g.UpdatedAt},
		Trigger:   trigger,
		Goals:     g.Goals,
	})
}
