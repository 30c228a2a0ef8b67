// Package goals provides the use cases around a user's goal profile and vitals
package goals

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/macrotrack/api/internal/domain/goals"
	"github.com/macrotrack/api/internal/domain/shared"
	"github.com/macrotrack/api/internal/domain/vitals"
	"github.com/macrotrack/api/internal/ports/outbound"
	apperrors "github.com/macrotrack/api/pkg/errors"
)

const cacheKeyPrefix = "goals:"

// Service implements goal profile use cases
type Service struct {
	profiles   outbound.GoalProfileRepository
	vitals     outbound.VitalsRepository
	uow        outbound.UnitOfWork
	cache      outbound.CacheRepository
	dispatcher shared.EventDispatcher
	clock      outbound.Clock
	cacheTTL   time.Duration
	logger     *zap.Logger
}

// NewService creates a new goals service
func NewService(
	profiles outbound.GoalProfileRepository,
	vitalsRepo outbound.VitalsRepository,
	uow outbound.UnitOfWork,
	cache outbound.CacheRepository,
	dispatcher shared.EventDispatcher,
	clock outbound.Clock,
	cacheTTL time.Duration,
	logger *zap.Logger,
) *Service {
	return &Service{
		profiles:   profiles,
		vitals:     vitalsRepo,
		uow:        uow,
		cache:      cache,
		dispatcher: dispatcher,
		clock:      clock,
		cacheTTL:   cacheTTL,
		logger:     logger.Named("goals-service"),
	}
}

// SetGoalsCommand is the biometric form. Pointers separate a missing field
// from an explicit zero, so weightGoal 0 stays valid.
type SetGoalsCommand struct {
	Height        *float64 `json:"height" validate:"required"`
	Weight        *float64 `json:"weight" validate:"required"`
	Age           *int     `json:"age" validate:"required"`
	Gender        string   `json:"gender" validate:"required"`
	ActivityLevel *float64 `json:"activityLevel" validate:"required"`
	WeightGoal    *float64 `json:"weightGoal" validate:"required"`
}

// RecordVitalsCommand carries one vitals reading
type RecordVitalsCommand struct {
	SugarReading  *float64 `json:"sugarReading" validate:"required,gt=0"`
	WeightReading *float64 `json:"weightReading" validate:"required,gt=0"`
}

// UserDetailsDTO is the stored profile and the targets computed from it
type UserDetailsDTO struct {
	UserID              uuid.UUID    `json:"userId"`
	Height              float64      `json:"height"`
	Weight              float64      `json:"weight"`
	Age                 int          `json:"age"`
	Gender              string       `json:"gender"`
	ActivityLevel       float64      `json:"activityLevel"`
	ActivityLabel       string       `json:"activityLabel"`
	WeightGoal          float64      `json:"weightGoal"`
	BMI                 float64      `json:"bmi"`
	BMICategory         string       `json:"bmiCategory"`
	MaintenanceCalories int          `json:"maintenanceCalories"`
	AdjustedCalories    float64      `json:"adjustedCalories"`
	DailyMacros         goals.Macros `json:"dailyMacros"`
	UpdatedAt           time.Time    `json:"updatedAt"`
}

// VitalsResult is returned after a reading is recorded
type VitalsResult struct {
	Vitals      *vitals.Reading `json:"vitals"`
	UserDetails *UserDetailsDTO `json:"userDetails"`
}

// VitalsHistory lists readings newest first
type VitalsHistory struct {
	Vitals       []*vitals.Reading `json:"vitals"`
	LatestVitals *vitals.Reading   `json:"latestVitals"`
}

// SetGoals validates the profile, runs the calculation and stores the result
func (s *Service) SetGoals(ctx context.Context, userID uuid.UUID, cmd SetGoalsCommand) (*UserDetailsDTO, error) {
	if cmd.Height == nil || cmd.Weight == nil || cmd.Age == nil || cmd.Gender == "" ||
		cmd.ActivityLevel == nil || cmd.WeightGoal == nil {
		return nil, apperrors.NewValidationError("All fields are required")
	}

	profile, err := goals.NewProfile(*cmd.Weight, *cmd.Height, *cmd.Age, cmd.Gender, *cmd.ActivityLevel, *cmd.WeightGoal)
	if err != nil {
		return nil, apperrors.NewValidationError(err.Error()).WithCause(err)
	}

	gp := goals.NewGoalProfile(userID, profile, s.clock.Now())
	if err := s.profiles.Upsert(ctx, gp); err != nil {
		return nil, apperrors.NewDatabaseError("save user details", err)
	}

	s.invalidate(ctx, userID)
	s.dispatch(gp.Events())

	s.logger.Info("Goals updated",
		zap.String("user_id", userID.String()),
		zap.Int("maintenance_calories", gp.Goals.MaintenanceCalories),
		zap.Float64("adjusted_calories", gp.Goals.AdjustedCalories),
	)

	return toDTO(gp), nil
}

// GetGoals returns the stored profile, from cache when possible
func (s *Service) GetGoals(ctx context.Context, userID uuid.UUID) (*UserDetailsDTO, error) {
	key := cacheKeyPrefix + userID.String()

	if raw, err := s.cache.Get(ctx, key); err == nil {
		var dto UserDetailsDTO
		if err := json.Unmarshal(raw, &dto); err == nil {
			return &dto, nil
		}
	} else if !errors.Is(err, outbound.ErrNotFound) {
		s.logger.Warn("Goals cache read failed", zap.Error(err))
	}

	gp, err := s.profiles.FindByUserID(ctx, userID)
	if errors.Is(err, outbound.ErrNotFound) {
		return nil, apperrors.NewProfileNotFoundError("User details not found")
	}
	if err != nil {
		return nil, apperrors.NewDatabaseError("load user details", err)
	}

	dto := toDTO(gp)
	if raw, err := json.Marshal(dto); err == nil {
		if err := s.cache.Set(ctx, key, raw, s.cacheTTL); err != nil {
			s.logger.Warn("Goals cache write failed", zap.Error(err))
		}
	}

	return dto, nil
}

// RecordVitals stores a reading and recomputes the targets with the new weight
func (s *Service) RecordVitals(ctx context.Context, userID uuid.UUID, cmd RecordVitalsCommand) (*VitalsResult, error) {
	if cmd.SugarReading == nil || cmd.WeightReading == nil {
		return nil, apperrors.NewValidationError("Both sugarReading and weightReading are required")
	}

	now := s.clock.Now()
	reading, err := vitals.NewReading(userID, *cmd.SugarReading, *cmd.WeightReading, now)
	if err != nil {
		return nil, apperrors.NewValidationError(err.Error()).WithCause(err)
	}

	var gp *goals.GoalProfile
	err = s.uow.WithinTx(ctx, func(tx outbound.TxRepositories) error {
		var err error
		gp, err = tx.GoalProfiles.FindByUserID(ctx, userID)
		if err != nil {
			return err
		}
		if err := gp.RecalculateForWeight(reading.WeightReading, now); err != nil {
			return err
		}
		if err := tx.GoalProfiles.Upsert(ctx, gp); err != nil {
			return err
		}
		return tx.Vitals.Create(ctx, reading)
	})
	switch {
	case errors.Is(err, outbound.ErrNotFound):
		return nil, apperrors.NewProfileNotFoundError("Profile not found")
	case errors.Is(err, goals.ErrInvalidWeight):
		return nil, apperrors.NewValidationError(err.Error()).WithCause(err)
	case err != nil:
		return nil, apperrors.NewDatabaseError("record vitals", err)
	}

	s.invalidate(ctx, userID)
	s.dispatch(append(gp.Events(), vitals.Recorded(reading)))

	return &VitalsResult{Vitals: reading, UserDetails: toDTO(gp)}, nil
}

// ListVitals returns the user's readings newest first
func (s *Service) ListVitals(ctx context.Context, userID uuid.UUID) (*VitalsHistory, error) {
	readings, err := s.vitals.ListByUserID(ctx, userID)
	if err != nil {
		return nil, apperrors.NewDatabaseError("list vitals", err)
	}

	history := &VitalsHistory{Vitals: readings}
	if len(readings) > 0 {
		history.LatestVitals = readings[0]
	}
	return history, nil
}

func (s *Service) invalidate(ctx context.Context, userID uuid.UUID) {
	if err := s.cache.Delete(ctx, cacheKeyPrefix+userID.String()); err != nil {
		s.logger.Warn("Goals cache invalidation failed", zap.String("user_id", userID.String()), zap.Error(err))
	}
}

func (s *Service) dispatch(events []shared.DomainEvent) {
	for _, e := range events {
		if err := s.dispatcher.Dispatch(e); err != nil {
			s.logger.Warn("Event handler failed", zap.String("event", e.EventName()), zap.Error(err))
		}
	}
}

func toDTO(gp *goals.GoalProfile) *UserDetailsDTO {
	return &UserDetailsDTO{
		UserID:              gp.UserID,
		Height:              gp.Profile.HeightCm,
		Weight:              gp.Profile.WeightKg,
		Age:                 gp.Profile.AgeYears,
		Gender:              string(gp.Profile.Gender),
		ActivityLevel:       float64(gp.Profile.Activity),
		ActivityLabel:       gp.Profile.Activity.Label(),
		WeightGoal:          gp.Profile.WeeklyGoalKg,
		BMI:                 gp.Goals.BMI,
		BMICategory:         gp.Goals.BMICategory,
		MaintenanceCalories: gp.Goals.MaintenanceCalories,
		AdjustedCalories:    gp.Goals.AdjustedCalories,
		DailyMacros:         gp.Goals.Macros,
		UpdatedAt:           gp.UpdatedAt,
	}
}
