// Package intake provides the food log and daily dashboard use cases
package intake

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/macrotrack/api/internal/domain/goals"
	"github.com/macrotrack/api/internal/domain/intake"
	"github.com/macrotrack/api/internal/ports/outbound"
	apperrors "github.com/macrotrack/api/pkg/errors"
)

// Service implements food log use cases
type Service struct {
	foods    outbound.FoodRepository
	days     outbound.DailyIntakeRepository
	profiles outbound.GoalProfileRepository
	clock    outbound.Clock
	location *time.Location
	logger   *zap.Logger
}

// NewService creates a new intake service. Days are cut in loc.
func NewService(
	foods outbound.FoodRepository,
	days outbound.DailyIntakeRepository,
	profiles outbound.GoalProfileRepository,
	clock outbound.Clock,
	loc *time.Location,
	logger *zap.Logger,
) *Service {
	if loc == nil {
		loc = time.UTC
	}
	return &Service{
		foods:    foods,
		days:     days,
		profiles: profiles,
		clock:    clock,
		location: loc,
		logger:   logger.Named("intake-service"),
	}
}

// AddFoodCommand is a food the user picked from a lookup
type AddFoodCommand struct {
	FoodName      string   `json:"food_name" validate:"required,nonblank,max=200"`
	EnergyKcal    float64  `json:"energy_kcal" validate:"gte=0"`
	ProteinG      float64  `json:"protein_g" validate:"gte=0"`
	CarbG         float64  `json:"carb_g" validate:"gte=0"`
	FatG          float64  `json:"fat_g" validate:"gte=0"`
	FibreG        float64  `json:"fibre_g" validate:"gte=0"`
	GlycemicIndex *float64 `json:"glycemic_index" validate:"omitempty,gte=0,lte=100"`
}

// DashboardCommand is an amount to add to today's totals
type DashboardCommand struct {
	EnergyKcal float64 `json:"energy_kcal" validate:"gte=0"`
	ProteinG   float64 `json:"protein_g" validate:"gte=0"`
	CarbG      float64 `json:"carb_g" validate:"gte=0"`
	FatG       float64 `json:"fat_g" validate:"gte=0"`
	FibreG     float64 `json:"fibre_g" validate:"gte=0"`
}

func (c DashboardCommand) nutrients() intake.Nutrients {
	return intake.Nutrients{
		EnergyKcal: c.EnergyKcal,
		ProteinG:   c.ProteinG,
		CarbG:      c.CarbG,
		FatG:       c.FatG,
		FibreG:     c.FibreG,
	}
}

// Remaining is what is left of the day's targets. Values go negative once a
// target is exceeded.
type Remaining struct {
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fats     float64 `json:"fats"`
	Fiber    float64 `json:"fiber"`
}

// Dashboard is today's totals with the targets when a profile exists
type Dashboard struct {
	intake.DailyIntake
	Goals     *goals.Goals `json:"goals,omitempty"`
	Remaining *Remaining   `json:"remaining,omitempty"`
}

// AddFood saves a food entry for the user
func (s *Service) AddFood(ctx context.Context, userID uuid.UUID, cmd AddFoodCommand) (*intake.FoodEntry, error) {
	entry, err := intake.NewFoodEntry(userID, cmd.FoodName, intake.Nutrients{
		EnergyKcal: cmd.EnergyKcal,
		ProteinG:   cmd.ProteinG,
		CarbG:      cmd.CarbG,
		FatG:       cmd.FatG,
		FibreG:     cmd.FibreG,
	}, cmd.GlycemicIndex, s.clock.Now())
	if err != nil {
		return nil, apperrors.NewValidationError(err.Error()).WithCause(err)
	}

	if err := s.foods.Create(ctx, entry); err != nil {
		return nil, apperrors.NewDatabaseError("save food", err)
	}

	s.logger.Debug("Food saved",
		zap.String("user_id", userID.String()),
		zap.String("food", entry.FoodName),
	)
	return entry, nil
}

// SelectedFoods lists all of the user's saved foods
func (s *Service) SelectedFoods(ctx context.Context, userID uuid.UUID) ([]*intake.FoodEntry, error) {
	entries, err := s.foods.ListByUserID(ctx, userID)
	if err != nil {
		return nil, apperrors.NewDatabaseError("list foods", err)
	}
	if entries == nil {
		entries = []*intake.FoodEntry{}
	}
	return entries, nil
}

// LatestFood returns the newest saved food
func (s *Service) LatestFood(ctx context.Context, userID uuid.UUID) (*intake.FoodEntry, error) {
	entry, err := s.foods.Latest(ctx, userID)
	if errors.Is(err, outbound.ErrNotFound) {
		return nil, apperrors.NewFoodNotFoundError()
	}
	if err != nil {
		return nil, apperrors.NewDatabaseError("load latest food", err)
	}
	return entry, nil
}

// AddToDashboard adds an amount to today's totals
func (s *Service) AddToDashboard(ctx context.Context, userID uuid.UUID, cmd DashboardCommand) (*intake.DailyIntake, error) {
	n := cmd.nutrients()
	if err := n.Validate(); err != nil {
		return nil, apperrors.NewValidationError(err.Error()).WithCause(err)
	}

	day := s.today()
	totals, err := s.days.Increment(ctx, userID, day, n)
	if err != nil {
		return nil, apperrors.NewDatabaseError("update daily intake", err)
	}

	s.logger.Debug("Daily intake updated",
		zap.String("user_id", userID.String()),
		zap.String("day", day),
		zap.Float64("calories", totals.Calories),
	)
	return totals, nil
}

// Dashboard returns today's totals, zeros when nothing was logged
func (s *Service) Dashboard(ctx context.Context, userID uuid.UUID) (*Dashboard, error) {
	day := s.today()

	totals, err := s.days.Find(ctx, userID, day)
	switch {
	case errors.Is(err, outbound.ErrNotFound):
		empty := intake.EmptyDay(userID, day)
		totals = &empty
	case err != nil:
		return nil, apperrors.NewDatabaseError("load daily intake", err)
	}

	dash := &Dashboard{DailyIntake: *totals}

	gp, err := s.profiles.FindByUserID(ctx, userID)
	switch {
	case errors.Is(err, outbound.ErrNotFound):
		return dash, nil
	case err != nil:
		return nil, apperrors.NewDatabaseError("load goals", err)
	}

	g := gp.Goals
	dash.Goals = &g
	dash.Remaining = &Remaining{
		Calories: g.AdjustedCalories - totals.Calories,
		Protein:  float64(g.Macros.Protein) - totals.Nutrients.Protein,
		Carbs:    float64(g.Macros.Carbs) - totals.Nutrients.Carbs,
		Fats:     float64(g.Macros.Fats) - totals.Nutrients.Fats,
		Fiber:    float64(g.Macros.Fiber) - totals.Nutrients.Fiber,
	}
	return dash, nil
}

func (s *Service) today() string {
	return intake.DayKey(s.clock.Now(), s.location)
}
