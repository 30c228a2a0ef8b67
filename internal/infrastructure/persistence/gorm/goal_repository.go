package gorm

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/macrotrack/api/internal/domain/goals"
	"github.com/macrotrack/api/internal/ports/outbound"
)

// goalProfileUpdateColumns are overwritten when a profile already exists
var goalProfileUpdateColumns = []string{
	"weight_kg", "height_cm", "age_years", "gender", "activity_factor", "weekly_goal_kg",
	"bmi", "bmi_category", "maintenance_calories", "adjusted_calories",
	"protein_g", "carbs_g", "fats_g", "fiber_g", "updated_at",
}

// GoalProfileRepository persists one goal profile per user
type GoalProfileRepository struct {
	db *gorm.DB
}

// NewGoalProfileRepository creates a new goal profile repository
func NewGoalProfileRepository(db *gorm.DB) *GoalProfileRepository {
	return &GoalProfileRepository{db: db}
}

var _ outbound.GoalProfileRepository = (*GoalProfileRepository)(nil)

// Upsert inserts the profile or replaces the stored one
func (r *GoalProfileRepository) Upsert(ctx context.Context, g *goals.GoalProfile) error {
	model := GoalProfileToModel(g)
	model.CreatedAt = g.UpdatedAt

	result := r.db.WithContext(ctx).
		Omit(clause.Associations).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns(goalProfileUpdateColumns),
		}).
		Create(model)
	return translate(result.Error)
}

// FindByUserID loads the stored profile
func (r *GoalProfileRepository) FindByUserID(ctx context.Context, userID uuid.UUID) (*goals.GoalProfile, error) {
	var model GoalProfileModel

	result := r.db.WithContext(ctx).First(&model, "user_id = ?", userID)
	if result.Error != nil {
		return nil, translate(result.Error)
	}

	return ModelToGoalProfile(&model), nil
}

// Exists reports whether the user has stored a profile
func (r *GoalProfileRepository) Exists(ctx context.Context, userID uuid.UUID) (bool, error) {
	var count int64

	result := r.db.WithContext(ctx).Model(&GoalProfileModel{}).Where("user_id = ?", userID).Count(&count)
	if result.Error != nil {
		return false, result.Error
	}

	return count > 0, nil
}
