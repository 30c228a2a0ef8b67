package gorm

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/macrotrack/api/internal/domain/intake"
	"github.com/macrotrack/api/internal/ports/outbound"
)

// FoodRepository stores food entries
type FoodRepository struct {
	db *gorm.DB
}

// NewFoodRepository creates a new food repository
func NewFoodRepository(db *gorm.DB) *FoodRepository {
	return &FoodRepository{db: db}
}

var _ outbound.FoodRepository = (*FoodRepository)(nil)

// Create saves an entry
func (r *FoodRepository) Create(ctx context.Context, entry *intake.FoodEntry) error {
	result := r.db.WithContext(ctx).Omit(clause.Associations).Create(FoodEntryToModel(entry))
	return translate(result.Error)
}

// ListByUserID returns every entry of the user, newest first
func (r *FoodRepository) ListByUserID(ctx context.Context, userID uuid.UUID) ([]*intake.FoodEntry, error) {
	var models []FoodEntryModel

	result := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&models)
	if result.Error != nil {
		return nil, result.Error
	}

	entries := make([]*intake.FoodEntry, 0, len(models))
	for i := range models {
		entries = append(entries, ModelToFoodEntry(&models[i]))
	}
	return entries, nil
}

// Latest returns the most recent entry
func (r *FoodRepository) Latest(ctx context.Context, userID uuid.UUID) (*intake.FoodEntry, error) {
	var model FoodEntryModel

	result := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		First(&model)
	if result.Error != nil {
		return nil, translate(result.Error)
	}

	return ModelToFoodEntry(&model), nil
}

// DailyIntakeRepository keeps per-day totals
type DailyIntakeRepository struct {
	db  *gorm.DB
	now func() time.Time
}

// NewDailyIntakeRepository creates a new daily intake repository
func NewDailyIntakeRepository(db *gorm.DB) *DailyIntakeRepository {
	return &DailyIntakeRepository{db: db, now: time.Now}
}

var _ outbound.DailyIntakeRepository = (*DailyIntakeRepository)(nil)

// Increment adds n to the day's totals inside a single upsert so concurrent
// requests never lose an addition
func (r *DailyIntakeRepository) Increment(ctx context.Context, userID uuid.UUID, day string, n intake.Nutrients) (*intake.DailyIntake, error) {
	row := &DailyIntakeModel{
		UserID:    userID,
		Day:       day,
		Calories:  n.EnergyKcal,
		ProteinG:  n.ProteinG,
		CarbsG:    n.CarbG,
		FatsG:     n.FatG,
		FiberG:    n.FibreG,
		UpdatedAt: r.now().UTC(),
	}

	var out DailyIntakeModel
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Omit(clause.Associations).
			Clauses(clause.OnConflict{
				Columns: []clause.Column{{Name: "user_id"}, {Name: "day"}},
				DoUpdates: clause.Assignments(map[string]interface{}{
					"calories":   gorm.Expr("daily_intakes.calories + excluded.calories"),
					"protein_g":  gorm.Expr("daily_intakes.protein_g + excluded.protein_g"),
					"carbs_g":    gorm.Expr("daily_intakes.carbs_g + excluded.carbs_g"),
					"fats_g":     gorm.Expr("daily_intakes.fats_g + excluded.fats_g"),
					"fiber_g":    gorm.Expr("daily_intakes.fiber_g + excluded.fiber_g"),
					"updated_at": gorm.Expr("excluded.updated_at"),
				}),
			}).
			Create(row)
		if result.Error != nil {
			return result.Error
		}
		return tx.First(&out, "user_id = ? AND day = ?", userID, day).Error
	})
	if err != nil {
		return nil, translate(err)
	}

	return ModelToDailyIntake(&out), nil
}

// Find returns the day's totals or outbound.ErrNotFound
func (r *DailyIntakeRepository) Find(ctx context.Context, userID uuid.UUID, day string) (*intake.DailyIntake, error) {
	var model DailyIntakeModel

	result := r.db.WithContext(ctx).First(&model, "user_id = ? AND day = ?", userID, day)
	if result.Error != nil {
		return nil, translate(result.Error)
	}

	return ModelToDailyIntake(&model), nil
}
