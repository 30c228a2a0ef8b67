package gorm

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/macrotrack/api/internal/domain/vitals"
	"github.com/macrotrack/api/internal/ports/outbound"
)

// VitalsRepository appends and lists vitals readings
type VitalsRepository struct {
	db *gorm.DB
}

// NewVitalsRepository creates a new vitals repository
func NewVitalsRepository(db *gorm.DB) *VitalsRepository {
	return &VitalsRepository{db: db}
}

var _ outbound.VitalsRepository = (*VitalsRepository)(nil)

// Create appends a reading
func (r *VitalsRepository) Create(ctx context.Context, reading *vitals.Reading) error {
	result := r.db.WithContext(ctx).Omit(clause.Associations).Create(ReadingToModel(reading))
	return translate(result.Error)
}

// ListByUserID returns the user's readings newest first
func (r *VitalsRepository) ListByUserID(ctx context.Context, userID uuid.UUID) ([]*vitals.Reading, error) {
	var models []VitalsReadingModel

	result := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("recorded_at DESC").
		Find(&models)
	if result.Error != nil {
		return nil, result.Error
	}

	readings := make([]*vitals.Reading, 0, len(models))
	for i := range models {
		readings = append(readings, ModelToReading(&models[i]))
	}
	return readings, nil
}
