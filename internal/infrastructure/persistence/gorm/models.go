// Package gorm provides GORM model definitions and repositories
package gorm

import (
	"time"

	"github.com/google/uuid"
)

// UserModel represents the GORM model for users
type UserModel struct {
	ID           uuid.UUID `gorm:"type:char(36);primaryKey"`
	FirstName    string    `gorm:"type:varchar(100)"`
	LastName     string    `gorm:"type:varchar(100)"`
	Contact      string    `gorm:"type:varchar(32)"`
	Username     string    `gorm:"type:varchar(50);uniqueIndex;not null"`
	Email        string    `gorm:"type:varchar(255);uniqueIndex;not null"`
	PasswordHash string    `gorm:"type:varchar(255);not null"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
	LastLoginAt  *time.Time
}

// TableName pins the table name
func (UserModel) TableName() string { return "users" }

// GoalProfileModel stores the biometric inputs and the computed targets
type GoalProfileModel struct {
	UserID              uuid.UUID `gorm:"type:char(36);primaryKey"`
	WeightKg            float64   `gorm:"not null"`
	HeightCm            float64   `gorm:"not null"`
	AgeYears            int       `gorm:"not null"`
	Gender              string    `gorm:"type:varchar(10);not null"`
	ActivityFactor      float64   `gorm:"not null"`
	WeeklyGoalKg        float64   `gorm:"not null;default:0"`
	BMI                 float64   `gorm:"column:bmi"`
	BMICategory         string    `gorm:"column:bmi_category;type:varchar(32)"`
	MaintenanceCalories int
	AdjustedCalories    float64
	ProteinG            int
	CarbsG              int
	FatsG               int
	FiberG              int
	CreatedAt           time.Time
	UpdatedAt           time.Time

	User UserModel `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

// TableName pins the table name
func (GoalProfileModel) TableName() string { return "goal_profiles" }

// VitalsReadingModel is one row of the vitals log
type VitalsReadingModel struct {
	ID            uuid.UUID `gorm:"type:char(36);primaryKey"`
	UserID        uuid.UUID `gorm:"type:char(36);not null;index:idx_vitals_user_recorded,priority:1"`
	SugarReading  float64   `gorm:"not null"`
	WeightReading float64   `gorm:"not null"`
	RecordedAt    time.Time `gorm:"not null;index:idx_vitals_user_recorded,priority:2"`

	User UserModel `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

// TableName pins the table name
func (VitalsReadingModel) TableName() string { return "vitals_readings" }

// FoodEntryModel is a saved food lookup
type FoodEntryModel struct {
	ID            uuid.UUID `gorm:"type:char(36);primaryKey"`
	UserID        uuid.UUID `gorm:"type:char(36);not null;index:idx_food_user_created,priority:1"`
	FoodName      string    `gorm:"type:varchar(200);not null"`
	EnergyKcal    float64   `gorm:"not null;default:0"`
	ProteinG      float64   `gorm:"not null;default:0"`
	CarbG         float64   `gorm:"not null;default:0"`
	FatG          float64   `gorm:"not null;default:0"`
	FibreG        float64   `gorm:"not null;default:0"`
	GlycemicIndex *float64
	CreatedAt     time.Time `gorm:"index:idx_food_user_created,priority:2"`

	User UserModel `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

// TableName pins the table name
func (FoodEntryModel) TableName() string { return "food_entries" }

// DailyIntakeModel accumulates one user's totals for one calendar day
type DailyIntakeModel struct {
	UserID    uuid.UUID `gorm:"type:char(36);primaryKey"`
	Day       string    `gorm:"type:char(10);primaryKey"`
	Calories  float64   `gorm:"not null;default:0"`
	ProteinG  float64   `gorm:"not null;default:0"`
	CarbsG    float64   `gorm:"not null;default:0"`
	FatsG     float64   `gorm:"not null;default:0"`
	FiberG    float64   `gorm:"not null;default:0"`
	UpdatedAt time.Time

	User UserModel `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

// TableName pins the table name
func (DailyIntakeModel) TableName() string { return "daily_intakes" }

// AllModels lists every model in dependency order for AutoMigrate
func AllModels() []interface{} {
	return []interface{}{
		&UserModel{},
		&GoalProfileModel{},
		&VitalsReadingModel{},
		&FoodEntryModel{},
		&DailyIntakeModel{},
	}
}
