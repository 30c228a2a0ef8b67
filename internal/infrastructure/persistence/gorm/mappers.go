package gorm

import (
	"github.com/macrotrack/api/internal/domain/goals"
	"github.com/macrotrack/api/internal/domain/intake"
	"github.com/macrotrack/api/internal/domain/user"
	"github.com/macrotrack/api/internal/domain/vitals"
)

// UserToModel converts domain user to GORM model
func UserToModel(u *user.User) *UserModel {
	s := u.Snapshot()
	return &UserModel{
		ID:           s.ID,
		FirstName:    s.FirstName,
		LastName:     s.LastName,
		Contact:      s.Contact,
		Username:     s.Username,
		Email:        s.Email,
		PasswordHash: s.PasswordHash,
		CreatedAt:    s.CreatedAt,
		UpdatedAt:    s.UpdatedAt,
		LastLoginAt:  s.LastLoginAt,
	}
}

// ModelToUser converts GORM model to domain user
func ModelToUser(m *UserModel) *user.User {
	return user.Reconstitute(user.Snapshot{
		ID:           m.ID,
		FirstName:    m.FirstName,
		LastName:     m.LastName,
		Contact:      m.Contact,
		Username:     m.Username,
		Email:        m.Email,
		PasswordHash: m.PasswordHash,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
		LastLoginAt:  m.LastLoginAt,
	})
}

// GoalProfileToModel flattens a goal profile into one row
func GoalProfileToModel(g *goals.GoalProfile) *GoalProfileModel {
	return &GoalProfileModel{
		UserID:              g.UserID,
		WeightKg:            g.Profile.WeightKg,
		HeightCm:            g.Profile.HeightCm,
		AgeYears:            g.Profile.AgeYears,
		Gender:              string(g.Profile.Gender),
		ActivityFactor:      float64(g.Profile.Activity),
		WeeklyGoalKg:        g.Profile.WeeklyGoalKg,
		BMI:                 g.Goals.BMI,
		BMICategory:         g.Goals.BMICategory,
		MaintenanceCalories: g.Goals.MaintenanceCalories,
		AdjustedCalories:    g.Goals.AdjustedCalories,
		ProteinG:            g.Goals.Macros.Protein,
		CarbsG:              g.Goals.Macros.Carbs,
		FatsG:               g.Goals.Macros.Fats,
		FiberG:              g.Goals.Macros.Fiber,
		UpdatedAt:           g.UpdatedAt,
	}
}

// ModelToGoalProfile rebuilds a goal profile. Stored inputs went through
// NewProfile on the way in, so they are trusted here.
func ModelToGoalProfile(m *GoalProfileModel) *goals.GoalProfile {
	return &goals.GoalProfile{
		UserID: m.UserID,
		Profile: goals.Profile{
			WeightKg:     m.WeightKg,
			HeightCm:     m.HeightCm,
			AgeYears:     m.AgeYears,
			Gender:       goals.Gender(m.Gender),
			Activity:     goals.ActivityFactor(m.ActivityFactor),
			WeeklyGoalKg: m.WeeklyGoalKg,
		},
		Goals: goals.Goals{
			BMI:                 m.BMI,
			BMICategory:         m.BMICategory,
			MaintenanceCalories: m.MaintenanceCalories,
			AdjustedCalories:    m.AdjustedCalories,
			Macros: goals.Macros{
				Protein: m.ProteinG,
				Carbs:   m.CarbsG,
				Fats:    m.FatsG,
				Fiber:   m.FiberG,
			},
		},
		UpdatedAt: m.UpdatedAt,
	}
}

// ReadingToModel converts a vitals reading
func ReadingToModel(r *vitals.Reading) *VitalsReadingModel {
	return &VitalsReadingModel{
		ID:            r.ID,
		UserID:        r.UserID,
		SugarReading:  r.SugarReading,
		WeightReading: r.WeightReading,
		RecordedAt:    r.RecordedAt,
	}
}

// ModelToReading converts a vitals row
func ModelToReading(m *VitalsReadingModel) *vitals.Reading {
	return &vitals.Reading{
		ID:            m.ID,
		UserID:        m.UserID,
		SugarReading:  m.SugarReading,
		WeightReading: m.WeightReading,
		RecordedAt:    m.RecordedAt,
	}
}

// FoodEntryToModel converts a food entry
func FoodEntryToModel(e *intake.FoodEntry) *FoodEntryModel {
	return &FoodEntryModel{
		ID:            e.ID,
		UserID:        e.UserID,
		FoodName:      e.FoodName,
		EnergyKcal:    e.EnergyKcal,
		ProteinG:      e.ProteinG,
		CarbG:         e.CarbG,
		FatG:          e.FatG,
		FibreG:        e.FibreG,
		GlycemicIndex: e.GlycemicIndex,
		CreatedAt:     e.CreatedAt,
	}
}

// ModelToFoodEntry converts a food row
func ModelToFoodEntry(m *FoodEntryModel) *intake.FoodEntry {
	return &intake.FoodEntry{
		ID:       m.ID,
		UserID:   m.UserID,
		FoodName: m.FoodName,
		Nutrients: intake.Nutrients{
			EnergyKcal: m.EnergyKcal,
			ProteinG:   m.ProteinG,
			CarbG:      m.CarbG,
			FatG:       m.FatG,
			FibreG:     m.FibreG,
		},
		GlycemicIndex: m.GlycemicIndex,
		CreatedAt:     m.CreatedAt,
	}
}

// ModelToDailyIntake converts a daily totals row
func ModelToDailyIntake(m *DailyIntakeModel) *intake.DailyIntake {
	return &intake.DailyIntake{
		UserID:   m.UserID,
		Day:      m.Day,
		Calories: m.Calories,
		Nutrients: intake.DailyTotals{
			Protein: m.ProteinG,
			Carbs:   m.CarbsG,
			Fats:    m.FatsG,
			Fiber:   m.FiberG,
		},
	}
}
