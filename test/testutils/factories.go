// Package testutils provides test data factories for consistent test data generation
package testutils

import (
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/uuid"

	"github.com/macrotrack/api/internal/domain/goals"
	"github.com/macrotrack/api/internal/domain/intake"
	"github.com/macrotrack/api/internal/domain/user"
	"github.com/macrotrack/api/internal/domain/vitals"
)

// TestBCryptCost keeps password hashing fast in tests
const TestBCryptCost = 4

// TestPassword is the password every factory-built user has
const TestPassword = "correct-horse-battery"

// Factory builds valid domain values from seeded fake data
type Factory struct {
	faker *gofakeit.Faker
}

// NewFactory creates a new factory with a seeded faker
func NewFactory(seed int64) *Factory {
	return &Factory{faker: gofakeit.New(seed)}
}

// Registration returns signup data that passes validation
func (f *Factory) Registration() user.Registration {
	return user.Registration{
		FirstName: f.faker.FirstName(),
		LastName:  f.faker.LastName(),
		Contact:   f.faker.Phone(),
		Username:  f.faker.Username() + f.faker.DigitN(4),
		Email:     f.faker.Email(),
		Password:  TestPassword,
	}
}

// User returns a freshly registered user with its events drained
func (f *Factory) User() *user.User {
	u, err := user.NewUser(f.Registration(), TestBCryptCost)
	if err != nil {
		panic(err)
	}
	u.Events()
	return u
}

// Profile returns a random valid biometric profile
func (f *Factory) Profile() goals.Profile {
	gender := "female"
	if f.faker.Bool() {
		gender = "male"
	}
	activity := goals.ActivityFactors[f.faker.Number(0, len(goals.ActivityFactors)-1)]
	weeklyGoal := []float64{-0.5, -0.25, 0, 0.25, 0.5}[f.faker.Number(0, 4)]

	p, err := goals.NewProfile(
		f.faker.Float64Range(45, 130),
		f.faker.Float64Range(150, 200),
		f.faker.Number(18, 80),
		gender,
		float64(activity),
		weeklyGoal,
	)
	if err != nil {
		panic(err)
	}
	return p
}

// GoalProfile returns a computed goal profile for the user with events drained
func (f *Factory) GoalProfile(userID uuid.UUID) *goals.GoalProfile {
	gp := goals.NewGoalProfile(userID, f.Profile(), time.Now().UTC())
	gp.Events()
	return gp
}

// Reading returns a valid vitals reading
func (f *Factory) Reading(userID uuid.UUID, at time.Time) *vitals.Reading {
	r, err := vitals.NewReading(userID, f.faker.Float64Range(70, 180), f.faker.Float64Range(45, 130), at)
	if err != nil {
		panic(err)
	}
	return r
}

// Nutrients returns non-negative amounts
func (f *Factory) Nutrients() intake.Nutrients {
	return intake.Nutrients{
		EnergyKcal: float64(f.faker.Number(0, 900)),
		ProteinG:   float64(f.faker.Number(0, 60)),
		CarbG:      float64(f.faker.Number(0, 120)),
		FatG:       float64(f.faker.Number(0, 50)),
		FibreG:     float64(f.faker.Number(0, 20)),
	}
}

// FoodEntry returns a valid food entry created at the given time
func (f *Factory) FoodEntry(userID uuid.UUID, at time.Time) *intake.FoodEntry {
	e, err := intake.NewFoodEntry(userID, f.faker.Fruit(), f.Nutrients(), nil, at)
	if err != nil {
		panic(err)
	}
	return e
}
