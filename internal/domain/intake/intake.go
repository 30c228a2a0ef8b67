// Package intake models logged foods and the per-day nutrition totals
package intake

import (
	"errors"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
)

// DayLayout is the calendar-day key format used for daily totals
const DayLayout = "2006-01-02"

var (
	ErrFoodNameRequired = errors.New("food name is required")
	ErrFoodNameTooLong  = errors.New("food name must not exceed 200 characters")
	ErrNegativeNutrient = errors.New("nutrient amounts must be non-negative numbers")
	ErrInvalidGlycemic  = errors.New("glycemic index must be between 0 and 100")
)

// Nutrients is an amount of energy and macronutrients
type Nutrients struct {
	EnergyKcal float64 `json:"energy_kcal"`
	ProteinG   float64 `json:"protein_g"`
	CarbG      float64 `json:"carb_g"`
	FatG       float64 `json:"fat_g"`
	FibreG     float64 `json:"fibre_g"`
}

// Validate rejects negative or non-finite amounts
func (n Nutrients) Validate() error {
	for _, v := range []float64{n.EnergyKcal, n.ProteinG, n.CarbG, n.FatG, n.FibreG} {
		if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
			return ErrNegativeNutrient
		}
	}
	return nil
}

// FoodEntry is a food the user picked from a lookup and saved
type FoodEntry struct {
	ID            uuid.UUID `json:"id"`
	UserID        uuid.UUID `json:"userId"`
	FoodName      string    `json:"food_name"`
	Nutrients               // flattened into the entry's JSON
	GlycemicIndex *float64  `json:"glycemic_index"`
	CreatedAt     time.Time `json:"createdAt"`
}

// NewFoodEntry validates and builds a food entry
func NewFoodEntry(userID uuid.UUID, name string, n Nutrients, glycemicIndex *float64, now time.Time) (*FoodEntry, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrFoodNameRequired
	}
	if len(name) > 200 {
		return nil, ErrFoodNameTooLong
	}
	if err := n.Validate(); err != nil {
		return nil, err
	}
	if glycemicIndex != nil && (*glycemicIndex < 0 || *glycemicIndex > 100) {
		return nil, ErrInvalidGlycemic
	}

	return &FoodEntry{
		ID:            uuid.New(),
		UserID:        userID,
		FoodName:      name,
		Nutrients:     n,
		GlycemicIndex: glycemicIndex,
		CreatedAt:     now,
	}, nil
}

// DailyTotals is the macro split consumed on one day
type DailyTotals struct {
	Protein float64 `json:"protein"`
	Carbs   float64 `json:"carbs"`
	Fats    float64 `json:"fats"`
	Fiber   float64 `json:"fiber"`
}

// DailyIntake accumulates everything a user logged on one calendar day
type DailyIntake struct {
	UserID    uuid.UUID   `json:"userId"`
	Day       string      `json:"date"`
	Calories  float64     `json:"calories"`
	Nutrients DailyTotals `json:"nutrients"`
}

// EmptyDay returns zero totals for a user and day
func EmptyDay(userID uuid.UUID, day string) DailyIntake {
	return DailyIntake{UserID: userID, Day: day}
}

// Add folds a logged amount into the totals
func (d *DailyIntake) Add(n Nutrients) {
	d.Calories += n.EnergyKcal
	d.Nutrients.Protein += n.ProteinG
	d.Nutrients.Carbs += n.CarbG
	d.Nutrients.Fats += n.FatG
	d.Nutrients.Fiber += n.FibreG
}

// DayKey formats t as a calendar day in loc
func DayKey(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	return t.In(loc).Format(DayLayout)
}
