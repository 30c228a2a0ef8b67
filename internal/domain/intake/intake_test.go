package intake

import (
	"math"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFoodEntry(t *testing.T) {
	userID := uuid.New()
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	gi := 36.0
	badGI := 140.0

	entry, err := NewFoodEntry(userID, "  apple ", Nutrients{EnergyKcal: 52, CarbG: 14}, &gi, now)
	require.NoError(t, err)
	assert.Equal(t, "apple", entry.FoodName)
	assert.Equal(t, userID, entry.UserID)
	assert.Equal(t, 52.0, entry.EnergyKcal)

	tests := []struct {
		name string
		food string
		n    Nutrients
		gi   *float64
		want error
	}{
		{"empty name", " ", Nutrients{}, nil, ErrFoodNameRequired},
		{"long name", strings.Repeat("a", 201), Nutrients{}, nil, ErrFoodNameTooLong},
		{"negative protein", "egg", Nutrients{ProteinG: -1}, nil, ErrNegativeNutrient},
		{"nan energy", "egg", Nutrients{EnergyKcal: math.NaN()}, nil, ErrNegativeNutrient},
		{"glycemic out of range", "egg", Nutrients{}, &badGI, ErrInvalidGlycemic},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewFoodEntry(userID, tt.food, tt.n, tt.gi, now)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestDailyIntakeAdd(t *testing.T) {
	day := EmptyDay(uuid.New(), "2024-03-01")
	day.Add(Nutrients{EnergyKcal: 100, ProteinG: 5, CarbG: 10, FatG: 2, FibreG: 1})
	day.Add(Nutrients{EnergyKcal: 50, ProteinG: 1, CarbG: 2, FatG: 3, FibreG: 4})

	assert.Equal(t, 150.0, day.Calories)
	assert.Equal(t, DailyTotals{Protein: 6, Carbs: 12, Fats: 5, Fiber: 5}, day.Nutrients)
}

func TestDayKey(t *testing.T) {
	ts := time.Date(2024, 3, 1, 23, 30, 0, 0, time.UTC)
	tokyo, err := time.LoadLocation("Asia/Tokyo")
	require.NoError(t, err)

	assert.Equal(t, "2024-03-01", DayKey(ts, nil))
	assert.Equal(t, "2024-03-02", DayKey(ts, tokyo))
}
