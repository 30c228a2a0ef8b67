package goals

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseGender(t *testing.T) {
	tests := []struct {
		input   string
		want    Gender
		wantErr error
	}{
		{input: "male", want: GenderMale},
		{input: "female", want: GenderFemale},
		{input: " Female ", want: GenderFemale},
		{input: "MALE", want: GenderMale},
		{input: "", wantErr: ErrInvalidGender},
		{input: "other", wantErr: ErrInvalidGender},
		{input: "m", wantErr: ErrInvalidGender},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseGender(tt.input)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseActivityFactor(t *testing.T) {
	for _, f := range ActivityFactors {
		got, err := ParseActivityFactor(float64(f))
		require.NoError(t, err)
		assert.Equal(t, f, got)
		assert.NotEqual(t, "Unknown", got.Label())
	}

	for _, v := range []float64{0, 1, 1.3, 1.5, 2, -1.2, math.NaN()} {
		_, err := ParseActivityFactor(v)
		assert.ErrorIs(t, err, ErrInvalidActivityFactor, "value %v", v)
	}
}

func TestNewProfile(t *testing.T) {
	t.Run("Valid", func(t *testing.T) {
		p, err := NewProfile(70, 175, 30, "male", 1.55, 0)

		require.NoError(t, err)
		assert.Equal(t, Profile{
			WeightKg:     70,
			HeightCm:     175,
			AgeYears:     30,
			Gender:       GenderMale,
			Activity:     ActivityModeratelyActive,
			WeeklyGoalKg: 0,
		}, p)
	})

	tests := []struct {
		name     string
		weight   float64
		height   float64
		age      int
		gender   string
		activity float64
		goal     float64
		wantErr  error
	}{
		{"ZeroWeight", 0, 175, 30, "male", 1.2, 0, ErrInvalidWeight},
		{"NegativeWeight", -70, 175, 30, "male", 1.2, 0, ErrInvalidWeight},
		{"NaNWeight", math.NaN(), 175, 30, "male", 1.2, 0, ErrInvalidWeight},
		{"ZeroHeight", 70, 0, 30, "male", 1.2, 0, ErrInvalidHeight},
		{"InfiniteHeight", 70, math.Inf(1), 30, "male", 1.2, 0, ErrInvalidHeight},
		{"ZeroAge", 70, 175, 0, "male", 1.2, 0, ErrInvalidAge},
		{"ImplausibleWeight", 1e308, 175, 30, "male", 1.2, 0, ErrInvalidWeight},
		{"ImplausibleHeight", 70, 301, 30, "male", 1.2, 0, ErrInvalidHeight},
		{"ImplausibleAge", 70, 175, 1000, "male", 1.2, 0, ErrInvalidAge},
		{"UnknownGender", 70, 175, 30, "unspecified", 1.2, 0, ErrInvalidGender},
		{"UnlistedActivity", 70, 175, 30, "female", 1.4, 0, ErrInvalidActivityFactor},
		{"GoalTooLow", 70, 175, 30, "female", 1.2, -0.75, ErrInvalidWeeklyGoal},
		{"GoalTooHigh", 70, 175, 30, "female", 1.2, 0.51, ErrInvalidWeeklyGoal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewProfile(tt.weight, tt.height, tt.age, tt.gender, tt.activity, tt.goal)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	t.Run("GoalBoundsInclusive", func(t *testing.T) {
		_, err := NewProfile(70, 175, 30, "female", 1.2, -0.5)
		assert.NoError(t, err)
		_, err = NewProfile(70, 175, 30, "female", 1.2, 0.5)
		assert.NoError(t, err)
	})

	t.Run("UpperBoundsInclusive", func(t *testing.T) {
		p, err := NewProfile(MaxWeightKg, MaxHeightCm, MaxAgeYears, "female", 1.9, 0.5)
		require.NoError(t, err)

		g := Calculate(p)
		assert.False(t, math.IsInf(g.AdjustedCalories, 0))
		assert.Greater(t, g.MaintenanceCalories, 0)
	})
}

func TestProfileWithWeight(t *testing.T) {
	p, err := NewProfile(70, 175, 30, "male", 1.2, -0.25)
	require.NoError(t, err)

	updated, err := p.WithWeight(68.4)
	require.NoError(t, err)
	assert.Equal(t, 68.4, updated.WeightKg)
	assert.Equal(t, 70.0, p.WeightKg)
	assert.Equal(t, p.HeightCm, updated.HeightCm)
	assert.Equal(t, p.WeeklyGoalKg, updated.WeeklyGoalKg)

	_, err = p.WithWeight(0)
	assert.ErrorIs(t, err, ErrInvalidWeight)

	_, err = p.WithWeight(MaxWeightKg + 1)
	assert.ErrorIs(t, err, ErrInvalidWeight)
}
