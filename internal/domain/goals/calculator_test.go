package goals

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

// CalculatorTestSuite covers the goal calculation pipeline
type CalculatorTestSuite struct {
	suite.Suite
}

func TestCalculatorSuite(t *testing.T) {
	suite.Run(t, new(CalculatorTestSuite))
}

func (suite *CalculatorTestSuite) TestComputeBMI() {
	suite.Run("ReferenceValue_ShouldRoundToTwoDecimals", func() {
		assert.Equal(suite.T(), 22.86, ComputeBMI(70, 175))
	})

	suite.Run("IncreasingWeight_ShouldNotDecreaseBMI", func() {
		prev := ComputeBMI(40, 170)
		for w := 41.0; w <= 150; w += 0.7 {
			bmi := ComputeBMI(w, 170)
			assert.GreaterOrEqual(suite.T(), bmi, prev, "weight %.1f", w)
			prev = bmi
		}
		assert.Greater(suite.T(), ComputeBMI(90, 170), ComputeBMI(60, 170))
	})

	suite.Run("IncreasingHeight_ShouldNotIncreaseBMI", func() {
		prev := ComputeBMI(80, 140)
		for h := 141.0; h <= 210; h += 0.9 {
			bmi := ComputeBMI(80, h)
			assert.LessOrEqual(suite.T(), bmi, prev, "height %.1f", h)
			prev = bmi
		}
		assert.Less(suite.T(), ComputeBMI(80, 190), ComputeBMI(80, 160))
	})
}

func (suite *CalculatorTestSuite) TestMaintenanceCalories() {
	tests := []struct {
		name     string
		gender   Gender
		activity ActivityFactor
		want     int
	}{
		{name: "MaleSedentary", gender: GenderMale, activity: ActivitySedentary, want: 1979},
		{name: "FemaleSedentary", gender: GenderFemale, activity: ActivitySedentary, want: 1779},
		{name: "MaleModeratelyActive", gender: GenderMale, activity: ActivityModeratelyActive, want: 2556},
		{name: "FemaleSuperActive", gender: GenderFemale, activity: ActivitySuperActive, want: 2817},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			got := MaintenanceCalories(70, 175, 30, tt.gender, tt.activity)
			assert.Equal(suite.T(), tt.want, got)
		})
	}
}

func (suite *CalculatorTestSuite) TestAdjustForWeightGoal() {
	suite.Run("ZeroGoal_ShouldReturnMaintenance", func() {
		assert.Equal(suite.T(), 2000.0, AdjustForWeightGoal(2000, 0))
	})

	suite.Run("LossGoal_ShouldApplyDeficit", func() {
		assert.Equal(suite.T(), 1450.0, AdjustForWeightGoal(2000, -0.5))
	})

	suite.Run("GainGoal_ShouldApplySurplus", func() {
		assert.Equal(suite.T(), 2550.0, AdjustForWeightGoal(2000, 0.5))
	})

	suite.Run("AfterMaintenance_ZeroGoalIsIdentity", func() {
		m := MaintenanceCalories(82.5, 181, 41, GenderMale, ActivityVeryActive)
		assert.Equal(suite.T(), float64(m), AdjustForWeightGoal(m, 0))
	})
}

func (suite *CalculatorTestSuite) TestDailyMacros() {
	suite.Run("ReferenceSplit", func() {
		assert.Equal(suite.T(), Macros{Protein: 70, Carbs: 304, Fats: 56, Fiber: 28}, DailyMacros(70, 2000))
	})

	suite.Run("ProteinIgnoresCalorieTarget", func() {
		assert.Equal(suite.T(), 70, DailyMacros(70, 1200).Protein)
		assert.Equal(suite.T(), 70, DailyMacros(70, 3500).Protein)
	})

	suite.Run("ProteinAndFatExceedTarget_ShouldReturnNegativeCarbs", func() {
		// 200 g protein = 800 kcal, 22 g fat = 198 kcal against an 800 kcal target
		m := DailyMacros(200, 800)

		assert.Equal(suite.T(), 200, m.Protein)
		assert.Equal(suite.T(), 22, m.Fats)
		assert.Equal(suite.T(), -49, m.Carbs)
		assert.Equal(suite.T(), 11, m.Fiber)
	})

	suite.Run("FractionalTarget", func() {
		m := DailyMacros(70, 1450)

		assert.Equal(suite.T(), 40, m.Fats)
		assert.Equal(suite.T(), 203, m.Carbs)
		assert.Equal(suite.T(), 20, m.Fiber)
	})
}

func (suite *CalculatorTestSuite) TestBMICategory() {
	assert.Equal(suite.T(), "Underweight", BMICategory(17.9))
	assert.Equal(suite.T(), "Normal weight", BMICategory(22.86))
	assert.Equal(suite.T(), "Overweight", BMICategory(25))
	assert.Equal(suite.T(), "Obesity class I", BMICategory(31.2))
	assert.Equal(suite.T(), "Obesity class II", BMICategory(39.99))
	assert.Equal(suite.T(), "Obesity class III", BMICategory(40))
}

func (suite *CalculatorTestSuite) TestCalculate() {
	suite.Run("PipelineMatchesStages", func() {
		// Arrange
		p, err := NewProfile(70, 175, 30, "male", 1.2, -0.5)
		require.NoError(suite.T(), err)

		// Act
		g := Calculate(p)

		// Assert
		assert.Equal(suite.T(), 22.86, g.BMI)
		assert.Equal(suite.T(), "Normal weight", g.BMICategory)
		assert.Equal(suite.T(), 1979, g.MaintenanceCalories)
		assert.Equal(suite.T(), 1429.0, g.AdjustedCalories)
		assert.Equal(suite.T(), DailyMacros(70, 1429), g.Macros)
	})

	suite.Run("RepeatedCalls_ShouldBeIdentical", func() {
		p, err := NewProfile(64.3, 168.2, 27, "female", 1.375, 0.25)
		require.NoError(suite.T(), err)

		first := Calculate(p)
		for i := 0; i < 100; i++ {
			assert.Equal(suite.T(), first, Calculate(p))
		}
	})

	suite.Run("ConcurrentCalls_ShouldAgree", func() {
		p, err := NewProfile(91, 188, 45, "male", 1.725, 0)
		require.NoError(suite.T(), err)
		want := Calculate(p)

		var wg sync.WaitGroup
		results := make([]Goals, 32)
		for i := range results {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				results[i] = Calculate(p)
			}(i)
		}
		wg.Wait()

		for _, got := range results {
			assert.Equal(suite.T(), want, got)
		}
	})
}
