// Package goals computes daily calorie and macro targets from a biometric
// profile. Every function here is pure; values are safe to share between
// goroutines.
package goals

import "math"

const (
	// KcalPerKgBodyMass is the energy equivalent of one kilogram of body mass.
	KcalPerKgBodyMass = 7700.0

	proteinGramsPerKg  = 1.0
	fatCalorieShare    = 0.25
	kcalPerGramFat     = 9.0
	kcalPerGramProtein = 4.0
	kcalPerGramCarb    = 4.0
	fiberGramsPer1000  = 14.0
	daysPerWeek        = 7.0
	bmrMaleConstant    = 5.0
	bmrFemaleConstant  = -161.0
	bmrWeightFactor    = 10.0
	bmrHeightFactor    = 6.25
	bmrAgeFactor       = 5.0
)

// Macros is a daily macronutrient split in grams.
type Macros struct {
	Protein int `json:"protein"`
	Carbs   int `json:"carbs"`
	Fats    int `json:"fats"`
	Fiber   int `json:"fiber"`
}

// Goals is the result of running a Profile through the calculation pipeline.
type Goals struct {
	BMI                 float64 `json:"bmi"`
	BMICategory         string  `json:"bmiCategory"`
	MaintenanceCalories int     `json:"maintenanceCalories"`
	AdjustedCalories    float64 `json:"adjustedCalories"`
	Macros              Macros  `json:"dailyMacros"`
}

// ComputeBMI returns weight / height² (height in meters) rounded to two
// decimals. heightCm must be positive.
func ComputeBMI(weightKg, heightCm float64) float64 {
	heightM := heightCm / 100
	return roundTo(weightKg/(heightM*heightM), 2)
}

// MaintenanceCalories estimates daily expenditure with the Mifflin-St Jeor
// equation scaled by the activity factor.
func MaintenanceCalories(weightKg, heightCm float64, ageYears int, gender Gender, activity ActivityFactor) int {
	bmr := bmrWeightFactor*weightKg + bmrHeightFactor*heightCm - bmrAgeFactor*float64(ageYears)
	if gender == GenderMale {
		bmr += bmrMaleConstant
	} else {
		bmr += bmrFemaleConstant
	}
	return int(roundHalfUp(bmr * float64(activity)))
}

// AdjustForWeightGoal spreads the weekly energy surplus or deficit implied by
// weeklyGoalKg evenly across seven days.
func AdjustForWeightGoal(maintenance int, weeklyGoalKg float64) float64 {
	return float64(maintenance) + (weeklyGoalKg*KcalPerKgBodyMass)/daysPerWeek
}

// DailyMacros splits a calorie target into grams. Carbs take whatever energy
// protein and fat leave over and can come out negative; the value is not
// clamped.
func DailyMacros(weightKg, adjustedCalories float64) Macros {
	protein := roundHalfUp(weightKg * proteinGramsPerKg)
	fats := roundHalfUp(adjustedCalories * fatCalorieShare / kcalPerGramFat)
	carbs := roundHalfUp((adjustedCalories - (protein*kcalPerGramProtein + fats*kcalPerGramFat)) / kcalPerGramCarb)
	fiber := roundHalfUp(adjustedCalories / 1000 * fiberGramsPer1000)

	return Macros{
		Protein: int(protein),
		Carbs:   int(carbs),
		Fats:    int(fats),
		Fiber:   int(fiber),
	}
}

// BMICategory returns the WHO weight band for a BMI value.
func BMICategory(bmi float64) string {
	switch {
	case bmi < 18.5:
		return "Underweight"
	case bmi < 25.0:
		return "Normal weight"
	case bmi < 30.0:
		return "Overweight"
	case bmi < 35.0:
		return "Obesity class I"
	case bmi < 40.0:
		return "Obesity class II"
	default:
		return "Obesity class III"
	}
}

// Calculation threads a profile through the pipeline stages in order.
// Each stage reads only what the previous stages produced.
type Calculation struct {
	profile     Profile
	bmi         float64
	maintenance int
	adjusted    float64
	macros      Macros
}

// NewCalculation starts a pipeline for the given profile.
func NewCalculation(p Profile) *Calculation {
	return &Calculation{profile: p}
}

func (c *Calculation) stageBMI() *Calculation {
	c.bmi = ComputeBMI(c.profile.WeightKg, c.profile.HeightCm)
	return c
}

func (c *Calculation) stageMaintenance() *Calculation {
	p := c.profile
	c.maintenance = MaintenanceCalories(p.WeightKg, p.HeightCm, p.AgeYears, p.Gender, p.Activity)
	return c
}

func (c *Calculation) stageAdjustment() *Calculation {
	c.adjusted = AdjustForWeightGoal(c.maintenance, c.profile.WeeklyGoalKg)
	return c
}

func (c *Calculation) stageMacros() *Calculation {
	c.macros = DailyMacros(c.profile.WeightKg, c.adjusted)
	return c
}

// Run executes BMI → maintenance → adjustment → macros and returns the result.
func (c *Calculation) Run() Goals {
	c.stageBMI().stageMaintenance().stageAdjustment().stageMacros()

	return Goals{
		BMI:                 c.bmi,
		BMICategory:         BMICategory(c.bmi),
		MaintenanceCalories: c.maintenance,
		AdjustedCalories:    c.adjusted,
		Macros:              c.macros,
	}
}

// Calculate runs the full pipeline for a profile.
func Calculate(p Profile) Goals {
	return NewCalculation(p).Run()
}

// roundHalfUp rounds ties toward positive infinity, so -49.5 becomes -49.
func roundHalfUp(x float64) float64 {
	return math.Floor(x + 0.5)
}

// roundTo is half-up on the scaled value, unlike toFixed, which can differ
// in the last digit when x has no exact binary form.
func roundTo(x float64, decimals int) float64 {
	scale := math.Pow(10, float64(decimals))
	return roundHalfUp(x*scale) / scale
}
