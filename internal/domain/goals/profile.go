package goals

import (
	"math"
	"strings"
)

// Gender selects the Mifflin-St Jeor constant. Only two values are defined.
type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
)

// ParseGender accepts "male" or "female" (case-insensitive) and rejects
// everything else.
func ParseGender(s string) (Gender, error) {
	switch Gender(strings.ToLower(strings.TrimSpace(s))) {
	case GenderMale:
		return GenderMale, nil
	case GenderFemale:
		return GenderFemale, nil
	default:
		return "", ErrInvalidGender
	}
}

// ActivityFactor is the multiplier applied to BMR to estimate daily expenditure.
type ActivityFactor float64

const (
	ActivitySedentary        ActivityFactor = 1.2
	ActivityLightlyActive    ActivityFactor = 1.375
	ActivityModeratelyActive ActivityFactor = 1.55
	ActivityVeryActive       ActivityFactor = 1.725
	ActivitySuperActive      ActivityFactor = 1.9
)

// ActivityFactors lists the accepted multipliers in ascending order.
var ActivityFactors = []ActivityFactor{
	ActivitySedentary,
	ActivityLightlyActive,
	ActivityModeratelyActive,
	ActivityVeryActive,
	ActivitySuperActive,
}

const activityTolerance = 1e-9

// ParseActivityFactor maps a raw multiplier onto one of the enumerated levels.
func ParseActivityFactor(v float64) (ActivityFactor, error) {
	for _, f := range ActivityFactors {
		if math.Abs(float64(f)-v) < activityTolerance {
			return f, nil
		}
	}
	return 0, ErrInvalidActivityFactor
}

// Label returns the display name used by the goal form.
func (a ActivityFactor) Label() string {
	switch a {
	case ActivitySedentary:
		return "Sedentary"
	case ActivityLightlyActive:
		return "Lightly Active"
	case ActivityModeratelyActive:
		return "Moderately Active"
	case ActivityVeryActive:
		return "Very Active"
	case ActivitySuperActive:
		return "Super Active"
	default:
		return "Unknown"
	}
}

// MaxWeeklyGoalKg bounds the weekly weight change in either direction.
const MaxWeeklyGoalKg = 0.5

// Upper bounds on biometric input. Values past these are data entry errors
// and would drive the Mifflin-St Jeor estimate negative or to infinity.
const (
	MaxWeightKg = 700.0
	MaxHeightCm = 300.0
	MaxAgeYears = 150
)

// Profile is a validated biometric profile. Build it with NewProfile.
type Profile struct {
	WeightKg     float64
	HeightCm     float64
	AgeYears     int
	Gender       Gender
	Activity     ActivityFactor
	WeeklyGoalKg float64
}

// NewProfile validates raw biometric input and returns a Profile the engine
// can consume.
func NewProfile(weightKg, heightCm float64, ageYears int, gender string, activity, weeklyGoalKg float64) (Profile, error) {
	if err := validateWeight(weightKg); err != nil {
		return Profile{}, err
	}

	if !isPositive(heightCm) || heightCm > MaxHeightCm {
		return Profile{}, ErrInvalidHeight
	}

	if ageYears <= 0 || ageYears > MaxAgeYears {
		return Profile{}, ErrInvalidAge
	}

	g, err := ParseGender(gender)
	if err != nil {
		return Profile{}, err
	}

	a, err := ParseActivityFactor(activity)
	if err != nil {
		return Profile{}, err
	}

	if math.IsNaN(weeklyGoalKg) || weeklyGoalKg < -MaxWeeklyGoalKg || weeklyGoalKg > MaxWeeklyGoalKg {
		return Profile{}, ErrInvalidWeeklyGoal
	}

	return Profile{
		WeightKg:     weightKg,
		HeightCm:     heightCm,
		AgeYears:     ageYears,
		Gender:       g,
		Activity:     a,
		WeeklyGoalKg: weeklyGoalKg,
	}, nil
}

// WithWeight returns a copy of the profile with a new body weight.
func (p Profile) WithWeight(weightKg float64) (Profile, error) {
	if err := validateWeight(weightKg); err != nil {
		return Profile{}, err
	}
	p.WeightKg = weightKg
	return p, nil
}

func validateWeight(w float64) error {
	if !isPositive(w) || w > MaxWeightKg {
		return ErrInvalidWeight
	}
	return nil
}

func isPositive(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v > 0
}
