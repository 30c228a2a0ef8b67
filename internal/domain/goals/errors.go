package goals

import "errors"

// Domain errors for biometric profile validation

var (
	ErrInvalidWeight         = errors.New("weight must be a positive number of kilograms, at most 700")
	ErrInvalidHeight         = errors.New("height must be a positive number of centimeters, at most 300")
	ErrInvalidAge            = errors.New("age must be a positive number of years, at most 150")
	ErrInvalidGender         = errors.New("gender must be either male or female")
	ErrInvalidActivityFactor = errors.New("activity level must be one of 1.2, 1.375, 1.55, 1.725, 1.9")
	ErrInvalidWeeklyGoal     = errors.New("weekly weight goal must be between -0.5 and 0.5 kg")
)
