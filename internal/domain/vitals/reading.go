// Package vitals defines blood sugar and body weight readings
package vitals

import (
	"errors"
	"math"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidSugarReading  = errors.New("sugar reading must be a positive number")
	ErrInvalidWeightReading = errors.New("weight reading must be a positive number")
)

// Reading is one vitals entry. Sugar is in mg/dL, weight in kilograms.
type Reading struct {
	ID            uuid.UUID `json:"id"`
	UserID        uuid.UUID `json:"userId"`
	SugarReading  float64   `json:"sugarReading"`
	WeightReading float64   `json:"weightReading"`
	RecordedAt    time.Time `json:"timestamp"`
}

// NewReading validates both measurements
func NewReading(userID uuid.UUID, sugar, weight float64, at time.Time) (*Reading, error) {
	if !positive(sugar) {
		return nil, ErrInvalidSugarReading
	}
	if !positive(weight) {
		return nil, ErrInvalidWeightReading
	}

	return &Reading{
		ID:            uuid.New(),
		UserID:        userID,
		SugarReading:  sugar,
		WeightReading: weight,
		RecordedAt:    at,
	}, nil
}

func positive(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v > 0
}
