package vitals

import (
	"math"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewReading(t *testing.T) {
	userID := uuid.New()
	at := time.Now()

	r, err := NewReading(userID, 95, 72.4, at)
	require.NoError(t, err)
	assert.Equal(t, userID, r.UserID)
	assert.NotEqual(t, uuid.Nil, r.ID)

	_, err = NewReading(userID, 0, 72.4, at)
	assert.ErrorIs(t, err, ErrInvalidSugarReading)

	_, err = NewReading(userID, 95, -1, at)
	assert.ErrorIs(t, err, ErrInvalidWeightReading)

	_, err = NewReading(userID, 95, math.Inf(1), at)
	assert.ErrorIs(t, err, ErrInvalidWeightReading)
}
