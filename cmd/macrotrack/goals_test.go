package main

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/macrotrack/api/internal/domain/goals"
)

func runGoals(t *testing.T, args ...string) (string, error) {
	t.Helper()
	goalsInput.asJSON = false
	goalsInput.weeklyGoal = 0
	goalsInput.activity = float64(goals.ActivitySedentary)

	var out bytes.Buffer
	goalsCmd.SetOut(&out)
	goalsCmd.SetArgs(args)
	require.NoError(t, goalsCmd.ParseFlags(args))
	err := goalsCmd.RunE(goalsCmd, nil)
	return out.String(), err
}

func TestGoalsCommand(t *testing.T) {
	t.Run("ReferenceProfile_ShouldPrintTable", func(t *testing.T) {
		out, err := runGoals(t, "--weight", "80", "--height", "180", "--age", "30", "--gender", "male", "--activity", "1.55")
		require.NoError(t, err)
		assert.Contains(t, out, "Maintenance:  2759 kcal")
		assert.Contains(t, out, "Moderately Active")
		assert.Contains(t, out, "24.69")
	})

	t.Run("JSONFlag_ShouldPrintGoals", func(t *testing.T) {
		out, err := runGoals(t, "--weight", "80", "--height", "180", "--age", "30", "--gender", "male", "--activity", "1.55", "--json")
		require.NoError(t, err)

		var g goals.Goals
		require.NoError(t, json.Unmarshal([]byte(out), &g))
		assert.Equal(t, 2759, g.MaintenanceCalories)
		assert.Equal(t, 80, g.Macros.Protein)
	})

	t.Run("UnknownActivity_ShouldFail", func(t *testing.T) {
		_, err := runGoals(t, "--weight", "80", "--height", "180", "--age", "30", "--gender", "male", "--activity", "1.3")
		assert.ErrorIs(t, err, goals.ErrInvalidActivityFactor)
	})
}
