package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/macrotrack/api/internal/domain/goals"
)

var goalsInput struct {
	weight     float64
	height     float64
	age        int
	gender     string
	activity   float64
	weeklyGoal float64
	asJSON     bool
}

func init() {
	f := goalsCmd.Flags()
	f.Float64Var(&goalsInput.weight, "weight", 0, "body weight in kg")
	f.Float64Var(&goalsInput.height, "height", 0, "height in cm")
	f.IntVar(&goalsInput.age, "age", 0, "age in years")
	f.StringVar(&goalsInput.gender, "gender", "", "male or female")
	f.Float64Var(&goalsInput.activity, "activity", float64(goals.ActivitySedentary), "activity factor (1.2, 1.375, 1.55, 1.725, 1.9)")
	f.Float64Var(&goalsInput.weeklyGoal, "weekly-goal", 0, "weekly weight change in kg, between -0.5 and 0.5")
	f.BoolVar(&goalsInput.asJSON, "json", false, "print the result as JSON")

	for _, name := range []string{"weight", "height", "age", "gender"} {
		_ = goalsCmd.MarkFlagRequired(name)
	}
}

var goalsCmd = &cobra.Command{
	Use:     "goals",
	Short:   "Calculate daily calorie and macro goals without a server",
	Example: "  macrotrack goals --weight 80 --height 180 --age 30 --gender male --activity 1.55",
	RunE: func(cmd *cobra.Command, args []string) error {
		profile, err := goals.NewProfile(
			goalsInput.weight,
			goalsInput.height,
			goalsInput.age,
			goalsInput.gender,
			goalsInput.activity,
			goalsInput.weeklyGoal,
		)
		if err != nil {
			return err
		}

		result := goals.Calculate(profile)
		if goalsInput.asJSON {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(result)
		}
		printGoals(cmd.OutOrStdout(), profile, result)
		return nil
	},
}

func printGoals(w io.Writer, p goals.Profile, g goals.Goals) {
	fmt.Fprintf(w, "Activity:     %s\n", p.Activity.Label())
	fmt.Fprintf(w, "BMI:          %.2f (%s)\n", g.BMI, g.BMICategory)
	fmt.Fprintf(w, "Maintenance:  %d kcal\n", g.MaintenanceCalories)
	fmt.Fprintf(w, "Target:       %.0f kcal\n", g.AdjustedCalories)
	fmt.Fprintf(w, "Protein:      %d g\n", g.Macros.Protein)
	fmt.Fprintf(w, "Carbs:        %d g\n", g.Macros.Carbs)
	fmt.Fprintf(w, "Fats:         %d g\n", g.Macros.Fats)
	fmt.Fprintf(w, "Fiber:        %d g\n", g.Macros.Fiber)
}
