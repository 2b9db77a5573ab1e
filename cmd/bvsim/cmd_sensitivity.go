package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bvsim-dev/bvsim/internal/analysis"
)

var (
	sensTeam      string
	sensOpponent  string
	sensParameter string
	sensRange     string
	sensPoints    int
	sensServing   string
	sensOutput    string
)

var sensitivityCmd = &cobra.Command{
	Use:   "sensitivity",
	Short: "Map win rate across a range of values for one parameter",
	Long: `Varies a single probability over a "min,max,step" range and measures
the win rate at each value against the opponent. The team's current value
is always included as the base point. Impact is classified by the largest
swing from the base win rate: LOW under 2 points, MEDIUM under 5, HIGH
otherwise.`,
	RunE: runSensitivity,
}

func init() {
	sensitivityCmd.Flags().StringVarP(&sensTeam, "team", "t", "", "Team YAML file (required)")
	sensitivityCmd.Flags().StringVarP(&sensOpponent, "opponent", "p", "", "Opponent YAML file (required)")
	sensitivityCmd.Flags().StringVar(&sensParameter, "parameter", "", "Parameter path, e.g. attack_probabilities.excellent_set.kill (required)")
	sensitivityCmd.Flags().StringVarP(&sensRange, "range", "r", "", `Value range as "min,max,step" (required)`)
	sensitivityCmd.Flags().IntVarP(&sensPoints, "points", "n", 1000, "Points simulated per tested value")
	sensitivityCmd.Flags().StringVar(&sensServing, "serving", "A", "Base serving side (alternates each trial)")
	sensitivityCmd.Flags().StringVarP(&sensOutput, "output", "o", "", "Write result JSON to file")
	sensitivityCmd.MarkFlagRequired("team")
	sensitivityCmd.MarkFlagRequired("opponent")
	sensitivityCmd.MarkFlagRequired("parameter")
	sensitivityCmd.MarkFlagRequired("range")
}

func runSensitivity(cmd *cobra.Command, args []string) error {
	base, err := loadTeam(sensTeam)
	if err != nil {
		return err
	}
	opponent, err := loadTeam(sensOpponent)
	if err != nil {
		return err
	}

	minVal, maxVal, step, err := analysis.ParseRange(sensRange)
	if err != nil {
		return err
	}

	engine := analysis.NewEngine(log, sensPoints, sensServing, false)
	result, err := engine.SensitivityAnalysis(cmd.Context(), base, opponent, sensParameter, minVal, maxVal, step)
	if err != nil {
		return err
	}

	fmt.Printf("Sensitivity: %s\n", result.Parameter)
	fmt.Printf("Base win rate: %.2f%%\n\n", result.BaseWinRate)
	fmt.Println("  Value | Win Rate | Change")
	for _, point := range result.DataPoints {
		fmt.Printf("  %.3f | %6.2f%%  | %+.2f%%\n",
			point.ParameterValue, point.WinRate, point.ChangeFromBase)
	}
	fmt.Printf("\nImpact: %s\n", result.Impact)

	if sensOutput != "" {
		return writeJSON(sensOutput, result)
	}
	return nil
}
