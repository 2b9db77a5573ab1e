package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bvsim-dev/bvsim/internal/analysis"
)

var (
	simulateTeamA  string
	simulateTeamB  string
	simulatePoints int
	simulateSeed   int64
	simulateOutput string
	simulateQuiet  bool
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Simulate a batch of points between two teams",
	Long: `Simulates individual points between two teams, alternating the
serving side each point, and reports win rates. With --output the full
point-by-point record is written as JSON for later analysis.`,
	RunE: runSimulate,
}

func init() {
	simulateCmd.Flags().StringVarP(&simulateTeamA, "team-a", "a", "", "Team A YAML file (required)")
	simulateCmd.Flags().StringVarP(&simulateTeamB, "team-b", "b", "", "Team B YAML file (required)")
	simulateCmd.Flags().IntVarP(&simulatePoints, "points", "n", 1000, "Number of points to simulate")
	simulateCmd.Flags().Int64Var(&simulateSeed, "seed", 0, "Seed for reproducible results")
	simulateCmd.Flags().StringVarP(&simulateOutput, "output", "o", "", "Write full results JSON to file")
	simulateCmd.Flags().BoolVarP(&simulateQuiet, "quiet", "q", false, "Suppress the summary line")
	simulateCmd.MarkFlagRequired("team-a")
	simulateCmd.MarkFlagRequired("team-b")
}

func runSimulate(cmd *cobra.Command, args []string) error {
	teamA, err := loadTeam(simulateTeamA)
	if err != nil {
		return err
	}
	teamB, err := loadTeam(simulateTeamB)
	if err != nil {
		return err
	}

	seed := parseSeed(simulateSeed, cmd.Flags().Changed("seed"))
	runner := analysis.NewSimulationRunner(log)
	result, err := runner.Run(cmd.Context(), teamA, teamB, simulatePoints, seed, nil)
	if err != nil {
		return err
	}

	if !simulateQuiet {
		fmt.Printf("%s vs %s over %d points\n", result.TeamAName, result.TeamBName, result.TotalPoints)
		fmt.Printf("  %s: %d wins (%.1f%%)\n", result.TeamAName, result.TeamAWins, result.TeamAWinRate)
		fmt.Printf("  %s: %d wins (%.1f%%)\n", result.TeamBName, result.TeamBWins, result.TeamBWinRate)
		fmt.Printf("  completed in %.2fs\n", result.DurationSeconds)
	}

	if simulateOutput != "" {
		return writeJSON(simulateOutput, result)
	}
	return nil
}
