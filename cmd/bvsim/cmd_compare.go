package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bvsim-dev/bvsim/internal/analysis"
	"github.com/bvsim-dev/bvsim/internal/team"
)

var (
	comparePoints int
	compareOutput string
)

var compareCmd = &cobra.Command{
	Use:   "compare <team.yaml> <team.yaml> [more...]",
	Short: "Round-robin comparison of multiple teams",
	Args:  cobra.MinimumNArgs(2),
	RunE:  runCompare,
}

func init() {
	compareCmd.Flags().IntVarP(&comparePoints, "points", "n", 10000, "Points per matchup")
	compareCmd.Flags().StringVarP(&compareOutput, "output", "o", "", "Write full results JSON to file")
}

func runCompare(cmd *cobra.Command, args []string) error {
	teams := make([]*team.Team, 0, len(args))
	for _, path := range args {
		t, err := loadTeam(path)
		if err != nil {
			return err
		}
		teams = append(teams, t)
	}

	result, err := analysis.CompareTeams(teams, comparePoints)
	if err != nil {
		return err
	}

	fmt.Printf("Round-robin over %d points per matchup\n\n", result.PointsPerMatchup)
	for i, r := range result.Rankings {
		fmt.Printf("%3d. %-30s %.1f%% average win rate\n", i+1, r.Name, r.AverageWinRate)
	}

	if compareOutput != "" {
		return writeJSON(compareOutput, result)
	}
	return nil
}
