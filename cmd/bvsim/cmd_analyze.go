package main

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/bvsim-dev/bvsim/internal/analysis"
	"github.com/bvsim-dev/bvsim/internal/types"
)

var (
	analyzeBreakdown bool
	analyzeOutput    string
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <results.json>",
	Short: "Summarize a saved simulation result file",
	Long: `Reads a results file written by "simulate --output" and reports win
rates, point type breakdowns, and rally durations. --breakdown adds
per-team point types and serving advantage.`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().BoolVarP(&analyzeBreakdown, "breakdown", "b", false, "Include detailed per-team breakdown")
	analyzeCmd.Flags().StringVarP(&analyzeOutput, "output", "o", "", "Write report JSON to file")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("results file not found: %w", err)
	}

	var results types.SimulationResult
	if err := json.Unmarshal(data, &results); err != nil {
		return fmt.Errorf("failed to parse results file %s: %w", args[0], err)
	}

	report := analysis.AnalyzeResults(&results, analyzeBreakdown)

	fmt.Printf("%s vs %s over %d points\n", results.TeamAName, results.TeamBName, report.TotalPoints)
	fmt.Printf("  %s: %d wins (%.1f%%)\n", results.TeamAName, report.TeamAWins, report.TeamAWinRate)
	fmt.Printf("  %s: %d wins (%.1f%%)\n", results.TeamBName, report.TeamBWins, report.TeamBWinRate)
	fmt.Printf("  average rally length: %.1f touches\n\n", report.AverageDuration)

	fmt.Println("Point types:")
	pointTypes := make([]string, 0, len(report.PointTypeBreakdown))
	for pt := range report.PointTypeBreakdown {
		pointTypes = append(pointTypes, pt)
	}
	sort.Slice(pointTypes, func(i, j int) bool {
		return report.PointTypeBreakdown[pointTypes[i]] > report.PointTypeBreakdown[pointTypes[j]]
	})
	for _, pt := range pointTypes {
		fmt.Printf("  %-25s %6d (%.1f%%)\n", pt, report.PointTypeBreakdown[pt], report.PointTypePercentages[pt])
	}

	if report.Breakdown != nil {
		sa := report.Breakdown.ServingAdvantage
		fmt.Printf("\nServing advantage:\n")
		fmt.Printf("  %s on serve: %.1f%% of %d serves\n", results.TeamAName, sa.TeamAServeWinRate, sa.TeamAServes)
		fmt.Printf("  %s on serve: %.1f%% of %d serves\n", results.TeamBName, sa.TeamBServeWinRate, sa.TeamBServes)
	}

	if analyzeOutput != "" {
		return writeJSON(analyzeOutput, report)
	}
	return nil
}
