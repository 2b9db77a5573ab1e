package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bvsim-dev/bvsim/internal/analysis"
)

var (
	examplesTeamA   string
	examplesTeamB   string
	examplesRallies int
	examplesSeed    int64
)

var examplesCmd = &cobra.Command{
	Use:   "examples",
	Short: "Print example rally sequences between two teams",
	RunE:  runExamples,
}

func init() {
	examplesCmd.Flags().StringVarP(&examplesTeamA, "team-a", "a", "", "Team A YAML file (required)")
	examplesCmd.Flags().StringVarP(&examplesTeamB, "team-b", "b", "", "Team B YAML file (required)")
	examplesCmd.Flags().IntVarP(&examplesRallies, "rallies", "n", 10, "Number of rallies to show")
	examplesCmd.Flags().Int64Var(&examplesSeed, "seed", 0, "Seed for reproducible rallies")
	examplesCmd.MarkFlagRequired("team-a")
	examplesCmd.MarkFlagRequired("team-b")
}

func runExamples(cmd *cobra.Command, args []string) error {
	teamA, err := loadTeam(examplesTeamA)
	if err != nil {
		return err
	}
	teamB, err := loadTeam(examplesTeamB)
	if err != nil {
		return err
	}

	seed := parseSeed(examplesSeed, cmd.Flags().Changed("seed"))
	rallies, err := analysis.GenerateRallyExamples(teamA, teamB, examplesRallies, seed)
	if err != nil {
		return err
	}

	fmt.Printf("%s (A) vs %s (B)\n\n", teamA.Name, teamB.Name)
	for i, rally := range rallies {
		fmt.Printf("%3d. %s\n", i+1, rally)
	}
	return nil
}
