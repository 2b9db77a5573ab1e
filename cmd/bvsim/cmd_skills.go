package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/bvsim-dev/bvsim/internal/analysis"
	"github.com/bvsim-dev/bvsim/internal/team"
)

var (
	skillsTeam       string
	skillsOpponent   string
	skillsTrials     int
	skillsChange     float64
	skillsDeltas     []string
	skillsServing    string
	skillsSequential bool
	skillsOutput     string
	skillsTop        int
)

var skillsCmd = &cobra.Command{
	Use:   "skills",
	Short: "Measure which skill improvements raise the win rate most",
	Long: `Perturbs every numeric probability of a team one at a time (or
applies named delta files with --deltas) and measures the win rate impact
of each change against the baseline.`,
	RunE: runSkills,
}

func init() {
	skillsCmd.Flags().StringVarP(&skillsTeam, "team", "t", "", "Team YAML file to improve (required)")
	skillsCmd.Flags().StringVarP(&skillsOpponent, "opponent", "p", "", "Opponent YAML file (required)")
	skillsCmd.Flags().IntVarP(&skillsTrials, "trials", "n", 100000, "Points simulated per test")
	skillsCmd.Flags().Float64VarP(&skillsChange, "change", "c", 0.05, "Probability increase applied to each parameter")
	skillsCmd.Flags().StringSliceVarP(&skillsDeltas, "deltas", "d", nil, "Delta YAML files to test as variants instead of a full sweep")
	skillsCmd.Flags().StringVar(&skillsServing, "serving", "A", "Base serving side (alternates each trial)")
	skillsCmd.Flags().BoolVar(&skillsSequential, "sequential", false, "Disable the parallel worker pool")
	skillsCmd.Flags().StringVarP(&skillsOutput, "output", "o", "", "Write full results JSON to file")
	skillsCmd.Flags().IntVar(&skillsTop, "top", 10, "Number of ranked results to print")
	skillsCmd.MarkFlagRequired("team")
	skillsCmd.MarkFlagRequired("opponent")
}

func runSkills(cmd *cobra.Command, args []string) error {
	base, err := loadTeam(skillsTeam)
	if err != nil {
		return err
	}
	opponent, err := loadTeam(skillsOpponent)
	if err != nil {
		return err
	}

	engine := analysis.NewEngine(log, skillsTrials, skillsServing, !skillsSequential)

	if len(skillsDeltas) > 0 {
		return runVariantSkills(cmd, engine, base, opponent)
	}

	result, err := engine.FullSkillAnalysis(cmd.Context(), base, opponent, skillsChange)
	if err != nil {
		return err
	}

	fmt.Printf("Baseline win rate: %.2f%% (%d parameters, +%.2f each)\n\n",
		result.BaselineWinRate, result.TotalParameters, result.ChangeValue)
	printRankedImprovements(result)

	if skillsOutput != "" {
		return writeJSON(skillsOutput, result)
	}
	return nil
}

func runVariantSkills(cmd *cobra.Command, engine *analysis.Engine, base, opponent *team.Team) error {
	variants := make([]analysis.VariantSet, 0, len(skillsDeltas))
	for _, path := range skillsDeltas {
		v, err := analysis.LoadVariantFile(path)
		if err != nil {
			return err
		}
		variants = append(variants, v)
	}

	result, err := engine.VariantAnalysis(cmd.Context(), base, opponent, variants)
	if err != nil {
		return err
	}

	fmt.Printf("Baseline win rate: %.2f%%\n\n", result.BaselineWinRate)

	type ranked struct {
		name string
		res  analysis.VariantResult
	}
	items := make([]ranked, 0, len(result.FileResults))
	for name, res := range result.FileResults {
		items = append(items, ranked{name, res})
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].res.Improvement > items[j].res.Improvement
	})
	for i, item := range items {
		fmt.Printf("%3d. %-40s %+6.2f%% (%d deltas)\n",
			i+1, item.name, item.res.Improvement, item.res.DeltasCount)
	}

	if skillsOutput != "" {
		return writeJSON(skillsOutput, result)
	}
	return nil
}

func printRankedImprovements(result *analysis.SweepResult) {
	type ranked struct {
		path string
		res  analysis.ParameterResult
	}
	items := make([]ranked, 0, len(result.ParameterImprovements))
	for path, res := range result.ParameterImprovements {
		items = append(items, ranked{path, res})
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].res.Improvement > items[j].res.Improvement
	})

	limit := skillsTop
	if limit <= 0 || limit > len(items) {
		limit = len(items)
	}
	for i := 0; i < limit; i++ {
		fmt.Printf("%3d. %-60s %+6.2f%% (%.2f → %.2f)\n",
			i+1, items[i].path, items[i].res.Improvement,
			items[i].res.CurrentValue, items[i].res.NewValue)
	}
}
