package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/bvsim-dev/bvsim/internal/analysis"
	"github.com/bvsim-dev/bvsim/internal/stats"
)

var (
	statsTeam       string
	statsOpponent   string
	statsTrials     int
	statsChange     float64
	statsRuns       int
	statsMatchSims  int
	statsDeltas     []string
	statsServing    string
	statsSequential bool
	statsOutput     string
	statsTop        int
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Repeat a skill sweep and report confidence intervals",
	Long: `Runs the skill sweep several independent times, then reports each
parameter's mean improvement with a confidence interval, the equivalent
match win rate impact, and whether the effect is statistically
significant (the match-level interval excludes zero).`,
	RunE: runStats,
}

func init() {
	statsCmd.Flags().StringVarP(&statsTeam, "team", "t", "", "Team YAML file to improve (required)")
	statsCmd.Flags().StringVarP(&statsOpponent, "opponent", "p", "", "Opponent YAML file (required)")
	statsCmd.Flags().IntVarP(&statsTrials, "trials", "n", 100000, "Points simulated per test")
	statsCmd.Flags().Float64VarP(&statsChange, "change", "c", 0.05, "Probability increase applied to each parameter")
	statsCmd.Flags().IntVarP(&statsRuns, "runs", "r", stats.DefaultRuns, "Independent sweep repetitions")
	statsCmd.Flags().IntVar(&statsMatchSims, "match-simulations", stats.DefaultMatchSimulations, "Matches simulated per conversion")
	statsCmd.Flags().StringSliceVarP(&statsDeltas, "deltas", "d", nil, "Delta YAML files to test as variants instead of a full sweep")
	statsCmd.Flags().StringVar(&statsServing, "serving", "A", "Base serving side (alternates each trial)")
	statsCmd.Flags().BoolVar(&statsSequential, "sequential", false, "Disable the parallel worker pool")
	statsCmd.Flags().StringVarP(&statsOutput, "output", "o", "", "Write full report JSON to file")
	statsCmd.Flags().IntVar(&statsTop, "top", 10, "Number of ranked results to print")
	statsCmd.MarkFlagRequired("team")
	statsCmd.MarkFlagRequired("opponent")
}

func runStats(cmd *cobra.Command, args []string) error {
	base, err := loadTeam(statsTeam)
	if err != nil {
		return err
	}
	opponent, err := loadTeam(statsOpponent)
	if err != nil {
		return err
	}

	engine := analysis.NewEngine(log, statsTrials, statsServing, !statsSequential)
	aggregator := stats.NewAggregator(log, engine, statsRuns, statsTrials, statsMatchSims)

	var report *stats.Report
	if len(statsDeltas) > 0 {
		variants := make([]analysis.VariantSet, 0, len(statsDeltas))
		for _, path := range statsDeltas {
			v, err := analysis.LoadVariantFile(path)
			if err != nil {
				return err
			}
			variants = append(variants, v)
		}
		report, err = aggregator.RepeatedVariantAnalysis(cmd.Context(), base, opponent, variants)
	} else {
		report, err = aggregator.RepeatedSkillAnalysis(cmd.Context(), base, opponent, statsChange)
	}
	if err != nil {
		return err
	}

	printReport(report)

	if statsOutput != "" {
		return writeJSON(statsOutput, report)
	}
	return nil
}

func printReport(report *stats.Report) {
	fmt.Printf("Baseline win rate: %.2f%% [%.2f, %.2f] over %d runs of %d trials\n\n",
		report.BaselineMean, report.BaselineCI.Lower, report.BaselineCI.Upper,
		report.Runs, report.TrialsPerTest)

	type ranked struct {
		path string
		m    stats.MetricStats
	}
	items := make([]ranked, 0, len(report.Parameters))
	for path, m := range report.Parameters {
		items = append(items, ranked{path, m})
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].m.PointMean > items[j].m.PointMean
	})

	limit := statsTop
	if limit <= 0 || limit > len(items) {
		limit = len(items)
	}
	for i := 0; i < limit; i++ {
		marker := " "
		if items[i].m.Significant {
			marker = "*"
		}
		fmt.Printf("%s %3d. %-60s points %+5.2f%% [%.2f, %.2f]  matches %+5.2f%% [%.2f, %.2f]\n",
			marker, i+1, items[i].path,
			items[i].m.PointMean, items[i].m.PointCI.Lower, items[i].m.PointCI.Upper,
			items[i].m.MatchMean, items[i].m.MatchCI.Lower, items[i].m.MatchCI.Upper)
	}
	fmt.Println("\n* statistically significant at the match level")
}
