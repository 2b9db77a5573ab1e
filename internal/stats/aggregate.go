package stats

import (
	"context"
	"runtime"
	"sync"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/bvsim-dev/bvsim/internal/analysis"
	"github.com/bvsim-dev/bvsim/internal/team"
)

// DefaultRuns is the default number of independent sweep repetitions.
const DefaultRuns = 5

const maxRunWorkers = 8

// MetricStats aggregates one metric across independent runs: point-level
// and match-converted mean and confidence interval. Significance is judged
// on the match-level interval.
type MetricStats struct {
	PointMean   float64  `json:"point_mean"`
	PointCI     Interval `json:"point_ci"`
	MatchMean   float64  `json:"match_mean"`
	MatchCI     Interval `json:"match_ci"`
	Significant bool     `json:"is_significant"`
	Runs        int      `json:"runs"`
}

// Report is the aggregated output of repeated sweep runs.
type Report struct {
	RunID           string                 `json:"run_id"`
	Runs            int                    `json:"runs"`
	TrialsPerTest   int                    `json:"trials_per_test"`
	ChangeValue     float64                `json:"change_value,omitempty"`
	BaselineMean    float64                `json:"baseline_win_rate"`
	BaselineCI      Interval               `json:"baseline_ci"`
	Parameters      map[string]MetricStats `json:"parameters"`
	MatchConversion string                 `json:"match_conversion"`
}

// Aggregator executes a sweep multiple independent times and reduces the
// per-run improvements to means, confidence intervals and significance
// flags.
type Aggregator struct {
	log        *logrus.Logger
	engine     *analysis.Engine
	runs       int
	trials     int
	matchSims  int
	confidence float64
}

func NewAggregator(log *logrus.Logger, engine *analysis.Engine, runs, trials, matchSims int) *Aggregator {
	if runs <= 0 {
		runs = DefaultRuns
	}
	if matchSims <= 0 {
		matchSims = DefaultMatchSimulations
	}
	return &Aggregator{
		log:        log,
		engine:     engine,
		runs:       runs,
		trials:     trials,
		matchSims:  matchSims,
		confidence: 0.95,
	}
}

func runWorkerLimit(runs int) int {
	n := runtime.NumCPU()
	if runs < n {
		n = runs
	}
	if n > maxRunWorkers {
		n = maxRunWorkers
	}
	if n < 1 {
		n = 1
	}
	return n
}

// RepeatedSkillAnalysis runs the full skill sweep independently multiple
// times and aggregates per-parameter improvements. Runs execute across a
// bounded worker pool; merging is order-independent.
func (a *Aggregator) RepeatedSkillAnalysis(ctx context.Context, base, opponent *team.Team, change float64) (*Report, error) {
	runID := uuid.NewString()
	a.log.WithFields(logrus.Fields{
		"run_id": runID,
		"runs":   a.runs,
		"change": change,
	}).Info("Starting repeated skill analysis")

	results := make([]*analysis.SweepResult, a.runs)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runWorkerLimit(a.runs))

	var mu sync.Mutex
	for i := 0; i < a.runs; i++ {
		i := i
		g.Go(func() error {
			res, err := a.engine.FullSkillAnalysis(gctx, base, opponent, change)
			if err != nil {
				return err
			}
			mu.Lock()
			results[i] = res
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	baselines := make([]float64, 0, a.runs)
	improvements := make(map[string][]float64)
	for _, res := range results {
		baselines = append(baselines, res.BaselineWinRate)
		for path, pr := range res.ParameterImprovements {
			improvements[path] = append(improvements[path], pr.Improvement)
		}
	}

	report := a.buildReport(runID, baselines, improvements)
	report.ChangeValue = change
	return report, nil
}

// RepeatedVariantAnalysis is the variant-file counterpart.
func (a *Aggregator) RepeatedVariantAnalysis(ctx context.Context, base, opponent *team.Team, variants []analysis.VariantSet) (*Report, error) {
	runID := uuid.NewString()
	a.log.WithFields(logrus.Fields{
		"run_id":   runID,
		"runs":     a.runs,
		"variants": len(variants),
	}).Info("Starting repeated variant analysis")

	results := make([]*analysis.VariantSweepResult, a.runs)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runWorkerLimit(a.runs))

	var mu sync.Mutex
	for i := 0; i < a.runs; i++ {
		i := i
		g.Go(func() error {
			res, err := a.engine.VariantAnalysis(gctx, base, opponent, variants)
			if err != nil {
				return err
			}
			mu.Lock()
			results[i] = res
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	baselines := make([]float64, 0, a.runs)
	improvements := make(map[string][]float64)
	for _, res := range results {
		baselines = append(baselines, res.BaselineWinRate)
		for name, vr := range res.FileResults {
			improvements[name] = append(improvements[name], vr.Improvement)
		}
	}

	return a.buildReport(runID, baselines, improvements), nil
}

func (a *Aggregator) buildReport(runID string, baselines []float64, improvements map[string][]float64) *Report {
	baselineMean, baselineCI := ConfidenceInterval(baselines, a.confidence)

	report := &Report{
		RunID:           runID,
		Runs:            len(baselines),
		TrialsPerTest:   a.trials,
		BaselineMean:    baselineMean,
		BaselineCI:      baselineCI,
		Parameters:      make(map[string]MetricStats, len(improvements)),
		MatchConversion: "monte_carlo_estimate",
	}

	for path, samples := range improvements {
		pointMean, pointCI := ConfidenceInterval(samples, a.confidence)

		// Convert each run's point delta to a match delta, then aggregate
		// the converted samples the same way.
		matchSamples := make([]float64, len(samples))
		for i, delta := range samples {
			matchSamples[i] = ConvertPointDelta(baselineMean, delta, a.matchSims)
		}
		matchMean, matchCI := ConfidenceInterval(matchSamples, a.confidence)

		report.Parameters[path] = MetricStats{
			PointMean:   pointMean,
			PointCI:     pointCI,
			MatchMean:   matchMean,
			MatchCI:     matchCI,
			Significant: Significant(matchCI),
			Runs:        len(samples),
		}
	}

	return report
}
