package stats_test

import (
	"context"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bvsim-dev/bvsim/internal/analysis"
	"github.com/bvsim-dev/bvsim/internal/stats"
	"github.com/bvsim-dev/bvsim/internal/team"
)

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetLevel(logrus.ErrorLevel)
	return log
}

func TestRepeatedSkillAnalysisAggregates(t *testing.T) {
	base := team.NewTemplateProvider().Basic("Base")
	opponent := team.NewTemplateProvider().Basic("Opponent")

	engine := analysis.NewEngine(quietLogger(), 100, "A", false)
	aggregator := stats.NewAggregator(quietLogger(), engine, 3, 100, 200)

	report, err := aggregator.RepeatedSkillAnalysis(context.Background(), base, opponent, 0.05)
	require.NoError(t, err)

	assert.NotEmpty(t, report.RunID)
	assert.Equal(t, 3, report.Runs)
	assert.Equal(t, 100, report.TrialsPerTest)
	assert.Equal(t, 0.05, report.ChangeValue)
	assert.Len(t, report.Parameters, len(base.Parameters()))

	assert.LessOrEqual(t, report.BaselineCI.Lower, report.BaselineMean)
	assert.GreaterOrEqual(t, report.BaselineCI.Upper, report.BaselineMean)

	for path, m := range report.Parameters {
		assert.Equal(t, 3, m.Runs, path)
		assert.LessOrEqual(t, m.PointCI.Lower, m.PointCI.Upper, path)
		assert.LessOrEqual(t, m.MatchCI.Lower, m.MatchCI.Upper, path)
		if m.Significant {
			assert.True(t, stats.Significant(m.MatchCI), path)
		}
	}
}

func TestRepeatedVariantAnalysisAggregates(t *testing.T) {
	base := team.NewTemplateProvider().Basic("Base")
	opponent := team.NewTemplateProvider().Basic("Opponent")

	variants := []analysis.VariantSet{
		{Name: "serve_boost", Deltas: []analysis.Delta{
			{Path: "serve_probabilities.ace", Amount: 0.05},
		}},
		{Name: "attack_boost", Deltas: []analysis.Delta{
			{Path: "attack_probabilities.good_set.kill", Amount: 0.10},
		}},
	}

	engine := analysis.NewEngine(quietLogger(), 100, "A", false)
	aggregator := stats.NewAggregator(quietLogger(), engine, 3, 100, 200)

	report, err := aggregator.RepeatedVariantAnalysis(context.Background(), base, opponent, variants)
	require.NoError(t, err)

	assert.Equal(t, 3, report.Runs)
	assert.Len(t, report.Parameters, 2)
	assert.Contains(t, report.Parameters, "serve_boost")
	assert.Contains(t, report.Parameters, "attack_boost")
}

func TestRepeatedSkillAnalysisCancellation(t *testing.T) {
	base := team.NewTemplateProvider().Basic("Base")
	opponent := team.NewTemplateProvider().Basic("Opponent")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	engine := analysis.NewEngine(quietLogger(), 100, "A", false)
	aggregator := stats.NewAggregator(quietLogger(), engine, 3, 100, 200)

	_, err := aggregator.RepeatedSkillAnalysis(ctx, base, opponent, 0.05)
	assert.Error(t, err)
}

func TestNewAggregatorDefaults(t *testing.T) {
	engine := analysis.NewEngine(quietLogger(), 100, "A", false)
	aggregator := stats.NewAggregator(quietLogger(), engine, 0, 100, 0)

	base := team.NewTemplateProvider().Basic("Base")
	opponent := team.NewTemplateProvider().Basic("Opponent")

	variants := []analysis.VariantSet{
		{Name: "serve_boost", Deltas: []analysis.Delta{
			{Path: "serve_probabilities.ace", Amount: 0.05},
		}},
	}

	// Zero runs falls back to the default run count.
	report, err := aggregator.RepeatedVariantAnalysis(context.Background(), base, opponent, variants)
	require.NoError(t, err)
	assert.Equal(t, stats.DefaultRuns, report.Runs)
}
