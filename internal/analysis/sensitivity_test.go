package analysis_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bvsim-dev/bvsim/internal/analysis"
	"github.com/bvsim-dev/bvsim/internal/team"
)

func TestParseRange(t *testing.T) {
	minVal, maxVal, step, err := analysis.ParseRange("0.7,0.95,0.05")
	require.NoError(t, err)
	assert.Equal(t, 0.7, minVal)
	assert.Equal(t, 0.95, maxVal)
	assert.Equal(t, 0.05, step)

	_, _, _, err = analysis.ParseRange("0.7,0.95")
	assert.Error(t, err)
	_, _, _, err = analysis.ParseRange("0.7,0.95,fast")
	assert.Error(t, err)
}

func TestSensitivityAnalysisIncludesBaseValue(t *testing.T) {
	base := team.NewTemplateProvider().Basic("Base")
	opponent := team.NewTemplateProvider().Basic("Opponent")

	current, err := base.GetValue("serve_probabilities.ace")
	require.NoError(t, err)

	engine := analysis.NewEngine(testLogger(), 200, "A", false)
	result, err := engine.SensitivityAnalysis(context.Background(), base, opponent,
		"serve_probabilities.ace", 0.02, 0.10, 0.04)
	require.NoError(t, err)

	assert.Equal(t, "serve_probabilities.ace", result.Parameter)
	assert.Contains(t, []string{"LOW", "MEDIUM", "HIGH"}, result.Impact)

	values := make([]float64, 0, len(result.DataPoints))
	for _, p := range result.DataPoints {
		values = append(values, p.ParameterValue)
		assert.InDelta(t, result.BaseWinRate+p.ChangeFromBase, p.WinRate, 1e-9)
	}
	assert.Contains(t, values, current)
	for i := 1; i < len(values); i++ {
		assert.Greater(t, values[i], values[i-1])
	}
}

func TestSensitivityAnalysisRejectsBadInput(t *testing.T) {
	base := team.NewTemplateProvider().Basic("Base")
	opponent := team.NewTemplateProvider().Basic("Opponent")
	engine := analysis.NewEngine(testLogger(), 100, "A", false)
	ctx := context.Background()

	_, err := engine.SensitivityAnalysis(ctx, base, opponent, "serve_probabilities.ace", 0.1, 0.3, 0)
	assert.Error(t, err)
	_, err = engine.SensitivityAnalysis(ctx, base, opponent, "serve_probabilities.ace", 0.3, 0.1, 0.05)
	assert.Error(t, err)
	_, err = engine.SensitivityAnalysis(ctx, base, opponent, "serve_probabilities.smash", 0.1, 0.3, 0.05)
	assert.Error(t, err)
}

func TestSensitivityAnalysisCancellation(t *testing.T) {
	base := team.NewTemplateProvider().Basic("Base")
	opponent := team.NewTemplateProvider().Basic("Opponent")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	engine := analysis.NewEngine(testLogger(), 200, "A", false)
	_, err := engine.SensitivityAnalysis(ctx, base, opponent, "serve_probabilities.ace", 0.02, 0.10, 0.02)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSensitivityAnalysisDoesNotMutateBaseTeam(t *testing.T) {
	base := team.NewTemplateProvider().Basic("Base")
	opponent := team.NewTemplateProvider().Basic("Opponent")
	before, err := base.ToYAML()
	require.NoError(t, err)

	engine := analysis.NewEngine(testLogger(), 100, "A", false)
	_, err = engine.SensitivityAnalysis(context.Background(), base, opponent,
		"serve_probabilities.ace", 0.02, 0.08, 0.02)
	require.NoError(t, err)

	after, err := base.ToYAML()
	require.NoError(t, err)
	assert.Equal(t, before, after)
}
