package analysis_test

import (
	"context"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bvsim-dev/bvsim/internal/analysis"
	"github.com/bvsim-dev/bvsim/internal/team"
)

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetLevel(logrus.ErrorLevel)
	return log
}

func TestWinRateZeroTrialsIsNeutral(t *testing.T) {
	a := team.NewTemplateProvider().Basic("A")
	b := team.NewTemplateProvider().Basic("B")

	rate, err := analysis.WinRate(a, b, 0, "A")
	require.NoError(t, err)
	assert.Equal(t, 50.0, rate)

	rate, err = analysis.WinRate(a, b, -5, "A")
	require.NoError(t, err)
	assert.Equal(t, 50.0, rate)
}

func TestWinRateRejectsBadServingTeam(t *testing.T) {
	a := team.NewTemplateProvider().Basic("A")
	b := team.NewTemplateProvider().Basic("B")

	_, err := analysis.WinRate(a, b, 100, "X")
	assert.Error(t, err)
}

func TestWinRateSeededIsReproducible(t *testing.T) {
	a := team.NewTemplateProvider().Basic("A")
	b := team.NewTemplateProvider().Basic("B")

	r1, err := analysis.WinRateSeeded(a, b, 500, "A", 42)
	require.NoError(t, err)
	r2, err := analysis.WinRateSeeded(a, b, 500, "A", 42)
	require.NoError(t, err)
	assert.Equal(t, r1, r2)
}

func TestWinRateFavorsDominantTeam(t *testing.T) {
	dominant := team.NewTemplateProvider().Basic("Dominant")
	dominant.Serve = team.Distribution{{Outcome: "ace", Prob: 0.60}, {Outcome: "in_play", Prob: 0.38}, {Outcome: "error", Prob: 0.02}}
	dominant.Attack.Set("excellent_set", team.Distribution{{Outcome: "kill", Prob: 0.80}, {Outcome: "error", Prob: 0.05}, {Outcome: "defended", Prob: 0.15}})
	dominant.Attack.Set("good_set", team.Distribution{{Outcome: "kill", Prob: 0.80}, {Outcome: "error", Prob: 0.05}, {Outcome: "defended", Prob: 0.15}})
	dominant.Attack.Set("poor_set", team.Distribution{{Outcome: "kill", Prob: 0.80}, {Outcome: "error", Prob: 0.05}, {Outcome: "defended", Prob: 0.15}})

	weak := team.NewTemplateProvider().Basic("Weak")

	rate, err := analysis.WinRateSeeded(dominant, weak, 4000, "A", 7)
	require.NoError(t, err)
	assert.Greater(t, rate, 60.0)
}

func TestSimulationRunnerRun(t *testing.T) {
	a := team.NewTemplateProvider().Basic("Alpha")
	b := team.NewTemplateProvider().Basic("Beta")

	runner := analysis.NewSimulationRunner(testLogger())
	seed := int64(99)
	result, err := runner.Run(context.Background(), a, b, 300, &seed, nil)
	require.NoError(t, err)

	assert.Equal(t, "Alpha", result.TeamAName)
	assert.Equal(t, "Beta", result.TeamBName)
	assert.Equal(t, 300, result.TotalPoints)
	assert.Len(t, result.Points, 300)
	assert.Equal(t, 300, result.TeamAWins+result.TeamBWins)
	assert.InDelta(t, 100.0, result.TeamAWinRate+result.TeamBWinRate, 1e-9)

	// Serve alternation: even trials serve A, odd trials serve B.
	assert.Equal(t, "A", result.Points[0].ServingTeam)
	assert.Equal(t, "B", result.Points[1].ServingTeam)

	// Same seed reproduces the exact point sequence.
	again, err := runner.Run(context.Background(), a, b, 300, &seed, nil)
	require.NoError(t, err)
	assert.Equal(t, result.Points, again.Points)
}

func TestSimulationRunnerRejectsBadPointCount(t *testing.T) {
	a := team.NewTemplateProvider().Basic("A")
	b := team.NewTemplateProvider().Basic("B")

	runner := analysis.NewSimulationRunner(testLogger())
	_, err := runner.Run(context.Background(), a, b, 0, nil, nil)
	assert.Error(t, err)
}

func TestSimulationRunnerHonorsCancellation(t *testing.T) {
	a := team.NewTemplateProvider().Basic("A")
	b := team.NewTemplateProvider().Basic("B")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	runner := analysis.NewSimulationRunner(testLogger())
	_, err := runner.Run(ctx, a, b, 10000, nil, nil)
	assert.ErrorIs(t, err, context.Canceled)
}
