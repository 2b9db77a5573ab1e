package analysis_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bvsim-dev/bvsim/internal/analysis"
	"github.com/bvsim-dev/bvsim/internal/team"
)

func teamWithAceRate(name string, ace float64) *team.Team {
	t := team.NewTemplateProvider().Basic(name)
	t.Serve = team.Distribution{
		{Outcome: "ace", Prob: ace}, {Outcome: "in_play", Prob: 0.95 - ace}, {Outcome: "error", Prob: 0.05},
	}
	return t
}

func TestCompareTeamsNeedsTwoTeams(t *testing.T) {
	_, err := analysis.CompareTeams([]*team.Team{teamWithAceRate("Solo", 0.1)}, 100)
	assert.Error(t, err)
}

func TestCompareTeamsMatrixAndRankings(t *testing.T) {
	strong := teamWithAceRate("Strong", 0.60)
	mid := teamWithAceRate("Mid", 0.20)
	weak := teamWithAceRate("Weak", 0.01)

	result, err := analysis.CompareTeams([]*team.Team{strong, mid, weak}, 2000)
	require.NoError(t, err)

	assert.Equal(t, []string{"Strong", "Mid", "Weak"}, result.Teams)
	assert.Equal(t, 2000, result.PointsPerMatchup)

	// Matrix is symmetric around 100%.
	sm := result.ResultsMatrix["Strong"]["Mid"]
	ms := result.ResultsMatrix["Mid"]["Strong"]
	assert.InDelta(t, 100.0, sm+ms, 1e-9)

	require.Len(t, result.Rankings, 3)
	assert.Equal(t, "Strong", result.Rankings[0].Name)
	assert.Equal(t, "Weak", result.Rankings[2].Name)
	assert.Greater(t, result.Rankings[0].AverageWinRate, result.Rankings[2].AverageWinRate)
}

func TestCompareTeamsIsReproducible(t *testing.T) {
	teams := []*team.Team{teamWithAceRate("A", 0.3), teamWithAceRate("B", 0.1)}

	r1, err := analysis.CompareTeams(teams, 500)
	require.NoError(t, err)
	r2, err := analysis.CompareTeams(teams, 500)
	require.NoError(t, err)
	assert.Equal(t, r1.ResultsMatrix, r2.ResultsMatrix)
}

func TestFormatRallyAndExamples(t *testing.T) {
	a := team.NewTemplateProvider().Basic("A")
	b := team.NewTemplateProvider().Basic("B")

	seed := int64(5)
	rallies, err := analysis.GenerateRallyExamples(a, b, 5, &seed)
	require.NoError(t, err)
	require.Len(t, rallies, 5)

	for _, rally := range rallies {
		assert.Regexp(t, `^\[(A|B)\] `, rally)
		assert.Contains(t, rally, ":serve:")
	}

	// Reproducible with the same seed.
	again, err := analysis.GenerateRallyExamples(a, b, 5, &seed)
	require.NoError(t, err)
	assert.Equal(t, strings.Join(rallies, "\n"), strings.Join(again, "\n"))

	_, err = analysis.GenerateRallyExamples(a, b, 0, nil)
	assert.Error(t, err)
}
