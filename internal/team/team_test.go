package team_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bvsim-dev/bvsim/internal/team"
)

func TestFromYAMLPartialTeamAppliesDefaults(t *testing.T) {
	partial := []byte(`
name: Servers Only
serve_probabilities:
  ace: 0.20
  in_play: 0.75
  error: 0.05
`)
	tm, err := team.FromYAML(partial)
	require.NoError(t, err)
	assert.Equal(t, "Servers Only", tm.Name)
	assert.Empty(t, tm.Attack)

	tm.ApplyDefaults(team.NewTemplateProvider().Basic("Fallback"))

	// Explicit sections are kept, missing ones are filled in.
	v, _ := tm.Serve.Get("ace")
	assert.Equal(t, 0.20, v)
	assert.NotEmpty(t, tm.Attack)
	assert.NotEmpty(t, tm.Dig)
	assert.Empty(t, team.Validate(tm))
}

func TestValidateAcceptsTemplates(t *testing.T) {
	p := team.NewTemplateProvider()
	assert.Empty(t, team.Validate(p.Basic("Basic")))
	assert.Empty(t, team.Validate(p.Advanced("Advanced")))
}

func TestValidateReportsAllProblems(t *testing.T) {
	tm := &team.Team{
		Name:  "",
		Serve: team.Distribution{{"ace", -0.1}, {"in_play", 0.9}, {"error", 0.3}},
		Receive: team.ConditionalTable{
			{"in_play_serve", team.Distribution{
				{"excellent", 0.40}, {"good", 0.40}, {"poor", 0.15}, {"error", 0.05},
			}},
		},
		Set:    team.NewTemplateProvider().Basic("x").Set,
		Attack: team.NewTemplateProvider().Basic("x").Attack,
		Block:  team.NewTemplateProvider().Basic("x").Block,
		Dig:    team.NewTemplateProvider().Basic("x").Dig,
	}

	errs := team.Validate(tm)
	assert.Contains(t, errs, "Team name must be a non-empty string")

	foundNegative := false
	foundSum := false
	for _, e := range errs {
		if e == "serve_probabilities.ace: Probability cannot be negative (-0.1)" {
			foundNegative = true
		}
		if e == "serve_probabilities: Probabilities must sum to 1.0, got 1.1000" {
			foundSum = true
		}
	}
	assert.True(t, foundNegative, "negative probability not reported: %v", errs)
	assert.True(t, foundSum, "bad sum not reported: %v", errs)
}

func TestValidateEmptySections(t *testing.T) {
	tm := &team.Team{Name: "Empty"}
	errs := team.Validate(tm)
	assert.Contains(t, errs, "serve_probabilities: Empty probability distribution")
	assert.Contains(t, errs, "dig_probabilities: Empty conditional probability distribution")
}

func TestYAMLRoundTripPreservesTeam(t *testing.T) {
	original := team.NewTemplateProvider().Advanced("Round Trip")

	data, err := original.ToYAML()
	require.NoError(t, err)

	restored, err := team.FromYAML(data)
	require.NoError(t, err)
	assert.Equal(t, original, restored)
}

func TestCloneIsDeep(t *testing.T) {
	original := team.NewTemplateProvider().Basic("Original")
	clone := original.Clone()

	require.NoError(t, clone.AdjustDistribution("serve_probabilities.ace", 0.5))

	v, _ := original.Serve.Get("ace")
	assert.Equal(t, 0.05, v)
}
