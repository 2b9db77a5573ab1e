package team_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bvsim-dev/bvsim/internal/team"
)

func TestParametersEnumeratesEveryLeaf(t *testing.T) {
	basic := team.NewTemplateProvider().Basic("Test")
	params := basic.Parameters()

	// serve 3 + receive 4 + set 3x4 + attack 3x3 + block 4 + dig 4
	assert.Len(t, params, 36)

	// Canonical order: serve section first, declared entry order within.
	assert.Equal(t, "serve_probabilities.ace", params[0].Path)
	assert.Equal(t, 0.05, params[0].Value)
	assert.Equal(t, "serve_probabilities.in_play", params[1].Path)

	// Every path must resolve back to its own value.
	for _, p := range params {
		v, err := basic.GetValue(p.Path)
		require.NoError(t, err, p.Path)
		assert.Equal(t, p.Value, v, p.Path)
	}
}

func TestGetValueUnknownPath(t *testing.T) {
	basic := team.NewTemplateProvider().Basic("Test")

	_, err := basic.GetValue("serve_probabilities.fireball")
	assert.Error(t, err)

	_, err = basic.GetValue("attack_probabilities.excellent_set.missing")
	assert.Error(t, err)

	_, err = basic.GetValue("nonsense")
	assert.Error(t, err)
}

func TestAdjustDistributionRenormalizesProportionally(t *testing.T) {
	basic := team.NewTemplateProvider().Basic("Test")

	// receive excellent 0.40 -> 0.50; siblings sum 0.60, remaining 0.50
	require.NoError(t, basic.AdjustDistribution("receive_probabilities.in_play_serve.excellent", 0.50))

	dist, ok := basic.Receive.Get("in_play_serve")
	require.True(t, ok)

	v, _ := dist.Get("excellent")
	assert.InDelta(t, 0.50, v, 1e-9)
	v, _ = dist.Get("good")
	assert.InDelta(t, 0.40/0.60*0.50, v, 1e-9)
	v, _ = dist.Get("poor")
	assert.InDelta(t, 0.15/0.60*0.50, v, 1e-9)
	v, _ = dist.Get("error")
	assert.InDelta(t, 0.05/0.60*0.50, v, 1e-9)

	assert.InDelta(t, 1.0, dist.Sum(), 1e-9)
}

func TestAdjustDistributionPreservesSiblingRatios(t *testing.T) {
	tm := &team.Team{
		Name:  "Ratios",
		Serve: team.Distribution{{"a", 0.10}, {"b", 0.85}, {"c", 0.05}},
	}

	require.NoError(t, tm.AdjustDistribution("serve_probabilities.a", 0.20))

	b, _ := tm.Serve.Get("b")
	c, _ := tm.Serve.Get("c")
	assert.InDelta(t, 17.0, b/c, 1e-9)
	assert.InDelta(t, 1.0, tm.Serve.Sum(), 1e-9)
}

func TestAdjustDistributionTinyChangeIsNoOp(t *testing.T) {
	basic := team.NewTemplateProvider().Basic("Test")
	before := basic.Serve.Clone()

	require.NoError(t, basic.AdjustDistribution("serve_probabilities.ace", 0.0504))
	assert.Equal(t, before, basic.Serve)
}

func TestAdjustDistributionSingleOutcome(t *testing.T) {
	tm := &team.Team{
		Name:  "Solo",
		Serve: team.Distribution{{"in_play", 1.0}},
	}

	require.NoError(t, tm.AdjustDistribution("serve_probabilities.in_play", 0.7))
	v, _ := tm.Serve.Get("in_play")
	assert.Equal(t, 0.7, v)
}

func TestAdjustDistributionZeroSiblingMass(t *testing.T) {
	tm := &team.Team{
		Name:  "ZeroSiblings",
		Serve: team.Distribution{{"a", 1.0}, {"b", 0.0}, {"c", 0.0}},
	}

	require.NoError(t, tm.AdjustDistribution("serve_probabilities.a", 0.8))
	v, _ := tm.Serve.Get("a")
	assert.Equal(t, 0.8, v)
	// Siblings had no mass to scale; they stay at zero.
	v, _ = tm.Serve.Get("b")
	assert.Equal(t, 0.0, v)
}

func TestAdjustDistributionUnknownPath(t *testing.T) {
	basic := team.NewTemplateProvider().Basic("Test")
	err := basic.AdjustDistribution("serve_probabilities.fireball", 0.2)
	assert.Error(t, err)
}

func TestSetValueSkipsRenormalization(t *testing.T) {
	basic := team.NewTemplateProvider().Basic("Test")
	require.NoError(t, basic.SetValue("serve_probabilities.ace", 0.50))

	v, _ := basic.Serve.Get("ace")
	assert.Equal(t, 0.50, v)
	inPlay, _ := basic.Serve.Get("in_play")
	assert.Equal(t, 0.90, inPlay)
}
