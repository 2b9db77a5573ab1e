package stats_test

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bvsim-dev/bvsim/internal/stats"
)

func TestMatchWinRateExtremes(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	assert.Equal(t, 100.0, stats.MatchWinRate(1.0, 100, rng))
	assert.Equal(t, 0.0, stats.MatchWinRate(0.0, 100, rng))
}

func TestMatchWinRateNoMatchesIsNeutral(t *testing.T) {
	assert.Equal(t, 50.0, stats.MatchWinRate(0.6, 0, nil))
	assert.Equal(t, 50.0, stats.MatchWinRate(0.6, -1, nil))
}

func TestMatchWinRateAmplifiesPointEdge(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	// A modest per-point edge compounds over best-of-3 sets to 21.
	matchRate := stats.MatchWinRate(0.55, 5000, rng)
	assert.Greater(t, matchRate, 70.0)

	rng = rand.New(rand.NewSource(42))
	even := stats.MatchWinRate(0.50, 5000, rng)
	assert.InDelta(t, 50.0, even, 3.0)
}

func TestMatchWinRateMonotonic(t *testing.T) {
	low := stats.MatchWinRate(0.45, 5000, rand.New(rand.NewSource(7)))
	high := stats.MatchWinRate(0.55, 5000, rand.New(rand.NewSource(7)))
	assert.Less(t, low, high)
}

func TestSimulateMatchAlwaysTerminates(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	for i := 0; i < 1000; i++ {
		stats.SimulateMatch(0.5, rng)
	}
}

func TestConvertPointDeltaSign(t *testing.T) {
	// A sizeable positive point delta maps to a clearly positive match delta.
	delta := stats.ConvertPointDelta(50.0, 5.0, 5000)
	assert.Greater(t, delta, 5.0)

	negative := stats.ConvertPointDelta(50.0, -5.0, 5000)
	assert.Less(t, negative, -5.0)
}

func TestConvertPointDeltaClampsProbabilities(t *testing.T) {
	// Baseline plus delta beyond 100% must clamp, not panic.
	delta := stats.ConvertPointDelta(98.0, 10.0, 200)
	assert.GreaterOrEqual(t, delta, 0.0)

	delta = stats.ConvertPointDelta(2.0, -10.0, 200)
	assert.LessOrEqual(t, delta, 0.0)
}
