package engine_test

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bvsim-dev/bvsim/internal/engine"
	"github.com/bvsim-dev/bvsim/internal/team"
)

func basicTeam(name string) *team.Team {
	return team.NewTemplateProvider().Basic(name)
}

// forcedTeam builds a team whose every action has exactly one outcome, so
// rally shapes are fully deterministic.
func forcedTeam(name, serve, receive, set, attack, block, dig string) *team.Team {
	return &team.Team{
		Name:    name,
		Serve:   team.Distribution{{Outcome: serve, Prob: 1.0}},
		Receive: team.ConditionalTable{{Condition: "in_play_serve", Dist: team.Distribution{{Outcome: receive, Prob: 1.0}}}},
		Set: team.ConditionalTable{
			{Condition: "excellent_reception", Dist: team.Distribution{{Outcome: set, Prob: 1.0}}},
			{Condition: "good_reception", Dist: team.Distribution{{Outcome: set, Prob: 1.0}}},
			{Condition: "poor_reception", Dist: team.Distribution{{Outcome: set, Prob: 1.0}}},
		},
		Attack: team.ConditionalTable{
			{Condition: "excellent_set", Dist: team.Distribution{{Outcome: attack, Prob: 1.0}}},
			{Condition: "good_set", Dist: team.Distribution{{Outcome: attack, Prob: 1.0}}},
			{Condition: "poor_set", Dist: team.Distribution{{Outcome: attack, Prob: 1.0}}},
		},
		Block: team.ConditionalTable{{Condition: "power_attack", Dist: team.Distribution{{Outcome: block, Prob: 1.0}}}},
		Dig:   team.ConditionalTable{{Condition: "deflected_attack", Dist: team.Distribution{{Outcome: dig, Prob: 1.0}}}},
	}
}

func TestSimulatePointRejectsBadServingTeam(t *testing.T) {
	a := basicTeam("A")
	b := basicTeam("B")

	_, err := engine.SimulatePoint(a, b, "C", rand.New(rand.NewSource(1)))
	assert.Error(t, err)

	_, err = engine.SimulatePoint(a, b, "", rand.New(rand.NewSource(1)))
	assert.Error(t, err)
}

func TestSimulatePointSeededIsDeterministic(t *testing.T) {
	a := basicTeam("A")
	b := basicTeam("B")

	for seed := int64(0); seed < 20; seed++ {
		p1, err := engine.SimulatePointSeeded(a, b, "A", seed)
		require.NoError(t, err)
		p2, err := engine.SimulatePointSeeded(a, b, "A", seed)
		require.NoError(t, err)
		assert.Equal(t, p1, p2, "seed %d", seed)
	}
}

func TestWinnerIsAlwaysAOrB(t *testing.T) {
	a := basicTeam("A")
	b := basicTeam("B")
	rng := rand.New(rand.NewSource(99))

	for i := 0; i < 2000; i++ {
		p, err := engine.SimulatePoint(a, b, "A", rng)
		require.NoError(t, err)
		assert.Contains(t, []string{"A", "B"}, p.Winner)
		assert.NotEmpty(t, p.PointType)
		assert.True(t, len(p.States) >= 1)
		assert.True(t, len(p.States) <= engine.MaxRallyActions+1)
	}
}

func TestAceEndsPointImmediately(t *testing.T) {
	server := forcedTeam("Server", "ace", "excellent", "good", "kill", "no_touch", "good")
	receiver := basicTeam("Receiver")

	p, err := engine.SimulatePointSeeded(server, receiver, "A", 7)
	require.NoError(t, err)

	assert.Equal(t, "A", p.Winner)
	assert.Equal(t, "ace", p.PointType)
	require.Len(t, p.States, 1)
	assert.Equal(t, engine.State{Team: "A", Action: "serve", Quality: "ace"}, p.States[0])
}

func TestServeErrorAwardsReceiver(t *testing.T) {
	server := forcedTeam("Server", "error", "excellent", "good", "kill", "no_touch", "good")
	receiver := basicTeam("Receiver")

	p, err := engine.SimulatePointSeeded(server, receiver, "A", 7)
	require.NoError(t, err)
	assert.Equal(t, "B", p.Winner)
	assert.Equal(t, "serve_error", p.PointType)
}

func TestCleanKillSequence(t *testing.T) {
	server := forcedTeam("Server", "in_play", "excellent", "good", "kill", "no_touch", "good")
	receiver := forcedTeam("Receiver", "in_play", "excellent", "good", "kill", "no_touch", "good")

	p, err := engine.SimulatePointSeeded(server, receiver, "A", 3)
	require.NoError(t, err)

	assert.Equal(t, "B", p.Winner)
	assert.Equal(t, "kill", p.PointType)
	require.Len(t, p.States, 4)
	assert.Equal(t, "serve", p.States[0].Action)
	assert.Equal(t, "receive", p.States[1].Action)
	assert.Equal(t, "set", p.States[2].Action)
	assert.Equal(t, "attack", p.States[3].Action)
	for _, s := range p.States[1:] {
		assert.Equal(t, "B", s.Team)
	}
}

func TestStuffBlockAwardsDefender(t *testing.T) {
	// Receiver attacks into a guaranteed stuff.
	server := forcedTeam("Server", "in_play", "excellent", "good", "defended", "stuff", "good")
	receiver := forcedTeam("Receiver", "in_play", "excellent", "good", "defended", "stuff", "good")

	p, err := engine.SimulatePointSeeded(server, receiver, "A", 11)
	require.NoError(t, err)

	assert.Equal(t, "A", p.Winner)
	assert.Equal(t, "stuff", p.PointType)
	require.Len(t, p.States, 5)
	assert.Equal(t, engine.State{Team: "A", Action: "block", Quality: "stuff"}, p.States[4])
}

func TestReceiveErrorAwardsServer(t *testing.T) {
	server := basicTeam("Server")
	server.Serve = team.Distribution{{Outcome: "in_play", Prob: 1.0}}
	receiver := forcedTeam("Receiver", "in_play", "error", "good", "kill", "no_touch", "good")

	p, err := engine.SimulatePointSeeded(server, receiver, "A", 5)
	require.NoError(t, err)
	assert.Equal(t, "A", p.Winner)
	assert.Equal(t, "receive_error", p.PointType)
	require.Len(t, p.States, 2)
}

func TestSetErrorAwardsOpponent(t *testing.T) {
	server := basicTeam("Server")
	server.Serve = team.Distribution{{Outcome: "in_play", Prob: 1.0}}
	receiver := forcedTeam("Receiver", "in_play", "excellent", "error", "kill", "no_touch", "good")

	p, err := engine.SimulatePointSeeded(server, receiver, "A", 5)
	require.NoError(t, err)
	assert.Equal(t, "A", p.Winner)
	assert.Equal(t, "set_error", p.PointType)
}

func TestDeflectionToAttackDigErrorAwardsBlocker(t *testing.T) {
	// Receiver's attack is defended, the block deflects back, and the
	// receiver's dig always fails.
	server := forcedTeam("Server", "in_play", "excellent", "good", "defended", "deflection_to_attack", "good")
	receiver := forcedTeam("Receiver", "in_play", "excellent", "good", "defended", "deflection_to_attack", "error")

	p, err := engine.SimulatePointSeeded(server, receiver, "A", 13)
	require.NoError(t, err)

	assert.Equal(t, "A", p.Winner)
	assert.Equal(t, "dig_error", p.PointType)
	// serve, receive, set, attack, block, dig
	require.Len(t, p.States, 6)
	assert.Equal(t, engine.State{Team: "B", Action: "dig", Quality: "error"}, p.States[5])
}

func TestRallyCeilingProducesRallyPoint(t *testing.T) {
	// deflection_to_attack with a perfect dig loops forever: the attacker
	// keeps initiative and every attack is defended again.
	server := forcedTeam("Server", "in_play", "excellent", "good", "defended", "deflection_to_attack", "good")
	receiver := forcedTeam("Receiver", "in_play", "excellent", "good", "defended", "deflection_to_attack", "good")

	p, err := engine.SimulatePointSeeded(server, receiver, "A", 17)
	require.NoError(t, err)

	assert.Equal(t, "rally", p.PointType)
	assert.Contains(t, []string{"A", "B"}, p.Winner)
	assert.GreaterOrEqual(t, len(p.States), engine.MaxRallyActions)
}

func TestMissingConditionUsesFallback(t *testing.T) {
	// Receiver has no receive table at all; the rally must still resolve via
	// the built-in fallback distribution.
	server := basicTeam("Server")
	server.Serve = team.Distribution{{Outcome: "in_play", Prob: 1.0}}
	receiver := &team.Team{
		Name:   "Minimal",
		Serve:  team.Distribution{{Outcome: "in_play", Prob: 1.0}},
		Attack: team.ConditionalTable{{Condition: "good_set", Dist: team.Distribution{{Outcome: "kill", Prob: 1.0}}}},
	}

	rng := rand.New(rand.NewSource(23))
	for i := 0; i < 500; i++ {
		p, err := engine.SimulatePoint(server, receiver, "A", rng)
		require.NoError(t, err)
		assert.Contains(t, []string{"A", "B"}, p.Winner)
	}
}

func TestEmptyServeDistributionIsAnError(t *testing.T) {
	server := &team.Team{Name: "NoServe"}
	receiver := basicTeam("Receiver")

	_, err := engine.SimulatePoint(server, receiver, "A", rand.New(rand.NewSource(1)))
	assert.Error(t, err)
}

func TestServeOutcomeFrequenciesMatchConfiguration(t *testing.T) {
	server := basicTeam("Server")
	server.Serve = team.Distribution{{Outcome: "ace", Prob: 0.30}, {Outcome: "in_play", Prob: 0.40}, {Outcome: "error", Prob: 0.30}}
	receiver := basicTeam("Receiver")

	rng := rand.New(rand.NewSource(42))
	counts := map[string]int{}
	const n = 50000
	for i := 0; i < n; i++ {
		p, err := engine.SimulatePoint(server, receiver, "A", rng)
		require.NoError(t, err)
		counts[p.States[0].Quality]++
	}

	assert.InDelta(t, 0.30, float64(counts["ace"])/n, 0.01)
	assert.InDelta(t, 0.40, float64(counts["in_play"])/n, 0.01)
	assert.InDelta(t, 0.30, float64(counts["error"])/n, 0.01)
}

func TestSampleLastEntryFallback(t *testing.T) {
	// Distribution summing below 1.0: draws beyond the total mass must land
	// on the last entry instead of panicking.
	server := basicTeam("Server")
	server.Serve = team.Distribution{{Outcome: "ace", Prob: 0.1}, {Outcome: "in_play", Prob: 0.1}}
	receiver := basicTeam("Receiver")

	rng := rand.New(rand.NewSource(8))
	sawInPlay := false
	for i := 0; i < 200; i++ {
		p, err := engine.SimulatePoint(server, receiver, "A", rng)
		require.NoError(t, err)
		if p.States[0].Quality == "in_play" {
			sawInPlay = true
		}
	}
	assert.True(t, sawInPlay)
}
