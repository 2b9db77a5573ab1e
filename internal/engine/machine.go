package engine

import (
	"fmt"
	"math/rand"

	"github.com/bvsim-dev/bvsim/internal/team"
)

// MaxRallyActions caps runaway rallies. A point that reaches the ceiling is
// awarded to a coin-flip winner with point type "rally".
const MaxRallyActions = 100

// Fallback distributions substituted when a team's table lacks the needed
// condition. Tolerating partial tables is deliberate: diff-style team files
// layered over a baseline may omit whole conditions.
var (
	fallbackReceive = team.Distribution{
		{Outcome: "excellent", Prob: 0.40}, {Outcome: "good", Prob: 0.40}, {Outcome: "poor", Prob: 0.15}, {Outcome: "error", Prob: 0.05},
	}
	fallbackSet = team.Distribution{
		{Outcome: "excellent", Prob: 0.28}, {Outcome: "good", Prob: 0.48}, {Outcome: "poor", Prob: 0.22}, {Outcome: "error", Prob: 0.02},
	}
	fallbackAttack = team.Distribution{
		{Outcome: "kill", Prob: 0.50}, {Outcome: "error", Prob: 0.20}, {Outcome: "defended", Prob: 0.30},
	}
	fallbackBlock = team.Distribution{
		{Outcome: "stuff", Prob: 0.20}, {Outcome: "deflection_to_attack", Prob: 0.15},
		{Outcome: "deflection_to_defense", Prob: 0.15}, {Outcome: "no_touch", Prob: 0.50},
	}
	// A dig after a block deflection and a dig on an untouched floor ball
	// carry different fallback odds.
	fallbackDigDeflection = team.Distribution{
		{Outcome: "excellent", Prob: 0.30}, {Outcome: "good", Prob: 0.40}, {Outcome: "poor", Prob: 0.25}, {Outcome: "error", Prob: 0.05},
	}
	fallbackDigFloor = team.Distribution{
		{Outcome: "excellent", Prob: 0.25}, {Outcome: "good", Prob: 0.35}, {Outcome: "poor", Prob: 0.30}, {Outcome: "error", Prob: 0.10},
	}
)

// digAttemptChance is the probability the defense reaches an untouched ball
// after a no_touch block; otherwise it lands for a kill.
const digAttemptChance = 0.80

// SimulatePoint simulates one complete rally. It is a pure function of the
// team configurations, the serving side and the RNG stream consumed: equal
// seeds yield bit-identical points.
func SimulatePoint(teamA, teamB *team.Team, servingTeam string, rng *rand.Rand) (*Point, error) {
	if servingTeam != "A" && servingTeam != "B" {
		return nil, fmt.Errorf("invalid serving team %q: must be \"A\" or \"B\"", servingTeam)
	}

	m := &machine{
		teams: map[string]*team.Team{"A": teamA, "B": teamB},
		rng:   rng,
	}
	return m.run(servingTeam)
}

// SimulatePointSeeded simulates one rally with a fixed seed, for
// reproducible single-point results.
func SimulatePointSeeded(teamA, teamB *team.Team, servingTeam string, seed int64) (*Point, error) {
	return SimulatePoint(teamA, teamB, servingTeam, rand.New(rand.NewSource(seed)))
}

type machine struct {
	teams  map[string]*team.Team
	states []State
	rng    *rand.Rand
}

func opponent(side string) string {
	if side == "A" {
		return "B"
	}
	return "A"
}

// sample draws one uniform value and walks the distribution's entries in
// insertion order, selecting the first whose cumulative mass meets the
// draw. Floating-point shortfall falls back to the last entry.
func (m *machine) sample(dist team.Distribution) string {
	r := m.rng.Float64()
	cumulative := 0.0
	for _, e := range dist {
		cumulative += e.Prob
		if r <= cumulative {
			return e.Outcome
		}
	}
	return dist[len(dist)-1].Outcome
}

// sampleCond samples a conditional table row, substituting the fallback
// when the condition is absent or empty.
func (m *machine) sampleCond(table team.ConditionalTable, condition string, fallback team.Distribution) string {
	dist, ok := table.Get(condition)
	if !ok || len(dist) == 0 {
		dist = fallback
	}
	return m.sample(dist)
}

func (m *machine) record(side, action, quality string) {
	m.states = append(m.states, State{Team: side, Action: action, Quality: quality})
}

func (m *machine) finish(servingTeam, winner, pointType string) *Point {
	return &Point{
		ServingTeam: servingTeam,
		Winner:      winner,
		PointType:   pointType,
		States:      m.states,
	}
}

// defendResult describes the outcome of a block/dig cycle.
type defendResult struct {
	done         bool
	winner       string
	pointType    string
	nextAttacker string
	feed         string // quality feeding the next set
}

// defend resolves a defended attack: block attempt, then deflection or
// floor-defense dig depending on the block outcome.
func (m *machine) defend(attacker, defender string) defendResult {
	block := m.sampleCond(m.teams[defender].Block, "power_attack", fallbackBlock)
	m.record(defender, "block", block)

	switch block {
	case "stuff":
		return defendResult{done: true, winner: defender, pointType: "stuff"}

	case "deflection_to_attack":
		// Ball returns to the attacking side; they must dig, and retain
		// attack initiative if they succeed.
		dig := m.sampleCond(m.teams[attacker].Dig, "deflected_attack", fallbackDigDeflection)
		m.record(attacker, "dig", dig)
		if dig == "error" {
			return defendResult{done: true, winner: defender, pointType: "dig_error"}
		}
		return defendResult{nextAttacker: attacker, feed: dig}

	case "deflection_to_defense":
		// Ball stays on the blocking side with two touches left: set then
		// attack, no dig. The set condition is a fixed excellent_reception
		// proxy since no real reception happened.
		setQ := m.sampleCond(m.teams[defender].Set, "excellent_reception", fallbackSet)
		m.record(defender, "set", setQ)
		if setQ == "error" {
			return defendResult{done: true, winner: attacker, pointType: "set_error"}
		}
		attackQ := m.sampleCond(m.teams[defender].Attack, setQ+"_set", fallbackAttack)
		m.record(defender, "attack", attackQ)
		switch attackQ {
		case "kill":
			return defendResult{done: true, winner: defender, pointType: "kill"}
		case "error":
			return defendResult{done: true, winner: attacker, pointType: "attack_error"}
		}
		// Counterattack defended: the original attacker attacks next with a
		// fresh cycle.
		return defendResult{nextAttacker: attacker, feed: "excellent"}

	default: // no_touch
		if m.rng.Float64() < digAttemptChance {
			dig := m.sampleCond(m.teams[defender].Dig, "deflected_attack", fallbackDigFloor)
			m.record(defender, "dig", dig)
			if dig == "error" {
				return defendResult{done: true, winner: attacker, pointType: "dig_error"}
			}
			// Successful floor dig swaps roles.
			return defendResult{nextAttacker: defender, feed: dig}
		}
		// Ball lands untouched.
		return defendResult{done: true, winner: attacker, pointType: "kill"}
	}
}

func (m *machine) run(servingTeam string) (*Point, error) {
	server := servingTeam
	receiver := opponent(servingTeam)

	// 1. Serve
	if len(m.teams[server].Serve) == 0 {
		return nil, fmt.Errorf("team %s has an empty serve distribution", server)
	}
	serve := m.sample(m.teams[server].Serve)
	m.record(server, "serve", serve)

	switch serve {
	case "ace":
		return m.finish(servingTeam, server, "ace"), nil
	case "error":
		return m.finish(servingTeam, receiver, "serve_error"), nil
	}

	// 2. Receive
	receive := m.sampleCond(m.teams[receiver].Receive, "in_play_serve", fallbackReceive)
	m.record(receiver, "receive", receive)
	if receive == "error" {
		return m.finish(servingTeam, server, "receive_error"), nil
	}

	// 3. Set (the setting team's own error costs the point)
	setQ := m.sampleCond(m.teams[receiver].Set, receive+"_reception", fallbackSet)
	m.record(receiver, "set", setQ)
	if setQ == "error" {
		return m.finish(servingTeam, server, "set_error"), nil
	}

	// 4. Attack
	attackQ := m.sampleCond(m.teams[receiver].Attack, setQ+"_set", fallbackAttack)
	m.record(receiver, "attack", attackQ)
	switch attackQ {
	case "kill":
		return m.finish(servingTeam, receiver, "kill"), nil
	case "error":
		return m.finish(servingTeam, server, "attack_error"), nil
	}

	// 5. Block/dig cycles with rally continuation. Each successful dig
	// feeds a set → attack sequence for the side holding attack initiative.
	attacker := receiver
	defender := server

	for len(m.states) < MaxRallyActions {
		res := m.defend(attacker, defender)
		if res.done {
			return m.finish(servingTeam, res.winner, res.pointType), nil
		}

		attacker = res.nextAttacker
		defender = opponent(attacker)
		feed := res.feed

		if len(m.states) >= MaxRallyActions {
			break
		}

		// Dig-origin feeds reuse the reception-keyed set table.
		setQ := m.sampleCond(m.teams[attacker].Set, feed+"_reception", fallbackSet)
		m.record(attacker, "set", setQ)
		if setQ == "error" {
			return m.finish(servingTeam, defender, "set_error"), nil
		}

		if len(m.states) >= MaxRallyActions {
			break
		}

		attackQ := m.sampleCond(m.teams[attacker].Attack, setQ+"_set", fallbackAttack)
		m.record(attacker, "attack", attackQ)
		switch attackQ {
		case "kill":
			return m.finish(servingTeam, attacker, "kill"), nil
		case "error":
			return m.finish(servingTeam, defender, "attack_error"), nil
		}
	}

	// Rally hit the action ceiling: coin-flip the winner so downstream
	// analysis can identify and exclude these.
	winner := attacker
	if m.rng.Float64() < 0.5 {
		winner = defender
	}
	return m.finish(servingTeam, winner, "rally"), nil
}
