package stats

import (
	"hash/crc32"
	"math/rand"
	"time"

	"github.com/google/uuid"
)

// Beach volleyball match format: best of 3 sets, 21 points per set with the
// deciding set to 15, every set closed by a 2-point margin.
const (
	setsToWin         = 2
	setTargetPoints   = 21
	decidingSetPoints = 15

	// DefaultMatchSimulations is the number of simulated matches used to
	// estimate a match win rate from a point win probability.
	DefaultMatchSimulations = 10000
)

func newMatchRNG() *rand.Rand {
	h := crc32.NewIEEE()
	h.Write([]byte(uuid.NewString()))
	return rand.New(rand.NewSource(time.Now().UnixNano() + int64(h.Sum32())))
}

// simulateSet plays one set at a fixed per-point win probability and
// reports whether the tracked side won.
func simulateSet(pointWinProb float64, target int, rng *rand.Rand) bool {
	our, their := 0, 0
	for {
		if rng.Float64() < pointWinProb {
			our++
		} else {
			their++
		}
		if our >= target && our-their >= 2 {
			return true
		}
		if their >= target && their-our >= 2 {
			return false
		}
	}
}

// SimulateMatch plays one best-of-3 match at a fixed per-point win
// probability.
func SimulateMatch(pointWinProb float64, rng *rand.Rand) bool {
	ourSets, theirSets := 0, 0
	for ourSets < setsToWin && theirSets < setsToWin {
		target := setTargetPoints
		if ourSets == setsToWin-1 && theirSets == setsToWin-1 {
			target = decidingSetPoints
		}
		if simulateSet(pointWinProb, target, rng) {
			ourSets++
		} else {
			theirSets++
		}
	}
	return ourSets == setsToWin
}

// MatchWinRate estimates the match win percentage at a given per-point win
// probability over numMatches simulated matches. The estimate is itself
// stochastic; repeated calls differ slightly.
func MatchWinRate(pointWinProb float64, numMatches int, rng *rand.Rand) float64 {
	if numMatches <= 0 {
		return 50.0
	}
	if rng == nil {
		rng = newMatchRNG()
	}
	wins := 0
	for i := 0; i < numMatches; i++ {
		if SimulateMatch(pointWinProb, rng) {
			wins++
		}
	}
	return float64(wins) / float64(numMatches) * 100
}

func clampProb(p float64) float64 {
	if p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}

// ConvertPointDelta translates a point-win-rate delta (percentage points,
// against a baseline point win rate in percent) into the corresponding
// match-win-rate delta, estimated by nested Monte Carlo.
func ConvertPointDelta(baselinePointRate, deltaPP float64, numMatches int) float64 {
	rng := newMatchRNG()
	base := MatchWinRate(clampProb(baselinePointRate/100), numMatches, rng)
	shifted := MatchWinRate(clampProb((baselinePointRate+deltaPP)/100), numMatches, rng)
	return shifted - base
}
