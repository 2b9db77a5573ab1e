package analysis

import (
	"context"
	"fmt"
	"hash/crc32"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/bvsim-dev/bvsim/internal/engine"
	"github.com/bvsim-dev/bvsim/internal/team"
	"github.com/bvsim-dev/bvsim/internal/types"
)

// newEntropyRNG creates an independent RNG. The UUID hash keeps seeds
// unique even when workers start within the same nanosecond.
func newEntropyRNG() *rand.Rand {
	h := crc32.NewIEEE()
	h.Write([]byte(uuid.NewString()))
	return rand.New(rand.NewSource(time.Now().UnixNano() + int64(h.Sum32())))
}

func validateServing(baseServing string) error {
	if baseServing != "A" && baseServing != "B" {
		return fmt.Errorf("invalid serving team %q: must be \"A\" or \"B\"", baseServing)
	}
	return nil
}

func servingForTrial(baseServing string, trial int) string {
	if trial%2 == 0 {
		return baseServing
	}
	if baseServing == "A" {
		return "B"
	}
	return "A"
}

// WinRate runs n independent points, alternating the serving side each
// trial, and returns team A's win percentage in [0, 100]. n <= 0 yields
// the neutral 50.0.
func WinRate(teamA, teamB *team.Team, n int, baseServing string) (float64, error) {
	if err := validateServing(baseServing); err != nil {
		return 0, err
	}
	if n <= 0 {
		return 50.0, nil
	}

	rng := newEntropyRNG()
	wins := 0
	for i := 0; i < n; i++ {
		point, err := engine.SimulatePoint(teamA, teamB, servingForTrial(baseServing, i), rng)
		if err != nil {
			return 0, err
		}
		if point.Winner == "A" {
			wins++
		}
	}
	return float64(wins) / float64(n) * 100, nil
}

// WinRateSeeded is the reproducible variant: trial i uses seed+i, so a
// fixed seed yields a fixed win rate.
func WinRateSeeded(teamA, teamB *team.Team, n int, baseServing string, seed int64) (float64, error) {
	if err := validateServing(baseServing); err != nil {
		return 0, err
	}
	if n <= 0 {
		return 50.0, nil
	}

	wins := 0
	for i := 0; i < n; i++ {
		point, err := engine.SimulatePointSeeded(teamA, teamB, servingForTrial(baseServing, i), seed+int64(i))
		if err != nil {
			return 0, err
		}
		if point.Winner == "A" {
			wins++
		}
	}
	return float64(wins) / float64(n) * 100, nil
}

// SimulationRunner produces full simulation result records with optional
// progress reporting.
type SimulationRunner struct {
	log *logrus.Logger
}

func NewSimulationRunner(log *logrus.Logger) *SimulationRunner {
	return &SimulationRunner{log: log}
}

// Run simulates numPoints rallies, alternating serve, and collects the full
// interchange record. A non-nil seed makes the whole batch reproducible
// (trial i uses seed+i).
func (r *SimulationRunner) Run(
	ctx context.Context,
	teamA, teamB *team.Team,
	numPoints int,
	seed *int64,
	progressChan chan<- types.ProgressUpdate,
) (*types.SimulationResult, error) {
	if numPoints <= 0 {
		return nil, fmt.Errorf("number of points must be positive, got %d", numPoints)
	}

	startTime := time.Now()
	if r.log != nil {
		r.log.WithFields(logrus.Fields{
			"team_a": teamA.Name,
			"team_b": teamB.Name,
			"points": numPoints,
		}).Info("Starting point simulation batch")
	}

	var rng *rand.Rand
	if seed == nil {
		rng = newEntropyRNG()
	}

	records := make([]types.PointRecord, 0, numPoints)
	teamAWins := 0

	progressEvery := numPoints / 100
	if progressEvery < 1 {
		progressEvery = 1
	}

	for i := 0; i < numPoints; i++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		serving := servingForTrial("A", i)
		var point *engine.Point
		var err error
		if seed != nil {
			point, err = engine.SimulatePointSeeded(teamA, teamB, serving, *seed+int64(i))
		} else {
			point, err = engine.SimulatePoint(teamA, teamB, serving, rng)
		}
		if err != nil {
			return nil, err
		}

		records = append(records, types.RecordPoint(point))
		if point.Winner == "A" {
			teamAWins++
		}

		if progressChan != nil && (i+1)%progressEvery == 0 {
			progressChan <- types.ProgressUpdate{
				Type:        "simulation",
				Progress:    float64(i+1) / float64(numPoints),
				Message:     fmt.Sprintf("Simulated %d/%d points", i+1, numPoints),
				CurrentStep: "simulation",
				TotalSteps:  numPoints,
				Timestamp:   time.Now(),
			}
		}
	}

	teamBWins := numPoints - teamAWins
	result := &types.SimulationResult{
		TeamAName:       teamA.Name,
		TeamBName:       teamB.Name,
		TotalPoints:     numPoints,
		TeamAWins:       teamAWins,
		TeamBWins:       teamBWins,
		TeamAWinRate:    float64(teamAWins) / float64(numPoints) * 100,
		TeamBWinRate:    float64(teamBWins) / float64(numPoints) * 100,
		DurationSeconds: time.Since(startTime).Seconds(),
		Points:          records,
	}

	if r.log != nil {
		r.log.WithFields(logrus.Fields{
			"team_a_win_rate": result.TeamAWinRate,
			"duration":        time.Since(startTime),
		}).Info("Point simulation batch completed")
	}

	return result, nil
}
