package analysis

import (
	"fmt"
	"strings"

	"github.com/bvsim-dev/bvsim/internal/engine"
	"github.com/bvsim-dev/bvsim/internal/team"
)

// FormatRally renders a point as a compact one-line rally string, e.g.
// "[B] A:serve:in_play → B:receive:good → ... → kill".
func FormatRally(point *engine.Point) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "[%s] ", point.Winner)
	parts := make([]string, 0, len(point.States)+1)
	for _, s := range point.States {
		parts = append(parts, fmt.Sprintf("%s:%s:%s", s.Team, s.Action, s.Quality))
	}
	parts = append(parts, point.PointType)
	sb.WriteString(strings.Join(parts, " → "))
	return sb.String()
}

// GenerateRallyExamples simulates numRallies points and renders each as a
// rally string. A non-nil seed makes the examples reproducible.
func GenerateRallyExamples(teamA, teamB *team.Team, numRallies int, seed *int64) ([]string, error) {
	if numRallies <= 0 {
		return nil, fmt.Errorf("number of rallies must be positive, got %d", numRallies)
	}

	rng := newEntropyRNG()
	examples := make([]string, 0, numRallies)
	for i := 0; i < numRallies; i++ {
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
		examples = append(examples, FormatRally(point))
	}
	return examples, nil
}
