package analysis

import (
	"fmt"
	"sort"

	"github.com/bvsim-dev/bvsim/internal/engine"
	"github.com/bvsim-dev/bvsim/internal/team"
)

// Ranking is one team's average win rate across all its matchups.
type Ranking struct {
	Name           string  `json:"name"`
	AverageWinRate float64 `json:"average_win_rate"`
}

// ComparisonResult holds a round-robin comparison matrix and rankings.
type ComparisonResult struct {
	Teams            []string                      `json:"teams"`
	PointsPerMatchup int                           `json:"points_per_matchup"`
	ResultsMatrix    map[string]map[string]float64 `json:"results_matrix"`
	Rankings         []Ranking                     `json:"rankings"`
}

// CompareTeams plays every pair of teams head-to-head for pointsPerMatchup
// points each and ranks teams by average win rate. Points are seeded by
// trial index so repeated comparisons are stable.
func CompareTeams(teams []*team.Team, pointsPerMatchup int) (*ComparisonResult, error) {
	if len(teams) < 2 {
		return nil, fmt.Errorf("need at least 2 teams for comparison, got %d", len(teams))
	}

	names := make([]string, len(teams))
	matrix := make(map[string]map[string]float64, len(teams))
	for i, t := range teams {
		names[i] = t.Name
		matrix[t.Name] = make(map[string]float64)
	}

	for i := 0; i < len(teams); i++ {
		for j := i + 1; j < len(teams); j++ {
			teamA := teams[i]
			teamB := teams[j]

			winsA := 0
			for p := 0; p < pointsPerMatchup; p++ {
				point, err := engine.SimulatePointSeeded(teamA, teamB, servingForTrial("A", p), int64(p))
				if err != nil {
					return nil, err
				}
				if point.Winner == "A" {
					winsA++
				}
			}

			winRateA := float64(winsA) / float64(pointsPerMatchup) * 100
			matrix[teamA.Name][teamB.Name] = winRateA
			matrix[teamB.Name][teamA.Name] = 100 - winRateA
		}
	}

	rankings := make([]Ranking, 0, len(teams))
	for _, t := range teams {
		total := 0.0
		count := 0
		for other, rate := range matrix[t.Name] {
			if other != t.Name {
				total += rate
				count++
			}
		}
		avg := 0.0
		if count > 0 {
			avg = total / float64(count)
		}
		rankings = append(rankings, Ranking{Name: t.Name, AverageWinRate: avg})
	}
	sort.Slice(rankings, func(i, j int) bool {
		return rankings[i].AverageWinRate > rankings[j].AverageWinRate
	})

	return &ComparisonResult{
		Teams:            names,
		PointsPerMatchup: pointsPerMatchup,
		ResultsMatrix:    matrix,
		Rankings:         rankings,
	}, nil
}
