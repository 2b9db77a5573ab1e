package analysis

import (
	"github.com/bvsim-dev/bvsim/internal/types"
)

// DurationStats summarizes rally lengths for one point type.
type DurationStats struct {
	Count   int     `json:"count"`
	Average float64 `json:"average"`
	Min     int     `json:"min"`
	Max     int     `json:"max"`
}

// ServingAdvantage reports how often each side wins its own serve.
type ServingAdvantage struct {
	TeamAServeWinRate float64 `json:"team_a_serve_win_rate"`
	TeamBServeWinRate float64 `json:"team_b_serve_win_rate"`
	TeamAServes       int     `json:"team_a_serves"`
	TeamBServes       int     `json:"team_b_serves"`
}

// Breakdown holds the optional detailed analysis sections.
type Breakdown struct {
	TeamAPointTypes  map[string]int           `json:"team_a_point_types"`
	TeamBPointTypes  map[string]int           `json:"team_b_point_types"`
	DurationByType   map[string]DurationStats `json:"duration_by_type"`
	ServingAdvantage ServingAdvantage         `json:"serving_advantage"`
}

// AnalysisReport is the statistical summary of a simulation result batch.
type AnalysisReport struct {
	TotalPoints          int                `json:"total_points"`
	TeamAWins            int                `json:"team_a_wins"`
	TeamBWins            int                `json:"team_b_wins"`
	TeamAWinRate         float64            `json:"team_a_win_rate"`
	TeamBWinRate         float64            `json:"team_b_win_rate"`
	PointTypeBreakdown   map[string]int     `json:"point_type_breakdown"`
	PointTypePercentages map[string]float64 `json:"point_type_percentages"`
	AverageDuration      float64            `json:"average_duration"`
	Breakdown            *Breakdown         `json:"breakdown_data,omitempty"`
}

// AnalyzeResults reduces a batch of simulated points to win rates and point
// type statistics. With breakdown enabled it adds per-team point types,
// duration stats per type, and serving advantage.
func AnalyzeResults(results *types.SimulationResult, breakdown bool) *AnalysisReport {
	totalPoints := len(results.Points)

	teamAWins := 0
	teamBWins := 0
	pointTypes := make(map[string]int)
	totalDuration := 0
	for _, p := range results.Points {
		switch p.Winner {
		case "A":
			teamAWins++
		case "B":
			teamBWins++
		}
		pointTypes[p.PointType]++
		totalDuration += p.Duration
	}

	report := &AnalysisReport{
		TotalPoints:          totalPoints,
		TeamAWins:            teamAWins,
		TeamBWins:            teamBWins,
		PointTypeBreakdown:   pointTypes,
		PointTypePercentages: make(map[string]float64, len(pointTypes)),
	}
	if totalPoints > 0 {
		report.TeamAWinRate = float64(teamAWins) / float64(totalPoints) * 100
		report.TeamBWinRate = float64(teamBWins) / float64(totalPoints) * 100
		report.AverageDuration = float64(totalDuration) / float64(totalPoints)
		for pt, count := range pointTypes {
			report.PointTypePercentages[pt] = float64(count) / float64(totalPoints) * 100
		}
	}

	if !breakdown {
		return report
	}

	bd := &Breakdown{
		TeamAPointTypes: make(map[string]int),
		TeamBPointTypes: make(map[string]int),
		DurationByType:  make(map[string]DurationStats, len(pointTypes)),
	}

	servingWins := map[string]int{"A": 0, "B": 0}
	servingTotal := map[string]int{"A": 0, "B": 0}
	durations := make(map[string][]int, len(pointTypes))

	for _, p := range results.Points {
		if p.Winner == "A" {
			bd.TeamAPointTypes[p.PointType]++
		} else {
			bd.TeamBPointTypes[p.PointType]++
		}
		servingTotal[p.ServingTeam]++
		if p.Winner == p.ServingTeam {
			servingWins[p.ServingTeam]++
		}
		durations[p.PointType] = append(durations[p.PointType], p.Duration)
	}

	for pt, ds := range durations {
		stats := DurationStats{Count: len(ds), Min: ds[0], Max: ds[0]}
		sum := 0
		for _, d := range ds {
			sum += d
			if d < stats.Min {
				stats.Min = d
			}
			if d > stats.Max {
				stats.Max = d
			}
		}
		stats.Average = float64(sum) / float64(len(ds))
		bd.DurationByType[pt] = stats
	}

	if servingTotal["A"] > 0 {
		bd.ServingAdvantage.TeamAServeWinRate = float64(servingWins["A"]) / float64(servingTotal["A"]) * 100
	}
	if servingTotal["B"] > 0 {
		bd.ServingAdvantage.TeamBServeWinRate = float64(servingWins["B"]) / float64(servingTotal["B"]) * 100
	}
	bd.ServingAdvantage.TeamAServes = servingTotal["A"]
	bd.ServingAdvantage.TeamBServes = servingTotal["B"]

	report.Breakdown = bd
	return report
}
