package types

import (
	"time"

	"github.com/bvsim-dev/bvsim/internal/engine"
)

// ProgressUpdate reports progress for long-running simulations.
type ProgressUpdate struct {
	Type        string    `json:"type"`
	Progress    float64   `json:"progress"`
	Message     string    `json:"message"`
	CurrentStep string    `json:"current_step"`
	TotalSteps  int       `json:"total_steps"`
	Timestamp   time.Time `json:"timestamp"`
}

// ErrorResponse is the standard API error payload.
type ErrorResponse struct {
	Error   string            `json:"error"`
	Code    string            `json:"code"`
	Details map[string]string `json:"details,omitempty"`
}

// HealthStatus reports service health and per-dependency check results.
type HealthStatus struct {
	Status    string            `json:"status"`
	Service   string            `json:"service"`
	Timestamp time.Time         `json:"timestamp"`
	Checks    map[string]string `json:"checks"`
}

// PointRecord is the persisted form of a simulated point.
type PointRecord struct {
	ServingTeam string         `json:"serving_team"`
	Winner      string         `json:"winner"`
	PointType   string         `json:"point_type"`
	Duration    int            `json:"duration"`
	States      []engine.State `json:"states"`
}

// SimulationResult is the interchange record for a batch of simulated
// points. Analyze tooling consumes exactly this shape.
type SimulationResult struct {
	TeamAName       string        `json:"team_a_name"`
	TeamBName       string        `json:"team_b_name"`
	TotalPoints     int           `json:"total_points"`
	TeamAWins       int           `json:"team_a_wins"`
	TeamBWins       int           `json:"team_b_wins"`
	TeamAWinRate    float64       `json:"team_a_win_rate"`
	TeamBWinRate    float64       `json:"team_b_win_rate"`
	DurationSeconds float64       `json:"duration_seconds"`
	Points          []PointRecord `json:"points"`
}

// RecordPoint converts a simulated point into its persisted form.
func RecordPoint(p *engine.Point) PointRecord {
	return PointRecord{
		ServingTeam: p.ServingTeam,
		Winner:      p.Winner,
		PointType:   p.PointType,
		Duration:    p.Duration(),
		States:      p.States,
	}
}
