package engine

// State captures one action by one team with its quality outcome.
type State struct {
	Team    string `json:"team"`
	Action  string `json:"action"`
	Quality string `json:"quality"`
}

// Point is the complete state progression of a single rally, from serve to
// a definitive outcome.
type Point struct {
	ServingTeam string  `json:"serving_team"`
	Winner      string  `json:"winner"`
	PointType   string  `json:"point_type"`
	States      []State `json:"states"`
}

// Duration returns the number of actions in the rally.
func (p *Point) Duration() int {
	return len(p.States)
}

// Sideout reports whether the receiving team won the point.
func (p *Point) Sideout() bool {
	return p.Winner != p.ServingTeam
}
