package team

import (
	"fmt"
	"math"
	"strings"
)

// Parameter is one numeric leaf probability addressed by dot path, e.g.
// "attack_probabilities.excellent_set.kill".
type Parameter struct {
	Path  string
	Value float64
}

const serveSection = "serve_probabilities"

// conditionalSections lists the condition-keyed tables in canonical order.
var conditionalSections = []string{
	"receive_probabilities",
	"set_probabilities",
	"attack_probabilities",
	"block_probabilities",
	"dig_probabilities",
}

func (t *Team) conditionalTable(section string) *ConditionalTable {
	switch section {
	case "receive_probabilities":
		return &t.Receive
	case "set_probabilities":
		return &t.Set
	case "attack_probabilities":
		return &t.Attack
	case "block_probabilities":
		return &t.Block
	case "dig_probabilities":
		return &t.Dig
	}
	return nil
}

// GetValue resolves a dot path to its leaf probability. The schema is fixed
// and finite: serve paths have two segments, all others have three.
func (t *Team) GetValue(path string) (float64, error) {
	parts := strings.Split(path, ".")
	switch {
	case len(parts) == 2 && parts[0] == serveSection:
		if v, ok := t.Serve.Get(parts[1]); ok {
			return v, nil
		}
	case len(parts) == 3:
		if table := t.conditionalTable(parts[0]); table != nil {
			if dist, ok := table.Get(parts[1]); ok {
				if v, ok := dist.Get(parts[2]); ok {
					return v, nil
				}
			}
		}
	}
	return 0, fmt.Errorf("path %q not found in team configuration", path)
}

// SetValue writes a leaf probability without renormalizing its siblings.
func (t *Team) SetValue(path string, value float64) error {
	dist, leaf, err := t.leafDistribution(path)
	if err != nil {
		return err
	}
	dist.Set(leaf, value)
	return nil
}

// leafDistribution returns the distribution containing a leaf path and the
// leaf's outcome key. The leaf must already exist.
func (t *Team) leafDistribution(path string) (*Distribution, string, error) {
	parts := strings.Split(path, ".")
	switch {
	case len(parts) == 2 && parts[0] == serveSection:
		if _, ok := t.Serve.Get(parts[1]); ok {
			return &t.Serve, parts[1], nil
		}
	case len(parts) == 3:
		if table := t.conditionalTable(parts[0]); table != nil {
			for i := range *table {
				if (*table)[i].Condition == parts[1] {
					if _, ok := (*table)[i].Dist.Get(parts[2]); ok {
						return &(*table)[i].Dist, parts[2], nil
					}
				}
			}
		}
	}
	return nil, "", fmt.Errorf("path %q not found in team configuration", path)
}

// Parameters enumerates every numeric leaf probability in canonical order:
// serve first, then each conditional section, rows and entries as declared.
func (t *Team) Parameters() []Parameter {
	var params []Parameter
	for _, e := range t.Serve {
		params = append(params, Parameter{
			Path:  serveSection + "." + e.Outcome,
			Value: e.Prob,
		})
	}
	for _, section := range conditionalSections {
		table := t.conditionalTable(section)
		for _, row := range *table {
			for _, e := range row.Dist {
				params = append(params, Parameter{
					Path:  section + "." + row.Condition + "." + e.Outcome,
					Value: e.Prob,
				})
			}
		}
	}
	return params
}

// AdjustDistribution sets a leaf to newValue and proportionally rescales its
// sibling outcomes so the distribution keeps summing to 1. With no siblings,
// or siblings summing to zero, only the target is set. Adjustments smaller
// than 0.001 are treated as no-ops.
func (t *Team) AdjustDistribution(path string, newValue float64) error {
	dist, leaf, err := t.leafDistribution(path)
	if err != nil {
		return err
	}

	oldValue, _ := dist.Get(leaf)
	if math.Abs(newValue-oldValue) < 0.001 {
		return nil
	}

	otherSum := 0.0
	otherCount := 0
	for _, e := range *dist {
		if e.Outcome != leaf {
			otherSum += e.Prob
			otherCount++
		}
	}

	if otherCount == 0 || otherSum <= 0 {
		dist.Set(leaf, newValue)
		return nil
	}

	remaining := 1.0 - newValue
	if remaining < 0 {
		remaining = 0
	}

	for i := range *dist {
		if (*dist)[i].Outcome == leaf {
			continue
		}
		scaled := ((*dist)[i].Prob / otherSum) * remaining
		(*dist)[i].Prob = math.Max(0, scaled)
	}
	dist.Set(leaf, newValue)
	return nil
}
