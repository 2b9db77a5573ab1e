package analysis

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/bvsim-dev/bvsim/internal/team"
)

// Impact classification boundaries, in win-rate percentage points of the
// largest swing from the base win rate.
const (
	lowImpactBound    = 2.0
	mediumImpactBound = 5.0
)

// SensitivityPoint is one tested parameter value and its measured win rate.
type SensitivityPoint struct {
	ParameterValue float64 `json:"parameter_value"`
	WinRate        float64 `json:"win_rate"`
	ChangeFromBase float64 `json:"change_from_base"`
}

// SensitivityResult maps how a single parameter drives the win rate across
// a value range.
type SensitivityResult struct {
	Parameter   string             `json:"parameter_name"`
	BaseWinRate float64            `json:"base_win_rate"`
	DataPoints  []SensitivityPoint `json:"data_points"`
	Impact      string             `json:"impact_factor"`
}

// ParseRange parses a "min,max,step" range specification.
func ParseRange(spec string) (minVal, maxVal, step float64, err error) {
	parts := strings.Split(spec, ",")
	if len(parts) != 3 {
		return 0, 0, 0, fmt.Errorf("invalid range format %q: expected \"min,max,step\"", spec)
	}
	vals := make([]float64, 3)
	for i, part := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			return 0, 0, 0, fmt.Errorf("invalid range format %q: expected \"min,max,step\"", spec)
		}
		vals[i] = v
	}
	return vals[0], vals[1], vals[2], nil
}

// SensitivityAnalysis sweeps one parameter from minVal to maxVal in step
// increments, measuring the win rate at each value. The team's current
// value is always included so the base point appears in the output. Each
// tested value replaces the parameter with sibling renormalization, the
// same adjustment the skill sweep applies.
func (e *Engine) SensitivityAnalysis(ctx context.Context, base, opponent *team.Team, parameter string, minVal, maxVal, step float64) (*SensitivityResult, error) {
	if step <= 0 {
		return nil, fmt.Errorf("range step must be positive, got %g", step)
	}
	if minVal > maxVal {
		return nil, fmt.Errorf("range minimum %g exceeds maximum %g", minVal, maxVal)
	}

	baseValue, err := base.GetValue(parameter)
	if err != nil {
		return nil, fmt.Errorf("parameter %q not found in team configuration", parameter)
	}

	baseline, err := WinRate(base, opponent, e.trials, e.baseServing)
	if err != nil {
		return nil, err
	}

	// Half a step of slack keeps the endpoint from being lost to float
	// accumulation.
	values := make([]float64, 0, int((maxVal-minVal)/step)+2)
	for v := minVal; v <= maxVal+step/2; v += step {
		values = append(values, round3(v))
	}
	current := round3(baseValue)
	included := false
	for _, v := range values {
		if v == current {
			included = true
			break
		}
	}
	if !included {
		values = append(values, current)
		sort.Float64s(values)
	}

	result := &SensitivityResult{
		Parameter:   parameter,
		BaseWinRate: baseline,
		DataPoints:  make([]SensitivityPoint, 0, len(values)),
	}

	maxSwing := 0.0
	for _, v := range values {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		modified := base.Clone()
		if err := modified.AdjustDistribution(parameter, v); err != nil {
			return nil, err
		}
		winRate, err := WinRate(modified, opponent, e.trials, e.baseServing)
		if err != nil {
			return nil, err
		}

		change := winRate - baseline
		if math.Abs(change) > maxSwing {
			maxSwing = math.Abs(change)
		}
		result.DataPoints = append(result.DataPoints, SensitivityPoint{
			ParameterValue: v,
			WinRate:        winRate,
			ChangeFromBase: change,
		})
	}

	switch {
	case maxSwing < lowImpactBound:
		result.Impact = "LOW"
	case maxSwing < mediumImpactBound:
		result.Impact = "MEDIUM"
	default:
		result.Impact = "HIGH"
	}
	return result, nil
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
