package team

import (
	"fmt"
	"math"
)

const sumTolerance = 0.001

// ValidateDistribution checks that a flat distribution is well formed:
// every probability in [0, 1] and the total within tolerance of 1.0.
// Returns human-readable error strings; empty means valid.
func ValidateDistribution(name string, dist Distribution) []string {
	var errs []string

	if len(dist) == 0 {
		return []string{fmt.Sprintf("%s: Empty probability distribution", name)}
	}

	for _, e := range dist {
		if e.Prob < 0 {
			errs = append(errs, fmt.Sprintf("%s.%s: Probability cannot be negative (%g)", name, e.Outcome, e.Prob))
		} else if e.Prob > 1 {
			errs = append(errs, fmt.Sprintf("%s.%s: Probability cannot exceed 1.0 (%g)", name, e.Outcome, e.Prob))
		}
	}

	if total := dist.Sum(); math.Abs(total-1.0) > sumTolerance {
		errs = append(errs, fmt.Sprintf("%s: Probabilities must sum to 1.0, got %.4f", name, total))
	}

	return errs
}

// ValidateConditionalTable checks every condition row of a table.
func ValidateConditionalTable(name string, table ConditionalTable) []string {
	var errs []string

	if len(table) == 0 {
		return []string{fmt.Sprintf("%s: Empty conditional probability distribution", name)}
	}

	for _, row := range table {
		errs = append(errs, ValidateDistribution(name+"."+row.Condition, row.Dist)...)
	}

	return errs
}

// Validate checks a complete team configuration and returns a list of
// descriptive errors; an empty list means the team is valid.
func Validate(t *Team) []string {
	var errs []string

	if t.Name == "" {
		errs = append(errs, "Team name must be a non-empty string")
	}

	errs = append(errs, ValidateDistribution(serveSection, t.Serve)...)

	for _, section := range conditionalSections {
		errs = append(errs, ValidateConditionalTable(section, *t.conditionalTable(section))...)
	}

	return errs
}
