package handlers

import (
	"errors"
	"fmt"
	"strings"
)

var (
	errMissingTeams      = errors.New("both team_a and team_b configurations are required")
	errNonPositivePoints = errors.New("num_points must be positive")
)

func errTooManyPoints(max int) error {
	return fmt.Errorf("num_points exceeds the maximum of %d", max)
}

func errInvalidTeam(field string, issues []string) error {
	return fmt.Errorf("%s is invalid: %s", field, strings.Join(issues, "; "))
}
