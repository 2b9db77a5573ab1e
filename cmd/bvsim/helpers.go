package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bvsim-dev/bvsim/internal/team"
)

// loadTeam reads a team YAML file, fills missing sections from the basic
// template, and rejects invalid configurations.
func loadTeam(path string) (*team.Team, error) {
	t, err := team.LoadFile(path)
	if err != nil {
		return nil, err
	}

	defaultName := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	template := team.NewTemplateProvider().Basic(defaultName)
	t.ApplyDefaults(template)

	if issues := team.Validate(t); len(issues) > 0 {
		return nil, fmt.Errorf("invalid team file %s:\n  %s", path, strings.Join(issues, "\n  "))
	}
	return t, nil
}

// writeJSON writes v as indented JSON to path, or to stdout when path is
// empty or "-".
func writeJSON(path string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	data = append(data, '\n')

	if path == "" || path == "-" {
		_, err = os.Stdout.Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// parseSeed converts the --seed flag into the optional seed the simulation
// APIs take. The zero flag value means "not set".
func parseSeed(seed int64, changed bool) *int64 {
	if !changed {
		return nil
	}
	return &seed
}
