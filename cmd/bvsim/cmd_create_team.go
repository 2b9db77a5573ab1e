package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/bvsim-dev/bvsim/internal/team"
)

var (
	createTeamTemplate string
	createTeamName     string
	createTeamOutput   string
)

var createTeamCmd = &cobra.Command{
	Use:   "create-team",
	Short: "Write a template team configuration file",
	RunE:  runCreateTeam,
}

func init() {
	createTeamCmd.Flags().StringVarP(&createTeamTemplate, "template", "t", "basic", "Template type (basic or advanced)")
	createTeamCmd.Flags().StringVarP(&createTeamName, "name", "n", "New Team", "Team name")
	createTeamCmd.Flags().StringVarP(&createTeamOutput, "output", "o", "", "Output YAML file (default stdout)")
}

func runCreateTeam(cmd *cobra.Command, args []string) error {
	t, ok := team.NewTemplateProvider().ByType(createTeamTemplate, createTeamName)
	if !ok {
		return fmt.Errorf("unknown template type %q: must be \"basic\" or \"advanced\"", createTeamTemplate)
	}

	data, err := t.ToYAML()
	if err != nil {
		return err
	}

	if createTeamOutput == "" || createTeamOutput == "-" {
		_, err = os.Stdout.Write(data)
		return err
	}
	if err := os.WriteFile(createTeamOutput, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", createTeamOutput, err)
	}
	fmt.Printf("Wrote %s template to %s\n", createTeamTemplate, createTeamOutput)
	return nil
}
