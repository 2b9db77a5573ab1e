package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bvsim-dev/bvsim/internal/team"
)

var validateApplyDefaults bool

var validateCmd = &cobra.Command{
	Use:   "validate <team.yaml> [more...]",
	Short: "Check team configuration files",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runValidate,
}

func init() {
	validateCmd.Flags().BoolVar(&validateApplyDefaults, "apply-defaults", false,
		"Fill missing sections from the basic template before validating")
}

func runValidate(cmd *cobra.Command, args []string) error {
	failed := 0
	for _, path := range args {
		t, err := team.LoadFile(path)
		if err != nil {
			fmt.Printf("%s: %v\n", path, err)
			failed++
			continue
		}
		if validateApplyDefaults {
			t.ApplyDefaults(team.NewTemplateProvider().Basic(t.Name))
		}

		if issues := team.Validate(t); len(issues) > 0 {
			fmt.Printf("%s: INVALID\n", path)
			for _, issue := range issues {
				fmt.Printf("  - %s\n", issue)
			}
			failed++
			continue
		}
		fmt.Printf("%s: OK (%s, %d parameters)\n", path, t.Name, len(t.Parameters()))
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d team files invalid", failed, len(args))
	}
	return nil
}
