package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/bvsim-dev/bvsim/pkg/logger"
)

const interruptExitCode = 130

var log *logrus.Logger

var rootCmd = &cobra.Command{
	Use:   "bvsim",
	Short: "Beach volleyball point simulator and skill impact analyzer",
	Long: `bvsim simulates beach volleyball points from per-team conditional
probability tables and measures which skill improvements matter most.

Team configurations are YAML files; missing sections are filled from the
basic template so partial files are valid input everywhere.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func main() {
	log = logger.InitLogger("warn", false)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := rootCmd.ExecuteContext(ctx)
	if err == nil {
		return
	}
	if errors.Is(err, context.Canceled) || ctx.Err() != nil {
		fmt.Fprintln(os.Stderr, "Interrupted")
		os.Exit(interruptExitCode)
	}
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}

func init() {
	rootCmd.AddCommand(
		simulateCmd,
		skillsCmd,
		sensitivityCmd,
		statsCmd,
		compareCmd,
		analyzeCmd,
		validateCmd,
		createTeamCmd,
		examplesCmd,
	)
}
