package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/skyline-sprint/internal/config"
	"github.com/vovakirdan/skyline-sprint/internal/games/runner"
)

var flagConfigDaily bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the resolved balance as YAML",
	Long: `Print the balance a run would use after the config search path and
the difficulty preset are applied. The output is a valid --config file.

Examples:
  sprint config > my-runner.yaml
  sprint config --difficulty hard
  sprint config --daily`,
	Run: runConfig,
}

func init() {
	configCmd.Flags().BoolVar(&flagConfigDaily, "daily", false, "Resolve as the daily challenge (no preset)")
}

func runConfig(cmd *cobra.Command, _ []string) {
	data, err := config.Marshal(runner.LoadConfig(flagConfigDaily))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	_, _ = cmd.OutOrStdout().Write(data)
}
