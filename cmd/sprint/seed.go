package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/skyline-sprint/internal/engine"
)

var flagSeedDate string

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Print the daily challenge seed",
	Long: `Print the seed every player gets for the daily challenge. The seed is
derived from the UTC calendar date.

Examples:
  sprint seed
  sprint seed --date 2026-01-31`,
	RunE: runSeed,
}

func init() {
	seedCmd.Flags().StringVar(&flagSeedDate, "date", "", "UTC date as YYYY-MM-DD (default: today)")
}

func runSeed(cmd *cobra.Command, _ []string) error {
	day := time.Now().UTC()
	if flagSeedDate != "" {
		t, err := time.Parse("2006-01-02", flagSeedDate)
		if err != nil {
			return fmt.Errorf("invalid --date: %w", err)
		}
		day = t
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s  %d\n", day.Format("2006-01-02"), engine.DailySeed(day))
	return nil
}
