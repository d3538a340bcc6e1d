package main

import (
	"fmt"
	"io"
	"maps"
	"os"
	"slices"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/skyline-sprint/internal/games/runner"
	"github.com/vovakirdan/skyline-sprint/internal/registry"
	"github.com/vovakirdan/skyline-sprint/internal/storage"
)

var (
	flagScoresLimit int
	flagScoresClear bool
	flagScoresStats bool
)

var scoresCmd = &cobra.Command{
	Use:   "scores [mode]",
	Short: "Show high scores and recent runs",
	Long: `Display the top scores and the last runs for a mode (default: normal).

Examples:
  sprint scores
  sprint scores daily --limit 20
  sprint scores --stats
  sprint scores normal --clear`,
	Args: cobra.MaximumNArgs(1),
	Run:  runScores,
}

func init() {
	scoresCmd.Flags().IntVar(&flagScoresLimit, "limit", 10, "Number of top scores to show")
	scoresCmd.Flags().BoolVar(&flagScoresClear, "clear", false, "Delete every score and run of the mode")
	scoresCmd.Flags().BoolVar(&flagScoresStats, "stats", false, "Show totals for every mode played")
}

func runScores(cmd *cobra.Command, args []string) {
	modeID := runner.IDNormal
	if len(args) == 1 {
		modeID = args[0]
	}

	if !registry.Exists(modeID) {
		fmt.Fprintf(os.Stderr, "Error: unknown mode %q\n", modeID)
		fmt.Fprintln(os.Stderr, "Run 'sprint modes' to see available modes.")
		os.Exit(1)
	}

	game, err := registry.Create(modeID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating mode: %v\n", err)
		os.Exit(1)
	}

	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening scores database: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	out := cmd.OutOrStdout()
	switch {
	case flagScoresClear:
		if err := store.ClearMode(modeID); err != nil {
			fmt.Fprintf(os.Stderr, "Error clearing scores: %v\n", err)
			os.Exit(1)
		}
		fmt.Fprintf(out, "Cleared all scores for %s.\n", game.Title())
		return
	case flagScoresStats:
		if err := printStats(out, store); err != nil {
			fmt.Fprintf(os.Stderr, "Error retrieving stats: %v\n", err)
			os.Exit(1)
		}
		return
	}

	scores, err := store.TopScores(modeID, flagScoresLimit)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error retrieving scores: %v\n", err)
		os.Exit(1)
	}

	fmt.Fprintf(out, "High Scores - %s\n\n", game.Title())

	if len(scores) == 0 {
		fmt.Fprintln(out, "No scores recorded yet.")
		fmt.Fprintln(out)
		fmt.Fprintf(out, "Play 'sprint play %s' to set the first high score!\n", modeID)
		return
	}

	fmt.Fprintf(out, "  %-4s  %-10s  %-10s  %s\n", "Rank", "Score", "Seed", "Date")
	fmt.Fprintf(out, "  %-4s  %-10s  %-10s  %s\n", "----", "-----", "----", "----")
	for i, e := range scores {
		fmt.Fprintf(out, "  %-4d  %-10d  %-10d  %s\n", i+1, e.Score, e.Seed, e.CreatedAt.Format("2006-01-02 15:04"))
	}

	runs, err := store.RecentRuns(modeID)
	if err == nil && len(runs) > 0 {
		fmt.Fprintln(out)
		fmt.Fprintln(out, "Recent runs:")
		for _, r := range runs {
			fmt.Fprintf(out, "  %7d  %6.1fs  x%d  shards %d  dodges %d  obstacles %d\n",
				r.Score, r.Elapsed, r.MaxMultiplier, r.Shards, r.PerfectDodges, r.Obstacles)
		}
	}

	if best, err := store.HighScore(modeID); err == nil {
		fmt.Fprintln(out)
		fmt.Fprintf(out, "Best: %d\n", best)
	}
}

// printStats prints one line per mode that has scores.
func printStats(out io.Writer, store *storage.Store) error {
	stats, err := store.Stats()
	if err != nil {
		return err
	}
	if len(stats) == 0 {
		fmt.Fprintln(out, "No scores recorded yet.")
		return nil
	}

	fmt.Fprintf(out, "  %-8s  %-6s  %-10s  %-10s  %s\n", "Mode", "Runs", "Best", "Average", "Last played")
	fmt.Fprintf(out, "  %-8s  %-6s  %-10s  %-10s  %s\n", "----", "----", "----", "-------", "-----------")
	for _, mode := range slices.Sorted(maps.Keys(stats)) {
		m := stats[mode]
		fmt.Fprintf(out, "  %-8s  %-6d  %-10d  %-10.1f  %s\n",
			m.Mode, m.RunsCount, m.HighScore, m.AvgScore, m.LastPlayed.Format("2006-01-02 15:04"))
	}
	return nil
}
