package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/skyline-sprint/internal/config"
	"github.com/vovakirdan/skyline-sprint/internal/engine"
	"github.com/vovakirdan/skyline-sprint/internal/games/runner"
	"github.com/vovakirdan/skyline-sprint/internal/replay"
)

var (
	flagReplayList bool
	flagReplayStop bool
)

var replayCmd = &cobra.Command{
	Use:   "replay <file>",
	Short: "Play back a recording headlessly",
	Long: `Feed a recording made with 'sprint play --record' or 'sprint sim --out'
back through a fresh engine and print the outcome.

The recording's own seed and difficulty preset are used; --seed and
--difficulty are ignored.

Examples:
  sprint replay run.replay
  sprint replay run.replay --list --stop`,
	Args: cobra.ExactArgs(1),
	Run:  runReplay,
}

func init() {
	replayCmd.Flags().BoolVar(&flagReplayList, "list", false, "Print every spawned obstacle")
	replayCmd.Flags().BoolVar(&flagReplayStop, "stop", false, "Stop at the first finished run")
}

func runReplay(cmd *cobra.Command, args []string) {
	rec, err := replay.Load(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	daily := rec.Mode == engine.ModeDaily
	// Load without the --difficulty preset, then apply the recorded one.
	runner.SetDifficultyPreset("")
	cfg := runner.LoadConfig(daily)
	if !daily && rec.Preset != "" {
		preset, err := config.ParsePreset(rec.Preset)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: recording has %v\n", err)
			os.Exit(1)
		}
		config.ApplyPreset(&cfg, preset)
	}

	res, err := replay.Play(cfg, rec, replay.Options{Logger: logger, StopAtGameOver: flagReplayStop})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Recording:      %s (%s long, made %s)\n",
		args[0], rec.Duration().Round(time.Millisecond), rec.Created.Format("2006-01-02 15:04"))
	printResult(cmd.OutOrStdout(), rec, res, flagReplayList)
}
