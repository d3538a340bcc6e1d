package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/skyline-sprint/internal/core"
	"github.com/vovakirdan/skyline-sprint/internal/games/runner"
	"github.com/vovakirdan/skyline-sprint/internal/platform/tui"
	"github.com/vovakirdan/skyline-sprint/internal/registry"
	"github.com/vovakirdan/skyline-sprint/internal/storage"
)

var flagRecord string

var playCmd = &cobra.Command{
	Use:   "play [mode]",
	Short: "Play a run",
	Long: `Start a run in the given mode (default: normal).

Controls:
  ←/a, →/d     - Switch lane
  Space/↑/w    - Jump
  ↓/s          - Slide
  P/Esc        - Pause
  R            - Restart (after the run ends)
  B            - Leave (while paused or after the run ends)
  Tab          - Toggle the perf overlay
  ?            - Toggle help
  Q/Ctrl+C     - Quit

Difficulty presets (ignored by the daily challenge):
  easy   - Slower start and ramp, three lives
  normal - Balance as configured
  hard   - Faster start and ramp, shorter start grace
  fixed  - No speed ramp

Examples:
  sprint play
  sprint play daily
  sprint play --difficulty hard
  sprint play --seed 12345 --record run.replay
  sprint play --config ./my-runner.yaml`,
	Args: cobra.MaximumNArgs(1),
	Run:  runPlay,
}

func init() {
	playCmd.Flags().StringVar(&flagRecord, "record", "", "Save the input timeline to this file on quit")
}

// terminalConfig builds the runtime config from the terminal size and the
// global flags.
func terminalConfig() core.RuntimeConfig {
	cfg := core.DefaultConfig()
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		cfg.ScreenW = w
		cfg.ScreenH = h
	}
	cfg.TickRate = flagFPS
	cfg.Seed = flagSeed
	cfg.HasSeed = flagSeedSet
	return cfg
}

// openStore opens the score database, or returns nil with a warning.
func openStore() *storage.Store {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open scores database: %v\n", err)
		return nil
	}
	return store
}

func runPlay(_ *cobra.Command, args []string) {
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

	store := openStore()
	runErr := tui.Run(game, terminalConfig(), tui.Options{
		Store:      store,
		Logger:     logger,
		RecordPath: flagRecord,
		Preset:     flagDifficulty,
	})

	if store != nil {
		store.Close()
	}

	if runErr != nil {
		fmt.Fprintf(os.Stderr, "Error running game: %v\n", runErr)
		os.Exit(1)
	}
}
