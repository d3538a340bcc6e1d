package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/skyline-sprint/internal/platform/tui"
	"github.com/vovakirdan/skyline-sprint/internal/registry"
)

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Pick run modes from an interactive menu",
	Long: `Start in interactive menu mode.

Use arrow keys or j/k to navigate, Enter to start a run, Tab for scores.
Leaving a run returns to the menu.

Examples:
  sprint menu
  sprint menu --fps 30
  sprint menu --db ./scores.db`,
	Run: runMenu,
}

func runMenu(_ *cobra.Command, _ []string) {
	store := openStore()
	defer func() {
		if store != nil {
			store.Close()
		}
	}()

	cfg := terminalConfig()
	for {
		result, err := tui.RunMenu(store, cfg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return
		}
		cfg = result.Config

		if result.Quit {
			return
		}

		if result.WantsScoreboard {
			goBack, err := tui.RunScoreboard(store, cfg.ScreenW, cfg.ScreenH)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			}
			if goBack {
				continue
			}
			return
		}

		game, err := registry.Create(result.ModeID)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error creating run: %v\n", err)
			continue
		}
		if err := tui.Run(game, cfg, tui.Options{Store: store, Logger: logger, Preset: flagDifficulty}); err != nil {
			fmt.Fprintf(os.Stderr, "Error running game: %v\n", err)
		}
	}
}
