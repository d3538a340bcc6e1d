package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/skyline-sprint/internal/registry"
)

var modesCmd = &cobra.Command{
	Use:   "modes",
	Short: "List run modes",
	Long:  `Shows every run mode registered with the game.`,
	Run:   runModes,
}

func runModes(cmd *cobra.Command, _ []string) {
	modes := registry.List()
	out := cmd.OutOrStdout()

	if len(modes) == 0 {
		fmt.Fprintln(out, "No modes available.")
		return
	}

	maxIDLen := 2
	for _, m := range modes {
		maxIDLen = max(maxIDLen, len(m.ID))
	}

	fmt.Fprintln(out, "Available modes:")
	fmt.Fprintln(out)
	fmt.Fprintf(out, "  %-*s  %s\n", maxIDLen, "ID", "Title")
	fmt.Fprintf(out, "  %-*s  %s\n", maxIDLen, "--", "-----")
	for _, m := range modes {
		fmt.Fprintf(out, "  %-*s  %s\n", maxIDLen, m.ID, m.Title)
	}
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Run 'sprint play <id>' to start a run.")
}
