// sprint is a lane-based endless runner for the terminal, SSH and browsers.
//
// Usage:
//
//	sprint modes             - List run modes
//	sprint play [mode]       - Play a run (normal or daily)
//	sprint menu              - Pick modes interactively
//	sprint scores [mode]     - Show high scores and recent runs
//	sprint serve             - Start the SSH server
//	sprint stream            - Start the websocket snapshot server
//	sprint sim               - Run a headless simulation
//	sprint replay <file>     - Play back a recording headlessly
//	sprint seed              - Print today's daily seed
//	sprint config            - Print the resolved balance as YAML
//
// Global flags:
//
//	--fps <rate>          - Host frame rate (default: 60)
//	--seed <value>        - Pin the run seed (default: daily seed or generated)
//	--db <path>           - Database path (default: ~/.sprint/scores.db)
//	--config <path>       - Custom balance YAML
//	--difficulty <name>   - easy, normal, hard or fixed
//	--log-level <level>   - debug, info, warn, error
package main

import (
	"fmt"
	"io"
	"math"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/skyline-sprint/internal/config"
	"github.com/vovakirdan/skyline-sprint/internal/engine"
	"github.com/vovakirdan/skyline-sprint/internal/games/runner"
)

var (
	flagFPS        int
	flagSeed       int64
	flagSeedSet    bool
	flagDBPath     string
	flagConfig     string
	flagDifficulty string
	flagLogLevel   string
	flagLogFile    string
)

var logger = log.New(io.Discard)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "sprint",
	Short: "Skyline Sprint - an endless runner in your terminal",
	Long: `Skyline Sprint is a three-lane endless runner. Dodge blocks, gaps,
rollers, beams, drones and gates, collect shards and power-ups, and chase
the daily challenge that every player shares.

Examples:
  sprint play
  sprint play daily
  sprint play --seed 12345 --difficulty hard
  sprint menu
  sprint serve --ssh :2222
  sprint stream --addr :8080
  sprint sim --seconds 120 --seed 7`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		return setup(cmd)
	},
}

func init() {
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 60, "Host frame rate (frames per second)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "Run seed (default: daily seed or generated)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.sprint/scores.db", "Path to scores database")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to custom balance YAML")
	rootCmd.PersistentFlags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard, fixed")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&flagLogFile, "log-file", "", "Write logs to this file (terminal runs log nowhere by default)")

	rootCmd.AddCommand(modesCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(streamCmd)
	rootCmd.AddCommand(simCmd)
	rootCmd.AddCommand(replayCmd)
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(configCmd)
}

// setup validates the global flags and wires the logger and balance into the
// runner package.
func setup(cmd *cobra.Command) error {
	level, err := log.ParseLevel(flagLogLevel)
	if err != nil {
		return fmt.Errorf("invalid --log-level %q: %w", flagLogLevel, err)
	}
	if flagSeed < 0 || flagSeed > math.MaxUint32 {
		return fmt.Errorf("--seed must be between 0 and %d", uint32(math.MaxUint32))
	}
	flagSeedSet = cmd.Flags().Changed("seed")
	preset, err := config.ParsePreset(flagDifficulty)
	if err != nil {
		return err
	}

	var out io.Writer = os.Stderr
	if isTerminalCommand(cmd) {
		out = io.Discard
	}
	if flagLogFile != "" {
		f, err := os.OpenFile(flagLogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return fmt.Errorf("cannot open log file: %w", err)
		}
		out = f
	}

	logger = log.NewWithOptions(out, log.Options{
		ReportTimestamp: true,
		Prefix:          "sprint",
		Level:           level,
	})

	runner.SetLogger(logger)
	runner.SetConfigPath(flagConfig)
	runner.SetDifficultyPreset(preset)
	return nil
}

// isTerminalCommand reports whether cmd draws a full-screen UI, where log
// lines on stderr would corrupt the display.
func isTerminalCommand(cmd *cobra.Command) bool {
	switch cmd.Name() {
	case playCmd.Name(), menuCmd.Name():
		return true
	}
	return false
}

// seedOverride converts --seed to an engine override. Any explicit value,
// zero included, pins the seed.
func seedOverride() *uint32 {
	if !flagSeedSet {
		return nil
	}
	return engine.SeedPtr(uint32(flagSeed))
}
