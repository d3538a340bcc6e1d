package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/skyline-sprint/internal/games/runner"
	"github.com/vovakirdan/skyline-sprint/internal/platform/stream"
)

var flagStreamAddr string

var streamCmd = &cobra.Command{
	Use:   "stream",
	Short: "Start the websocket snapshot server",
	Long: `Serve runs to browser renderers over websockets.

Clients connect to /ws (optionally ?mode=daily and ?seed=N), send
{"type":"input","action":"JUMP"} messages and receive one snapshot per
frame. /healthz and /metrics are served on the same address.

Examples:
  sprint stream
  sprint stream --addr :9000 --fps 30`,
	Run: runStream,
}

func init() {
	streamCmd.Flags().StringVar(&flagStreamAddr, "addr", ":8080", "HTTP listen address (host:port)")
}

func runStream(_ *cobra.Command, _ []string) {
	store := openStore()
	if store != nil {
		defer store.Close()
	}

	srv := stream.NewServer(stream.Config{
		Address: flagStreamAddr,
		FPS:     flagFPS,
		Runner:  runner.LoadConfig,
		Logger:  logger,
		Metrics: newCollector(),
		Store:   store,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Printf("Streaming runs on %s/ws\n", flagStreamAddr)
	fmt.Println("Press Ctrl+C to stop")

	if err := srv.ListenAndServe(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
		os.Exit(1)
	}
}
