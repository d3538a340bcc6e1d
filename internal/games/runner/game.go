// Package runner adapts the simulation engine to the registry.Game interface
// and projects its geometry onto a terminal screen buffer.
package runner

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/skyline-sprint/internal/config"
	"github.com/vovakirdan/skyline-sprint/internal/core"
	"github.com/vovakirdan/skyline-sprint/internal/engine"
	"github.com/vovakirdan/skyline-sprint/internal/registry"
)

// Mode IDs registered by this package. They double as storage keys.
const (
	IDNormal = string(engine.ModeNormal)
	IDDaily  = string(engine.ModeDaily)
)

var (
	configPath string
	preset     config.DifficultyPreset
	logger     = log.New(io.Discard)
	recorder   engine.Recorder
)

// SetConfigPath sets the custom balance file passed via --config.
func SetConfigPath(path string) {
	configPath = path
}

// SetDifficultyPreset sets the preset passed via --difficulty. Daily runs
// ignore it.
func SetDifficultyPreset(p config.DifficultyPreset) {
	preset = p
}

// SetLogger sets the logger handed to every engine.
func SetLogger(l *log.Logger) {
	if l != nil {
		logger = l
	}
}

// SetRecorder sets the metrics recorder handed to every engine.
func SetRecorder(r engine.Recorder) {
	recorder = r
}

// Game is one run mode backed by an engine.
type Game struct {
	daily   bool
	runtime core.RuntimeConfig
	eng     *engine.Engine
	last    engine.Frame
	anim    int
}

// New creates a normal-mode game.
func New() *Game {
	return &Game{}
}

// NewDaily creates a daily-challenge game.
func NewDaily() *Game {
	return &Game{daily: true}
}

func (g *Game) ID() string {
	if g.daily {
		return IDDaily
	}
	return IDNormal
}

func (g *Game) Title() string {
	if g.daily {
		return "Daily Challenge"
	}
	return "Skyline Sprint"
}

// LoadConfig resolves the balance for a run. Daily runs always use the shipped
// balance; other runs use the search path, then the difficulty preset.
func LoadConfig(daily bool) config.RunnerConfig {
	if daily {
		return config.DailyRunnerConfig()
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		logger.Warn("config load failed, using defaults", "path", configPath, "err", err)
		cfg = config.DefaultRunnerConfig()
	}
	if preset != "" {
		config.ApplyPreset(&cfg, preset)
	}
	return cfg
}

// Reset starts a new run.
func (g *Game) Reset(rt core.RuntimeConfig) error {
	g.runtime = rt

	opts := engine.Options{
		Daily:    g.daily,
		Logger:   logger,
		Recorder: recorder,
	}
	if rt.HasSeed {
		opts.Seed = engine.SeedPtr(uint32(rt.Seed))
	}

	eng, err := engine.New(LoadConfig(g.daily), opts)
	if err != nil {
		return fmt.Errorf("runner: %w", err)
	}
	eng.Start()
	g.eng = eng
	g.last = engine.Frame{Snapshot: eng.Snapshot()}
	g.anim = 0
	return nil
}

// Frame forwards the frame's input to the engine and advances it.
func (g *Game) Frame(now time.Duration, in core.InputFrame) core.StepResult {
	if g.eng == nil {
		return core.StepResult{}
	}
	for _, ta := range in.Actions {
		g.eng.Input(ta.Action, ta.At)
	}
	f, err := g.eng.Frame(now)
	if err != nil {
		logger.Error("frame failed", "err", err)
		return core.StepResult{State: g.State()}
	}
	g.last = f
	g.anim++
	return core.StepResult{State: g.State(), Steps: f.Steps}
}

// State returns the current run state.
func (g *Game) State() core.GameState {
	snap := g.last.Snapshot
	return core.GameState{
		Score:      snap.Score,
		Multiplier: snap.Multiplier,
		GameOver:   snap.Scene == engine.SceneGameOver,
		Paused:     snap.Scene == engine.ScenePause,
	}
}

// Snapshot returns the snapshot of the last frame.
func (g *Game) Snapshot() engine.Snapshot {
	return g.last.Snapshot
}

// Events returns the events of the last frame.
func (g *Game) Events() []engine.Event {
	return g.last.Events
}

// Summary describes the current run for the score store.
func (g *Game) Summary() engine.Summary {
	if g.eng == nil {
		return engine.Summary{}
	}
	return g.eng.Summary()
}

func init() {
	registry.Register(IDNormal, func() registry.Game { return New() })
	registry.Register(IDDaily, func() registry.Game { return NewDaily() })
}
