package tui

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/skyline-sprint/internal/core"
	"github.com/vovakirdan/skyline-sprint/internal/engine"
	"github.com/vovakirdan/skyline-sprint/internal/registry"
	"github.com/vovakirdan/skyline-sprint/internal/replay"
	"github.com/vovakirdan/skyline-sprint/internal/storage"
)

// runInfo is implemented by modes backed by an engine.
type runInfo interface {
	Summary() engine.Summary
	Snapshot() engine.Snapshot
}

// Options configure a run host.
type Options struct {
	Store  *storage.Store
	Logger *log.Logger
	// RecordPath, when set, saves the input timeline there on quit.
	RecordPath string
	// Preset is stored in recordings.
	Preset string
	// Embedded models return to a menu instead of quitting on back.
	Embedded bool
	// ScreenshotDir overrides ~/.sprint/screenshots.
	ScreenshotDir string
}

// Model is the Bubble Tea model for one run.
type Model struct {
	game   registry.Game
	screen *core.Screen
	opts   Options
	logger *log.Logger
	config core.RuntimeConfig
	keys   KeyMap
	help   help.Model

	loop    uint64
	start   time.Time
	input   core.InputFrame
	state   core.GameState
	capture *replay.Capture
	perf    perfStats

	debug      bool
	showHelp   bool
	quitting   bool
	backToMenu bool
	saved      bool
}

// perfStats feeds the overlay toggled with tab.
type perfStats struct {
	lastTick time.Time
	fps      float64
	steps    int
}

// NewModel starts a run of game and returns its model.
func NewModel(game registry.Game, cfg core.RuntimeConfig, opts Options) (Model, error) {
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	if err := game.Reset(cfg); err != nil {
		return Model{}, fmt.Errorf("tui: cannot start %s: %w", game.ID(), err)
	}

	h := help.New()
	h.ShowAll = false

	m := Model{
		game:   game,
		screen: core.NewScreen(cfg.ScreenW, cfg.ScreenH),
		opts:   opts,
		logger: opts.Logger,
		config: cfg,
		keys:   DefaultKeyMap(),
		help:   h,
		loop:   nextLoop(),
		start:  time.Now(),
		input:  core.NewInputFrame(),
	}
	if opts.RecordPath != "" {
		if info, ok := game.(runInfo); ok {
			sum := info.Summary()
			// Pin a generated seed so restarts inside the recording replay
			// identically. Daily seeds are already fixed by the date.
			if !cfg.HasSeed && sum.Mode == engine.ModeNormal {
				cfg.Seed = int64(sum.Seed)
				cfg.HasSeed = true
				m.config = cfg
				if err := game.Reset(cfg); err != nil {
					return Model{}, fmt.Errorf("tui: cannot start %s: %w", game.ID(), err)
				}
			}
			m.capture = replay.NewCapture(sum.Mode, sum.Seed, opts.Preset)
		}
	}
	return m, nil
}

// Init starts the frame loop.
func (m Model) Init() tea.Cmd {
	return tickCmd(m.config.TickRate, m.loop)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.config.ScreenW = msg.Width
		m.config.ScreenH = msg.Height
		m.help.Width = msg.Width
		m.resizeScreen()
		return m, nil
	case TickMsg:
		if msg.Loop != m.loop {
			return m, nil
		}
		return m.handleTick(msg.Time)
	}
	return m, nil
}

func (m *Model) elapsed() time.Duration {
	return time.Since(m.start)
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.finish()
		m.quitting = true
		return m, tea.Quit
	case key.Matches(msg, m.keys.Screenshot):
		m.saveScreenshot()
		return m, nil
	case key.Matches(msg, m.keys.Debug):
		m.debug = !m.debug
		return m, nil
	case key.Matches(msg, m.keys.Help):
		m.showHelp = !m.showHelp
		m.help.ShowAll = m.showHelp
		m.resizeScreen()
		return m, nil
	case key.Matches(msg, m.keys.Back) && (m.state.GameOver || m.state.Paused):
		m.finish()
		if m.opts.Embedded {
			m.backToMenu = true
			return m, nil
		}
		m.quitting = true
		return m, tea.Quit
	}

	if a := m.keys.Action(msg); a != core.ActionNone {
		at := m.elapsed()
		m.input.Push(a, at)
		if m.capture != nil {
			m.capture.Input(a, at)
		}
	}
	return m, nil
}

func (m Model) handleTick(t time.Time) (tea.Model, tea.Cmd) {
	if m.quitting || m.backToMenu {
		return m, nil
	}

	now := m.elapsed()
	// Clear below reuses the backing array; the game may keep its frame.
	result := m.game.Frame(now, m.input.Clone())
	if m.capture != nil {
		m.capture.Frame(now)
	}
	m.input.Clear()

	if !m.perf.lastTick.IsZero() {
		if dt := t.Sub(m.perf.lastTick).Seconds(); dt > 0 {
			m.perf.fps = 0.9*m.perf.fps + 0.1/dt
		}
	}
	m.perf.lastTick = t
	m.perf.steps = result.Steps

	m.state = result.State
	if !m.state.GameOver {
		m.saved = false
	} else if !m.saved {
		m.saveRun()
		m.saved = true
	}

	return m, tickCmd(m.config.TickRate, m.loop)
}

// saveRun records a finished run. Storage errors never stop the game.
func (m *Model) saveRun() {
	info, ok := m.game.(runInfo)
	if !ok || m.opts.Store == nil {
		return
	}
	sum := info.Summary()
	if err := m.opts.Store.RecordRun(sum); err != nil {
		if errors.Is(err, storage.ErrUnranked) {
			m.logger.Debug("practice run not saved", "mode", sum.Mode, "seed", sum.Seed)
			return
		}
		m.logger.Warn("could not save run", "mode", sum.Mode, "err", err)
		return
	}
	m.logger.Info("run saved", "mode", sum.Mode, "seed", sum.Seed, "score", sum.Score)
}

// finish writes the recording, if one is being captured.
func (m *Model) finish() {
	if m.capture == nil {
		return
	}
	rec := m.capture.Recording()
	if err := replay.Save(m.opts.RecordPath, rec); err != nil {
		m.logger.Warn("could not save recording", "path", m.opts.RecordPath, "err", err)
		return
	}
	m.logger.Info("recording saved", "path", m.opts.RecordPath, "frames", len(rec.Frames))
	m.capture = nil
}

func (m *Model) resizeScreen() {
	h := m.config.ScreenH
	if m.showHelp {
		h -= lipgloss.Height(m.help.View(m.keys))
	}
	m.screen.Resize(m.config.ScreenW, max(h, 1))
}

func (m *Model) saveScreenshot() {
	m.game.Render(m.screen)

	dir := m.opts.ScreenshotDir
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return
		}
		dir = filepath.Join(home, ".sprint", "screenshots")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		m.logger.Warn("could not create screenshot directory", "err", err)
		return
	}

	name := fmt.Sprintf("%s_%s.txt", m.game.ID(), time.Now().Format("20060102_150405"))
	if err := os.WriteFile(filepath.Join(dir, name), []byte(m.screen.String()), 0o600); err != nil {
		m.logger.Warn("could not save screenshot", "err", err)
	}
}

// View renders the current state.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	m.game.Render(m.screen)
	if m.debug {
		m.drawOverlay()
	}

	out := RenderScreen(m.screen)
	if m.showHelp {
		out += "\n" + m.help.View(m.keys)
	}
	return out
}

// drawOverlay writes the perf line on the bottom row.
func (m Model) drawOverlay() {
	line := fmt.Sprintf(" fps %.0f  steps %d", m.perf.fps, m.perf.steps)
	if info, ok := m.game.(runInfo); ok {
		snap := info.Snapshot()
		line += fmt.Sprintf("  tick %d  seed %d  obstacles %d  alpha %.2f",
			snap.Tick, snap.Seed, len(snap.Obstacles), snap.Alpha)
	}
	m.screen.DrawTextColored(0, m.screen.Height()-1, line, core.ColorGray)
}

// IsQuitting reports whether the user asked to quit.
func (m Model) IsQuitting() bool { return m.quitting }

// BackToMenu reports whether an embedded run asked to return to the menu.
func (m Model) BackToMenu() bool { return m.backToMenu }

// Run plays game in the current terminal until the user quits.
func Run(game registry.Game, cfg core.RuntimeConfig, opts Options) error {
	model, err := NewModel(game, cfg, opts)
	if err != nil {
		return err
	}

	p := tea.NewProgram(model, tea.WithAltScreen())
	_, err = p.Run()
	return err
}
