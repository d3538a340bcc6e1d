package tui

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/skyline-sprint/internal/core"
	"github.com/vovakirdan/skyline-sprint/internal/engine"
	"github.com/vovakirdan/skyline-sprint/internal/replay"
	"github.com/vovakirdan/skyline-sprint/internal/storage"
)

// stubGame records what the host feeds it.
type stubGame struct {
	resets   int
	frames   int
	received []core.Action
	state    core.GameState
	seed     uint32
	pinned   bool
	daily    bool
	kept     []core.InputFrame
}

func (g *stubGame) ID() string    { return "normal" }
func (g *stubGame) Title() string { return "Stub" }

func (g *stubGame) Reset(cfg core.RuntimeConfig) error {
	g.resets++
	g.seed = 99
	g.pinned = cfg.HasSeed
	if cfg.HasSeed {
		g.seed = uint32(cfg.Seed)
	}
	return nil
}

func (g *stubGame) Frame(now time.Duration, in core.InputFrame) core.StepResult {
	g.frames++
	g.kept = append(g.kept, in)
	for _, ta := range in.Actions {
		g.received = append(g.received, ta.Action)
	}
	return core.StepResult{State: g.state, Steps: 1}
}

func (g *stubGame) Render(dst *core.Screen) {
	dst.Clear()
	dst.DrawText(0, 0, "stub")
}

func (g *stubGame) State() core.GameState { return g.state }

func (g *stubGame) Summary() engine.Summary {
	mode := engine.ModeNormal
	if g.daily {
		mode = engine.ModeDaily
	}
	return engine.Summary{Mode: mode, Seed: g.seed, Score: g.state.Score, Completed: g.state.GameOver, SeedOverride: g.pinned}
}

func (g *stubGame) Snapshot() engine.Snapshot {
	return engine.Snapshot{Seed: g.seed}
}

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	out, ok := next.(Model)
	if !ok {
		t.Fatalf("Update returned %T", next)
	}
	return out
}

func tick(m Model) TickMsg {
	return TickMsg{Time: time.Now(), Loop: m.loop}
}

func TestKeyMapActions(t *testing.T) {
	k := DefaultKeyMap()
	tests := []struct {
		key  string
		want core.Action
	}{
		{"left", core.ActionLaneLeft},
		{"a", core.ActionLaneLeft},
		{"right", core.ActionLaneRight},
		{"d", core.ActionLaneRight},
		{" ", core.ActionJump},
		{"up", core.ActionJump},
		{"w", core.ActionJump},
		{"down", core.ActionSlide},
		{"s", core.ActionSlide},
		{"p", core.ActionPause},
		{"esc", core.ActionPause},
		{"r", core.ActionRestart},
		{"q", core.ActionQuit},
		{"x", core.ActionNone},
		{"tab", core.ActionNone},
	}
	for _, tt := range tests {
		if got := k.Action(keyMsg(tt.key)); got != tt.want {
			t.Errorf("Action(%q) = %v, want %v", tt.key, got, tt.want)
		}
	}
}

func TestMenuActions(t *testing.T) {
	tests := []struct {
		key  string
		want MenuAction
	}{
		{"up", MenuActionUp},
		{"k", MenuActionUp},
		{"down", MenuActionDown},
		{"j", MenuActionDown},
		{"enter", MenuActionSelect},
		{"esc", MenuActionBack},
		{"tab", MenuActionScoreboard},
		{"q", MenuActionQuit},
		{"x", MenuActionNone},
	}
	for _, tt := range tests {
		if got := MapKeyToMenuAction(keyMsg(tt.key)); got != tt.want {
			t.Errorf("MapKeyToMenuAction(%q) = %v, want %v", tt.key, got, tt.want)
		}
	}
}

func TestModelForwardsInputOnTick(t *testing.T) {
	game := &stubGame{}
	m, err := NewModel(game, core.RuntimeConfig{ScreenW: 40, ScreenH: 12, TickRate: 60}, Options{})
	if err != nil {
		t.Fatalf("NewModel: %v", err)
	}
	if game.resets != 1 {
		t.Fatalf("resets = %d, want 1", game.resets)
	}

	m = update(t, m, keyMsg("left"))
	m = update(t, m, keyMsg(" "))
	if game.frames != 0 {
		t.Fatal("keys alone must not advance the game")
	}
	m = update(t, m, tick(m))

	if len(game.received) != 2 || game.received[0] != core.ActionLaneLeft || game.received[1] != core.ActionJump {
		t.Errorf("received = %v", game.received)
	}

	update(t, m, tick(m))
	if len(game.received) != 2 {
		t.Errorf("input was not cleared after the frame: %v", game.received)
	}
}

func TestModelFrameInputNotReused(t *testing.T) {
	game := &stubGame{}
	m, err := NewModel(game, core.RuntimeConfig{ScreenW: 40, ScreenH: 12, TickRate: 60}, Options{})
	if err != nil {
		t.Fatalf("NewModel: %v", err)
	}

	m = update(t, m, keyMsg("left"))
	m = update(t, m, tick(m))
	m = update(t, m, keyMsg("d"))
	update(t, m, tick(m))

	if len(game.kept) != 2 {
		t.Fatalf("frames = %d, want 2", len(game.kept))
	}
	first := game.kept[0].Actions
	if len(first) != 1 || first[0].Action != core.ActionLaneLeft {
		t.Errorf("first frame was overwritten: %+v", first)
	}
}

func TestModelIgnoresStaleTicks(t *testing.T) {
	game := &stubGame{}
	m, err := NewModel(game, core.RuntimeConfig{ScreenW: 40, ScreenH: 12, TickRate: 60}, Options{})
	if err != nil {
		t.Fatalf("NewModel: %v", err)
	}
	update(t, m, TickMsg{Time: time.Now(), Loop: m.loop + 1000})
	if game.frames != 0 {
		t.Errorf("stale tick advanced the game")
	}
}

func TestModelSavesRunOnce(t *testing.T) {
	store, err := storage.Open(filepath.Join(t.TempDir(), "scores.db"))
	if err != nil {
		t.Fatalf("storage.Open: %v", err)
	}
	defer store.Close()

	game := &stubGame{}
	m, err := NewModel(game, core.RuntimeConfig{ScreenW: 40, ScreenH: 12, TickRate: 60}, Options{Store: store})
	if err != nil {
		t.Fatalf("NewModel: %v", err)
	}

	game.state = core.GameState{Score: 321, GameOver: true}
	m = update(t, m, tick(m))
	m = update(t, m, tick(m))

	runs, err := store.RecentRuns("normal")
	if err != nil {
		t.Fatalf("RecentRuns: %v", err)
	}
	if len(runs) != 1 || runs[0].Score != 321 {
		t.Fatalf("runs = %+v, want one run of 321", runs)
	}

	// A restarted run that ends again is saved again.
	game.state = core.GameState{Score: 10}
	m = update(t, m, tick(m))
	game.state = core.GameState{Score: 400, GameOver: true}
	update(t, m, tick(m))

	high, _ := store.HighScore("normal")
	if high != 400 {
		t.Errorf("high score = %d, want 400", high)
	}
}

func TestModelSkipsPracticeRun(t *testing.T) {
	store, err := storage.Open(filepath.Join(t.TempDir(), "scores.db"))
	if err != nil {
		t.Fatalf("storage.Open: %v", err)
	}
	defer store.Close()

	game := &stubGame{daily: true}
	cfg := core.RuntimeConfig{ScreenW: 40, ScreenH: 12, TickRate: 60, Seed: 7, HasSeed: true}
	m, err := NewModel(game, cfg, Options{Store: store})
	if err != nil {
		t.Fatalf("NewModel: %v", err)
	}

	game.state = core.GameState{Score: 900, GameOver: true}
	update(t, m, tick(m))

	high, _ := store.HighScore("daily")
	if high != 0 {
		t.Errorf("daily high score = %d, want 0", high)
	}
}

func TestModelBackToMenu(t *testing.T) {
	game := &stubGame{}
	m, err := NewModel(game, core.RuntimeConfig{ScreenW: 40, ScreenH: 12, TickRate: 60}, Options{Embedded: true})
	if err != nil {
		t.Fatalf("NewModel: %v", err)
	}

	m = update(t, m, keyMsg("b"))
	if m.BackToMenu() {
		t.Fatal("back must be ignored while running")
	}

	game.state = core.GameState{GameOver: true}
	m = update(t, m, tick(m))
	m = update(t, m, keyMsg("b"))
	if !m.BackToMenu() || m.IsQuitting() {
		t.Errorf("BackToMenu=%v IsQuitting=%v", m.BackToMenu(), m.IsQuitting())
	}
}

func TestModelRecordsTimeline(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.replay")
	game := &stubGame{}
	m, err := NewModel(game, core.RuntimeConfig{ScreenW: 40, ScreenH: 12, TickRate: 60}, Options{RecordPath: path, Preset: "hard"})
	if err != nil {
		t.Fatalf("NewModel: %v", err)
	}
	if game.resets != 2 {
		t.Errorf("resets = %d, want 2 (seed pinned for recording)", game.resets)
	}

	m = update(t, m, keyMsg("d"))
	m = update(t, m, tick(m))
	m = update(t, m, tick(m))
	m = update(t, m, keyMsg("q"))
	if !m.IsQuitting() {
		t.Fatal("q should quit")
	}

	rec, err := replay.Load(path)
	if err != nil {
		t.Fatalf("replay.Load: %v", err)
	}
	if rec.Seed != 99 || rec.Preset != "hard" {
		t.Errorf("header = seed %d preset %q", rec.Seed, rec.Preset)
	}
	if len(rec.Frames) != 2 || rec.ActionCount() != 1 {
		t.Errorf("frames = %d actions = %d", len(rec.Frames), rec.ActionCount())
	}
}

func TestModelRecordingKeepsSeedZero(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.replay")
	game := &stubGame{}
	cfg := core.RuntimeConfig{ScreenW: 40, ScreenH: 12, TickRate: 60, Seed: 0, HasSeed: true}
	m, err := NewModel(game, cfg, Options{RecordPath: path})
	if err != nil {
		t.Fatalf("NewModel: %v", err)
	}
	if game.resets != 1 || game.seed != 0 {
		t.Errorf("resets = %d seed = %d, want 1 and 0", game.resets, game.seed)
	}

	m = update(t, m, tick(m))
	update(t, m, keyMsg("q"))
	rec, err := replay.Load(path)
	if err != nil {
		t.Fatalf("replay.Load: %v", err)
	}
	if rec.Seed != 0 {
		t.Errorf("recorded seed = %d, want 0", rec.Seed)
	}
}

func TestModelDebugOverlay(t *testing.T) {
	game := &stubGame{}
	m, err := NewModel(game, core.RuntimeConfig{ScreenW: 80, ScreenH: 12, TickRate: 60}, Options{})
	if err != nil {
		t.Fatalf("NewModel: %v", err)
	}
	if strings.Contains(m.View(), "fps") {
		t.Fatal("overlay shown before toggle")
	}
	m = update(t, m, keyMsg("tab"))
	m = update(t, m, tick(m))
	if !strings.Contains(m.View(), "seed 99") {
		t.Errorf("overlay missing from view:\n%s", m.View())
	}
}

func TestRenderScreenPlainText(t *testing.T) {
	s := core.NewScreen(5, 2)
	s.DrawText(0, 0, "ab")
	s.SetColored(3, 1, 'x', core.ColorRed)
	out := RenderScreen(s)
	if !strings.Contains(out, "ab") || !strings.Contains(out, "x") {
		t.Errorf("RenderScreen lost text: %q", out)
	}
	if strings.Count(out, "\n") != 1 {
		t.Errorf("RenderScreen rows = %d, want 2", strings.Count(out, "\n")+1)
	}
}

func TestCenterText(t *testing.T) {
	if got := centerText("ab", 6); got != "  ab" {
		t.Errorf("centerText = %q", got)
	}
	if got := centerText("abcdef", 3); got != "abcdef" {
		t.Errorf("centerText overflow = %q", got)
	}
}
