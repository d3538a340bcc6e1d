// Package engine is the deterministic simulation core of the runner: a
// fixed-step clock, the speed ramp, player kinematics, fair seeded obstacle
// spawning, collision, score and power-up timers.
//
// The engine is single-threaded. Hosts own the goroutines and call Input and
// Frame from one of them. Within a tick the order is always World, Player,
// Spawner, Scorer, so a run is fully determined by its seed, its input
// timeline and the frame times it was fed.
package engine

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/skyline-sprint/internal/config"
	"github.com/vovakirdan/skyline-sprint/internal/core"
)

// ErrNotInitialized is returned when a tick is requested from an Engine that
// was not built by New.
var ErrNotInitialized = errors.New("engine: not initialized")

// Options configure a run.
type Options struct {
	Daily    bool
	Seed     *uint32 // explicit seed; wins over daily and generated seeds
	Now      func() time.Time
	Logger   *log.Logger
	Recorder Recorder
}

// Frame reports what one host frame did.
type Frame struct {
	Steps    int
	Dropped  bool
	Events   []Event
	Snapshot Snapshot
}

// Engine owns every subsystem of one run.
type Engine struct {
	cfg    config.RunnerConfig
	opts   Options
	logger *log.Logger
	rec    Recorder

	mode Mode
	seed uint32

	clock   *Clock
	world   *World
	input   *InputManager
	player  *Player
	spawner *Spawner
	scorer  *Scorer

	scene   Scene
	pending []core.Action
	events  []Event
	tick    uint64
	hostNow float64
	ready   bool
}

// New validates cfg and builds an engine in the loading scene.
func New(cfg config.RunnerConfig, opts Options) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("engine: %w", err)
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	if opts.Recorder == nil {
		opts.Recorder = nopRecorder{}
	}

	e := &Engine{
		cfg:    cfg,
		opts:   opts,
		logger: opts.Logger,
		rec:    opts.Recorder,
		mode:   ModeNormal,
		clock:  NewClock(cfg.Clock),
		world:  NewWorld(cfg.World),
		input:  NewInputManager(cfg.Input),
		player: NewPlayer(cfg.Player, cfg.World.Lanes),
		scorer: NewScorer(cfg),
		scene:  SceneLoading,
	}
	if opts.Daily {
		e.mode = ModeDaily
	}

	seed, source := ResolveSeed(opts.Daily, opts.Seed, opts.Now())
	e.seed = seed
	e.spawner = NewSpawner(cfg, seed)
	e.ready = true

	e.logger.Debug("engine created", "mode", e.mode, "seed", seed, "source", source)
	return e, nil
}

// Start leaves the loading scene.
func (e *Engine) Start() {
	if e.scene == SceneLoading {
		e.scene = ScenePlay
	}
}

// Input feeds a host action that arrived at host time at. Gameplay actions are
// dropped unless the run is playing; accepted ones apply at the start of the
// next tick.
func (e *Engine) Input(a core.Action, at time.Duration) {
	if e == nil || !e.ready {
		return
	}
	if isGameplay(a) && e.scene != ScenePlay {
		return
	}
	for _, accepted := range e.input.Handle(a, at.Seconds()) {
		switch accepted {
		case core.ActionPause:
			if e.scene == ScenePlay {
				e.Pause()
			} else if e.scene == ScenePause {
				e.Resume(at)
			}
		case core.ActionRestart:
			if e.scene == SceneGameOver {
				e.Restart()
			}
		case core.ActionQuit:
			// handled by the host
		default:
			e.pending = append(e.pending, accepted)
		}
	}
}

func isGameplay(a core.Action) bool {
	switch a {
	case core.ActionLaneLeft, core.ActionLaneRight, core.ActionJump, core.ActionSlide:
		return true
	}
	return false
}

// Frame advances the simulation to host time now.
func (e *Engine) Frame(now time.Duration) (Frame, error) {
	if e == nil || !e.ready {
		return Frame{}, ErrNotInitialized
	}
	e.hostNow = now.Seconds()
	e.pollInput()
	e.events = e.events[:0]
	steps, dropped := e.clock.Tick(e.hostNow, e.step)
	return e.finishFrame(steps, dropped), nil
}

// Advance advances the simulation by a host-measured delta.
func (e *Engine) Advance(delta time.Duration) (Frame, error) {
	if e == nil || !e.ready {
		return Frame{}, ErrNotInitialized
	}
	if !e.clock.Stopped() {
		e.hostNow += delta.Seconds()
	}
	e.pollInput()
	e.events = e.events[:0]
	steps, dropped := e.clock.Advance(delta.Seconds(), e.step)
	return e.finishFrame(steps, dropped), nil
}

// Update runs exactly one tick of step seconds, bypassing the clock.
func (e *Engine) Update(step float64) error {
	if e == nil || !e.ready {
		return ErrNotInitialized
	}
	e.step(step)
	return nil
}

func (e *Engine) pollInput() {
	if e.scene != ScenePlay {
		return
	}
	e.pending = append(e.pending, e.input.Poll(e.hostNow)...)
}

func (e *Engine) finishFrame(steps int, dropped bool) Frame {
	if e.scene == ScenePlay || steps > 0 {
		e.rec.ObserveFrame(steps, dropped)
	}
	events := make([]Event, len(e.events))
	copy(events, e.events)
	return Frame{Steps: steps, Dropped: dropped, Events: events, Snapshot: e.Snapshot()}
}

// step is the fixed-step update: queued actions, then World, Player, Spawner
// and Scorer.
func (e *Engine) step(dt float64) {
	if e.scene != ScenePlay {
		return
	}

	for _, a := range e.pending {
		switch a {
		case core.ActionLaneLeft:
			e.player.SwitchLane(-1)
		case core.ActionLaneRight:
			e.player.SwitchLane(1)
		case core.ActionJump:
			e.player.Jump()
		case core.ActionSlide:
			e.player.Slide()
		}
	}
	e.pending = e.pending[:0]

	e.world.Update(dt)
	view := Slowed(e.world, e.scorer.SpeedFactor())
	e.player.Update(view, dt)

	fallbacks := e.spawner.Fallbacks()
	if o, ok := e.spawner.Update(view, dt); ok {
		e.rec.ObstacleSpawned(o.Type.String())
	}
	if e.spawner.Fallbacks() > fallbacks {
		e.rec.FairnessFallback()
		e.logger.Debug("fairness fallback", "elapsed", e.world.Elapsed(), "seed", e.seed)
	}

	events := e.scorer.Evaluate(e.player, e.spawner, view, dt)
	e.tick++
	for _, ev := range events {
		if ev.Kind == EventRunEnded {
			e.scene = SceneGameOver
			state := e.scorer.State()
			e.rec.RunEnded(string(e.mode), state.Score)
			e.logger.Info("run ended", "mode", e.mode, "seed", e.seed, "score", state.Score, "elapsed", e.world.Elapsed())
		}
	}
	e.events = append(e.events, events...)
}

// Pause stops simulated time. It is idempotent.
func (e *Engine) Pause() {
	if e.scene != ScenePlay {
		return
	}
	e.scene = ScenePause
	e.clock.Pause()
}

// Resume continues from host time now without simulating the paused gap.
func (e *Engine) Resume(now time.Duration) {
	if e.scene != ScenePause {
		return
	}
	e.scene = ScenePlay
	e.hostNow = now.Seconds()
	e.clock.Resume(e.hostNow)
}

// Restart begins a new run. Daily runs and runs with an explicit seed keep
// their seed; normal runs draw a new one.
func (e *Engine) Restart() {
	if e.mode == ModeNormal && e.opts.Seed == nil {
		e.seed, _ = ResolveSeed(false, nil, e.opts.Now())
	}
	e.clock.Reset()
	e.world.Reset()
	e.input.Reset()
	e.player.Reset()
	e.spawner.Reset(e.seed)
	e.scorer.Reset()
	e.pending = e.pending[:0]
	e.events = e.events[:0]
	e.tick = 0
	e.hostNow = 0
	e.scene = ScenePlay
	e.logger.Debug("run restarted", "mode", e.mode, "seed", e.seed)
}

// Snapshot returns a copy of the current state.
func (e *Engine) Snapshot() Snapshot {
	obstacles := e.spawner.Obstacles()
	pickups := e.spawner.Pickups()
	snap := Snapshot{
		Scene:      e.scene,
		Mode:       e.mode,
		Seed:       e.seed,
		Tick:       e.tick,
		Elapsed:    e.world.Elapsed(),
		Distance:   e.spawner.Distance(),
		Speed:      Slowed(e.world, e.scorer.SpeedFactor()).Speed(),
		Alpha:      e.clock.Alpha(),
		ScoreState: e.scorer.State(),
		PowerUps:   e.scorer.PowerUps(),
		Player: PlayerView{
			Lane:         e.player.Lane(),
			TargetLane:   e.player.TargetLane(),
			X:            e.player.X(),
			Y:            e.player.Y(),
			State:        e.player.State(),
			Switching:    e.player.Switching(),
			Invulnerable: e.player.IsInvulnerable(),
			Box:          e.player.Box(),
		},
		Obstacles: make([]Obstacle, len(obstacles)),
		Pickups:   make([]Pickup, len(pickups)),
	}
	copy(snap.Obstacles, obstacles)
	copy(snap.Pickups, pickups)
	return snap
}

// Summary describes the current run for storage.
func (e *Engine) Summary() Summary {
	state := e.scorer.State()
	return Summary{
		Mode:          e.mode,
		Seed:          e.seed,
		Score:         state.Score,
		Shards:        state.Shards,
		Elapsed:       e.world.Elapsed(),
		MaxMultiplier: state.MaxMultiplier,
		PerfectDodges: state.PerfectDodges,
		Obstacles:     e.spawner.Spawned(),
		Fallbacks:     e.spawner.Fallbacks(),
		Completed:     e.scene == SceneGameOver,
		SeedOverride:  e.opts.Seed != nil,
	}
}

func (e *Engine) Seed() uint32 { return e.seed }
func (e *Engine) Mode() Mode { return e.mode }
func (e *Engine) Scene() Scene { return e.scene }
func (e *Engine) Config() config.RunnerConfig { return e.cfg }
