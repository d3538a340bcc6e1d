// Package config provides YAML-based balance configuration for the runner:
// embedded defaults, a file search path, difficulty presets and validation.
package config

import (
	"errors"
	"fmt"
)

// ErrInvalidConfig is wrapped by every validation failure.
var ErrInvalidConfig = errors.New("config: invalid runner config")

// RunnerConfig contains all tuning for one run. Durations are in seconds,
// distances in world units.
type RunnerConfig struct {
	Clock    ClockConfig   `yaml:"clock"`
	World    WorldConfig   `yaml:"world"`
	Player   PlayerConfig  `yaml:"player"`
	Input    InputConfig   `yaml:"input"`
	Spawner  SpawnerConfig `yaml:"spawner"`
	Shapes   ShapeTable    `yaml:"obstacles"`
	Pickups  PickupConfig  `yaml:"pickups"`
	Scoring  ScoringConfig `yaml:"scoring"`
	PowerUps PowerUpConfig `yaml:"power_ups"`
	Lives    int           `yaml:"lives"`
}

// ClockConfig defines the fixed-step accumulator.
type ClockConfig struct {
	StepHz           int     `yaml:"step_hz"`
	MaxStepsPerFrame int     `yaml:"max_steps_per_frame"`
	MaxFrameDelta    float64 `yaml:"max_frame_delta"` // deltas above this are treated as anomalies
	MaxAccumulate    float64 `yaml:"max_accumulate"`  // cap on time added per frame
}

// Step returns the fixed step size in seconds.
func (c ClockConfig) Step() float64 {
	return 1.0 / float64(c.StepHz)
}

// WorldConfig defines the speed ramp and lane geometry.
type WorldConfig struct {
	BaseSpeed     float64   `yaml:"base_speed"`
	MaxSpeed      float64   `yaml:"max_speed"`
	RampPerSecond float64   `yaml:"ramp_per_second"`
	Lanes         []float64 `yaml:"lanes"`
	VisibleNear   float64   `yaml:"visible_near"` // behind the player (negative)
	VisibleFar    float64   `yaml:"visible_far"`
}

// PlayerConfig defines player kinematics and hitbox sizes.
type PlayerConfig struct {
	JumpHeight           float64 `yaml:"jump_height"`
	ApexTime             float64 `yaml:"apex_time"`
	SlideDuration        float64 `yaml:"slide_duration"`
	SlideHeightReduction float64 `yaml:"slide_height_reduction"`
	LaneSwitchDuration   float64 `yaml:"lane_switch_duration"`
	HitInvulnerability   float64 `yaml:"hit_invulnerability"`
	StartInvulnerability float64 `yaml:"start_invulnerability"`
	Width                float64 `yaml:"width"`
	Height               float64 `yaml:"height"`
	SlideWidth           float64 `yaml:"slide_width"`
	Depth                float64 `yaml:"depth"` // half extent along the track
}

// Gravity returns the gravity that makes JumpHeight peak at ApexTime.
func (p PlayerConfig) Gravity() float64 {
	return 2 * p.JumpHeight / (p.ApexTime * p.ApexTime)
}

// SlideHeight returns the hitbox height while sliding.
func (p PlayerConfig) SlideHeight() float64 {
	return p.Height * (1 - p.SlideHeightReduction)
}

// InputConfig defines rate limits for host actions.
type InputConfig struct {
	MinLaneInterval float64 `yaml:"min_lane_interval"`
	SlideCooldown   float64 `yaml:"slide_cooldown"`
}

// SpawnerConfig defines spawn cadence and fairness windows.
type SpawnerConfig struct {
	Interval             float64 `yaml:"interval"`  // distance between spawns
	Lookahead            float64 `yaml:"lookahead"` // spawn position ahead of the player
	CullMargin           float64 `yaml:"cull_margin"`
	SafeStart            float64 `yaml:"safe_start"`
	SafeLaneWindow       float64 `yaml:"safe_lane_window"`
	MaxAttempts          int     `yaml:"max_attempts"`
	HistorySize          int     `yaml:"history_size"`
	MandatorySpacing     float64 `yaml:"mandatory_spacing"`
	MandatorySpacingFast float64 `yaml:"mandatory_spacing_fast"`
	FastSpeed            float64 `yaml:"fast_speed"`
	CompoundWindow       float64 `yaml:"compound_window"`
	AdvancedBreather     float64 `yaml:"advanced_breather"`
	Margin               float64 `yaml:"margin"` // forgiving inset on hazard edges
	Phases               []Phase `yaml:"phases"`
}

// Phase is a spawn weight table active from Start seconds onward.
type Phase struct {
	Start   float64 `yaml:"start"`
	Weights Weights `yaml:"weights"`
}

// Weights holds relative spawn weights per obstacle type.
type Weights struct {
	Block        int `yaml:"block"`
	Gap          int `yaml:"gap"`
	SlowRoller   int `yaml:"slow_roller"`
	OverheadBeam int `yaml:"overhead_beam"`
	MovingDrone  int `yaml:"moving_drone"`
	ZigzagGate   int `yaml:"zigzag_gate"`
}

// Slice returns the weights in obstacle type order.
func (w Weights) Slice() []int {
	return []int{w.Block, w.Gap, w.SlowRoller, w.OverheadBeam, w.MovingDrone, w.ZigzagGate}
}

// Shape is the hitbox of an obstacle type relative to its lane center.
type Shape struct {
	HalfWidth float64 `yaml:"half_width"`
	Bottom    float64 `yaml:"bottom"`
	Top       float64 `yaml:"top"`
	Depth     float64 `yaml:"depth"`
	Overhead  bool    `yaml:"overhead"` // hazard edge is the bottom
}

// ShapeTable holds one shape per obstacle type.
type ShapeTable struct {
	Block        Shape `yaml:"block"`
	Gap          Shape `yaml:"gap"`
	SlowRoller   Shape `yaml:"slow_roller"`
	OverheadBeam Shape `yaml:"overhead_beam"`
	MovingDrone  Shape `yaml:"moving_drone"`
	ZigzagGate   Shape `yaml:"zigzag_gate"`
}

// Slice returns the shapes in obstacle type order.
func (t ShapeTable) Slice() []Shape {
	return []Shape{t.Block, t.Gap, t.SlowRoller, t.OverheadBeam, t.MovingDrone, t.ZigzagGate}
}

// PickupConfig defines shard and power-up spawning.
type PickupConfig struct {
	Interval       float64 `yaml:"interval"`
	PowerUpSpacing float64 `yaml:"power_up_spacing"`
	PowerUpChance  float64 `yaml:"power_up_chance"`
	ShardChance    float64 `yaml:"shard_chance"`
	Shape          Shape   `yaml:"shape"`
}

// ScoringConfig defines score accretion and the combo multiplier.
type ScoringConfig struct {
	DistanceRate      float64   `yaml:"distance_rate"` // points per unit travelled
	ShardValue        int       `yaml:"shard_value"`
	PerfectDodgeValue int       `yaml:"perfect_dodge_value"`
	PerfectClearance  float64   `yaml:"perfect_clearance"`
	Thresholds        []float64 `yaml:"multiplier_thresholds"`
	DecayPerSecond    float64   `yaml:"decay_per_second"`
	IdleGrace         float64   `yaml:"idle_grace"`
	HitPenalty        float64   `yaml:"hit_penalty"`
}

// PowerUpConfig defines power-up durations and strengths.
type PowerUpConfig struct {
	ShieldDuration      float64 `yaml:"shield_duration"`
	MagnetDuration      float64 `yaml:"magnet_duration"`
	MagnetRadius        float64 `yaml:"magnet_radius"`
	SlowTimeDuration    float64 `yaml:"slow_time_duration"`
	SlowTimeFactor      float64 `yaml:"slow_time_factor"`
	ScoreRushDuration   float64 `yaml:"score_rush_duration"`
	ScoreRushMultiplier float64 `yaml:"score_rush_multiplier"`
}

// Validate checks invariants the simulation relies on.
func (c RunnerConfig) Validate() error {
	switch {
	case c.Clock.StepHz <= 0:
		return fmt.Errorf("%w: clock.step_hz must be positive", ErrInvalidConfig)
	case c.Clock.MaxStepsPerFrame <= 0:
		return fmt.Errorf("%w: clock.max_steps_per_frame must be positive", ErrInvalidConfig)
	case c.Clock.MaxFrameDelta <= 0 || c.Clock.MaxAccumulate <= 0:
		return fmt.Errorf("%w: clock deltas must be positive", ErrInvalidConfig)
	case c.World.BaseSpeed <= 0 || c.World.MaxSpeed < c.World.BaseSpeed:
		return fmt.Errorf("%w: world speeds must satisfy 0 < base_speed <= max_speed", ErrInvalidConfig)
	case c.World.RampPerSecond < 0:
		return fmt.Errorf("%w: world.ramp_per_second must not be negative", ErrInvalidConfig)
	case len(c.World.Lanes) != 3:
		return fmt.Errorf("%w: world.lanes must list exactly 3 offsets, got %d", ErrInvalidConfig, len(c.World.Lanes))
	case c.World.VisibleNear >= 0 || c.World.VisibleFar <= 0:
		return fmt.Errorf("%w: visible range must straddle the player", ErrInvalidConfig)
	case c.Player.JumpHeight <= 0 || c.Player.ApexTime <= 0:
		return fmt.Errorf("%w: player jump must have positive height and apex time", ErrInvalidConfig)
	case c.Player.SlideHeightReduction < 0 || c.Player.SlideHeightReduction >= 1:
		return fmt.Errorf("%w: player.slide_height_reduction must be in [0, 1)", ErrInvalidConfig)
	case c.Player.LaneSwitchDuration <= 0:
		return fmt.Errorf("%w: player.lane_switch_duration must be positive", ErrInvalidConfig)
	case c.Spawner.Interval <= 0:
		return fmt.Errorf("%w: spawner.interval must be positive", ErrInvalidConfig)
	case c.Spawner.Lookahead > c.World.VisibleFar:
		return fmt.Errorf("%w: spawner.lookahead beyond visible range", ErrInvalidConfig)
	case c.Spawner.MaxAttempts <= 0 || c.Spawner.HistorySize <= 0:
		return fmt.Errorf("%w: spawner attempts and history size must be positive", ErrInvalidConfig)
	case len(c.Spawner.Phases) == 0 || c.Spawner.Phases[0].Start != 0:
		return fmt.Errorf("%w: spawner.phases must start at 0", ErrInvalidConfig)
	case c.Pickups.Interval <= 0:
		return fmt.Errorf("%w: pickups.interval must be positive", ErrInvalidConfig)
	case c.Lives <= 0:
		return fmt.Errorf("%w: lives must be positive", ErrInvalidConfig)
	}

	for i := 1; i < len(c.Spawner.Phases); i++ {
		if c.Spawner.Phases[i].Start <= c.Spawner.Phases[i-1].Start {
			return fmt.Errorf("%w: spawner.phases[%d] starts before the previous phase", ErrInvalidConfig, i)
		}
	}
	for i, p := range c.Spawner.Phases {
		total := 0
		for _, w := range p.Weights.Slice() {
			if w < 0 {
				return fmt.Errorf("%w: spawner.phases[%d] has a negative weight", ErrInvalidConfig, i)
			}
			total += w
		}
		if total == 0 {
			return fmt.Errorf("%w: spawner.phases[%d] has no weight", ErrInvalidConfig, i)
		}
	}
	for i := 1; i < len(c.Scoring.Thresholds); i++ {
		if c.Scoring.Thresholds[i] <= c.Scoring.Thresholds[i-1] {
			return fmt.Errorf("%w: scoring.multiplier_thresholds must increase", ErrInvalidConfig)
		}
	}
	return nil
}
