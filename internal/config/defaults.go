package config

import (
	"embed"
	"fmt"
)

//go:embed defaults/*.yaml
var defaultFS embed.FS

// DefaultFileName is the embedded and on-disk name of the balance file.
const DefaultFileName = "runner.yaml"

// loadEmbedded parses the embedded default balance file on top of cfg.
func loadEmbedded(cfg *RunnerConfig) error {
	data, err := defaultFS.ReadFile("defaults/" + DefaultFileName)
	if err != nil {
		return fmt.Errorf("config: cannot read embedded defaults: %w", err)
	}
	return decode(data, cfg)
}

// DailyRunnerConfig returns the shipped balance, ignoring user and working
// directory overrides, so every player of a daily seed faces the same run.
func DailyRunnerConfig() RunnerConfig {
	cfg := DefaultRunnerConfig()
	if err := loadEmbedded(&cfg); err != nil {
		return DefaultRunnerConfig()
	}
	return cfg
}

// DefaultRunnerConfig returns the hardcoded balance. It matches the embedded
// runner.yaml and is the last fallback of Load.
func DefaultRunnerConfig() RunnerConfig {
	return RunnerConfig{
		Clock: ClockConfig{
			StepHz:           60,
			MaxStepsPerFrame: 5,
			MaxFrameDelta:    1.0,
			MaxAccumulate:    0.2,
		},
		World: WorldConfig{
			BaseSpeed:     5.0,
			MaxSpeed:      14.0,
			RampPerSecond: 0.0125,
			Lanes:         []float64{-2.4, 0, 2.4},
			VisibleNear:   -4.0,
			VisibleFar:    70.0,
		},
		Player: PlayerConfig{
			JumpHeight:           3.8,
			ApexTime:             0.48,
			SlideDuration:        0.62,
			SlideHeightReduction: 0.35,
			LaneSwitchDuration:   0.1,
			HitInvulnerability:   0.72,
			StartInvulnerability: 1.5,
			Width:                0.6,
			Height:               1.0,
			SlideWidth:           0.8,
			Depth:                0.3,
		},
		Input: InputConfig{
			MinLaneInterval: 0.12,
			SlideCooldown:   0.3,
		},
		Spawner: SpawnerConfig{
			Interval:             6.0,
			Lookahead:            60.0,
			CullMargin:           2.0,
			SafeStart:            2.0,
			SafeLaneWindow:       1.0,
			MaxAttempts:          6,
			HistorySize:          16,
			MandatorySpacing:     1.1,
			MandatorySpacingFast: 0.9,
			FastSpeed:            9.0,
			CompoundWindow:       0.2,
			AdvancedBreather:     3.0,
			Margin:               0.08,
			Phases: []Phase{
				{Start: 0, Weights: Weights{Block: 5, Gap: 2, SlowRoller: 2, OverheadBeam: 1}},
				{Start: 20, Weights: Weights{Block: 3, Gap: 3, SlowRoller: 2, OverheadBeam: 1, MovingDrone: 1}},
				{Start: 60, Weights: Weights{Block: 2, Gap: 3, SlowRoller: 2, OverheadBeam: 1, MovingDrone: 1, ZigzagGate: 1}},
				{Start: 120, Weights: Weights{Block: 1, Gap: 3, SlowRoller: 1, OverheadBeam: 1, MovingDrone: 2, ZigzagGate: 2}},
			},
		},
		Shapes: ShapeTable{
			Block:        Shape{HalfWidth: 0.3, Bottom: 0, Top: 1.5, Depth: 0.4},
			Gap:          Shape{HalfWidth: 0.45, Bottom: -2.0, Top: 0.25, Depth: 0.6},
			SlowRoller:   Shape{HalfWidth: 0.35, Bottom: 0, Top: 1.2, Depth: 0.5},
			OverheadBeam: Shape{HalfWidth: 0.4, Bottom: 0.8, Top: 2.0, Depth: 0.3, Overhead: true},
			MovingDrone:  Shape{HalfWidth: 0.45, Bottom: 0.3, Top: 1.3, Depth: 0.4},
			ZigzagGate:   Shape{HalfWidth: 0.5, Bottom: 0, Top: 1.8, Depth: 0.5},
		},
		Pickups: PickupConfig{
			Interval:       4.5,
			PowerUpSpacing: 6.0,
			PowerUpChance:  0.25,
			ShardChance:    0.6,
			Shape:          Shape{HalfWidth: 0.3, Bottom: 0.3, Top: 0.9, Depth: 0.4},
		},
		Scoring: ScoringConfig{
			DistanceRate:      10,
			ShardValue:        15,
			PerfectDodgeValue: 8,
			PerfectClearance:  0.5,
			Thresholds:        []float64{200, 500, 900, 1400},
			DecayPerSecond:    1000.0 / 180.0,
			IdleGrace:         1.5,
			HitPenalty:        150,
		},
		PowerUps: PowerUpConfig{
			ShieldDuration:      8.0,
			MagnetDuration:      10.0,
			MagnetRadius:        3.5,
			SlowTimeDuration:    2.8,
			SlowTimeFactor:      0.65,
			ScoreRushDuration:   7.0,
			ScoreRushMultiplier: 2.2,
		},
		Lives: 1,
	}
}
