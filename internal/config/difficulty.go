package config

import "fmt"

// DifficultyPreset represents a named difficulty level.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
	DifficultyFixed  DifficultyPreset = "fixed"
)

// ParsePreset converts a flag value into a preset. Empty means normal.
func ParsePreset(s string) (DifficultyPreset, error) {
	switch p := DifficultyPreset(s); p {
	case "":
		return DifficultyNormal, nil
	case DifficultyEasy, DifficultyNormal, DifficultyHard, DifficultyFixed:
		return p, nil
	default:
		return "", fmt.Errorf("config: unknown difficulty %q (want easy, normal, hard or fixed)", s)
	}
}

// ApplyPreset modifies the config based on a difficulty preset.
// Daily runs skip presets so every player gets the same balance.
func ApplyPreset(cfg *RunnerConfig, preset DifficultyPreset) {
	switch preset {
	case DifficultyEasy:
		cfg.World.BaseSpeed = 4.5
		cfg.World.RampPerSecond = 0.01
		cfg.Lives = 3
	case DifficultyHard:
		cfg.World.BaseSpeed = 6.5
		cfg.World.RampPerSecond = 0.02
		cfg.Player.StartInvulnerability = 1.0
	case DifficultyFixed:
		// constant speed, no ramp
		cfg.World.RampPerSecond = 0
	}
}

// PhaseIndex returns the index of the last phase whose start is <= elapsed.
func PhaseIndex(phases []Phase, elapsed float64) int {
	idx := 0
	for i, p := range phases {
		if elapsed >= p.Start {
			idx = i
		}
	}
	return idx
}

// PhaseAt returns the spawn weights active at elapsed seconds.
func (c SpawnerConfig) PhaseAt(elapsed float64) Weights {
	if len(c.Phases) == 0 {
		return Weights{}
	}
	return c.Phases[PhaseIndex(c.Phases, elapsed)].Weights
}
