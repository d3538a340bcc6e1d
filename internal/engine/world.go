package engine

import (
	"math"

	"github.com/vovakirdan/skyline-sprint/internal/config"
)

// LaneCount is the number of lanes on the track.
const LaneCount = 3

// WorldView is the read-only capability the player, spawner and scorer need.
type WorldView interface {
	Speed() float64
	Elapsed() float64
	LaneCenter(index int) float64
	IsVisible(position float64) bool
}

// World tracks elapsed simulation time and the forward speed ramp.
type World struct {
	cfg     config.WorldConfig
	elapsed float64
	speed   float64
}

// NewWorld creates a world at elapsed time 0 and base speed.
func NewWorld(cfg config.WorldConfig) *World {
	return &World{cfg: cfg, speed: cfg.BaseSpeed}
}

// Update advances elapsed time and recomputes the speed.
func (w *World) Update(step float64) {
	w.elapsed += step
	w.speed = math.Min(w.cfg.BaseSpeed+w.elapsed*w.cfg.RampPerSecond, w.cfg.MaxSpeed)
}

func (w *World) Speed() float64 { return w.speed }
func (w *World) Elapsed() float64 { return w.elapsed }

// LaneCenter returns the lateral offset of a lane, clamping the index.
func (w *World) LaneCenter(index int) float64 {
	if index < 0 {
		index = 0
	}
	if index >= len(w.cfg.Lanes) {
		index = len(w.cfg.Lanes) - 1
	}
	return w.cfg.Lanes[index]
}

// IsVisible reports whether a track position is inside the visible range.
func (w *World) IsVisible(position float64) bool {
	return position >= w.cfg.VisibleNear && position <= w.cfg.VisibleFar
}

// Reset returns the world to its initial state.
func (w *World) Reset() {
	w.elapsed = 0
	w.speed = w.cfg.BaseSpeed
}

// slowedWorld scales scroll speed while slow-time is active.
type slowedWorld struct {
	WorldView
	factor float64
}

func (s slowedWorld) Speed() float64 {
	return s.WorldView.Speed() * s.factor
}

// Slowed wraps w so that Speed is multiplied by factor.
func Slowed(w WorldView, factor float64) WorldView {
	if factor == 1 {
		return w
	}
	return slowedWorld{WorldView: w, factor: factor}
}
