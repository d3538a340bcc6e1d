package engine

import (
	"github.com/vovakirdan/skyline-sprint/internal/config"
	"github.com/vovakirdan/skyline-sprint/internal/core"
)

// ObstacleType is the closed set of hazards. The order is the order of the
// weight tables, so it must not change.
type ObstacleType int

const (
	Block ObstacleType = iota
	Gap
	SlowRoller
	OverheadBeam
	MovingDrone
	ZigzagGate

	obstacleTypeCount
)

var obstacleTypeNames = [obstacleTypeCount]string{
	"block", "gap", "slow_roller", "overhead_beam", "moving_drone", "zigzag_gate",
}

func (t ObstacleType) String() string {
	if t < 0 || t >= obstacleTypeCount {
		return "unknown"
	}
	return obstacleTypeNames[t]
}

// MarshalText encodes the type by name in snapshots.
func (t ObstacleType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// IsMandatory reports hazards that cannot be avoided by a lane switch alone.
func (t ObstacleType) IsMandatory() bool {
	return t == Block || t == Gap
}

// IsAdvanced reports hazards that need a sequence of precise reactions.
func (t ObstacleType) IsAdvanced() bool {
	return t == MovingDrone || t == ZigzagGate
}

// IsRelief reports the types allowed during safe start and used when a draw
// has to be demoted.
func (t ObstacleType) IsRelief() bool {
	return !t.IsMandatory() && !t.IsAdvanced()
}

// Obstacle is a live hazard on the track. Position is the distance ahead of
// the player; it decreases as the world scrolls.
type Obstacle struct {
	ID        uint64       `json:"id"`
	Type      ObstacleType `json:"type"`
	Lane      int          `json:"lane"`
	Position  float64      `json:"position"`
	Depth     float64      `json:"depth"`
	Box       core.Box     `json:"box"`
	SpawnedAt float64      `json:"spawned_at"`
}

// shapeBox applies the forgiving margin to a shape centered on a lane. The
// half width shrinks and the hazard edge moves inward: the top for ground
// hazards, the bottom for overhead ones.
func shapeBox(shape config.Shape, center, margin float64) core.Box {
	half := shape.HalfWidth - margin
	box := core.Box{
		Left:   center - half,
		Right:  center + half,
		Bottom: shape.Bottom,
		Top:    shape.Top,
	}
	if shape.Overhead {
		box.Bottom += margin
	} else {
		box.Top -= margin
	}
	return box
}
