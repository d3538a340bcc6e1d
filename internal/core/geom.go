// Package core provides the host-facing types shared by the simulation and its
// front ends: action codes, timed input frames, geometry and the terminal
// screen buffer. It has no external dependencies so the simulation stays pure
// and testable.
package core

// Box is an axis-aligned bounding box in world units.
// X grows to the right across the lanes, Y grows upward from the ground.
type Box struct {
	Left, Right float64
	Bottom, Top float64
}

// NewBox creates a box centered horizontally on cx and resting on bottom.
func NewBox(cx, bottom, width, height float64) Box {
	return Box{
		Left:   cx - width/2,
		Right:  cx + width/2,
		Bottom: bottom,
		Top:    bottom + height,
	}
}

// Width returns the horizontal extent.
func (b Box) Width() float64 {
	return b.Right - b.Left
}

// Height returns the vertical extent.
func (b Box) Height() float64 {
	return b.Top - b.Bottom
}

// CenterX returns the horizontal center.
func (b Box) CenterX() float64 {
	return (b.Left + b.Right) / 2
}

// Intersects returns true if this box overlaps another.
// Touching edges do not count as an overlap.
func (b Box) Intersects(other Box) bool {
	if b.Left >= other.Right || other.Left >= b.Right {
		return false
	}
	if b.Bottom >= other.Top || other.Bottom >= b.Top {
		return false
	}
	return true
}

// OverlapsX reports whether the horizontal spans overlap.
func (b Box) OverlapsX(other Box) bool {
	return b.Left < other.Right && other.Left < b.Right
}

// VerticalGap returns the clearance between two boxes that do not overlap
// vertically, or 0 when they do.
func (b Box) VerticalGap(other Box) float64 {
	if b.Bottom >= other.Top {
		return b.Bottom - other.Top
	}
	if other.Bottom >= b.Top {
		return other.Bottom - b.Top
	}
	return 0
}

// Clamp restricts a value to be within [min, max].
func Clamp(val, min, max int) int {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}

// ClampF restricts a float64 value to be within [min, max].
func ClampF(val, min, max float64) float64 {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}

// Max returns the larger of two integers.
func Max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
