package engine

import (
	"github.com/vovakirdan/skyline-sprint/internal/config"
	"github.com/vovakirdan/skyline-sprint/internal/core"
)

// InputManager rate-limits host actions. Every decision depends only on the
// timestamps passed in, so a scripted timeline always yields the same result.
type InputManager struct {
	cfg config.InputConfig

	lastLane  float64
	hasLane   bool
	lastSlide float64
	hasSlide  bool
	queued    core.Action
}

// NewInputManager creates an input manager.
func NewInputManager(cfg config.InputConfig) *InputManager {
	return &InputManager{cfg: cfg}
}

// Handle returns the actions accepted at time at (seconds).
func (m *InputManager) Handle(a core.Action, at float64) []core.Action {
	switch a {
	case core.ActionLaneLeft, core.ActionLaneRight:
		if m.hasLane && at-m.lastLane < m.cfg.MinLaneInterval {
			// only the most recent rejected switch is kept
			m.queued = a
			return nil
		}
		m.lastLane = at
		m.hasLane = true
		m.queued = core.ActionNone
		return []core.Action{a}
	case core.ActionSlide:
		if m.hasSlide && at-m.lastSlide < m.cfg.SlideCooldown {
			return nil
		}
		m.lastSlide = at
		m.hasSlide = true
		return []core.Action{a}
	case core.ActionJump, core.ActionPause, core.ActionRestart, core.ActionQuit:
		return []core.Action{a}
	default:
		return nil
	}
}

// Poll releases the queued lane switch once the interval has elapsed.
func (m *InputManager) Poll(now float64) []core.Action {
	if m.queued == core.ActionNone || now-m.lastLane < m.cfg.MinLaneInterval {
		return nil
	}
	a := m.queued
	m.queued = core.ActionNone
	m.lastLane = now
	return []core.Action{a}
}

// Pending returns the queued lane switch, or ActionNone.
func (m *InputManager) Pending() core.Action {
	return m.queued
}

// Reset forgets all timestamps and the queued switch.
func (m *InputManager) Reset() {
	*m = InputManager{cfg: m.cfg}
}
