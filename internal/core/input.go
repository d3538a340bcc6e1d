package core

import "time"

// Action represents a semantic game action, abstracted from physical key presses
// and touch gestures. Hosts translate their own events into these codes.
type Action int

const (
	ActionNone      Action = iota
	ActionLaneLeft         // A, Left arrow, swipe left
	ActionLaneRight        // D, Right arrow, swipe right
	ActionJump             // Space, W, Up arrow, tap
	ActionSlide            // S, Down arrow, swipe down
	ActionPause            // P, Escape
	ActionRestart          // R key - restart after game over
	ActionQuit             // Q, Ctrl+C - exit session
)

// String returns the host-facing action code.
func (a Action) String() string {
	switch a {
	case ActionNone:
		return "NONE"
	case ActionLaneLeft:
		return "LANE_LEFT"
	case ActionLaneRight:
		return "LANE_RIGHT"
	case ActionJump:
		return "JUMP"
	case ActionSlide:
		return "SLIDE"
	case ActionPause:
		return "PAUSE"
	case ActionRestart:
		return "RESTART"
	case ActionQuit:
		return "QUIT"
	default:
		return "UNKNOWN"
	}
}

// ParseAction maps a host action code to an Action.
// Unknown codes yield ActionNone and false; callers drop them.
func ParseAction(code string) (Action, bool) {
	switch code {
	case "LANE_LEFT":
		return ActionLaneLeft, true
	case "LANE_RIGHT":
		return ActionLaneRight, true
	case "JUMP":
		return ActionJump, true
	case "SLIDE":
		return ActionSlide, true
	case "PAUSE":
		return ActionPause, true
	case "RESTART":
		return ActionRestart, true
	case "QUIT":
		return ActionQuit, true
	default:
		return ActionNone, false
	}
}

// TimedAction is an action together with its arrival time on the host clock.
type TimedAction struct {
	Action Action        `msgpack:"a" json:"action"`
	At     time.Duration `msgpack:"t" json:"at"`
}

// InputFrame collects the actions that arrived during one host frame,
// in arrival order.
type InputFrame struct {
	Actions []TimedAction
}

// NewInputFrame creates an empty input frame.
func NewInputFrame() InputFrame {
	return InputFrame{Actions: make([]TimedAction, 0, 4)}
}

// Push appends an action that arrived at the given host time.
func (f *InputFrame) Push(a Action, at time.Duration) {
	if a == ActionNone {
		return
	}
	f.Actions = append(f.Actions, TimedAction{Action: a, At: at})
}

// Clear resets the frame for reuse.
func (f *InputFrame) Clear() {
	f.Actions = f.Actions[:0]
}

// Clone creates a copy of this input frame.
func (f InputFrame) Clone() InputFrame {
	clone := InputFrame{Actions: make([]TimedAction, len(f.Actions))}
	copy(clone.Actions, f.Actions)
	return clone
}
