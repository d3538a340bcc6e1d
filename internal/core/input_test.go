package core

import (
	"testing"
	"time"
)

func TestParseAction(t *testing.T) {
	tests := []struct {
		code     string
		expected Action
		ok       bool
	}{
		{"LANE_LEFT", ActionLaneLeft, true},
		{"LANE_RIGHT", ActionLaneRight, true},
		{"JUMP", ActionJump, true},
		{"SLIDE", ActionSlide, true},
		{"PAUSE", ActionPause, true},
		{"DASH", ActionNone, false},
		{"", ActionNone, false},
	}

	for _, tc := range tests {
		t.Run(tc.code, func(t *testing.T) {
			got, ok := ParseAction(tc.code)
			if got != tc.expected || ok != tc.ok {
				t.Errorf("ParseAction(%q) = (%v, %v), expected (%v, %v)", tc.code, got, ok, tc.expected, tc.ok)
			}
			if ok && got.String() != tc.code {
				t.Errorf("String() = %q, expected %q", got.String(), tc.code)
			}
		})
	}
}

func TestInputFramePushKeepsOrder(t *testing.T) {
	f := NewInputFrame()
	f.Push(ActionJump, 10*time.Millisecond)
	f.Push(ActionNone, 11*time.Millisecond)
	f.Push(ActionLaneLeft, 12*time.Millisecond)

	if len(f.Actions) != 2 {
		t.Fatalf("expected 2 actions (ActionNone dropped), got %d", len(f.Actions))
	}
	if f.Actions[0].Action != ActionJump || f.Actions[1].Action != ActionLaneLeft {
		t.Errorf("actions out of order: %+v", f.Actions)
	}

	clone := f.Clone()
	f.Clear()
	if len(f.Actions) != 0 {
		t.Error("Clear() should empty the frame")
	}
	if len(clone.Actions) != 2 {
		t.Error("Clone() should not share storage with the original")
	}
}
