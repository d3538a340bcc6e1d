// Package tui hosts runs in a terminal through Bubble Tea: real-time frame
// pacing, key mapping, the mode menu, the scoreboard and the SSH server.
package tui

import (
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// TickMsg asks the run with the matching Loop to render a frame.
type TickMsg struct {
	Time time.Time
	Loop uint64
}

var loops atomic.Uint64

// nextLoop identifies a new frame loop so ticks left over from a finished
// run are not picked up by the next one.
func nextLoop() uint64 {
	return loops.Add(1)
}

// tickCmd schedules the next frame at the host frame rate. The engine
// measures real elapsed time itself, so a late tick only means more steps.
func tickCmd(fps int, loop uint64) tea.Cmd {
	if fps <= 0 {
		fps = 60
	}
	return tea.Tick(time.Second/time.Duration(fps), func(t time.Time) tea.Msg {
		return TickMsg{Time: t, Loop: loop}
	})
}
