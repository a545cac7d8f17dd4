// Package tui runs 2048 boards in the terminal with Bubble Tea, locally or
// over SSH. It maps keys to actions, drives the tick loop and draws frames.
package tui

import (
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// TickMsg triggers one simulation step of the game loop it belongs to.
type TickMsg struct {
	At   time.Time
	Loop uint64
}

var loopSeq atomic.Uint64

// nextLoop returns a fresh tick loop id. Ticks from a previous game that
// are still in flight carry an older id and are ignored.
func nextLoop() uint64 { return loopSeq.Add(1) }

func tickCmd(interval time.Duration, loop uint64) tea.Cmd {
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return TickMsg{At: t, Loop: loop}
	})
}
