// Package tui provides the Bubble Tea front end for the game.
// It owns the terminal loop: ticks pace the simulation, keys and mouse presses
// become input frames, and snapshots are drawn with lipgloss colours.
package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// TickMsg is sent to trigger a game simulation tick.
type TickMsg time.Time

// tickCmd returns a Bubble Tea command that sends tick messages at the specified rate.
// It doubles as the frame clock: one TickMsg per simulation frame.
func tickCmd(tickRate int) tea.Cmd {
	if tickRate <= 0 {
		tickRate = 30
	}
	interval := time.Second / time.Duration(tickRate)
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}
