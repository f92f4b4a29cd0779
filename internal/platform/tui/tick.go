// Package tui hosts skyhop in Bubble Tea: the game screen, the mode picker,
// the scoreboard and the SSH server that serves them.
package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// TickMsg is sent to trigger a game simulation tick.
type TickMsg time.Time

// tickCmd returns a Bubble Tea command that sends tick messages at the specified rate.
func tickCmd(tickRate int) tea.Cmd {
	if tickRate <= 0 {
		tickRate = 60
	}
	interval := time.Second / time.Duration(tickRate)
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

// holdTicks is how long a pressed key stays held: half a second, about the
// delay before a terminal starts repeating a key.
func holdTicks(tickRate int) int {
	if tickRate <= 0 {
		tickRate = 60
	}
	return max(1, tickRate/2)
}
