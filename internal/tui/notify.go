package tui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/ktakeda/focusdo/internal/pomodoro"
)

// notifyPhaseComplete raises a phase-completion alert: a terminal bell plus
// a status-bar message. The bell is best-effort; a terminal that ignores it
// still shows the message, and nothing here can interrupt the timer.
func notifyPhaseComplete(completed, next pomodoro.Phase) tea.Cmd {
	var text string
	switch completed {
	case pomodoro.PhaseWork:
		if next == pomodoro.PhaseLongBreak {
			text = "Work phase complete — time for a long break"
		} else {
			text = "Work phase complete — take a break"
		}
	default:
		text = "Break over — back to work"
	}
	text += " \a"

	return func() tea.Msg {
		return statusMsg{text: text}
	}
}
