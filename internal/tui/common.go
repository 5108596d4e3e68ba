package tui

import (
	"fmt"
	"time"

	"github.com/ktakeda/focusdo/internal/pomodoro"
	"github.com/ktakeda/focusdo/internal/store"
)

// viewState represents the currently active view.
type viewState int

const (
	viewTodos viewState = iota
	viewFocus
	viewStats
	viewSettings
)

var viewNames = []string{"Todos", "Focus", "Stats", "Settings"}

const todosPerPage = 10

// --- Messages ---

type tickMsg time.Time

type statusMsg struct {
	text    string
	isError bool
}

type todosDataMsg struct {
	todos []store.TodoItem
	total int
}

type statsDataMsg struct {
	days      []store.DailyFocus
	phases    int
	totalWork int64
	doneToday int
}

type settingsDataMsg struct {
	settings pomodoro.Settings
}

type exportDoneMsg struct {
	path string
}

// --- Helpers ---

func formatDuration(d time.Duration) string {
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := int(d.Seconds()) % 60
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}

func formatSeconds(secs int64) string {
	return formatDuration(time.Duration(secs) * time.Second)
}

func formatHours(secs int64) string {
	h := float64(secs) / 3600
	return fmt.Sprintf("%.1fh", h)
}
