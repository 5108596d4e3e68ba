package tui

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/ktakeda/focusdo/internal/pomodoro"
	"github.com/ktakeda/focusdo/internal/store"
)

// settingsSavedMsg carries freshly persisted timer settings so the focus
// view can rebuild its engine around them.
type settingsSavedMsg struct {
	settings pomodoro.Settings
}

type settingsModel struct {
	store  *store.Store
	width  int
	height int

	settings   pomodoro.Settings
	formActive bool
	form       *huh.Form

	// Form values as pointers (survive value copies)
	work      *string
	brk       *string
	longBreak *string
	sessions  *string
}

func newSettingsModel(s *store.Store) settingsModel {
	w, b, lb, n := "", "", "", ""
	return settingsModel{
		store:     s,
		settings:  pomodoro.DefaultSettings(),
		work:      &w,
		brk:       &b,
		longBreak: &lb,
		sessions:  &n,
	}
}

func (s *settingsModel) setSize(w, h int) {
	s.width = w
	s.height = h
}

func (s settingsModel) refresh() tea.Cmd {
	return func() tea.Msg {
		return settingsDataMsg{settings: pomodoro.LoadSettings(s.store)}
	}
}

func (s settingsModel) update(msg tea.Msg) (settingsModel, tea.Cmd) {
	if s.formActive && s.form != nil {
		return s.updateForm(msg)
	}

	switch msg := msg.(type) {
	case settingsDataMsg:
		s.settings = msg.settings
		return s, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Enter), key.Matches(msg, keys.Edit):
			return s.showForm()
		}
	}
	return s, nil
}

func (s settingsModel) showForm() (settingsModel, tea.Cmd) {
	*s.work = strconv.Itoa(s.settings.WorkDuration / 60)
	*s.brk = strconv.Itoa(s.settings.BreakDuration / 60)
	*s.longBreak = strconv.Itoa(s.settings.LongBreakDuration / 60)
	*s.sessions = strconv.Itoa(s.settings.SessionsBeforeLongBreak)

	s.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Work phase (min)").Validate(validatePositiveInt).Value(s.work),
			huh.NewInput().Title("Short break (min)").Validate(validatePositiveInt).Value(s.brk),
			huh.NewInput().Title("Long break (min)").Validate(validatePositiveInt).Value(s.longBreak),
			huh.NewInput().Title("Work phases before long break").Validate(validatePositiveInt).Value(s.sessions),
		).Title("Focus Timer"),
	).WithShowHelp(true).WithShowErrors(true)

	s.formActive = true
	return s, s.form.Init()
}

func (s settingsModel) updateForm(msg tea.Msg) (settingsModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			s.formActive = false
			s.form = nil
			return s, nil
		}
	}

	form, cmd := s.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		s.form = f
	}

	if s.form.State == huh.StateCompleted {
		s.formActive = false
		saved, err := s.saveSettings()
		if err != nil {
			return s, tea.Batch(s.refresh(), status(fmt.Sprintf("Save failed: %v", err)))
		}
		return s, tea.Batch(
			s.refresh(),
			func() tea.Msg { return settingsSavedMsg{settings: saved} },
			status("Settings saved"),
		)
	}

	return s, cmd
}

func (s settingsModel) saveSettings() (pomodoro.Settings, error) {
	next := pomodoro.Settings{
		WorkDuration:            mustInt(*s.work) * 60,
		BreakDuration:           mustInt(*s.brk) * 60,
		LongBreakDuration:       mustInt(*s.longBreak) * 60,
		SessionsBeforeLongBreak: mustInt(*s.sessions),
	}
	if err := pomodoro.SaveSettings(s.store, next); err != nil {
		return s.settings, err
	}
	return next, nil
}

// validatePositiveInt rejects anything but a positive whole number. The timer
// engine trusts its inputs, so the check lives here at the form edge.
func validatePositiveInt(v string) error {
	n, err := strconv.Atoi(v)
	if err != nil {
		return errors.New("enter a whole number")
	}
	if n <= 0 {
		return errors.New("must be greater than zero")
	}
	return nil
}

// mustInt is only called on form values that already passed
// validatePositiveInt.
func mustInt(v string) int {
	n, _ := strconv.Atoi(v)
	return n
}

func (s settingsModel) view() string {
	w := s.width - 4

	if s.formActive && s.form != nil {
		return panelStyle.Width(w).Render(
			lipgloss.JoinVertical(lipgloss.Left, titleStyle.Render("Settings"), "", s.form.View()),
		)
	}

	rows := []string{
		titleStyle.Render("Settings"),
		"",
		s.renderRow("Work phase", minutesLabel(s.settings.WorkDuration)),
		s.renderRow("Short break", minutesLabel(s.settings.BreakDuration)),
		s.renderRow("Long break", minutesLabel(s.settings.LongBreakDuration)),
		s.renderRow("Phases before long break", fmt.Sprintf("%d", s.settings.SessionsBeforeLongBreak)),
		"",
		mutedStyle.Render("Press enter to edit. Saving restarts the timer."),
	}

	return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (s settingsModel) renderRow(label, value string) string {
	return fmt.Sprintf("  %s %s",
		lipgloss.NewStyle().Width(28).Render(label),
		highlightStyle.Render(value),
	)
}

func minutesLabel(seconds int) string {
	return fmt.Sprintf("%d min", seconds/60)
}
