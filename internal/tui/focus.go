package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/ktakeda/focusdo/internal/logging"
	"github.com/ktakeda/focusdo/internal/pomodoro"
	"github.com/ktakeda/focusdo/internal/store"
)

// uiTicker adapts the shared Bubble Tea one-second tickMsg into the engine's
// tick source, so every engine callback runs on the update loop.
type uiTicker struct {
	fn     func()
	active bool
}

func (t *uiTicker) Start(fn func()) {
	t.fn = fn
	t.active = true
}

func (t *uiTicker) Stop() { t.active = false }

// fire delivers one tick if a tick source is registered.
func (t *uiTicker) fire() {
	if t.active && t.fn != nil {
		t.fn()
	}
}

// engineFeed collects engine callback output between update cycles. It is
// shared by pointer so callbacks survive model copies.
type engineFeed struct {
	remaining   int
	completions []pomodoro.Phase
}

// focusModel is the binder around the pomodoro engine: it translates key
// presses into engine operations and engine callbacks into display state,
// and records finished work phases as focus history.
type focusModel struct {
	store  *store.Store
	width  int
	height int

	engine *pomodoro.Engine
	ticker *uiTicker
	feed   *engineFeed

	sessionID int64 // focus_sessions.id, 0 when no session is open
	todoID    *int64
	todoLabel string
}

func newFocusModel(s *store.Store) focusModel {
	settings := pomodoro.LoadSettings(s)
	ticker := &uiTicker{}
	feed := &engineFeed{}

	engine := pomodoro.New(
		pomodoro.SettingsPatch{
			WorkDuration:            &settings.WorkDuration,
			BreakDuration:           &settings.BreakDuration,
			LongBreakDuration:       &settings.LongBreakDuration,
			SessionsBeforeLongBreak: &settings.SessionsBeforeLongBreak,
		},
		pomodoro.Handlers{
			OnTick: func(remaining int) { feed.remaining = remaining },
			OnPhaseComplete: func(completed pomodoro.Phase) {
				feed.completions = append(feed.completions, completed)
			},
		},
		pomodoro.WithTicker(ticker),
	)
	feed.remaining = engine.State().Remaining

	return focusModel{
		store:  s,
		engine: engine,
		ticker: ticker,
		feed:   feed,
	}
}

func (f *focusModel) setSize(w, h int) {
	f.width = w
	f.height = h
}

// attachTodo points the next focus session at a todo.
func (f *focusModel) attachTodo(todo store.TodoItem) {
	id := todo.ID
	f.todoID = &id
	f.todoLabel = todo.Description
}

// applySettings pushes updated settings into the engine. The engine performs
// a full reset, so any open session ends.
func (f focusModel) applySettings(s pomodoro.Settings) (focusModel, tea.Cmd) {
	f = f.abandonSession()
	f.engine.UpdateSettings(pomodoro.SettingsPatch{
		WorkDuration:            &s.WorkDuration,
		BreakDuration:           &s.BreakDuration,
		LongBreakDuration:       &s.LongBreakDuration,
		SessionsBeforeLongBreak: &s.SessionsBeforeLongBreak,
	})
	return f, nil
}

func (f focusModel) update(msg tea.Msg) (focusModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		f.ticker.fire()
		return f.drainCompletions()

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Start):
			return f.startCountdown()
		case key.Matches(msg, keys.Pause):
			if f.engine.State().Running {
				f.engine.Pause()
				return f, status("Paused")
			}
			return f.startCountdown()
		case key.Matches(msg, keys.Reset):
			f = f.abandonSession()
			f.engine.Reset()
			return f, status("Timer reset")
		case key.Matches(msg, keys.Skip):
			f.engine.SkipPhase()
			return f.drainCompletions()
		}
	}
	return f, nil
}

func (f focusModel) startCountdown() (focusModel, tea.Cmd) {
	if f.engine.State().Running {
		return f, nil
	}
	if f.sessionID == 0 {
		s := f.engine.Settings()
		sess, err := f.store.StartFocusSession(f.todoID, s.WorkDuration, s.BreakDuration, s.SessionsBeforeLongBreak)
		if err != nil {
			logging.Warnf("record focus session: %v", err)
		} else {
			f.sessionID = sess.ID
		}
	}
	f.engine.Start()
	return f, status("Focus started")
}

// drainCompletions turns phase completions collected by the engine callbacks
// into history updates and notifications.
func (f focusModel) drainCompletions() (focusModel, tea.Cmd) {
	if len(f.feed.completions) == 0 {
		return f, nil
	}
	completions := f.feed.completions
	f.feed.completions = nil

	var cmds []tea.Cmd
	for _, completed := range completions {
		state := f.engine.State()
		if completed == pomodoro.PhaseWork && f.sessionID > 0 {
			if err := f.store.IncrementFocusSession(f.sessionID); err != nil {
				logging.Warnf("increment focus session: %v", err)
			}
			if state.Phase == pomodoro.PhaseLongBreak {
				// A full round is done; close the history record.
				if err := f.store.CompleteFocusSession(f.sessionID); err != nil {
					logging.Warnf("complete focus session: %v", err)
				}
				f.sessionID = 0
			}
		}
		if f.sessionID > 0 {
			if err := f.store.UpdateFocusStatus(f.sessionID, string(state.Phase)); err != nil {
				logging.Warnf("update focus status: %v", err)
			}
		}
		cmds = append(cmds, notifyPhaseComplete(completed, state.Phase))
	}
	return f, tea.Batch(cmds...)
}

// abandonSession cancels any open history record.
func (f focusModel) abandonSession() focusModel {
	if f.sessionID > 0 {
		if err := f.store.CancelFocusSession(f.sessionID); err != nil {
			logging.Warnf("cancel focus session: %v", err)
		}
		f.sessionID = 0
	}
	return f
}

func (f focusModel) view() string {
	w := f.width - 4
	state := f.engine.State()
	settings := f.engine.Settings()

	title := titleStyle.Render("Focus")

	display := phaseStyle(string(state.Phase)).
		Width(w - 6).
		Render(renderCountdown(state.Remaining))

	label := phaseStyle(string(state.Phase)).Render(state.Phase.Label())
	if !state.Running {
		label += mutedStyle.Render("  (paused)")
	}

	rows := []string{
		title,
		"",
		display,
		label,
		"",
		f.renderSessionDots(state, settings),
	}

	if f.todoLabel != "" {
		rows = append(rows, "", mutedStyle.Render("focusing on: ")+normalItemStyle.Render(f.todoLabel))
	}

	controls := "s: start  space: pause/resume  r: reset  p: skip phase"
	if state.Running {
		controls = "space: pause  r: reset  p: skip phase"
	}
	rows = append(rows, "", mutedStyle.Render(controls))

	return panelStyle.Width(w).Render(
		lipgloss.JoinVertical(lipgloss.Center, rows...),
	)
}

// renderSessionDots shows progress toward the next long break.
func (f focusModel) renderSessionDots(state pomodoro.State, settings pomodoro.Settings) string {
	target := settings.SessionsBeforeLongBreak
	sinceLong := state.Sessions % target
	if sinceLong == 0 && state.Sessions > 0 && state.Phase == pomodoro.PhaseLongBreak {
		sinceLong = target
	}

	var parts []string
	for i := 0; i < target; i++ {
		switch {
		case i < sinceLong:
			parts = append(parts, successStyle.Render("●"))
		case i == sinceLong && state.Phase == pomodoro.PhaseWork && state.Running:
			parts = append(parts, workStyle.Render("◐"))
		default:
			parts = append(parts, mutedStyle.Render("○"))
		}
	}
	counter := mutedStyle.Render(fmt.Sprintf("  %d done", state.Sessions))
	return strings.Join(parts, " ") + counter
}

// footerLabel reports the countdown shown in the root footer. It is empty
// when no session is underway so an idle timer does not clutter the bar.
func (f focusModel) footerLabel() (string, bool) {
	state := f.engine.State()
	if !state.Running && f.sessionID == 0 {
		return "", false
	}
	return pomodoro.FormatTime(state.Remaining) + " " + state.Phase.Label(), state.Running
}

func renderCountdown(remaining int) string {
	return pomodoro.FormatTime(remaining)
}

func status(text string) tea.Cmd {
	return func() tea.Msg { return statusMsg{text: text} }
}
