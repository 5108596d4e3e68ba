package tui

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/ktakeda/focusdo/internal/pomodoro"
	"github.com/ktakeda/focusdo/internal/store"
)

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.NewMemory()
	if err != nil {
		t.Fatalf("new memory store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func keyPress(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

// ============================================================
// Focus model
// ============================================================

func TestFocusInitLoadsSettings(t *testing.T) {
	s := newTestStore(t)
	f := newFocusModel(s)

	state := f.engine.State()
	if state.Phase != pomodoro.PhaseWork {
		t.Fatalf("expected work phase, got %s", state.Phase)
	}
	if state.Remaining != 25*60 {
		t.Fatalf("expected 1500s remaining, got %d", state.Remaining)
	}
	if state.Running {
		t.Fatal("engine should start paused")
	}
	if f.sessionID != 0 {
		t.Fatal("no session should be open initially")
	}
}

func TestFocusStartOpensSession(t *testing.T) {
	s := newTestStore(t)
	f := newFocusModel(s)

	f, _ = f.update(keyPress('s'))
	if !f.engine.State().Running {
		t.Fatal("countdown should be running after start")
	}
	if f.sessionID == 0 {
		t.Fatal("start should open a history record")
	}

	sess, err := s.GetFocusSession(f.sessionID)
	if err != nil {
		t.Fatal(err)
	}
	if sess.Status != "work" {
		t.Fatalf("expected status work, got %s", sess.Status)
	}
	if sess.WorkDuration != 25*60 {
		t.Fatalf("expected work duration 1500, got %d", sess.WorkDuration)
	}
}

func TestFocusStartIsIdempotent(t *testing.T) {
	s := newTestStore(t)
	f := newFocusModel(s)

	f, _ = f.update(keyPress('s'))
	first := f.sessionID
	f, _ = f.update(keyPress('s'))
	if f.sessionID != first {
		t.Fatal("second start should not open another session")
	}
}

func TestFocusTickAdvancesCountdown(t *testing.T) {
	s := newTestStore(t)
	f := newFocusModel(s)

	f, _ = f.update(keyPress('s'))
	f, _ = f.update(tickMsg(time.Now()))
	f, _ = f.update(tickMsg(time.Now()))

	state := f.engine.State()
	if state.Remaining != 25*60-2 {
		t.Fatalf("expected %d remaining, got %d", 25*60-2, state.Remaining)
	}
	if f.feed.remaining != state.Remaining {
		t.Fatalf("feed out of sync: %d vs %d", f.feed.remaining, state.Remaining)
	}
}

func TestFocusTickWhilePausedIsNoop(t *testing.T) {
	s := newTestStore(t)
	f := newFocusModel(s)

	f, _ = f.update(tickMsg(time.Now()))
	if f.engine.State().Remaining != 25*60 {
		t.Fatal("paused countdown should not advance")
	}
}

func TestFocusPauseToggle(t *testing.T) {
	s := newTestStore(t)
	f := newFocusModel(s)

	f, _ = f.update(keyPress('s'))
	f, _ = f.update(tea.KeyMsg{Type: tea.KeySpace})
	if f.engine.State().Running {
		t.Fatal("space should pause a running countdown")
	}

	f, _ = f.update(tea.KeyMsg{Type: tea.KeySpace})
	if !f.engine.State().Running {
		t.Fatal("space should resume a paused countdown")
	}
}

func TestFocusSkipRecordsWorkPhase(t *testing.T) {
	s := newTestStore(t)
	f := newFocusModel(s)

	f, _ = f.update(keyPress('s'))
	f, _ = f.update(keyPress('p'))

	state := f.engine.State()
	if state.Phase != pomodoro.PhaseBreak {
		t.Fatalf("expected break after skipping work, got %s", state.Phase)
	}
	if state.Running {
		t.Fatal("countdown should pause at a phase boundary")
	}

	sess, _ := s.GetFocusSession(f.sessionID)
	if sess.CompletedCount != 1 {
		t.Fatalf("expected 1 completed phase, got %d", sess.CompletedCount)
	}
	if sess.Status != "break" {
		t.Fatalf("expected status break, got %s", sess.Status)
	}
}

func TestFocusResetCancelsSession(t *testing.T) {
	s := newTestStore(t)
	f := newFocusModel(s)

	f, _ = f.update(keyPress('s'))
	f, _ = f.update(tickMsg(time.Now()))
	id := f.sessionID
	f, _ = f.update(keyPress('r'))

	if f.sessionID != 0 {
		t.Fatal("reset should close the open session")
	}
	state := f.engine.State()
	if state.Running || state.Phase != pomodoro.PhaseWork || state.Remaining != 25*60 {
		t.Fatalf("reset should restore a fresh work phase, got %+v", state)
	}

	sess, _ := s.GetFocusSession(id)
	if sess.Status != "cancelled" {
		t.Fatalf("expected cancelled, got %s", sess.Status)
	}
	if sess.CompletedAt == nil {
		t.Fatal("cancelled session should record when it ended")
	}
}

func TestFocusFullRoundClosesSession(t *testing.T) {
	s := newTestStore(t)
	s.SetSetting("pomodoro_sessions", "2")
	f := newFocusModel(s)

	f, _ = f.update(keyPress('s'))
	id := f.sessionID

	f, _ = f.update(keyPress('p')) // work 1 -> break
	f, _ = f.update(keyPress('p')) // break -> work
	f, _ = f.update(keyPress('p')) // work 2 -> long break

	if f.engine.State().Phase != pomodoro.PhaseLongBreak {
		t.Fatalf("expected long break, got %s", f.engine.State().Phase)
	}
	if f.sessionID != 0 {
		t.Fatal("the round is over, the session should be closed")
	}

	sess, _ := s.GetFocusSession(id)
	if sess.Status != "completed" {
		t.Fatalf("expected completed, got %s", sess.Status)
	}
	if sess.CompletedCount != 2 {
		t.Fatalf("expected 2 completed phases, got %d", sess.CompletedCount)
	}
	if sess.CompletedAt == nil {
		t.Fatal("completed session should have a completion time")
	}
}

func TestFocusAttachTodo(t *testing.T) {
	s := newTestStore(t)
	todo, _ := s.CreateTodo("write report")

	f := newFocusModel(s)
	f.attachTodo(*todo)
	f, _ = f.update(keyPress('s'))

	sess, _ := s.GetFocusSession(f.sessionID)
	if sess.TodoID == nil || *sess.TodoID != todo.ID {
		t.Fatal("session should reference the attached todo")
	}
	if !strings.Contains(f.view(), "write report") {
		t.Fatal("view should show the attached todo")
	}
}

func TestFocusApplySettingsRestartsEngine(t *testing.T) {
	s := newTestStore(t)
	f := newFocusModel(s)

	f, _ = f.update(keyPress('s'))
	id := f.sessionID

	f, _ = f.applySettings(pomodoro.Settings{
		WorkDuration:            10 * 60,
		BreakDuration:           2 * 60,
		LongBreakDuration:       20 * 60,
		SessionsBeforeLongBreak: 3,
	})

	state := f.engine.State()
	if state.Running {
		t.Fatal("new settings should leave the countdown paused")
	}
	if state.Remaining != 10*60 {
		t.Fatalf("expected new work duration, got %d", state.Remaining)
	}
	if f.sessionID != 0 {
		t.Fatal("open session should be abandoned")
	}

	sess, _ := s.GetFocusSession(id)
	if sess.Status != "cancelled" {
		t.Fatalf("expected cancelled, got %s", sess.Status)
	}
	if sess.CompletedAt == nil {
		t.Fatal("cancelled session should record when it ended")
	}
}

func TestFocusFooterLabel(t *testing.T) {
	s := newTestStore(t)
	f := newFocusModel(s)

	if label, _ := f.footerLabel(); label != "" {
		t.Fatalf("idle timer should have no footer label, got %q", label)
	}

	f, _ = f.update(keyPress('s'))
	label, running := f.footerLabel()
	if label == "" || !running {
		t.Fatalf("running timer should show in footer, got %q running=%v", label, running)
	}

	f, _ = f.update(tea.KeyMsg{Type: tea.KeySpace})
	label, running = f.footerLabel()
	if label == "" || running {
		t.Fatalf("mid-session pause should still show in footer, got %q running=%v", label, running)
	}
}

// ============================================================
// Todos model
// ============================================================

func loadTodos(t *testing.T, m todosModel) todosModel {
	t.Helper()
	msg := m.refresh()()
	m, _ = m.update(msg)
	return m
}

func TestTodosRefreshLoadsData(t *testing.T) {
	s := newTestStore(t)
	for _, d := range []string{"one", "two", "three"} {
		s.CreateTodo(d)
	}

	m := loadTodos(t, newTodosModel(s))
	if len(m.todos) != 3 || m.total != 3 {
		t.Fatalf("expected 3 todos, got %d (total %d)", len(m.todos), m.total)
	}
}

func TestTodosPagination(t *testing.T) {
	s := newTestStore(t)
	for i := 0; i < 15; i++ {
		s.CreateTodo("item")
	}

	m := loadTodos(t, newTodosModel(s))
	if len(m.todos) != todosPerPage {
		t.Fatalf("expected a full page, got %d", len(m.todos))
	}
	if m.totalPages() != 2 {
		t.Fatalf("expected 2 pages, got %d", m.totalPages())
	}

	m, cmd := m.update(tea.KeyMsg{Type: tea.KeyRight})
	if m.page != 1 {
		t.Fatalf("expected page 1, got %d", m.page)
	}
	m, _ = m.update(cmd())
	if len(m.todos) != 5 {
		t.Fatalf("expected 5 items on last page, got %d", len(m.todos))
	}

	// No page past the last one
	m, _ = m.update(tea.KeyMsg{Type: tea.KeyRight})
	if m.page != 1 {
		t.Fatalf("page should not advance past the end, got %d", m.page)
	}
}

func TestTodosToggle(t *testing.T) {
	s := newTestStore(t)
	todo, _ := s.CreateTodo("toggle me")

	m := loadTodos(t, newTodosModel(s))
	m, _ = m.update(keyPress('x'))

	got, _ := s.GetTodo(todo.ID)
	if !got.Completed {
		t.Fatal("x should mark the todo done")
	}
}

func TestTodosDelete(t *testing.T) {
	s := newTestStore(t)
	todo, _ := s.CreateTodo("delete me")

	m := loadTodos(t, newTodosModel(s))
	m.update(keyPress('d'))

	if _, err := s.GetTodo(todo.ID); err == nil {
		t.Fatal("todo should be gone")
	}
}

func TestTodosClearDone(t *testing.T) {
	s := newTestStore(t)
	s.CreateTodo("keep")
	done, _ := s.CreateTodo("done")
	s.ToggleTodo(done.ID)

	m := loadTodos(t, newTodosModel(s))
	m.update(keyPress('c'))

	total, _ := s.CountTodos(store.TodoFilter{})
	if total != 1 {
		t.Fatalf("expected 1 todo left, got %d", total)
	}
}

func TestTodosDeleteAll(t *testing.T) {
	s := newTestStore(t)
	s.CreateTodo("a")
	s.CreateTodo("b")

	m := loadTodos(t, newTodosModel(s))
	m.update(keyPress('D'))

	total, _ := s.CountTodos(store.TodoFilter{})
	if total != 0 {
		t.Fatalf("expected empty list, got %d", total)
	}
}

func TestTodosFocusKeySendsTodo(t *testing.T) {
	s := newTestStore(t)
	s.CreateTodo("focus target")

	m := loadTodos(t, newTodosModel(s))
	_, cmd := m.update(keyPress('s'))
	if cmd == nil {
		t.Fatal("s on a todo should produce a message")
	}

	msg, ok := cmd().(focusTodoMsg)
	if !ok {
		t.Fatalf("expected focusTodoMsg, got %T", cmd())
	}
	if msg.todo.Description != "focus target" {
		t.Fatalf("wrong todo forwarded: %q", msg.todo.Description)
	}
}

func TestTodosSearch(t *testing.T) {
	s := newTestStore(t)
	s.CreateTodo("buy milk")
	s.CreateTodo("write code")

	m := loadTodos(t, newTodosModel(s))
	m, _ = m.update(keyPress('/'))
	if !m.searching {
		t.Fatal("/ should enter search mode")
	}

	m.search.SetValue("milk")
	m, cmd := m.update(tea.KeyMsg{Type: tea.KeyEnter})
	if m.searching {
		t.Fatal("enter should leave search mode")
	}
	if m.query != "milk" {
		t.Fatalf("expected query milk, got %q", m.query)
	}

	m, _ = m.update(cmd())
	if len(m.todos) != 1 || m.todos[0].Description != "buy milk" {
		t.Fatalf("search should narrow the list, got %d items", len(m.todos))
	}
}

func TestTodosSearchEscClears(t *testing.T) {
	s := newTestStore(t)
	m := newTodosModel(s)
	m.query = "old"

	m, _ = m.update(keyPress('/'))
	m, _ = m.update(tea.KeyMsg{Type: tea.KeyEsc})
	if m.searching || m.query != "" {
		t.Fatal("esc should cancel the search")
	}
}

func TestTodosFilterCycle(t *testing.T) {
	order := []store.TodoStatus{store.StatusAll, store.StatusActive, store.StatusCompleted, store.StatusAll}
	for i := 0; i < len(order)-1; i++ {
		if got := nextStatus(order[i]); got != order[i+1] {
			t.Fatalf("nextStatus(%s) = %s, want %s", order[i], got, order[i+1])
		}
	}
}

func TestTodosSortCycle(t *testing.T) {
	order := []store.TodoSort{store.SortCreated, store.SortUpdated, store.SortActiveFirst, store.SortCreated}
	for i := 0; i < len(order)-1; i++ {
		if got := nextSort(order[i]); got != order[i+1] {
			t.Fatalf("nextSort(%s) = %s, want %s", order[i], got, order[i+1])
		}
	}
}

func TestValidateDescription(t *testing.T) {
	if err := validateDescription("fine"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := validateDescription("   "); err == nil {
		t.Fatal("blank description should be rejected")
	}
	if err := validateDescription(strings.Repeat("x", store.DescriptionMaxLength+1)); err == nil {
		t.Fatal("oversized description should be rejected")
	}
}

// ============================================================
// Settings model
// ============================================================

func TestSettingsRefreshLoadsDefaults(t *testing.T) {
	s := newTestStore(t)
	m := newSettingsModel(s)

	msg := m.refresh()().(settingsDataMsg)
	if msg.settings.WorkDuration != 25*60 {
		t.Fatalf("expected seeded work duration, got %d", msg.settings.WorkDuration)
	}

	m, _ = m.update(msg)
	if m.settings.SessionsBeforeLongBreak != 4 {
		t.Fatalf("expected 4 sessions, got %d", m.settings.SessionsBeforeLongBreak)
	}
}

func TestSettingsSavePersistsMinutes(t *testing.T) {
	s := newTestStore(t)
	m := newSettingsModel(s)
	*m.work = "30"
	*m.brk = "10"
	*m.longBreak = "20"
	*m.sessions = "3"

	saved, err := m.saveSettings()
	if err != nil {
		t.Fatal(err)
	}
	if saved.WorkDuration != 30*60 || saved.SessionsBeforeLongBreak != 3 {
		t.Fatalf("unexpected saved settings: %+v", saved)
	}

	if v, _ := s.GetSetting("pomodoro_work"); v != "30" {
		t.Fatalf("expected stored minutes 30, got %q", v)
	}
	if v, _ := s.GetSetting("pomodoro_sessions"); v != "3" {
		t.Fatalf("expected stored sessions 3, got %q", v)
	}
}

func TestValidatePositiveInt(t *testing.T) {
	tests := []struct {
		in string
		ok bool
	}{
		{"25", true},
		{"1", true},
		{"0", false},
		{"-3", false},
		{"abc", false},
		{"", false},
		{"2.5", false},
	}
	for _, tt := range tests {
		err := validatePositiveInt(tt.in)
		if (err == nil) != tt.ok {
			t.Errorf("validatePositiveInt(%q): got err=%v, want ok=%v", tt.in, err, tt.ok)
		}
	}
}

// ============================================================
// App model
// ============================================================

func TestNewApp(t *testing.T) {
	s := newTestStore(t)
	app := NewApp(s)

	if app.activeView != viewTodos {
		t.Fatal("default view should be todos")
	}
	if app.showHelp || app.exportPicking {
		t.Fatal("overlays should be hidden by default")
	}
	if app.isCapturingInput() {
		t.Fatal("no input capture expected initially")
	}
}

func TestAppTabSwitching(t *testing.T) {
	s := newTestStore(t)
	app := NewApp(s)

	model, _ := app.Update(keyPress('2'))
	app = model.(App)
	if app.activeView != viewFocus {
		t.Fatalf("expected focus view, got %d", app.activeView)
	}

	model, _ = app.Update(keyPress('4'))
	app = model.(App)
	if app.activeView != viewSettings {
		t.Fatalf("expected settings view, got %d", app.activeView)
	}

	model, _ = app.Update(tea.KeyMsg{Type: tea.KeyTab})
	app = model.(App)
	if app.activeView != viewTodos {
		t.Fatalf("tab should wrap back to todos, got %d", app.activeView)
	}
}

func TestAppTickKeepsTicking(t *testing.T) {
	s := newTestStore(t)
	app := NewApp(s)

	_, cmd := app.Update(tickMsg(time.Now()))
	if cmd == nil {
		t.Fatal("tick should re-arm itself")
	}
}

func TestAppTickRunsCountdownFromAnyView(t *testing.T) {
	s := newTestStore(t)
	app := NewApp(s)

	model, _ := app.Update(keyPress('2'))
	app = model.(App)
	model, _ = app.Update(keyPress('s'))
	app = model.(App)

	model, _ = app.Update(keyPress('1'))
	app = model.(App)
	model, _ = app.Update(tickMsg(time.Now()))
	app = model.(App)

	if app.focus.engine.State().Remaining != 25*60-1 {
		t.Fatal("countdown should advance while another view is showing")
	}
}

func TestAppFocusTodoMsgSwitchesView(t *testing.T) {
	s := newTestStore(t)
	todo, _ := s.CreateTodo("deep work")
	app := NewApp(s)

	model, _ := app.Update(focusTodoMsg{todo: *todo})
	app = model.(App)
	if app.activeView != viewFocus {
		t.Fatal("attaching a todo should jump to the focus view")
	}
	if app.focus.todoLabel != "deep work" {
		t.Fatalf("todo not attached: %q", app.focus.todoLabel)
	}
}

func TestAppSettingsSavedReachesEngine(t *testing.T) {
	s := newTestStore(t)
	app := NewApp(s)

	model, _ := app.Update(settingsSavedMsg{settings: pomodoro.Settings{
		WorkDuration:            40 * 60,
		BreakDuration:           8 * 60,
		LongBreakDuration:       25 * 60,
		SessionsBeforeLongBreak: 5,
	}})
	app = model.(App)

	if app.focus.engine.State().Remaining != 40*60 {
		t.Fatal("saved settings should restart the engine with new durations")
	}
}

func TestAppExportPicker(t *testing.T) {
	s := newTestStore(t)
	app := NewApp(s)

	model, _ := app.Update(keyPress('E'))
	app = model.(App)
	if !app.exportPicking {
		t.Fatal("E should open the export picker")
	}

	model, _ = app.Update(tea.KeyMsg{Type: tea.KeyEsc})
	app = model.(App)
	if app.exportPicking {
		t.Fatal("esc should close the export picker")
	}
}

func TestAppLoadingState(t *testing.T) {
	s := newTestStore(t)
	app := NewApp(s)
	if app.View() != "Loading..." {
		t.Fatalf("unsized app should show loading, got %q", app.View())
	}
}

func TestAppViewStates(t *testing.T) {
	s := newTestStore(t)
	app := NewApp(s)
	model, _ := app.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	app = model.(App)

	for _, v := range []viewState{viewTodos, viewFocus, viewStats, viewSettings} {
		app.activeView = v
		if app.View() == "" {
			t.Fatalf("view %d rendered empty", v)
		}
	}
}

func TestAppStatusMessage(t *testing.T) {
	s := newTestStore(t)
	app := NewApp(s)
	model, _ := app.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	app = model.(App)
	model, _ = app.Update(statusMsg{text: "saved ok"})
	app = model.(App)

	if !strings.Contains(app.renderFooter(), "saved ok") {
		t.Fatal("footer should show the status message")
	}
}

// ============================================================
// Helpers and keys
// ============================================================

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{0, "00:00:00"},
		{time.Second, "00:00:01"},
		{time.Minute, "00:01:00"},
		{time.Hour + time.Minute + time.Second, "01:01:01"},
		{25 * time.Hour, "25:00:00"},
	}
	for _, tt := range tests {
		if got := formatDuration(tt.d); got != tt.want {
			t.Errorf("formatDuration(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}

func TestFormatSeconds(t *testing.T) {
	if got := formatSeconds(3661); got != "01:01:01" {
		t.Errorf("formatSeconds(3661) = %q", got)
	}
}

func TestFormatHours(t *testing.T) {
	tests := []struct {
		secs int64
		want string
	}{
		{0, "0.0h"},
		{3600, "1.0h"},
		{5400, "1.5h"},
	}
	for _, tt := range tests {
		if got := formatHours(tt.secs); got != tt.want {
			t.Errorf("formatHours(%d) = %q, want %q", tt.secs, got, tt.want)
		}
	}
}

func TestViewNames(t *testing.T) {
	expected := []string{"Todos", "Focus", "Stats", "Settings"}
	if len(viewNames) != len(expected) {
		t.Fatalf("expected %d view names, got %d", len(expected), len(viewNames))
	}
	for i, name := range expected {
		if viewNames[i] != name {
			t.Fatalf("viewNames[%d] = %q, want %q", i, viewNames[i], name)
		}
	}
}

func TestKeyMapHelp(t *testing.T) {
	if len(keys.ShortHelp()) == 0 {
		t.Fatal("short help should have bindings")
	}
	for i, g := range keys.FullHelp() {
		if len(g) == 0 {
			t.Fatalf("full help group %d is empty", i)
		}
	}
}

func TestPhaseStyle(t *testing.T) {
	for _, phase := range []string{"work", "break", "long_break", "unknown"} {
		if phaseStyle(phase).Render("x") == "" {
			t.Fatalf("phaseStyle(%q) rendered empty", phase)
		}
	}
}
