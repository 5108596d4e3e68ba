package tui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/ktakeda/focusdo/internal/store"
)

// focusTodoMsg asks the focus view to attach a todo to the next session.
type focusTodoMsg struct {
	todo store.TodoItem
}

type todosModel struct {
	store  *store.Store
	width  int
	height int

	todos  []store.TodoItem
	total  int
	cursor int
	page   int

	status store.TodoStatus
	sort   store.TodoSort
	query  string

	searching bool
	search    textinput.Model

	formActive bool
	form       *huh.Form
	formDesc   *string
	editingID  int64 // 0 = creating
}

func newTodosModel(s *store.Store) todosModel {
	search := textinput.New()
	search.Placeholder = "search todos…"
	search.CharLimit = store.DescriptionMaxLength

	desc := ""
	return todosModel{
		store:    s,
		status:   store.StatusAll,
		sort:     store.SortCreated,
		search:   search,
		formDesc: &desc,
	}
}

func (t *todosModel) setSize(w, h int) {
	t.width = w
	t.height = h
}

func (t todosModel) filter() store.TodoFilter {
	return store.TodoFilter{
		Status: t.status,
		Query:  t.query,
		Sort:   t.sort,
		Limit:  todosPerPage,
		Offset: t.page * todosPerPage,
	}
}

func (t todosModel) refresh() tea.Cmd {
	f := t.filter()
	return func() tea.Msg {
		todos, _ := t.store.ListTodos(f)
		total, _ := t.store.CountTodos(f)
		return todosDataMsg{todos: todos, total: total}
	}
}

func (t todosModel) totalPages() int {
	pages := (t.total + todosPerPage - 1) / todosPerPage
	if pages < 1 {
		pages = 1
	}
	return pages
}

func (t todosModel) update(msg tea.Msg) (todosModel, tea.Cmd) {
	if t.formActive && t.form != nil {
		return t.updateForm(msg)
	}
	if t.searching {
		return t.updateSearch(msg)
	}

	switch msg := msg.(type) {
	case todosDataMsg:
		t.todos = msg.todos
		t.total = msg.total
		if t.page >= t.totalPages() {
			t.page = t.totalPages() - 1
			return t, t.refresh()
		}
		if t.cursor >= len(t.todos) {
			t.cursor = max(0, len(t.todos)-1)
		}
		return t, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Up):
			if t.cursor > 0 {
				t.cursor--
			}
		case key.Matches(msg, keys.Down):
			if t.cursor < len(t.todos)-1 {
				t.cursor++
			}
		case key.Matches(msg, keys.Left):
			if t.page > 0 {
				t.page--
				t.cursor = 0
				return t, t.refresh()
			}
		case key.Matches(msg, keys.Right):
			if t.page < t.totalPages()-1 {
				t.page++
				t.cursor = 0
				return t, t.refresh()
			}
		case key.Matches(msg, keys.New):
			return t.showForm(0, "")
		case key.Matches(msg, keys.Edit):
			if len(t.todos) > 0 {
				todo := t.todos[t.cursor]
				return t.showForm(todo.ID, todo.Description)
			}
		case key.Matches(msg, keys.Toggle):
			return t.toggleCurrent()
		case key.Matches(msg, keys.Delete):
			if len(t.todos) > 0 {
				todo := t.todos[t.cursor]
				if err := t.store.DeleteTodo(todo.ID); err != nil {
					return t, status(fmt.Sprintf("Delete failed: %v", err))
				}
				return t, tea.Batch(t.refresh(), status("Deleted"))
			}
		case key.Matches(msg, keys.ClearDone):
			n, err := t.store.DeleteCompletedTodos()
			if err != nil {
				return t, status(fmt.Sprintf("Clear failed: %v", err))
			}
			return t, tea.Batch(t.refresh(), status(fmt.Sprintf("Cleared %d completed", n)))
		case key.Matches(msg, keys.ClearAll):
			n, err := t.store.DeleteAllTodos()
			if err != nil {
				return t, status(fmt.Sprintf("Delete all failed: %v", err))
			}
			return t, tea.Batch(t.refresh(), status(fmt.Sprintf("Deleted all %d todos", n)))
		case key.Matches(msg, keys.Search):
			t.searching = true
			t.search.SetValue(t.query)
			t.search.Focus()
			return t, textinput.Blink
		case key.Matches(msg, keys.Filter):
			t.status = nextStatus(t.status)
			t.page = 0
			return t, t.refresh()
		case key.Matches(msg, keys.Sort):
			t.sort = nextSort(t.sort)
			t.page = 0
			return t, t.refresh()
		case key.Matches(msg, keys.Start):
			if len(t.todos) > 0 {
				todo := t.todos[t.cursor]
				return t, func() tea.Msg { return focusTodoMsg{todo: todo} }
			}
		}
	}
	return t, nil
}

func (t todosModel) toggleCurrent() (todosModel, tea.Cmd) {
	if len(t.todos) == 0 {
		return t, nil
	}
	todo := t.todos[t.cursor]
	updated, err := t.store.ToggleTodo(todo.ID)
	if err != nil {
		return t, status(fmt.Sprintf("Toggle failed: %v", err))
	}
	text := "Marked active"
	if updated.Completed {
		text = "Marked done"
	}
	return t, tea.Batch(t.refresh(), status(text))
}

func (t todosModel) updateSearch(msg tea.Msg) (todosModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "esc":
			t.searching = false
			t.search.Blur()
			t.query = ""
			t.page = 0
			return t, t.refresh()
		case "enter":
			t.searching = false
			t.search.Blur()
			t.query = strings.TrimSpace(t.search.Value())
			t.page = 0
			return t, t.refresh()
		}
	}
	var cmd tea.Cmd
	t.search, cmd = t.search.Update(msg)
	return t, cmd
}

func (t todosModel) showForm(id int64, current string) (todosModel, tea.Cmd) {
	*t.formDesc = current
	t.editingID = id

	t.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Description").
				CharLimit(store.DescriptionMaxLength).
				Validate(validateDescription).
				Value(t.formDesc),
		),
	).WithShowHelp(true).WithShowErrors(true)

	t.formActive = true
	return t, t.form.Init()
}

func (t todosModel) updateForm(msg tea.Msg) (todosModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			t.formActive = false
			t.form = nil
			return t, nil
		}
	}

	form, cmd := t.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		t.form = f
	}

	if t.form.State == huh.StateCompleted {
		t.formActive = false
		desc := strings.TrimSpace(*t.formDesc)
		if desc == "" {
			return t, t.refresh()
		}
		if t.editingID > 0 {
			if _, err := t.store.UpdateTodoDescription(t.editingID, desc); err != nil {
				return t, status(fmt.Sprintf("Update failed: %v", err))
			}
			return t, tea.Batch(t.refresh(), status("Updated"))
		}
		if _, err := t.store.CreateTodo(desc); err != nil {
			if errors.Is(err, store.ErrTodoLimit) {
				return t, status(fmt.Sprintf("List is full (%d items max)", store.MaxTodos))
			}
			return t, status(fmt.Sprintf("Create failed: %v", err))
		}
		return t, tea.Batch(t.refresh(), status("Added"))
	}

	return t, cmd
}

// validateDescription is the binder-side input check; the timer engine and
// store accept whatever they are handed.
func validateDescription(s string) error {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return errors.New("description must not be empty")
	}
	if len(trimmed) > store.DescriptionMaxLength {
		return fmt.Errorf("description must be at most %d characters", store.DescriptionMaxLength)
	}
	return nil
}

func nextStatus(s store.TodoStatus) store.TodoStatus {
	switch s {
	case store.StatusAll:
		return store.StatusActive
	case store.StatusActive:
		return store.StatusCompleted
	default:
		return store.StatusAll
	}
}

func nextSort(s store.TodoSort) store.TodoSort {
	switch s {
	case store.SortCreated:
		return store.SortUpdated
	case store.SortUpdated:
		return store.SortActiveFirst
	default:
		return store.SortCreated
	}
}

func (t todosModel) view() string {
	w := t.width - 4

	if t.formActive && t.form != nil {
		title := titleStyle.Render("New Todo")
		if t.editingID > 0 {
			title = titleStyle.Render("Edit Todo")
		}
		return panelStyle.Width(w).Render(
			lipgloss.JoinVertical(lipgloss.Left, title, "", t.form.View()),
		)
	}

	var rows []string
	rows = append(rows, t.renderHeader())
	rows = append(rows, "")

	if t.searching {
		rows = append(rows, "  "+t.search.View(), "")
	}

	if len(t.todos) == 0 {
		if t.query != "" || t.status != store.StatusAll {
			rows = append(rows, mutedStyle.Render("  Nothing matches."))
		} else {
			rows = append(rows, mutedStyle.Render("  No todos yet. Press n to add one."))
		}
	}

	for i, todo := range t.todos {
		cursor := "  "
		style := normalItemStyle
		if i == t.cursor {
			cursor = "> "
			style = selectedItemStyle
		}
		box := "[ ]"
		if todo.Completed {
			box = "[x]"
			if i != t.cursor {
				style = doneItemStyle
			}
		}
		rows = append(rows, style.Render(fmt.Sprintf("%s%s %s", cursor, box, todo.Description)))
	}

	rows = append(rows, "")
	rows = append(rows, t.renderFooter())

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}

func (t todosModel) renderHeader() string {
	title := titleStyle.Render("Todos")
	filter := mutedStyle.Render(fmt.Sprintf("filter: %s", t.status))
	sort := mutedStyle.Render(fmt.Sprintf("sort: %s", t.sort))
	parts := []string{title, "  ", filter, "  ", sort}
	if t.query != "" {
		parts = append(parts, "  ", highlightStyle.Render(fmt.Sprintf("search: %q", t.query)))
	}
	return lipgloss.JoinHorizontal(lipgloss.Bottom, parts...)
}

func (t todosModel) renderFooter() string {
	page := mutedStyle.Render(fmt.Sprintf("  page %d/%d (%d items)", t.page+1, t.totalPages(), t.total))
	hints := mutedStyle.Render("  n: new  e: edit  x: toggle  d: delete  c: clear done  s: focus  /: search  f: filter  o: sort")
	return page + "\n" + hints
}
