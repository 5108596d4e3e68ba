package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// ErrTodoLimit is returned by CreateTodo once MaxTodos items exist.
var ErrTodoLimit = errors.New("todo limit reached")

func (s *Store) CreateTodo(description string) (*TodoItem, error) {
	limited, err := s.TodoLimitReached(MaxTodos)
	if err != nil {
		return nil, err
	}
	if limited {
		return nil, ErrTodoLimit
	}

	now := time.Now().UTC().Format(time.RFC3339)
	res, err := s.db.Exec(
		`INSERT INTO todos (description, completed, created_at, updated_at) VALUES (?, 0, ?, ?)`,
		description, now, now,
	)
	if err != nil {
		return nil, fmt.Errorf("insert todo: %w", err)
	}
	id, _ := res.LastInsertId()
	return s.GetTodo(id)
}

func (s *Store) GetTodo(id int64) (*TodoItem, error) {
	t := &TodoItem{}
	var completed int
	var createdAt, updatedAt string
	err := s.db.QueryRow(
		`SELECT id, description, completed, created_at, updated_at FROM todos WHERE id = ?`, id,
	).Scan(&t.ID, &t.Description, &completed, &createdAt, &updatedAt)
	if err != nil {
		return nil, fmt.Errorf("get todo %d: %w", id, err)
	}
	t.Completed = completed == 1
	t.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	t.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
	return t, nil
}

func (s *Store) ListTodos(f TodoFilter) ([]TodoItem, error) {
	query := `SELECT id, description, completed, created_at, updated_at FROM todos WHERE 1=1`
	var args []any

	switch f.Status {
	case StatusActive:
		query += ` AND completed = 0`
	case StatusCompleted:
		query += ` AND completed = 1`
	}
	if f.Query != "" {
		query += ` AND description LIKE ? ESCAPE '\'`
		args = append(args, "%"+escapeLike(f.Query)+"%")
	}

	switch f.Sort {
	case SortUpdated:
		query += ` ORDER BY updated_at DESC, id DESC`
	case SortActiveFirst:
		query += ` ORDER BY completed ASC, created_at DESC, id DESC`
	default:
		query += ` ORDER BY created_at DESC, id DESC`
	}

	if f.Limit > 0 {
		query += fmt.Sprintf(` LIMIT %d OFFSET %d`, f.Limit, f.Offset)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list todos: %w", err)
	}
	defer rows.Close()

	var todos []TodoItem
	for rows.Next() {
		var t TodoItem
		var completed int
		var createdAt, updatedAt string
		if err := rows.Scan(&t.ID, &t.Description, &completed, &createdAt, &updatedAt); err != nil {
			return nil, err
		}
		t.Completed = completed == 1
		t.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		t.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
		todos = append(todos, t)
	}
	return todos, rows.Err()
}

// CountTodos returns the number of items matching the filter's status and
// query, ignoring pagination.
func (s *Store) CountTodos(f TodoFilter) (int, error) {
	query := `SELECT COUNT(*) FROM todos WHERE 1=1`
	var args []any

	switch f.Status {
	case StatusActive:
		query += ` AND completed = 0`
	case StatusCompleted:
		query += ` AND completed = 1`
	}
	if f.Query != "" {
		query += ` AND description LIKE ? ESCAPE '\'`
		args = append(args, "%"+escapeLike(f.Query)+"%")
	}

	var n int
	if err := s.db.QueryRow(query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count todos: %w", err)
	}
	return n, nil
}

// TodoLimitReached reports whether at least maxItems todos exist.
func (s *Store) TodoLimitReached(maxItems int) (bool, error) {
	var one int
	err := s.db.QueryRow(
		`SELECT 1 FROM todos LIMIT 1 OFFSET ?`, maxItems-1,
	).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("todo limit check: %w", err)
	}
	return true, nil
}

// ToggleTodo flips the completion state and returns the updated item.
func (s *Store) ToggleTodo(id int64) (*TodoItem, error) {
	now := time.Now().UTC().Format(time.RFC3339)
	_, err := s.db.Exec(
		`UPDATE todos SET completed = 1 - completed, updated_at = ? WHERE id = ?`, now, id,
	)
	if err != nil {
		return nil, fmt.Errorf("toggle todo %d: %w", id, err)
	}
	return s.GetTodo(id)
}

func (s *Store) UpdateTodoDescription(id int64, description string) (*TodoItem, error) {
	now := time.Now().UTC().Format(time.RFC3339)
	_, err := s.db.Exec(
		`UPDATE todos SET description = ?, updated_at = ? WHERE id = ?`,
		description, now, id,
	)
	if err != nil {
		return nil, fmt.Errorf("update todo %d: %w", id, err)
	}
	return s.GetTodo(id)
}

func (s *Store) DeleteTodo(id int64) error {
	_, err := s.db.Exec(`DELETE FROM todos WHERE id = ?`, id)
	return err
}

// DeleteCompletedTodos removes every completed item and reports how many.
func (s *Store) DeleteCompletedTodos() (int64, error) {
	res, err := s.db.Exec(`DELETE FROM todos WHERE completed = 1`)
	if err != nil {
		return 0, fmt.Errorf("delete completed todos: %w", err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}

// DeleteAllTodos removes every item and reports how many.
func (s *Store) DeleteAllTodos() (int64, error) {
	res, err := s.db.Exec(`DELETE FROM todos`)
	if err != nil {
		return 0, fmt.Errorf("delete all todos: %w", err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}

// TodayCompletedCount counts todos completed (last updated) today, UTC.
func (s *Store) TodayCompletedCount() (int, error) {
	today := time.Now().UTC().Format("2006-01-02")
	var n int
	err := s.db.QueryRow(
		`SELECT COUNT(*) FROM todos WHERE completed = 1 AND date(updated_at) = ?`, today,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("today completed count: %w", err)
	}
	return n, nil
}

// escapeLike escapes LIKE wildcards so user queries match literally.
func escapeLike(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '%', '_', '\\':
			out = append(out, '\\')
		}
		out = append(out, s[i])
	}
	return string(out)
}
