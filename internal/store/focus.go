package store

import (
	"database/sql"
	"fmt"
	"time"
)

func (s *Store) StartFocusSession(todoID *int64, workDuration, breakDuration, targetCount int) (*FocusSession, error) {
	now := time.Now().UTC().Format(time.RFC3339)
	res, err := s.db.Exec(
		`INSERT INTO focus_sessions (todo_id, work_duration, break_duration, target_count, status, started_at)
		 VALUES (?, ?, ?, ?, 'work', ?)`,
		todoID, workDuration, breakDuration, targetCount, now,
	)
	if err != nil {
		return nil, fmt.Errorf("start focus session: %w", err)
	}
	id, _ := res.LastInsertId()
	return s.GetFocusSession(id)
}

func (s *Store) GetFocusSession(id int64) (*FocusSession, error) {
	f := &FocusSession{}
	var startedAt string
	var completedAt sql.NullString
	var todoID sql.NullInt64

	err := s.db.QueryRow(
		`SELECT id, todo_id, work_duration, break_duration, completed_count, target_count, status, started_at, completed_at
		 FROM focus_sessions WHERE id = ?`, id,
	).Scan(&f.ID, &todoID, &f.WorkDuration, &f.BreakDuration, &f.CompletedCount, &f.TargetCount, &f.Status, &startedAt, &completedAt)
	if err != nil {
		return nil, fmt.Errorf("get focus session %d: %w", id, err)
	}
	if todoID.Valid {
		f.TodoID = &todoID.Int64
	}
	f.StartedAt, _ = time.Parse(time.RFC3339, startedAt)
	if completedAt.Valid {
		t, _ := time.Parse(time.RFC3339, completedAt.String)
		f.CompletedAt = &t
	}
	return f, nil
}

// IncrementFocusSession records one more completed work phase.
func (s *Store) IncrementFocusSession(id int64) error {
	_, err := s.db.Exec(
		`UPDATE focus_sessions SET completed_count = completed_count + 1 WHERE id = ?`, id,
	)
	return err
}

func (s *Store) UpdateFocusStatus(id int64, status string) error {
	_, err := s.db.Exec(
		`UPDATE focus_sessions SET status = ? WHERE id = ?`, status, id,
	)
	return err
}

func (s *Store) CompleteFocusSession(id int64) error {
	now := time.Now().UTC().Format(time.RFC3339)
	_, err := s.db.Exec(
		`UPDATE focus_sessions SET status = 'completed', completed_at = ? WHERE id = ?`,
		now, id,
	)
	return err
}

func (s *Store) CancelFocusSession(id int64) error {
	now := time.Now().UTC().Format(time.RFC3339)
	_, err := s.db.Exec(
		`UPDATE focus_sessions SET status = 'cancelled', completed_at = ? WHERE id = ?`,
		now, id,
	)
	return err
}

// ListFocusSessions returns sessions started in [from, to), newest first.
func (s *Store) ListFocusSessions(from, to time.Time) ([]FocusSession, error) {
	rows, err := s.db.Query(
		`SELECT id, todo_id, work_duration, break_duration, completed_count, target_count, status, started_at, completed_at
		 FROM focus_sessions
		 WHERE started_at >= ? AND started_at < ?
		 ORDER BY started_at DESC`,
		from.Format(time.RFC3339), to.Format(time.RFC3339),
	)
	if err != nil {
		return nil, fmt.Errorf("list focus sessions: %w", err)
	}
	defer rows.Close()

	var sessions []FocusSession
	for rows.Next() {
		var f FocusSession
		var startedAt string
		var completedAt sql.NullString
		var todoID sql.NullInt64
		if err := rows.Scan(&f.ID, &todoID, &f.WorkDuration, &f.BreakDuration, &f.CompletedCount, &f.TargetCount, &f.Status, &startedAt, &completedAt); err != nil {
			return nil, err
		}
		if todoID.Valid {
			f.TodoID = &todoID.Int64
		}
		f.StartedAt, _ = time.Parse(time.RFC3339, startedAt)
		if completedAt.Valid {
			t, _ := time.Parse(time.RFC3339, completedAt.String)
			f.CompletedAt = &t
		}
		sessions = append(sessions, f)
	}
	return sessions, rows.Err()
}

// GetFocusStats sums completed work phases and focused seconds in [from, to).
func (s *Store) GetFocusStats(from, to time.Time) (phases int, totalWork int64, err error) {
	err = s.db.QueryRow(`
		SELECT COALESCE(SUM(completed_count), 0), COALESCE(SUM(work_duration * completed_count), 0)
		FROM focus_sessions
		WHERE started_at >= ? AND started_at < ?`,
		from.Format(time.RFC3339), to.Format(time.RFC3339),
	).Scan(&phases, &totalWork)
	return
}

// GetDailyFocus aggregates focused time per day for sessions started in
// [from, to).
func (s *Store) GetDailyFocus(from, to time.Time) ([]DailyFocus, error) {
	rows, err := s.db.Query(`
		SELECT date(started_at) AS day,
		       COALESCE(SUM(work_duration * completed_count), 0),
		       COUNT(*)
		FROM focus_sessions
		WHERE started_at >= ? AND started_at < ?
		GROUP BY day
		ORDER BY day`,
		from.Format(time.RFC3339), to.Format(time.RFC3339),
	)
	if err != nil {
		return nil, fmt.Errorf("daily focus: %w", err)
	}
	defer rows.Close()

	var days []DailyFocus
	for rows.Next() {
		var d DailyFocus
		if err := rows.Scan(&d.Date, &d.TotalSeconds, &d.Sessions); err != nil {
			return nil, err
		}
		days = append(days, d)
	}
	return days, rows.Err()
}
