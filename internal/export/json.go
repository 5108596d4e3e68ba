package export

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/ktakeda/focusdo/internal/store"
)

type jsonExport struct {
	ExportedAt string        `json:"exported_at"`
	TodoCount  int           `json:"todo_count"`
	Todos      []jsonTodo    `json:"todos"`
	Sessions   []jsonSession `json:"focus_sessions,omitempty"`
}

type jsonTodo struct {
	ID          int64  `json:"id"`
	Description string `json:"description"`
	Completed   bool   `json:"completed"`
	CreatedAt   string `json:"created_at"`
	UpdatedAt   string `json:"updated_at"`
}

type jsonSession struct {
	ID             int64  `json:"id"`
	TodoID         *int64 `json:"todo_id,omitempty"`
	WorkDuration   int    `json:"work_duration_seconds"`
	CompletedCount int    `json:"completed_count"`
	TargetCount    int    `json:"target_count"`
	Status         string `json:"status"`
	FocusedTime    string `json:"focused_time"`
	StartedAt      string `json:"started_at"`
	CompletedAt    string `json:"completed_at,omitempty"`
}

// ToJSON writes todos and focus sessions to path as a single document.
func ToJSON(todos []store.TodoItem, sessions []store.FocusSession, path string) error {
	doc := jsonExport{
		ExportedAt: time.Now().UTC().Format(time.RFC3339),
		TodoCount:  len(todos),
	}

	for _, t := range todos {
		doc.Todos = append(doc.Todos, jsonTodo{
			ID:          t.ID,
			Description: t.Description,
			Completed:   t.Completed,
			CreatedAt:   t.CreatedAt.Local().Format(time.RFC3339),
			UpdatedAt:   t.UpdatedAt.Local().Format(time.RFC3339),
		})
	}

	for _, s := range sessions {
		completedAt := ""
		if s.CompletedAt != nil {
			completedAt = s.CompletedAt.Local().Format(time.RFC3339)
		}
		doc.Sessions = append(doc.Sessions, jsonSession{
			ID:             s.ID,
			TodoID:         s.TodoID,
			WorkDuration:   s.WorkDuration,
			CompletedCount: s.CompletedCount,
			TargetCount:    s.TargetCount,
			Status:         s.Status,
			FocusedTime:    formatSeconds(int64(s.WorkDuration) * int64(s.CompletedCount)),
			StartedAt:      s.StartedAt.Local().Format(time.RFC3339),
			CompletedAt:    completedAt,
		})
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write json file: %w", err)
	}
	return nil
}
