// Package export writes to-do items and focus history to CSV or JSON files.
package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"time"

	"github.com/ktakeda/focusdo/internal/store"
)

// ToCSV writes todos to path, one row per item.
func ToCSV(todos []store.TodoItem, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	if err := w.Write([]string{"ID", "Description", "Completed", "Created", "Updated"}); err != nil {
		return err
	}

	for _, t := range todos {
		completed := "no"
		if t.Completed {
			completed = "yes"
		}
		row := []string{
			fmt.Sprintf("%d", t.ID),
			t.Description,
			completed,
			t.CreatedAt.Local().Format(time.RFC3339),
			t.UpdatedAt.Local().Format(time.RFC3339),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	return w.Error()
}

func formatSeconds(secs int64) string {
	h := secs / 3600
	m := (secs % 3600) / 60
	s := secs % 60
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}
