package store

import "time"

// DescriptionMaxLength is the longest accepted todo description.
const DescriptionMaxLength = 255

// MaxTodos caps the number of items a list may hold.
const MaxTodos = 100

type TodoItem struct {
	ID          int64
	Description string
	Completed   bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// FocusSession records one pomodoro run: its durations in seconds, how many
// work phases finished, and the phase or terminal status it ended in.
type FocusSession struct {
	ID             int64
	TodoID         *int64
	WorkDuration   int
	BreakDuration  int
	CompletedCount int
	TargetCount    int
	Status         string // work, break, long_break, completed, cancelled
	StartedAt      time.Time
	CompletedAt    *time.Time
}

type Setting struct {
	Key   string
	Value string
}

// TodoStatus filters a todo listing by completion state.
type TodoStatus string

const (
	StatusAll       TodoStatus = "all"
	StatusActive    TodoStatus = "active"
	StatusCompleted TodoStatus = "completed"
)

// TodoSort orders a todo listing.
type TodoSort string

const (
	SortCreated     TodoSort = "created"
	SortUpdated     TodoSort = "updated"
	SortActiveFirst TodoSort = "active_first"
)

// TodoFilter is used to filter and page todo listings. Zero values mean
// no filtering, default ordering, and no pagination.
type TodoFilter struct {
	Status TodoStatus
	Query  string
	Sort   TodoSort
	Limit  int
	Offset int
}

// DailyFocus is the aggregated focus time for one day.
type DailyFocus struct {
	Date         string
	TotalSeconds int64
	Sessions     int
}
