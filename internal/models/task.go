package models

import (
	"strings"
	"time"
)

type Priority string

const (
	PriorityLow    Priority = "Low"
	PriorityMedium Priority = "Medium"
	PriorityHigh   Priority = "High"
)

// Priorities returns the selectable priorities in display order.
func Priorities() []Priority {
	return []Priority{PriorityLow, PriorityMedium, PriorityHigh}
}

func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	default:
		return false
	}
}

type Status string

const (
	StatusNew        Status = "New"
	StatusInProgress Status = "In Progress"
	StatusCompleted  Status = "Completed"
)

// Statuses returns the selectable statuses in display order.
func Statuses() []Status {
	return []Status{StatusNew, StatusInProgress, StatusCompleted}
}

func (s Status) Valid() bool {
	switch s {
	case StatusNew, StatusInProgress, StatusCompleted:
		return true
	default:
		return false
	}
}

type Task struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	DueDate     time.Time `json:"dueDate"`
	Priority    Priority  `json:"priority"`
	Category    string    `json:"category"`
	Status      Status    `json:"status"`
	Description string    `json:"description"`
}

// NormalizeDueDate converts t to the canonical stored form: UTC with
// millisecond precision and no monotonic clock reading.
func NormalizeDueDate(t time.Time) time.Time {
	return t.UTC().Truncate(time.Millisecond)
}

// ValidDueDate reports whether t can be stored and read back. The zero
// time reads as a missing date, and stored timestamps carry a four
// digit year.
func ValidDueDate(t time.Time) bool {
	n := NormalizeDueDate(t)
	return !n.IsZero() && n.Year() >= 0 && n.Year() <= 9999
}

// Draft holds the in-progress form values. EditingID is empty
// while a new task is being created.
type Draft struct {
	Title       string    `json:"title"`
	DueDate     time.Time `json:"dueDate"`
	Priority    Priority  `json:"priority"`
	Category    string    `json:"category"`
	Status      Status    `json:"status"`
	Description string    `json:"description"`
	EditingID   string    `json:"editingId,omitempty"`
}

func NewDraft(now time.Time) Draft {
	return Draft{
		DueDate:  NormalizeDueDate(now),
		Priority: PriorityLow,
		Status:   StatusNew,
	}
}

func DraftFromTask(task Task) Draft {
	return Draft{
		Title:       task.Title,
		DueDate:     task.DueDate,
		Priority:    task.Priority,
		Category:    task.Category,
		Status:      task.Status,
		Description: task.Description,
		EditingID:   task.ID,
	}
}

// Task builds the task with the given id from the draft values.
func (d Draft) Task(id string) Task {
	return Task{
		ID:          id,
		Title:       strings.TrimSpace(d.Title),
		DueDate:     NormalizeDueDate(d.DueDate),
		Priority:    d.Priority,
		Category:    d.Category,
		Status:      d.Status,
		Description: d.Description,
	}
}
