package models

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"

	// PriorityAll is a filter value, never stored on a task.
	PriorityAll Priority = "all"
)

// Valid reports whether p can be stored on a task.
func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// Weight orders priorities: low=1, medium=2, high=3. Unknown values weigh 0.
func (p Priority) Weight() int {
	switch p {
	case PriorityLow:
		return 1
	case PriorityMedium:
		return 2
	case PriorityHigh:
		return 3
	}
	return 0
}

func (p Priority) Label() string {
	switch p {
	case PriorityLow:
		return "Low"
	case PriorityMedium:
		return "Medium"
	case PriorityHigh:
		return "High"
	case PriorityAll:
		return "All"
	}
	return string(p)
}

// ParsePriority accepts the stored names case-insensitively, plus "all".
func ParsePriority(s string) (Priority, error) {
	p := Priority(strings.ToLower(strings.TrimSpace(s)))
	if p.Valid() || p == PriorityAll {
		return p, nil
	}
	return "", fmt.Errorf("unknown priority %q", s)
}

type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in-progress"
	StatusCompleted  Status = "completed"
)

// Statuses lists every status in board column order.
var Statuses = []Status{StatusPending, StatusInProgress, StatusCompleted}

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted:
		return true
	}
	return false
}

func (s Status) Label() string {
	switch s {
	case StatusPending:
		return "Pending"
	case StatusInProgress:
		return "In progress"
	case StatusCompleted:
		return "Completed"
	}
	return string(s)
}

// ParseStatus accepts the stored names case-insensitively. "in_progress" and
// "inprogress" are accepted for in-progress.
func ParseStatus(s string) (Status, error) {
	v := strings.ToLower(strings.TrimSpace(s))
	switch v {
	case "in_progress", "inprogress":
		return StatusInProgress, nil
	}
	if st := Status(v); st.Valid() {
		return st, nil
	}
	return "", fmt.Errorf("unknown status %q", s)
}

type Task struct {
	ID          string   `json:"id"`
	UserID      string   `json:"userId"`
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	DueDate     string   `json:"dueDate,omitempty"`
	Priority    Priority `json:"priority"`
	Status      Status   `json:"status"`
	CreatedAt   string   `json:"createdAt"`
	UpdatedAt   string   `json:"updatedAt"`
}

// Due returns the parsed due date. ok is false when the task has no due
// date or it cannot be parsed.
func (t Task) Due() (time.Time, bool) {
	return ParseDueDate(t.DueDate)
}

// Validate checks the user-editable fields: a trimmed title of at least
// minTitle runes, a storable priority and status, and a parsable due date
// when one is set.
func (t Task) Validate(minTitle int) error {
	if utf8.RuneCountInString(strings.TrimSpace(t.Title)) < minTitle {
		return fmt.Errorf("title must be at least %d characters", minTitle)
	}
	if !t.Priority.Valid() {
		return fmt.Errorf("unknown priority %q", t.Priority)
	}
	if !t.Status.Valid() {
		return fmt.Errorf("unknown status %q", t.Status)
	}
	if strings.TrimSpace(t.DueDate) != "" {
		if _, ok := t.Due(); !ok {
			return fmt.Errorf("due date %q is not YYYY-MM-DD or RFC 3339", t.DueDate)
		}
	}
	return nil
}
