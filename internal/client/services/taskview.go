package services

import (
	"slices"
	"strings"
	"time"

	"github.com/dmitrijs2005/gophtodo/internal/client/models"
)

// FilterTasksByText keeps tasks whose title or description contains text,
// ignoring case. Blank text returns tasks unchanged.
func FilterTasksByText(tasks []models.Task, text string) []models.Task {
	if strings.TrimSpace(text) == "" {
		return tasks
	}
	needle := strings.ToLower(text)
	out := make([]models.Task, 0, len(tasks))
	for _, t := range tasks {
		if strings.Contains(strings.ToLower(t.Title), needle) ||
			strings.Contains(strings.ToLower(t.Description), needle) {
			out = append(out, t)
		}
	}
	return out
}

// FilterTasksByPriority keeps tasks with exactly priority p.
// models.PriorityAll returns tasks unchanged.
func FilterTasksByPriority(tasks []models.Task, p models.Priority) []models.Task {
	if p == models.PriorityAll {
		return tasks
	}
	out := make([]models.Task, 0, len(tasks))
	for _, t := range tasks {
		if t.Priority == p {
			out = append(out, t)
		}
	}
	return out
}

// SortTasksByDueDate returns a stably sorted copy. Tasks without a usable
// due date come last in both directions.
func SortTasksByDueDate(tasks []models.Task, ascending bool) []models.Task {
	out := slices.Clone(tasks)
	slices.SortStableFunc(out, func(a, b models.Task) int {
		da, okA := a.Due()
		db, okB := b.Due()
		switch {
		case !okA && !okB:
			return 0
		case !okA:
			return 1
		case !okB:
			return -1
		}
		c := da.Compare(db)
		if !ascending {
			c = -c
		}
		return c
	})
	return out
}

// SortTasksByPriority returns a stably sorted copy ordered by priority weight.
func SortTasksByPriority(tasks []models.Task, ascending bool) []models.Task {
	out := slices.Clone(tasks)
	slices.SortStableFunc(out, func(a, b models.Task) int {
		c := a.Priority.Weight() - b.Priority.Weight()
		if !ascending {
			c = -c
		}
		return c
	})
	return out
}

// IsOverdue reports whether t has a due date strictly before now and is not
// completed.
func IsOverdue(t models.Task, now time.Time) bool {
	if t.Status == models.StatusCompleted {
		return false
	}
	due, ok := t.Due()
	if !ok {
		return false
	}
	return due.Before(now)
}

// PartitionByStatus splits tasks into one column per status, keeping order.
// Every status in models.Statuses has an entry, possibly empty.
func PartitionByStatus(tasks []models.Task) map[models.Status][]models.Task {
	cols := make(map[models.Status][]models.Task, len(models.Statuses))
	for _, s := range models.Statuses {
		cols[s] = []models.Task{}
	}
	for _, t := range tasks {
		cols[t.Status] = append(cols[t.Status], t)
	}
	return cols
}

type SortField string

const (
	SortNone     SortField = "none"
	SortDueDate  SortField = "dueDate"
	SortPriority SortField = "priority"
)

// Query describes a dashboard view: text search, then priority filter, then
// an optional sort.
type Query struct {
	Text      string
	Priority  models.Priority
	SortBy    SortField
	Ascending bool
}

// ApplyQuery runs the search, filter and sort steps of q over tasks.
// An empty Priority is treated as models.PriorityAll.
func ApplyQuery(tasks []models.Task, q Query) []models.Task {
	out := FilterTasksByText(tasks, q.Text)
	if q.Priority != "" {
		out = FilterTasksByPriority(out, q.Priority)
	}
	switch q.SortBy {
	case SortDueDate:
		out = SortTasksByDueDate(out, q.Ascending)
	case SortPriority:
		out = SortTasksByPriority(out, q.Ascending)
	}
	return out
}
