package types

import (
	"strings"
	"time"
)

// Priority tags drawn from the fixed vocabulary. Tags outside this set are
// free-form categories and sort after the known tiers.
const (
	TagUrgentImportant    = "Urgent & Important"
	TagImportantNotUrgent = "Important but Not Urgent"
	TagUrgentNotImportant = "Urgent but Not Important"
)

// Date layouts accepted for Task.DueDate.
const (
	DateLayout     = "2006-01-02"
	DateTimeLayout = "2006-01-02T15:04"
)

// Task represents a schedulable unit of work.
type Task struct {
	ID          string     `json:"id" yaml:"id"`
	Title       string     `json:"title" yaml:"title"`
	DueDate     string     `json:"dueDate" yaml:"dueDate"` // YYYY-MM-DD with optional THH:MM
	Duration    float64    `json:"duration" yaml:"duration"` // always stored in hours
	Tag         string     `json:"tag" yaml:"tag"`
	Description string     `json:"description,omitempty" yaml:"description,omitempty"`
	Completed   bool       `json:"completed" yaml:"completed"`
	CreatedAt   time.Time  `json:"createdAt" yaml:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt" yaml:"updatedAt"`
	CompletedAt *time.Time `json:"completedAt,omitempty" yaml:"completedAt,omitempty"`
}

// DueTime parses the due date, with or without a time-of-day component.
func (t Task) DueTime() (time.Time, error) {
	if strings.Contains(t.DueDate, "T") {
		return time.Parse(DateTimeLayout, t.DueDate)
	}
	return time.Parse(DateLayout, t.DueDate)
}

// CompletionTime returns the completion timestamp. For legacy or imported
// records that are completed but carry no CompletedAt, it falls back to
// UpdatedAt. Only meaningful when Completed is true.
func (t Task) CompletionTime() time.Time {
	if t.CompletedAt != nil {
		return *t.CompletedAt
	}
	return t.UpdatedAt
}

// Clone returns a deep copy of the task.
func (t Task) Clone() Task {
	out := t
	if t.CompletedAt != nil {
		at := *t.CompletedAt
		out.CompletedAt = &at
	}
	return out
}

// CloneTasks returns a deep copy of a task collection.
func CloneTasks(tasks []Task) []Task {
	if tasks == nil {
		return nil
	}
	out := make([]Task, len(tasks))
	for i, t := range tasks {
		out[i] = t.Clone()
	}
	return out
}
