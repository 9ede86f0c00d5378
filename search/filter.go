package search

import (
	"math"
	"time"

	"github.com/weekwise/weekwise/types"
)

// Status buckets derived from the number of days until a task is due.
const (
	StatusOverdue  = "overdue"  // days < 0
	StatusDueSoon  = "due-soon" // 0 <= days <= 3
	StatusUpcoming = "upcoming" // 4 <= days <= 30
	StatusFuture   = "future"   // days > 30
)

// Filters is a conjunctive filter over the task collection. Zero values
// skip the corresponding check, as do unparseable date bounds.
type Filters struct {
	Tag         string
	DueFrom     string // inclusive, YYYY-MM-DD
	DueTo       string // inclusive
	MinDuration *float64
	MaxDuration *float64
	Status      string
}

// FilterTasks returns the tasks passing every configured check.
func FilterTasks(tasks []types.Task, f Filters, now time.Time) []types.Task {
	from, fromOK := parseBound(f.DueFrom)
	to, toOK := parseBound(f.DueTo)

	var out []types.Task
	for _, t := range tasks {
		if f.Tag != "" && t.Tag != f.Tag {
			continue
		}
		if fromOK || toOK {
			due, err := t.DueTime()
			if err != nil {
				continue
			}
			if fromOK && due.Before(from) {
				continue
			}
			if toOK && due.After(to.Add(24*time.Hour-time.Nanosecond)) {
				continue
			}
		}
		if f.MinDuration != nil && t.Duration < *f.MinDuration {
			continue
		}
		if f.MaxDuration != nil && t.Duration > *f.MaxDuration {
			continue
		}
		if f.Status != "" && StatusOf(t, now) != f.Status {
			continue
		}
		out = append(out, t.Clone())
	}
	return out
}

// StatusOf buckets a task by days-until-due, computed as
// ceil((due-now)/24h). Tasks with an unparseable due date report an empty
// status and match no status filter.
func StatusOf(t types.Task, now time.Time) string {
	due, err := t.DueTime()
	if err != nil {
		return ""
	}
	days := DaysUntil(due, now)
	switch {
	case days < 0:
		return StatusOverdue
	case days <= 3:
		return StatusDueSoon
	case days <= 30:
		return StatusUpcoming
	default:
		return StatusFuture
	}
}

// DaysUntil returns ceil((due - now) / 1 day).
func DaysUntil(due, now time.Time) int {
	return int(math.Ceil(due.Sub(now).Hours() / 24))
}

func parseBound(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	parsed, err := time.Parse(types.DateLayout, s)
	if err != nil {
		return time.Time{}, false
	}
	return parsed, true
}
