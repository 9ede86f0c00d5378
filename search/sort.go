package search

import (
	"sort"

	"github.com/weekwise/weekwise/types"
)

// Sort criteria accepted by SortTasks.
const (
	SortPriority     = "priority"
	SortTitleAsc     = "title-asc"
	SortTitleDesc    = "title-desc"
	SortTagAsc       = "tag-asc"
	SortTagDesc      = "tag-desc"
	SortDueAsc       = "due-asc"
	SortDueDesc      = "due-desc"
	SortCreatedAsc   = "created-asc"
	SortCreatedDesc  = "created-desc"
	SortDurationAsc  = "duration-asc"
	SortDurationDesc = "duration-desc"
)

// priorityRank orders the fixed tag vocabulary; unmapped tags sort last.
var priorityRank = map[string]int{
	types.TagUrgentImportant:    0,
	types.TagImportantNotUrgent: 1,
	types.TagUrgentNotImportant: 2,
}

const unrankedPriority = 3

// SortTasks returns a sorted copy of the collection; the input is never
// mutated. An unknown criterion returns the input order unchanged.
func SortTasks(tasks []types.Task, criterion string) []types.Task {
	out := types.CloneTasks(tasks)

	var less func(a, b types.Task) bool
	switch criterion {
	case SortPriority:
		less = func(a, b types.Task) bool {
			return rankOf(a.Tag) < rankOf(b.Tag)
		}
	case SortTitleAsc:
		less = func(a, b types.Task) bool { return a.Title < b.Title }
	case SortTitleDesc:
		less = func(a, b types.Task) bool { return a.Title > b.Title }
	case SortTagAsc:
		less = func(a, b types.Task) bool { return a.Tag < b.Tag }
	case SortTagDesc:
		less = func(a, b types.Task) bool { return a.Tag > b.Tag }
	case SortDueAsc:
		less = func(a, b types.Task) bool { return dueKey(a) < dueKey(b) }
	case SortDueDesc:
		less = func(a, b types.Task) bool { return dueKey(a) > dueKey(b) }
	case SortCreatedAsc:
		less = func(a, b types.Task) bool { return a.CreatedAt.Before(b.CreatedAt) }
	case SortCreatedDesc:
		less = func(a, b types.Task) bool { return b.CreatedAt.Before(a.CreatedAt) }
	case SortDurationAsc:
		less = func(a, b types.Task) bool { return a.Duration < b.Duration }
	case SortDurationDesc:
		less = func(a, b types.Task) bool { return a.Duration > b.Duration }
	default:
		return out
	}

	sort.SliceStable(out, func(i, j int) bool { return less(out[i], out[j]) })
	return out
}

func rankOf(tag string) int {
	if r, ok := priorityRank[tag]; ok {
		return r
	}
	return unrankedPriority
}

// dueKey sorts ISO-like due dates lexicographically; a date-only value
// sorts before the same date with a time suffix, and unparseable values
// keep their relative position at the end.
func dueKey(t types.Task) string {
	if t.DueDate == "" {
		return "~" // past any digit
	}
	return t.DueDate
}
