package search_test

import (
	"testing"
	"time"

	"github.com/weekwise/weekwise/search"
	"github.com/weekwise/weekwise/types"
)

var filterNow = time.Date(2026, 4, 10, 12, 0, 0, 0, time.UTC)

func TestStatusBuckets(t *testing.T) {
	cases := []struct {
		due  string
		want string
	}{
		{"2026-04-09", search.StatusOverdue},       // yesterday, ceil = -1
		{"2026-04-10T09:00", search.StatusDueSoon}, // earlier today, ceil = 0
		{"2026-04-10T18:00", search.StatusDueSoon}, // later today, ceil = 1
		{"2026-04-13", search.StatusDueSoon},   // 3 days out
		{"2026-04-14", search.StatusUpcoming},  // 4 days out
		{"2026-05-10", search.StatusUpcoming},  // 30 days out
		{"2026-05-11", search.StatusFuture},    // 31 days out
		{"garbage", ""},
	}
	for _, c := range cases {
		got := search.StatusOf(types.Task{DueDate: c.due}, filterNow)
		if got != c.want {
			t.Errorf("due %q: status %q, want %q", c.due, got, c.want)
		}
	}
}

func TestFilterTasksConjunctive(t *testing.T) {
	tasks := []types.Task{
		{ID: "1", Title: "a", DueDate: "2026-04-11", Duration: 2, Tag: "Work"},
		{ID: "2", Title: "b", DueDate: "2026-04-20", Duration: 5, Tag: "Work"},
		{ID: "3", Title: "c", DueDate: "2026-04-11", Duration: 2, Tag: "Home"},
	}

	min := 1.0
	got := search.FilterTasks(tasks, search.Filters{
		Tag:         "Work",
		DueFrom:     "2026-04-10",
		DueTo:       "2026-04-15",
		MinDuration: &min,
	}, filterNow)
	if len(got) != 1 || got[0].ID != "1" {
		t.Errorf("got %v, want only task 1", ids(got))
	}

	// Invalid bounds skip the date check entirely.
	got = search.FilterTasks(tasks, search.Filters{Tag: "Work", DueFrom: "not-a-date"}, filterNow)
	if len(got) != 2 {
		t.Errorf("invalid bound should be skipped, got %v", ids(got))
	}

	// Inclusive upper bound.
	got = search.FilterTasks(tasks, search.Filters{DueTo: "2026-04-11"}, filterNow)
	if len(got) != 2 {
		t.Errorf("DueTo should be inclusive, got %v", ids(got))
	}

	// Status filter composes with the rest.
	got = search.FilterTasks(tasks, search.Filters{Status: search.StatusUpcoming}, filterNow)
	if len(got) != 1 || got[0].ID != "2" {
		t.Errorf("status filter: got %v, want task 2", ids(got))
	}
}

func ids(tasks []types.Task) []string {
	out := make([]string, len(tasks))
	for i, t := range tasks {
		out[i] = t.ID
	}
	return out
}

func TestSortTasksPriorityOrder(t *testing.T) {
	tasks := []types.Task{
		{Tag: "Someday"},
		{Tag: types.TagUrgentNotImportant},
		{Tag: types.TagImportantNotUrgent},
		{Tag: types.TagUrgentImportant},
	}
	got := search.SortTasks(tasks, search.SortPriority)
	want := []string{
		types.TagUrgentImportant,
		types.TagImportantNotUrgent,
		types.TagUrgentNotImportant,
		"Someday",
	}
	for i := range want {
		if got[i].Tag != want[i] {
			t.Fatalf("position %d: got %q, want %q", i, got[i].Tag, want[i])
		}
	}

	// Exact three-tier ordering from the vocabulary.
	trio := []types.Task{
		{Tag: types.TagUrgentImportant},
		{Tag: types.TagImportantNotUrgent},
		{Tag: types.TagUrgentNotImportant},
	}
	sorted := search.SortTasks(trio, search.SortPriority)
	for i := range trio {
		if sorted[i].Tag != trio[i].Tag {
			t.Errorf("already-ordered input must be preserved, position %d got %q", i, sorted[i].Tag)
		}
	}
}

func TestSortTasksDoesNotMutateInput(t *testing.T) {
	tasks := []types.Task{{Title: "b"}, {Title: "a"}}
	_ = search.SortTasks(tasks, search.SortTitleAsc)
	if tasks[0].Title != "b" {
		t.Error("input order mutated")
	}
}

func TestSortTasksCriteria(t *testing.T) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	tasks := []types.Task{
		{Title: "bravo", Tag: "z", DueDate: "2026-02-01", Duration: 3, CreatedAt: base.Add(2 * time.Hour)},
		{Title: "alpha", Tag: "y", DueDate: "2026-03-01", Duration: 1, CreatedAt: base},
		{Title: "charlie", Tag: "x", DueDate: "2026-01-15", Duration: 2, CreatedAt: base.Add(time.Hour)},
	}

	checks := []struct {
		criterion string
		first     string
	}{
		{search.SortTitleAsc, "alpha"},
		{search.SortTitleDesc, "charlie"},
		{search.SortTagAsc, "charlie"},
		{search.SortDueAsc, "charlie"},
		{search.SortDueDesc, "alpha"},
		{search.SortCreatedAsc, "alpha"},
		{search.SortCreatedDesc, "bravo"},
		{search.SortDurationAsc, "alpha"},
		{search.SortDurationDesc, "bravo"},
	}
	for _, c := range checks {
		got := search.SortTasks(tasks, c.criterion)
		if got[0].Title != c.first {
			t.Errorf("%s: first = %q, want %q", c.criterion, got[0].Title, c.first)
		}
	}

	// Unknown criterion returns input order unchanged.
	got := search.SortTasks(tasks, "nonsense")
	for i := range tasks {
		if got[i].Title != tasks[i].Title {
			t.Errorf("unknown criterion should preserve order, position %d got %q", i, got[i].Title)
		}
	}
}
