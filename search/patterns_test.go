package search_test

import (
	"testing"

	"github.com/weekwise/weekwise/search"
	"github.com/weekwise/weekwise/types"
)

func TestSearchByPatternDuplicateWord(t *testing.T) {
	tasks := []types.Task{
		{ID: "1", Title: "schedule the the meeting"},
		{ID: "2", Title: "no repeats here", Description: "really really important"},
		{ID: "3", Title: "three three three words"},
		{ID: "4", Title: "bob ate a banana"}, // "b" runs, no adjacency
	}

	results := search.SearchByPattern(search.PatternDuplicateWord, tasks)
	if len(results) != 3 {
		t.Fatalf("got %d results, want 3", len(results))
	}
	for _, r := range results {
		if r.Task.ID == "4" {
			t.Error("task 4 has no adjacent duplicate and must not match")
		}
	}

	// Case-insensitive, and the highlight spans both occurrences.
	mixed := []types.Task{{ID: "m", Title: "Send Send it"}}
	got := search.SearchByPattern(search.PatternDuplicateWord, mixed)
	if len(got) != 1 {
		t.Fatal("case-mixed duplicate should match")
	}
	want := "<mark>Send Send</mark> it"
	if got[0].Highlights["title"] != want {
		t.Errorf("highlight = %q, want %q", got[0].Highlights["title"], want)
	}
}

func TestSearchByPatternTriplesCountOnce(t *testing.T) {
	// "three three three" pairs the first two occurrences only; the middle
	// word cannot start a second pair.
	tasks := []types.Task{{ID: "1", Title: "three three three words"}}
	results := search.SearchByPattern(search.PatternDuplicateWord, tasks)
	if len(results) != 1 || results[0].Score != 1 {
		t.Fatalf("results = %+v, want one result with score 1", results)
	}
}

func TestSearchByPatternNamed(t *testing.T) {
	tasks := []types.Task{
		{ID: "1", Title: "Call at 14:30", Description: "mail bob@example.com about https://example.com/spec"},
		{ID: "2", Title: "Budget review", Description: "allocate $120.50 for #launch, ping @dana"},
	}

	cases := []struct {
		pattern string
		wantID  string
	}{
		{search.PatternTime, "1"},
		{search.PatternEmail, "1"},
		{search.PatternURL, "1"},
		{search.PatternCurrency, "2"},
		{search.PatternHashtag, "2"},
		{search.PatternMention, "2"},
	}
	for _, c := range cases {
		results := search.SearchByPattern(c.pattern, tasks)
		if len(results) != 1 || results[0].Task.ID != c.wantID {
			t.Errorf("%s: got %d results (first %+v), want task %s", c.pattern, len(results), first(results), c.wantID)
		}
	}
}

func first(results []search.Result) string {
	if len(results) == 0 {
		return "<none>"
	}
	return results[0].Task.ID
}

func TestSearchByPatternUnknownType(t *testing.T) {
	results := search.SearchByPattern("nonexistent", fixtureTasks())
	if len(results) != 0 {
		t.Errorf("unknown pattern type should yield empty set, got %d", len(results))
	}
}

func TestPatternTypesListsAll(t *testing.T) {
	got := search.PatternTypes()
	if len(got) != 8 {
		t.Fatalf("got %d pattern types: %v", len(got), got)
	}
	for i := 1; i < len(got); i++ {
		if got[i-1] >= got[i] {
			t.Errorf("pattern types not sorted: %v", got)
		}
	}
}
