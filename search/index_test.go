package search_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/weekwise/weekwise/search"
)

func TestTokenize(t *testing.T) {
	cases := []struct {
		in   string
		want []string
	}{
		{"Write the project report", []string{"write", "project", "report"}},
		{"Milk, bread and report cards", []string{"milk", "bread", "report", "cards"}},
		{"  ", nil},
		{"a an the", nil},
		{"snake_case stays_joined", []string{"snake_case", "stays_joined"}},
	}
	for _, c := range cases {
		if diff := cmp.Diff(c.want, search.Tokenize(c.in)); diff != "" {
			t.Errorf("Tokenize(%q) mismatch (-want +got):\n%s", c.in, diff)
		}
	}
}

func TestIndexLookup(t *testing.T) {
	idx := search.NewIndex(map[string][]string{
		"1": {"Write project report"},
		"2": {"Team meeting"},
		"3": {"Report cards", "Chores"},
	})

	if diff := cmp.Diff([]string{"1", "3"}, idx.Lookup("report")); diff != "" {
		t.Errorf("Lookup(report) mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"1", "3"}, idx.Lookup("REPORT")); diff != "" {
		t.Errorf("lookup should normalize case (-want +got):\n%s", diff)
	}
	if got := idx.Lookup("absent"); got != nil {
		t.Errorf("Lookup(absent) = %v, want nil", got)
	}
}

func TestIndexSuggest(t *testing.T) {
	idx := search.NewIndex(map[string][]string{
		"1": {"report review reply"},
		"2": {"meeting"},
	})

	if diff := cmp.Diff([]string{"reply", "report", "review"}, idx.Suggest("re", 10)); diff != "" {
		t.Errorf("Suggest mismatch (-want +got):\n%s", diff)
	}
	if got := idx.Suggest("re", 2); len(got) != 2 {
		t.Errorf("Suggest should cap at max, got %v", got)
	}
	if got := idx.Suggest("", 10); got != nil {
		t.Errorf("empty prefix should yield nothing, got %v", got)
	}
}
