package search

import "github.com/weekwise/weekwise/types"

// DefaultMaxResults bounds a result set when the caller does not.
const DefaultMaxResults = 1000

// Default highlight markers wrapped around match occurrences.
const (
	defaultStartMarker = "<mark>"
	defaultEndMarker   = "</mark>"
)

// Options configures query execution.
type Options struct {
	// Fields restricts which task fields are searched. Empty means the
	// default set: title, description, tag.
	Fields []string

	// CaseSensitive compiles the query without the (?i) flag.
	CaseSensitive bool

	// MaxResults caps the result set; zero or negative means the default.
	MaxResults int

	// Highlight markers; empty strings select the defaults.
	HighlightStartMarker string
	HighlightEndMarker   string
}

// Result is one matched task with its accumulated score.
type Result struct {
	// Task is the matched task.
	Task types.Task

	// Score accumulates weighted match counts across fields. An empty
	// query wraps every task with a zero score.
	Score int

	// Highlights maps each matched field to its value with every match
	// occurrence wrapped in the highlight markers.
	Highlights map[string]string

	// MatchedFields lists the fields that contained at least one match.
	MatchedFields []string
}

// fieldWeights scores matches by where they occur. Unknown fields weigh 1.
var fieldWeights = map[string]int{
	"title":       3,
	"tag":         2,
	"description": 1,
}

func weightOf(field string) int {
	if w, ok := fieldWeights[field]; ok {
		return w
	}
	return 1
}

var defaultFields = []string{"title", "description", "tag"}

// fieldValue extracts a searchable field from a task. Unknown fields
// yield an empty value and therefore never match.
func fieldValue(t types.Task, field string) string {
	switch field {
	case "title":
		return t.Title
	case "description":
		return t.Description
	case "tag":
		return t.Tag
	case "dueDate":
		return t.DueDate
	}
	return ""
}
