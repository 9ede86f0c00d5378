// Package search implements the regex-based query engine over the task
// collection: an inverted index for suggestions, weighted scoring with
// highlight markers, a fixed library of named patterns, and conjunctive
// filtering and sorting.
package search

import (
	"fmt"
	"log/slog"
	"regexp"
	"sort"
	"strings"
	"sync"

	"github.com/weekwise/weekwise/types"
)

// Engine executes queries against a task collection. Identical queries
// are cached until Initialize is called with a new collection, which
// invalidates the whole cache: staleness can never survive a data change.
type Engine struct {
	mu     sync.Mutex
	index  *Index
	cache  map[cacheKey][]Result
	logger *slog.Logger
}

type cacheKey struct {
	query         string
	caseSensitive bool
	fields        string
	startMarker   string
	endMarker     string
}

// NewEngine creates an engine with an empty index and cache. A nil
// logger falls back to slog.Default.
func NewEngine(logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		index:  NewIndex(nil),
		cache:  make(map[cacheKey][]Result),
		logger: logger,
	}
}

// Initialize rebuilds the inverted index from the given tasks and drops
// every cached query result.
func (e *Engine) Initialize(tasks []types.Task) {
	entries := make(map[string][]string, len(tasks))
	for _, t := range tasks {
		entries[t.ID] = []string{t.Title, t.Description, t.Tag}
	}

	e.mu.Lock()
	e.index = NewIndex(entries)
	e.cache = make(map[cacheKey][]Result)
	e.mu.Unlock()
}

// Suggest proposes indexed terms for a query prefix.
func (e *Engine) Suggest(prefix string, max int) []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.index.Suggest(prefix, max)
}

// compilePattern isolates regex compilation behind a value-or-error
// result so malformed patterns never surface as exceptions to callers.
func compilePattern(query string, caseSensitive bool) (*regexp.Regexp, error) {
	if !caseSensitive {
		query = "(?i)" + query
	}
	re, err := regexp.Compile(query)
	if err != nil {
		return nil, fmt.Errorf("invalid pattern: %w", err)
	}
	return re, nil
}

// SearchTasks executes the query string as a regular expression over the
// configured fields of each task. An empty or whitespace query returns
// every task as a zero-score result; a malformed pattern returns an empty
// result set.
func (e *Engine) SearchTasks(query string, tasks []types.Task, opts Options) []Result {
	if strings.TrimSpace(query) == "" {
		results := make([]Result, len(tasks))
		for i, t := range tasks {
			results[i] = Result{Task: t.Clone()}
		}
		return results
	}

	fields := opts.Fields
	if len(fields) == 0 {
		fields = defaultFields
	}
	startMarker := opts.HighlightStartMarker
	endMarker := opts.HighlightEndMarker
	if startMarker == "" {
		startMarker = defaultStartMarker
	}
	if endMarker == "" {
		endMarker = defaultEndMarker
	}

	// The markers are part of the key: cached highlights are already
	// wrapped, so a different marker pair is a different result set.
	key := cacheKey{
		query:         query,
		caseSensitive: opts.CaseSensitive,
		fields:        strings.Join(fields, "\x00"),
		startMarker:   startMarker,
		endMarker:     endMarker,
	}

	e.mu.Lock()
	if cached, ok := e.cache[key]; ok {
		e.mu.Unlock()
		return cloneResults(cached)
	}
	e.mu.Unlock()

	re, err := compilePattern(query, opts.CaseSensitive)
	if err != nil {
		e.logger.Debug("rejecting malformed query", "query", query, "error", err)
		return []Result{}
	}

	var results []Result
	for _, t := range tasks {
		if r := searchTask(t, re, fields, startMarker, endMarker); r != nil {
			results = append(results, *r)
		}
	}

	// Stable: equal scores keep original collection order.
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	max := opts.MaxResults
	if max <= 0 {
		max = DefaultMaxResults
	}
	if len(results) > max {
		results = results[:max]
	}

	e.mu.Lock()
	e.cache[key] = cloneResults(results)
	e.mu.Unlock()
	return results
}

// searchTask scores one task against the compiled pattern, or returns nil
// when no field matches.
func searchTask(t types.Task, re *regexp.Regexp, fields []string, startMarker, endMarker string) *Result {
	result := Result{Task: t.Clone()}
	for _, field := range fields {
		value := fieldValue(t, field)
		if value == "" {
			continue
		}
		locs := matchLocations(re, value)
		if len(locs) == 0 {
			continue
		}
		result.Score += len(locs) * weightOf(field)
		result.MatchedFields = append(result.MatchedFields, field)
		if result.Highlights == nil {
			result.Highlights = make(map[string]string)
		}
		result.Highlights[field] = highlight(value, locs, startMarker, endMarker)
	}
	if result.Score == 0 {
		return nil
	}
	return &result
}

// matchLocations finds all non-overlapping matches, leftmost first. A
// zero-width match is advanced past explicitly so patterns like `a*`
// cannot loop forever.
func matchLocations(re *regexp.Regexp, s string) [][]int {
	var locs [][]int
	pos := 0
	for pos <= len(s) {
		loc := re.FindStringIndex(s[pos:])
		if loc == nil {
			break
		}
		start, end := pos+loc[0], pos+loc[1]
		locs = append(locs, []int{start, end})
		if end == start {
			pos = end + 1 // step past a zero-width match
		} else {
			pos = end
		}
	}
	return locs
}

// highlight wraps each match occurrence in the given markers.
func highlight(s string, locs [][]int, startMarker, endMarker string) string {
	var b strings.Builder
	last := 0
	for _, loc := range locs {
		if loc[0] >= loc[1] {
			continue // zero-width matches produce no visible highlight
		}
		b.WriteString(s[last:loc[0]])
		b.WriteString(startMarker)
		b.WriteString(s[loc[0]:loc[1]])
		b.WriteString(endMarker)
		last = loc[1]
	}
	b.WriteString(s[last:])
	return b.String()
}

func cloneResults(in []Result) []Result {
	out := make([]Result, len(in))
	for i, r := range in {
		out[i] = r
		out[i].Task = r.Task.Clone()
		if r.Highlights != nil {
			out[i].Highlights = make(map[string]string, len(r.Highlights))
			for k, v := range r.Highlights {
				out[i].Highlights[k] = v
			}
		}
		out[i].MatchedFields = append([]string(nil), r.MatchedFields...)
	}
	return out
}
