package search

import (
	"regexp"
	"sort"
	"strings"

	"github.com/weekwise/weekwise/types"
)

// Named pattern types accepted by SearchByPattern.
const (
	PatternDuplicateWord = "duplicate-word"
	PatternTime          = "time"
	PatternEmail         = "email"
	PatternURL           = "url"
	PatternPhone         = "phone"
	PatternCurrency      = "currency"
	PatternHashtag       = "hashtag"
	PatternMention       = "mention"
)

// namedPatterns is the fixed pattern library. duplicate-word is handled
// separately: its back-reference semantics are outside RE2, so a scanning
// matcher reproduces them.
var namedPatterns = map[string]*regexp.Regexp{
	PatternTime:     regexp.MustCompile(`\b(?:[01]?\d|2[0-3]):[0-5]\d\b`),
	PatternEmail:    regexp.MustCompile(`\b[\w.%+-]+@[\w-]+(?:\.[\w-]+)+\b`),
	PatternURL:      regexp.MustCompile(`https?://\S+`),
	PatternPhone:    regexp.MustCompile(`\+?\d[\d\s().-]{7,}\d`),
	PatternCurrency: regexp.MustCompile(`[$€£]\s?\d+(?:[.,]\d{2})?`),
	PatternHashtag:  regexp.MustCompile(`\B#\w+`),
	PatternMention:  regexp.MustCompile(`\B@\w+`), // \B keeps the @ in an email address from matching
}

// PatternTypes lists the supported pattern names, sorted.
func PatternTypes() []string {
	names := []string{PatternDuplicateWord}
	for name := range namedPatterns {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// patternFields: named patterns scan title and description only.
var patternFields = []string{"title", "description"}

// SearchByPattern runs one named pattern from the fixed library over the
// title and description of each task. Scoring is by raw match count with
// no field weighting. An unknown pattern type yields an empty result set.
func SearchByPattern(patternType string, tasks []types.Task) []Result {
	matcher := matcherFor(patternType)
	if matcher == nil {
		return []Result{}
	}

	var results []Result
	for _, t := range tasks {
		result := Result{Task: t.Clone()}
		for _, field := range patternFields {
			value := fieldValue(t, field)
			if value == "" {
				continue
			}
			locs := matcher(value)
			if len(locs) == 0 {
				continue
			}
			result.Score += len(locs)
			result.MatchedFields = append(result.MatchedFields, field)
			if result.Highlights == nil {
				result.Highlights = make(map[string]string)
			}
			result.Highlights[field] = highlight(value, locs, defaultStartMarker, defaultEndMarker)
		}
		if result.Score > 0 {
			results = append(results, result)
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	return results
}

// matcherFor maps a pattern type to a location-finding function.
func matcherFor(patternType string) func(string) [][]int {
	if patternType == PatternDuplicateWord {
		return duplicateWordLocations
	}
	re, ok := namedPatterns[patternType]
	if !ok {
		return nil
	}
	return func(s string) [][]int {
		return matchLocations(re, s)
	}
}

var wordRe = regexp.MustCompile(`[A-Za-z0-9_]+`)

// duplicateWordLocations finds immediately repeated words, case
// insensitively, equivalent to the back-reference pattern \b(\w+)\s+\1\b.
// Each match spans both occurrences.
func duplicateWordLocations(s string) [][]int {
	words := wordRe.FindAllStringIndex(s, -1)
	var locs [][]int
	for i := 0; i+1 < len(words); i++ {
		a, b := words[i], words[i+1]
		gap := s[a[1]:b[0]]
		if gap == "" || strings.TrimSpace(gap) != "" {
			continue // the words must be separated by whitespace only
		}
		if !strings.EqualFold(s[a[0]:a[1]], s[b[0]:b[1]]) {
			continue
		}
		locs = append(locs, []int{a[0], b[1]})
		i++ // the second word cannot start another pair
	}
	return locs
}
