package search

import (
	"sort"
	"strings"
)

// stopWords are dropped during tokenization.
var stopWords = map[string]bool{
	"the": true, "a": true, "an": true, "and": true, "or": true,
	"but": true, "in": true, "on": true, "at": true, "to": true,
	"for": true, "of": true, "with": true, "by": true,
}

// Tokenize lowercases the input, replaces every non-word rune with
// whitespace, splits, and drops empty tokens and stop words.
func Tokenize(s string) []string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range strings.ToLower(s) {
		if r == '_' || (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		} else {
			b.WriteByte(' ')
		}
	}

	var tokens []string
	for _, tok := range strings.Fields(b.String()) {
		if stopWords[tok] {
			continue
		}
		tokens = append(tokens, tok)
	}
	return tokens
}

// Index is an inverted index from normalized term to the set of task IDs
// whose title, description, or tag contains it.
type Index struct {
	terms map[string]map[string]bool
}

// NewIndex builds an index over the given task fields.
func NewIndex(entries map[string][]string) *Index {
	idx := &Index{terms: make(map[string]map[string]bool)}
	for id, values := range entries {
		for _, value := range values {
			for _, term := range Tokenize(value) {
				if idx.terms[term] == nil {
					idx.terms[term] = make(map[string]bool)
				}
				idx.terms[term][id] = true
			}
		}
	}
	return idx
}

// Lookup returns the IDs indexed under a term, sorted for determinism.
func (idx *Index) Lookup(term string) []string {
	set := idx.terms[strings.ToLower(term)]
	if len(set) == 0 {
		return nil
	}
	ids := make([]string, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Suggest returns up to max indexed terms starting with the given prefix,
// sorted lexicographically. An empty prefix yields nothing.
func (idx *Index) Suggest(prefix string, max int) []string {
	prefix = strings.ToLower(strings.TrimSpace(prefix))
	if prefix == "" || max <= 0 {
		return nil
	}
	var out []string
	for term := range idx.terms {
		if strings.HasPrefix(term, prefix) {
			out = append(out, term)
		}
	}
	sort.Strings(out)
	if len(out) > max {
		out = out[:max]
	}
	return out
}

// TermCount reports how many distinct terms are indexed.
func (idx *Index) TermCount() int {
	return len(idx.terms)
}
