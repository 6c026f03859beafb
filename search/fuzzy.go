// Package search implements the relevance engine: tiered fuzzy filename
// scoring, multi-term content grep, and the ranked search and find surfaces
// over a snapshot.
package search

import (
	"path"
	"strings"

	"github.com/repolens/repolens/index"
)

// candidate carries the case-folded views of one file that the filename
// matchers score against.
type candidate struct {
	query string // folded query
	name  string // folded filename
	stem  string // folded filename without extension
	path  string // folded relative path
}

// filenameMatcher scores one tier. ok is false when the tier does not apply;
// the first applicable tier wins and tiers are never summed.
type filenameMatcher func(c candidate) (score float64, ok bool)

// filenameMatchers is evaluated in order, strongest tier first.
var filenameMatchers = []filenameMatcher{
	matchExactFilename,
	matchStem,
	matchPrefix,
	matchPathSubstring,
	matchSubsequence,
}

// Score rates how well a query matches a file's name and path, in [0,1].
// An empty query scores zero against everything.
func Score(query string, file *index.IndexedFile) float64 {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return 0
	}

	name := strings.ToLower(file.Filename)
	c := candidate{
		query: q,
		name:  name,
		stem:  strings.TrimSuffix(name, path.Ext(name)),
		path:  strings.ToLower(file.Path),
	}
	for _, match := range filenameMatchers {
		if score, ok := match(c); ok {
			return score
		}
	}
	return 0
}

// matchExactFilename: the full filename, extension included.
func matchExactFilename(c candidate) (float64, bool) {
	if c.name == c.query {
		return 1.0, true
	}
	return 0, false
}

// matchStem: the filename without its extension.
func matchStem(c candidate) (float64, bool) {
	if c.stem == c.query {
		return 0.9, true
	}
	return 0, false
}

// matchPrefix: the filename starts with the query. Longer tails score lower,
// one cent per extra character, floored at 0.6.
func matchPrefix(c candidate) (float64, bool) {
	if !strings.HasPrefix(c.name, c.query) {
		return 0, false
	}
	extra := len(c.name) - len(c.query)
	score := 0.7 - 0.01*float64(extra)
	if score < 0.6 {
		score = 0.6
	}
	return score, true
}

// matchPathSubstring: the query occurs anywhere in the relative path.
func matchPathSubstring(c candidate) (float64, bool) {
	if strings.Contains(c.path, c.query) {
		return 0.5, true
	}
	return 0, false
}

// matchSubsequence: the query's characters appear in the filename in order,
// not necessarily contiguously. Scored by how much of the filename the query
// covers.
func matchSubsequence(c candidate) (float64, bool) {
	if len(c.query) > len(c.name) || !isSubsequence(c.query, c.name) {
		return 0, false
	}
	return 0.4 * float64(len(c.query)) / float64(len(c.name)), true
}

func isSubsequence(needle, haystack string) bool {
	runes := []rune(needle)
	i := 0
	for _, r := range haystack {
		if i < len(runes) && r == runes[i] {
			i++
		}
	}
	return i == len(runes)
}
