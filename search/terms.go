package search

import "strings"

// Terms splits a query on whitespace into case-folded, non-empty terms.
// Queries are never mutated beyond folding and splitting.
func Terms(query string) []string {
	return strings.Fields(strings.ToLower(query))
}

// countOccurrences sums the occurrence counts of every term in the
// already-lowercased content.
func countOccurrences(lowerContent string, terms []string) int {
	total := 0
	for _, term := range terms {
		total += strings.Count(lowerContent, term)
	}
	return total
}
