package search

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/bmatcuk/doublestar/v4"
	"golang.org/x/sync/errgroup"

	"github.com/repolens/repolens/index"
)

// grepParallelism bounds the per-request scan pool.
const grepParallelism = 8

// defaultSnippetMax caps snippet length when the caller does not set one.
const defaultSnippetMax = 200

// GrepOptions configures a grep scan. Zero values fall back to defaults.
type GrepOptions struct {
	Limit           int    // global match cap, default 50
	MaxPerFile      int    // per-file match cap, default 5
	Glob            string // optional doublestar filter over relative paths
	SnippetMaxChars int    // snippet display cap, default 200
}

// GrepMatch is one matched line. Column is the 1-based byte offset of the
// earliest term occurrence in the line. Snippet is the full line, truncated
// rune-safe to the display cap.
type GrepMatch struct {
	Path    string `json:"path"`
	Line    int    `json:"line"`
	Column  int    `json:"column"`
	Snippet string `json:"snippet"`
}

// Grep scans every indexed file for lines containing all query terms
// case-insensitively. Files are scanned by a bounded worker pool, but output
// order is established by a deterministic merge in snapshot path order, then
// capped. A context error aborts the whole scan; no partial output is
// returned.
func Grep(ctx context.Context, snap *index.Snapshot, query string, opts GrepOptions) ([]GrepMatch, error) {
	terms := Terms(query)
	if len(terms) == 0 {
		return []GrepMatch{}, nil
	}

	if opts.Limit <= 0 {
		opts.Limit = 50
	}
	if opts.MaxPerFile <= 0 {
		opts.MaxPerFile = 5
	}
	if opts.SnippetMaxChars <= 0 {
		opts.SnippetMaxChars = defaultSnippetMax
	}

	files := snap.Files()
	if opts.Glob != "" {
		if !doublestar.ValidatePattern(opts.Glob) {
			return nil, fmt.Errorf("invalid glob pattern: %s", opts.Glob)
		}
		filtered := make([]*index.IndexedFile, 0, len(files))
		for _, f := range files {
			if ok, _ := doublestar.Match(opts.Glob, f.Path); ok {
				filtered = append(filtered, f)
			}
		}
		files = filtered
	}

	perFile := make([][]GrepMatch, len(files))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(grepParallelism)
	for i, f := range files {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			content, err := snap.Content(f.Path)
			if err != nil {
				// Unavailable content is skipped, never fatal.
				return nil
			}
			perFile[i] = scanContent(f.Path, content, terms, opts.MaxPerFile, opts.SnippetMaxChars)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	merged := make([]GrepMatch, 0, opts.Limit)
	for _, matches := range perFile {
		for _, m := range matches {
			if len(merged) >= opts.Limit {
				return merged, nil
			}
			merged = append(merged, m)
		}
	}
	return merged, nil
}

// scanContent collects up to maxPerFile matching lines from one file's
// content, in line order.
func scanContent(path, content string, terms []string, maxPerFile, snippetMax int) []GrepMatch {
	var matches []GrepMatch
	for i, line := range strings.Split(content, "\n") {
		col := matchColumn(strings.ToLower(line), terms)
		if col < 0 {
			continue
		}
		matches = append(matches, GrepMatch{
			Path:    path,
			Line:    i + 1,
			Column:  col + 1,
			Snippet: truncateSnippet(line, snippetMax),
		})
		if len(matches) >= maxPerFile {
			break
		}
	}
	return matches
}

// matchColumn returns the 0-based byte offset of the earliest term
// occurrence when the line contains every term, or -1 otherwise.
func matchColumn(lowerLine string, terms []string) int {
	first := -1
	for _, term := range terms {
		idx := strings.Index(lowerLine, term)
		if idx < 0 {
			return -1
		}
		if first < 0 || idx < first {
			first = idx
		}
	}
	return first
}

// truncateSnippet cuts s to at most max bytes without splitting a rune.
func truncateSnippet(s string, max int) string {
	if len(s) <= max {
		return s
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}
