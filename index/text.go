package index

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/mapping"
	"github.com/blevesearch/bleve/v2/search/query"
	"github.com/bmatcuk/doublestar/v4"
)

// textBatchSize bounds how many documents are queued per Bleve batch during
// the snapshot build.
const textBatchSize = 512

// TextIndex provides indexed full-text search over snapshot contents using
// an in-memory Bleve index. It shares the snapshot's content map for
// line-level result extraction and is immutable after construction.
type TextIndex struct {
	index    bleve.Index
	contents map[string]string
}

// textDocument is the document shape stored in Bleve.
type textDocument struct {
	Content  string `json:"content"`
	Path     string `json:"path"`
	Language string `json:"language"`
}

// TextSearchOptions configures a full-text query.
type TextSearchOptions struct {
	Query        string
	Path         string // exact relative path, overrides Glob
	Glob         string // doublestar pattern over relative paths
	MaxFiles     int
	ContextLines int
}

// TextResult groups the line matches found in one file.
type TextResult struct {
	Path    string      `json:"path"`
	Matches []LineMatch `json:"matches"`
}

// LineMatch is a single matched line with optional surrounding context.
type LineMatch struct {
	Line   int      `json:"line"` // 1-based
	Text   string   `json:"text"`
	Before []string `json:"before,omitempty"`
	After  []string `json:"after,omitempty"`
}

// buildTextIndex indexes every file's content into a fresh mem-only Bleve
// index, batched for throughput.
func buildTextIndex(files []*IndexedFile, contents map[string]string) (*TextIndex, error) {
	idx, err := bleve.NewMemOnly(buildTextMapping())
	if err != nil {
		return nil, fmt.Errorf("creating bleve index: %w", err)
	}

	batch := idx.NewBatch()
	queued := 0
	for _, f := range files {
		doc := textDocument{
			Content:  contents[f.Path],
			Path:     f.Path,
			Language: f.Language,
		}
		if err := batch.Index(f.Path, doc); err != nil {
			idx.Close()
			return nil, fmt.Errorf("indexing %s: %w", f.Path, err)
		}
		queued++
		if queued >= textBatchSize {
			if err := idx.Batch(batch); err != nil {
				idx.Close()
				return nil, fmt.Errorf("flushing index batch: %w", err)
			}
			batch = idx.NewBatch()
			queued = 0
		}
	}
	if queued > 0 {
		if err := idx.Batch(batch); err != nil {
			idx.Close()
			return nil, fmt.Errorf("flushing index batch: %w", err)
		}
	}

	return &TextIndex{index: idx, contents: contents}, nil
}

// buildTextMapping creates the Bleve mapping for code content. Content is
// indexed but not stored; the snapshot already holds it.
func buildTextMapping() *mapping.IndexMappingImpl {
	indexMapping := bleve.NewIndexMapping()
	docMapping := bleve.NewDocumentMapping()

	contentField := bleve.NewTextFieldMapping()
	contentField.Store = false
	contentField.IncludeInAll = true
	docMapping.AddFieldMappingsAt("content", contentField)

	pathField := bleve.NewTextFieldMapping()
	pathField.Store = true
	pathField.IncludeInAll = false
	docMapping.AddFieldMappingsAt("path", pathField)

	langField := bleve.NewKeywordFieldMapping()
	langField.Store = true
	langField.IncludeInAll = false
	docMapping.AddFieldMappingsAt("language", langField)

	indexMapping.DefaultMapping = docMapping
	return indexMapping
}

// Search runs a full-text query and groups hits into per-file line matches.
// Query syntax:
//   - plain text: word-level match
//   - "quoted text": exact phrase
//   - /pattern/: regular expression
//
// Returns the grouped results and the total number of matched lines.
func (t *TextIndex) Search(options TextSearchOptions) ([]TextResult, int, error) {
	if options.MaxFiles <= 0 {
		options.MaxFiles = 50
	}
	if options.ContextLines < 0 {
		options.ContextLines = 0
	}

	request := bleve.NewSearchRequest(parseTextQuery(options.Query))
	// Hits are filtered by path and glob below, so over-fetch.
	request.Size = options.MaxFiles * 5
	request.Fields = []string{"path", "language"}

	hits, err := t.index.Search(request)
	if err != nil {
		return nil, 0, fmt.Errorf("searching text index: %w", err)
	}

	exactPath := normalizePath(options.Path)

	var results []TextResult
	totalMatches := 0
	for _, hit := range hits.Hits {
		if len(results) >= options.MaxFiles {
			break
		}
		path := hit.ID
		content, ok := t.contents[path]
		if !ok {
			continue
		}

		if exactPath != "" {
			if path != exactPath {
				continue
			}
		} else if options.Glob != "" {
			if ok, err := doublestar.Match(options.Glob, path); err != nil || !ok {
				continue
			}
		}

		matches := matchingLines(content, options.Query, options.ContextLines)
		if len(matches) == 0 {
			continue
		}
		totalMatches += len(matches)
		results = append(results, TextResult{Path: path, Matches: matches})
	}

	return results, totalMatches, nil
}

// DocCount returns the number of indexed documents.
func (t *TextIndex) DocCount() uint64 {
	count, _ := t.index.DocCount()
	return count
}

func (t *TextIndex) close() error {
	return t.index.Close()
}

// parseTextQuery turns the query string into a Bleve query, honoring the
// phrase and regex forms.
func parseTextQuery(q string) query.Query {
	q = strings.TrimSpace(q)

	if strings.HasPrefix(q, "/") && strings.HasSuffix(q, "/") && len(q) > 2 {
		return bleve.NewRegexpQuery(q[1 : len(q)-1])
	}
	if strings.HasPrefix(q, `"`) && strings.HasSuffix(q, `"`) && len(q) > 2 {
		return bleve.NewMatchPhraseQuery(q[1 : len(q)-1])
	}
	return bleve.NewMatchQuery(q)
}

// rawTerm strips the phrase or regex delimiters so line scanning can use the
// bare term.
func rawTerm(q string) string {
	q = strings.TrimSpace(q)
	if len(q) > 2 {
		if (strings.HasPrefix(q, "/") && strings.HasSuffix(q, "/")) ||
			(strings.HasPrefix(q, `"`) && strings.HasSuffix(q, `"`)) {
			return q[1 : len(q)-1]
		}
	}
	return q
}

// matchingLines scans content line by line for the query term and collects
// 1-based line matches with surrounding context. Regex queries scan with the
// compiled pattern; anything else falls back to a case-folded substring scan.
func matchingLines(content, q string, contextLines int) []LineMatch {
	lines := strings.Split(content, "\n")
	term := strings.ToLower(rawTerm(q))
	if term == "" {
		return nil
	}

	var re *regexp.Regexp
	if trimmed := strings.TrimSpace(q); strings.HasPrefix(trimmed, "/") && strings.HasSuffix(trimmed, "/") && len(trimmed) > 2 {
		// Index terms are lowercased, so the line scan folds case too.
		re, _ = regexp.Compile("(?i)" + rawTerm(q))
	}

	lineHit := func(line string) bool {
		if re != nil {
			return re.MatchString(line)
		}
		return strings.Contains(strings.ToLower(line), term)
	}

	var matches []LineMatch
	for i, line := range lines {
		if !lineHit(line) {
			continue
		}

		m := LineMatch{Line: i + 1, Text: line}
		if contextLines > 0 {
			from := i - contextLines
			if from < 0 {
				from = 0
			}
			m.Before = append(m.Before, lines[from:i]...)

			to := i + 1 + contextLines
			if to > len(lines) {
				to = len(lines)
			}
			m.After = append(m.After, lines[i+1:to]...)
		}
		matches = append(matches, m)
	}
	return matches
}
