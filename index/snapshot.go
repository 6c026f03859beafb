// Package index holds the immutable repository snapshot: file records, raw
// contents, and a full-text index over them. A snapshot is built once, read
// concurrently without locks, and replaced wholesale on rebuild.
package index

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
)

// ErrNotFound is returned when a path is not present in the snapshot.
var ErrNotFound = errors.New("file not found in snapshot")

// Snapshot is a point-in-time index of a repository. All methods are safe
// for concurrent use; nothing mutates a snapshot after Build returns.
type Snapshot struct {
	root     string
	builtAt  time.Time
	files    []*IndexedFile // sorted by Path
	byPath   map[string]*IndexedFile
	contents map[string]string
	text     *TextIndex
	sizeSum  int64
}

// Root returns the absolute repository root the snapshot was built from.
func (s *Snapshot) Root() string { return s.root }

// BuiltAt returns the snapshot construction time.
func (s *Snapshot) BuiltAt() time.Time { return s.builtAt }

// Files returns all file records in ascending path order. Callers must not
// modify the returned slice.
func (s *Snapshot) Files() []*IndexedFile { return s.files }

// File returns the record for a relative path.
func (s *Snapshot) File(path string) (*IndexedFile, bool) {
	f, ok := s.byPath[normalizePath(path)]
	return f, ok
}

// Content returns the raw content of an indexed file. Returns ErrNotFound
// for paths outside the snapshot.
func (s *Snapshot) Content(path string) (string, error) {
	content, ok := s.contents[normalizePath(path)]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrNotFound, path)
	}
	return content, nil
}

// FileCount returns the number of indexed files.
func (s *Snapshot) FileCount() int { return len(s.files) }

// TotalSizeBytes returns the summed raw size of all indexed files.
func (s *Snapshot) TotalSizeBytes() int64 { return s.sizeSum }

// LanguageCounts returns file counts per detected language.
func (s *Snapshot) LanguageCounts() map[string]int {
	counts := make(map[string]int)
	for _, f := range s.files {
		counts[f.Language]++
	}
	return counts
}

// Glob returns up to limit files whose path matches a doublestar pattern,
// in ascending path order.
func (s *Snapshot) Glob(pattern string, limit int) ([]*IndexedFile, error) {
	if limit <= 0 {
		limit = 50
	}
	pattern = strings.ReplaceAll(pattern, "\\", "/")
	if !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("invalid glob pattern: %s", pattern)
	}

	var out []*IndexedFile
	for _, f := range s.files {
		if len(out) >= limit {
			break
		}
		if ok, err := doublestar.Match(pattern, f.Path); err == nil && ok {
			out = append(out, f)
		}
	}
	return out, nil
}

// Text returns the full-text index over the snapshot's contents.
func (s *Snapshot) Text() *TextIndex { return s.text }

// Close releases the full-text index. The holder calls this once no request
// can still reference the snapshot.
func (s *Snapshot) Close() error {
	if s.text == nil {
		return nil
	}
	return s.text.close()
}

func normalizePath(p string) string {
	return strings.ReplaceAll(p, "\\", "/")
}

// Builder accumulates file records and contents, then constructs an
// immutable Snapshot. Not safe for concurrent use: the indexing driver
// funnels worker output into a single Add loop.
type Builder struct {
	root     string
	byPath   map[string]*IndexedFile
	contents map[string]string
}

// NewBuilder starts a snapshot build for the given repository root.
func NewBuilder(root string) *Builder {
	return &Builder{
		root:     root,
		byPath:   make(map[string]*IndexedFile),
		contents: make(map[string]string),
	}
}

// Add records one file. A later Add for the same path replaces the earlier
// record.
func (b *Builder) Add(file *IndexedFile, content string) {
	file.Path = normalizePath(file.Path)
	b.byPath[file.Path] = file
	b.contents[file.Path] = content
}

// Len returns the number of files added so far.
func (b *Builder) Len() int { return len(b.byPath) }

// Build sorts the records, constructs the full-text index, and returns the
// finished snapshot. The builder must not be reused afterwards.
func (b *Builder) Build() (*Snapshot, error) {
	files := make([]*IndexedFile, 0, len(b.byPath))
	var sizeSum int64
	for _, f := range b.byPath {
		files = append(files, f)
		sizeSum += f.SizeBytes
	}
	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })

	text, err := buildTextIndex(files, b.contents)
	if err != nil {
		return nil, fmt.Errorf("building text index: %w", err)
	}

	return &Snapshot{
		root:     b.root,
		builtAt:  time.Now(),
		files:    files,
		byPath:   b.byPath,
		contents: b.contents,
		text:     text,
		sizeSum:  sizeSum,
	}, nil
}
