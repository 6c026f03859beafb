// Package manifest summarizes a snapshot as a categorized file listing and
// as a directory tree.
package manifest

import (
	"strings"

	"github.com/repolens/repolens/deps"
	"github.com/repolens/repolens/index"
)

// categoryOrder fixes the order categories appear in, so two builds of the
// same snapshot serialize identically.
var categoryOrder = []string{"source", "tests", "config", "docs", "other"}

var configLanguages = map[string]bool{
	"JSON":       true,
	"YAML":       true,
	"TOML":       true,
	"XML":        true,
	"INI":        true,
	"Env":        true,
	"Properties": true,
	"Git Config": true,
	"Go Module":  true,
}

var docLanguages = map[string]bool{
	"Markdown":         true,
	"reStructuredText": true,
	"Text":             true,
	"LaTeX":            true,
}

// FileEntry is one file in a category listing.
type FileEntry struct {
	Path      string `json:"path"`
	Language  string `json:"language"`
	SizeBytes int64  `json:"sizeBytes"`
	LineCount int    `json:"lineCount"`
}

// Category groups files by role.
type Category struct {
	Name  string      `json:"name"`
	Files []FileEntry `json:"files"`
}

// Manifest is the categorized view of a snapshot.
type Manifest struct {
	Root           string         `json:"root"`
	TotalFiles     int            `json:"totalFiles"`
	TotalSizeBytes int64          `json:"totalSizeBytes"`
	Languages      map[string]int `json:"languages"`
	Categories     []Category     `json:"categories"`
}

// Build categorizes every indexed file. All five categories are always
// present, empty ones with a zero-length file list, and files keep snapshot
// (path-sorted) order within each category.
func Build(snap *index.Snapshot) *Manifest {
	byName := make(map[string]*Category, len(categoryOrder))
	m := &Manifest{
		Root:           snap.Root(),
		TotalFiles:     snap.FileCount(),
		TotalSizeBytes: snap.TotalSizeBytes(),
		Languages:      snap.LanguageCounts(),
		Categories:     make([]Category, len(categoryOrder)),
	}
	for i, name := range categoryOrder {
		m.Categories[i] = Category{Name: name, Files: make([]FileEntry, 0)}
		byName[name] = &m.Categories[i]
	}

	for _, f := range snap.Files() {
		c := byName[categorize(f)]
		c.Files = append(c.Files, FileEntry{
			Path:      f.Path,
			Language:  f.Language,
			SizeBytes: f.SizeBytes,
			LineCount: f.LineCount,
		})
	}
	return m
}

func categorize(f *index.IndexedFile) string {
	lower := strings.ToLower(f.Path)
	switch {
	case isTestPath(lower):
		return "tests"
	case configLanguages[f.Language] || deps.IsManifest(f.Filename):
		return "config"
	case docLanguages[f.Language]:
		return "docs"
	case f.Language == "Unknown":
		return "other"
	default:
		return "source"
	}
}

func isTestPath(lower string) bool {
	base := lower
	if i := strings.LastIndex(lower, "/"); i >= 0 {
		base = lower[i+1:]
	}
	return strings.Contains(base, "_test.") ||
		strings.HasPrefix(base, "test_") ||
		strings.Contains(base, ".spec.") ||
		strings.Contains(base, ".test.") ||
		strings.HasPrefix(lower, "tests/") ||
		strings.Contains(lower, "/tests/")
}
