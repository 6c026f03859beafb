// Package ignore decides which files are excluded from indexing. It combines
// built-in defaults, .gitignore rules, .repolensignore rules, custom
// patterns, and a file-size cap.
package ignore

import (
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"

	"github.com/bmatcuk/doublestar/v4"
	gitignore "github.com/denormal/go-gitignore"
)

// ControlFiles are the ignore-rule files whose changes require a matcher
// reload.
var ControlFiles = []string{".gitignore", ".repolensignore"}

// IsControlFile reports whether basename names an ignore-rule file.
func IsControlFile(basename string) bool {
	for _, name := range ControlFiles {
		if basename == name {
			return true
		}
	}
	return false
}

// Matcher determines whether a path should be ignored during indexing.
// Reload acquires a write lock; ShouldIgnore and ShouldIgnoreDir acquire a
// read lock, so the matcher is safe for concurrent use with the watcher.
type Matcher struct {
	mu               sync.RWMutex
	root             string
	repoIgnore       gitignore.GitIgnore // .gitignore
	lensIgnore       gitignore.GitIgnore // .repolensignore
	customPatterns   []string
	maxFileSizeBytes int64
}

// Options configures a Matcher.
type Options struct {
	Root             string
	CustomPatterns   []string
	MaxFileSizeBytes int64
}

// NewMatcher builds a matcher rooted at options.Root. Missing ignore files
// are not an error.
func NewMatcher(options Options) *Matcher {
	m := &Matcher{
		root:             options.Root,
		customPatterns:   normalizePatterns(options.CustomPatterns),
		maxFileSizeBytes: options.MaxFileSizeBytes,
	}
	if m.maxFileSizeBytes <= 0 {
		m.maxFileSizeBytes = 1024 * 1024
	}
	m.repoIgnore = loadIgnoreFile(filepath.Join(options.Root, ".gitignore"), options.Root)
	m.lensIgnore = loadIgnoreFile(filepath.Join(options.Root, ".repolensignore"), options.Root)
	return m
}

// ShouldIgnore reports whether an absolute path is excluded from indexing.
func (m *Matcher) ShouldIgnore(absolutePath string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rel := m.relative(absolutePath)

	if matchesDefaults(rel) {
		return true
	}

	isDir := false
	if info, err := os.Stat(absolutePath); err == nil {
		isDir = info.IsDir()
	}

	// Relative() matches against rule files without requiring the path to
	// still exist on disk.
	if m.repoIgnore != nil {
		if match := m.repoIgnore.Relative(rel, isDir); match != nil && match.Ignore() {
			return true
		}
	}
	if m.lensIgnore != nil {
		if match := m.lensIgnore.Relative(rel, isDir); match != nil && match.Ignore() {
			return true
		}
	}

	return m.matchesCustom(rel)
}

// ShouldIgnoreDir reports whether a directory subtree should be skipped
// entirely during traversal.
func (m *Matcher) ShouldIgnoreDir(absolutePath string) bool {
	name := strings.ToLower(filepath.Base(absolutePath))
	for _, dir := range DefaultIgnoreDirs {
		if name == dir {
			return true
		}
	}
	return m.ShouldIgnore(absolutePath)
}

// IsFileTooLarge reports whether a file exceeds the configured size cap.
func (m *Matcher) IsFileTooLarge(sizeBytes int64) bool {
	return sizeBytes > m.maxFileSizeBytes
}

// MaxFileSizeBytes returns the configured size cap.
func (m *Matcher) MaxFileSizeBytes() int64 {
	return m.maxFileSizeBytes
}

// Reload re-reads the ignore rule files from disk. Called when the watcher
// sees a control file change.
func (m *Matcher) Reload() {
	repoIgnore := loadIgnoreFile(filepath.Join(m.root, ".gitignore"), m.root)
	lensIgnore := loadIgnoreFile(filepath.Join(m.root, ".repolensignore"), m.root)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.repoIgnore = repoIgnore
	m.lensIgnore = lensIgnore
}

// relative converts an absolute path into a slash-separated path relative to
// the matcher root.
func (m *Matcher) relative(absolutePath string) string {
	rel, err := filepath.Rel(m.root, absolutePath)
	if err != nil {
		rel = absolutePath
	}
	return filepath.ToSlash(rel)
}

// matchesDefaults checks the built-in directory names and basename globs.
func matchesDefaults(rel string) bool {
	base := strings.ToLower(path.Base(rel))

	for _, part := range strings.Split(strings.ToLower(rel), "/") {
		for _, dir := range DefaultIgnoreDirs {
			if part == dir {
				return true
			}
		}
	}

	for _, pattern := range DefaultIgnoreGlobs {
		if ok, err := doublestar.Match(strings.ToLower(pattern), base); err == nil && ok {
			return true
		}
	}
	return false
}

// matchesCustom checks user-supplied patterns against the relative path and
// the basename. Patterns use doublestar syntax, so "**/generated/*.go" works.
func (m *Matcher) matchesCustom(rel string) bool {
	base := path.Base(rel)
	for _, pattern := range m.customPatterns {
		if ok, err := doublestar.Match(pattern, rel); err == nil && ok {
			return true
		}
		if ok, err := doublestar.Match(pattern, base); err == nil && ok {
			return true
		}
	}
	return false
}

func normalizePatterns(patterns []string) []string {
	out := make([]string, 0, len(patterns))
	for _, p := range patterns {
		p = strings.TrimSpace(strings.ReplaceAll(p, "\\", "/"))
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// loadIgnoreFile parses one ignore file into a matcher, or returns nil when
// the file is absent.
func loadIgnoreFile(filePath, baseDir string) gitignore.GitIgnore {
	f, err := os.Open(filePath)
	if err != nil {
		return nil
	}
	defer f.Close()
	return gitignore.New(f, baseDir, nil)
}
