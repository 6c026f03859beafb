package tools

import (
	"fmt"
	"strings"

	"github.com/repolens/repolens/assemble"
	"github.com/repolens/repolens/index"
	"github.com/repolens/repolens/search"
)

// FormatTextResults formats full-text search results as human-readable text.
// Groups matches by file with line numbers and optional context.
func FormatTextResults(results []index.TextResult, totalMatches int) string {
	if len(results) == 0 {
		return "No matches found."
	}

	var builder strings.Builder
	builder.WriteString(fmt.Sprintf("Found %d matches in %d files:\n\n", totalMatches, len(results)))

	for i, result := range results {
		if i > 0 {
			builder.WriteString("\n")
		}
		builder.WriteString(fmt.Sprintf("── %s ──\n", result.Path))

		for _, match := range result.Matches {
			for _, ctxLine := range match.Before {
				builder.WriteString(fmt.Sprintf("  %s\n", ctxLine))
			}
			builder.WriteString(fmt.Sprintf("  %d: %s\n", match.Line, match.Text))
			for _, ctxLine := range match.After {
				builder.WriteString(fmt.Sprintf("  %s\n", ctxLine))
			}
		}
	}

	return builder.String()
}

// FormatGrepMatches formats grep matches as one line per hit.
func FormatGrepMatches(matches []search.GrepMatch) string {
	if len(matches) == 0 {
		return "No matches found."
	}

	var builder strings.Builder
	builder.WriteString(fmt.Sprintf("Found %d matches:\n\n", len(matches)))

	for _, m := range matches {
		builder.WriteString(fmt.Sprintf("  %s:%d:%d: %s\n", m.Path, m.Line, m.Column, m.Snippet))
	}

	return builder.String()
}

// FormatFindResults formats combined-ranking results with their score
// breakdown.
func FormatFindResults(results []search.FindResult) string {
	if len(results) == 0 {
		return "No matches found."
	}

	var builder strings.Builder
	builder.WriteString(fmt.Sprintf("Found %d files:\n\n", len(results)))

	for _, r := range results {
		builder.WriteString(fmt.Sprintf("  %.3f  %s  (name %.2f, content %.2f)\n",
			r.CombinedScore, r.Path, r.FilenameScore, r.ContentScore))
	}

	return builder.String()
}

// FormatFileList formats glob results as human-readable text.
func FormatFileList(files []*index.IndexedFile, nameOnly bool) string {
	if len(files) == 0 {
		return "No files matched."
	}

	var builder strings.Builder
	builder.WriteString(fmt.Sprintf("Found %d files:\n\n", len(files)))

	for _, f := range files {
		if nameOnly {
			builder.WriteString(f.Path)
			builder.WriteString("\n")
		} else {
			builder.WriteString(fmt.Sprintf("  %s  (%s, %s, %d lines)\n",
				f.Path,
				f.Language,
				formatFileSize(f.SizeBytes),
				f.LineCount,
			))
		}
	}

	return builder.String()
}

// FormatContextEntries formats an assembled bundle: full files with numbered
// lines, stubs as-is, missing paths flagged.
func FormatContextEntries(entries []assemble.Entry, summary assemble.Summary, unit assemble.Unit) string {
	var builder strings.Builder
	builder.WriteString(fmt.Sprintf("Context bundle: %d files, %d %s, %d truncated\n\n",
		summary.TotalFiles, summary.TotalTokens, unit, summary.TruncatedFiles))

	for i := range entries {
		e := &entries[i]
		if i > 0 {
			builder.WriteString("\n")
		}
		switch e.Kind {
		case assemble.KindFull:
			builder.WriteString(FormatFileContent(e.Path, e.Content))
		case assemble.KindStub:
			builder.WriteString(fmt.Sprintf("── %s (stub) ──\n", e.Path))
			builder.WriteString(e.Stub)
		case assemble.KindMissing:
			builder.WriteString(fmt.Sprintf("── %s (not in index) ──\n", e.Path))
		}
	}

	return builder.String()
}

// FormatFileContent formats a file's content with line numbers, similar to the built-in Read tool.
// Output format: header line with path and line count, followed by numbered lines.
func FormatFileContent(filePath string, content string) string {
	lines := strings.Split(content, "\n")
	lineCount := len(lines)

	var builder strings.Builder
	builder.WriteString(fmt.Sprintf("── %s (%d lines) ──\n", filePath, lineCount))

	// Calculate width needed for line numbers
	width := len(fmt.Sprintf("%d", lineCount))

	for i, line := range lines {
		builder.WriteString(fmt.Sprintf("%*d│ %s\n", width, i+1, line))
	}

	return builder.String()
}

// formatFileSize converts bytes to a human-readable string.
func formatFileSize(bytes int64) string {
	switch {
	case bytes >= 1024*1024:
		return fmt.Sprintf("%.1f MB", float64(bytes)/(1024*1024))
	case bytes >= 1024:
		return fmt.Sprintf("%.1f KB", float64(bytes)/1024)
	default:
		return fmt.Sprintf("%d B", bytes)
	}
}
