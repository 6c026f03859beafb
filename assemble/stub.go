package assemble

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/repolens/repolens/index"
	"github.com/repolens/repolens/language"
)

// stubLineMax caps a single declaration line inside a stub.
const stubLineMax = 160

// BuildStub renders a bounded structural summary of a file: a header comment
// in the file's own comment style, followed by its declaration-signature
// lines. Languages without a declaration table get the header only.
func BuildStub(file *index.IndexedFile, content string, maxLines int) string {
	if file == nil {
		return ""
	}
	opener, closer := language.CommentStyle(file.Language)

	var b strings.Builder
	fmt.Fprintf(&b, "%s %s (%s, %d lines)%s\n", opener, file.Path, file.Language, file.LineCount, closer)

	prefixes := language.DeclarationPrefixes(file.Language)
	if len(prefixes) == 0 {
		return b.String()
	}

	emitted := 0
	for _, line := range strings.Split(content, "\n") {
		if emitted >= maxLines {
			break
		}
		trimmed := strings.TrimLeft(line, " \t")
		if !hasDeclarationPrefix(trimmed, prefixes) {
			continue
		}
		b.WriteString(truncateBytes(strings.TrimRight(trimmed, " \t"), stubLineMax))
		b.WriteByte('\n')
		emitted++
	}
	return b.String()
}

func hasDeclarationPrefix(line string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(line, p) {
			return true
		}
	}
	return false
}

// truncateBytes cuts s to at most max bytes without splitting a rune.
func truncateBytes(s string, max int) string {
	if len(s) <= max {
		return s
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}
