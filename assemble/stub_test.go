package assemble

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/repolens/repolens/index"
)

func Test_BuildStub_NilFile(t *testing.T) {
	if got := BuildStub(nil, "content", 16); got != "" {
		t.Errorf("expected empty stub for nil file, got %q", got)
	}
}

func Test_BuildStub_HeaderAndDeclarations(t *testing.T) {
	file := &index.IndexedFile{Path: "svc/auth.go", Language: "Go", LineCount: 9}
	content := `package svc

type Session struct {
	ID string
}

func Login(user string) (*Session, error) {
	return nil, nil
}
`
	stub := BuildStub(file, content, 16)
	lines := strings.Split(stub, "\n")
	if lines[0] != "// svc/auth.go (Go, 9 lines)" {
		t.Errorf("unexpected header: %q", lines[0])
	}
	if !strings.Contains(stub, "type Session struct {") {
		t.Error("stub missing type declaration")
	}
	if !strings.Contains(stub, "func Login(user string) (*Session, error) {") {
		t.Error("stub missing func declaration")
	}
	if strings.Contains(stub, "return nil") {
		t.Error("stub must not carry body lines")
	}
}

func Test_BuildStub_MaxLines(t *testing.T) {
	file := &index.IndexedFile{Path: "big.go", Language: "Go", LineCount: 5}
	content := "func A() {}\nfunc B() {}\nfunc C() {}\nfunc D() {}\nfunc E() {}\n"

	stub := BuildStub(file, content, 2)
	// Header plus two declaration lines.
	if got := strings.Count(stub, "\n"); got != 3 {
		t.Errorf("expected 3 lines, got %d: %q", got, stub)
	}
	if !strings.Contains(stub, "func B() {}") || strings.Contains(stub, "func C() {}") {
		t.Errorf("expected first two declarations only: %q", stub)
	}
}

func Test_BuildStub_IndentedDeclarations(t *testing.T) {
	file := &index.IndexedFile{Path: "app/models.py", Language: "Python", LineCount: 4}
	content := "class User:\n    def name(self):\n        return self._name\n"

	stub := BuildStub(file, content, 16)
	if !strings.Contains(stub, "def name(self):") {
		t.Errorf("expected indented method declaration: %q", stub)
	}
	if strings.Contains(stub, "return self._name") {
		t.Errorf("expected body line excluded: %q", stub)
	}
}

func Test_BuildStub_HeaderOnlyWithoutDeclarationTable(t *testing.T) {
	file := &index.IndexedFile{Path: "data.json", Language: "JSON", LineCount: 3}

	stub := BuildStub(file, "{\n  \"a\": 1\n}\n", 16)
	if stub != "// data.json (JSON, 3 lines)\n" {
		t.Errorf("expected header-only stub, got %q", stub)
	}
}

func Test_BuildStub_MarkupCommentCloser(t *testing.T) {
	file := &index.IndexedFile{Path: "docs/readme.md", Language: "Markdown", LineCount: 12}

	stub := BuildStub(file, "# Title\n", 16)
	if stub != "<!-- docs/readme.md (Markdown, 12 lines) -->\n" {
		t.Errorf("unexpected markup header: %q", stub)
	}
}

func Test_BuildStub_TruncatesLongDeclarationLines(t *testing.T) {
	file := &index.IndexedFile{Path: "gen.go", Language: "Go", LineCount: 1}
	content := "func " + strings.Repeat("x", 300) + "() {}\n"

	stub := BuildStub(file, content, 16)
	for _, line := range strings.Split(stub, "\n") {
		if len(line) > 160 {
			t.Errorf("declaration line exceeds cap: %d bytes", len(line))
		}
	}
}

func Test_truncateBytes_RuneSafe(t *testing.T) {
	if got := truncateBytes("ééé", 3); got != "é" {
		t.Errorf("expected single rune, got %q", got)
	}
	if got := truncateBytes("abc", 10); got != "abc" {
		t.Errorf("expected unchanged string, got %q", got)
	}
	long := strings.Repeat("世", 40)
	cut := truncateBytes(long, 50)
	if len(cut) > 50 {
		t.Errorf("cut exceeds max: %d bytes", len(cut))
	}
	if !utf8.ValidString(cut) {
		t.Errorf("cut is not valid UTF-8: %q", cut)
	}
}
