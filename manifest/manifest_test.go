package manifest

import (
	"path"
	"strings"
	"testing"
	"time"

	"github.com/repolens/repolens/index"
	"github.com/repolens/repolens/language"
)

// testSnapshot builds a snapshot from path to content pairs. The snapshot
// closes when the test ends.
func testSnapshot(t *testing.T, files map[string]string) *index.Snapshot {
	t.Helper()
	builder := index.NewBuilder("/test/project")
	for p, content := range files {
		builder.Add(&index.IndexedFile{
			Path:      p,
			Filename:  path.Base(p),
			Language:  language.Detect(p),
			SizeBytes: int64(len(content)),
			ModTime:   time.Now(),
			LineCount: strings.Count(content, "\n") + 1,
		}, content)
	}
	snap, err := builder.Build()
	if err != nil {
		t.Fatalf("building snapshot: %v", err)
	}
	t.Cleanup(func() { snap.Close() })
	return snap
}

func categoryByName(t *testing.T, m *Manifest, name string) Category {
	t.Helper()
	for _, c := range m.Categories {
		if c.Name == name {
			return c
		}
	}
	t.Fatalf("category %s not found", name)
	return Category{}
}

func categoryPaths(c Category) []string {
	paths := make([]string, 0, len(c.Files))
	for _, f := range c.Files {
		paths = append(paths, f.Path)
	}
	return paths
}

func Test_Build_AllCategoriesAlwaysPresent(t *testing.T) {
	snap := testSnapshot(t, map[string]string{"main.go": "package main\n"})

	m := Build(snap)
	want := []string{"source", "tests", "config", "docs", "other"}
	if len(m.Categories) != len(want) {
		t.Fatalf("expected %d categories, got %d", len(want), len(m.Categories))
	}
	for i, name := range want {
		if m.Categories[i].Name != name {
			t.Errorf("category %d: expected %s, got %s", i, name, m.Categories[i].Name)
		}
		if m.Categories[i].Files == nil {
			t.Errorf("category %s: files must be an empty list, not nil", name)
		}
	}
}

func Test_Build_Categorizes(t *testing.T) {
	snap := testSnapshot(t, map[string]string{
		"main.go":          "package main\n",
		"main_test.go":     "package main\n",
		"test_app.py":      "def test_app(): pass\n",
		"api.spec.ts":      "describe('api')\n",
		"config.yaml":      "key: value\n",
		"requirements.txt": "flask==2.3.0\n",
		"README.md":        "# readme\n",
		"LICENSE":          "MIT\n",
	})

	m := Build(snap)

	cases := []struct {
		category string
		want     []string
	}{
		{"source", []string{"main.go"}},
		{"tests", []string{"api.spec.ts", "main_test.go", "test_app.py"}},
		{"config", []string{"config.yaml", "requirements.txt"}},
		{"docs", []string{"README.md"}},
		{"other", []string{"LICENSE"}},
	}
	for _, tt := range cases {
		got := categoryPaths(categoryByName(t, m, tt.category))
		if strings.Join(got, ",") != strings.Join(tt.want, ",") {
			t.Errorf("%s: expected %v, got %v", tt.category, tt.want, got)
		}
	}
}

func Test_Build_ManifestBeatsDocLanguage(t *testing.T) {
	// requirements.txt detects as Text, but manifests belong to config.
	snap := testSnapshot(t, map[string]string{"requirements.txt": "flask==2.3.0\n"})

	m := Build(snap)
	if got := categoryPaths(categoryByName(t, m, "config")); len(got) != 1 {
		t.Errorf("expected requirements.txt in config, got %v", got)
	}
	if got := categoryPaths(categoryByName(t, m, "docs")); len(got) != 0 {
		t.Errorf("expected empty docs, got %v", got)
	}
}

func Test_Build_Totals(t *testing.T) {
	snap := testSnapshot(t, map[string]string{
		"a.go":      "package a\n",
		"b.py":      "print('b')\n",
		"README.md": "# hi\n",
	})

	m := Build(snap)
	if m.TotalFiles != 3 {
		t.Errorf("expected 3 files, got %d", m.TotalFiles)
	}
	want := int64(len("package a\n") + len("print('b')\n") + len("# hi\n"))
	if m.TotalSizeBytes != want {
		t.Errorf("expected %d bytes, got %d", want, m.TotalSizeBytes)
	}
	if m.Languages["Go"] != 1 || m.Languages["Python"] != 1 || m.Languages["Markdown"] != 1 {
		t.Errorf("unexpected languages: %v", m.Languages)
	}
	if m.Root != "/test/project" {
		t.Errorf("unexpected root %q", m.Root)
	}
}

func Test_isTestPath(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"pkg/handler_test.go", true},
		{"test_util.py", true},
		{"api.spec.ts", true},
		{"app.test.jsx", true},
		{"tests/helper.go", true},
		{"src/tests/fixture.json", true},
		{"contest.go", false},
		{"src/main.go", false},
		{"latest.md", false},
		{"attested/doc.go", false},
	}

	for _, tt := range tests {
		if got := isTestPath(tt.path); got != tt.want {
			t.Errorf("isTestPath(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}
