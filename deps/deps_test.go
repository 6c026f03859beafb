package deps

import (
	"io"
	"log/slog"
	"path"
	"strings"
	"testing"
	"time"

	"github.com/repolens/repolens/index"
	"github.com/repolens/repolens/language"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

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

func Test_IsManifest(t *testing.T) {
	for _, name := range []string{"go.mod", "package.json", "requirements.txt", "pyproject.toml", "Cargo.toml", "pubspec.yaml"} {
		if !IsManifest(name) {
			t.Errorf("expected %s to be a manifest", name)
		}
	}
	for _, name := range []string{"main.go", "Gemfile", "go.sum", "cargo.toml"} {
		if IsManifest(name) {
			t.Errorf("expected %s not to be a manifest", name)
		}
	}
}

func Test_parseGoMod(t *testing.T) {
	content := `module example.com/app

go 1.25

require (
	github.com/google/uuid v1.6.0
	gopkg.in/yaml.v3 v3.0.1 // indirect
)
`
	got, err := parseGoMod(content)
	if err != nil {
		t.Fatalf("parseGoMod failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 dependencies, got %d: %v", len(got), got)
	}
	if got["github.com/google/uuid"] != "v1.6.0" {
		t.Errorf("unexpected uuid version %q", got["github.com/google/uuid"])
	}
	if got["gopkg.in/yaml.v3"] != "v3.0.1" {
		t.Errorf("indirect requires must be included, got %q", got["gopkg.in/yaml.v3"])
	}
}

func Test_ModulePath(t *testing.T) {
	snap := testSnapshot(t, map[string]string{
		"go.mod":  "module example.com/app\n\ngo 1.25\n",
		"main.go": "package main\n",
	})
	if got := ModulePath(snap); got != "example.com/app" {
		t.Errorf("expected example.com/app, got %q", got)
	}

	bare := testSnapshot(t, map[string]string{"main.py": "print('hi')\n"})
	if got := ModulePath(bare); got != "" {
		t.Errorf("expected empty module path, got %q", got)
	}
}

func Test_parsePackageJSON(t *testing.T) {
	content := `{
  "name": "app",
  "dependencies": {"react": "^18.2.0", "shared": "runtime"},
  "devDependencies": {"vitest": "^1.0.0", "shared": "dev"}
}`
	got, err := parsePackageJSON(content)
	if err != nil {
		t.Fatalf("parsePackageJSON failed: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 dependencies, got %d: %v", len(got), got)
	}
	if got["react"] != "^18.2.0" || got["vitest"] != "^1.0.0" {
		t.Errorf("unexpected versions: %v", got)
	}
	if got["shared"] != "runtime" {
		t.Errorf("runtime dependency must win over dev, got %q", got["shared"])
	}
}

func Test_parsePackageJSON_Invalid(t *testing.T) {
	if _, err := parsePackageJSON("{"); err == nil {
		t.Error("expected error for malformed JSON")
	}
}

func Test_parseRequirements(t *testing.T) {
	content := `# pinned versions
flask==2.3.0
requests>=2.31
uvicorn[standard]==0.23.0
pytest ; python_version >= "3.8"
numpy  # upgrade later
-r base.txt
--index-url https://pypi.example.com/simple

bare-name
`
	got, err := parseRequirements(content)
	if err != nil {
		t.Fatalf("parseRequirements failed: %v", err)
	}

	want := map[string]string{
		"flask":     "==2.3.0",
		"requests":  ">=2.31",
		"uvicorn":   "==0.23.0",
		"pytest":    "",
		"numpy":     "",
		"bare-name": "",
	}
	if len(got) != len(want) {
		t.Fatalf("expected %d dependencies, got %d: %v", len(want), len(got), got)
	}
	for name, version := range want {
		if got[name] != version {
			t.Errorf("%s: expected %q, got %q", name, version, got[name])
		}
	}
}

func Test_parsePyProject_PEP621(t *testing.T) {
	content := `[project]
name = "app"
dependencies = ["flask==2.3.0", "requests>=2.31"]
`
	got, err := parsePyProject(content)
	if err != nil {
		t.Fatalf("parsePyProject failed: %v", err)
	}
	if got["flask"] != "==2.3.0" || got["requests"] != ">=2.31" {
		t.Errorf("unexpected dependencies: %v", got)
	}
}

func Test_parsePyProject_Poetry(t *testing.T) {
	content := `[tool.poetry.dependencies]
python = "^3.11"
django = "^4.2"
celery = { version = "^5.3", extras = ["redis"] }
`
	got, err := parsePyProject(content)
	if err != nil {
		t.Fatalf("parsePyProject failed: %v", err)
	}
	if _, ok := got["python"]; ok {
		t.Error("the python interpreter constraint must be skipped")
	}
	if got["django"] != "^4.2" {
		t.Errorf("expected django ^4.2, got %q", got["django"])
	}
	if got["celery"] != "^5.3" {
		t.Errorf("expected celery version from inline table, got %q", got["celery"])
	}
}

func Test_parseCargoToml(t *testing.T) {
	content := `[package]
name = "app"

[dependencies]
serde = { version = "1.0", features = ["derive"] }
tokio = "1.35"

[dev-dependencies]
criterion = "0.5"
tokio = "0.1"

[build-dependencies]
cc = "1.0"
`
	got, err := parseCargoToml(content)
	if err != nil {
		t.Fatalf("parseCargoToml failed: %v", err)
	}
	if got["serde"] != "1.0" {
		t.Errorf("expected serde version from inline table, got %q", got["serde"])
	}
	if got["tokio"] != "1.35" {
		t.Errorf("runtime dependency must win over dev, got %q", got["tokio"])
	}
	if got["criterion"] != "0.5" || got["cc"] != "1.0" {
		t.Errorf("unexpected dependencies: %v", got)
	}
}

func Test_parsePubspec(t *testing.T) {
	content := `name: app

dependencies:
  http: ^1.1.0
  flutter:
    sdk: flutter

dev_dependencies:
  test: ^1.24.0
`
	got, err := parsePubspec(content)
	if err != nil {
		t.Fatalf("parsePubspec failed: %v", err)
	}
	if got["http"] != "^1.1.0" || got["test"] != "^1.24.0" {
		t.Errorf("unexpected dependencies: %v", got)
	}
	if got["flutter"] != "" {
		t.Errorf("sdk dependency must map to empty version, got %q", got["flutter"])
	}
}

func Test_Collect_FirstManifestWins(t *testing.T) {
	snap := testSnapshot(t, map[string]string{
		"a/package.json": `{"dependencies": {"react": "1.0.0"}}`,
		"b/package.json": `{"dependencies": {"react": "2.0.0", "extra": "1.0.0"}}`,
	})

	report := Collect(snap, testLogger())
	if len(report.Manifests) != 2 {
		t.Fatalf("expected 2 manifests, got %v", report.Manifests)
	}
	if report.Manifests[0] != "a/package.json" || report.Manifests[1] != "b/package.json" {
		t.Errorf("expected path-ordered manifests, got %v", report.Manifests)
	}
	if report.Dependencies["react"] != "1.0.0" {
		t.Errorf("first manifest must win, got %q", report.Dependencies["react"])
	}
	if report.Dependencies["extra"] != "1.0.0" {
		t.Errorf("non-conflicting names still merge, got %q", report.Dependencies["extra"])
	}
}

func Test_Collect_SkipsUnparseableManifests(t *testing.T) {
	snap := testSnapshot(t, map[string]string{
		"go.mod":       "module example.com/app\n\nrequire github.com/google/uuid v1.6.0\n",
		"package.json": "{",
	})

	report := Collect(snap, testLogger())
	if len(report.Manifests) != 1 || report.Manifests[0] != "go.mod" {
		t.Errorf("expected only go.mod collected, got %v", report.Manifests)
	}
	if report.Dependencies["github.com/google/uuid"] != "v1.6.0" {
		t.Errorf("unexpected dependencies: %v", report.Dependencies)
	}
}

func Test_Collect_NoManifests(t *testing.T) {
	snap := testSnapshot(t, map[string]string{"main.go": "package main\n"})

	report := Collect(snap, testLogger())
	if report.Dependencies == nil || report.Manifests == nil {
		t.Fatal("expected empty report, got nil maps")
	}
	if len(report.Dependencies) != 0 || len(report.Manifests) != 0 {
		t.Errorf("expected empty report, got %+v", report)
	}
}
