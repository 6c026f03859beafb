// Package deps extracts declared dependencies from the package-manager
// manifests present in a snapshot and merges them into one name-to-version
// table.
package deps

import (
	"log/slog"

	"github.com/repolens/repolens/index"
)

// manifestParsers maps manifest basenames to their parser. Each parser
// returns a name-to-version table.
var manifestParsers = map[string]func(content string) (map[string]string, error){
	"go.mod":           parseGoMod,
	"package.json":     parsePackageJSON,
	"requirements.txt": parseRequirements,
	"pyproject.toml":   parsePyProject,
	"Cargo.toml":       parseCargoToml,
	"pubspec.yaml":     parsePubspec,
}

// IsManifest reports whether basename is a recognized package-manager
// manifest.
func IsManifest(basename string) bool {
	_, ok := manifestParsers[basename]
	return ok
}

// Report is the merged dependency table plus the manifests it came from.
type Report struct {
	Dependencies map[string]string `json:"dependencies"`
	Manifests    []string          `json:"manifests"`
}

// Collect parses every recognized manifest in the snapshot. Manifests are
// visited in snapshot (path-sorted) order and the first manifest to declare
// a name wins, so the merge is deterministic. Unparseable manifests are
// logged and skipped, never fatal.
func Collect(snap *index.Snapshot, log *slog.Logger) Report {
	report := Report{
		Dependencies: make(map[string]string),
		Manifests:    make([]string, 0, 4),
	}

	for _, f := range snap.Files() {
		parse, ok := manifestParsers[f.Filename]
		if !ok {
			continue
		}
		content, err := snap.Content(f.Path)
		if err != nil {
			continue
		}
		parsed, err := parse(content)
		if err != nil {
			log.Warn("skipping unparseable manifest", "path", f.Path, "error", err)
			continue
		}

		report.Manifests = append(report.Manifests, f.Path)
		for name, version := range parsed {
			if _, exists := report.Dependencies[name]; !exists {
				report.Dependencies[name] = version
			}
		}
	}
	return report
}
