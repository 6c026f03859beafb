package deps

import (
	"fmt"

	"golang.org/x/mod/modfile"

	"github.com/repolens/repolens/index"
)

// parseGoMod reads every require directive, indirect ones included.
func parseGoMod(content string) (map[string]string, error) {
	f, err := modfile.ParseLax("go.mod", []byte(content), nil)
	if err != nil {
		return nil, fmt.Errorf("parsing go.mod: %w", err)
	}

	out := make(map[string]string, len(f.Require))
	for _, r := range f.Require {
		out[r.Mod.Path] = r.Mod.Version
	}
	return out, nil
}

// ModulePath returns the module path declared by the repository's root
// go.mod, or "" when there is none. The import resolver uses it to tell
// intra-repository Go imports from external ones.
func ModulePath(snap *index.Snapshot) string {
	content, err := snap.Content("go.mod")
	if err != nil {
		return ""
	}
	f, err := modfile.ParseLax("go.mod", []byte(content), nil)
	if err != nil || f.Module == nil {
		return ""
	}
	return f.Module.Mod.Path
}
