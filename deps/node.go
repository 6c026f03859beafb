package deps

import (
	"encoding/json"
	"fmt"
)

type packageJSON struct {
	Dependencies    map[string]string `json:"dependencies"`
	DevDependencies map[string]string `json:"devDependencies"`
}

// parsePackageJSON merges dependencies and devDependencies; a name declared
// in both resolves to the runtime dependency's version.
func parsePackageJSON(content string) (map[string]string, error) {
	var manifest packageJSON
	if err := json.Unmarshal([]byte(content), &manifest); err != nil {
		return nil, fmt.Errorf("parsing package.json: %w", err)
	}

	out := make(map[string]string, len(manifest.Dependencies)+len(manifest.DevDependencies))
	for name, version := range manifest.DevDependencies {
		out[name] = version
	}
	for name, version := range manifest.Dependencies {
		out[name] = version
	}
	return out, nil
}
