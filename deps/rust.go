package deps

import (
	"fmt"

	"github.com/BurntSushi/toml"
)

type cargoManifest struct {
	Dependencies      map[string]interface{} `toml:"dependencies"`
	DevDependencies   map[string]interface{} `toml:"dev-dependencies"`
	BuildDependencies map[string]interface{} `toml:"build-dependencies"`
}

// parseCargoToml merges the three Cargo dependency tables; runtime
// dependencies win on name collisions.
func parseCargoToml(content string) (map[string]string, error) {
	var manifest cargoManifest
	if err := toml.Unmarshal([]byte(content), &manifest); err != nil {
		return nil, fmt.Errorf("parsing Cargo.toml: %w", err)
	}

	out := make(map[string]string)
	for name, value := range manifest.BuildDependencies {
		out[name] = tomlVersion(value)
	}
	for name, value := range manifest.DevDependencies {
		out[name] = tomlVersion(value)
	}
	for name, value := range manifest.Dependencies {
		out[name] = tomlVersion(value)
	}
	return out, nil
}
