package deps

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

type pubspecManifest struct {
	Dependencies    map[string]interface{} `yaml:"dependencies"`
	DevDependencies map[string]interface{} `yaml:"dev_dependencies"`
}

// parsePubspec reads a Dart pubspec.yaml. SDK, git, and path dependencies
// carry no plain version and map to an empty string.
func parsePubspec(content string) (map[string]string, error) {
	var manifest pubspecManifest
	if err := yaml.Unmarshal([]byte(content), &manifest); err != nil {
		return nil, fmt.Errorf("parsing pubspec.yaml: %w", err)
	}

	out := make(map[string]string)
	for name, value := range manifest.DevDependencies {
		out[name] = pubspecVersion(value)
	}
	for name, value := range manifest.Dependencies {
		out[name] = pubspecVersion(value)
	}
	return out, nil
}

func pubspecVersion(value interface{}) string {
	if version, ok := value.(string); ok {
		return version
	}
	return ""
}
