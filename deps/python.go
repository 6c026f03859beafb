package deps

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
)

// requirementSeparators are PEP 508 version operators, longest first so
// "===" is not split as "==".
var requirementSeparators = []string{"===", "==", ">=", "<=", "~=", "!=", ">", "<"}

// parseRequirements reads a pip requirements.txt. Flag lines and includes
// are skipped; bare names map to an empty version.
func parseRequirements(content string) (map[string]string, error) {
	out := make(map[string]string)
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "-") {
			continue
		}
		name, version := splitRequirement(line)
		if name != "" {
			out[name] = version
		}
	}
	return out, nil
}

// splitRequirement breaks one requirement specifier into name and version,
// dropping inline comments, environment markers, and extras.
func splitRequirement(line string) (name, version string) {
	if i := strings.Index(line, " #"); i >= 0 {
		line = line[:i]
	}
	if i := strings.IndexByte(line, ';'); i >= 0 {
		line = line[:i]
	}
	line = strings.TrimSpace(line)

	rest := ""
	for _, sep := range requirementSeparators {
		if i := strings.Index(line, sep); i >= 0 {
			line, rest = line[:i], strings.TrimSpace(line[i:])
			break
		}
	}
	if i := strings.IndexByte(line, '['); i >= 0 {
		line = line[:i]
	}
	return strings.TrimSpace(line), rest
}

type pyProject struct {
	Project struct {
		Dependencies []string `toml:"dependencies"`
	} `toml:"project"`
	Tool struct {
		Poetry struct {
			Dependencies map[string]interface{} `toml:"dependencies"`
		} `toml:"poetry"`
	} `toml:"tool"`
}

// parsePyProject handles both PEP 621 [project] dependency lists and legacy
// [tool.poetry.dependencies] tables.
func parsePyProject(content string) (map[string]string, error) {
	var manifest pyProject
	if err := toml.Unmarshal([]byte(content), &manifest); err != nil {
		return nil, fmt.Errorf("parsing pyproject.toml: %w", err)
	}

	out := make(map[string]string)
	for _, spec := range manifest.Project.Dependencies {
		name, version := splitRequirement(spec)
		if name != "" {
			out[name] = version
		}
	}
	for name, value := range manifest.Tool.Poetry.Dependencies {
		if name == "python" {
			continue
		}
		out[name] = tomlVersion(value)
	}
	return out, nil
}

// tomlVersion extracts a version string from either a bare string value or
// an inline table with a version key.
func tomlVersion(value interface{}) string {
	switch v := value.(type) {
	case string:
		return v
	case map[string]interface{}:
		if version, ok := v["version"].(string); ok {
			return version
		}
	}
	return ""
}
