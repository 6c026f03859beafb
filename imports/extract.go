package imports

import (
	"regexp"
	"strings"
)

// localModulePrefix marks a Rust "mod name;" declaration so resolution can
// probe sibling files instead of treating the name as a use-path.
const localModulePrefix = "self::"

var (
	jsImportLine = regexp.MustCompile(`^\s*(?:import|export)\b[^'"]*['"]([^'"]+)['"]`)
	jsRequire    = regexp.MustCompile(`(?:require|import)\(\s*['"]([^'"]+)['"]\s*\)`)
)

// extractRefs returns the raw import specifiers of content in declaration
// order, without duplicates.
func extractRefs(language, content string) []string {
	var refs []string
	switch language {
	case "Go":
		refs = goRefs(content)
	case "Python":
		refs = pythonRefs(content)
	case "JavaScript", "TypeScript":
		refs = jsRefs(content)
	case "Rust":
		refs = rustRefs(content)
	case "Java", "Kotlin":
		refs = javaRefs(content)
	case "C", "C++":
		refs = cRefs(content)
	default:
		return nil
	}

	seen := make(map[string]bool, len(refs))
	unique := refs[:0]
	for _, ref := range refs {
		if ref == "" || seen[ref] {
			continue
		}
		seen[ref] = true
		unique = append(unique, ref)
	}
	return unique
}

func goRefs(content string) []string {
	var refs []string
	inBlock := false
	for _, line := range strings.Split(content, "\n") {
		trimmed := strings.TrimSpace(line)
		switch {
		case inBlock:
			if trimmed == ")" || strings.HasPrefix(trimmed, ")") {
				inBlock = false
				continue
			}
			if ref := quotedSegment(trimmed); ref != "" {
				refs = append(refs, ref)
			}
		case strings.HasPrefix(trimmed, "import ("):
			inBlock = true
		case strings.HasPrefix(trimmed, "import "):
			if ref := quotedSegment(trimmed); ref != "" {
				refs = append(refs, ref)
			}
		}
	}
	return refs
}

func pythonRefs(content string) []string {
	var refs []string
	for _, line := range strings.Split(content, "\n") {
		trimmed := strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(trimmed, "import "):
			for _, part := range strings.Split(trimmed[len("import "):], ",") {
				fields := strings.Fields(part)
				if len(fields) > 0 {
					refs = append(refs, fields[0])
				}
			}
		case strings.HasPrefix(trimmed, "from "):
			fields := strings.Fields(trimmed)
			if len(fields) >= 3 && fields[2] == "import" {
				refs = append(refs, fields[1])
			}
		}
	}
	return refs
}

func jsRefs(content string) []string {
	var refs []string
	for _, line := range strings.Split(content, "\n") {
		if m := jsImportLine.FindStringSubmatch(line); m != nil {
			refs = append(refs, m[1])
			continue
		}
		for _, m := range jsRequire.FindAllStringSubmatch(line, -1) {
			refs = append(refs, m[1])
		}
	}
	return refs
}

func rustRefs(content string) []string {
	var refs []string
	for _, line := range strings.Split(content, "\n") {
		trimmed := strings.TrimSpace(line)
		trimmed = strings.TrimPrefix(trimmed, "pub ")
		switch {
		case strings.HasPrefix(trimmed, "use "):
			spec := strings.TrimSuffix(strings.TrimSpace(trimmed[len("use "):]), ";")
			// "use a::b::{c, d}" keeps the common stem only.
			if brace := strings.Index(spec, "{"); brace >= 0 {
				spec = strings.TrimSuffix(strings.TrimSpace(spec[:brace]), "::")
			}
			if spec != "" {
				refs = append(refs, spec)
			}
		case strings.HasPrefix(trimmed, "mod ") && strings.HasSuffix(trimmed, ";"):
			name := strings.TrimSpace(strings.TrimSuffix(trimmed[len("mod "):], ";"))
			if name != "" {
				refs = append(refs, localModulePrefix+name)
			}
		}
	}
	return refs
}

func javaRefs(content string) []string {
	var refs []string
	for _, line := range strings.Split(content, "\n") {
		trimmed := strings.TrimSpace(line)
		if !strings.HasPrefix(trimmed, "import ") {
			continue
		}
		spec := strings.TrimSpace(trimmed[len("import "):])
		spec = strings.TrimPrefix(spec, "static ")
		spec = strings.TrimSuffix(strings.TrimSpace(spec), ";")
		spec = strings.TrimSuffix(spec, ".*")
		if spec != "" {
			refs = append(refs, spec)
		}
	}
	return refs
}

func cRefs(content string) []string {
	var refs []string
	for _, line := range strings.Split(content, "\n") {
		trimmed := strings.TrimSpace(line)
		if !strings.HasPrefix(trimmed, "#include") {
			continue
		}
		rest := strings.TrimSpace(trimmed[len("#include"):])
		if ref := quotedSegment(rest); ref != "" {
			refs = append(refs, ref)
			continue
		}
		if open := strings.Index(rest, "<"); open >= 0 {
			if end := strings.Index(rest[open:], ">"); end > 0 {
				refs = append(refs, rest[open+1:open+end])
			}
		}
	}
	return refs
}

// quotedSegment returns the first double-quoted substring of s.
func quotedSegment(s string) string {
	open := strings.Index(s, `"`)
	if open < 0 {
		return ""
	}
	rest := s[open+1:]
	closing := strings.Index(rest, `"`)
	if closing < 0 {
		return ""
	}
	return rest[:closing]
}
