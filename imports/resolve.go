package imports

import (
	"path"
	"sort"
	"strings"

	"github.com/repolens/repolens/deps"
	"github.com/repolens/repolens/index"
)

var jsExtensions = []string{".ts", ".tsx", ".js", ".jsx", ".mjs", ".cjs"}

// resolver maps import specifiers to snapshot paths. It precomputes the
// directory set and the Go files per directory so probes are map lookups.
type resolver struct {
	snap       *index.Snapshot
	modulePath string
	dirs       map[string]bool
	packages   map[string][]string
}

func newResolver(snap *index.Snapshot) *resolver {
	r := &resolver{
		snap:       snap,
		modulePath: deps.ModulePath(snap),
		dirs:       make(map[string]bool),
		packages:   make(map[string][]string),
	}
	for _, f := range snap.Files() {
		dir := path.Dir(f.Path)
		for d := dir; ; d = path.Dir(d) {
			r.dirs[d] = true
			if d == "." {
				break
			}
		}
		if strings.HasSuffix(f.Path, ".go") && !strings.HasSuffix(f.Path, "_test.go") {
			r.packages[dir] = append(r.packages[dir], f.Path)
		}
	}
	for dir := range r.packages {
		sort.Strings(r.packages[dir])
	}
	return r
}

// edgesFor extracts and resolves the import edges of one file. Unreadable
// content yields no edges.
func (r *resolver) edgesFor(filePath string) []Edge {
	file, ok := r.snap.File(filePath)
	if !ok {
		return nil
	}
	content, err := r.snap.Content(filePath)
	if err != nil {
		return nil
	}

	refs := extractRefs(file.Language, content)
	edges := make([]Edge, 0, len(refs))
	for _, ref := range refs {
		if to, ok := r.resolve(filePath, file.Language, ref); ok {
			edges = append(edges, Edge{From: filePath, To: to, Resolved: true})
			continue
		}
		edges = append(edges, Edge{From: filePath, To: strings.TrimPrefix(ref, localModulePrefix), Resolved: false})
	}
	return edges
}

func (r *resolver) resolve(from, language, ref string) (string, bool) {
	switch language {
	case "Go":
		return r.resolveGo(ref)
	case "Python":
		return r.resolvePython(from, ref)
	case "JavaScript", "TypeScript":
		return r.resolveJS(from, ref)
	case "Rust":
		return r.resolveRust(from, ref)
	case "Java":
		return r.resolveClasspath(ref, ".java")
	case "Kotlin":
		return r.resolveClasspath(ref, ".kt")
	case "C", "C++":
		return r.resolveInclude(from, ref)
	default:
		return "", false
	}
}

// resolveGo maps module-internal import paths to package directories.
func (r *resolver) resolveGo(ref string) (string, bool) {
	if r.modulePath == "" {
		return "", false
	}
	var rel string
	switch {
	case ref == r.modulePath:
		rel = "."
	case strings.HasPrefix(ref, r.modulePath+"/"):
		rel = ref[len(r.modulePath)+1:]
	default:
		return "", false
	}
	if len(r.packages[rel]) > 0 {
		return rel, true
	}
	return "", false
}

func (r *resolver) resolvePython(from, ref string) (string, bool) {
	if strings.HasPrefix(ref, ".") {
		dots := len(ref) - len(strings.TrimLeft(ref, "."))
		base := path.Dir(from)
		for i := 1; i < dots; i++ {
			base = path.Dir(base)
		}
		rest := ref[dots:]
		if rest == "" {
			return r.probeFile(path.Join(base, "__init__.py"))
		}
		target := path.Join(base, strings.ReplaceAll(rest, ".", "/"))
		return r.probeModule(target)
	}

	target := strings.ReplaceAll(ref, ".", "/")
	if resolved, ok := r.probeModule(target); ok {
		return resolved, ok
	}
	// src layouts keep packages one level down.
	return r.probeModule(path.Join("src", target))
}

func (r *resolver) probeModule(target string) (string, bool) {
	if resolved, ok := r.probeFile(target + ".py"); ok {
		return resolved, ok
	}
	return r.probeFile(path.Join(target, "__init__.py"))
}

// resolveJS handles relative specifiers only; bare specifiers are package
// imports and stay external.
func (r *resolver) resolveJS(from, ref string) (string, bool) {
	if !strings.HasPrefix(ref, "./") && !strings.HasPrefix(ref, "../") {
		return "", false
	}
	target := path.Join(path.Dir(from), ref)
	if resolved, ok := r.probeFile(target); ok {
		return resolved, ok
	}
	for _, ext := range jsExtensions {
		if resolved, ok := r.probeFile(target + ext); ok {
			return resolved, ok
		}
	}
	for _, ext := range jsExtensions {
		if resolved, ok := r.probeFile(path.Join(target, "index"+ext)); ok {
			return resolved, ok
		}
	}
	return "", false
}

func (r *resolver) resolveRust(from, ref string) (string, bool) {
	if name, ok := strings.CutPrefix(ref, localModulePrefix); ok {
		dir := path.Dir(from)
		if resolved, ok := r.probeFile(path.Join(dir, name+".rs")); ok {
			return resolved, ok
		}
		return r.probeFile(path.Join(dir, name, "mod.rs"))
	}

	segments := strings.Split(ref, "::")
	var base string
	switch segments[0] {
	case "crate":
		base = "src"
	case "super":
		base = path.Dir(path.Dir(from))
	case "self":
		base = path.Dir(from)
	default:
		return "", false
	}
	segments = segments[1:]

	// The trailing segments may name items rather than modules, so probe
	// progressively shorter paths.
	for end := len(segments); end > 0; end-- {
		target := path.Join(append([]string{base}, segments[:end]...)...)
		if resolved, ok := r.probeFile(target + ".rs"); ok {
			return resolved, ok
		}
		if resolved, ok := r.probeFile(path.Join(target, "mod.rs")); ok {
			return resolved, ok
		}
	}
	return "", false
}

// resolveClasspath probes for a source file whose path ends with the
// qualified name, under any source root.
func (r *resolver) resolveClasspath(ref string, ext string) (string, bool) {
	suffix := strings.ReplaceAll(ref, ".", "/") + ext
	for _, f := range r.snap.Files() {
		if f.Path == suffix || strings.HasSuffix(f.Path, "/"+suffix) {
			return f.Path, true
		}
	}
	return "", false
}

func (r *resolver) resolveInclude(from, ref string) (string, bool) {
	if resolved, ok := r.probeFile(path.Join(path.Dir(from), ref)); ok {
		return resolved, ok
	}
	// Quoted includes are often rooted at an include directory.
	if resolved, ok := r.probeFile(ref); ok {
		return resolved, ok
	}
	return r.probeFile(path.Join("include", ref))
}

func (r *resolver) probeFile(p string) (string, bool) {
	p = path.Clean(p)
	if _, ok := r.snap.File(p); ok {
		return p, true
	}
	return "", false
}
