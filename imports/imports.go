// Package imports extracts import statements per language, resolves them to
// snapshot paths where possible, and builds the import graph reachable from
// a file.
package imports

import (
	"fmt"

	"github.com/repolens/repolens/index"
)

// graphFileCap bounds how many files a graph walk visits.
const graphFileCap = 256

// Edge is one import relationship. To is a snapshot-relative path (file or
// package directory) when Resolved, otherwise the external module name as
// written.
type Edge struct {
	From     string `json:"from"`
	To       string `json:"to"`
	Resolved bool   `json:"resolved"`
}

// Graph is the import graph reachable from Root by following resolved edges
// breadth-first.
type Graph struct {
	Root  string `json:"root"`
	Edges []Edge `json:"edges"`
}

// Extract returns the import edges declared by a single file. Returns
// index.ErrNotFound when the path is not in the snapshot.
func Extract(snap *index.Snapshot, filePath string) ([]Edge, error) {
	if _, ok := snap.File(filePath); !ok {
		return nil, fmt.Errorf("%w: %s", index.ErrNotFound, filePath)
	}
	r := newResolver(snap)
	return r.edgesFor(filePath), nil
}

// BuildGraph walks resolved edges from root, breadth-first and bounded,
// collecting every traversed file's edges. Resolved edges pointing at Go
// package directories are expanded through the directory's member files.
// Traversal order is deterministic: edges are emitted in per-file
// declaration order, files in discovery order.
func BuildGraph(snap *index.Snapshot, root string) (*Graph, error) {
	if _, ok := snap.File(root); !ok {
		return nil, fmt.Errorf("%w: %s", index.ErrNotFound, root)
	}

	r := newResolver(snap)
	g := &Graph{Root: root, Edges: make([]Edge, 0)}
	visited := make(map[string]bool)
	queue := []string{root}

	for len(queue) > 0 && len(visited) < graphFileCap {
		current := queue[0]
		queue = queue[1:]
		if visited[current] {
			continue
		}
		visited[current] = true

		edges := r.edgesFor(current)
		g.Edges = append(g.Edges, edges...)

		for _, e := range edges {
			if !e.Resolved {
				continue
			}
			if members, isPackage := r.packages[e.To]; isPackage {
				for _, member := range members {
					if !visited[member] {
						queue = append(queue, member)
					}
				}
				continue
			}
			if !visited[e.To] {
				queue = append(queue, e.To)
			}
		}
	}
	return g, nil
}
