package manifest

import (
	"path"
	"sort"

	"github.com/repolens/repolens/index"
)

// Node is one entry in the directory tree. Directory sizes aggregate their
// descendants.
type Node struct {
	Name      string  `json:"name"`
	Path      string  `json:"path"`
	Dir       bool    `json:"dir"`
	SizeBytes int64   `json:"sizeBytes"`
	Children  []*Node `json:"children,omitempty"`
}

// Tree builds the directory tree of a snapshot. Children are sorted
// directories first, then by name.
func Tree(snap *index.Snapshot) *Node {
	root := &Node{Name: ".", Path: ".", Dir: true}
	nodes := map[string]*Node{".": root}

	for _, f := range snap.Files() {
		parent := ensureDir(nodes, path.Dir(f.Path))
		parent.Children = append(parent.Children, &Node{
			Name:      f.Filename,
			Path:      f.Path,
			SizeBytes: f.SizeBytes,
		})
	}

	finalize(root)
	return root
}

func ensureDir(nodes map[string]*Node, dir string) *Node {
	if n, ok := nodes[dir]; ok {
		return n
	}
	parent := ensureDir(nodes, path.Dir(dir))
	n := &Node{Name: path.Base(dir), Path: dir, Dir: true}
	parent.Children = append(parent.Children, n)
	nodes[dir] = n
	return n
}

func finalize(n *Node) int64 {
	if !n.Dir {
		return n.SizeBytes
	}
	for _, c := range n.Children {
		n.SizeBytes += finalize(c)
	}
	sort.Slice(n.Children, func(i, j int) bool {
		a, b := n.Children[i], n.Children[j]
		if a.Dir != b.Dir {
			return a.Dir
		}
		return a.Name < b.Name
	})
	return n.SizeBytes
}
