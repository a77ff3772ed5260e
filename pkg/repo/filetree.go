package repo

import (
	"sort"
	"strings"
)

// excludedTreePaths are directory names hidden from the nested file tree.
var excludedTreePaths = map[string]bool{
	".git":          true,
	"node_modules":  true,
	"dist":          true,
	"build":         true,
	".next":         true,
	"coverage":      true,
	"__pycache__":   true,
	".pytest_cache": true,
	"target":        true,
	"vendor":        true,
	".gradle":       true,
	".idea":         true,
	".vscode":       true,
	".settings":     true,
	"bin":           true,
	"obj":           true,
}

// FileNode is one node of the nested file tree.
type FileNode struct {
	Name     string      `json:"name"`
	Path     string      `json:"path"`
	Kind     Kind        `json:"kind"`
	Size     int64       `json:"size,omitempty"`
	Children []*FileNode `json:"children,omitempty"`
}

// BuildFileTree nests a flat listing under a synthetic root node.
// Entries below excluded directories are dropped. Directories implied by a
// path but missing from the listing are created. Children are ordered
// directories first, then by name.
func BuildFileTree(t Tree) *FileNode {
	root := &FileNode{Name: "root", Kind: KindDirectory}
	index := map[string]*FileNode{"": root}

	var ensureDir func(p string) *FileNode
	ensureDir = func(p string) *FileNode {
		if n, ok := index[p]; ok {
			return n
		}
		parent := ensureDir(Dir(p))
		n := &FileNode{Name: lastSegment(p), Path: p, Kind: KindDirectory}
		parent.Children = append(parent.Children, n)
		index[p] = n
		return n
	}

	for _, item := range t {
		if HasSegment(item.Path, excludedTreePaths) {
			continue
		}
		if item.IsDir() {
			ensureDir(item.Path)
			continue
		}
		parent := ensureDir(Dir(item.Path))
		parent.Children = append(parent.Children, &FileNode{
			Name: lastSegment(item.Path),
			Path: item.Path,
			Kind: KindFile,
			Size: item.Size,
		})
	}

	sortFileNode(root)
	return root
}

func sortFileNode(n *FileNode) {
	sort.SliceStable(n.Children, func(i, j int) bool {
		a, b := n.Children[i], n.Children[j]
		if a.Kind != b.Kind {
			return a.Kind == KindDirectory
		}
		return a.Name < b.Name
	})
	for _, c := range n.Children {
		if c.Kind == KindDirectory {
			sortFileNode(c)
		}
	}
}

func lastSegment(p string) string {
	if i := strings.LastIndex(p, "/"); i >= 0 {
		return p[i+1:]
	}
	return p
}
