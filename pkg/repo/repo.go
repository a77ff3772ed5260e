// Package repo models the flat repository listing that every analysis stage reads.
//
// A [Tree] is the recursive file listing of a repository as returned by a
// source (a GitHub tree call or a local directory walk). Paths are relative,
// slash-separated and unique. Trees are validated once with [Tree.Validate]
// before analysis so later stages can rely on well-formed input.
package repo

import (
	"path"
	"strings"

	"github.com/matzehuels/gitmaster/pkg/errors"
)

// Kind distinguishes files from directories in a tree listing.
type Kind string

const (
	KindFile      Kind = "file"
	KindDirectory Kind = "directory"
)

// Item is one entry of a repository listing.
type Item struct {
	Path string `json:"path"`
	Kind Kind   `json:"kind"`
	Size int64  `json:"size,omitempty"`
}

// IsFile reports whether the item is a file.
func (i Item) IsFile() bool { return i.Kind == KindFile }

// IsDir reports whether the item is a directory.
func (i Item) IsDir() bool { return i.Kind == KindDirectory }

// Name returns the last path segment.
func (i Item) Name() string { return path.Base(i.Path) }

// Tree is a flat repository listing in source order.
type Tree []Item

// Validate checks the structural preconditions of the listing.
// The first violation is returned as an [errors.ErrCodeInvalidTree] error
// naming the offending index.
func (t Tree) Validate() error {
	seen := make(map[string]int, len(t))
	for i, item := range t {
		if item.Path == "" {
			return errors.New(errors.ErrCodeInvalidTree, "tree item %d: missing path", i)
		}
		if err := errors.ValidatePath(item.Path); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidTree, err, "tree item %d: invalid path %q", i, item.Path)
		}
		if item.Kind != KindFile && item.Kind != KindDirectory {
			return errors.New(errors.ErrCodeInvalidTree, "tree item %d (%s): invalid kind %q", i, item.Path, item.Kind)
		}
		if item.Size < 0 {
			return errors.New(errors.ErrCodeInvalidTree, "tree item %d (%s): negative size %d", i, item.Path, item.Size)
		}
		if prev, ok := seen[item.Path]; ok {
			return errors.New(errors.ErrCodeInvalidTree, "tree item %d: duplicate path %q (first at %d)", i, item.Path, prev)
		}
		seen[item.Path] = i
	}
	return nil
}

// Files returns the file entries in tree order.
func (t Tree) Files() []Item {
	return t.filter(KindFile)
}

// Dirs returns the directory entries in tree order.
func (t Tree) Dirs() []Item {
	return t.filter(KindDirectory)
}

func (t Tree) filter(k Kind) []Item {
	var out []Item
	for _, item := range t {
		if item.Kind == k {
			out = append(out, item)
		}
	}
	return out
}

// FilePaths returns the set of file paths.
func (t Tree) FilePaths() map[string]bool {
	out := make(map[string]bool)
	for _, item := range t {
		if item.IsFile() {
			out[item.Path] = true
		}
	}
	return out
}

// HasDir reports whether a directory with exactly this path exists.
func (t Tree) HasDir(p string) bool {
	for _, item := range t {
		if item.IsDir() && item.Path == p {
			return true
		}
	}
	return false
}

// TopLevelDirs returns directories without a separator, in tree order.
func (t Tree) TopLevelDirs() []Item {
	var out []Item
	for _, item := range t {
		if item.IsDir() && !strings.Contains(item.Path, "/") {
			out = append(out, item)
		}
	}
	return out
}

// Depth returns the number of segments in p ("src" is 1, "src/lib" is 2).
func Depth(p string) int {
	return strings.Count(p, "/") + 1
}

// Dir returns the parent directory of p, or "" for repository-root entries.
func Dir(p string) string {
	i := strings.LastIndex(p, "/")
	if i < 0 {
		return ""
	}
	return p[:i]
}

// Ext returns the lower-cased extension of p without the dot.
func Ext(p string) string {
	base := path.Base(p)
	i := strings.LastIndex(base, ".")
	if i < 0 || i == len(base)-1 {
		return ""
	}
	return strings.ToLower(base[i+1:])
}

// HasSegment reports whether any path segment of p is in set.
func HasSegment(p string, set map[string]bool) bool {
	for _, seg := range strings.Split(p, "/") {
		if set[seg] {
			return true
		}
	}
	return false
}
