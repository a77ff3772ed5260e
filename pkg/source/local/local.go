// Package local reads a repository snapshot from a directory on disk.
package local

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/gitmaster/pkg/errors"
	"github.com/matzehuels/gitmaster/pkg/manifest"
	"github.com/matzehuels/gitmaster/pkg/observability"
	"github.com/matzehuels/gitmaster/pkg/repo"
	"github.com/matzehuels/gitmaster/pkg/source"
)

// MaxManifestSize is the largest manifest file that is read. Bigger files
// are skipped.
const MaxManifestSize = 1 << 20

// Source walks a directory.
type Source struct {
	root   string
	logger *log.Logger
}

var _ source.Source = (*Source)(nil)

// New returns a source rooted at dir. A nil logger discards output.
func New(dir string, logger *log.Logger) *Source {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Source{root: dir, logger: logger}
}

// Name returns the absolute directory path, or the path as given when it
// cannot be resolved.
func (s *Source) Name() string {
	if abs, err := filepath.Abs(s.root); err == nil {
		return abs
	}
	return s.root
}

// Fetch walks the directory, skipping excluded directories, symlinks and
// other non-regular files, and reads every manifest the walk finds.
func (s *Source) Fetch(ctx context.Context) (snap *source.Snapshot, err error) {
	name := s.Name()
	hooks := observability.Fetch()
	hooks.OnFetchStart(ctx, name)
	defer func() {
		files := 0
		if snap != nil {
			files = len(snap.Tree)
		}
		hooks.OnFetchComplete(ctx, name, files, err)
	}()

	info, err := os.Stat(name)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeNotFound, err, "directory %s not found", name)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "stat %s", name)
	}
	if !info.IsDir() {
		return nil, errors.New(errors.ErrCodeInvalidPath, "%s is not a directory", name)
	}

	tree, err := s.walk(ctx, name)
	if err != nil {
		return nil, err
	}

	manifests := make(map[string]string)
	for _, loc := range manifest.Scan(tree) {
		data, err := readLimited(filepath.Join(name, filepath.FromSlash(loc.Path)))
		if err != nil {
			s.logger.Debug("skipping manifest", "path", loc.Path, "error", err)
			continue
		}
		manifests[loc.Path] = string(data)
	}
	s.logger.Debug("walked directory", "root", name, "entries", len(tree), "manifests", len(manifests))

	base := filepath.Base(name)
	return &source.Snapshot{
		Repository: source.Metadata{
			Name:        base,
			FullName:    base,
			Description: readmeTitle(name, tree),
			URL:         "file://" + filepath.ToSlash(name),
			Topics:      []string{},
		},
		Tree:      tree,
		Manifests: manifests,
	}, nil
}

func (s *Source) walk(ctx context.Context, root string) (repo.Tree, error) {
	tree := repo.Tree{}
	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			if p == root {
				return err
			}
			s.logger.Debug("skipping unreadable entry", "path", p, "error", err)
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if p == root {
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		rel, err := filepath.Rel(root, p)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)

		switch {
		case d.IsDir():
			if manifest.ExcludedDirs[d.Name()] {
				return filepath.SkipDir
			}
			tree = append(tree, repo.Item{Path: rel, Kind: repo.KindDirectory})
		case d.Type().IsRegular():
			fi, err := d.Info()
			if err != nil {
				return nil
			}
			tree = append(tree, repo.Item{Path: rel, Kind: repo.KindFile, Size: fi.Size()})
		}
		return nil
	})
	if err != nil {
		if ctx.Err() != nil {
			return nil, errors.Wrap(errors.ErrCodeTimeout, err, "walk %s", root)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "walk %s", root)
	}
	return tree, nil
}

func readLimited(p string) ([]byte, error) {
	fi, err := os.Stat(p)
	if err != nil {
		return nil, err
	}
	if fi.Size() > MaxManifestSize {
		return nil, errors.New(errors.ErrCodeInvalidInput, "manifest exceeds %d bytes", MaxManifestSize)
	}
	return os.ReadFile(p)
}

// readmeTitle returns the first non-empty line of a root README with any
// leading heading markers removed.
func readmeTitle(root string, tree repo.Tree) string {
	for _, item := range tree {
		if !item.IsFile() || strings.Contains(item.Path, "/") {
			continue
		}
		lower := strings.ToLower(item.Path)
		if lower != "readme" && !strings.HasPrefix(lower, "readme.") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(root, item.Path))
		if err != nil {
			return ""
		}
		sc := bufio.NewScanner(bytes.NewReader(data))
		for sc.Scan() {
			line := strings.TrimSpace(strings.TrimLeft(sc.Text(), "# "))
			if line != "" {
				return line
			}
		}
		return ""
	}
	return ""
}
