package arch

import (
	"fmt"
	"path"
	"strings"

	"github.com/matzehuels/gitmaster/pkg/deps"
	"github.com/matzehuels/gitmaster/pkg/detect"
	"github.com/matzehuels/gitmaster/pkg/errors"
	"github.com/matzehuels/gitmaster/pkg/insight"
	"github.com/matzehuels/gitmaster/pkg/manifest"
	"github.com/matzehuels/gitmaster/pkg/repo"
)

const (
	// RootID is the ID of the single root node.
	RootID = "root"

	extPrefix  = "ext-"
	entryLabel = "entry"
)

// Defaults for [Options].
const (
	DefaultHotspotFactor  = 1.5
	DefaultTopLanguages   = 3
	DefaultMinSubdirFiles = 2
	DefaultMaxConfigNodes = 5
)

// Options tunes graph construction. Zero fields take the defaults above.
type Options struct {
	// HotspotFactor multiplies the mean top-level directory file count to get
	// the hotspot threshold.
	HotspotFactor float64
	// TopLanguages caps the languages listed per node.
	TopLanguages int
	// MinSubdirFiles is the file count a depth-2 directory needs to get a node.
	MinSubdirFiles int
	// MaxConfigNodes caps the root-level config files added as nodes.
	MaxConfigNodes int
}

// WithDefaults returns a copy with zero fields replaced by defaults.
func (o Options) WithDefaults() Options {
	if o.HotspotFactor <= 0 {
		o.HotspotFactor = DefaultHotspotFactor
	}
	if o.TopLanguages <= 0 {
		o.TopLanguages = DefaultTopLanguages
	}
	if o.MinSubdirFiles <= 0 {
		o.MinSubdirFiles = DefaultMinSubdirFiles
	}
	if o.MaxConfigNodes <= 0 {
		o.MaxConfigNodes = DefaultMaxConfigNodes
	}
	return o
}

var (
	frontendDirNames = map[string]bool{"frontend": true, "client": true, "web": true}
	backendDirNames  = map[string]bool{"backend": true, "server": true, "api": true}
)

// Build derives the architecture graph of a repository. The tree is assumed
// to be valid; the result is validated before it is returned and a failure
// is reported as [errors.ErrCodeInvalidGraph].
func Build(t repo.Tree, info deps.Info, in insight.Insight, opts Options) (*Graph, error) {
	b := &builder{
		g:     New(),
		opts:  opts.WithDefaults(),
		in:    in,
		sizes: make(map[string]int64),
	}
	for _, item := range t {
		if item.IsFile() {
			b.sizes[item.Path] = item.Size
		}
	}

	steps := []func() error{
		func() error { return b.addRoot(t) },
		func() error { return b.addDirectories(t) },
		b.addEntryPoints,
		func() error { return b.addExternals(info.Manifests) },
		b.addConfigs,
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidGraph, err, "build architecture graph")
		}
	}
	if err := b.g.Validate(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidGraph, err, "validate architecture graph")
	}
	return b.g, nil
}

type builder struct {
	g     *Graph
	opts  Options
	in    insight.Insight
	sizes map[string]int64
}

// NodeID maps a repository path to its node ID. Paths that would collide
// with a synthetic ID are prefixed with "./".
func NodeID(p string) string {
	if p == RootID || strings.HasPrefix(p, extPrefix) {
		return "./" + p
	}
	return p
}

func (b *builder) addRoot(t repo.Tree) error {
	var files []string
	var size int64
	for _, item := range t {
		if item.IsFile() && !strings.Contains(item.Path, "/") {
			files = append(files, item.Path)
			size += item.Size
		}
	}
	return b.g.AddNode(Node{
		ID:        RootID,
		Label:     "Root",
		Kind:      KindRoot,
		FileCount: len(files),
		TotalSize: size,
		Languages: repo.TopLanguages(files, b.opts.TopLanguages),
	})
}

// dirGroup collects the files below one directory.
type dirGroup struct {
	path  string
	files []string
	size  int64
	subs  []string
}

func (d *dirGroup) add(p string, size int64) {
	d.files = append(d.files, p)
	d.size += size
}

// groupDirectories returns top-level directories in order of first
// appearance, including directories only implied by file paths, and the
// depth-2 directories below each of them.
func groupDirectories(t repo.Tree) ([]*dirGroup, map[string]*dirGroup) {
	var tops []*dirGroup
	groups := make(map[string]*dirGroup)
	get := func(p string, parent *dirGroup) *dirGroup {
		if g, ok := groups[p]; ok {
			return g
		}
		g := &dirGroup{path: p}
		groups[p] = g
		if parent == nil {
			tops = append(tops, g)
		} else {
			parent.subs = append(parent.subs, p)
		}
		return g
	}

	for _, item := range t {
		segs := strings.Split(item.Path, "/")
		if item.IsFile() {
			segs = segs[:len(segs)-1]
		}
		if len(segs) == 0 {
			continue
		}
		top := get(segs[0], nil)
		var sub *dirGroup
		if len(segs) >= 2 {
			sub = get(segs[0]+"/"+segs[1], top)
		}
		if item.IsFile() {
			top.add(item.Path, item.Size)
			if sub != nil {
				sub.add(item.Path, item.Size)
			}
		}
	}
	return tops, groups
}

func (b *builder) addDirectories(t repo.Tree) error {
	tops, groups := groupDirectories(t)
	if len(tops) == 0 {
		return nil
	}

	total := 0
	for _, d := range tops {
		total += len(d.files)
	}
	threshold := float64(total) / float64(len(tops)) * b.opts.HotspotFactor

	for _, d := range tops {
		kind := KindModule
		if b.containsEntryPoint(d.path) {
			kind = KindEntry
		}
		id := NodeID(d.path)
		err := b.g.AddNode(Node{
			ID:         id,
			Label:      d.path,
			Kind:       kind,
			FileCount:  len(d.files),
			TotalSize:  d.size,
			Languages:  repo.TopLanguages(d.files, b.opts.TopLanguages),
			Frameworks: b.frameworksFor(d.path),
			IsHotspot:  float64(len(d.files)) > threshold,
		})
		if err != nil {
			return err
		}
		b.g.AddEdge(Edge{Source: RootID, Target: id})

		for _, sp := range d.subs {
			sub := groups[sp]
			if len(sub.files) < b.opts.MinSubdirFiles {
				continue
			}
			subID := NodeID(sp)
			err := b.g.AddNode(Node{
				ID:        subID,
				Label:     path.Base(sp),
				Kind:      KindModule,
				FileCount: len(sub.files),
				TotalSize: sub.size,
				Languages: repo.TopLanguages(sub.files, b.opts.TopLanguages),
				IsHotspot: float64(len(sub.files)) > threshold,
			})
			if err != nil {
				return err
			}
			b.g.AddEdge(Edge{Source: id, Target: subID})
		}
	}
	return nil
}

func (b *builder) containsEntryPoint(dir string) bool {
	for _, ep := range b.in.EntryPoints {
		if ep == dir || strings.HasPrefix(ep, dir+"/") {
			return true
		}
	}
	return false
}

// frameworksFor attaches detections whose evidence mentions dir, plus the
// frontend or backend detections for conventionally named directories.
func (b *builder) frameworksFor(dir string) []string {
	out := []string{}
	for _, fw := range b.in.Frameworks {
		switch {
		case strings.Contains(fw.DetectedFrom, dir),
			frontendDirNames[dir] && fw.Category == detect.CategoryFrontend,
			backendDirNames[dir] && fw.Category == detect.CategoryBackend:
			out = append(out, fw.Name)
		}
	}
	return out
}

// parentNode returns the node of dir itself, or the root.
func (b *builder) parentNode(dir string) string {
	if dir != "" && b.g.Has(NodeID(dir)) {
		return NodeID(dir)
	}
	return RootID
}

// nearestNode returns the node of dir or of its closest ancestor that has
// one, or the root.
func (b *builder) nearestNode(dir string) string {
	for d := dir; d != ""; d = repo.Dir(d) {
		if b.g.Has(NodeID(d)) {
			return NodeID(d)
		}
	}
	return RootID
}

func (b *builder) addEntryPoints() error {
	for _, ep := range b.in.EntryPoints {
		id := NodeID(ep)
		if b.g.Has(id) {
			continue
		}
		var langs []string
		if lang := repo.Language(ep); lang != "" {
			langs = []string{lang}
		}
		err := b.g.AddNode(Node{
			ID:        id,
			Label:     path.Base(ep),
			Kind:      KindEntry,
			FileCount: 1,
			TotalSize: b.sizes[ep],
			Languages: langs,
		})
		if err != nil {
			return err
		}
		b.g.AddEdge(Edge{Source: b.nearestNode(repo.Dir(ep)), Target: id, Label: entryLabel})
	}
	return nil
}

func (b *builder) addExternals(manifests []deps.Record) error {
	var order []manifest.Ecosystem
	byEco := make(map[manifest.Ecosystem][]deps.Record)
	for _, m := range manifests {
		if _, ok := byEco[m.Ecosystem]; !ok {
			order = append(order, m.Ecosystem)
		}
		byEco[m.Ecosystem] = append(byEco[m.Ecosystem], m)
	}

	for _, eco := range order {
		records := byEco[eco]
		total := 0
		for _, m := range records {
			total += m.TotalCount
		}
		id := extPrefix + string(eco)
		err := b.g.AddNode(Node{
			ID:        id,
			Label:     fmt.Sprintf("%s deps (%d)", eco, total),
			Kind:      KindExternal,
			FileCount: total,
		})
		if err != nil {
			return err
		}
		for _, m := range records {
			b.g.AddEdge(Edge{
				Source: b.parentNode(m.Dir()),
				Target: id,
				Label:  fmt.Sprintf("%d packages", m.TotalCount),
			})
		}
	}
	return nil
}

func (b *builder) addConfigs() error {
	added := 0
	for _, cf := range b.in.ConfigFiles {
		if added == b.opts.MaxConfigNodes {
			break
		}
		if strings.Contains(cf, "/") {
			continue
		}
		id := NodeID(cf)
		if b.g.Has(id) {
			continue
		}
		err := b.g.AddNode(Node{
			ID:        id,
			Label:     cf,
			Kind:      KindConfig,
			FileCount: 1,
			TotalSize: b.sizes[cf],
		})
		if err != nil {
			return err
		}
		b.g.AddEdge(Edge{Source: RootID, Target: id})
		added++
	}
	return nil
}
