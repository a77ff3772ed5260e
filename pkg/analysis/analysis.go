// Package analysis runs the full repository analysis.
//
// [Analyze] is the pure core: given a tree listing and the text of the
// manifests it contains, it produces dependency totals, detected frameworks,
// a project classification, an architecture graph and a prose summary. It
// performs no I/O and its output is deterministic, so two runs over the same
// input encode to identical JSON.
//
// [Runner] wraps the core with fetching, caching and persistence:
//
//	runner := analysis.NewRunner(c, nil, st, logger)
//	res, err := runner.Run(ctx, local.New(".", logger), analysis.RunOptions{})
//
// # Pipeline
//
//  1. Scan the tree for manifests
//  2. Parse each manifest with its ecosystem parser
//  3. Aggregate dependency counts
//  4. Detect frameworks
//  5. Classify the project
//  6. Build the architecture graph
//  7. Compose the summary
package analysis

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/gitmaster/pkg/arch"
	"github.com/matzehuels/gitmaster/pkg/deps"
	"github.com/matzehuels/gitmaster/pkg/deps/ecosystems"
	"github.com/matzehuels/gitmaster/pkg/detect"
	"github.com/matzehuels/gitmaster/pkg/errors"
	"github.com/matzehuels/gitmaster/pkg/insight"
	"github.com/matzehuels/gitmaster/pkg/manifest"
	"github.com/matzehuels/gitmaster/pkg/repo"
	"github.com/matzehuels/gitmaster/pkg/source"
	"github.com/matzehuels/gitmaster/pkg/summary"
)

// Options tunes the analysis.
type Options struct {
	// Arch tunes the architecture graph.
	Arch arch.Options `json:"arch"`

	// Parsers overrides the manifest parsers. Defaults to ecosystems.All.
	Parsers []deps.Parser `json:"-"`

	// Logger receives debug output about skipped manifests.
	Logger *log.Logger `json:"-"`
}

// Validate rejects out-of-range tuning values. Zero values are valid and
// select the defaults.
func (o Options) Validate() error {
	if err := errors.ValidateRange("hotspot factor", o.Arch.HotspotFactor, 0, 100); err != nil {
		return err
	}
	if err := errors.ValidateRange("top languages", o.Arch.TopLanguages, 0, 50); err != nil {
		return err
	}
	if err := errors.ValidateRange("min subdirectory files", o.Arch.MinSubdirFiles, 0, 10000); err != nil {
		return err
	}
	return errors.ValidateRange("max config nodes", o.Arch.MaxConfigNodes, 0, 100)
}

// Input is one repository snapshot to analyze.
type Input struct {
	Tree        repo.Tree
	Manifests   map[string]string
	Description string
	Options     Options
}

// Result is a complete analysis. The fields above Dependencies are filled
// by [Runner] and stay empty when [Analyze] is called directly.
type Result struct {
	ID         string           `json:"id,omitempty"`
	Repository *source.Metadata `json:"repository,omitempty"`
	AnalyzedAt time.Time        `json:"analyzedAt,omitzero"`

	Dependencies deps.Info           `json:"dependencies"`
	Insight      insight.Insight     `json:"insights"`
	Architecture *arch.Graph         `json:"architecture"`
	Summary      string              `json:"summary"`
	Languages    []repo.LanguageStat `json:"languages"`
	Files        repo.FileStats      `json:"fileStats"`
	FileTree     *repo.FileNode      `json:"fileTree"`

	// Cached reports whether the result was served from the cache.
	Cached bool `json:"-"`
}

// Analyze runs the pipeline over in. The only failure modes are a malformed
// tree, reported with code INVALID_TREE, and invalid options.
func Analyze(in Input) (*Result, error) {
	if err := in.Options.Validate(); err != nil {
		return nil, err
	}
	if err := in.Tree.Validate(); err != nil {
		return nil, err
	}

	logger := in.Options.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	parsers := in.Options.Parsers
	if parsers == nil {
		parsers = ecosystems.All
	}

	locs := manifest.Scan(in.Tree)
	records := deps.ParseAll(parsers, locs, in.Manifests, logger)
	info := deps.Aggregate(records)
	logger.Debug("parsed manifests", "found", len(locs), "parsed", len(records), "dependencies", info.TotalCount)

	frameworks := detect.Detect(in.Tree, info)
	classified := insight.Classify(in.Tree, info, frameworks)

	graph, err := arch.Build(in.Tree, info, classified, in.Options.Arch)
	if err != nil {
		return nil, err
	}

	langs := repo.LanguageStats(in.Tree)
	files := repo.ComputeFileStats(in.Tree)
	if langs == nil {
		langs = []repo.LanguageStat{}
	}
	if files.LargestFiles == nil {
		files.LargestFiles = []repo.Item{}
	}

	return &Result{
		Dependencies: info,
		Insight:      classified,
		Architecture: graph,
		Summary: summary.Generate(summary.Input{
			Description:     in.Description,
			Insight:         classified,
			FileCount:       files.TotalFiles,
			DependencyCount: info.TotalCount,
			Languages:       langs,
		}),
		Languages: langs,
		Files:     files,
		FileTree:  repo.BuildFileTree(in.Tree),
	}, nil
}

// AnalyzeSnapshot analyzes a fetched snapshot and attaches its metadata.
func AnalyzeSnapshot(snap *source.Snapshot, opts Options) (*Result, error) {
	res, err := Analyze(Input{
		Tree:        snap.Tree,
		Manifests:   snap.Manifests,
		Description: snap.Repository.Description,
		Options:     opts,
	})
	if err != nil {
		return nil, err
	}
	meta := snap.Repository
	res.Repository = &meta
	return res, nil
}
