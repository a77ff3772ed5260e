package mcpserver

import (
	"context"
	"io"

	"github.com/charmbracelet/log"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/matzehuels/gitmaster/pkg/analysis"
	"github.com/matzehuels/gitmaster/pkg/arch"
	"github.com/matzehuels/gitmaster/pkg/detect"
	"github.com/matzehuels/gitmaster/pkg/errors"
	ghapi "github.com/matzehuels/gitmaster/pkg/integrations/github"
	"github.com/matzehuels/gitmaster/pkg/insight"
	"github.com/matzehuels/gitmaster/pkg/repo"
	"github.com/matzehuels/gitmaster/pkg/source"
	ghsource "github.com/matzehuels/gitmaster/pkg/source/github"
	"github.com/matzehuels/gitmaster/pkg/source/local"
)

// AnalyzeRepositoryInput is the input of analyze_repository.
type AnalyzeRepositoryInput struct {
	URL     string `json:"url" jsonschema:"GitHub repository as owner/repo or a github.com URL"`
	Ref     string `json:"ref,omitempty" jsonschema:"branch, tag or commit to analyze (default: the default branch)"`
	Refresh bool   `json:"refresh,omitempty" jsonschema:"ignore cached results"`
}

// AnalyzeDirectoryInput is the input of analyze_directory.
type AnalyzeDirectoryInput struct {
	Path    string `json:"path" jsonschema:"path of the directory to analyze"`
	Refresh bool   `json:"refresh,omitempty" jsonschema:"ignore cached results"`
}

// DetectFrameworksInput is the input of detect_frameworks.
type DetectFrameworksInput struct {
	Path string `json:"path" jsonschema:"path of the directory to inspect"`
}

// ManifestSummary is one parsed manifest without its package lists.
type ManifestSummary struct {
	Path            string `json:"path"`
	Ecosystem       string `json:"ecosystem"`
	Dependencies    int    `json:"dependencies"`
	DevDependencies int    `json:"devDependencies"`
}

// DependencySummary condenses the dependency totals.
type DependencySummary struct {
	TotalDependencies    int               `json:"totalDependencies"`
	TotalDevDependencies int               `json:"totalDevDependencies"`
	TotalCount           int               `json:"totalCount"`
	Manifests            []ManifestSummary `json:"manifests"`
}

// ArchitectureSummary condenses the architecture graph.
type ArchitectureSummary struct {
	Nodes       int      `json:"nodes"`
	Edges       int      `json:"edges"`
	Modules     []string `json:"modules"`
	Hotspots    []string `json:"hotspots"`
	EntryPoints []string `json:"entryPoints"`
	External    []string `json:"external"`
}

// AnalysisOutput is the result of analyze_repository and analyze_directory.
type AnalysisOutput struct {
	ID           string              `json:"id,omitempty"`
	Repository   string              `json:"repository"`
	Summary      string              `json:"summary"`
	Insight      insight.Insight     `json:"insights"`
	Dependencies DependencySummary   `json:"dependencies"`
	Languages    []repo.LanguageStat `json:"languages"`
	Architecture ArchitectureSummary `json:"architecture"`
	Cached       bool                `json:"cached"`
}

// DetectFrameworksOutput is the result of detect_frameworks.
type DetectFrameworksOutput struct {
	Frameworks []detect.Framework `json:"frameworks"`
	BuildTools []string           `json:"buildTools"`
}

// Service implements the tool handlers on top of an [analysis.Runner].
type Service struct {
	runner *analysis.Runner
	github *ghapi.Client
	opts   analysis.Options
	logger *log.Logger
}

// NewService returns a service. A nil logger discards output.
func NewService(runner *analysis.Runner, client *ghapi.Client, opts analysis.Options, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Service{runner: runner, github: client, opts: opts, logger: logger}
}

// AnalyzeRepository handles analyze_repository.
func (s *Service) AnalyzeRepository(ctx context.Context, _ *mcp.CallToolRequest, in AnalyzeRepositoryInput) (*mcp.CallToolResult, AnalysisOutput, error) {
	src, err := ghsource.FromURL(s.github, in.URL, ghsource.WithRef(in.Ref), ghsource.WithLogger(s.logger))
	if err != nil {
		return nil, AnalysisOutput{}, err
	}
	return s.run(ctx, src, in.Refresh)
}

// AnalyzeDirectory handles analyze_directory.
func (s *Service) AnalyzeDirectory(ctx context.Context, _ *mcp.CallToolRequest, in AnalyzeDirectoryInput) (*mcp.CallToolResult, AnalysisOutput, error) {
	if err := errors.ValidateRequired("path", in.Path); err != nil {
		return nil, AnalysisOutput{}, err
	}
	return s.run(ctx, local.New(in.Path, s.logger), in.Refresh)
}

// DetectFrameworks handles detect_frameworks. The directory is analyzed
// without touching the cache.
func (s *Service) DetectFrameworks(ctx context.Context, _ *mcp.CallToolRequest, in DetectFrameworksInput) (*mcp.CallToolResult, DetectFrameworksOutput, error) {
	if err := errors.ValidateRequired("path", in.Path); err != nil {
		return nil, DetectFrameworksOutput{}, err
	}
	snap, err := local.New(in.Path, s.logger).Fetch(ctx)
	if err != nil {
		return nil, DetectFrameworksOutput{}, err
	}
	res, err := analysis.AnalyzeSnapshot(snap, s.opts)
	if err != nil {
		return nil, DetectFrameworksOutput{}, err
	}
	return nil, DetectFrameworksOutput{
		Frameworks: res.Insight.Frameworks,
		BuildTools: res.Insight.BuildTools,
	}, nil
}

func (s *Service) run(ctx context.Context, src source.Source, refresh bool) (*mcp.CallToolResult, AnalysisOutput, error) {
	res, err := s.runner.Run(ctx, src, analysis.RunOptions{Options: s.opts, Refresh: refresh})
	if err != nil {
		s.logger.Warn("tool analysis failed", "source", src.Name(), "error", err)
		return nil, AnalysisOutput{}, err
	}
	return nil, toOutput(res), nil
}

func toOutput(res *analysis.Result) AnalysisOutput {
	out := AnalysisOutput{
		ID:           res.ID,
		Summary:      res.Summary,
		Insight:      res.Insight,
		Languages:    res.Languages,
		Cached:       res.Cached,
		Architecture: summarizeGraph(res.Architecture),
		Dependencies: DependencySummary{
			TotalDependencies:    res.Dependencies.TotalDependencies,
			TotalDevDependencies: res.Dependencies.TotalDevDependencies,
			TotalCount:           res.Dependencies.TotalCount,
			Manifests:            []ManifestSummary{},
		},
	}
	if res.Repository != nil {
		out.Repository = res.Repository.FullName
	}
	if out.Languages == nil {
		out.Languages = []repo.LanguageStat{}
	}
	for _, m := range res.Dependencies.Manifests {
		out.Dependencies.Manifests = append(out.Dependencies.Manifests, ManifestSummary{
			Path:            m.Path,
			Ecosystem:       string(m.Ecosystem),
			Dependencies:    len(m.Production),
			DevDependencies: len(m.Development),
		})
	}
	return out
}

func summarizeGraph(g *arch.Graph) ArchitectureSummary {
	sum := ArchitectureSummary{
		Modules:     []string{},
		Hotspots:    []string{},
		EntryPoints: []string{},
		External:    []string{},
	}
	if g == nil {
		return sum
	}
	sum.Nodes = g.NodeCount()
	sum.Edges = g.EdgeCount()
	for _, n := range g.Nodes() {
		switch n.Kind {
		case arch.KindModule:
			sum.Modules = append(sum.Modules, n.ID)
		case arch.KindEntry:
			sum.EntryPoints = append(sum.EntryPoints, n.ID)
		case arch.KindExternal:
			sum.External = append(sum.External, n.Label)
		}
		if n.IsHotspot {
			sum.Hotspots = append(sum.Hotspots, n.ID)
		}
	}
	return sum
}
