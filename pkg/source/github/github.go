// Package github reads a repository snapshot through the GitHub API.
//
// A fetch costs two REST calls for metadata and the recursive tree, plus one
// GraphQL batch (or one REST call per file without a token) for manifest
// contents.
package github

import (
	"context"
	"io"

	"github.com/charmbracelet/log"

	ghapi "github.com/matzehuels/gitmaster/pkg/integrations/github"
	"github.com/matzehuels/gitmaster/pkg/manifest"
	"github.com/matzehuels/gitmaster/pkg/observability"
	"github.com/matzehuels/gitmaster/pkg/source"
)

// Source fetches one GitHub repository.
type Source struct {
	client *ghapi.Client
	owner  string
	repo   string
	ref    string
	logger *log.Logger
}

var _ source.Source = (*Source)(nil)

// Option configures a [Source].
type Option func(*Source)

// WithRef pins the branch, tag or commit to read. The default branch is used
// otherwise.
func WithRef(ref string) Option {
	return func(s *Source) { s.ref = ref }
}

// WithLogger sets the logger. Output is discarded by default.
func WithLogger(l *log.Logger) Option {
	return func(s *Source) {
		if l != nil {
			s.logger = l
		}
	}
}

// New returns a source for owner/repo. Both names are validated.
func New(client *ghapi.Client, owner, repo string, opts ...Option) (*Source, error) {
	if err := ghapi.ValidateOwner(owner); err != nil {
		return nil, err
	}
	if err := ghapi.ValidateRepo(repo); err != nil {
		return nil, err
	}
	s := &Source{client: client, owner: owner, repo: repo, logger: log.New(io.Discard)}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// FromURL parses raw with [ghapi.ParseRepoURL] and returns a source for it.
func FromURL(client *ghapi.Client, raw string, opts ...Option) (*Source, error) {
	owner, repo, err := ghapi.ParseRepoURL(raw)
	if err != nil {
		return nil, err
	}
	return New(client, owner, repo, opts...)
}

// Name returns "owner/repo".
func (s *Source) Name() string { return s.owner + "/" + s.repo }

// Fetch retrieves metadata, the tree of the selected ref and the text of
// every manifest in it.
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

	info, err := s.client.Repository(ctx, s.owner, s.repo)
	if err != nil {
		return nil, err
	}
	ref := s.ref
	if ref == "" {
		ref = info.DefaultBranch
	}

	tree, err := s.client.Tree(ctx, s.owner, s.repo, ref)
	if err != nil {
		return nil, err
	}
	if tree.Truncated {
		s.logger.Warn("tree listing truncated", "repo", name, "entries", len(tree.Items))
	}

	paths := manifest.Paths(manifest.Scan(tree.Items))
	contents, err := s.client.Contents(ctx, s.owner, s.repo, ref, paths)
	if err != nil {
		return nil, err
	}
	if missing := len(paths) - len(contents); missing > 0 {
		s.logger.Debug("some manifests could not be fetched", "repo", name, "missing", missing)
	}
	s.logger.Info("fetched repository", "repo", name, "ref", ref, "entries", len(tree.Items), "manifests", len(contents))

	return &source.Snapshot{
		Repository: metadata(info, ref, tree.SHA),
		Tree:       tree.Items,
		Manifests:  contents,
	}, nil
}

func metadata(r *ghapi.Repository, ref, sha string) source.Metadata {
	return source.Metadata{
		Owner:         r.Owner,
		Name:          r.Name,
		FullName:      r.FullName,
		Description:   r.Description,
		URL:           r.URL,
		DefaultBranch: ref,
		Language:      r.Language,
		Stars:         r.Stars,
		Forks:         r.Forks,
		OpenIssues:    r.OpenIssues,
		Topics:        r.Topics,
		License:       r.License,
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
		Revision:      sha,
	}
}
