package github

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/gitmaster/pkg/errors"
	"github.com/matzehuels/gitmaster/pkg/integrations"
	"github.com/matzehuels/gitmaster/pkg/repo"
)

const (
	// DefaultBaseURL is the public GitHub REST endpoint.
	DefaultBaseURL = "https://api.github.com"
	// DefaultConcurrency bounds parallel REST content requests.
	DefaultConcurrency = 8
	// graphQLBatchSize is the number of aliased blobs per GraphQL query.
	graphQLBatchSize = 100
)

// Client accesses repositories through the GitHub REST and GraphQL APIs.
type Client struct {
	*integrations.Client
	token       string
	concurrency int
}

type config struct {
	baseURL     string
	concurrency int
	httpOpts    []integrations.Option
}

// Option configures a [Client].
type Option func(*config)

// WithBaseURL points the client at another API root, e.g. GitHub Enterprise
// or a test server.
func WithBaseURL(u string) Option {
	return func(c *config) { c.baseURL = strings.TrimSuffix(u, "/") }
}

// WithConcurrency bounds parallel REST content requests.
func WithConcurrency(n int) Option {
	return func(c *config) { c.concurrency = n }
}

// WithHTTPOptions passes options to the underlying [integrations.Client].
func WithHTTPOptions(opts ...integrations.Option) Option {
	return func(c *config) { c.httpOpts = append(c.httpOpts, opts...) }
}

// NewClient creates a client. token may be empty for anonymous access.
func NewClient(token string, opts ...Option) *Client {
	cfg := config{baseURL: DefaultBaseURL, concurrency: DefaultConcurrency}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.concurrency <= 0 {
		cfg.concurrency = DefaultConcurrency
	}

	headers := map[string]string{
		"Accept":               "application/vnd.github+json",
		"X-GitHub-Api-Version": "2022-11-28",
	}
	if token != "" {
		headers["Authorization"] = "Bearer " + token
	}
	return &Client{
		Client:      integrations.NewClient(cfg.baseURL, headers, cfg.httpOpts...),
		token:       token,
		concurrency: cfg.concurrency,
	}
}

// Authenticated reports whether requests carry a token.
func (c *Client) Authenticated() bool { return c.token != "" }

// Repository fetches repository metadata.
func (c *Client) Repository(ctx context.Context, owner, name string) (*Repository, error) {
	var data apiRepoResponse
	if err := c.Get(ctx, fmt.Sprintf("/repos/%s/%s", owner, name), &data); err != nil {
		if errors.Is(err, errors.ErrCodeNotFound) {
			return nil, errors.Wrap(errors.ErrCodeNotFound, err, "repository %s/%s not found", owner, name)
		}
		return nil, err
	}

	r := &Repository{
		Owner:         data.Owner.Login,
		Name:          data.Name,
		FullName:      data.FullName,
		Description:   deref(data.Description),
		Stars:         data.Stars,
		Forks:         data.Forks,
		OpenIssues:    data.OpenIssues,
		Language:      deref(data.Language),
		Topics:        data.Topics,
		URL:           data.HTMLURL,
		Homepage:      deref(data.Homepage),
		DefaultBranch: data.DefaultBranch,
		CreatedAt:     data.CreatedAt,
		UpdatedAt:     data.UpdatedAt,
		SizeKB:        data.Size,
	}
	if r.Topics == nil {
		r.Topics = []string{}
	}
	if data.License != nil {
		r.License = data.License.SPDXID
	}
	return r, nil
}

// Tree fetches the full recursive listing of ref. Submodule entries are
// dropped.
func (c *Client) Tree(ctx context.Context, owner, name, ref string) (*Tree, error) {
	var data apiTreeResponse
	path := fmt.Sprintf("/repos/%s/%s/git/trees/%s?recursive=1", owner, name, url.PathEscape(ref))
	if err := c.Get(ctx, path, &data); err != nil {
		if errors.Is(err, errors.ErrCodeNotFound) {
			return nil, errors.Wrap(errors.ErrCodeNotFound, err, "repository or branch %s/%s@%s not found", owner, name, ref)
		}
		return nil, err
	}

	t := &Tree{SHA: data.SHA, Truncated: data.Truncated, Items: make(repo.Tree, 0, len(data.Tree))}
	for _, e := range data.Tree {
		switch e.Type {
		case "blob":
			t.Items = append(t.Items, repo.Item{Path: e.Path, Kind: repo.KindFile, Size: e.Size})
		case "tree":
			t.Items = append(t.Items, repo.Item{Path: e.Path, Kind: repo.KindDirectory})
		}
	}
	return t, nil
}

// Contents fetches the text of every path at ref. Files that do not exist
// at ref are omitted from the result; any other failure fails the call. With a token the GraphQL batch is
// tried first; on failure, or without a token, each file is fetched over
// REST with bounded concurrency.
func (c *Client) Contents(ctx context.Context, owner, name, ref string, paths []string) (map[string]string, error) {
	if len(paths) == 0 {
		return map[string]string{}, nil
	}
	if c.Authenticated() {
		if out, err := c.contentsGraphQL(ctx, owner, name, ref, paths); err == nil {
			return out, nil
		}
	}
	return c.contentsREST(ctx, owner, name, ref, paths)
}

func (c *Client) contentsGraphQL(ctx context.Context, owner, name, ref string, paths []string) (map[string]string, error) {
	out := make(map[string]string, len(paths))
	for start := 0; start < len(paths); start += graphQLBatchSize {
		batch := paths[start:min(start+graphQLBatchSize, len(paths))]

		var resp graphQLResponse
		req := graphQLRequest{
			Query:     blobQuery(ref, batch),
			Variables: map[string]any{"owner": owner, "name": name},
		}
		if err := c.Post(ctx, "/graphql", req, &resp); err != nil {
			return nil, err
		}
		if resp.Data == nil {
			msg := "empty response"
			if len(resp.Errors) > 0 {
				msg = resp.Errors[0].Message
			}
			return nil, errors.New(errors.ErrCodeNetwork, "graphql: %s", msg)
		}
		for i, p := range batch {
			if blob := resp.Data.Repository[fmt.Sprintf("f%d", i)]; blob != nil && blob.Text != nil {
				out[p] = *blob.Text
			}
		}
	}
	return out, nil
}

// blobQuery builds one aliased object lookup per path.
func blobQuery(ref string, paths []string) string {
	var b strings.Builder
	b.WriteString("query($owner: String!, $name: String!) {\n  repository(owner: $owner, name: $name) {\n")
	for i, p := range paths {
		fmt.Fprintf(&b, "    f%d: object(expression: %q) { ... on Blob { text } }\n", i, ref+":"+p)
	}
	b.WriteString("  }\n}")
	return b.String()
}

func (c *Client) contentsREST(ctx context.Context, owner, name, ref string, paths []string) (map[string]string, error) {
	var mu sync.Mutex
	out := make(map[string]string, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.concurrency)
	for _, p := range paths {
		g.Go(func() error {
			body, err := c.GetRaw(gctx, contentsPath(owner, name, ref, p),
				map[string]string{"Accept": "application/vnd.github.raw+json"})
			if errors.Is(err, errors.ErrCodeNotFound) {
				return nil
			}
			if err != nil {
				return err
			}
			mu.Lock()
			out[p] = string(body)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func contentsPath(owner, name, ref, p string) string {
	segs := strings.Split(p, "/")
	for i, s := range segs {
		segs[i] = url.PathEscape(s)
	}
	return fmt.Sprintf("/repos/%s/%s/contents/%s?ref=%s", owner, name, strings.Join(segs, "/"), url.QueryEscape(ref))
}

// RateLimit returns the current core REST quota.
func (c *Client) RateLimit(ctx context.Context) (*RateLimit, error) {
	var data apiRateLimitResponse
	if err := c.Get(ctx, "/rate_limit", &data); err != nil {
		return nil, err
	}
	core := data.Resources.Core
	return &RateLimit{
		Limit:     core.Limit,
		Remaining: core.Remaining,
		Reset:     time.Unix(core.Reset, 0).UTC(),
	}, nil
}
