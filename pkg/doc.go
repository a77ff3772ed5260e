// Package pkg provides the libraries behind gitmaster, a repository analyzer
// that explains what a codebase is built with.
//
// # Overview
//
// Given a repository's file tree and the text of its manifests, gitmaster
// reports per-manifest dependencies, detected frameworks, a project type and
// structure, a semantic architecture graph and a prose summary. The pkg
// directory is organized into four areas:
//
//  1. Core analysis: [manifest], [deps], [detect], [insight], [arch],
//     [summary] and [repo]. Pure functions with no I/O.
//  2. Orchestration: [analysis] runs the core and wraps it with fetching,
//     caching and persistence.
//  3. Sources and integrations: [source] snapshots a local directory or a
//     GitHub repository through [integrations/github].
//  4. Surfaces and infrastructure: [api] (HTTP), [mcpserver] (MCP tools),
//     [cache], [store], [observability], [errors], [httputil].
//
// # Data Flow
//
//	Source (local dir / GitHub)
//	         ↓
//	    [manifest] scan the tree for manifests
//	         ↓
//	    [deps] parse each manifest, aggregate totals
//	         ↓
//	    [detect] match frameworks against dependencies and files
//	         ↓
//	    [insight] classify type, structure and health
//	         ↓
//	    [arch] build the architecture graph
//	         ↓
//	    [summary] compose the prose summary
//
// # Quick Start
//
// Analyze a directory with caching:
//
//	import (
//	    "github.com/matzehuels/gitmaster/pkg/analysis"
//	    "github.com/matzehuels/gitmaster/pkg/cache"
//	    "github.com/matzehuels/gitmaster/pkg/source/local"
//	)
//
//	c, _ := cache.NewLRUCache(64)
//	runner := analysis.NewRunner(c, nil, nil, logger)
//	res, err := runner.Run(ctx, local.New(".", logger), analysis.RunOptions{})
//	fmt.Println(res.Summary)
//
// Or call the pure core directly:
//
//	res, err := analysis.Analyze(analysis.Input{Tree: tree, Manifests: manifests})
//
// # Testing
//
//	go test ./pkg/...                    # All tests
//	go test -tags integration ./pkg/...  # Include live GitHub tests
//
// [manifest]: https://pkg.go.dev/github.com/matzehuels/gitmaster/pkg/manifest
// [deps]: https://pkg.go.dev/github.com/matzehuels/gitmaster/pkg/deps
// [detect]: https://pkg.go.dev/github.com/matzehuels/gitmaster/pkg/detect
// [insight]: https://pkg.go.dev/github.com/matzehuels/gitmaster/pkg/insight
// [arch]: https://pkg.go.dev/github.com/matzehuels/gitmaster/pkg/arch
// [summary]: https://pkg.go.dev/github.com/matzehuels/gitmaster/pkg/summary
// [repo]: https://pkg.go.dev/github.com/matzehuels/gitmaster/pkg/repo
// [analysis]: https://pkg.go.dev/github.com/matzehuels/gitmaster/pkg/analysis
// [source]: https://pkg.go.dev/github.com/matzehuels/gitmaster/pkg/source
// [integrations/github]: https://pkg.go.dev/github.com/matzehuels/gitmaster/pkg/integrations/github
// [api]: https://pkg.go.dev/github.com/matzehuels/gitmaster/pkg/api
// [mcpserver]: https://pkg.go.dev/github.com/matzehuels/gitmaster/pkg/mcpserver
// [cache]: https://pkg.go.dev/github.com/matzehuels/gitmaster/pkg/cache
// [store]: https://pkg.go.dev/github.com/matzehuels/gitmaster/pkg/store
// [observability]: https://pkg.go.dev/github.com/matzehuels/gitmaster/pkg/observability
// [errors]: https://pkg.go.dev/github.com/matzehuels/gitmaster/pkg/errors
// [httputil]: https://pkg.go.dev/github.com/matzehuels/gitmaster/pkg/httputil
package pkg
