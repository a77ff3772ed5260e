// Package mcpserver exposes repository analysis as Model Context Protocol
// tools.
//
// Three tools are registered:
//
//	analyze_repository  analyze a GitHub repository by URL or owner/repo
//	analyze_directory   analyze a local directory
//	detect_frameworks   list the frameworks detected in a local directory
//
// The server is normally run over stdio by `gitmaster mcp`.
package mcpserver

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// ServerName is the implementation name announced to clients.
const ServerName = "gitmaster"

// NewServer returns an MCP server with every tool of svc registered.
func NewServer(svc *Service, version string) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{
		Name:    ServerName,
		Version: version,
	}, nil)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "analyze_repository",
		Description: "Analyze a GitHub repository: dependencies per manifest, detected frameworks, project type and structure, architecture overview and a prose summary.",
	}, svc.AnalyzeRepository)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "analyze_directory",
		Description: "Analyze a repository checked out on the local filesystem. Returns the same report as analyze_repository.",
	}, svc.AnalyzeDirectory)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "detect_frameworks",
		Description: "Detect frameworks, build tools and libraries in a local directory, with a confidence score and the evidence each detection came from.",
	}, svc.DetectFrameworks)

	return server
}

// RunStdio serves on stdin/stdout until the client disconnects or ctx is
// canceled.
func RunStdio(ctx context.Context, server *mcp.Server) error {
	return server.Run(ctx, &mcp.StdioTransport{})
}
