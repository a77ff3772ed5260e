package cli

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/gitmaster/pkg/api"
	"github.com/matzehuels/gitmaster/pkg/buildinfo"
	"github.com/matzehuels/gitmaster/pkg/mcpserver"
)

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var timeout time.Duration

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		Long: `Start the HTTP API on --addr (default :3001).

Results are cached with the configured cache backend and stored in MongoDB
when mongo.uri is set, otherwise in memory for the lifetime of the process.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := c.loadConfig(cmd, map[string]string{
				"server.addr":  "addr",
				"github.token": "token",
			})
			if err != nil {
				return err
			}
			svc, err := c.newServices(ctx, cfg, false)
			if err != nil {
				return err
			}
			defer svc.Close()

			srv := api.New(svc.runner, svc.github, c.Logger, api.Config{
				Addr:           cfg.Server.Addr,
				Version:        buildinfo.Version,
				RequestTimeout: timeout,
				Analysis:       cfg.AnalysisOptions(),
			})
			return srv.Run(ctx)
		},
	}

	cmd.Flags().String("addr", api.DefaultAddr, "listen address")
	cmd.Flags().String("token", "", "GitHub token (default: $GITHUB_TOKEN)")
	cmd.Flags().DurationVar(&timeout, "request-timeout", api.DefaultRequestTimeout, "per-request timeout")

	return cmd
}

// mcpCommand creates the mcp command.
func (c *CLI) mcpCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Serve the analysis tools over MCP (stdio)",
		Long: `Run a Model Context Protocol server on stdin/stdout exposing the tools
analyze_repository, analyze_directory and detect_frameworks.

Logs go to stderr so they never mix with the protocol stream.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := c.loadConfig(cmd, nil)
			if err != nil {
				return err
			}
			svc, err := c.newServices(ctx, cfg, false)
			if err != nil {
				return err
			}
			defer svc.Close()

			tools := mcpserver.NewService(svc.runner, svc.github, cfg.AnalysisOptions(), c.Logger)
			c.Logger.Info("mcp server listening on stdio", "version", buildinfo.Version)
			return mcpserver.RunStdio(ctx, mcpserver.NewServer(tools, buildinfo.Version))
		},
	}
}
