// Package cli implements the gitmaster command-line interface.
//
// The commands are:
//   - analyze: analyze a local directory or a GitHub repository
//   - serve: start the HTTP API
//   - mcp: serve the analysis tools to MCP clients over stdio
//   - cache: inspect and clear the result cache
//   - version: print build information
//
// All commands accept --verbose (-v) for debug logging and --quiet (-q) to
// show errors only. The logger travels through context.Context.
package cli

import (
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/matzehuels/gitmaster/internal/config"
	"github.com/matzehuels/gitmaster/pkg/buildinfo"
	"github.com/matzehuels/gitmaster/pkg/observability"
)

// =============================================================================
// Constants
// =============================================================================

const appName = "gitmaster"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
	LogError = log.ErrorLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	config *viper.Viper
	stdout io.Writer
}

// New creates a CLI logging to w at level.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		config: config.New(),
		stdout: os.Stdout,
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// SetOutput redirects command output (reports, JSON, DOT) to w.
func (c *CLI) SetOutput(w io.Writer) {
	c.stdout = w
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	var (
		verbose    bool
		quiet      bool
		configFile string
	)

	root := &cobra.Command{
		Use:   appName,
		Short: "gitmaster explains what a repository is built with",
		Long: `gitmaster inspects a repository's file tree and manifests and reports its
dependencies, frameworks, project type, architecture and a short summary.
It works on local directories and on GitHub repositories.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			switch {
			case quiet:
				c.SetLogLevel(LogError)
			case verbose:
				c.SetLogLevel(LogDebug)
			}
			if configFile != "" {
				c.config.SetConfigFile(configFile)
			}

			hooks := newStageLogger(c.Logger)
			observability.SetAnalysisHooks(hooks)
			observability.SetFetchHooks(hooks)
			observability.SetCacheHooks(hooks)

			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.SetOut(c.stdout)

	flags := root.PersistentFlags()
	flags.BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	flags.BoolVarP(&quiet, "quiet", "q", false, "only log errors")
	flags.StringVar(&configFile, "config", "", "config file (default: gitmaster.yaml in ., ~/.config/gitmaster)")
	root.MarkFlagsMutuallyExclusive("verbose", "quiet")

	root.AddCommand(c.analyzeCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.mcpCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.versionCommand())

	return root
}

// loadConfig resolves the configuration after binding the given config keys
// to flags of cmd.
func (c *CLI) loadConfig(cmd *cobra.Command, bindings map[string]string) (*config.Config, error) {
	if err := config.BindFlags(c.config, cmd.Flags(), bindings); err != nil {
		return nil, err
	}
	cfg, err := config.Load(c.config)
	if err != nil {
		return nil, err
	}
	if used := c.config.ConfigFileUsed(); used != "" {
		c.Logger.Debug("loaded config", "file", used)
	}
	return cfg, nil
}
