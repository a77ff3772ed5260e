package cli

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/gitmaster/pkg/analysis"
)

type analyzeOptions struct {
	format        string
	output        string
	ref           string
	noCache       bool
	refresh       bool
	timeout       time.Duration
	hotspotFactor float64
	topLanguages  int
}

// analyzeCommand creates the analyze command.
func (c *CLI) analyzeCommand() *cobra.Command {
	var opts analyzeOptions

	cmd := &cobra.Command{
		Use:   "analyze [dir|owner/repo|url]",
		Short: "Analyze a local directory or a GitHub repository",
		Long: `Analyze a repository and report its dependencies, frameworks, project type,
architecture and a short summary.

The target is a local directory (default ".") or a GitHub repository given as
owner/repo or a github.com URL. Results are cached by repository, revision
and options; use --refresh to recompute or --no-cache to bypass the cache.`,
		Example: `  gitmaster analyze
  gitmaster analyze ./services/api --format json
  gitmaster analyze expressjs/express --ref 4.x
  gitmaster analyze https://github.com/vitejs/vite -o vite.yaml
  gitmaster analyze . --format dot | dot -Tsvg > arch.svg`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			target := "."
			if len(args) == 1 {
				target = args[0]
			}
			return c.runAnalyze(cmd, target, opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.format, "format", "f", "", "output format: text, json, yaml, dot (default: from -o extension, else text)")
	flags.StringVarP(&opts.output, "output", "o", "", "write the result to a file instead of stdout")
	flags.StringVar(&opts.ref, "ref", "", "branch, tag or commit of a GitHub repository (default: default branch)")
	flags.BoolVar(&opts.noCache, "no-cache", false, "do not read or write the result cache")
	flags.BoolVar(&opts.refresh, "refresh", false, "recompute even when a cached result exists")
	flags.DurationVar(&opts.timeout, "timeout", 2*time.Minute, "give up after this long (0 disables)")
	flags.Float64Var(&opts.hotspotFactor, "hotspot-factor", 0, "flag directories above this multiple of the mean file count (default 1.5)")
	flags.IntVar(&opts.topLanguages, "top-languages", 0, "languages listed per architecture node (default 3)")

	return cmd
}

func (c *CLI) runAnalyze(cmd *cobra.Command, target string, opts analyzeOptions) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	format, err := parseFormat(opts.format, opts.output)
	if err != nil {
		return err
	}
	cfg, err := c.loadConfig(cmd, map[string]string{
		"analysis.hotspot_factor": "hotspot-factor",
		"analysis.top_languages":  "top-languages",
	})
	if err != nil {
		return err
	}

	svc, err := c.newServices(ctx, cfg, opts.noCache)
	if err != nil {
		return err
	}
	defer svc.Close()

	src, err := resolveSource(target, svc.github, opts.ref, logger)
	if err != nil {
		return err
	}

	if opts.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.timeout)
		defer cancel()
	}

	prog := newProgress(logger)
	res, err := c.runWithProgress(ctx, "Analyzing "+src.Name(), func(ctx context.Context) (*analysis.Result, error) {
		return svc.runner.Run(ctx, src, analysis.RunOptions{
			Options: cfg.AnalysisOptions(),
			Refresh: opts.refresh,
		})
	})
	if err != nil {
		return err
	}
	prog.done("analysis complete", "source", src.Name(), "cached", res.Cached)

	if opts.output == "" {
		return writeResult(c.stdout, format, res)
	}
	if err := writeResultFile(opts.output, format, res); err != nil {
		return err
	}
	printSuccess(cmd.ErrOrStderr(), "Wrote %s report", format)
	printFile(cmd.ErrOrStderr(), opts.output)
	if format == FormatDOT {
		printNextStep(cmd.ErrOrStderr(), "Render it with", "dot -Tsvg "+opts.output+" -o arch.svg")
	}
	return nil
}
