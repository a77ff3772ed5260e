package cli

import (
	"bytes"
	"context"
	"regexp"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/gitmaster/pkg/observability"
)

func TestNewLoggerTimestamp(t *testing.T) {
	var buf bytes.Buffer
	newLogger(&buf, LogInfo).Info("fetched repository", "source", "octo/hello")

	stamp := regexp.MustCompile(`^\d{2}:\d{2}:\d{2}\.\d{2} `)
	if !stamp.MatchString(buf.String()) {
		t.Errorf("log line %q should start with an HH:MM:SS.ms timestamp", buf.String())
	}
	if !strings.Contains(buf.String(), "source=octo/hello") {
		t.Errorf("log line %q should carry the source field", buf.String())
	}
}

func TestCLILogLevels(t *testing.T) {
	tests := []struct {
		name  string
		level log.Level
		log   func(*log.Logger)
		want  bool
	}{
		{"stage debug hidden by default", LogInfo, func(l *log.Logger) { l.Debug("stage done") }, false},
		{"stage debug shown with --verbose", LogDebug, func(l *log.Logger) { l.Debug("stage done") }, true},
		{"cache warning shown by default", LogInfo, func(l *log.Logger) { l.Warn("cache write failed") }, true},
		{"cache warning hidden with --quiet", LogError, func(l *log.Logger) { l.Warn("cache write failed") }, false},
		{"errors shown with --quiet", LogError, func(l *log.Logger) { l.Error("analysis failed") }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			c := New(&buf, LogInfo)
			c.SetLogLevel(tt.level)
			tt.log(c.Logger)

			if got := buf.Len() > 0; got != tt.want {
				t.Errorf("logged = %v, want %v (output %q)", got, tt.want, buf.String())
			}
		})
	}
}

func TestProgressDoneFields(t *testing.T) {
	var buf bytes.Buffer
	prog := newProgress(newLogger(&buf, LogInfo))
	prog.done("analysis complete", "source", "octo/hello", "cached", true)

	for _, want := range []string{"analysis complete", "source=octo/hello", "cached=true", "elapsed="} {
		if !strings.Contains(buf.String(), want) {
			t.Errorf("progress output %q should contain %q", buf.String(), want)
		}
	}
}

func TestRootCommandPutsLoggerInContext(t *testing.T) {
	t.Cleanup(observability.Reset)

	var stderr bytes.Buffer
	c := New(&stderr, LogInfo)
	root := c.RootCommand()

	var got *log.Logger
	root.AddCommand(&cobra.Command{
		Use: "ctxcheck",
		Run: func(cmd *cobra.Command, args []string) {
			got = loggerFromContext(cmd.Context())
			got.Debug("stage done", "stage", "fetch")
		},
	})
	root.SetArgs([]string{"ctxcheck", "--verbose"})
	if err := root.ExecuteContext(context.Background()); err != nil {
		t.Fatal(err)
	}

	if got != c.Logger {
		t.Error("command context should carry the CLI logger")
	}
	if !strings.Contains(stderr.String(), "stage=fetch") {
		t.Errorf("--verbose should enable debug output, got %q", stderr.String())
	}
}

func TestLoggerFromContextDefault(t *testing.T) {
	if loggerFromContext(context.Background()) != log.Default() {
		t.Error("loggerFromContext without a logger should return log.Default()")
	}
}
