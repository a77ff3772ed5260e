package cli

import (
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/matzehuels/gitmaster/pkg/analysis"
	"github.com/matzehuels/gitmaster/pkg/errors"
)

// Output formats of the analyze command.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
	FormatDOT  = "dot"
)

var formats = []string{FormatText, FormatJSON, FormatYAML, FormatDOT}

// parseFormat normalizes format. An empty format is derived from the output
// file extension and falls back to text.
func parseFormat(format, output string) (string, error) {
	if format == "" {
		switch strings.ToLower(filepath.Ext(output)) {
		case ".json":
			return FormatJSON, nil
		case ".yaml", ".yml":
			return FormatYAML, nil
		case ".dot", ".gv":
			return FormatDOT, nil
		}
		return FormatText, nil
	}
	f := strings.ToLower(format)
	for _, known := range formats {
		if f == known {
			return f, nil
		}
	}
	return "", errors.New(errors.ErrCodeInvalidInput,
		"unknown format %q (want one of %s)", format, strings.Join(formats, ", "))
}

// writeResult encodes res to w in format.
func writeResult(w io.Writer, format string, res *analysis.Result) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	case FormatYAML:
		return writeYAML(w, res)
	case FormatDOT:
		if res.Architecture == nil {
			return errors.New(errors.ErrCodeAnalysisFailed, "result has no architecture graph")
		}
		return res.Architecture.WriteDOT(w)
	default:
		return writeReport(w, res)
	}
}

// writeYAML goes through JSON so the YAML keys and their order match the
// JSON encoding.
func writeYAML(w io.Writer, res *analysis.Result) error {
	data, err := json.Marshal(res)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "encode result")
	}
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "convert result")
	}
	blockStyle(&doc)

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(&doc); err != nil {
		return err
	}
	return enc.Close()
}

// blockStyle drops the flow and quoting styles inherited from JSON.
func blockStyle(n *yaml.Node) {
	n.Style = 0
	for _, c := range n.Content {
		blockStyle(c)
	}
}

// writeResultFile writes res to path, creating parent directories.
func writeResultFile(path, format string, res *analysis.Result) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidPath, err, "create %s", dir)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidPath, err, "create %s", path)
	}
	if err := writeResult(f, format, res); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
