// Package python parses requirements.txt, Pipfile and pyproject.toml manifests.
package python

import (
	"bufio"
	"regexp"
	"strings"

	"github.com/matzehuels/gitmaster/pkg/deps"
	"github.com/matzehuels/gitmaster/pkg/manifest"
)

// requirementRegex matches "name[extras] <op> constraint". Group 1 is the
// name, group 2 the operator and group 3 the constraint.
var requirementRegex = regexp.MustCompile(`^([a-zA-Z0-9_.-]+)(?:\[[^\]]*\])?\s*(?:([><=!~]+)\s*(.+))?$`)

// Requirements parses requirements.txt files. pip has no development
// concept, so every entry is production.
type Requirements struct{}

func (r *Requirements) Ecosystem() manifest.Ecosystem { return manifest.Pip }
func (r *Requirements) Supports(name string) bool     { return name == "requirements.txt" }

func (r *Requirements) Parse(path, content string) (*deps.Record, error) {
	prod := make(map[string]string)

	scanner := bufio.NewScanner(strings.NewReader(content))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "-") {
			continue
		}
		if i := strings.Index(line, " #"); i >= 0 {
			line = strings.TrimSpace(line[:i])
		}
		if name, version, ok := parseRequirement(line); ok {
			prod[name] = version
		}
	}

	return deps.NewRecord(path, manifest.Pip, prod, nil), nil
}

// parseRequirement splits one PEP 508 style line into name and constraint.
func parseRequirement(line string) (name, version string, ok bool) {
	m := requirementRegex.FindStringSubmatch(line)
	if m == nil {
		return "", "", false
	}
	version = strings.TrimSpace(m[3])
	if version == "" {
		version = deps.DefaultVersion
	}
	return m[1], version, true
}
