package python

import (
	"regexp"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/gitmaster/pkg/deps"
	"github.com/matzehuels/gitmaster/pkg/manifest"
)

var (
	poetryDevHeader  = regexp.MustCompile(`^\[tool\.poetry\.(dev-dependencies|group\.dev\.dependencies)\]$`)
	poetryEntryRegex = regexp.MustCompile(`^([a-zA-Z0-9_.-]+)\s*=\s*"?(.+?)"?\s*$`)
)

// Poetry parses pyproject.toml files. [tool.poetry.dependencies] is
// production; [tool.poetry.dev-dependencies] and the "dev" dependency group
// are development. The python interpreter constraint is not a dependency.
// Projects declaring PEP 621 [project] dependencies without a poetry table
// are read from there instead.
type Poetry struct{}

func (p *Poetry) Ecosystem() manifest.Ecosystem { return manifest.Poetry }
func (p *Poetry) Supports(name string) bool     { return name == "pyproject.toml" }

type pyproject struct {
	Tool struct {
		Poetry struct {
			Dependencies    map[string]any `toml:"dependencies"`
			DevDependencies map[string]any `toml:"dev-dependencies"`
			Group           map[string]struct {
				Dependencies map[string]any `toml:"dependencies"`
			} `toml:"group"`
		} `toml:"poetry"`
	} `toml:"tool"`
	Project struct {
		Dependencies         []string            `toml:"dependencies"`
		OptionalDependencies map[string][]string `toml:"optional-dependencies"`
	} `toml:"project"`
}

func isPython(name string) bool { return strings.EqualFold(name, "python") }

func (p *Poetry) Parse(path, content string) (*deps.Record, error) {
	var f pyproject
	if _, err := toml.Decode(content, &f); err != nil {
		return p.scan(path, content), nil
	}

	poetry := f.Tool.Poetry
	prod := deps.TOMLVersions(poetry.Dependencies, isPython)
	dev := deps.TOMLVersions(poetry.DevDependencies, isPython)
	for name, version := range deps.TOMLVersions(poetry.Group["dev"].Dependencies, isPython) {
		dev[name] = version
	}

	if len(poetry.Dependencies) == 0 && len(poetry.DevDependencies) == 0 && len(poetry.Group) == 0 {
		prod = requirementList(f.Project.Dependencies)
		dev = requirementList(f.Project.OptionalDependencies["dev"])
	}

	return deps.NewRecord(path, manifest.Poetry, prod, dev), nil
}

func (p *Poetry) scan(path, content string) *deps.Record {
	prod, dev := deps.ScanSections(content, deps.SectionRules{
		Header: func(h string, _ deps.Section) deps.Section {
			switch {
			case h == "[tool.poetry.dependencies]":
				return deps.SectionProduction
			case poetryDevHeader.MatchString(h):
				return deps.SectionDevelopment
			}
			return deps.SectionNone
		},
		Entry: poetryEntryRegex,
		Skip:  isPython,
	})
	return deps.NewRecord(path, manifest.Poetry, prod, dev)
}

// requirementList parses PEP 508 strings ("requests>=2.0; python_version>'3'").
func requirementList(reqs []string) map[string]string {
	out := make(map[string]string, len(reqs))
	for _, req := range reqs {
		if i := strings.Index(req, ";"); i >= 0 {
			req = req[:i]
		}
		if name, version, ok := parseRequirement(strings.TrimSpace(req)); ok {
			out[name] = version
		}
	}
	return out
}
