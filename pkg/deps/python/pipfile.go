package python

import (
	"regexp"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/gitmaster/pkg/deps"
	"github.com/matzehuels/gitmaster/pkg/manifest"
)

var pipfileEntryRegex = regexp.MustCompile(`^"?([a-zA-Z0-9_.-]+)"?\s*=\s*"?(.+?)"?\s*$`)

// Pipfile parses Pipenv manifests. [packages] is production and
// [dev-packages] is development.
type Pipfile struct{}

func (p *Pipfile) Ecosystem() manifest.Ecosystem { return manifest.Pipenv }
func (p *Pipfile) Supports(name string) bool     { return name == "Pipfile" }

type pipfile struct {
	Packages    map[string]any `toml:"packages"`
	DevPackages map[string]any `toml:"dev-packages"`
}

func (p *Pipfile) Parse(path, content string) (*deps.Record, error) {
	var f pipfile
	if _, err := toml.Decode(content, &f); err == nil {
		return deps.NewRecord(path, manifest.Pipenv,
			deps.TOMLVersions(f.Packages, nil),
			deps.TOMLVersions(f.DevPackages, nil)), nil
	}

	prod, dev := deps.ScanSections(content, deps.SectionRules{
		Header: func(h string, _ deps.Section) deps.Section {
			switch h {
			case "[packages]":
				return deps.SectionProduction
			case "[dev-packages]":
				return deps.SectionDevelopment
			}
			return deps.SectionNone
		},
		Entry: pipfileEntryRegex,
	})
	return deps.NewRecord(path, manifest.Pipenv, prod, dev), nil
}
