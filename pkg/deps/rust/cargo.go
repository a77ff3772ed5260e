// Package rust parses Cargo.toml manifests.
package rust

import (
	"regexp"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/gitmaster/pkg/deps"
	"github.com/matzehuels/gitmaster/pkg/manifest"
)

var cargoEntryRegex = regexp.MustCompile(`^([a-zA-Z0-9_-]+)\s*=\s*"?(.+?)"?\s*$`)

// CargoToml parses Cargo.toml files. [dependencies] is production and
// [dev-dependencies] is development; [dependencies.<name>] sub-tables belong
// to their parent section.
type CargoToml struct{}

func (c *CargoToml) Ecosystem() manifest.Ecosystem { return manifest.Cargo }
func (c *CargoToml) Supports(name string) bool     { return strings.EqualFold(name, "cargo.toml") }

type cargoFile struct {
	Dependencies    map[string]any `toml:"dependencies"`
	DevDependencies map[string]any `toml:"dev-dependencies"`
}

func (c *CargoToml) Parse(path, content string) (*deps.Record, error) {
	var cargo cargoFile
	if _, err := toml.Decode(content, &cargo); err == nil {
		return deps.NewRecord(path, manifest.Cargo,
			deps.TOMLVersions(cargo.Dependencies, nil),
			deps.TOMLVersions(cargo.DevDependencies, nil)), nil
	}

	prod, dev := deps.ScanSections(content, deps.SectionRules{
		Header: cargoSection,
		Entry:  cargoEntryRegex,
	})
	return deps.NewRecord(path, manifest.Cargo, prod, dev), nil
}

func cargoSection(h string, current deps.Section) deps.Section {
	switch {
	case h == "[dependencies]":
		return deps.SectionProduction
	case h == "[dev-dependencies]":
		return deps.SectionDevelopment
	case strings.HasPrefix(h, "[dependencies."), strings.HasPrefix(h, "[dev-dependencies."):
		return current
	}
	return deps.SectionNone
}
