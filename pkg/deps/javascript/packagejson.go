// Package javascript parses npm package.json manifests.
package javascript

import (
	"encoding/json"
	"strings"

	"github.com/matzehuels/gitmaster/pkg/deps"
	"github.com/matzehuels/gitmaster/pkg/manifest"
)

// PackageJSON parses package.json files. dependencies are production,
// devDependencies are development.
type PackageJSON struct{}

func (p *PackageJSON) Ecosystem() manifest.Ecosystem { return manifest.NPM }
func (p *PackageJSON) Supports(name string) bool     { return strings.EqualFold(name, "package.json") }

func (p *PackageJSON) Parse(path, content string) (*deps.Record, error) {
	var pkg packageFile
	if err := json.Unmarshal([]byte(content), &pkg); err != nil {
		return nil, err
	}
	return deps.NewRecord(path, manifest.NPM, versions(pkg.Dependencies), versions(pkg.DevDependencies)), nil
}

type packageFile struct {
	Name            string                     `json:"name"`
	Version         string                     `json:"version"`
	Dependencies    map[string]json.RawMessage `json:"dependencies"`
	DevDependencies map[string]json.RawMessage `json:"devDependencies"`
}

// versions keeps string constraints verbatim and stringifies anything else,
// so a stray non-string value does not discard the whole manifest.
func versions(raw map[string]json.RawMessage) map[string]string {
	if len(raw) == 0 {
		return nil
	}
	out := make(map[string]string, len(raw))
	for name, v := range raw {
		var s string
		if err := json.Unmarshal(v, &s); err != nil {
			s = string(v)
		}
		out[name] = s
	}
	return out
}
