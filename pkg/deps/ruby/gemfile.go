// Package ruby parses Bundler Gemfiles.
package ruby

import (
	"bufio"
	"regexp"
	"strings"

	"github.com/matzehuels/gitmaster/pkg/deps"
	"github.com/matzehuels/gitmaster/pkg/manifest"
)

var (
	gemRegex      = regexp.MustCompile(`^gem\s+['"]([^'"]+)['"]\s*(?:,\s*['"](.+?)['"])?`)
	devGroupRegex = regexp.MustCompile(`^group\s+.*:development\b`)
)

// Gemfile parses Gemfile declarations. Gems inside a group block that lists
// :development are development; everything else is production.
type Gemfile struct{}

func (g *Gemfile) Ecosystem() manifest.Ecosystem { return manifest.Gemfile }
func (g *Gemfile) Supports(name string) bool     { return name == "Gemfile" }

func (g *Gemfile) Parse(path, content string) (*deps.Record, error) {
	prod := make(map[string]string)
	dev := make(map[string]string)
	inDev := false

	scanner := bufio.NewScanner(strings.NewReader(content))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		if devGroupRegex.MatchString(line) {
			inDev = true
			continue
		}
		if line == "end" {
			inDev = false
			continue
		}

		m := gemRegex.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		version := m[2]
		if version == "" {
			version = deps.DefaultVersion
		}
		if inDev {
			dev[m[1]] = version
		} else {
			prod[m[1]] = version
		}
	}

	return deps.NewRecord(path, manifest.Gemfile, prod, dev), nil
}
