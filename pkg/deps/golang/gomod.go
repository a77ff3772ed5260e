// Package golang parses go.mod manifests.
package golang

import (
	"bufio"
	"regexp"
	"strings"

	"golang.org/x/mod/modfile"

	"github.com/matzehuels/gitmaster/pkg/deps"
	"github.com/matzehuels/gitmaster/pkg/manifest"
)

// GoModParser parses go.mod files. Both require blocks and single-line
// require statements are read, indirect requirements included. Go has no
// development dependency concept.
type GoModParser struct{}

func (p *GoModParser) Ecosystem() manifest.Ecosystem { return manifest.Go }
func (p *GoModParser) Supports(name string) bool     { return name == "go.mod" }

func (p *GoModParser) Parse(path, content string) (*deps.Record, error) {
	f, err := modfile.ParseLax(path, []byte(content), nil)
	if err != nil {
		return deps.NewRecord(path, manifest.Go, scanRequires(content), nil), nil
	}

	prod := make(map[string]string, len(f.Require))
	for _, r := range f.Require {
		prod[r.Mod.Path] = r.Mod.Version
	}
	return deps.NewRecord(path, manifest.Go, prod, nil), nil
}

var (
	requireLine   = regexp.MustCompile(`^(\S+)\s+(v\S+)`)
	requireSingle = regexp.MustCompile(`^require\s+(\S+)\s+(v\S+)`)
)

// scanRequires reads require directives line by line for files modfile rejects.
func scanRequires(content string) map[string]string {
	prod := make(map[string]string)
	inRequire := false

	scanner := bufio.NewScanner(strings.NewReader(content))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		if strings.HasPrefix(line, "require (") || line == "require(" {
			inRequire = true
			continue
		}
		if inRequire && strings.HasPrefix(line, ")") {
			inRequire = false
			continue
		}

		var m []string
		if inRequire {
			m = requireLine.FindStringSubmatch(line)
		} else {
			m = requireSingle.FindStringSubmatch(line)
		}
		if m != nil {
			prod[m[1]] = m[2]
		}
	}
	return prod
}
