// Package manifest locates dependency manifests in a repository listing.
//
// Each supported ecosystem is identified by one filename pattern. Patterns are
// tried in a fixed priority order and the first match tags the file, so a path
// never belongs to two ecosystems. Files below vendored or generated
// directories are ignored.
package manifest

import (
	"path"
	"regexp"

	"github.com/matzehuels/gitmaster/pkg/repo"
)

// Ecosystem identifies a package-manager convention.
type Ecosystem string

const (
	NPM      Ecosystem = "npm"
	Maven    Ecosystem = "maven"
	Gradle   Ecosystem = "gradle"
	Pip      Ecosystem = "pip"
	Pipenv   Ecosystem = "pipenv"
	Poetry   Ecosystem = "poetry"
	Cargo    Ecosystem = "cargo"
	Go       Ecosystem = "go"
	Gemfile  Ecosystem = "gemfile"
	Composer Ecosystem = "composer"
	NuGet    Ecosystem = "nuget"
)

// Location is a manifest file found in a tree.
type Location struct {
	Path      string    `json:"path"`
	Ecosystem Ecosystem `json:"ecosystem"`
}

type pattern struct {
	ecosystem Ecosystem
	re        *regexp.Regexp
}

// patterns are matched against the basename, in priority order.
var patterns = []pattern{
	{NPM, regexp.MustCompile(`^package\.json$`)},
	{Maven, regexp.MustCompile(`^pom\.xml$`)},
	{Gradle, regexp.MustCompile(`^build\.gradle(\.kts)?$`)},
	{Pip, regexp.MustCompile(`^requirements\.txt$`)},
	{Pipenv, regexp.MustCompile(`^Pipfile$`)},
	{Poetry, regexp.MustCompile(`^pyproject\.toml$`)},
	{Cargo, regexp.MustCompile(`^Cargo\.toml$`)},
	{Go, regexp.MustCompile(`^go\.mod$`)},
	{Gemfile, regexp.MustCompile(`^Gemfile$`)},
	{Composer, regexp.MustCompile(`^composer\.json$`)},
	{NuGet, regexp.MustCompile(`^.*\.csproj$`)},
}

// ExcludedDirs are directory names whose contents are never scanned.
var ExcludedDirs = map[string]bool{
	"node_modules": true,
	"vendor":       true,
	".git":         true,
	"dist":         true,
	"build":        true,
	"target":       true,
	"__pycache__":  true,
}

// Ecosystems returns every supported ecosystem in priority order.
func Ecosystems() []Ecosystem {
	out := make([]Ecosystem, len(patterns))
	for i, p := range patterns {
		out[i] = p.ecosystem
	}
	return out
}

// Match returns the ecosystem of a file path, or false if the path is not a
// manifest or lies under an excluded directory.
func Match(p string) (Ecosystem, bool) {
	if repo.HasSegment(repo.Dir(p), ExcludedDirs) {
		return "", false
	}
	base := path.Base(p)
	for _, pat := range patterns {
		if pat.re.MatchString(base) {
			return pat.ecosystem, true
		}
	}
	return "", false
}

// Scan returns every manifest file of the tree in tree order.
func Scan(t repo.Tree) []Location {
	var out []Location
	for _, item := range t {
		if !item.IsFile() {
			continue
		}
		if eco, ok := Match(item.Path); ok {
			out = append(out, Location{Path: item.Path, Ecosystem: eco})
		}
	}
	return out
}

// Paths returns the paths of locs.
func Paths(locs []Location) []string {
	out := make([]string, len(locs))
	for i, l := range locs {
		out[i] = l.Path
	}
	return out
}
