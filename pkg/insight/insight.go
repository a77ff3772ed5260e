// Package insight classifies a repository from its tree, manifests and
// detected frameworks.
//
// The classification is heuristic and purely name based: project type from
// framework categories and conventional directories, structure from where
// manifests live, plus entry points, config files, key directories and a set
// of project health flags.
package insight

import (
	"path"
	"regexp"
	"strings"

	"github.com/matzehuels/gitmaster/pkg/deps"
	"github.com/matzehuels/gitmaster/pkg/detect"
	"github.com/matzehuels/gitmaster/pkg/manifest"
	"github.com/matzehuels/gitmaster/pkg/repo"
)

// Project types.
const (
	TypeFullStack = "Full-Stack Application"
	TypeFrontend  = "Frontend Application"
	TypeBackend   = "Backend Service / API"
	TypeLibrary   = "Library / Package"
	TypeCLI       = "CLI Tool"
	TypeApp       = "Application"
	TypeProject   = "Project"
)

// Repository structures.
const (
	StructureMonorepo     = "Monorepo"
	StructureMultiModule  = "Multi-Module"
	StructureFrontBackend = "Multi-Module (Frontend + Backend)"
	StructureSingle       = "Single Module"
)

// rootBucket groups manifests at the repository root when counting
// manifest parents.
const rootBucket = "root"

// Insight is the classification of one repository.
type Insight struct {
	ProjectType    string             `json:"projectType"`
	Structure      string             `json:"structure"`
	Frameworks     []detect.Framework `json:"frameworks"`
	BuildTools     []string           `json:"buildTools"`
	HasTests       bool               `json:"hasTests"`
	HasCI          bool               `json:"hasCI"`
	HasDocs        bool               `json:"hasDocs"`
	HasDocker      bool               `json:"hasDocker"`
	HasLicense     bool               `json:"hasLicense"`
	EntryPoints    []string           `json:"entryPoints"`
	ConfigFiles    []string           `json:"configFiles"`
	KeyDirectories []string           `json:"keyDirectories"`
}

var (
	npmEntryCandidates = []string{
		"src/index.ts", "src/index.js", "src/main.ts", "src/main.tsx", "src/app.ts",
		"index.ts", "index.js", "server.ts", "server.js",
	}
	globalEntryCandidates = []string{
		"main.py", "app.py", "manage.py", "main.go", "cmd/main.go", "src/main.rs", "src/lib.rs",
	}

	keyDirNames = setOf(
		"src", "lib", "app", "api", "pages", "components", "services",
		"utils", "hooks", "models", "controllers", "routes", "middleware",
		"public", "static", "assets", "config", "scripts", "test", "tests",
		"docs", "packages", "apps", "frontend", "backend", "server", "client",
	)
	testDirNames = setOf("test", "tests", "__tests__", "spec", "specs")

	configFileRegex = regexp.MustCompile(`^(\..+rc\.?(js|json|yml|yaml|cjs|mjs)?|tsconfig.*\.json|jest\.config.*|vite\.config.*|webpack\.config.*|next\.config.*|nuxt\.config.*|tailwind\.config.*|postcss\.config.*|babel\.config.*|\.env\.example|Makefile|Dockerfile|docker-compose.*|\.gitignore|\.editorconfig|\.prettierrc.*|\.eslintrc.*)$`)
	testFileRegex   = regexp.MustCompile(`\.(test|spec)\.(ts|tsx|js|jsx|py|rb)$`)
	docsFileRegex   = regexp.MustCompile(`(?i)^(README|CONTRIBUTING|CHANGELOG|docs/)`)
	dockerFileRegex = regexp.MustCompile(`(?i)(Dockerfile|docker-compose)`)
	licenseRegex    = regexp.MustCompile(`(?i)^LICENSE`)
	cliPathRegex    = regexp.MustCompile(`^(cli|bin)/`)
)

// Classify derives the full insight. frameworks is the output of detection
// and is carried through unchanged.
func Classify(t repo.Tree, info deps.Info, frameworks []detect.Framework) Insight {
	var files, dirs []string
	for _, item := range t {
		if item.IsFile() {
			files = append(files, item.Path)
		} else {
			dirs = append(dirs, item.Path)
		}
	}
	fileSet := make(map[string]bool, len(files))
	for _, f := range files {
		fileSet[f] = true
	}

	if frameworks == nil {
		frameworks = []detect.Framework{}
	}

	return Insight{
		ProjectType:    ProjectType(frameworks, files, dirs),
		Structure:      Structure(dirs, info.Manifests),
		Frameworks:     frameworks,
		BuildTools:     buildTools(frameworks),
		HasTests:       hasTests(files, dirs),
		HasCI:          hasCI(files, dirs),
		HasDocs:        hasDocs(files, dirs),
		HasDocker:      anyMatch(files, dockerFileRegex),
		HasLicense:     anyMatch(files, licenseRegex),
		EntryPoints:    EntryPoints(fileSet, info.Manifests),
		ConfigFiles:    ConfigFiles(files),
		KeyDirectories: KeyDirectories(dirs),
	}
}

// ProjectType applies the type rules in order; the first that holds wins.
func ProjectType(frameworks []detect.Framework, files, dirs []string) string {
	frontend := hasCategory(frameworks, detect.CategoryFrontend)
	backend := hasCategory(frameworks, detect.CategoryBackend)

	switch {
	case frontend && backend:
		return TypeFullStack
	case frontend:
		return TypeFrontend
	case backend:
		return TypeBackend
	case contains(files, "index.d.ts") || contains(dirs, "lib") || contains(dirs, "src/lib"):
		return TypeLibrary
	case anyMatch(files, cliPathRegex):
		return TypeCLI
	case contains(dirs, "src"):
		return TypeApp
	}
	return TypeProject
}

// Structure classifies the repository layout from the distinct parent
// directories of its manifests. Two module parents make a multi-module
// repository unless both sit below packages/ or apps/. Otherwise a top-level
// packages or apps directory marks a workspace monorepo.
func Structure(dirs []string, manifests []deps.Record) string {
	parents := make(map[string]bool)
	inWorkspace := len(manifests) > 0
	for _, m := range manifests {
		d := m.Dir()
		if d == "" {
			d = rootBucket
		}
		parents[d] = true
		if !strings.HasPrefix(d, "packages/") && !strings.HasPrefix(d, "apps/") {
			inWorkspace = false
		}
	}

	switch {
	case len(parents) > 2:
		return StructureMonorepo
	case len(parents) == 2 && !parents[rootBucket]:
		// Two workspace packages are still a monorepo.
		if inWorkspace {
			return StructureMonorepo
		}
		return StructureMultiModule
	case contains(dirs, "packages") || contains(dirs, "apps"):
		return StructureMonorepo
	case (contains(dirs, "frontend") || contains(dirs, "client")) &&
		(contains(dirs, "backend") || contains(dirs, "server") || contains(dirs, "api")):
		return StructureFrontBackend
	}
	return StructureSingle
}

// EntryPoints finds conventional entry files. Each npm manifest contributes
// the first existing candidate relative to its directory; global candidates
// are checked at the repository root. Duplicates are dropped, discovery
// order is kept.
func EntryPoints(files map[string]bool, manifests []deps.Record) []string {
	out := []string{}
	seen := make(map[string]bool)
	add := func(p string) {
		if !seen[p] {
			seen[p] = true
			out = append(out, p)
		}
	}

	for _, m := range manifests {
		if m.Ecosystem != manifest.NPM {
			continue
		}
		dir := m.Dir()
		for _, candidate := range npmEntryCandidates {
			full := candidate
			if dir != "" {
				full = dir + "/" + candidate
			}
			if files[full] {
				add(full)
				break
			}
		}
	}

	for _, candidate := range globalEntryCandidates {
		if files[candidate] {
			add(candidate)
		}
	}
	return out
}

// ConfigFiles returns files whose basename follows a config naming convention.
func ConfigFiles(files []string) []string {
	out := []string{}
	for _, f := range files {
		if configFileRegex.MatchString(path.Base(f)) {
			out = append(out, f)
		}
	}
	return out
}

// KeyDirectories returns directories at depth one or two whose name is
// architecturally significant.
func KeyDirectories(dirs []string) []string {
	out := []string{}
	for _, d := range dirs {
		if keyDirNames[path.Base(d)] && repo.Depth(d) <= 2 {
			out = append(out, d)
		}
	}
	return out
}

func buildTools(frameworks []detect.Framework) []string {
	out := []string{}
	for _, fw := range frameworks {
		if fw.Category == detect.CategoryBuild {
			out = append(out, fw.Name)
		}
	}
	return out
}

func hasTests(files, dirs []string) bool {
	for _, d := range dirs {
		if testDirNames[path.Base(d)] {
			return true
		}
	}
	return anyMatch(files, testFileRegex)
}

func hasCI(files, dirs []string) bool {
	for _, d := range dirs {
		if strings.Contains(d, ".github/workflows") {
			return true
		}
	}
	for _, f := range files {
		if strings.Contains(f, ".gitlab-ci") || strings.Contains(f, "Jenkinsfile") || strings.Contains(f, ".circleci") {
			return true
		}
	}
	return false
}

func hasDocs(files, dirs []string) bool {
	return contains(dirs, "docs") || contains(dirs, "doc") || anyMatch(files, docsFileRegex)
}

func hasCategory(frameworks []detect.Framework, c detect.Category) bool {
	for _, fw := range frameworks {
		if fw.Category == c {
			return true
		}
	}
	return false
}

func anyMatch(paths []string, re *regexp.Regexp) bool {
	for _, p := range paths {
		if re.MatchString(p) {
			return true
		}
	}
	return false
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func setOf(names ...string) map[string]bool {
	m := make(map[string]bool, len(names))
	for _, n := range names {
		m[n] = true
	}
	return m
}
