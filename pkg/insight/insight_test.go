package insight

import (
	"reflect"
	"testing"

	"github.com/matzehuels/gitmaster/pkg/deps"
	"github.com/matzehuels/gitmaster/pkg/detect"
	"github.com/matzehuels/gitmaster/pkg/manifest"
	"github.com/matzehuels/gitmaster/pkg/repo"
)

func record(p string, eco manifest.Ecosystem) deps.Record {
	return *deps.NewRecord(p, eco, map[string]string{"x": "1"}, nil)
}

func TestProjectType(t *testing.T) {
	fe := detect.Framework{Name: "React", Category: detect.CategoryFrontend}
	be := detect.Framework{Name: "Express", Category: detect.CategoryBackend}

	tests := []struct {
		name       string
		frameworks []detect.Framework
		files      []string
		dirs       []string
		want       string
	}{
		{"full stack", []detect.Framework{fe, be}, nil, nil, TypeFullStack},
		{"frontend", []detect.Framework{fe}, nil, nil, TypeFrontend},
		{"backend", []detect.Framework{be}, nil, nil, TypeBackend},
		{"library by typings", nil, []string{"index.d.ts"}, nil, TypeLibrary},
		{"library by src/lib", nil, nil, []string{"src", "src/lib"}, TypeLibrary},
		{"cli", nil, []string{"bin/run"}, []string{"bin", "src"}, TypeCLI},
		{"application", nil, []string{"src/x.c"}, []string{"src"}, TypeApp},
		{"project", nil, []string{"README.md"}, nil, TypeProject},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ProjectType(tt.frameworks, tt.files, tt.dirs); got != tt.want {
				t.Errorf("ProjectType() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestStructure(t *testing.T) {
	tests := []struct {
		name      string
		dirs      []string
		manifests []deps.Record
		want      string
	}{
		{
			name: "three parents",
			manifests: []deps.Record{
				record("package.json", manifest.NPM),
				record("web/package.json", manifest.NPM),
				record("api/go.mod", manifest.Go),
			},
			want: StructureMonorepo,
		},
		{
			name: "workspace packages",
			dirs: []string{"packages", "packages/a", "packages/b"},
			manifests: []deps.Record{
				record("packages/a/package.json", manifest.NPM),
				record("packages/b/package.json", manifest.NPM),
			},
			want: StructureMonorepo,
		},
		{
			name: "workspace implied by manifest paths",
			manifests: []deps.Record{
				record("packages/a/package.json", manifest.NPM),
				record("packages/b/package.json", manifest.NPM),
			},
			want: StructureMonorepo,
		},
		{
			name: "two modules",
			manifests: []deps.Record{
				record("web/package.json", manifest.NPM),
				record("svc/go.mod", manifest.Go),
			},
			want: StructureMultiModule,
		},
		{
			name: "two modules beside an apps directory",
			dirs: []string{"apps", "frontend", "backend"},
			manifests: []deps.Record{
				record("frontend/package.json", manifest.NPM),
				record("backend/package.json", manifest.NPM),
			},
			want: StructureMultiModule,
		},
		{
			name: "root manifest with packages directory",
			dirs: []string{"packages", "packages/a"},
			manifests: []deps.Record{
				record("package.json", manifest.NPM),
				record("packages/a/package.json", manifest.NPM),
			},
			want: StructureMonorepo,
		},
		{
			name: "root plus one",
			dirs: []string{"docs"},
			manifests: []deps.Record{
				record("package.json", manifest.NPM),
				record("docs/package.json", manifest.NPM),
			},
			want: StructureSingle,
		},
		{
			name: "frontend and backend dirs",
			dirs: []string{"client", "server"},
			manifests: []deps.Record{
				record("package.json", manifest.NPM),
			},
			want: StructureFrontBackend,
		},
		{"no manifests", nil, nil, StructureSingle},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Structure(tt.dirs, tt.manifests); got != tt.want {
				t.Errorf("Structure() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestEntryPoints(t *testing.T) {
	files := map[string]bool{
		"web/src/main.tsx": true,
		"web/index.js":     true,
		"api/server.ts":    true,
		"main.go":          true,
		"cmd/main.go":      true,
		"src/index.ts":     true,
	}
	manifests := []deps.Record{
		record("web/package.json", manifest.NPM),
		record("api/package.json", manifest.NPM),
		record("package.json", manifest.NPM),
		record("go.mod", manifest.Go),
	}

	got := EntryPoints(files, manifests)
	want := []string{"web/src/main.tsx", "api/server.ts", "src/index.ts", "main.go", "cmd/main.go"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("EntryPoints() = %v, want %v", got, want)
	}
}

func TestConfigFiles(t *testing.T) {
	files := []string{
		".eslintrc.json", "web/tsconfig.base.json", "vite.config.ts", "Dockerfile",
		"docker-compose.prod.yml", ".gitignore", ".env.example", "Makefile",
		"src/main.go", "README.md", "config.yaml", ".babelrc",
	}
	got := ConfigFiles(files)
	want := []string{
		".eslintrc.json", "web/tsconfig.base.json", "vite.config.ts", "Dockerfile",
		"docker-compose.prod.yml", ".gitignore", ".env.example", "Makefile", ".babelrc",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ConfigFiles() = %v, want %v", got, want)
	}
}

func TestKeyDirectories(t *testing.T) {
	dirs := []string{"src", "src/components", "src/components/ui", "vendor", "apps/web/src", "server"}
	got := KeyDirectories(dirs)
	want := []string{"src", "src/components", "server"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("KeyDirectories() = %v, want %v", got, want)
	}
}

func TestClassify_HealthFlags(t *testing.T) {
	tree := repo.Tree{
		{Path: "README.md", Kind: repo.KindFile},
		{Path: "LICENSE", Kind: repo.KindFile},
		{Path: "Dockerfile", Kind: repo.KindFile},
		{Path: ".github", Kind: repo.KindDirectory},
		{Path: ".github/workflows", Kind: repo.KindDirectory},
		{Path: "src", Kind: repo.KindDirectory},
		{Path: "src/app.spec.ts", Kind: repo.KindFile},
	}
	frameworks := []detect.Framework{
		{Name: "Vite", Category: detect.CategoryBuild},
		{Name: "React", Category: detect.CategoryFrontend},
	}

	in := Classify(tree, deps.Aggregate(nil), frameworks)
	if !in.HasTests || !in.HasCI || !in.HasDocs || !in.HasDocker || !in.HasLicense {
		t.Errorf("flags = tests:%v ci:%v docs:%v docker:%v license:%v, want all true",
			in.HasTests, in.HasCI, in.HasDocs, in.HasDocker, in.HasLicense)
	}
	if !reflect.DeepEqual(in.BuildTools, []string{"Vite"}) {
		t.Errorf("BuildTools = %v, want [Vite]", in.BuildTools)
	}
	if in.ProjectType != TypeFrontend || in.Structure != StructureSingle {
		t.Errorf("type/structure = %q/%q", in.ProjectType, in.Structure)
	}

	empty := Classify(repo.Tree{{Path: "x.txt", Kind: repo.KindFile}}, deps.Aggregate(nil), nil)
	if empty.HasTests || empty.HasCI || empty.HasDocs || empty.HasDocker || empty.HasLicense {
		t.Errorf("flags on bare tree = %+v, want all false", empty)
	}
	if empty.EntryPoints == nil || empty.ConfigFiles == nil || empty.KeyDirectories == nil || empty.Frameworks == nil {
		t.Error("list fields should be empty slices, not nil")
	}
}
