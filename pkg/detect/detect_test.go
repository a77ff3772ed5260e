package detect

import (
	"math"
	"testing"

	"github.com/matzehuels/gitmaster/pkg/deps"
	"github.com/matzehuels/gitmaster/pkg/manifest"
	"github.com/matzehuels/gitmaster/pkg/repo"
)

func info(records ...*deps.Record) deps.Info {
	var rs []deps.Record
	for _, r := range records {
		rs = append(rs, *r)
	}
	return deps.Aggregate(rs)
}

func find(fws []Framework, name string) (Framework, bool) {
	for _, fw := range fws {
		if fw.Name == name {
			return fw, true
		}
	}
	return Framework{}, false
}

func TestDetect_ReactDependencyOnly(t *testing.T) {
	tree := repo.Tree{
		{Path: "package.json", Kind: repo.KindFile},
		{Path: "src", Kind: repo.KindDirectory},
		{Path: "src/index.js", Kind: repo.KindFile},
	}
	in := info(deps.NewRecord("package.json", manifest.NPM,
		map[string]string{"react": "18.2.0"},
		map[string]string{"jest": "29.0.0"}))

	fws := Detect(tree, in)
	react, ok := find(fws, "React")
	if !ok {
		t.Fatal("React not detected")
	}
	if math.Abs(react.Confidence-1.0/3.0) > 1e-9 {
		t.Errorf("React confidence = %v, want 1/3", react.Confidence)
	}
	if react.Version != "18.2.0" {
		t.Errorf("React version = %q, want 18.2.0", react.Version)
	}
	if react.DetectedFrom != "dependency: react" {
		t.Errorf("React detectedFrom = %q, want %q", react.DetectedFrom, "dependency: react")
	}

	jest, ok := find(fws, "Jest")
	if !ok || jest.Version != "29.0.0" || jest.Confidence != 0.5 {
		t.Errorf("Jest = %+v, want version 29.0.0 confidence 0.5", jest)
	}
}

func TestDetect_CaseInsensitiveDependency(t *testing.T) {
	lower := Detect(nil, info(deps.NewRecord("package.json", manifest.NPM, map[string]string{"react": "18"}, nil)))
	upper := Detect(nil, info(deps.NewRecord("package.json", manifest.NPM, map[string]string{"React": "18"}, nil)))

	if len(lower) != len(upper) {
		t.Fatalf("len = %d vs %d", len(lower), len(upper))
	}
	for i := range lower {
		if lower[i] != upper[i] {
			t.Errorf("detections differ at %d: %+v vs %+v", i, lower[i], upper[i])
		}
	}
}

func TestDetect_FileAndDirectoryIndicators(t *testing.T) {
	tree := repo.Tree{
		{Path: ".github", Kind: repo.KindDirectory},
		{Path: ".github/workflows", Kind: repo.KindDirectory},
		{Path: "Dockerfile", Kind: repo.KindFile},
		{Path: "web/App.TSX", Kind: repo.KindFile},
	}

	fws := Detect(tree, deps.Aggregate(nil))

	tests := []struct {
		name       string
		confidence float64
		from       string
	}{
		{"GitHub Actions", 1, "directory: .github/workflows"},
		{"Docker", 0.5, "file: Dockerfile"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fw, ok := find(fws, tt.name)
			if !ok {
				t.Fatalf("%s not detected", tt.name)
			}
			if fw.Confidence != tt.confidence || fw.DetectedFrom != tt.from {
				t.Errorf("%s = %+v, want confidence %v from %q", tt.name, fw, tt.confidence, tt.from)
			}
		})
	}

	react, ok := find(fws, "React")
	if !ok || react.DetectedFrom != "file: tsx" || react.Version != "" {
		t.Errorf("React = %+v, want file: tsx without version", react)
	}
}

func TestDetect_OrderingAndBounds(t *testing.T) {
	tree := repo.Tree{{Path: "Dockerfile", Kind: repo.KindFile}, {Path: "docker-compose.yml", Kind: repo.KindFile}}
	in := info(deps.NewRecord("package.json", manifest.NPM,
		map[string]string{"express": "4", "react": "18", "typescript": "5"}, nil))

	fws := Detect(tree, in)
	for i, fw := range fws {
		if fw.Confidence <= 0 || fw.Confidence > 1 {
			t.Errorf("%s confidence = %v out of (0,1]", fw.Name, fw.Confidence)
		}
		if i > 0 && fws[i-1].Confidence < fw.Confidence {
			t.Errorf("not sorted at %d: %v < %v", i, fws[i-1].Confidence, fw.Confidence)
		}
	}

	// Express and Docker both score 1; Express is declared first.
	if fws[0].Name != "Express" || fws[1].Name != "Docker" {
		t.Errorf("first = %s, %s; want Express, Docker", fws[0].Name, fws[1].Name)
	}
}

func TestDetect_VersionFirstManifestWins(t *testing.T) {
	in := info(
		deps.NewRecord("a/package.json", manifest.NPM, nil, map[string]string{"vite": "4.0.0"}),
		deps.NewRecord("b/package.json", manifest.NPM, map[string]string{"vite": "5.0.0"}, nil),
	)

	fws := Detect(nil, in)
	vite, ok := find(fws, "Vite")
	if !ok || vite.Version != "4.0.0" {
		t.Errorf("Vite = %+v, want version 4.0.0", vite)
	}
}

func TestDetectWith_EmptySignature(t *testing.T) {
	sigs := []Signature{{Name: "Empty", Category: CategoryUtility}}
	if got := DetectWith(sigs, NewEvidence(nil, deps.Aggregate(nil))); len(got) != 0 {
		t.Errorf("DetectWith() = %v, want none", got)
	}
}

func TestSignaturesTable(t *testing.T) {
	sigs := Signatures()
	if len(sigs) != 43 {
		t.Errorf("len(Signatures()) = %d, want 43", len(sigs))
	}
	for _, sig := range sigs {
		seenNonDep := false
		for _, ind := range sig.Indicators {
			if ind.Kind != IndicatorDependency {
				seenNonDep = true
			} else if seenNonDep {
				t.Errorf("%s: dependency indicator after file/directory indicator", sig.Name)
			}
		}
	}
}
