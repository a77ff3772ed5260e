package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/gitmaster/pkg/analysis"
	"github.com/matzehuels/gitmaster/pkg/repo"
	"github.com/matzehuels/gitmaster/pkg/source"
)

// sampleResult analyzes a small Express service.
func sampleResult(t *testing.T) *analysis.Result {
	t.Helper()
	res, err := analysis.Analyze(analysis.Input{
		Tree: repo.Tree{
			{Path: "package.json", Kind: repo.KindFile, Size: 120},
			{Path: "README.md", Kind: repo.KindFile, Size: 40},
			{Path: "src", Kind: repo.KindDirectory},
			{Path: "src/index.js", Kind: repo.KindFile, Size: 300},
			{Path: "src/routes.js", Kind: repo.KindFile, Size: 200},
		},
		Manifests: map[string]string{
			"package.json": `{"dependencies": {"express": "^4.18.2"}, "devDependencies": {"jest": "29.0.0"}}`,
		},
		Description: "Demo service",
	})
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}
	res.ID = "a1b2"
	res.Repository = &source.Metadata{FullName: "octo/app", DefaultBranch: "main", Revision: "0123456789abcdef"}
	return res
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		format  string
		output  string
		want    string
		wantErr bool
	}{
		{"", "", FormatText, false},
		{"json", "", FormatJSON, false},
		{"YAML", "", FormatYAML, false},
		{"", "out.json", FormatJSON, false},
		{"", "out.yml", FormatYAML, false},
		{"", "arch.gv", FormatDOT, false},
		{"", "report.txt", FormatText, false},
		{"text", "out.json", FormatText, false},
		{"xml", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.format+"|"+tt.output, func(t *testing.T) {
			got, err := parseFormat(tt.format, tt.output)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseFormat() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("parseFormat(%q, %q) = %q, want %q", tt.format, tt.output, got, tt.want)
			}
		})
	}
}

func TestWriteResult(t *testing.T) {
	res := sampleResult(t)

	tests := []struct {
		format string
		want   []string
	}{
		{FormatJSON, []string{`"projectType": "Backend Service / API"`, `"id": "a1b2"`}},
		{FormatYAML, []string{"projectType: Backend Service / API", "fullName: octo/app", "totalCount: 2"}},
		{FormatDOT, []string{"digraph", "ext-npm"}},
		{FormatText, []string{"octo/app", "Express", "package.json", "Backend Service / API"}},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			var buf bytes.Buffer
			if err := writeResult(&buf, tt.format, res); err != nil {
				t.Fatalf("writeResult() error = %v", err)
			}
			for _, want := range tt.want {
				if !strings.Contains(buf.String(), want) {
					t.Errorf("%s output missing %q:\n%s", tt.format, want, buf.String())
				}
			}
		})
	}
}

func TestWriteResult_YAMLKeepsJSONOrder(t *testing.T) {
	var buf bytes.Buffer
	if err := writeResult(&buf, FormatYAML, sampleResult(t)); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	id, deps := strings.Index(out, "id:"), strings.Index(out, "dependencies:")
	if id < 0 || deps < 0 || id > deps {
		t.Errorf("yaml keys out of order: id at %d, dependencies at %d", id, deps)
	}
	if strings.Contains(out, `"projectType"`) {
		t.Error("yaml keys should not keep their JSON quotes")
	}
}

func TestWriteResultFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reports", "app.json")
	if err := writeResultFile(path, FormatJSON, sampleResult(t)); err != nil {
		t.Fatalf("writeResultFile() error = %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var res analysis.Result
	if err := json.Unmarshal(data, &res); err != nil {
		t.Fatalf("written file is not JSON: %v", err)
	}
	if res.Dependencies.TotalCount != 2 {
		t.Errorf("TotalCount = %d, want 2", res.Dependencies.TotalCount)
	}
}

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		n    int64
		want string
	}{
		{0, "0 B"},
		{1023, "1023 B"},
		{1024, "1.0 KiB"},
		{1536, "1.5 KiB"},
		{5 << 20, "5.0 MiB"},
	}
	for _, tt := range tests {
		if got := formatBytes(tt.n); got != tt.want {
			t.Errorf("formatBytes(%d) = %q, want %q", tt.n, got, tt.want)
		}
	}
}
